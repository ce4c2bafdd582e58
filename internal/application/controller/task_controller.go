package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"todo-api/internal/domain/model"
	"todo-api/internal/domain/usecase/task"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
)

type TaskController struct {
	api     *echo.Group
	useCase task.UseCase
}

func NewTaskController(api *echo.Group, useCase task.UseCase) *TaskController {
	return &TaskController{api: api, useCase: useCase}
}

// InitTaskRoutes initializes task routes
func (controller *TaskController) InitTaskRoutes() {
	controller.api.GET("/tasks", controller.FindAll)
	controller.api.POST("/tasks", controller.Create)
	controller.api.PUT("/tasks/:id", controller.UpdateByID)
	controller.api.DELETE("/tasks/:id", controller.DeleteByID)
}

// FindAll godoc
// @Summary Get all tasks
// @Description Retrieve every stored task
// @Tags tasks
// @Produce json
// @Success 200 {array} entity.Task "List of tasks"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /tasks [get]
func (controller *TaskController) FindAll(c echo.Context) error {
	tasks, err := controller.useCase.FindAll(c.Request().Context())
	if err != nil {
		return controller.fail(c, err, "")
	}
	return c.JSON(http.StatusOK, tasks)
}

// Create godoc
// @Summary Create a new task
// @Description Create a task. Only title is required; priority defaults to Low and isCompleted to false
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body model.CreateTaskDTO true "Task creation data"
// @Success 201 {object} entity.Task "Created task"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /tasks [post]
func (controller *TaskController) Create(c echo.Context) error {
	var dto model.CreateTaskDTO
	if err := decodeBody(c, &dto); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg.GetMessage("request.error.invalid-body")})
	}

	created, err := controller.useCase.Create(c.Request().Context(), dto)
	if err != nil {
		return controller.fail(c, err, "")
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateByID godoc
// @Summary Update task by id
// @Description Replace the fields present in the body. Answers null when the id does not exist
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task id"
// @Param task body model.UpdateTaskDTO true "Task fields to replace"
// @Success 200 {object} entity.Task "Updated task or null"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /tasks/{id} [put]
func (controller *TaskController) UpdateByID(c echo.Context) error {
	id := c.Param("id")
	var dto model.UpdateTaskDTO
	if err := decodeBody(c, &dto); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg.GetMessage("request.error.invalid-body")})
	}

	updated, err := controller.useCase.UpdateByID(c.Request().Context(), id, dto)
	if err != nil {
		return controller.fail(c, err, id)
	}
	if updated == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteByID godoc
// @Summary Delete task by id
// @Description Delete a task. Answers the same message whether or not the id existed
// @Tags tasks
// @Produce json
// @Param id path string true "Task id"
// @Success 200 {object} map[string]string "Task deleted"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /tasks/{id} [delete]
func (controller *TaskController) DeleteByID(c echo.Context) error {
	id := c.Param("id")
	if err := controller.useCase.DeleteByID(c.Request().Context(), id); err != nil {
		return controller.fail(c, err, id)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": msg.GetMessage("task.deleted")})
}

func (controller *TaskController) fail(c echo.Context, err error, id string) error {
	var validationErr *task.ValidationError
	if errors.As(err, &validationErr) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": validationErr.Message})
	}

	log.Error(msg.GetMessage("task.error.persistence"),
		zap.String("method", c.Request().Method),
		zap.String("task_id", id),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": msg.GetMessage("task.error.persistence")})
}

var errTrailingData = errors.New("unexpected data after the JSON body")

// decodeBody rejects unknown fields and anything after the first JSON value.
// An empty body decodes as an empty object.
func decodeBody(c echo.Context, dest any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if err := decoder.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}
