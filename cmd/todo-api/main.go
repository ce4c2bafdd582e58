package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"todo-api/configs"
	"todo-api/docs"
	"todo-api/internal/application/controller"
	"todo-api/internal/application/middleware"
	"todo-api/internal/domain/usecase/health"
	"todo-api/internal/domain/usecase/task"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
	"todo-api/pkg/resource"
)

// @title Todo API
// @version 1.0
// @description CRUD service for to-do tasks
// @BasePath /api
func main() {
	if err := loadConfiguration(); err != nil {
		log.Fatal(msg.GetMessage("app.error.config", err), zap.Error(err))
	}
	log.Init(resource.GetStringOrDefault("app.name", configs.Env.ApplicationName), log.ParseLevel(configs.Env.LogLevel))
	defer log.Sync()

	log.Info(msg.GetMessage("app.start"))
	ctx := context.Background()

	// Init infra
	store, err := connectStore(ctx)
	if err != nil {
		log.Fatal(err.Error())
	}

	taskGateway, cacheHealthGateway, closeCache, err := connectCache(ctx, store.tasks)
	if err != nil {
		log.Fatal(err.Error())
	}

	queueSender, err := newQueueSender(ctx)
	if err != nil {
		log.Fatal(err.Error())
	}

	// Init UseCase
	healthUseCase := health.NewHealthUseCase(store.health, cacheHealthGateway)
	taskUseCase := task.NewTaskUseCase(taskGateway, queueSender, resource.GetString("app.events.queue"))

	// Init Echo
	contextPath := resource.GetStringOrDefault("app.server.context-path", "/api")
	docs.SwaggerInfo.BasePath = contextPath

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	middleware.SetupCORS(e)
	middleware.SetupRequestLogger(e, contextPath)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	api := e.Group(contextPath)

	// Init Controller
	healthController := controller.NewHealthController(api, healthUseCase)
	taskController := controller.NewTaskController(api, taskUseCase)

	// Init Routes
	healthController.InitHealthRoutes()
	taskController.InitTaskRoutes()

	// Start Routes
	port := resource.GetStringOrDefault("app.server.port", "5000")
	go func() {
		log.Info(msg.GetMessage("app.started", port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err.Error())
		}
	}()

	shutdownTimeout := resource.GetDuration("app.server.shutdown-timeout")
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}

	wait := gfshutdown.GracefulShutdown(ctx, shutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			log.Info(msg.GetMessage("app.stopping"))
			return e.Shutdown(ctx)
		},
		"cache": func(ctx context.Context) error {
			return closeCache()
		},
		"database": func(ctx context.Context) error {
			return store.close(ctx)
		},
	})
	exitCode := <-wait
	log.Sync()
	os.Exit(exitCode)
}
