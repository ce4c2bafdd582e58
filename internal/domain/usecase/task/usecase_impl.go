package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/gateway/db"
	"todo-api/internal/domain/gateway/queue"
	"todo-api/internal/domain/model"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
)

// DefaultPublishTimeout bounds how long a request waits on the event queue.
const DefaultPublishTimeout = 5 * time.Second

type taskUseCase struct {
	queueName      string
	gateway        db.TaskGateway
	queueSender    queue.Sender
	publishTimeout time.Duration
	now            func() time.Time
}

func NewTaskUseCase(gateway db.TaskGateway, queueSender queue.Sender, queueName string) UseCase {
	if queueSender == nil {
		queueSender = queue.NoopSender{}
	}
	return &taskUseCase{
		queueName:      queueName,
		gateway:        gateway,
		queueSender:    queueSender,
		publishTimeout: DefaultPublishTimeout,
		now:            time.Now,
	}
}

func (uc *taskUseCase) FindAll(ctx context.Context) ([]entity.Task, error) {
	return uc.gateway.FindAll(ctx)
}

func (uc *taskUseCase) Create(ctx context.Context, dto model.CreateTaskDTO) (*entity.Task, error) {
	if !dto.Title.Set || dto.Title.Null || dto.Title.Value == "" {
		return nil, &ValidationError{Field: "title", Message: msg.GetMessage("task.error.title-required")}
	}

	changes, err := toChanges(dto.TaskFields)
	if err != nil {
		return nil, err
	}

	task := entity.Task{
		Priority:    entity.DefaultPriority,
		IsCompleted: false,
	}
	changes.Apply(&task)

	created, err := uc.gateway.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, model.TaskCreated, created.ID, created)
	return created, nil
}

func (uc *taskUseCase) UpdateByID(ctx context.Context, id string, dto model.UpdateTaskDTO) (*entity.Task, error) {
	changes, err := toChanges(dto.TaskFields)
	if err != nil {
		return nil, err
	}

	updated, err := uc.gateway.UpdateByID(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, nil
	}

	uc.publish(ctx, model.TaskUpdated, updated.ID, updated)
	return updated, nil
}

func (uc *taskUseCase) DeleteByID(ctx context.Context, id string) error {
	if err := uc.gateway.DeleteByID(ctx, id); err != nil {
		return err
	}

	uc.publish(ctx, model.TaskDeleted, id, nil)
	return nil
}

// publish sends a task event within publishTimeout. Failures are logged and never reach the caller.
func (uc *taskUseCase) publish(ctx context.Context, eventType model.TaskEventType, taskID string, task *entity.Task) {
	ctx, cancel := context.WithTimeout(ctx, uc.publishTimeout)
	defer cancel()

	event := model.TaskEvent{
		Type:       eventType,
		TaskID:     taskID,
		Task:       task,
		OccurredAt: uc.now().UTC(),
	}

	if err := uc.queueSender.SendMessage(ctx, uc.queueName, event); err != nil {
		log.Warn(msg.GetMessage("task.event.send-failed", string(eventType), taskID, err),
			zap.String("queue", uc.queueName),
			zap.String("task_id", taskID),
			zap.Error(err))
	}
}
