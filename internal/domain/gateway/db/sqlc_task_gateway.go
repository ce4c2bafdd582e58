package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/model"
)

const taskColumns = `id, title, description, category, priority, is_completed, due_date, created_at, updated_at`

const createTasksTable = `
	CREATE TABLE IF NOT EXISTS tasks (
		id           VARCHAR(36) PRIMARY KEY,
		title        TEXT        NOT NULL,
		description  TEXT,
		category     TEXT,
		priority     VARCHAR(6)  NOT NULL DEFAULT 'Low' CHECK (priority IN ('High', 'Medium', 'Low')),
		is_completed BOOLEAN     NOT NULL DEFAULT FALSE,
		due_date     TIMESTAMPTZ,
		created_at   TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL
	)`

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

type SQLCTaskGateway struct {
	DB  *sql.DB
	now func() time.Time
}

var (
	_ TaskGateway = (*SQLCTaskGateway)(nil)
	_ Migrator    = (*SQLCTaskGateway)(nil)
)

func NewSQLCTaskGateway(db *sql.DB) *SQLCTaskGateway {
	return &SQLCTaskGateway{DB: db, now: time.Now}
}

func (gateway *SQLCTaskGateway) Migrate(ctx context.Context) error {
	if _, err := gateway.DB.ExecContext(ctx, createTasksTable); err != nil {
		return persistenceError("migrate tasks", err)
	}
	return nil
}

func (gateway *SQLCTaskGateway) FindAll(ctx context.Context) (tasks []entity.Task, err error) {
	rows, err := gateway.DB.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		ORDER BY created_at`)
	if err != nil {
		return nil, persistenceError("find tasks", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			tasks, err = nil, persistenceError("close task rows", closeErr)
		}
	}()

	tasks = make([]entity.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, persistenceError("scan task", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError("iterate tasks", err)
	}
	return tasks, nil
}

func (gateway *SQLCTaskGateway) Create(ctx context.Context, task entity.Task) (*entity.Task, error) {
	prepared, err := prepareNew(task, gateway.now(), sqlPrecision)
	if err != nil {
		return nil, err
	}
	prepared.ID = uuid.NewString()

	_, err = gateway.DB.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		prepared.ID, prepared.Title, prepared.Description, prepared.Category, string(prepared.Priority),
		prepared.IsCompleted, prepared.DueDate, prepared.CreatedAt, prepared.UpdatedAt)
	if err != nil {
		return nil, persistenceError("create task", err)
	}

	return &prepared, nil
}

func (gateway *SQLCTaskGateway) UpdateByID(ctx context.Context, id string, changes model.TaskChanges) (*entity.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, malformedIDError(id)
	}

	tx, err := gateway.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, persistenceError("begin update of task "+id, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	task, err := scanTask(tx.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1
		FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("find task "+id, err)
	}

	previous := task.UpdatedAt
	changes.Apply(task)
	if err := checkConstraints(*task); err != nil {
		return nil, err
	}
	normalize(task, sqlPrecision)
	task.UpdatedAt = nextUpdatedAt(previous, gateway.now(), sqlPrecision)

	_, err = tx.ExecContext(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, category = $3, priority = $4,
		    is_completed = $5, due_date = $6, updated_at = $7
		WHERE id = $8`,
		task.Title, task.Description, task.Category, string(task.Priority),
		task.IsCompleted, task.DueDate, task.UpdatedAt, id)
	if err != nil {
		return nil, persistenceError("update task "+id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, persistenceError("commit update of task "+id, err)
	}
	return task, nil
}

func (gateway *SQLCTaskGateway) DeleteByID(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return malformedIDError(id)
	}
	if _, err := gateway.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id); err != nil {
		return persistenceError("delete task "+id, err)
	}
	return nil
}

func scanTask(row rowScanner) (*entity.Task, error) {
	var task entity.Task
	var priority string
	err := row.Scan(&task.ID, &task.Title, &task.Description, &task.Category, &priority,
		&task.IsCompleted, &task.DueDate, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}

	task.Priority = entity.Priority(priority)
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	if task.DueDate != nil {
		dueDate := task.DueDate.UTC()
		task.DueDate = &dueDate
	}
	return &task, nil
}
