package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"todo-api/internal/domain/gateway/cache"
	"todo-api/internal/domain/gateway/db"
	"todo-api/internal/domain/gateway/queue"
	"todo-api/internal/infra/aws"
	redisinfra "todo-api/internal/infra/cache"
	gormdb "todo-api/internal/infra/database/gorm"
	mongodb "todo-api/internal/infra/database/mongo"
	"todo-api/internal/infra/database/sqlc"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
	"todo-api/pkg/redis"
	"todo-api/pkg/resource"
)

const (
	driverPostgres = "postgres"
	driverSQL      = "sql"
	driverMongo    = "mongo"
)

type taskStore struct {
	tasks  db.TaskGateway
	health db.HealthDBGateway
	close  func(ctx context.Context) error
}

// connectStore opens the backend selected by app.db.driver and prepares its schema
func connectStore(ctx context.Context) (*taskStore, error) {
	driver := resource.GetStringOrDefault("app.db.driver", driverPostgres)
	dsn := resource.GetString("app.db.dsn")

	var store *taskStore
	var migrator db.Migrator

	switch driver {
	case driverPostgres:
		conn, err := gormdb.Connect(dsn)
		if err != nil {
			return nil, errors.New(msg.GetMessage("app.error.db-connect", driver, err))
		}
		gateway := db.NewGormTaskGateway(conn)
		migrator = gateway
		store = &taskStore{
			tasks:  gateway,
			health: db.NewGormHealthDBGateway(conn),
			close:  func(context.Context) error { return gormdb.Close(conn) },
		}
	case driverSQL:
		conn, err := sqlc.Connect(dsn)
		if err != nil {
			return nil, errors.New(msg.GetMessage("app.error.db-connect", driver, err))
		}
		gateway := db.NewSQLCTaskGateway(conn)
		migrator = gateway
		store = &taskStore{
			tasks:  gateway,
			health: db.NewSQLCHealthDBGateway(conn),
			close:  func(context.Context) error { return conn.Close() },
		}
	case driverMongo:
		client, err := mongodb.Connect(ctx, resource.GetString("app.db.mongo.uri"))
		if err != nil {
			return nil, errors.New(msg.GetMessage("app.error.db-connect", driver, err))
		}
		collection := client.
			Database(resource.GetStringOrDefault("app.db.mongo.database", "todo")).
			Collection(resource.GetStringOrDefault("app.db.mongo.collection", "tasks"))
		gateway := db.NewMongoTaskGateway(collection)
		migrator = gateway
		store = &taskStore{
			tasks:  gateway,
			health: db.NewMongoHealthDBGateway(client),
			close:  client.Disconnect,
		}
	default:
		return nil, errors.New(msg.GetMessage("app.error.unknown-driver", driver))
	}

	if resource.GetBool("app.db.auto-migrate") {
		if err := migrator.Migrate(ctx); err != nil {
			_ = store.close(ctx)
			return nil, errors.New(msg.GetMessage("app.error.db-migrate", driver, err))
		}
	}
	return store, nil
}

// connectCache wraps tasks with the redis read cache when app.cache.enabled is set
func connectCache(ctx context.Context, tasks db.TaskGateway) (db.TaskGateway, cache.HealthCacheGateway, func() error, error) {
	if !resource.GetBool("app.cache.enabled") {
		return tasks, cache.DisabledHealthCacheGateway{}, func() error { return nil }, nil
	}

	client, err := redisinfra.Connect(ctx, redisinfra.Config{
		Host:     resource.GetString("app.cache.host"),
		Port:     resource.GetInt("app.cache.port"),
		Password: resource.GetString("app.cache.password"),
		Database: resource.GetInt("app.cache.database"),
		TTL:      resource.GetDuration("app.cache.ttl"),
	})
	if err != nil {
		return nil, nil, nil, err
	}

	taskCache := redis.NewCache(client, "tasks", resource.GetDuration("app.cache.ttl"))
	return cache.NewTaskCacheGateway(tasks, taskCache), cache.NewRedisHealthCacheGateway(client), client.Close, nil
}

// newQueueSender returns the SQS sender when app.events.enabled is set
func newQueueSender(ctx context.Context) (queue.Sender, error) {
	if !resource.GetBool("app.events.enabled") {
		return queue.NoopSender{}, nil
	}

	endpoint := resource.GetString("app.cloud.aws-endpoint")
	awsConfig, err := aws.LoadConfig(ctx, aws.Config{
		Region:          resource.GetString("app.cloud.aws-region"),
		AccessKeyID:     resource.GetString("app.cloud.aws-access-key-id"),
		SecretAccessKey: resource.GetString("app.cloud.aws-secret-access-key"),
	})
	if err != nil {
		return nil, errors.New(msg.GetMessage("app.error.aws-config", err))
	}

	log.Info("task events enabled", zap.String("queue", resource.GetString("app.events.queue")))
	return aws.NewSQSSenderAdapter(aws.NewSqsClient(awsConfig, endpoint)), nil
}
