package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/model"
)

// taskDocument keeps the field names of documents written by the original
// mongoose model, __v included, so existing collections stay readable.
type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description *string            `bson:"description,omitempty"`
	Category    *string            `bson:"category,omitempty"`
	Priority    string             `bson:"priority"`
	IsCompleted bool               `bson:"isCompleted"`
	DueDate     *time.Time         `bson:"dueDate,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
	Version     int                `bson:"__v"`
}

func (doc taskDocument) toEntity() entity.Task {
	return entity.Task{
		ID:          doc.ID.Hex(),
		Title:       doc.Title,
		Description: doc.Description,
		Category:    doc.Category,
		Priority:    entity.Priority(doc.Priority),
		IsCompleted: doc.IsCompleted,
		DueDate:     doc.DueDate,
		CreatedAt:   doc.CreatedAt.UTC(),
		UpdatedAt:   doc.UpdatedAt.UTC(),
	}
}

func newTaskDocument(id primitive.ObjectID, task entity.Task, version int) taskDocument {
	return taskDocument{
		ID:          id,
		Title:       task.Title,
		Description: task.Description,
		Category:    task.Category,
		Priority:    string(task.Priority),
		IsCompleted: task.IsCompleted,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Version:     version,
	}
}

type MongoTaskGateway struct {
	Collection *mongo.Collection
	now        func() time.Time
}

var (
	_ TaskGateway = (*MongoTaskGateway)(nil)
	_ Migrator    = (*MongoTaskGateway)(nil)
)

func NewMongoTaskGateway(collection *mongo.Collection) *MongoTaskGateway {
	return &MongoTaskGateway{Collection: collection, now: time.Now}
}

func (gateway *MongoTaskGateway) Migrate(ctx context.Context) error {
	_, err := gateway.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: 1}},
		Options: options.Index().SetName("createdAt_1"),
	})
	if err != nil {
		return persistenceError("create tasks indexes", err)
	}
	return nil
}

func (gateway *MongoTaskGateway) FindAll(ctx context.Context) ([]entity.Task, error) {
	cursor, err := gateway.Collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, persistenceError("find tasks", err)
	}

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, persistenceError("decode tasks", err)
	}

	tasks := make([]entity.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, doc.toEntity())
	}
	return tasks, nil
}

func (gateway *MongoTaskGateway) Create(ctx context.Context, task entity.Task) (*entity.Task, error) {
	prepared, err := prepareNew(task, gateway.now(), mongoPrecision)
	if err != nil {
		return nil, err
	}

	id := primitive.NewObjectID()
	if _, err := gateway.Collection.InsertOne(ctx, newTaskDocument(id, prepared, 0)); err != nil {
		return nil, persistenceError("create task", err)
	}

	prepared.ID = id.Hex()
	return &prepared, nil
}

func (gateway *MongoTaskGateway) UpdateByID(ctx context.Context, id string, changes model.TaskChanges) (*entity.Task, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, malformedIDError(id)
	}

	var doc taskDocument
	err = gateway.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("find task "+id, err)
	}

	task := doc.toEntity()
	changes.Apply(&task)
	if err := checkConstraints(task); err != nil {
		return nil, err
	}
	normalize(&task, mongoPrecision)
	task.UpdatedAt = nextUpdatedAt(doc.UpdatedAt, gateway.now(), mongoPrecision)

	result, err := gateway.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, newTaskDocument(objectID, task, doc.Version))
	if err != nil {
		return nil, persistenceError("update task "+id, err)
	}
	if result.MatchedCount == 0 {
		return nil, nil
	}
	return &task, nil
}

func (gateway *MongoTaskGateway) DeleteByID(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return malformedIDError(id)
	}
	if _, err := gateway.Collection.DeleteOne(ctx, bson.M{"_id": objectID}); err != nil {
		return persistenceError("delete task "+id, err)
	}
	return nil
}
