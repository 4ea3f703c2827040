package automation

import (
	"context"
	"time"

	"go-helpdesk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ExecutionLogRepository is the append-only store behind the execution audit
// trail. The engine only appends; listing exists for operators.
type ExecutionLogRepository interface {
	Append(ctx context.Context, entry *ExecutionLog) error
	ListByRule(ctx context.Context, ruleID primitive.ObjectID, limit int64) ([]ExecutionLog, error)
}

type ExecutionLogRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewExecutionLogRepository(mongodb *database.MongodbDB) ExecutionLogRepository {
	return &ExecutionLogRepositoryImpl{
		Collection: mongodb.DB.Collection("automation_execution_logs"),
	}
}

func (r *ExecutionLogRepositoryImpl) Append(ctx context.Context, entry *ExecutionLog) error {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, entry)
	return err
}

func (r *ExecutionLogRepositoryImpl) ListByRule(ctx context.Context, ruleID primitive.ObjectID, limit int64) ([]ExecutionLog, error) {
	if limit < 1 {
		limit = 50
	}
	opts := options.Find().
		SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.Collection.Find(ctx, bson.M{"rule_id": ruleID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []ExecutionLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
