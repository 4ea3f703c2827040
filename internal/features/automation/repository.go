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

type AutomationRepository interface {
	Create(ctx context.Context, rule *AutomationRule) error
	GetByID(ctx context.Context, id, orgID primitive.ObjectID) (*AutomationRule, error)
	List(ctx context.Context, orgID primitive.ObjectID) ([]AutomationRule, error)
	// ListActive returns the organization's active rules ordered by position
	// ascending. The engine calls this on every event; there is no caching.
	ListActive(ctx context.Context, orgID primitive.ObjectID) ([]AutomationRule, error)
	Update(ctx context.Context, rule *AutomationRule) error
	Delete(ctx context.Context, id, orgID primitive.ObjectID) error
	Enable(ctx context.Context, id, orgID primitive.ObjectID, active bool) error
	NextPosition(ctx context.Context, orgID primitive.ObjectID) (int, error)
}

type AutomationRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAutomationRepository(mongodb *database.MongodbDB) AutomationRepository {
	return &AutomationRepositoryImpl{
		Collection: mongodb.DB.Collection("automation_rules"),
	}
}

func (r *AutomationRepositoryImpl) Create(ctx context.Context, rule *AutomationRule) error {
	rule.ID = primitive.NewObjectID()
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, rule)
	return err
}

func (r *AutomationRepositoryImpl) GetByID(ctx context.Context, id, orgID primitive.ObjectID) (*AutomationRule, error) {
	var rule AutomationRule
	err := r.Collection.FindOne(ctx, bson.M{"_id": id, "organization_id": orgID}).Decode(&rule)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *AutomationRepositoryImpl) List(ctx context.Context, orgID primitive.ObjectID) ([]AutomationRule, error) {
	return r.find(ctx, bson.M{"organization_id": orgID})
}

func (r *AutomationRepositoryImpl) ListActive(ctx context.Context, orgID primitive.ObjectID) ([]AutomationRule, error) {
	return r.find(ctx, bson.M{"organization_id": orgID, "is_active": true})
}

func (r *AutomationRepositoryImpl) find(ctx context.Context, filter bson.M) ([]AutomationRule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rules []AutomationRule
	if err = cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *AutomationRepositoryImpl) Update(ctx context.Context, rule *AutomationRule) error {
	rule.UpdatedAt = time.Now()
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": rule.ID, "organization_id": rule.OrganizationID},
		bson.M{"$set": rule})
	return err
}

func (r *AutomationRepositoryImpl) Delete(ctx context.Context, id, orgID primitive.ObjectID) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id, "organization_id": orgID})
	return err
}

func (r *AutomationRepositoryImpl) Enable(ctx context.Context, id, orgID primitive.ObjectID, active bool) error {
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "organization_id": orgID},
		bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now()}})
	return err
}

// NextPosition returns one past the highest position in the organization.
func (r *AutomationRepositoryImpl) NextPosition(ctx context.Context, orgID primitive.ObjectID) (int, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "position", Value: -1}}).
		SetProjection(bson.M{"position": 1})

	var last struct {
		Position int `bson:"position"`
	}
	err := r.Collection.FindOne(ctx, bson.M{"organization_id": orgID}, opts).Decode(&last)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 1, nil
		}
		return 0, err
	}
	return last.Position + 1, nil
}
