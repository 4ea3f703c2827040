package user

import (
	"context"
	"errors"

	"go-helpdesk/internal/common/models"
	"go-helpdesk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id, orgID primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string, orgID primitive.ObjectID) (*models.User, error)
	List(ctx context.Context, orgID primitive.ObjectID, limit, offset int64) ([]models.User, int64, error)
	// FindAdmin returns the id of any active user holding the admin role in
	// the organization, or nil when none exists. First match, no tie-break.
	FindAdmin(ctx context.Context, orgID primitive.ObjectID) (*primitive.ObjectID, error)
}

type UserRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewUserRepository(mongodb *database.MongodbDB) UserRepository {
	return &UserRepositoryImpl{
		Collection: mongodb.DB.Collection("users"),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	if user.OrganizationID.IsZero() {
		return errors.New("organization scope missing")
	}
	_, err := r.Collection.InsertOne(ctx, user)
	return err
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id, orgID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.Collection.FindOne(ctx, bson.M{"_id": id, "organization_id": orgID}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string, orgID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.Collection.FindOne(ctx, bson.M{"email": email, "organization_id": orgID}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) List(ctx context.Context, orgID primitive.ObjectID, limit, offset int64) ([]models.User, int64, error) {
	filter := bson.M{"organization_id": orgID}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetLimit(limit).
		SetSkip(offset).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepositoryImpl) FindAdmin(ctx context.Context, orgID primitive.ObjectID) (*primitive.ObjectID, error) {
	var user models.User
	err := r.Collection.FindOne(ctx, bson.M{
		"organization_id": orgID,
		"roles":           models.RoleAdmin,
		"is_active":       true,
	}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user.ID, nil
}
