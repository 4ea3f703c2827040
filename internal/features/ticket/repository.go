package ticket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-helpdesk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrTicketNotFound is returned when a ticket does not exist within the
// requested organization scope.
var ErrTicketNotFound = errors.New("ticket not found")

// TicketRepository defines the interface for ticket data operations.
// Every operation is scoped by organization id.
type TicketRepository interface {
	Create(ctx context.Context, ticket *Ticket) error
	FindByID(ctx context.Context, id, orgID primitive.ObjectID) (*Ticket, error)
	FindAll(ctx context.Context, orgID primitive.ObjectID, filter bson.M, page, limit int64, sortBy, sortOrder string) ([]Ticket, int64, error)
	Update(ctx context.Context, id, orgID primitive.ObjectID, updates bson.M) error
	Delete(ctx context.Context, id, orgID primitive.ObjectID) error
	GetTags(ctx context.Context, id, orgID primitive.ObjectID) ([]string, error)
	FindOverdueSLA(ctx context.Context, limit int64) ([]Ticket, error)
	GetNextTicketNumber(ctx context.Context, orgID primitive.ObjectID) (string, error)
}

// TicketRepositoryImpl implements TicketRepository
type TicketRepositoryImpl struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *database.MongodbDB) TicketRepository {
	return &TicketRepositoryImpl{
		collection: db.DB.Collection("tickets"),
		counters:   db.DB.Collection("counters"),
	}
}

// Create inserts a new ticket
func (r *TicketRepositoryImpl) Create(ctx context.Context, ticket *Ticket) error {
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, ticket)
	if err != nil {
		return err
	}

	ticket.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID retrieves a ticket by ID within the organization scope
func (r *TicketRepositoryImpl) FindByID(ctx context.Context, id, orgID primitive.ObjectID) (*Ticket, error) {
	var ticket Ticket
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "organization_id": orgID}).Decode(&ticket)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

// FindAll retrieves tickets with filtering, pagination, and sorting
func (r *TicketRepositoryImpl) FindAll(ctx context.Context, orgID primitive.ObjectID, filter bson.M, page, limit int64, sortBy, sortOrder string) ([]Ticket, int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	filter["organization_id"] = orgID

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip := (page - 1) * limit

	sortValue := 1
	if sortOrder == "desc" {
		sortValue = -1
	}
	if sortBy == "" {
		sortBy = "created_at"
	}

	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: sortBy, Value: sortValue}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var tickets []Ticket
	if err = cursor.All(ctx, &tickets); err != nil {
		return nil, 0, err
	}

	return tickets, total, nil
}

// Update applies field updates to a ticket within the organization scope
func (r *TicketRepositoryImpl) Update(ctx context.Context, id, orgID primitive.ObjectID, updates bson.M) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "organization_id": orgID},
		bson.M{"$set": updates},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// Delete removes a ticket within the organization scope
func (r *TicketRepositoryImpl) Delete(ctx context.Context, id, orgID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "organization_id": orgID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// GetTags reads the current tag set of a ticket
func (r *TicketRepositoryImpl) GetTags(ctx context.Context, id, orgID primitive.ObjectID) ([]string, error) {
	var doc struct {
		Tags []string `bson:"tags"`
	}
	opts := options.FindOne().SetProjection(bson.M{"tags": 1})
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "organization_id": orgID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return doc.Tags, nil
}

// FindOverdueSLA retrieves unresolved tickets past their due date, oldest first
func (r *TicketRepositoryImpl) FindOverdueSLA(ctx context.Context, limit int64) ([]Ticket, error) {
	filter := bson.M{
		"status":       bson.M{"$nin": []TicketStatus{TicketStatusSolved, TicketStatusClosed}},
		"due_date":     bson.M{"$ne": nil, "$lt": time.Now()},
		"escalated_at": nil,
	}

	opts := options.Find().
		SetLimit(limit).
		SetSort(bson.D{{Key: "due_date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []Ticket
	if err = cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// GetNextTicketNumber increments and returns the per-organization ticket counter
func (r *TicketRepositoryImpl) GetNextTicketNumber(ctx context.Context, orgID primitive.ObjectID) (string, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err := r.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": fmt.Sprintf("tickets-%s", orgID.Hex())},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("TKT-%06d", counter.Seq), nil
}
