package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/flowbit/backend/internal/models"
)

// subscriptionDoc is the BSON shape of a subscription.
type subscriptionDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       string             `bson:"user"`
	Name         string             `bson:"name"`
	Amount       float64            `bson:"amount"`
	Category     string             `bson:"category"`
	BillingCycle string             `bson:"billingCycle"`
	NextDueDate  time.Time          `bson:"nextDueDate"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func toDoc(s *models.Subscription) subscriptionDoc {
	d := subscriptionDoc{
		UserID:       s.UserID,
		Name:         s.Name,
		Amount:       s.Amount,
		Category:     string(s.Category),
		BillingCycle: string(s.BillingCycle),
		NextDueDate:  s.NextDueDate.Time,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	if oid, err := primitive.ObjectIDFromHex(s.ID); err == nil {
		d.ID = oid
	}
	return d
}

func (d subscriptionDoc) toModel() *models.Subscription {
	return &models.Subscription{
		ID:           d.ID.Hex(),
		UserID:       d.UserID,
		Name:         d.Name,
		Amount:       d.Amount,
		Category:     models.Category(d.Category),
		BillingCycle: models.BillingCycle(d.BillingCycle),
		NextDueDate:  models.DateOf(d.NextDueDate),
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

// MongoStore handles subscription CRUD in MongoDB.
type MongoStore struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("subscriptions"), now: mongoNow}
}

// BSON dates carry millisecond precision.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// EnsureIndexes creates the index that serves owner-scoped, due-date ordered listing.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    listSort(bson.E{Key: "user", Value: 1}),
		Options: options.Index().SetName("user_next_due"),
	})
	if err != nil {
		return fmt.Errorf("mongo create index: %w", err)
	}
	return nil
}

func (s *MongoStore) Insert(ctx context.Context, sub *models.Subscription) (*models.Subscription, error) {
	now := s.now()
	sub.CreatedAt, sub.UpdatedAt = now, now
	doc := toDoc(sub)
	doc.ID = primitive.NilObjectID

	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("mongo insert: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toModel(), nil
}

// ListByUser returns the user's subscriptions, soonest due first.
func (s *MongoStore) ListByUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	opts := options.Find().SetSort(listSort())
	cur, err := s.col.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cur.Close(ctx)

	var docs []subscriptionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}
	subs := make([]models.Subscription, 0, len(docs))
	for _, d := range docs {
		subs = append(subs, *d.toModel())
	}
	return subs, nil
}

// GetByID returns models.ErrNotFound for unknown or malformed ids.
func (s *MongoStore) GetByID(ctx context.Context, id string) (*models.Subscription, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	var doc subscriptionDoc
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapMongoError("mongo find one", err)
	}
	return doc.toModel(), nil
}

// Update applies the supplied fields to the subscription owned by userID.
func (s *MongoStore) Update(ctx context.Context, id, userID string, fields models.SubscriptionFields) (*models.Subscription, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc subscriptionDoc
	err = s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "user": userID},
		bson.M{"$set": updateSet(fields, s.now())},
		opts,
	).Decode(&doc)
	if err != nil {
		return nil, mapMongoError("mongo update", err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) Delete(ctx context.Context, id, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrNotFound
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid, "user": userID})
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// listSort orders by due date, then by _id so ties keep insertion order.
func listSort(prefix ...bson.E) bson.D {
	return append(bson.D(prefix),
		bson.E{Key: "nextDueDate", Value: 1},
		bson.E{Key: "_id", Value: 1},
	)
}

// updateSet builds the $set document for the supplied fields only.
func updateSet(f models.SubscriptionFields, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if f.Name != nil {
		set["name"] = strings.TrimSpace(*f.Name)
	}
	if f.Amount != nil {
		set["amount"] = float64(*f.Amount)
	}
	if f.Category != nil {
		set["category"] = string(*f.Category)
	}
	if f.BillingCycle != nil {
		set["billingCycle"] = string(*f.BillingCycle)
	}
	if f.NextDueDate != nil {
		set["nextDueDate"] = f.NextDueDate.Time
	}
	return set
}

func mapMongoError(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
