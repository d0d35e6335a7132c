// Package mongodb persists notification records to MongoDB.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mazroni9/DasmAdminPanel/internal/domain"
)

const (
	DefaultDatabase        = "dasm_admin"
	NotificationCollection = "notifications"

	writeTimeout = 5 * time.Second
)

// Connect opens a client and verifies the server is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// NotificationStore is a notify.Emitter that keeps every notification as a
// document in the notifications collection.
type NotificationStore struct {
	collection *mongo.Collection
}

func NewNotificationStore(client *mongo.Client, database string) *NotificationStore {
	if database == "" {
		database = DefaultDatabase
	}
	return &NotificationStore{
		collection: client.Database(database).Collection(NotificationCollection),
	}
}

func (s *NotificationStore) Emit(ctx context.Context, n domain.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if _, err := s.collection.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("insert notification %s: %w", n.ID, err)
	}
	return nil
}

// ListByRecipient returns the recipient's notifications, oldest first.
func (s *NotificationStore) ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.collection.Find(ctx, bson.M{"recipient_id": recipientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	defer cur.Close(ctx)

	out := []domain.Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return out, nil
}

// EnsureIndexes creates the recipient lookup index.
func (s *NotificationStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create notification index: %w", err)
	}
	return nil
}
