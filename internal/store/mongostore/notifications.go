package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"food-donation-api-server/internal/models"
	"food-donation-api-server/internal/store"
)

type NotificationStore struct {
	DB *mongo.Database
}

func (s *NotificationStore) Insert(ctx context.Context, n *models.Notification) error {
	result, err := s.DB.Collection(colNotifications).InsertOne(ctx, n)
	if err != nil {
		return mapErr(err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}
	return nil
}

func (s *NotificationStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.DB.Collection(colNotifications).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

// MarkRead scopes the update to the owning user so one user cannot touch
// another user's notifications.
func (s *NotificationStore) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := s.DB.Collection(colNotifications).UpdateOne(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *NotificationStore) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.DB.Collection(colNotifications).UpdateMany(ctx,
		bson.M{"userId": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}
