package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"food-donation-api-server/internal/models"
	"food-donation-api-server/internal/store"
)

type SlotStore struct {
	DB *mongo.Database
}

func (s *SlotStore) Insert(ctx context.Context, slot *models.PickupSlot) error {
	result, err := s.DB.Collection(colSlots).InsertOne(ctx, slot)
	if err != nil {
		return mapErr(err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		slot.ID = oid
	}
	return nil
}

func (s *SlotStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PickupSlot, error) {
	var slot models.PickupSlot
	err := s.DB.Collection(colSlots).FindOne(ctx, bson.M{"_id": id}).Decode(&slot)
	if err != nil {
		return nil, mapErr(err)
	}
	return &slot, nil
}

func (s *SlotStore) ListAvailable(ctx context.Context, ngoID primitive.ObjectID, from, to time.Time) ([]models.PickupSlot, error) {
	filter := bson.M{
		"ngoId":     ngoID,
		"available": true,
		"date":      bson.M{"$gte": from, "$lt": to},
		"$expr":     bson.M{"$lt": bson.A{"$bookings", "$maxBookings"}},
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}})
	cursor, err := s.DB.Collection(colSlots).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.PickupSlot
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []models.PickupSlot{}
	}
	return slots, nil
}

// Reserve takes one capacity unit of the slot. The availability check and the
// counter increment are a single conditional document update, so of N
// concurrent callers racing for the last unit exactly one succeeds; the rest
// see ErrSlotUnavailable. The same update recomputes the available flag,
// keeping available == (bookings < maxBookings) without a second write.
func (s *SlotStore) Reserve(ctx context.Context, id primitive.ObjectID) (*models.PickupSlot, error) {
	filter := bson.M{
		"_id":       id,
		"available": true,
		"$expr":     bson.M{"$lt": bson.A{"$bookings", "$maxBookings"}},
	}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"bookings": bson.M{"$add": bson.A{"$bookings", 1}},
			"available": bson.M{"$lt": bson.A{
				bson.M{"$add": bson.A{"$bookings", 1}},
				"$maxBookings",
			}},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var slot models.PickupSlot
	err := s.DB.Collection(colSlots).FindOneAndUpdate(ctx, filter, update, opts).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrSlotUnavailable
		}
		return nil, err
	}
	return &slot, nil
}

// Release undoes one Reserve. Same single-update discipline as Reserve, with
// a floor at zero bookings.
func (s *SlotStore) Release(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{"_id": id, "bookings": bson.M{"$gt": 0}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"bookings":  bson.M{"$subtract": bson.A{"$bookings", 1}},
			"available": true,
		}}},
	}
	_, err := s.DB.Collection(colSlots).UpdateOne(ctx, filter, update)
	return err
}
