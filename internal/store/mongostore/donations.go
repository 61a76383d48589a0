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

type DonationStore struct {
	DB *mongo.Database
}

func (s *DonationStore) Insert(ctx context.Context, d *models.Donation) error {
	result, err := s.DB.Collection(colDonations).InsertOne(ctx, d)
	if err != nil {
		return mapErr(err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		d.ID = oid
	}
	return nil
}

func (s *DonationStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Donation, error) {
	var donation models.Donation
	err := s.DB.Collection(colDonations).FindOne(ctx, bson.M{"_id": id}).Decode(&donation)
	if err != nil {
		return nil, mapErr(err)
	}
	return &donation, nil
}

func (s *DonationStore) ListByDonor(ctx context.Context, donorID primitive.ObjectID) ([]models.Donation, error) {
	return s.list(ctx, bson.M{"donorId": donorID})
}

func (s *DonationStore) ListByNGO(ctx context.Context, ngoID primitive.ObjectID) ([]models.Donation, error) {
	return s.list(ctx, bson.M{"ngoId": ngoID})
}

func (s *DonationStore) list(ctx context.Context, filter bson.M) ([]models.Donation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.DB.Collection(colDonations).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var donations []models.Donation
	if err = cursor.All(ctx, &donations); err != nil {
		return nil, err
	}
	if donations == nil {
		donations = []models.Donation{}
	}
	return donations, nil
}

func filterQuery(filter store.DonationFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.NGOID != nil {
		query["ngoId"] = *filter.NGOID
	}
	if filter.DonorID != nil {
		query["donorId"] = *filter.DonorID
	}
	return query
}

func (s *DonationStore) List(ctx context.Context, filter store.DonationFilter, page store.Page) ([]models.Donation, int64, error) {
	collection := s.DB.Collection(colDonations)
	query := filterQuery(filter)

	total, err := collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(page.Skip())).
		SetLimit(int64(page.PerPage))

	cursor, err := collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var donations []models.Donation
	if err = cursor.All(ctx, &donations); err != nil {
		return nil, 0, err
	}
	if donations == nil {
		donations = []models.Donation{}
	}
	return donations, total, nil
}

func (s *DonationStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.DonationStatus) (*models.Donation, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var donation models.Donation
	err := s.DB.Collection(colDonations).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
		opts,
	).Decode(&donation)
	if err != nil {
		return nil, mapErr(err)
	}
	return &donation, nil
}

func (s *DonationStore) AttachPickup(ctx context.Context, id primitive.ObjectID, ref models.PickupSlotRef, pickupDate time.Time) (*models.Donation, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var donation models.Donation
	err := s.DB.Collection(colDonations).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"pickupDate": pickupDate, "pickupSlot": ref}},
		opts,
	).Decode(&donation)
	if err != nil {
		return nil, mapErr(err)
	}
	return &donation, nil
}

func (s *DonationStore) Count(ctx context.Context, filter store.DonationFilter) (int64, error) {
	return s.DB.Collection(colDonations).CountDocuments(ctx, filterQuery(filter))
}

func statusesFilter(statuses []models.DonationStatus) bson.M {
	if len(statuses) == 0 {
		return bson.M{}
	}
	return bson.M{"status": bson.M{"$in": statuses}}
}

func (s *DonationStore) ListInStatuses(ctx context.Context, statuses ...models.DonationStatus) ([]models.Donation, error) {
	cursor, err := s.DB.Collection(colDonations).Find(ctx, statusesFilter(statuses))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var donations []models.Donation
	if err = cursor.All(ctx, &donations); err != nil {
		return nil, err
	}
	if donations == nil {
		donations = []models.Donation{}
	}
	return donations, nil
}

func (s *DonationStore) CountForDonor(ctx context.Context, donorID primitive.ObjectID, statuses ...models.DonationStatus) (int64, error) {
	query := statusesFilter(statuses)
	query["donorId"] = donorID
	return s.DB.Collection(colDonations).CountDocuments(ctx, query)
}

func (s *DonationStore) DistinctNGOsForDonor(ctx context.Context, donorID primitive.ObjectID, statuses ...models.DonationStatus) (int, error) {
	query := statusesFilter(statuses)
	query["donorId"] = donorID
	ngos, err := s.DB.Collection(colDonations).Distinct(ctx, "ngoId", query)
	if err != nil {
		return 0, err
	}
	return len(ngos), nil
}

func (s *DonationStore) MonthlyCounts(ctx context.Context, year int) ([12]int, error) {
	var counts [12]int

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": from, "$lt": to}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$month": "$createdAt"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := s.DB.Collection(colDonations).Aggregate(ctx, pipeline)
	if err != nil {
		return counts, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Month int `bson:"_id"`
		Count int `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return counts, err
	}

	for _, row := range rows {
		if row.Month >= 1 && row.Month <= 12 {
			counts[row.Month-1] = row.Count
		}
	}
	return counts, nil
}
