package mongostore

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"food-donation-api-server/internal/models"
	"food-donation-api-server/internal/store"
)

type CampaignStore struct {
	DB *mongo.Database
}

func (s *CampaignStore) Insert(ctx context.Context, c *models.Campaign) error {
	result, err := s.DB.Collection(colCampaigns).InsertOne(ctx, c)
	if err != nil {
		return mapErr(err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid
	}
	return nil
}

func (s *CampaignStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	var campaign models.Campaign
	err := s.DB.Collection(colCampaigns).FindOne(ctx, bson.M{"_id": id}).Decode(&campaign)
	if err != nil {
		return nil, mapErr(err)
	}
	return &campaign, nil
}

func (s *CampaignStore) ListActive(ctx context.Context, filter store.CampaignFilter) ([]models.Campaign, error) {
	query := bson.M{"status": models.CampaignActive}
	if filter.NGOID != nil {
		query["ngoId"] = *filter.NGOID
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}

	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: -1}, {Key: "endDate", Value: 1}})
	cursor, err := s.DB.Collection(colCampaigns).Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var campaigns []models.Campaign
	if err = cursor.All(ctx, &campaigns); err != nil {
		return nil, err
	}
	if campaigns == nil {
		campaigns = []models.Campaign{}
	}
	return campaigns, nil
}

func (s *CampaignStore) IncrementDonorCount(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.DB.Collection(colCampaigns).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"donorCount": 1}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *CampaignStore) SetImage(ctx context.Context, id primitive.ObjectID, url string) error {
	result, err := s.DB.Collection(colCampaigns).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"image": url}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *CampaignStore) Search(ctx context.Context, query string, limit int) ([]models.Campaign, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"status": models.CampaignActive,
		"$or": bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		},
	}

	cursor, err := s.DB.Collection(colCampaigns).Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var campaigns []models.Campaign
	if err = cursor.All(ctx, &campaigns); err != nil {
		return nil, err
	}
	if campaigns == nil {
		campaigns = []models.Campaign{}
	}
	return campaigns, nil
}

func (s *CampaignStore) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.DB.Collection(colCampaigns).UpdateMany(ctx,
		bson.M{"status": models.CampaignActive, "endDate": bson.M{"$lt": now}},
		bson.M{"$set": bson.M{"status": models.CampaignCompleted}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}
