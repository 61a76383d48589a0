package mongostore

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"food-donation-api-server/internal/models"
	"food-donation-api-server/internal/store"
)

type NGOStore struct {
	DB *mongo.Database
}

func (s *NGOStore) Insert(ctx context.Context, n *models.NGO) error {
	result, err := s.DB.Collection(colNGOs).InsertOne(ctx, n)
	if err != nil {
		return mapErr(err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}
	return nil
}

func (s *NGOStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.NGO, error) {
	var ngo models.NGO
	err := s.DB.Collection(colNGOs).FindOne(ctx, bson.M{"_id": id}).Decode(&ngo)
	if err != nil {
		return nil, mapErr(err)
	}
	return &ngo, nil
}

func (s *NGOStore) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.NGO, error) {
	var ngo models.NGO
	err := s.DB.Collection(colNGOs).FindOne(ctx, bson.M{"userId": userID}).Decode(&ngo)
	if err != nil {
		return nil, mapErr(err)
	}
	return &ngo, nil
}

func (s *NGOStore) ListVerified(ctx context.Context) ([]models.NGO, error) {
	cursor, err := s.DB.Collection(colNGOs).Find(ctx, bson.M{"verified": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ngos []models.NGO
	if err = cursor.All(ctx, &ngos); err != nil {
		return nil, err
	}
	if ngos == nil {
		ngos = []models.NGO{}
	}
	return ngos, nil
}

func (s *NGOStore) List(ctx context.Context, page store.Page) ([]models.NGO, int64, error) {
	collection := s.DB.Collection(colNGOs)

	total, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	// Unverified first so admins see the review queue, newest after that.
	opts := options.Find().
		SetSort(bson.D{{Key: "verified", Value: 1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(page.Skip())).
		SetLimit(int64(page.PerPage))

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var ngos []models.NGO
	if err = cursor.All(ctx, &ngos); err != nil {
		return nil, 0, err
	}
	if ngos == nil {
		ngos = []models.NGO{}
	}
	return ngos, total, nil
}

func (s *NGOStore) UpdateProfile(ctx context.Context, n *models.NGO) error {
	_, err := s.DB.Collection(colNGOs).UpdateOne(ctx, bson.M{"_id": n.ID}, bson.M{"$set": bson.M{
		"name":         n.Name,
		"description":  n.Description,
		"contactEmail": n.ContactEmail,
		"phone":        n.Phone,
		"address":      n.Address,
		"website":      n.Website,
	}})
	return err
}

func (s *NGOStore) Verify(ctx context.Context, id primitive.ObjectID) (*models.NGO, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ngo models.NGO
	err := s.DB.Collection(colNGOs).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"verified": true}},
		opts,
	).Decode(&ngo)
	if err != nil {
		return nil, mapErr(err)
	}
	return &ngo, nil
}

func (s *NGOStore) Search(ctx context.Context, query string, limit int) ([]models.NGO, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"verified": true,
		"$or": bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		},
	}

	cursor, err := s.DB.Collection(colNGOs).Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ngos []models.NGO
	if err = cursor.All(ctx, &ngos); err != nil {
		return nil, err
	}
	if ngos == nil {
		ngos = []models.NGO{}
	}
	return ngos, nil
}

func (s *NGOStore) CountVerified(ctx context.Context) (int64, error) {
	return s.DB.Collection(colNGOs).CountDocuments(ctx, bson.M{"verified": true})
}
