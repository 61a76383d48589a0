// Package mongostore implements the store interfaces against MongoDB.
package mongostore

import (
	"go.mongodb.org/mongo-driver/mongo"

	"food-donation-api-server/internal/store"
)

// Collection names.
const (
	colUsers         = "users"
	colNGOs          = "ngos"
	colDonations     = "donations"
	colCampaigns     = "campaigns"
	colSlots         = "pickup_slots"
	colNotifications = "notifications"
)

// New wires every entity store against db.
func New(db *mongo.Database) *store.Store {
	return &store.Store{
		Users:         &UserStore{DB: db},
		NGOs:          &NGOStore{DB: db},
		Donations:     &DonationStore{DB: db},
		Campaigns:     &CampaignStore{DB: db},
		Slots:         &SlotStore{DB: db},
		Notifications: &NotificationStore{DB: db},
	}
}

// mapErr converts driver errors into store sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if err == mongo.ErrNoDocuments {
		return store.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicate
	}
	return err
}
