package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType classifies a notification for client rendering.
type NotificationType string

const (
	NotifDonationUpdate NotificationType = "donation_update"
	NotifThankYou       NotificationType = "thank_you"
	NotifReminder       NotificationType = "reminder"
	NotifSystem         NotificationType = "system"
	NotifAchievement    NotificationType = "achievement"
)

// RelatedRef points a notification at the entity it concerns.
type RelatedRef struct {
	Model string              `bson:"model,omitempty" json:"model,omitempty"` // "Donation", "NGO", "User"
	ID    *primitive.ObjectID `bson:"id,omitempty" json:"id,omitempty"`
}

// Notification is a per-user message persisted in the "notifications"
// collection and pushed over the websocket hub on a best-effort basis.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Type      NotificationType   `bson:"type" json:"type"`
	RelatedTo *RelatedRef        `bson:"relatedTo,omitempty" json:"relatedTo,omitempty"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
