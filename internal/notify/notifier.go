package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"food-donation-api-server/internal/models"
	"food-donation-api-server/internal/socket"
	"food-donation-api-server/internal/store"
)

// Notifier persists a notification document and pushes it to the user's live
// websocket connection if one exists. Persistence failures are logged and
// swallowed: a notification must never fail the request that triggered it.
type Notifier struct {
	Store store.Notifications
	Hub   *socket.Hub
	Log   zerolog.Logger
}

// Notify records a notification for userID and pushes it over the hub.
func (n *Notifier) Notify(ctx context.Context, userID primitive.ObjectID, typ models.NotificationType, title, message string, related *models.RelatedRef) {
	doc := &models.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      typ,
		RelatedTo: related,
		Read:      false,
		CreatedAt: time.Now(),
	}

	if err := n.Store.Insert(ctx, doc); err != nil {
		n.Log.Error().Err(err).Str("userId", userID.Hex()).Msg("failed to persist notification")
		return
	}

	if n.Hub == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"event":        "notification",
		"notification": doc,
	})
	if err := n.Hub.Send(userID.Hex(), payload); err != nil {
		n.Log.Debug().Err(err).Str("userId", userID.Hex()).Msg("websocket push failed")
	}
}

// DonationStatusChanged tells the donor their donation moved to a new state.
func (n *Notifier) DonationStatusChanged(ctx context.Context, d *models.Donation) {
	title := "Donation " + string(d.Status)
	message := "Your donation is now " + string(d.Status) + "."
	n.Notify(ctx, d.DonorID, models.NotifDonationUpdate, title, message, &models.RelatedRef{
		Model: "Donation",
		ID:    &d.ID,
	})
}

// NGOVerified tells the owning user their NGO passed verification.
func (n *Notifier) NGOVerified(ctx context.Context, ngo *models.NGO) {
	n.Notify(ctx, ngo.UserID, models.NotifSystem, "NGO verified",
		ngo.Name+" has been verified and can now receive donations and publish campaigns.",
		&models.RelatedRef{Model: "NGO", ID: &ngo.ID})
}
