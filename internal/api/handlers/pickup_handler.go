package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"food-donation-api-server/internal/models"
	"food-donation-api-server/internal/store"
)

type PickupHandler struct {
	Slots     store.Slots
	Donations store.Donations
	NGOs      store.NGOs
	Log       zerolog.Logger
}

type BookSlotRequest struct {
	SlotID     string `json:"slotId" binding:"required"`
	DonationID string `json:"donationId" binding:"required"`
}

type SlotSpec struct {
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
	MaxBookings int    `json:"maxBookings"`
}

type CreateSlotsRequest struct {
	Date  string     `json:"date" binding:"required"` // "2006-01-02"
	Slots []SlotSpec `json:"slots" binding:"required,min=1,dive"`
}

// slotWindow resolves the listing window: the requested day, or today through
// the next seven days when no date is given.
func slotWindow(dateParam string, now time.Time) (from, to time.Time, err error) {
	if dateParam == "" {
		from = now
		to = now.AddDate(0, 0, 7)
		return from, to, nil
	}
	day, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		return from, to, err
	}
	return day, day.AddDate(0, 0, 1), nil
}

// ListSlots returns bookable slots for a verified NGO, ordered by date then
// start time.
func (h *PickupHandler) ListSlots(c *gin.Context) {
	ngoParam := c.Query("ngoId")
	if ngoParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "NGO ID is required"})
		return
	}
	ngoID, err := primitive.ObjectIDFromHex(ngoParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid NGO ID format"})
		return
	}

	ngo, err := h.NGOs.FindByID(c.Request.Context(), ngoID)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "NGO not found or not verified"})
			return
		}
		serverError(c, h.Log, err, "Failed to check NGO")
		return
	}
	if !ngo.Verified {
		c.JSON(http.StatusNotFound, gin.H{"error": "NGO not found or not verified"})
		return
	}

	from, to, err := slotWindow(c.Query("date"), time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	slots, err := h.Slots.ListAvailable(c.Request.Context(), ngoID, from, to)
	if err != nil {
		serverError(c, h.Log, err, "Failed to query pickup slots")
		return
	}
	c.JSON(http.StatusOK, slots)
}

// BookSlot reserves one capacity unit of a pickup slot for a pending donation
// owned by the caller. The capacity claim itself is a single atomic
// conditional update in the store, so two callers racing for the last unit
// cannot both win; the loser gets a conflict.
func (h *PickupHandler) BookSlot(c *gin.Context) {
	requesterID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slotID, err := primitive.ObjectIDFromHex(req.SlotID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID format"})
		return
	}
	donationID, err := primitive.ObjectIDFromHex(req.DonationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid donation ID format"})
		return
	}

	ctx := c.Request.Context()

	slot, err := h.Slots.FindByID(ctx, slotID)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Slot not found"})
			return
		}
		serverError(c, h.Log, err, "Failed to retrieve slot")
		return
	}
	if !slot.Available || slot.Bookings >= slot.MaxBookings {
		c.JSON(http.StatusConflict, gin.H{"error": "Slot is not available"})
		return
	}

	donation, err := h.Donations.FindByID(ctx, donationID)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Donation not found"})
			return
		}
		serverError(c, h.Log, err, "Failed to retrieve donation")
		return
	}

	if donation.DonorID != requesterID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to book for this donation"})
		return
	}
	if donation.Status != models.DonationPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Only pending donations can be scheduled"})
		return
	}
	if donation.NGOID != slot.NGOID {
		c.JSON(http.StatusConflict, gin.H{"error": "Slot belongs to a different NGO"})
		return
	}

	// The pre-checks above only shape the error message; the capacity claim
	// happens here, and losing the race surfaces as a conflict.
	reserved, err := h.Slots.Reserve(ctx, slotID)
	if err != nil {
		if err == store.ErrSlotUnavailable {
			c.JSON(http.StatusConflict, gin.H{"error": "Slot is not available"})
			return
		}
		serverError(c, h.Log, err, "Failed to book slot")
		return
	}

	ref := models.PickupSlotRef{
		SlotID:    reserved.ID,
		StartTime: reserved.StartTime,
		EndTime:   reserved.EndTime,
	}
	updated, err := h.Donations.AttachPickup(ctx, donationID, ref, reserved.Date)
	if err != nil {
		// Give the unit back so the failed booking leaves nothing behind.
		if relErr := h.Slots.Release(ctx, slotID); relErr != nil {
			h.Log.Error().Err(relErr).Str("slotId", slotID.Hex()).Msg("failed to release slot after booking error")
		}
		serverError(c, h.Log, err, "Failed to attach pickup to donation")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Pickup scheduled successfully",
		"donation": updated,
		"slot":     reserved,
	})
}

// CreateSlots lets the caller's NGO publish pickup slots for one day.
func (h *PickupHandler) CreateSlots(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	for _, spec := range req.Slots {
		if _, err := time.Parse("15:04", spec.StartTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startTime, expected HH:MM"})
			return
		}
		if _, err := time.Parse("15:04", spec.EndTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endTime, expected HH:MM"})
			return
		}
		if spec.MaxBookings < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "maxBookings cannot be negative"})
			return
		}
	}

	ngo, err := h.NGOs.FindByUserID(c.Request.Context(), userID)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only NGOs can create pickup slots"})
			return
		}
		serverError(c, h.Log, err, "Failed to look up NGO profile")
		return
	}

	created := make([]models.PickupSlot, 0, len(req.Slots))
	for _, spec := range req.Slots {
		maxBookings := spec.MaxBookings
		if maxBookings == 0 {
			maxBookings = 1
		}
		slot := models.PickupSlot{
			Date:        day,
			StartTime:   spec.StartTime,
			EndTime:     spec.EndTime,
			NGOID:       ngo.ID,
			MaxBookings: maxBookings,
			Bookings:    0,
			Available:   true,
		}
		if err := h.Slots.Insert(c.Request.Context(), &slot); err != nil {
			serverError(c, h.Log, err, "Failed to create pickup slots")
			return
		}
		created = append(created, slot)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Pickup slots created successfully",
		"slots":   created,
	})
}
