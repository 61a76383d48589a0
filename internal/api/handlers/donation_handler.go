package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"food-donation-api-server/internal/models"
	"food-donation-api-server/internal/notify"
	"food-donation-api-server/internal/store"
)

type DonationHandler struct {
	Donations store.Donations
	NGOs      store.NGOs
	Notifier  *notify.Notifier
	Log       zerolog.Logger
}

type DonationItemRequest struct {
	Name     string  `json:"name" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
	Unit     string  `json:"unit" binding:"required"`
}

type CreateDonationRequest struct {
	NGOID         string                `json:"ngoId" binding:"required"`
	Items         []DonationItemRequest `json:"items" binding:"required,min=1,dive"`
	PickupAddress string                `json:"pickupAddress"`
	PickupDate    *time.Time            `json:"pickupDate"`
}

type UpdateDonationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func toItems(reqs []DonationItemRequest) []models.DonationItem {
	items := make([]models.DonationItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, models.DonationItem{Name: r.Name, Quantity: r.Quantity, Unit: r.Unit})
	}
	return items
}

// CreateDonation records a new donation offer against a verified NGO, in the
// pending state.
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	donorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ngoID, err := primitive.ObjectIDFromHex(req.NGOID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid NGO ID format"})
		return
	}

	ngo, err := h.NGOs.FindByID(c.Request.Context(), ngoID)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "NGO not found"})
			return
		}
		serverError(c, h.Log, err, "Failed to check NGO")
		return
	}
	if !ngo.Verified {
		c.JSON(http.StatusConflict, gin.H{"error": "Donations can only be made to verified NGOs"})
		return
	}

	donation := &models.Donation{
		DonorID:       donorID,
		NGOID:         ngo.ID,
		Items:         toItems(req.Items),
		Status:        models.DonationPending,
		PickupAddress: req.PickupAddress,
		PickupDate:    req.PickupDate,
		CreatedAt:     time.Now(),
	}

	if err := h.Donations.Insert(c.Request.Context(), donation); err != nil {
		serverError(c, h.Log, err, "Failed to create donation")
		return
	}

	c.JSON(http.StatusCreated, donation)
}

// MyDonations returns the donation history of the logged-in donor, newest
// first.
func (h *DonationHandler) MyDonations(c *gin.Context) {
	donorID, ok := currentUserID(c)
	if !ok {
		return
	}

	donations, err := h.Donations.ListByDonor(c.Request.Context(), donorID)
	if err != nil {
		serverError(c, h.Log, err, "Failed to query donations")
		return
	}
	c.JSON(http.StatusOK, donations)
}

// NGODonations returns donations received by the logged-in user's NGO.
func (h *DonationHandler) NGODonations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ngo, err := h.NGOs.FindByUserID(c.Request.Context(), userID)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "No NGO profile found for this user"})
			return
		}
		serverError(c, h.Log, err, "Failed to look up NGO profile")
		return
	}

	donations, err := h.Donations.ListByNGO(c.Request.Context(), ngo.ID)
	if err != nil {
		serverError(c, h.Log, err, "Failed to query donations")
		return
	}
	c.JSON(http.StatusOK, donations)
}

// UpdateStatus moves a donation through its lifecycle. Only the NGO receiving
// the donation may do this, and only along a legal transition: pending ->
// accepted -> completed, with cancellation allowed from pending or accepted.
func (h *DonationHandler) UpdateStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	donationID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateDonationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	next := models.DonationStatus(req.Status)
	if !next.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status provided"})
		return
	}

	donation, err := h.Donations.FindByID(c.Request.Context(), donationID)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Donation not found"})
			return
		}
		serverError(c, h.Log, err, "Failed to retrieve donation")
		return
	}

	ngo, err := h.NGOs.FindByUserID(c.Request.Context(), userID)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusForbidden, gin.H{"error": "User does not have an associated NGO profile"})
			return
		}
		serverError(c, h.Log, err, "Failed to look up NGO profile")
		return
	}

	if donation.NGOID != ngo.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to update status for this donation"})
		return
	}

	if !donation.Status.CanTransitionTo(next) {
		c.JSON(http.StatusConflict, gin.H{"error": "Donation cannot move from " + string(donation.Status) + " to " + string(next)})
		return
	}

	updated, err := h.Donations.UpdateStatus(c.Request.Context(), donationID, next)
	if err != nil {
		serverError(c, h.Log, err, "Failed to update donation status")
		return
	}

	if h.Notifier != nil {
		h.Notifier.DonationStatusChanged(c.Request.Context(), updated)
	}

	c.JSON(http.StatusOK, updated)
}
