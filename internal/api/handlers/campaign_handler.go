package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"food-donation-api-server/internal/models"
	"food-donation-api-server/internal/s3"
	"food-donation-api-server/internal/store"
)

type CampaignHandler struct {
	Campaigns store.Campaigns
	NGOs      store.NGOs
	Donations store.Donations
	Uploader  *s3.Uploader
	Log       zerolog.Logger
}

type TargetRequest struct {
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
	Unit     string  `json:"unit" binding:"required"`
}

type CreateCampaignRequest struct {
	Title       string        `json:"title" binding:"required"`
	Description string        `json:"description" binding:"required"`
	Target      TargetRequest `json:"target" binding:"required"`
	StartDate   time.Time     `json:"startDate" binding:"required"`
	EndDate     time.Time     `json:"endDate" binding:"required"`
	Priority    string        `json:"priority"`
	Image       string        `json:"image"`
}

type ContributeRequest struct {
	Items         []DonationItemRequest `json:"items" binding:"required,min=1,dive"`
	PickupAddress string                `json:"pickupAddress"`
	PickupDate    *time.Time            `json:"pickupDate"`
}

// ListCampaigns returns active campaigns, optionally filtered by NGO and
// priority, most urgent first and soonest-ending within equal priority.
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	var filter store.CampaignFilter

	if ngoParam := c.Query("ngo"); ngoParam != "" {
		ngoID, err := primitive.ObjectIDFromHex(ngoParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ngo filter format"})
			return
		}
		filter.NGOID = &ngoID
	}
	if priorityParam := c.Query("priority"); priorityParam != "" {
		priority := models.CampaignPriority(priorityParam)
		if !priority.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority filter"})
			return
		}
		filter.Priority = priority
	}

	campaigns, err := h.Campaigns.ListActive(c.Request.Context(), filter)
	if err != nil {
		serverError(c, h.Log, err, "Failed to query campaigns")
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

// GetCampaign returns a single campaign by ID.
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	campaign, err := h.Campaigns.FindByID(c.Request.Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
			return
		}
		serverError(c, h.Log, err, "Failed to retrieve campaign")
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// CreateCampaign publishes a new active campaign for the caller's verified
// NGO.
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidTargetUnit(req.Target.Unit) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target unit"})
		return
	}
	if !req.EndDate.After(req.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be after startDate"})
		return
	}

	priority := models.PriorityMedium
	if req.Priority != "" {
		priority = models.CampaignPriority(req.Priority)
		if !priority.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
			return
		}
	}

	ngo, err := h.NGOs.FindByUserID(c.Request.Context(), userID)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only NGOs can create campaigns"})
			return
		}
		serverError(c, h.Log, err, "Failed to look up NGO profile")
		return
	}
	if !ngo.Verified {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your NGO must be verified to create campaigns"})
		return
	}

	campaign := &models.Campaign{
		Title:       req.Title,
		Description: req.Description,
		NGOID:       ngo.ID,
		Target:      models.Target{Quantity: req.Target.Quantity, Unit: req.Target.Unit},
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Priority:    priority,
		Status:      models.CampaignActive,
		Image:       req.Image,
		CreatedAt:   time.Now(),
	}

	if err := h.Campaigns.Insert(c.Request.Context(), campaign); err != nil {
		serverError(c, h.Log, err, "Failed to create campaign")
		return
	}

	c.JSON(http.StatusCreated, campaign)
}

// Contribute creates a pending donation against the campaign's NGO and counts
// the donor toward the campaign. The donor count moves on submission, not on
// acceptance, and is never unwound on cancellation.
func (h *CampaignHandler) Contribute(c *gin.Context) {
	donorID, ok := currentUserID(c)
	if !ok {
		return
	}
	campaignID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campaign, err := h.Campaigns.FindByID(c.Request.Context(), campaignID)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
			return
		}
		serverError(c, h.Log, err, "Failed to retrieve campaign")
		return
	}

	if campaign.Status != models.CampaignActive {
		c.JSON(http.StatusConflict, gin.H{"error": "This campaign is no longer active"})
		return
	}

	donation := &models.Donation{
		DonorID:       donorID,
		NGOID:         campaign.NGOID,
		CampaignID:    &campaign.ID,
		Items:         toItems(req.Items),
		Status:        models.DonationPending,
		PickupAddress: req.PickupAddress,
		PickupDate:    req.PickupDate,
		CreatedAt:     time.Now(),
	}

	if err := h.Donations.Insert(c.Request.Context(), donation); err != nil {
		serverError(c, h.Log, err, "Failed to record contribution")
		return
	}

	if err := h.Campaigns.IncrementDonorCount(c.Request.Context(), campaign.ID); err != nil {
		// The donation is already in; a missed counter bump is a logged
		// anomaly, not a request failure.
		h.Log.Error().Err(err).Str("campaignId", campaign.ID.Hex()).Msg("failed to increment donor count")
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Contribution submitted successfully",
		"donation": donation,
	})
}

// UploadImage stores a campaign image in S3 and records its public URL.
// Only the owning NGO may set the image.
func (h *CampaignHandler) UploadImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	campaignID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if h.Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image storage is not configured"})
		return
	}

	campaign, err := h.Campaigns.FindByID(c.Request.Context(), campaignID)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
			return
		}
		serverError(c, h.Log, err, "Failed to retrieve campaign")
		return
	}

	ngo, err := h.NGOs.FindByUserID(c.Request.Context(), userID)
	if err != nil || ngo.ID != campaign.NGOID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to update this campaign"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		serverError(c, h.Log, err, "Failed to read uploaded image")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	objectKey := fmt.Sprintf("campaigns/%s/%s", campaign.ID.Hex(), uuid.New().String())
	url, err := h.Uploader.Upload(c.Request.Context(), file, objectKey, contentType)
	if err != nil {
		serverError(c, h.Log, err, "Failed to upload campaign image")
		return
	}

	if err := h.Campaigns.SetImage(c.Request.Context(), campaign.ID, url); err != nil {
		serverError(c, h.Log, err, "Failed to save campaign image")
		return
	}

	c.JSON(http.StatusOK, gin.H{"image": url})
}
