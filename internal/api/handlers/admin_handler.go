package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"food-donation-api-server/internal/mailer"
	"food-donation-api-server/internal/models"
	"food-donation-api-server/internal/notify"
	"food-donation-api-server/internal/store"
)

type AdminHandler struct {
	Users     store.Users
	NGOs      store.NGOs
	Donations store.Donations
	Notifier  *notify.Notifier
	Mailer    *mailer.Mailer
	Log       zerolog.Logger
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ListUsers returns all accounts, newest first, paginated.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page := parsePage(c)

	users, total, err := h.Users.List(c.Request.Context(), page)
	if err != nil {
		serverError(c, h.Log, err, "Failed to query users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"pagination": paginationBody(total, page),
	})
}

// ListNGOs returns every NGO profile, unverified first so the review queue
// surfaces at the top.
func (h *AdminHandler) ListNGOs(c *gin.Context) {
	page := parsePage(c)

	ngos, total, err := h.NGOs.List(c.Request.Context(), page)
	if err != nil {
		serverError(c, h.Log, err, "Failed to query NGOs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ngos":       ngos,
		"pagination": paginationBody(total, page),
	})
}

// VerifyNGO approves an NGO, promotes its owner to the ngo role, and tells
// the owner about it.
func (h *AdminHandler) VerifyNGO(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ngo, err := h.NGOs.Verify(c.Request.Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "NGO not found"})
			return
		}
		serverError(c, h.Log, err, "Failed to verify NGO")
		return
	}

	owner, err := h.Users.SetRole(c.Request.Context(), ngo.UserID, models.RoleNGO)
	if err != nil {
		h.Log.Error().Err(err).Str("ngoId", ngo.ID.Hex()).Msg("failed to promote NGO owner role")
	}

	if h.Notifier != nil {
		h.Notifier.NGOVerified(c.Request.Context(), ngo)
	}
	if h.Mailer != nil && owner != nil {
		h.Mailer.Send(owner.Email, "Your NGO has been verified",
			ngo.Name+" is now verified on the platform. You can receive donations and publish campaigns.")
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "NGO verified successfully",
		"ngo":     ngo,
	})
}

// ListDonations returns all donations with optional status, NGO and donor
// filters, paginated.
func (h *AdminHandler) ListDonations(c *gin.Context) {
	page := parsePage(c)

	var filter store.DonationFilter
	if statusParam := c.Query("status"); statusParam != "" {
		status := models.DonationStatus(statusParam)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		filter.Status = status
	}
	if ngoParam := c.Query("ngo"); ngoParam != "" {
		ngoID, err := primitive.ObjectIDFromHex(ngoParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ngo filter format"})
			return
		}
		filter.NGOID = &ngoID
	}
	if donorParam := c.Query("donor"); donorParam != "" {
		donorID, err := primitive.ObjectIDFromHex(donorParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid donor filter format"})
			return
		}
		filter.DonorID = &donorID
	}

	donations, total, err := h.Donations.List(c.Request.Context(), filter, page)
	if err != nil {
		serverError(c, h.Log, err, "Failed to query donations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"donations":  donations,
		"pagination": paginationBody(total, page),
	})
}

// SetUserRole changes a user's platform role.
func (h *AdminHandler) SetUserRole(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.Role(req.Role)
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	user, err := h.Users.SetRole(c.Request.Context(), id, role)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		serverError(c, h.Log, err, "Failed to update user role")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User role updated to " + string(role),
		"user":    user,
	})
}
