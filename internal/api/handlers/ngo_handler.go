package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"food-donation-api-server/internal/models"
	"food-donation-api-server/internal/store"
)

type NGOHandler struct {
	NGOs store.NGOs
	Log  zerolog.Logger
}

type RegisterNGORequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description" binding:"required"`
	ContactEmail string `json:"contactEmail" binding:"required,email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Website      string `json:"website"`
}

// ListNGOs returns all verified NGOs.
func (h *NGOHandler) ListNGOs(c *gin.Context) {
	ngos, err := h.NGOs.ListVerified(c.Request.Context())
	if err != nil {
		serverError(c, h.Log, err, "Failed to query NGOs")
		return
	}
	c.JSON(http.StatusOK, ngos)
}

// GetNGO returns one NGO, verified or not.
func (h *NGOHandler) GetNGO(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ngo, err := h.NGOs.FindByID(c.Request.Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "NGO not found"})
			return
		}
		serverError(c, h.Log, err, "Failed to retrieve NGO")
		return
	}
	c.JSON(http.StatusOK, ngo)
}

// RegisterNGO creates an NGO profile owned by the logged-in user. Profiles
// start unverified; an admin review flips the flag.
func (h *NGOHandler) RegisterNGO(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req RegisterNGORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ngo := &models.NGO{
		Name:         req.Name,
		Description:  req.Description,
		ContactEmail: req.ContactEmail,
		Phone:        req.Phone,
		Address:      req.Address,
		Website:      req.Website,
		UserID:       userID,
		Verified:     false,
	}

	if err := h.NGOs.Insert(c.Request.Context(), ngo); err != nil {
		if err == store.ErrDuplicate {
			c.JSON(http.StatusConflict, gin.H{"error": "User already has an NGO profile registered"})
			return
		}
		serverError(c, h.Log, err, "Failed to register NGO")
		return
	}

	c.JSON(http.StatusCreated, ngo)
}

// UpdateNGO lets the owning user edit their NGO profile. The verified flag is
// admin-controlled and never touched here.
func (h *NGOHandler) UpdateNGO(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req RegisterNGORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ngo, err := h.NGOs.FindByID(c.Request.Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "NGO not found"})
			return
		}
		serverError(c, h.Log, err, "Failed to retrieve NGO")
		return
	}

	if ngo.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to update this NGO profile"})
		return
	}

	ngo.Name = req.Name
	ngo.Description = req.Description
	ngo.ContactEmail = req.ContactEmail
	ngo.Phone = req.Phone
	ngo.Address = req.Address
	ngo.Website = req.Website

	if err := h.NGOs.UpdateProfile(c.Request.Context(), ngo); err != nil {
		serverError(c, h.Log, err, "Failed to update NGO")
		return
	}

	c.JSON(http.StatusOK, ngo)
}
