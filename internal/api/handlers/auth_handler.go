package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"food-donation-api-server/internal/auth"
	"food-donation-api-server/internal/models"
	"food-donation-api-server/internal/store"
)

type AuthHandler struct {
	Users  store.Users
	Issuer auth.Issuer
	Log    zerolog.Logger
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup registers a donor account. NGO and admin roles are granted later
// through verification and admin role management, never self-assigned.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		serverError(c, h.Log, err, "Failed to create account")
		return
	}

	user := &models.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  hashedPassword,
		Role:      models.RoleDonor,
		CreatedAt: time.Now(),
	}

	if err := h.Users.Insert(c.Request.Context(), user); err != nil {
		if err == store.ErrDuplicate {
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
			return
		}
		serverError(c, h.Log, err, "Failed to create account")
		return
	}

	token, err := h.Issuer.GenerateToken(user)
	if err != nil {
		serverError(c, h.Log, err, "Failed to issue token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// Login checks credentials and issues a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		serverError(c, h.Log, err, "Failed to log in")
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.Issuer.GenerateToken(user)
	if err != nil {
		serverError(c, h.Log, err, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
