package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"food-donation-api-server/internal/store"
)

// searchResultLimit caps each result bucket.
const searchResultLimit = 5

type SearchHandler struct {
	NGOs      store.NGOs
	Campaigns store.Campaigns
	Log       zerolog.Logger
}

// Search matches the query case-insensitively against verified NGO names and
// descriptions and active campaign titles and descriptions.
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	ngos, err := h.NGOs.Search(c.Request.Context(), query, searchResultLimit)
	if err != nil {
		serverError(c, h.Log, err, "Failed to search NGOs")
		return
	}

	campaigns, err := h.Campaigns.Search(c.Request.Context(), query, searchResultLimit)
	if err != nil {
		serverError(c, h.Log, err, "Failed to search campaigns")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query": query,
		"results": gin.H{
			"ngos":      ngos,
			"campaigns": campaigns,
		},
	})
}
