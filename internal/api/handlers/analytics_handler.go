package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"food-donation-api-server/internal/api/middleware"
	"food-donation-api-server/internal/models"
	"food-donation-api-server/internal/store"
)

type AnalyticsHandler struct {
	Donations store.Donations
	NGOs      store.NGOs
	Users     store.Users
	Log       zerolog.Logger
}

// packagedUnitKg approximates the weight of one packet or unit when summing
// donated food into kilograms for the overview figure.
const packagedUnitKg = 0.5

// EstimateKilograms sums donation items into an approximate kilogram figure.
// Items in kg count as-is; packets and units use a rough per-piece weight,
// everything else is left out of the estimate.
func EstimateKilograms(donations []models.Donation) int {
	var totalKg float64
	for _, donation := range donations {
		for _, item := range donation.Items {
			switch item.Unit {
			case "kg":
				totalKg += item.Quantity
			case "packets", "units":
				totalKg += item.Quantity * packagedUnitKg
			}
		}
	}
	return int(math.Round(totalKg))
}

// Achievement is one entry of a donor's gamified progress report.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Achieved    bool   `json:"achieved"`
	Progress    int64  `json:"progress"`
	Target      int64  `json:"target"`
}

func minCount(n, target int64) int64 {
	if n < target {
		return n
	}
	return target
}

// BuildAchievements derives the donor's achievements from their counted
// donations and distinct supported NGOs.
func BuildAchievements(donationCount int64, uniqueNGOs int64) []Achievement {
	return []Achievement{
		{
			ID:          "first_donation",
			Title:       "First Donation",
			Description: "Made your first donation",
			Achieved:    donationCount >= 1,
			Progress:    minCount(donationCount, 1),
			Target:      1,
		},
		{
			ID:          "five_donations",
			Title:       "5 Donations",
			Description: "Made 5 donations",
			Achieved:    donationCount >= 5,
			Progress:    minCount(donationCount, 5),
			Target:      5,
		},
		{
			ID:          "ten_donations",
			Title:       "10 Donations",
			Description: "Made 10 donations",
			Achieved:    donationCount >= 10,
			Progress:    minCount(donationCount, 10),
			Target:      10,
		},
		{
			ID:          "supported_5_ngos",
			Title:       "Supported 5 NGOs",
			Description: "Donated to 5 different NGOs",
			Achieved:    uniqueNGOs >= 5,
			Progress:    minCount(uniqueNGOs, 5),
			Target:      5,
		},
	}
}

// Overview returns platform-wide statistics for the public landing page.
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	ctx := c.Request.Context()

	donationCount, err := h.Donations.Count(ctx, store.DonationFilter{})
	if err != nil {
		serverError(c, h.Log, err, "Failed to compute analytics")
		return
	}
	ngoCount, err := h.NGOs.CountVerified(ctx)
	if err != nil {
		serverError(c, h.Log, err, "Failed to compute analytics")
		return
	}
	userCount, err := h.Users.CountByRole(ctx, models.RoleDonor)
	if err != nil {
		serverError(c, h.Log, err, "Failed to compute analytics")
		return
	}

	counted, err := h.Donations.ListInStatuses(ctx, models.DonationAccepted, models.DonationCompleted)
	if err != nil {
		serverError(c, h.Log, err, "Failed to compute analytics")
		return
	}

	completed, err := h.Donations.Count(ctx, store.DonationFilter{Status: models.DonationCompleted})
	if err != nil {
		serverError(c, h.Log, err, "Failed to compute analytics")
		return
	}
	pending, err := h.Donations.Count(ctx, store.DonationFilter{Status: models.DonationPending})
	if err != nil {
		serverError(c, h.Log, err, "Failed to compute analytics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"donationCount":      donationCount,
		"ngoCount":           ngoCount,
		"userCount":          userCount,
		"totalKg":            EstimateKilograms(counted),
		"donationsCompleted": completed,
		"donationsPending":   pending,
	})
}

// UserStats returns a donor's personal statistics and achievements. Only the
// donor themselves or an admin may read them.
func (h *AnalyticsHandler) UserStats(c *gin.Context) {
	userID, ok := objectIDParam(c, "userId")
	if !ok {
		return
	}

	if c.Param("userId") != c.GetString(middleware.CtxUserID) &&
		c.GetString(middleware.CtxRole) != string(models.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to view this data"})
		return
	}

	ctx := c.Request.Context()

	donationCount, err := h.Donations.CountForDonor(ctx, userID, models.DonationAccepted, models.DonationCompleted)
	if err != nil {
		serverError(c, h.Log, err, "Failed to compute user statistics")
		return
	}
	uniqueNGOs, err := h.Donations.DistinctNGOsForDonor(ctx, userID, models.DonationAccepted, models.DonationCompleted)
	if err != nil {
		serverError(c, h.Log, err, "Failed to compute user statistics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"donationCount":  donationCount,
		"uniqueNgoCount": uniqueNGOs,
		"achievements":   BuildAchievements(donationCount, int64(uniqueNGOs)),
	})
}

// MonthlyDonations returns donation counts per month for a year, as a
// 12-element array starting at January.
func (h *AnalyticsHandler) MonthlyDonations(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year <= 0 {
		year = time.Now().Year()
	}

	counts, err := h.Donations.MonthlyCounts(c.Request.Context(), year)
	if err != nil {
		serverError(c, h.Log, err, "Failed to compute monthly statistics")
		return
	}

	c.JSON(http.StatusOK, counts[:])
}
