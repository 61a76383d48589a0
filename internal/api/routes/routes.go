package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"food-donation-api-server/config"
	"food-donation-api-server/internal/api/handlers"
	"food-donation-api-server/internal/api/middleware"
	"food-donation-api-server/internal/auth"
	"food-donation-api-server/internal/mailer"
	"food-donation-api-server/internal/notify"
	"food-donation-api-server/internal/s3"
	"food-donation-api-server/internal/socket"
	"food-donation-api-server/internal/store"

	"food-donation-api-server/internal/models"
)

// SetupRouter assembles the Gin engine from explicitly constructed
// dependencies. Nothing here reaches for package-level state.
func SetupRouter(
	cfg config.Config,
	st *store.Store,
	issuer auth.Issuer,
	hub *socket.Hub,
	uploader *s3.Uploader,
	mail *mailer.Mailer,
	log zerolog.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORS.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	notifier := &notify.Notifier{Store: st.Notifications, Hub: hub, Log: log}

	authHandler := &handlers.AuthHandler{Users: st.Users, Issuer: issuer, Log: log}
	ngoHandler := &handlers.NGOHandler{NGOs: st.NGOs, Log: log}
	donationHandler := &handlers.DonationHandler{Donations: st.Donations, NGOs: st.NGOs, Notifier: notifier, Log: log}
	campaignHandler := &handlers.CampaignHandler{Campaigns: st.Campaigns, NGOs: st.NGOs, Donations: st.Donations, Uploader: uploader, Log: log}
	pickupHandler := &handlers.PickupHandler{Slots: st.Slots, Donations: st.Donations, NGOs: st.NGOs, Log: log}
	searchHandler := &handlers.SearchHandler{NGOs: st.NGOs, Campaigns: st.Campaigns, Log: log}
	adminHandler := &handlers.AdminHandler{Users: st.Users, NGOs: st.NGOs, Donations: st.Donations, Notifier: notifier, Mailer: mail, Log: log}
	analyticsHandler := &handlers.AnalyticsHandler{Donations: st.Donations, NGOs: st.NGOs, Users: st.Users, Log: log}
	notificationHandler := &handlers.NotificationHandler{Notifications: st.Notifications, Log: log}
	webSocketHandler := &handlers.WebSocketHandler{Hub: hub, Issuer: issuer, Log: log}

	api := router.Group("/api")
	{
		api.GET("/ws", webSocketHandler.ServeWs)

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.Signup)
			authRoutes.POST("/login", authHandler.Login)
		}

		// Public, read-only surfaces.
		api.GET("/campaigns", campaignHandler.ListCampaigns)
		api.GET("/campaigns/:id", campaignHandler.GetCampaign)
		api.GET("/ngos", ngoHandler.ListNGOs)
		api.GET("/ngos/:id", ngoHandler.GetNGO)
		api.GET("/pickups/slots", pickupHandler.ListSlots)
		api.GET("/search", searchHandler.Search)
		api.GET("/analytics/overview", analyticsHandler.Overview)

		// Authenticated surfaces.
		protected := api.Group("/")
		protected.Use(middleware.Authenticate(issuer))
		{
			protected.POST("/campaigns", campaignHandler.CreateCampaign)
			protected.POST("/campaigns/:id/contribute", campaignHandler.Contribute)
			protected.POST("/campaigns/:id/image", campaignHandler.UploadImage)

			protected.POST("/donations", donationHandler.CreateDonation)
			protected.GET("/donations/my-donations", donationHandler.MyDonations)
			protected.GET("/donations/ngo", donationHandler.NGODonations)
			protected.PATCH("/donations/:id/status", donationHandler.UpdateStatus)

			protected.POST("/pickups/book", pickupHandler.BookSlot)
			protected.POST("/pickups/slots", pickupHandler.CreateSlots)

			protected.POST("/ngos/register", ngoHandler.RegisterNGO)
			protected.PUT("/ngos/:id", ngoHandler.UpdateNGO)

			protected.GET("/notifications", notificationHandler.ListNotifications)
			protected.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			protected.PUT("/notifications/read-all", notificationHandler.MarkAllRead)

			protected.GET("/analytics/user/:userId", analyticsHandler.UserStats)
		}

		// Admin-only surfaces.
		admin := api.Group("/admin")
		admin.Use(middleware.Authenticate(issuer))
		admin.Use(middleware.Authorize(models.RoleAdmin))
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/ngos", adminHandler.ListNGOs)
			admin.PATCH("/ngos/:id/verify", adminHandler.VerifyNGO)
			admin.GET("/donations", adminHandler.ListDonations)
			admin.POST("/users/:id/role", adminHandler.SetUserRole)
		}

		adminAnalytics := api.Group("/analytics")
		adminAnalytics.Use(middleware.Authenticate(issuer))
		adminAnalytics.Use(middleware.Authorize(models.RoleAdmin))
		{
			adminAnalytics.GET("/donations/monthly", analyticsHandler.MonthlyDonations)
		}
	}

	return router
}
