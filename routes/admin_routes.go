package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/solemar/concierge/controllers/revenue_controller"
	"github.com/solemar/concierge/controllers/settings_controller"
	middleware "github.com/solemar/concierge/middlewares"
	"github.com/solemar/concierge/middlewares/auth"
	"github.com/solemar/concierge/storage"
)

// RegisterAdminRoutes mounts the owner-only reporting and configuration
// surface.
func RegisterAdminRoutes(router *gin.Engine, store *storage.Postgres) {
	revenueController := revenue_controller.NewRevenueController(store)
	settingsController := settings_controller.NewSettingsController(store)

	protected := router.Group("/admin")
	protected.Use(auth.AuthMiddleware(), auth.RequireRole("admin"))
	{
		protected.GET("/revenue-splits", middleware.NewRateLimiter("60-1m", "admin-revenue-list"), revenueController.ListSplits)

		protected.GET("/settings/:key", middleware.NewRateLimiter("60-1m", "admin-settings-get"), settingsController.GetSetting)
		protected.PUT("/settings/:key", middleware.NewRateLimiter("30-1m", "admin-settings-put"), settingsController.UpdateSetting)
	}
}
