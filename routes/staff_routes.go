package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/solemar/concierge/controllers/revenue_controller"
	"github.com/solemar/concierge/controllers/staff_booking_controller"
	middleware "github.com/solemar/concierge/middlewares"
	"github.com/solemar/concierge/middlewares/auth"
	"github.com/solemar/concierge/storage"
)

// RegisterStaffRoutes mounts the concierge dashboard API. Everything here
// requires a staff token; the throttles are generous and only cap runaway
// clients, not normal dashboard use.
func RegisterStaffRoutes(router *gin.Engine, store *storage.Postgres) {
	bookingController := staff_booking_controller.NewStaffBookingController(store)
	revenueController := revenue_controller.NewRevenueController(store)

	// Protected routes
	protected := router.Group("/staff")
	protected.Use(auth.AuthMiddleware())
	{
		protected.GET("/bookings", middleware.NewRateLimiter("120-1m", "staff-bookings-list"), bookingController.ListBookings)
		protected.GET("/bookings/counts", middleware.NewRateLimiter("120-1m", "staff-bookings-counts"), bookingController.GetBookingCounts)
		protected.GET("/bookings/:booking_id", middleware.NewRateLimiter("120-1m", "staff-bookings-get"), bookingController.GetBooking)

		protected.PATCH("/bookings/:booking_id/status", middleware.NewRateLimiter("60-1m", "staff-bookings-status"), bookingController.UpdateStatus)
		protected.POST("/bookings/:booking_id/advance", middleware.NewRateLimiter("60-1m", "staff-bookings-advance"), bookingController.AdvanceStatus)
		protected.PATCH("/bookings/:booking_id/notes", middleware.NewRateLimiter("60-1m", "staff-bookings-notes"), bookingController.UpdateNotes)
		protected.POST("/bookings/:booking_id/claim", middleware.NewRateLimiter("60-1m", "staff-bookings-claim"), bookingController.Claim)
		protected.PUT("/bookings/:booking_id/services/:service_id", middleware.NewRateLimiter("60-1m", "staff-bookings-services"), bookingController.AssignVendor)

		protected.PUT("/bookings/:booking_id/revenue-split", middleware.NewRateLimiter("60-1m", "staff-revenue-upsert"), revenueController.UpsertSplit)
		protected.GET("/bookings/:booking_id/revenue-split", middleware.NewRateLimiter("120-1m", "staff-revenue-get"), revenueController.GetSplit)
	}
}
