package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/solemar/concierge/controllers/intake_controller"
	"github.com/solemar/concierge/ratelimit"
)

// RegisterIntakeRoutes mounts the public booking submission endpoint. It is
// unauthenticated by design; the fixed-window limiter and honeypot are its
// only defenses.
func RegisterIntakeRoutes(router *gin.Engine, store intake_controller.BookingStore, limiter *ratelimit.Limiter, notifier intake_controller.Notifier) {
	intakeController := intake_controller.NewIntakeController(store, limiter, notifier)

	router.POST("/submit-booking", intakeController.SubmitBooking)
}
