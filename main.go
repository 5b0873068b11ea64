package main

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/solemar/concierge/config"
	"github.com/solemar/concierge/config/db"
	redisclient "github.com/solemar/concierge/config/redis"
	"github.com/solemar/concierge/controllers/intake_controller"
	"github.com/solemar/concierge/logger"
	"github.com/solemar/concierge/middlewares/cors"
	"github.com/solemar/concierge/ratelimit"
	"github.com/solemar/concierge/routes"
	"github.com/solemar/concierge/storage"
	"github.com/solemar/concierge/utils/mail"
)

//go:embed templates/email/*
var embeddedEmailTemplates embed.FS

const (
	submitBookingLimit  = 5
	submitBookingWindow = time.Hour
)

func init() {
	logger.InitLoggers()
	config.LoadEnv()
}

func main() {
	db.Connect()
	defer db.Close()
	defer redisclient.CloseRedis()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	store := storage.NewPostgres(db.DB)
	intakeLimiter := ratelimit.New(submitBookingLimit, submitBookingWindow)

	mail.InitTemplates(embeddedEmailTemplates)

	// A nil notifier disables confirmation emails without touching intake.
	var notifier intake_controller.Notifier
	if mailer := mail.NewMailer(); mailer != nil {
		notifier = mailer
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.CorsMiddleware())

	routes.RegisterIntakeRoutes(r, store, intakeLimiter, notifier)
	routes.RegisterStaffRoutes(r, store)
	routes.RegisterAdminRoutes(r, store)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "ok from concierge service"})
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		fmt.Printf("Go Server listening on :%s\n", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Server failed to listen: %v\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("Shutting down Go server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		fmt.Printf("Go Server forced to shutdown: %v\n", err)
	}

	fmt.Println("Go Server exited gracefully.")
}
