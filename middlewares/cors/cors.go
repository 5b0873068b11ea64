package cors

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CorsMiddleware returns a permissive CORS policy. The intake endpoint is a
// public form target, so any origin may POST to it; preflight requests get a
// cached allow-all answer.
func CorsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-Client-Info", "Apikey"},
		ExposeHeaders:   []string{"X-RateLimit-Remaining", "Retry-After"},
		MaxAge:          12 * time.Hour,
	})
}
