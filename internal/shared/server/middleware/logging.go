package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cameo-backend/internal/shared/telemetry"
)

// Context keys handlers set so the request log can name the resource touched.
const (
	GenerationIDKey     = "generationId"
	CampaignIDKey       = "campaignId"
	StatusTransitionKey = "statusTransition"
)

var resourceKeys = []string{GenerationIDKey, CampaignIDKey}

var resourceLogField = map[string]string{
	GenerationIDKey: "generation_id",
	CampaignIDKey:   "campaign_id",
}

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		fields := map[string]any{
			"request_id":        reqID,
			"method":            c.Request.Method,
			"path":              c.Request.URL.Path,
			"route":             c.FullPath(),
			"status":            status,
			"status_transition": c.GetString(StatusTransitionKey),
			"duration_ms":       float64(latency.Microseconds()) / 1000.0,
			"user_id":           UserIDFromContext(c),
			"is_guest":          IsGuest(c),
			"client_ip":         c.ClientIP(),
			"user_agent":        c.Request.UserAgent(),
		}
		for _, key := range resourceKeys {
			if v := c.GetString(key); v != "" {
				fields[resourceLogField[key]] = v
			}
		}

		switch {
		case status >= 500:
			telemetry.Error("request.complete", fields)
		case status >= 400:
			telemetry.Warn("request.complete", fields)
		default:
			telemetry.Info("request.complete", fields)
		}
	}
}
