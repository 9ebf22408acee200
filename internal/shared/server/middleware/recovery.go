package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"cameo-backend/internal/shared/metrics"
	"cameo-backend/internal/shared/server/respond"
	"cameo-backend/internal/shared/telemetry"
)

// Recovery turns handler panics into a 500 error envelope. http.ErrAbortHandler
// is re-raised so net/http can drop the connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}
			metrics.IncHTTPPanics()
			telemetry.Error("http.panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      rec,
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
				"user_id":    UserIDFromContext(c),
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Internal(c)
		}()
		c.Next()
	}
}
