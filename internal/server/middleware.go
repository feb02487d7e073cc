package server

import (
	"time"

	"auction-house/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
		"user_id": utils.CurrentUserID(c),
	})
}

// SessionUserMiddleware copies the logged in user from the cookie session into the request context
func SessionUserMiddleware(c *gin.Context) {
	if userID, ok := sessions.Default(c).Get(utils.SessionUserKey).(string); ok && userID != "" {
		c.Set(utils.ContextUserKey, userID)
	}
	c.Next()
}
