package utils

import (
	"github.com/gin-gonic/gin"
)

const (
	// SessionName is the cookie name of the login session
	SessionName = "auction_session"

	// SessionUserKey is the cookie-session key holding the logged in user ID
	SessionUserKey = "user_id"

	// ContextUserKey is the gin context key the session middleware fills
	ContextUserKey = "currentUserID"
)

// CurrentUserID returns the authenticated user's ID, or "" for anonymous requests
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserKey)
}
