package middleware

import (
	"errors"                        // Error inspection
	"net/http"                      // HTTP status codes
	"slices"                        // Role membership
	"sports_academy/internal/store" // Data store

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// RequireRole checks the caller's role from the store on each request
func RequireRole(st store.Store, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(EmailKey) // Get email from context
		// Check if the guard ran before us
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody(MsgNotAuthenticated))
			return
		}
		user, err := st.FindUserByEmail(c.Request.Context(), email) // Fetch user from store
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				logrus.WithFields(logrus.Fields{
					"email": email,
					"error": err.Error(),
				}).Error("Role lookup failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody("internal server error"))
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorBody(MsgForbiddenUser))
			return
		}
		// Check the stored role against the allowed ones
		if !slices.Contains(roles, user.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorBody(MsgForbiddenUser))
			return
		}
		c.Next() // Role accepted
	}
}
