package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequireIdentity only lets a caller read data scoped to their own email.
// The query-string email must equal the decoded token email; otherwise the
// chain is aborted before the handler touches the store.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !SameIdentity(c, c.Query("email")) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorBody(MsgForbiddenUser))
			return
		}
		c.Next()
	}
}

// SameIdentity reports whether email matches the decoded token email
func SameIdentity(c *gin.Context, email string) bool {
	decoded := c.GetString(EmailKey) // Set by JWTAuthMiddleware
	return decoded != "" && email == decoded
}
