package middleware

import (
	"net/http"                      // HTTP status codes
	"sports_academy/internal/utils" // JWT utility functions
	"strings"                       // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by the guard
const (
	EmailKey  = "email"  // Decoded token email
	ClaimsKey = "claims" // Full decoded claims
)

// Messages returned by the guard and the ownership checks
const (
	MsgNotAuthenticated = "you are not authenticated"
	MsgForbiddenUser    = "Forbidden user"
)

// ErrorBody is the error payload shared by every route
func ErrorBody(message string) gin.H {
	return gin.H{"error": true, "message": message}
}

// JWTAuthMiddleware validates bearer tokens and exposes the decoded claims
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// A request without the header is unauthenticated
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody(MsgNotAuthenticated))
			return
		}
		// The token is the second whitespace-separated segment ("Bearer <token>")
		var tokenStr string
		if parts := strings.Fields(authHeader); len(parts) > 1 {
			tokenStr = parts[1]
		}
		claims, err := utils.ParseJWT(tokenStr, secret) // Verify signature and expiry
		if err != nil {
			// A present but bad token is forbidden
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorBody(MsgNotAuthenticated))
			return
		}
		c.Set(EmailKey, claims.Email) // Store email in context
		c.Set(ClaimsKey, claims)      // Store claims in context
		c.Next()                      // Proceed to the next handler
	}
}

// ClaimsFromContext returns the claims stored by JWTAuthMiddleware
func ClaimsFromContext(c *gin.Context) (*utils.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok
}
