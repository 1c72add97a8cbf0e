package api

import (
	"net/http"                      // HTTP status codes
	"sports_academy/internal/utils" // Utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// TokenRequest is the user payload signed into a token
type TokenRequest struct {
	Email string `json:"email" binding:"required,email"` // Identity carried by the token
	Name  string `json:"name"`                           // Optional display name
}

// TokenResponse carries the signed token
type TokenResponse struct {
	Token string `json:"token"` // JWT token
}

// IssueTokenHandler signs a one-hour token for the posted user
func IssueTokenHandler(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TokenRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			respondError(c, http.StatusBadRequest, "a valid email is required")
			return
		}
		token, err := utils.GenerateJWT(req.Email, req.Name, secret) // Sign the token
		if err != nil {
			internalError(c, "Token signing failed", err, nil)
			return
		}
		c.JSON(http.StatusOK, TokenResponse{Token: token}) // Return the token
	}
}

// LivenessHandler answers the root route
func LivenessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "Elite Sports Academy server is running")
	}
}
