package api

import (
	"errors"                         // Error inspection
	"net/http"                       // HTTP status codes
	"sports_academy/internal/domain" // Importing domain models
	"sports_academy/internal/store"  // Data store

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// RegisterUserRequest is the profile posted after the client signs in
type RegisterUserRequest struct {
	Email    string `json:"email" binding:"required,email"` // Unique key
	Name     string `json:"name"`                           // Display name
	PhotoURL string `json:"photoURL"`                       // Avatar
	Role     string `json:"role"`                           // Only Student is honoured at registration
}

// MsgUserExists is returned when the email is already registered
const MsgUserExists = "user already exists"

// RegisterUserHandler inserts a user once per email
func RegisterUserHandler(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "a valid email is required")
			return
		}
		ctx := c.Request.Context()
		// Look up the email first
		_, err := st.FindUserByEmail(ctx, req.Email)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"message": MsgUserExists}) // Already registered
			return
		}
		if !errors.Is(err, store.ErrNotFound) {
			internalError(c, "User lookup failed", err, logrus.Fields{"email": req.Email})
			return
		}
		user := domain.User{Email: req.Email, Name: req.Name, PhotoURL: req.PhotoURL}
		// Elevated roles are only granted through the role update route
		if req.Role == domain.RoleStudent {
			user.Role = domain.RoleStudent
		}
		res, err := st.InsertUser(ctx, &user)
		if errors.Is(err, store.ErrDuplicate) {
			// A concurrent registration won the race
			c.JSON(http.StatusOK, gin.H{"message": MsgUserExists})
			return
		}
		if err != nil {
			internalError(c, "User registration failed", err, logrus.Fields{"email": req.Email})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,    // New user ID
			"email":   user.Email, // Registered email
		}).Info("User registered")
		c.JSON(http.StatusOK, res) // Return the insert acknowledgement
	}
}
