package api

import (
	"errors"                             // Error inspection
	"net/http"                           // HTTP status codes
	"sports_academy/internal/middleware" // Identity helpers
	"sports_academy/internal/store"      // Data store

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// RoleRequest sets a user's role
type RoleRequest struct {
	Role string `json:"role" binding:"required"` // New role, stored verbatim
}

// ListUsersHandler returns all users
func ListUsersHandler(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := st.ListUsers(c.Request.Context()) // Fetch every user
		if err != nil {
			internalError(c, "Failed to fetch users", err, nil)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// UpdateRoleHandler sets the role of the user with the given id
func UpdateRoleHandler(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RoleRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "role is required")
			return
		}
		id := c.Param("id")
		res, err := st.SetUserRole(c.Request.Context(), id, req.Role)
		if err != nil {
			internalError(c, "Role update failed", err, logrus.Fields{"user_id": id})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":    id,                               // Target user
			"role":       req.Role,                         // New role
			"updated_by": c.GetString(middleware.EmailKey), // Acting admin
			"matched":    res.MatchedCount,                 // Matched users
		}).Info("Role updated")
		c.JSON(http.StatusOK, res)
	}
}

// RoleCheckHandler answers {<key>: true} when the caller's stored role equals role.
// Asking about another user's email answers false without a lookup.
func RoleCheckHandler(st store.Store, role, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email")
		if !middleware.SameIdentity(c, email) {
			c.JSON(http.StatusOK, gin.H{key: false}) // Mismatched identity
			return
		}
		user, err := st.FindUserByEmail(c.Request.Context(), email)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{key: false}) // Unknown user has no role
			return
		}
		if err != nil {
			internalError(c, "Role check failed", err, logrus.Fields{"email": email, "role": role})
			return
		}
		c.JSON(http.StatusOK, gin.H{key: user.Role == role})
	}
}
