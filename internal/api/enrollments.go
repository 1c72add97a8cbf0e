package api

import (
	"net/http"                           // HTTP status codes
	"sports_academy/internal/domain"     // Importing domain models
	"sports_academy/internal/middleware" // Identity helpers
	"sports_academy/internal/store"      // Data store

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// ListEnrollmentsHandler returns the enrollments of the query email
func ListEnrollmentsHandler(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email") // Already matched against the token
		enrollments, err := st.ListEnrollments(c.Request.Context(), email, false)
		if err != nil {
			internalError(c, "Failed to fetch enrollments", err, logrus.Fields{"email": email})
			return
		}
		c.JSON(http.StatusOK, enrollments)
	}
}

// PaymentHistoryHandler returns the caller's enrollments newest first.
// No email short-circuits to an empty list.
func PaymentHistoryHandler(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			c.JSON(http.StatusOK, []domain.Enrollment{})
			return
		}
		if !middleware.SameIdentity(c, email) {
			respondError(c, http.StatusForbidden, middleware.MsgForbiddenUser)
			return
		}
		history, err := st.ListEnrollments(c.Request.Context(), email, true)
		if err != nil {
			internalError(c, "Failed to fetch payment history", err, logrus.Fields{"email": email})
			return
		}
		c.JSON(http.StatusOK, history)
	}
}
