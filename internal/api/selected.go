package api

import (
	"errors"                             // Error inspection
	"net/http"                           // HTTP status codes
	"sports_academy/internal/domain"     // Importing domain models
	"sports_academy/internal/middleware" // Identity helpers
	"sports_academy/internal/store"      // Data store

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// SelectedClassRequest adds a class to a student's cart
type SelectedClassRequest struct {
	StudentEmail   string  `json:"studentEmail" binding:"required,email"` // Cart owner
	ClassID        string  `json:"classId" binding:"required"`            // Selected class
	Title          string  `json:"title"`                                 // Copied class title
	Image          string  `json:"image"`                                 // Copied class image
	InstructorName string  `json:"instructorName"`                        // Copied instructor
	Price          float64 `json:"price"`                                 // Price at selection time
}

// AddSelectedClassHandler stores a cart entry
func AddSelectedClassHandler(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SelectedClassRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "studentEmail and classId are required")
			return
		}
		entry := domain.SelectedClass{
			StudentEmail:   req.StudentEmail,
			ClassID:        req.ClassID,
			Title:          req.Title,
			Image:          req.Image,
			InstructorName: req.InstructorName,
			Price:          req.Price,
		}
		res, err := st.InsertSelectedClass(c.Request.Context(), &entry)
		if err != nil {
			internalError(c, "Failed to select class", err, logrus.Fields{"email": req.StudentEmail, "class_id": req.ClassID})
			return
		}
		logrus.WithFields(logrus.Fields{
			"selected_id": entry.ID,         // Cart entry ID
			"email":       req.StudentEmail, // Student
			"class_id":    req.ClassID,      // Class
		}).Info("Class selected")
		c.JSON(http.StatusOK, res)
	}
}

// ListSelectedClassesHandler returns the cart of the query email
func ListSelectedClassesHandler(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email") // Already matched against the token
		selected, err := st.ListSelectedClasses(c.Request.Context(), email)
		if err != nil {
			internalError(c, "Failed to fetch selected classes", err, logrus.Fields{"email": email})
			return
		}
		c.JSON(http.StatusOK, selected)
	}
}

// DeleteSelectedClassHandler removes a cart entry owned by the caller
func DeleteSelectedClassHandler(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		ctx := c.Request.Context()
		entry, err := st.FindSelectedClass(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, store.DeleteResult{Acknowledged: true}) // Nothing to delete
			return
		}
		if err != nil {
			internalError(c, "Failed to fetch selected class", err, logrus.Fields{"selected_id": id})
			return
		}
		// Only the owner may remove the entry
		if !middleware.SameIdentity(c, entry.StudentEmail) {
			respondError(c, http.StatusForbidden, middleware.MsgForbiddenUser)
			return
		}
		res, err := st.DeleteSelectedClass(ctx, id)
		if err != nil {
			internalError(c, "Failed to delete selected class", err, logrus.Fields{"selected_id": id})
			return
		}
		logrus.WithFields(logrus.Fields{
			"selected_id": id,                 // Cart entry ID
			"email":       entry.StudentEmail, // Owner
		}).Info("Selected class removed")
		c.JSON(http.StatusOK, res)
	}
}
