package api

import (
	"context"                            // Context for cache operations
	"errors"                             // Error inspection
	"net/http"                           // HTTP status codes
	"sports_academy/internal/domain"     // Importing domain models
	"sports_academy/internal/middleware" // Identity helpers
	"sports_academy/internal/store"      // Data store
	"sports_academy/internal/utils"      // Cache
	"time"                               // Time durations

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Cache keys for the public class listings
const (
	approvedClassesKey = "classes:approve"
	popularClassesKey  = "classes:popular"
	classListTTL       = 60 * time.Second
)

// StatusRequest sets a class status
type StatusRequest struct {
	Status string `json:"status" binding:"required"` // Stored verbatim
}

// FeedbackRequest sets a class feedback
type FeedbackRequest struct {
	Feedback *string `json:"feedback" binding:"required"` // Empty string clears it
}

// invalidateClassLists drops the cached public listings after a class write
func invalidateClassLists(ctx context.Context, cache utils.Cache) {
	if err := cache.Delete(ctx, approvedClassesKey, popularClassesKey); err != nil {
		logrus.WithField("error", err.Error()).Warn("Class list cache invalidation failed")
	}
}

// cachedClasses serves key from the cache, falling back to load and caching its result
func cachedClasses(c *gin.Context, cache utils.Cache, key string, load func(context.Context) ([]domain.Class, error)) {
	ctx := c.Request.Context()
	var classes []domain.Class
	found, err := cache.Get(ctx, key, &classes) // Try to get cached response
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache read failed")
	}
	if err == nil && found {
		c.Header("X-Cache", "HIT")
		c.JSON(http.StatusOK, classes) // Return cached listing
		return
	}
	classes, err = load(ctx) // Fetch from the store
	if err != nil {
		internalError(c, "Failed to fetch classes", err, logrus.Fields{"key": key})
		return
	}
	if err := cache.Set(ctx, key, classes, classListTTL); err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache write failed")
	}
	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, classes)
}

// CreateClassHandler inserts a class; new classes start as Pending
func CreateClassHandler(st store.Store, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var class domain.Class // Bind JSON request to struct
		if err := c.ShouldBindJSON(&class); err != nil {
			respondError(c, http.StatusBadRequest, "invalid class payload")
			return
		}
		if class.Status == "" {
			class.Status = domain.StatusPending // Awaiting admin review
		}
		res, err := st.InsertClass(c.Request.Context(), &class)
		if err != nil {
			internalError(c, "Failed to create class", err, logrus.Fields{"instructor": class.InstructorEmail})
			return
		}
		logrus.WithFields(logrus.Fields{
			"class_id":   class.ID,                         // New class ID
			"title":      class.Title,                      // Class title
			"instructor": class.InstructorEmail,            // Owner
			"created_by": c.GetString(middleware.EmailKey), // Token identity
		}).Info("Class created")
		invalidateClassLists(c.Request.Context(), cache)
		c.JSON(http.StatusOK, res)
	}
}

// ListAllClassesHandler returns every class regardless of status
func ListAllClassesHandler(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		classes, err := st.ListClasses(c.Request.Context(), store.ClassFilter{})
		if err != nil {
			internalError(c, "Failed to fetch classes", err, nil)
			return
		}
		c.JSON(http.StatusOK, classes)
	}
}

// ListInstructorClassesHandler returns the classes owned by the query email
func ListInstructorClassesHandler(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email") // Already matched against the token
		classes, err := st.ListClasses(c.Request.Context(), store.ClassFilter{InstructorEmail: email})
		if err != nil {
			internalError(c, "Failed to fetch instructor classes", err, logrus.Fields{"email": email})
			return
		}
		c.JSON(http.StatusOK, classes)
	}
}

// GetClassHandler returns one class, or null when it does not exist
func GetClassHandler(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		class, err := st.FindClass(c.Request.Context(), c.Param("id"))
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, nil) // Absent class reads as null
			return
		}
		if err != nil {
			internalError(c, "Failed to fetch class", err, logrus.Fields{"class_id": c.Param("id")})
			return
		}
		c.JSON(http.StatusOK, class)
	}
}

// ApprovedClassesHandler lists classes with status Approve
func ApprovedClassesHandler(st store.Store, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		cachedClasses(c, cache, approvedClassesKey, func(ctx context.Context) ([]domain.Class, error) {
			return st.ListClasses(ctx, store.ClassFilter{Status: domain.StatusApprove})
		})
	}
}

// PopularClassesHandler lists the six approved classes with the most students
func PopularClassesHandler(st store.Store, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		cachedClasses(c, cache, popularClassesKey, func(ctx context.Context) ([]domain.Class, error) {
			return st.PopularClasses(ctx, store.PopularLimit)
		})
	}
}

// UpdateClassStatusHandler sets the status of a class; any string is accepted
func UpdateClassStatusHandler(st store.Store, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StatusRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "status is required")
			return
		}
		id := c.Param("id")
		res, err := st.SetClassStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			internalError(c, "Class status update failed", err, logrus.Fields{"class_id": id})
			return
		}
		logrus.WithFields(logrus.Fields{
			"class_id": id,         // Target class
			"status":   req.Status, // New status
		}).Info("Class status updated")
		invalidateClassLists(c.Request.Context(), cache)
		c.JSON(http.StatusOK, res)
	}
}

// UpdateClassFeedbackHandler sets the admin feedback of a class
func UpdateClassFeedbackHandler(st store.Store, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FeedbackRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "feedback is required")
			return
		}
		id := c.Param("id")
		res, err := st.SetClassFeedback(c.Request.Context(), id, *req.Feedback)
		if err != nil {
			internalError(c, "Class feedback update failed", err, logrus.Fields{"class_id": id})
			return
		}
		logrus.WithField("class_id", id).Info("Class feedback updated")
		invalidateClassLists(c.Request.Context(), cache)
		c.JSON(http.StatusOK, res)
	}
}

// UpsertClassHandler replaces the supplied fields of a class, creating it if absent.
// This bypasses the Pending/Approve/Denied review on purpose.
func UpsertClassHandler(st store.Store, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch domain.ClassPatch // Bind JSON request to struct
		if err := c.ShouldBindJSON(&patch); err != nil {
			respondError(c, http.StatusBadRequest, "invalid class payload")
			return
		}
		id := c.Param("id")
		res, err := st.UpsertClass(c.Request.Context(), id, patch)
		if err != nil {
			internalError(c, "Class upsert failed", err, logrus.Fields{"class_id": id})
			return
		}
		logrus.WithFields(logrus.Fields{
			"class_id": id,                               // Target class
			"upserted": res.UpsertedCount,                // Created when absent
			"by":       c.GetString(middleware.EmailKey), // Token identity
		}).Info("Class upserted")
		invalidateClassLists(c.Request.Context(), cache)
		c.JSON(http.StatusOK, res)
	}
}
