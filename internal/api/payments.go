package api

import (
	"errors"                          // Error inspection
	"net/http"                        // HTTP status codes
	"sports_academy/internal/domain"  // Importing domain models
	"sports_academy/internal/payment" // Payment gateway
	"sports_academy/internal/store"   // Data store
	"sports_academy/internal/utils"   // Cache
	"time"                            // Payment dates

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// PaymentIntentRequest carries the price in major currency units.
// The upper bound matches payment.MaxPrice.
type PaymentIntentRequest struct {
	Price float64 `json:"price" binding:"required,gt=0,lte=1000000"` // Price to charge
}

// PaymentIntentResponse carries the gateway client secret
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// PaymentInfoRequest is the payment record posted after the gateway confirmed the charge
type PaymentInfoRequest struct {
	Email           string     `json:"email" binding:"required,email"`   // Paying student
	ClassID         string     `json:"classId" binding:"required"`       // Enrolled class
	SelectedClassID string     `json:"selectedClassId"`                  // Cart entry to remove
	SelectedID      string     `json:"selectedId"`                       // Older clients send this name
	ClassName       string     `json:"className"`                        // Class title
	Amount          float64    `json:"amount"`                           // Amount paid
	TransactionID   string     `json:"transactionId" binding:"required"` // Gateway transaction id
	Date            *time.Time `json:"date"`                             // Defaults to now
}

// CreatePaymentIntentHandler asks the gateway for a card payment intent
func CreatePaymentIntentHandler(gw payment.Gateway, currency string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PaymentIntentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "price must be positive and at most 1000000")
			return
		}
		amount := payment.MinorUnits(req.Price) // Convert to minor units
		secret, err := gw.CreatePaymentIntent(c.Request.Context(), amount, currency)
		if err != nil {
			// Gateway failures are not retried
			logrus.WithFields(logrus.Fields{
				"amount":   amount,      // Minor units
				"currency": currency,    // Fixed currency
				"error":    err.Error(), // Gateway error
			}).Error("Payment intent failed")
			respondError(c, http.StatusInternalServerError, "payment intent failed")
			return
		}
		logrus.WithFields(logrus.Fields{
			"amount":   amount,   // Minor units
			"currency": currency, // Fixed currency
		}).Info("Payment intent created")
		c.JSON(http.StatusOK, PaymentIntentResponse{ClientSecret: secret})
	}
}

// FinalizeEnrollmentHandler records a paid enrollment: insert the enrollment,
// remove the cart entry, bump enrolledStudents and take one seat, atomically.
// Replaying a known transactionId returns the recorded enrollment untouched.
func FinalizeEnrollmentHandler(st store.Store, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PaymentInfoRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "email, classId and transactionId are required")
			return
		}
		enrollment := domain.Enrollment{
			Email:           req.Email,
			ClassID:         req.ClassID,
			SelectedClassID: req.SelectedClassID,
			ClassName:       req.ClassName,
			Amount:          req.Amount,
			TransactionID:   req.TransactionID,
			Date:            time.Now().UTC(),
		}
		if enrollment.SelectedClassID == "" {
			enrollment.SelectedClassID = req.SelectedID
		}
		if req.Date != nil {
			enrollment.Date = req.Date.UTC()
		}
		fields := logrus.Fields{
			"email":          req.Email,   // Paying student
			"class_id":       req.ClassID, // Enrolled class
			"selected_id":    enrollment.SelectedClassID,
			"transaction_id": req.TransactionID, // Idempotency key
			"amount":         req.Amount,        // Amount paid
		}
		res, err := st.FinalizeEnrollment(c.Request.Context(), &enrollment)
		switch {
		case errors.Is(err, store.ErrNotFound):
			logrus.WithFields(fields).Warn("Enrollment for unknown class rolled back")
			respondError(c, http.StatusNotFound, "class not found")
			return
		case errors.Is(err, store.ErrDuplicate):
			// Lost a race with a concurrent replay of the same transaction
			respondError(c, http.StatusConflict, "payment already recorded")
			return
		case err != nil:
			internalError(c, "Enrollment failed", err, fields)
			return
		}
		if res.Replayed {
			logrus.WithFields(fields).Info("Enrollment replay ignored")
		} else {
			logrus.WithFields(fields).WithField("enrollment_id", enrollment.ID).Info("Enrollment recorded")
			invalidateClassLists(c.Request.Context(), cache) // Counters changed
		}
		c.JSON(http.StatusOK, res)
	}
}
