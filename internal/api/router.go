package api

import (
	"sports_academy/internal/domain"     // Role names
	"sports_academy/internal/middleware" // Guards
	"sports_academy/internal/payment"    // Payment gateway
	"sports_academy/internal/store"      // Data store
	"sports_academy/internal/utils"      // Cache

	"github.com/gin-gonic/gin" // Gin web framework
)

// Deps are the shared resources injected into every handler
type Deps struct {
	Store     store.Store     // Data store
	Cache     utils.Cache     // Class listing cache
	Gateway   payment.Gateway // Card payment gateway
	JWTSecret string          // Token signing secret
	Currency  string          // Payment intent currency
}

// RegisterRoutes mounts every route on r
func RegisterRoutes(r *gin.Engine, d Deps) {
	guard := middleware.JWTAuthMiddleware(d.JWTSecret)             // Bearer token guard
	identity := middleware.RequireIdentity()                       // Query email must be the caller's
	adminOnly := middleware.RequireRole(d.Store, domain.RoleAdmin) // Moderation routes

	r.GET("/", LivenessHandler())

	// User routes
	r.POST("/users", RegisterUserHandler(d.Store))
	r.POST("/jwt", IssueTokenHandler(d.JWTSecret))
	r.GET("/users/all", guard, identity, ListUsersHandler(d.Store))
	r.PATCH("/users/:id", guard, adminOnly, UpdateRoleHandler(d.Store))
	r.GET("/users/isAdmin", guard, RoleCheckHandler(d.Store, domain.RoleAdmin, "admin"))
	r.GET("/users/isInstructor", guard, RoleCheckHandler(d.Store, domain.RoleInstructor, "instructor"))
	r.GET("/users/isStudent", guard, RoleCheckHandler(d.Store, domain.RoleStudent, "student"))

	// Class routes
	r.POST("/classes", guard, CreateClassHandler(d.Store, d.Cache))
	r.GET("/classes/all", guard, identity, ListAllClassesHandler(d.Store))
	r.GET("/classes/approve", ApprovedClassesHandler(d.Store, d.Cache))
	r.GET("/classes/popularClasses", PopularClassesHandler(d.Store, d.Cache))
	r.GET("/classes", guard, identity, ListInstructorClassesHandler(d.Store))
	r.GET("/classes/:id", GetClassHandler(d.Store))
	r.PATCH("/classes/:id", guard, adminOnly, UpdateClassStatusHandler(d.Store, d.Cache))
	r.PATCH("/classes/feedback/:id", guard, adminOnly, UpdateClassFeedbackHandler(d.Store, d.Cache))
	r.PUT("/classes/:id", guard, UpsertClassHandler(d.Store, d.Cache))

	// Cart routes
	r.POST("/selectedClass", AddSelectedClassHandler(d.Store))
	r.GET("/selectedClass/all", guard, identity, ListSelectedClassesHandler(d.Store))
	r.DELETE("/selectedClass/delete/:id", guard, DeleteSelectedClassHandler(d.Store))

	// Payment routes
	r.POST("/create-payment-intent", CreatePaymentIntentHandler(d.Gateway, d.Currency))
	r.POST("/paymentInfo", FinalizeEnrollmentHandler(d.Store, d.Cache))
	r.GET("/enrollClass/all", guard, identity, ListEnrollmentsHandler(d.Store))
	r.GET("/enrollClass/paymentHistory", guard, PaymentHistoryHandler(d.Store))
}
