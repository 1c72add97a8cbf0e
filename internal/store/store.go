// Package store is the data access layer for users, classes, cart entries
// and enrollments. Handlers depend on the Store interface; GormStore and
// MongoStore are the two backends.
package store

import (
	"context"
	"errors"

	"sports_academy/internal/domain"
)

var (
	// ErrNotFound is returned by point lookups and updates that match nothing.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique key (user email, enrollment
	// transaction id) already exists.
	ErrDuplicate = errors.New("duplicate key")
)

// PopularLimit is the number of classes returned by the popular-classes query.
const PopularLimit = 6

// InsertResult acknowledges a single insert.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult acknowledges a single-document update.
type UpdateResult struct {
	Acknowledged  bool   `json:"acknowledged"`
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedCount int64  `json:"upsertedCount"`
	UpsertedID    string `json:"upsertedId,omitempty"`
}

// DeleteResult acknowledges a single-document delete.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// EnrollmentResult collects the four effects of a finalized payment.
// Replayed is set when the transaction id was already recorded; the other
// results then describe no writes.
type EnrollmentResult struct {
	InsertResult   InsertResult `json:"insertResult"`
	DeleteResult   DeleteResult `json:"deleteResult"`
	EnrolledResult UpdateResult `json:"enrolledResult"`
	SeatsResult    UpdateResult `json:"seatsResult"`
	Replayed       bool         `json:"replayed"`
}

// ClassFilter narrows a class listing. Empty fields are ignored.
type ClassFilter struct {
	InstructorEmail string
	Status          string
}

// Store is the persistence contract shared by all backends.
type Store interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	InsertUser(ctx context.Context, u *domain.User) (InsertResult, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	SetUserRole(ctx context.Context, id, role string) (UpdateResult, error)

	InsertClass(ctx context.Context, c *domain.Class) (InsertResult, error)
	ListClasses(ctx context.Context, f ClassFilter) ([]domain.Class, error)
	FindClass(ctx context.Context, id string) (*domain.Class, error)
	// PopularClasses returns up to limit Approve classes ordered by
	// enrolledStudents descending. Ties keep the backend's natural order.
	PopularClasses(ctx context.Context, limit int) ([]domain.Class, error)
	SetClassStatus(ctx context.Context, id, status string) (UpdateResult, error)
	SetClassFeedback(ctx context.Context, id, feedback string) (UpdateResult, error)
	UpsertClass(ctx context.Context, id string, p domain.ClassPatch) (UpdateResult, error)

	InsertSelectedClass(ctx context.Context, s *domain.SelectedClass) (InsertResult, error)
	ListSelectedClasses(ctx context.Context, studentEmail string) ([]domain.SelectedClass, error)
	FindSelectedClass(ctx context.Context, id string) (*domain.SelectedClass, error)
	DeleteSelectedClass(ctx context.Context, id string) (DeleteResult, error)

	// FinalizeEnrollment records e, removes its cart entry and moves the
	// class counters, all in one transaction. A missing class rolls the
	// whole sequence back with ErrNotFound.
	FinalizeEnrollment(ctx context.Context, e *domain.Enrollment) (EnrollmentResult, error)
	ListEnrollments(ctx context.Context, email string, newestFirst bool) ([]domain.Enrollment, error)

	Close(ctx context.Context) error
}

func updated(matched, modified int64) UpdateResult {
	return UpdateResult{Acknowledged: true, MatchedCount: matched, ModifiedCount: modified}
}

func replayed(existing *domain.Enrollment) EnrollmentResult {
	return EnrollmentResult{
		InsertResult:   InsertResult{Acknowledged: true, InsertedID: existing.ID},
		DeleteResult:   DeleteResult{Acknowledged: true},
		EnrolledResult: updated(0, 0),
		SeatsResult:    updated(0, 0),
		Replayed:       true,
	}
}
