package store

import (
	"context"
	"testing"
	"time"

	"sports_academy/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreFinalizeEnrollment(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.InsertClass(ctx, &domain.Class{ID: "C", Status: domain.StatusApprove, EnrolledStudents: 4, AvailableSeats: 10})
	require.NoError(t, err)
	_, err = s.InsertSelectedClass(ctx, &domain.SelectedClass{ID: "S", StudentEmail: "e@elite.io", ClassID: "C"})
	require.NoError(t, err)

	res, err := s.FinalizeEnrollment(ctx, &domain.Enrollment{
		Email: "e@elite.io", ClassID: "C", SelectedClassID: "S", TransactionID: "pi_1", Amount: 30,
	})
	require.NoError(t, err)
	assert.False(t, res.Replayed)
	assert.Equal(t, int64(1), res.DeleteResult.DeletedCount)

	enrollments, _ := s.ListEnrollments(ctx, "e@elite.io", false)
	require.Len(t, enrollments, 1)
	assert.Equal(t, "C", enrollments[0].ClassID)

	_, err = s.FindSelectedClass(ctx, "S")
	assert.ErrorIs(t, err, ErrNotFound)

	class, _ := s.FindClass(ctx, "C")
	assert.Equal(t, 5, class.EnrolledStudents)
	assert.Equal(t, 9, class.AvailableSeats)
}

func TestMemoryStoreFinalizeReplayIsNoop(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, _ = s.InsertClass(ctx, &domain.Class{ID: "C", AvailableSeats: 1})

	first, err := s.FinalizeEnrollment(ctx, &domain.Enrollment{Email: "e@elite.io", ClassID: "C", TransactionID: "pi_1"})
	require.NoError(t, err)
	second, err := s.FinalizeEnrollment(ctx, &domain.Enrollment{Email: "e@elite.io", ClassID: "C", TransactionID: "pi_1"})
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.InsertResult.InsertedID, second.InsertResult.InsertedID)
	enrollments, _ := s.ListEnrollments(ctx, "e@elite.io", false)
	assert.Len(t, enrollments, 1)
	class, _ := s.FindClass(ctx, "C")
	assert.Equal(t, 0, class.AvailableSeats)
	assert.Equal(t, 1, class.EnrolledStudents)
}

func TestMemoryStoreFinalizeMissingClassWritesNothing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, _ = s.InsertSelectedClass(ctx, &domain.SelectedClass{ID: "S", StudentEmail: "e@elite.io"})

	_, err := s.FinalizeEnrollment(ctx, &domain.Enrollment{Email: "e@elite.io", ClassID: "missing", SelectedClassID: "S", TransactionID: "pi_2"})
	assert.ErrorIs(t, err, ErrNotFound)

	enrollments, _ := s.ListEnrollments(ctx, "e@elite.io", false)
	assert.Empty(t, enrollments)
	_, err = s.FindSelectedClass(ctx, "S")
	assert.NoError(t, err)
}

func TestMemoryStoreSeatsMayGoNegative(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, _ = s.InsertClass(ctx, &domain.Class{ID: "C"})

	_, err := s.FinalizeEnrollment(ctx, &domain.Enrollment{ClassID: "C", TransactionID: "pi_3"})
	require.NoError(t, err)

	class, _ := s.FindClass(ctx, "C")
	assert.Equal(t, -1, class.AvailableSeats)
}

func TestMemoryStorePopularClasses(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, n := range []int{50, 10, 80, 5, 95, 20, 60, 15} {
		_, _ = s.InsertClass(ctx, &domain.Class{Status: domain.StatusApprove, EnrolledStudents: n})
	}
	_, _ = s.InsertClass(ctx, &domain.Class{Status: domain.StatusPending, EnrolledStudents: 500})
	_, _ = s.InsertClass(ctx, &domain.Class{Status: domain.StatusDenied, EnrolledStudents: 400})

	classes, err := s.PopularClasses(ctx, PopularLimit)
	require.NoError(t, err)

	var counts []int
	for _, c := range classes {
		assert.Equal(t, domain.StatusApprove, c.Status)
		counts = append(counts, c.EnrolledStudents)
	}
	assert.Equal(t, []int{95, 80, 60, 50, 20, 15}, counts)
}

func TestMemoryStorePaymentHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, _ = s.InsertClass(ctx, &domain.Class{ID: "C"})
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, offset := range []int{2, 0, 5, 1} {
		_, err := s.FinalizeEnrollment(ctx, &domain.Enrollment{
			Email:         "e@elite.io",
			ClassID:       "C",
			TransactionID: "pi_" + string(rune('a'+i)),
			Date:          base.AddDate(0, 0, offset),
		})
		require.NoError(t, err)
	}

	history, err := s.ListEnrollments(ctx, "e@elite.io", true)
	require.NoError(t, err)
	require.Len(t, history, 4)
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].Date.After(history[i-1].Date))
	}
}

func TestMemoryStoreUpsertClass(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	title := "Fencing"

	res, err := s.UpsertClass(ctx, "C", domain.ClassPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.UpsertedCount)

	price := 12.0
	res, err = s.UpsertClass(ctx, "C", domain.ClassPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount)
	assert.Equal(t, int64(1), res.ModifiedCount)

	class, _ := s.FindClass(ctx, "C")
	assert.Equal(t, "Fencing", class.Title)
	assert.Equal(t, 12.0, class.Price)
}

func TestMemoryStoreRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.InsertUser(ctx, &domain.User{Email: "a@elite.io"})
	require.NoError(t, err)
	_, err = s.InsertUser(ctx, &domain.User{Email: "a@elite.io"})
	assert.ErrorIs(t, err, ErrDuplicate)
}
