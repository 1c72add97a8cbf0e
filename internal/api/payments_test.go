package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"sports_academy/internal/domain"
	"sports_academy/internal/middleware"
	"sports_academy/internal/payment"
	"sports_academy/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectedClassCart(t *testing.T) {
	ts := newTestServer(t)
	body := map[string]any{"studentEmail": "s@elite.io", "classId": "C", "title": "Judo", "price": 40}

	w := ts.do(t, http.MethodPost, "/selectedClass", body, "")
	require.Equal(t, http.StatusOK, w.Code)
	entryID := decodeJSON[store.InsertResult](t, w).InsertedID

	w = ts.do(t, http.MethodGet, "/selectedClass/all?email=s@elite.io", nil, "s@elite.io")
	require.Equal(t, http.StatusOK, w.Code)
	cart := decodeJSON[[]domain.SelectedClass](t, w)
	require.Len(t, cart, 1)
	assert.Equal(t, "Judo", cart[0].Title)

	// Someone else cannot remove the entry
	w = ts.do(t, http.MethodDelete, "/selectedClass/delete/"+entryID, nil, "thief@elite.io")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, middleware.MsgForbiddenUser, decodeJSON[map[string]any](t, w)["message"])

	w = ts.do(t, http.MethodDelete, "/selectedClass/delete/"+entryID, nil, "s@elite.io")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decodeJSON[store.DeleteResult](t, w).DeletedCount)

	w = ts.do(t, http.MethodDelete, "/selectedClass/delete/"+entryID, nil, "s@elite.io")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, store.DeleteResult{Acknowledged: true}, decodeJSON[store.DeleteResult](t, w))
}

func TestSelectedClassRequiresOwner(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodPost, "/selectedClass", map[string]any{"classId": "C"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePaymentIntent(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/create-payment-intent", map[string]any{"price": 19.99}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pi_test_secret_abc", decodeJSON[PaymentIntentResponse](t, w).ClientSecret)
	assert.Equal(t, int64(1999), ts.gw.amount)
	assert.Equal(t, "usd", ts.gw.currency)

	for _, price := range []any{0, -5, "ten", 1e20, payment.MaxPrice + 0.01} {
		w = ts.do(t, http.MethodPost, "/create-payment-intent", map[string]any{"price": price}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "price %v", price)
	}
	assert.Equal(t, 1, ts.gw.calls)

	w = ts.do(t, http.MethodPost, "/create-payment-intent", map[string]any{"price": payment.MaxPrice}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(100000000), ts.gw.amount)
}

func TestCreatePaymentIntentGatewayFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.gw.err = errors.New("card_declined")

	w := ts.do(t, http.MethodPost, "/create-payment-intent", map[string]any{"price": 10}, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, ts.gw.calls)
}

func TestFinalizeEnrollment(t *testing.T) {
	ts := newTestServer(t)
	class := ts.seedClass(t, domain.Class{Title: "Judo", Status: domain.StatusApprove, EnrolledStudents: 2, AvailableSeats: 5})
	w := ts.do(t, http.MethodPost, "/selectedClass", map[string]any{"studentEmail": "s@elite.io", "classId": class.ID}, "")
	require.Equal(t, http.StatusOK, w.Code)
	entryID := decodeJSON[store.InsertResult](t, w).InsertedID

	// Warm the popular listing so the counters change is observable
	ts.do(t, http.MethodGet, "/classes/popularClasses", nil, "")

	paid := map[string]any{
		"email":         "s@elite.io",
		"classId":       class.ID,
		"selectedId":    entryID,
		"className":     "Judo",
		"amount":        40,
		"transactionId": "pi_123",
	}
	w = ts.do(t, http.MethodPost, "/paymentInfo", paid, "")
	require.Equal(t, http.StatusOK, w.Code)
	res := decodeJSON[store.EnrollmentResult](t, w)
	assert.False(t, res.Replayed)
	assert.NotEmpty(t, res.InsertResult.InsertedID)
	assert.Equal(t, int64(1), res.DeleteResult.DeletedCount)

	got, err := ts.st.MemoryStore.FindClass(context.Background(), class.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.EnrolledStudents)
	assert.Equal(t, 4, got.AvailableSeats)

	cart, _ := ts.st.MemoryStore.ListSelectedClasses(context.Background(), "s@elite.io")
	assert.Empty(t, cart)

	w = ts.do(t, http.MethodGet, "/classes/popularClasses", nil, "")
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	// A replayed transaction changes nothing
	w = ts.do(t, http.MethodPost, "/paymentInfo", paid, "")
	require.Equal(t, http.StatusOK, w.Code)
	replay := decodeJSON[store.EnrollmentResult](t, w)
	assert.True(t, replay.Replayed)
	assert.Equal(t, res.InsertResult.InsertedID, replay.InsertResult.InsertedID)

	got, _ = ts.st.MemoryStore.FindClass(context.Background(), class.ID)
	assert.Equal(t, 3, got.EnrolledStudents)
	assert.Equal(t, 4, got.AvailableSeats)
	enrollments, _ := ts.st.MemoryStore.ListEnrollments(context.Background(), "s@elite.io", false)
	require.Len(t, enrollments, 1)
	assert.Equal(t, entryID, enrollments[0].SelectedClassID)
}

func TestFinalizeEnrollmentUnknownClass(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodPost, "/selectedClass", map[string]any{"studentEmail": "s@elite.io", "classId": "gone"}, "")
	entryID := decodeJSON[store.InsertResult](t, w).InsertedID

	w = ts.do(t, http.MethodPost, "/paymentInfo", map[string]any{
		"email": "s@elite.io", "classId": "gone", "selectedClassId": entryID, "transactionId": "pi_9",
	}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	enrollments, _ := ts.st.MemoryStore.ListEnrollments(context.Background(), "s@elite.io", false)
	assert.Empty(t, enrollments)
	cart, _ := ts.st.MemoryStore.ListSelectedClasses(context.Background(), "s@elite.io")
	assert.Len(t, cart, 1)
}

func TestFinalizeEnrollmentValidation(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodPost, "/paymentInfo", map[string]any{"email": "s@elite.io", "classId": "C"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnrollmentsAndPaymentHistory(t *testing.T) {
	ts := newTestServer(t)
	class := ts.seedClass(t, domain.Class{Title: "Judo"})
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, day := range []int{3, 1, 7} {
		w := ts.do(t, http.MethodPost, "/paymentInfo", map[string]any{
			"email":         "s@elite.io",
			"classId":       class.ID,
			"transactionId": []string{"pi_a", "pi_b", "pi_c"}[i],
			"date":          base.AddDate(0, 0, day),
		}, "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := ts.do(t, http.MethodGet, "/enrollClass/all?email=s@elite.io", nil, "s@elite.io")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON[[]domain.Enrollment](t, w), 3)

	w = ts.do(t, http.MethodGet, "/enrollClass/paymentHistory?email=s@elite.io", nil, "s@elite.io")
	require.Equal(t, http.StatusOK, w.Code)
	history := decodeJSON[[]domain.Enrollment](t, w)
	require.Len(t, history, 3)
	assert.Equal(t, []string{"pi_c", "pi_a", "pi_b"}, []string{
		history[0].TransactionID, history[1].TransactionID, history[2].TransactionID,
	})
}

func TestPaymentHistoryWithoutEmail(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/enrollClass/paymentHistory", nil, "s@elite.io")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
	assert.Zero(t, ts.st.Calls("ListEnrollments"))
}
