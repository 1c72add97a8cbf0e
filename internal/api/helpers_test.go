package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"sports_academy/internal/domain"
	"sports_academy/internal/store"
	"sports_academy/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// countingStore records calls to the queries scoped by identity or cached.
type countingStore struct {
	*store.MemoryStore
	mu    sync.Mutex
	calls map[string]int
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: store.NewMemoryStore(), calls: map[string]int{}}
}

func (s *countingStore) count(name string) {
	s.mu.Lock()
	s.calls[name]++
	s.mu.Unlock()
}

func (s *countingStore) Calls(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *countingStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.count("FindUserByEmail")
	return s.MemoryStore.FindUserByEmail(ctx, email)
}

func (s *countingStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	s.count("ListUsers")
	return s.MemoryStore.ListUsers(ctx)
}

func (s *countingStore) ListClasses(ctx context.Context, f store.ClassFilter) ([]domain.Class, error) {
	s.count("ListClasses")
	return s.MemoryStore.ListClasses(ctx, f)
}

func (s *countingStore) PopularClasses(ctx context.Context, limit int) ([]domain.Class, error) {
	s.count("PopularClasses")
	return s.MemoryStore.PopularClasses(ctx, limit)
}

func (s *countingStore) ListSelectedClasses(ctx context.Context, email string) ([]domain.SelectedClass, error) {
	s.count("ListSelectedClasses")
	return s.MemoryStore.ListSelectedClasses(ctx, email)
}

func (s *countingStore) ListEnrollments(ctx context.Context, email string, newestFirst bool) ([]domain.Enrollment, error) {
	s.count("ListEnrollments")
	return s.MemoryStore.ListEnrollments(ctx, email, newestFirst)
}

type fakeGateway struct {
	amount   int64
	currency string
	calls    int
	err      error
}

func (g *fakeGateway) CreatePaymentIntent(_ context.Context, amount int64, currency string) (string, error) {
	g.calls++
	g.amount, g.currency = amount, currency
	if g.err != nil {
		return "", g.err
	}
	return "pi_test_secret_abc", nil
}

type testServer struct {
	r  *gin.Engine
	st *countingStore
	gw *fakeGateway
	mr *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ts := &testServer{r: gin.New(), st: newCountingStore(), gw: &fakeGateway{}, mr: mr}
	RegisterRoutes(ts.r, Deps{
		Store:     ts.st,
		Cache:     utils.NewRedisCache(rdb),
		Gateway:   ts.gw,
		JWTSecret: testSecret,
		Currency:  "usd",
	})
	return ts
}

// do sends a request, signing a token for email when it is not empty.
func (ts *testServer) do(t *testing.T, method, path string, body any, email string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		token, err := utils.GenerateJWT(email, "", testSecret)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.r.ServeHTTP(w, req)
	return w
}

func (ts *testServer) seedUser(t *testing.T, email, role string) domain.User {
	t.Helper()
	u := domain.User{Email: email, Role: role}
	_, err := ts.st.MemoryStore.InsertUser(context.Background(), &u)
	require.NoError(t, err)
	return u
}

func (ts *testServer) seedClass(t *testing.T, c domain.Class) domain.Class {
	t.Helper()
	_, err := ts.st.MemoryStore.InsertClass(context.Background(), &c)
	require.NoError(t, err)
	return c
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
