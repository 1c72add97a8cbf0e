package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"sports_academy/internal/domain"
)

// MemoryStore keeps everything in process memory. It backs DB_DRIVER=memory
// for local runs and the handler tests. Natural order is insertion order.
type MemoryStore struct {
	mu          sync.Mutex
	users       []domain.User
	classes     []domain.Class
	selected    []domain.SelectedClass
	enrollments []domain.Enrollment
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("find user: %w", ErrNotFound)
}

func (s *MemoryStore) InsertUser(_ context.Context, u *domain.User) (InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return InsertResult{}, fmt.Errorf("insert user: %w", ErrDuplicate)
		}
	}
	ensureID(&u.ID)
	s.users = append(s.users, *u)
	return InsertResult{Acknowledged: true, InsertedID: u.ID}, nil
}

func (s *MemoryStore) ListUsers(context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.User{}, s.users...), nil
}

func (s *MemoryStore) SetUserRole(_ context.Context, id, role string) (UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			modified := int64(0)
			if s.users[i].Role != role {
				s.users[i].Role = role
				modified = 1
			}
			return updated(1, modified), nil
		}
	}
	return updated(0, 0), nil
}

func (s *MemoryStore) InsertClass(_ context.Context, c *domain.Class) (InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&c.ID)
	if s.classIndex(c.ID) >= 0 {
		return InsertResult{}, fmt.Errorf("insert class: %w", ErrDuplicate)
	}
	s.classes = append(s.classes, *c)
	return InsertResult{Acknowledged: true, InsertedID: c.ID}, nil
}

func (s *MemoryStore) ListClasses(_ context.Context, f ClassFilter) ([]domain.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Class{}
	for _, c := range s.classes {
		if f.InstructorEmail != "" && c.InstructorEmail != f.InstructorEmail {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *MemoryStore) FindClass(_ context.Context, id string) (*domain.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.classIndex(id); i >= 0 {
		c := s.classes[i]
		return &c, nil
	}
	return nil, fmt.Errorf("find class: %w", ErrNotFound)
}

func (s *MemoryStore) PopularClasses(ctx context.Context, limit int) ([]domain.Class, error) {
	approved, _ := s.ListClasses(ctx, ClassFilter{Status: domain.StatusApprove})
	sort.SliceStable(approved, func(i, j int) bool {
		return approved[i].EnrolledStudents > approved[j].EnrolledStudents
	})
	if len(approved) > limit {
		approved = approved[:limit]
	}
	return approved, nil
}

func (s *MemoryStore) SetClassStatus(_ context.Context, id, status string) (UpdateResult, error) {
	return s.updateClass(id, func(c *domain.Class) bool {
		changed := c.Status != status
		c.Status = status
		return changed
	}), nil
}

func (s *MemoryStore) SetClassFeedback(_ context.Context, id, feedback string) (UpdateResult, error) {
	return s.updateClass(id, func(c *domain.Class) bool {
		changed := c.Feedback != feedback
		c.Feedback = feedback
		return changed
	}), nil
}

func (s *MemoryStore) UpsertClass(_ context.Context, id string, p domain.ClassPatch) (UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.classIndex(id); i >= 0 {
		before := s.classes[i]
		p.Apply(&s.classes[i])
		modified := int64(0)
		if before != s.classes[i] {
			modified = 1
		}
		return updated(1, modified), nil
	}
	class := domain.Class{ID: id}
	p.Apply(&class)
	s.classes = append(s.classes, class)
	return UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: id}, nil
}

func (s *MemoryStore) InsertSelectedClass(_ context.Context, sc *domain.SelectedClass) (InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&sc.ID)
	s.selected = append(s.selected, *sc)
	return InsertResult{Acknowledged: true, InsertedID: sc.ID}, nil
}

func (s *MemoryStore) ListSelectedClasses(_ context.Context, studentEmail string) ([]domain.SelectedClass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.SelectedClass{}
	for _, sc := range s.selected {
		if sc.StudentEmail == studentEmail {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (s *MemoryStore) FindSelectedClass(_ context.Context, id string) (*domain.SelectedClass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sc := range s.selected {
		if sc.ID == id {
			return &sc, nil
		}
	}
	return nil, fmt.Errorf("find selected class: %w", ErrNotFound)
}

func (s *MemoryStore) DeleteSelectedClass(_ context.Context, id string) (DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return DeleteResult{Acknowledged: true, DeletedCount: s.deleteSelected(id)}, nil
}

func (s *MemoryStore) FinalizeEnrollment(_ context.Context, e *domain.Enrollment) (EnrollmentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.enrollments {
		if existing.TransactionID == e.TransactionID {
			return replayed(&existing), nil
		}
	}
	// Validate before writing so a failure leaves nothing behind.
	ci := s.classIndex(e.ClassID)
	if ci < 0 {
		return EnrollmentResult{}, fmt.Errorf("finalize enrollment: %w", ErrNotFound)
	}

	ensureID(&e.ID)
	s.enrollments = append(s.enrollments, *e)
	deleted := s.deleteSelected(e.SelectedClassID)
	s.classes[ci].EnrolledStudents++
	s.classes[ci].AvailableSeats--

	return EnrollmentResult{
		InsertResult:   InsertResult{Acknowledged: true, InsertedID: e.ID},
		DeleteResult:   DeleteResult{Acknowledged: true, DeletedCount: deleted},
		EnrolledResult: updated(1, 1),
		SeatsResult:    updated(1, 1),
	}, nil
}

func (s *MemoryStore) ListEnrollments(_ context.Context, email string, newestFirst bool) ([]domain.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Enrollment{}
	for _, e := range s.enrollments {
		if e.Email == email {
			out = append(out, e)
		}
	}
	if newestFirst {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	}
	return out, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

func (s *MemoryStore) classIndex(id string) int {
	for i := range s.classes {
		if s.classes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) updateClass(id string, fn func(*domain.Class) bool) UpdateResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.classIndex(id)
	if i < 0 {
		return updated(0, 0)
	}
	if fn(&s.classes[i]) {
		return updated(1, 1)
	}
	return updated(1, 0)
}

func (s *MemoryStore) deleteSelected(id string) int64 {
	for i := range s.selected {
		if s.selected[i].ID == id {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return 1
		}
	}
	return 0
}
