package store

import (
	"context"
	"errors"
	"fmt"

	"sports_academy/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore keeps the collections as SQL tables (MySQL or Postgres).
// The connection must be opened with TranslateError enabled so unique
// violations surface as gorm.ErrDuplicatedKey.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func gormErr(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// findOne loads the first row matching query into dest, answering
// gorm.ErrRecordNotFound on a miss. Unlike First, a miss is not logged.
func findOne(tx *gorm.DB, dest any, query string, args ...any) error {
	res := tx.Where(query, args...).Limit(1).Find(dest)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := findOne(s.db.WithContext(ctx), &user, "email = ?", email); err != nil {
		return nil, gormErr("find user", err)
	}
	return &user, nil
}

func (s *GormStore) InsertUser(ctx context.Context, u *domain.User) (InsertResult, error) {
	ensureID(&u.ID)
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return InsertResult{}, gormErr("insert user", err)
	}
	return InsertResult{Acknowledged: true, InsertedID: u.ID}, nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, gormErr("list users", err)
	}
	return users, nil
}

func (s *GormStore) SetUserRole(ctx context.Context, id, role string) (UpdateResult, error) {
	return s.setColumn(ctx, &domain.User{}, id, "role", role)
}

// setColumn updates one column of the row with the given id. MySQL reports
// only changed rows, so an update that rewrites the same value counts as
// matched only when the row exists.
func (s *GormStore) setColumn(ctx context.Context, model any, id, column string, value any) (UpdateResult, error) {
	var res UpdateResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			res = updated(0, 0)
			return nil
		}
		result := tx.Model(model).Where("id = ?", id).Update(column, value)
		if result.Error != nil {
			return result.Error
		}
		res = updated(count, result.RowsAffected)
		return nil
	})
	if err != nil {
		return UpdateResult{}, gormErr("update "+column, err)
	}
	return res, nil
}

func (s *GormStore) InsertClass(ctx context.Context, c *domain.Class) (InsertResult, error) {
	ensureID(&c.ID)
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return InsertResult{}, gormErr("insert class", err)
	}
	return InsertResult{Acknowledged: true, InsertedID: c.ID}, nil
}

func (s *GormStore) ListClasses(ctx context.Context, f ClassFilter) ([]domain.Class, error) {
	query := s.db.WithContext(ctx).Model(&domain.Class{})
	if f.InstructorEmail != "" {
		query = query.Where("instructor_email = ?", f.InstructorEmail)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	classes := []domain.Class{}
	if err := query.Find(&classes).Error; err != nil {
		return nil, gormErr("list classes", err)
	}
	return classes, nil
}

func (s *GormStore) FindClass(ctx context.Context, id string) (*domain.Class, error) {
	var class domain.Class
	if err := findOne(s.db.WithContext(ctx), &class, "id = ?", id); err != nil {
		return nil, gormErr("find class", err)
	}
	return &class, nil
}

func (s *GormStore) PopularClasses(ctx context.Context, limit int) ([]domain.Class, error) {
	classes := []domain.Class{}
	err := s.db.WithContext(ctx).
		Where("status = ?", domain.StatusApprove).
		Order("enrolled_students desc").
		Limit(limit).
		Find(&classes).Error
	if err != nil {
		return nil, gormErr("popular classes", err)
	}
	return classes, nil
}

func (s *GormStore) SetClassStatus(ctx context.Context, id, status string) (UpdateResult, error) {
	return s.setColumn(ctx, &domain.Class{}, id, "status", status)
}

func (s *GormStore) SetClassFeedback(ctx context.Context, id, feedback string) (UpdateResult, error) {
	return s.setColumn(ctx, &domain.Class{}, id, "feedback", feedback)
}

// UpsertClass sets the supplied fields on the class, creating it with that
// id when it does not exist.
func (s *GormStore) UpsertClass(ctx context.Context, id string, p domain.ClassPatch) (UpdateResult, error) {
	var res UpdateResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Class
		err := findOne(tx, &existing, "id = ?", id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			class := domain.Class{ID: id}
			p.Apply(&class)
			if err := tx.Create(&class).Error; err != nil {
				return err
			}
			res = UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: id}
			return nil
		}
		if err != nil {
			return err
		}
		values := p.Values()
		if len(values) == 0 {
			res = updated(1, 0)
			return nil
		}
		fields := make(map[string]any, len(values))
		for _, v := range values {
			fields[v.Field] = v.Value
		}
		result := tx.Model(&existing).Updates(fields)
		if result.Error != nil {
			return result.Error
		}
		res = updated(1, result.RowsAffected)
		return nil
	})
	if err != nil {
		return UpdateResult{}, gormErr("upsert class", err)
	}
	return res, nil
}

func (s *GormStore) InsertSelectedClass(ctx context.Context, sc *domain.SelectedClass) (InsertResult, error) {
	ensureID(&sc.ID)
	if err := s.db.WithContext(ctx).Create(sc).Error; err != nil {
		return InsertResult{}, gormErr("insert selected class", err)
	}
	return InsertResult{Acknowledged: true, InsertedID: sc.ID}, nil
}

func (s *GormStore) ListSelectedClasses(ctx context.Context, studentEmail string) ([]domain.SelectedClass, error) {
	selected := []domain.SelectedClass{}
	if err := s.db.WithContext(ctx).Where("student_email = ?", studentEmail).Find(&selected).Error; err != nil {
		return nil, gormErr("list selected classes", err)
	}
	return selected, nil
}

func (s *GormStore) FindSelectedClass(ctx context.Context, id string) (*domain.SelectedClass, error) {
	var sc domain.SelectedClass
	if err := findOne(s.db.WithContext(ctx), &sc, "id = ?", id); err != nil {
		return nil, gormErr("find selected class", err)
	}
	return &sc, nil
}

func (s *GormStore) DeleteSelectedClass(ctx context.Context, id string) (DeleteResult, error) {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.SelectedClass{})
	if result.Error != nil {
		return DeleteResult{}, gormErr("delete selected class", result.Error)
	}
	return DeleteResult{Acknowledged: true, DeletedCount: result.RowsAffected}, nil
}

func (s *GormStore) FinalizeEnrollment(ctx context.Context, e *domain.Enrollment) (EnrollmentResult, error) {
	var res EnrollmentResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Enrollment
		err := findOne(tx, &existing, "transaction_id = ?", e.TransactionID)
		if err == nil {
			res = replayed(&existing)
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		ensureID(&e.ID)
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		res.InsertResult = InsertResult{Acknowledged: true, InsertedID: e.ID}

		del := tx.Where("id = ?", e.SelectedClassID).Delete(&domain.SelectedClass{})
		if del.Error != nil {
			return del.Error
		}
		res.DeleteResult = DeleteResult{Acknowledged: true, DeletedCount: del.RowsAffected}

		enrolled := tx.Model(&domain.Class{}).Where("id = ?", e.ClassID).
			Update("enrolled_students", gorm.Expr("enrolled_students + ?", 1))
		if enrolled.Error != nil {
			return enrolled.Error
		}
		if enrolled.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		res.EnrolledResult = updated(enrolled.RowsAffected, enrolled.RowsAffected)

		// No floor check; seats may go negative.
		seats := tx.Model(&domain.Class{}).Where("id = ?", e.ClassID).
			Update("available_seats", gorm.Expr("available_seats - ?", 1))
		if seats.Error != nil {
			return seats.Error
		}
		res.SeatsResult = updated(seats.RowsAffected, seats.RowsAffected)
		return nil
	})
	if err != nil {
		return EnrollmentResult{}, gormErr("finalize enrollment", err)
	}
	return res, nil
}

func (s *GormStore) ListEnrollments(ctx context.Context, email string, newestFirst bool) ([]domain.Enrollment, error) {
	query := s.db.WithContext(ctx).Where("email = ?", email)
	if newestFirst {
		query = query.Order("date desc")
	}
	enrollments := []domain.Enrollment{}
	if err := query.Find(&enrollments).Error; err != nil {
		return nil, gormErr("list enrollments", err)
	}
	return enrollments, nil
}

func (s *GormStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
