package store

import (
	"context"
	"errors"
	"fmt"

	"sports_academy/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names, kept from the document layout the web client was built against.
const (
	usersCollection           = "users"
	classesCollection         = "classes"
	selectedClassesCollection = "selectedClasses"
	enrollmentsCollection     = "enrollments"
)

// MongoStore keeps each entity in its own collection. FinalizeEnrollment
// needs a replica set or sharded cluster for multi-document transactions.
type MongoStore struct {
	client      *mongo.Client
	users       *mongo.Collection
	classes     *mongo.Collection
	selected    *mongo.Collection
	enrollments *mongo.Collection
}

// NewMongoStore binds the collections of dbName.
func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	db := client.Database(dbName)
	return &MongoStore{
		client:      client,
		users:       db.Collection(usersCollection),
		classes:     db.Collection(classesCollection),
		selected:    db.Collection(selectedClassesCollection),
		enrollments: db.Collection(enrollmentsCollection),
	}
}

// EnsureIndexes creates the unique and lookup indexes the store relies on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	if _, err := s.enrollments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "transactionId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "date", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("enrollments index: %w", err)
	}
	if _, err := s.classes.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "instructorEmail", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "enrolledStudents", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("classes index: %w", err)
	}
	if _, err := s.selected.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "studentEmail", Value: 1}},
	}); err != nil {
		return fmt.Errorf("selectedClasses index: %w", err)
	}
	return nil
}

func mongoErr(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments), errors.Is(err, ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func fromUpdate(r *mongo.UpdateResult) UpdateResult {
	res := UpdateResult{
		Acknowledged:  true,
		MatchedCount:  r.MatchedCount,
		ModifiedCount: r.ModifiedCount,
		UpsertedCount: r.UpsertedCount,
	}
	if id, ok := r.UpsertedID.(string); ok {
		res.UpsertedID = id
	}
	return res
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, mongoErr("find user", err)
	}
	return &user, nil
}

func (s *MongoStore) InsertUser(ctx context.Context, u *domain.User) (InsertResult, error) {
	ensureID(&u.ID)
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		return InsertResult{}, mongoErr("insert user", err)
	}
	return InsertResult{Acknowledged: true, InsertedID: u.ID}, nil
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := findAll[domain.User](ctx, s.users, bson.M{})
	if err != nil {
		return nil, mongoErr("list users", err)
	}
	return users, nil
}

func (s *MongoStore) SetUserRole(ctx context.Context, id, role string) (UpdateResult, error) {
	r, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return UpdateResult{}, mongoErr("update role", err)
	}
	return fromUpdate(r), nil
}

func (s *MongoStore) InsertClass(ctx context.Context, c *domain.Class) (InsertResult, error) {
	ensureID(&c.ID)
	if _, err := s.classes.InsertOne(ctx, c); err != nil {
		return InsertResult{}, mongoErr("insert class", err)
	}
	return InsertResult{Acknowledged: true, InsertedID: c.ID}, nil
}

func (s *MongoStore) ListClasses(ctx context.Context, f ClassFilter) ([]domain.Class, error) {
	filter := bson.M{}
	if f.InstructorEmail != "" {
		filter["instructorEmail"] = f.InstructorEmail
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	classes, err := findAll[domain.Class](ctx, s.classes, filter)
	if err != nil {
		return nil, mongoErr("list classes", err)
	}
	return classes, nil
}

func (s *MongoStore) FindClass(ctx context.Context, id string) (*domain.Class, error) {
	var class domain.Class
	if err := s.classes.FindOne(ctx, bson.M{"_id": id}).Decode(&class); err != nil {
		return nil, mongoErr("find class", err)
	}
	return &class, nil
}

func (s *MongoStore) PopularClasses(ctx context.Context, limit int) ([]domain.Class, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "enrolledStudents", Value: -1}}).
		SetLimit(int64(limit))
	classes, err := findAll[domain.Class](ctx, s.classes, bson.M{"status": domain.StatusApprove}, opts)
	if err != nil {
		return nil, mongoErr("popular classes", err)
	}
	return classes, nil
}

func (s *MongoStore) SetClassStatus(ctx context.Context, id, status string) (UpdateResult, error) {
	r, err := s.classes.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return UpdateResult{}, mongoErr("update status", err)
	}
	return fromUpdate(r), nil
}

func (s *MongoStore) SetClassFeedback(ctx context.Context, id, feedback string) (UpdateResult, error) {
	r, err := s.classes.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"feedback": feedback}})
	if err != nil {
		return UpdateResult{}, mongoErr("update feedback", err)
	}
	return fromUpdate(r), nil
}

func (s *MongoStore) UpsertClass(ctx context.Context, id string, p domain.ClassPatch) (UpdateResult, error) {
	set := bson.M{}
	for _, v := range p.Values() {
		set[v.Doc] = v.Value
	}
	if len(set) == 0 {
		set["_id"] = id
	}
	r, err := s.classes.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}, options.Update().SetUpsert(true))
	if err != nil {
		return UpdateResult{}, mongoErr("upsert class", err)
	}
	return fromUpdate(r), nil
}

func (s *MongoStore) InsertSelectedClass(ctx context.Context, sc *domain.SelectedClass) (InsertResult, error) {
	ensureID(&sc.ID)
	if _, err := s.selected.InsertOne(ctx, sc); err != nil {
		return InsertResult{}, mongoErr("insert selected class", err)
	}
	return InsertResult{Acknowledged: true, InsertedID: sc.ID}, nil
}

func (s *MongoStore) ListSelectedClasses(ctx context.Context, studentEmail string) ([]domain.SelectedClass, error) {
	selected, err := findAll[domain.SelectedClass](ctx, s.selected, bson.M{"studentEmail": studentEmail})
	if err != nil {
		return nil, mongoErr("list selected classes", err)
	}
	return selected, nil
}

func (s *MongoStore) FindSelectedClass(ctx context.Context, id string) (*domain.SelectedClass, error) {
	var sc domain.SelectedClass
	if err := s.selected.FindOne(ctx, bson.M{"_id": id}).Decode(&sc); err != nil {
		return nil, mongoErr("find selected class", err)
	}
	return &sc, nil
}

func (s *MongoStore) DeleteSelectedClass(ctx context.Context, id string) (DeleteResult, error) {
	r, err := s.selected.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return DeleteResult{}, mongoErr("delete selected class", err)
	}
	return DeleteResult{Acknowledged: true, DeletedCount: r.DeletedCount}, nil
}

func (s *MongoStore) FinalizeEnrollment(ctx context.Context, e *domain.Enrollment) (EnrollmentResult, error) {
	session, err := s.client.StartSession()
	if err != nil {
		return EnrollmentResult{}, mongoErr("finalize enrollment", err)
	}
	defer session.EndSession(ctx)

	ensureID(&e.ID)
	var res EnrollmentResult
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		// The driver may re-run the callback on transient errors.
		res = EnrollmentResult{}

		var existing domain.Enrollment
		err := s.enrollments.FindOne(sc, bson.M{"transactionId": e.TransactionID}).Decode(&existing)
		if err == nil {
			res = replayed(&existing)
			return nil, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}

		if _, err := s.enrollments.InsertOne(sc, e); err != nil {
			return nil, err
		}
		res.InsertResult = InsertResult{Acknowledged: true, InsertedID: e.ID}

		del, err := s.selected.DeleteOne(sc, bson.M{"_id": e.SelectedClassID})
		if err != nil {
			return nil, err
		}
		res.DeleteResult = DeleteResult{Acknowledged: true, DeletedCount: del.DeletedCount}

		enrolled, err := s.classes.UpdateOne(sc, bson.M{"_id": e.ClassID}, bson.M{"$inc": bson.M{"enrolledStudents": 1}})
		if err != nil {
			return nil, err
		}
		if enrolled.MatchedCount == 0 {
			return nil, ErrNotFound
		}
		res.EnrolledResult = fromUpdate(enrolled)

		seats, err := s.classes.UpdateOne(sc, bson.M{"_id": e.ClassID}, bson.M{"$inc": bson.M{"availableSeats": -1}})
		if err != nil {
			return nil, err
		}
		res.SeatsResult = fromUpdate(seats)
		return nil, nil
	})
	if err != nil {
		return EnrollmentResult{}, mongoErr("finalize enrollment", err)
	}
	return res, nil
}

func (s *MongoStore) ListEnrollments(ctx context.Context, email string, newestFirst bool) ([]domain.Enrollment, error) {
	opts := options.Find()
	if newestFirst {
		opts.SetSort(bson.D{{Key: "date", Value: -1}})
	}
	enrollments, err := findAll[domain.Enrollment](ctx, s.enrollments, bson.M{"email": email}, opts)
	if err != nil {
		return nil, mongoErr("list enrollments", err)
	}
	return enrollments, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
