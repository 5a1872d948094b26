package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/stemsi/student-portal/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// searchableFields are matched by Search, in both stores.
var searchableFields = []string{"firstName", "lastName", "email", "studentId"}

// studentDocument is the BSON shape of a student in the students collection.
type studentDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	StudentID bsonText           `bson:"studentId"`
	FirstName bsonText           `bson:"firstName"`
	LastName  bsonText           `bson:"lastName"`
	Email     bsonText           `bson:"email"`
	Course    bsonText           `bson:"course"`
	Year      bsonText           `bson:"year"`
	GPA       bsonText           `bson:"gpa"`
	Status    bsonText           `bson:"status"`
	CreatedAt *bsonTime          `bson:"createdAt,omitempty"`
	UpdatedAt *bsonTime          `bson:"updatedAt,omitempty"`
}

func (d studentDocument) toModel() model.Student {
	return model.Student{
		ID:        d.ID.Hex(),
		StudentID: string(d.StudentID),
		FirstName: string(d.FirstName),
		LastName:  string(d.LastName),
		Email:     string(d.Email),
		Course:    string(d.Course),
		Year:      string(d.Year),
		GPA:       string(d.GPA),
		Status:    string(d.Status),
		CreatedAt: d.CreatedAt.ptr(),
		UpdatedAt: d.UpdatedAt.ptr(),
	}
}

func inputFields(in model.StudentInput) bson.M {
	return bson.M{
		"studentId": in.StudentID,
		"firstName": in.FirstName,
		"lastName":  in.LastName,
		"email":     in.Email,
		"course":    in.Course,
		"year":      in.Year,
		"gpa":       in.GPA,
		"status":    in.Status,
	}
}

// MongoStudentRepository stores students in a MongoDB collection.
type MongoStudentRepository struct {
	collection *mongo.Collection
}

// NewMongoStudentRepository creates a new MongoStudentRepository.
func NewMongoStudentRepository(coll *mongo.Collection) *MongoStudentRepository {
	return &MongoStudentRepository{collection: coll}
}

// EnsureIndexes creates the unique studentId index.
func (r *MongoStudentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "studentId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_student_id"),
	})
	if err != nil {
		return fmt.Errorf("create studentId index: %w", err)
	}
	return nil
}

// List returns every student in natural order.
func (r *MongoStudentRepository) List(ctx context.Context) ([]model.Student, error) {
	return r.find(ctx, bson.M{})
}

// Search returns students whose searchable fields contain query.
func (r *MongoStudentRepository) Search(ctx context.Context, query string) ([]model.Student, error) {
	return r.find(ctx, searchFilter(query))
}

// searchFilter matches query literally and case-insensitively.
func searchFilter(query string) bson.M {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	or := make(bson.A, 0, len(searchableFields))
	for _, f := range searchableFields {
		or = append(or, bson.M{f: pattern})
	}
	return bson.M{"$or": or}
}

func (r *MongoStudentRepository) find(ctx context.Context, filter bson.M) ([]model.Student, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []studentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo cursor decode: %w", err)
	}

	students := make([]model.Student, 0, len(docs))
	for _, d := range docs {
		students = append(students, d.toModel())
	}
	return students, nil
}

// GetByID retrieves a student by its ObjectID hex string.
func (r *MongoStudentRepository) GetByID(ctx context.Context, id string) (*model.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	return r.getByObjectID(ctx, oid)
}

func (r *MongoStudentRepository) getByObjectID(ctx context.Context, oid primitive.ObjectID) (*model.Student, error) {
	var doc studentDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("mongo find one: %w", err)
	}
	s := doc.toModel()
	return &s, nil
}

// Create inserts a new student and stamps createdAt.
func (r *MongoStudentRepository) Create(ctx context.Context, in model.StudentInput) (*model.Student, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := studentDocument{
		ID:        primitive.NewObjectID(),
		StudentID: bsonText(in.StudentID),
		FirstName: bsonText(in.FirstName),
		LastName:  bsonText(in.LastName),
		Email:     bsonText(in.Email),
		Course:    bsonText(in.Course),
		Year:      bsonText(in.Year),
		GPA:       bsonText(in.GPA),
		Status:    bsonText(in.Status),
		CreatedAt: newBSONTime(now),
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateStudentID
		}
		return nil, fmt.Errorf("mongo insert: %w", err)
	}
	s := doc.toModel()
	return &s, nil
}

// Update overwrites the editable fields, stamps updatedAt and returns the
// stored record.
func (r *MongoStudentRepository) Update(ctx context.Context, id string, in model.StudentInput) (*model.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	set := inputFields(in)
	set["updatedAt"] = time.Now().UTC()

	res, err := r.collection.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateStudentID
		}
		return nil, fmt.Errorf("mongo update: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrStudentNotFound
	}
	return r.getByObjectID(ctx, oid)
}

// Delete removes a student by ID.
func (r *MongoStudentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrStudentNotFound
	}
	return nil
}
