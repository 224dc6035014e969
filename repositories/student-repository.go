package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"social-service/portal-service/models"
)

type StudentRepository struct {
	collection *mongo.Collection
}

func NewStudentRepository(db *mongo.Database) *StudentRepository {
	return &StudentRepository{collection: db.Collection(StudentsCollection)}
}

func (r *StudentRepository) Insert(ctx context.Context, student *models.Student) error {
	if student.ID.IsZero() {
		student.ID = primitive.NewObjectID()
	}
	student.Careers = emptyIfNil(student.Careers)

	_, err := r.collection.InsertOne(ctx, student)
	return translate(err, "insert student")
}

func (r *StudentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error) {
	return findOne[models.Student](ctx, r.collection, bson.M{"_id": id}, "find student")
}

func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	return findOne[models.Student](ctx, r.collection, bson.M{"email": email}, "find student by email")
}

func (r *StudentRepository) FindAll(ctx context.Context) ([]models.Student, error) {
	return findMany[models.Student](ctx, r.collection, bson.M{}, "list students")
}

func (r *StudentRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Student, error) {
	if len(ids) == 0 {
		return []models.Student{}, nil
	}
	return findMany[models.Student](ctx, r.collection, byIDs(ids), "list students by id")
}

// AddCareer links a career to the student. It reports false when the student
// is missing or already has the career.
func (r *StudentRepository) AddCareer(ctx context.Context, studentID, careerID primitive.ObjectID) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": studentID, "careers": bson.M{"$ne": careerID}},
		bson.M{"$addToSet": bson.M{"careers": careerID}},
	)
	if err != nil {
		return false, translate(err, "add student career")
	}
	return res.ModifiedCount > 0, nil
}

func (r *StudentRepository) SetRole(ctx context.Context, email, role string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return false, translate(err, "set student role")
	}
	return res.MatchedCount > 0, nil
}

// MigrateMissingRoles gives the student role to records stored without one.
// A null or empty role counts as missing.
func (r *StudentRepository) MigrateMissingRoles(ctx context.Context) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"role": bson.M{"$in": bson.A{nil, ""}}},
		bson.M{"$set": bson.M{"role": models.RoleStudent}},
	)
	if err != nil {
		return 0, translate(err, "migrate student roles")
	}
	return res.ModifiedCount, nil
}

func (r *StudentRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return deleteByID(ctx, r.collection, id, "delete student")
}
