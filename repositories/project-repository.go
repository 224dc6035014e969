package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"social-service/portal-service/models"
)

type ProjectRepository struct {
	collection *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{collection: db.Collection(ProjectsCollection)}
}

func (r *ProjectRepository) Insert(ctx context.Context, project *models.Project) error {
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	// $addToSet on approval needs an array, never null.
	project.Students = emptyIfNil(project.Students)

	_, err := r.collection.InsertOne(ctx, project)
	return translate(err, "insert project")
}

func (r *ProjectRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	return findOne[models.Project](ctx, r.collection, bson.M{"_id": id}, "find project")
}

func (r *ProjectRepository) FindByName(ctx context.Context, name string) (*models.Project, error) {
	return findOne[models.Project](ctx, r.collection, bson.M{"name": name}, "find project by name")
}

func (r *ProjectRepository) FindAll(ctx context.Context) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})
	return findMany[models.Project](ctx, r.collection, bson.M{}, "list projects", opts)
}

func (r *ProjectRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Project, error) {
	if len(ids) == 0 {
		return []models.Project{}, nil
	}
	return findMany[models.Project](ctx, r.collection, byIDs(ids), "list projects by id")
}

func (r *ProjectRepository) FindByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Project, error) {
	return findMany[models.Project](ctx, r.collection, bson.M{"students": studentID}, "list projects by student")
}

// ReserveSeat takes one seat for the student in a single conditional update.
// It matches only while capacity remains and the student is not enrolled yet,
// so concurrent approvals can never drive capacity below zero. It returns nil
// when nothing matched.
func (r *ProjectRepository) ReserveSeat(ctx context.Context, projectID, studentID primitive.ObjectID) (*models.Project, error) {
	filter := bson.M{
		"_id":      projectID,
		"capacity": bson.M{"$gt": 0},
		"students": bson.M{"$ne": studentID},
	}
	update := bson.M{
		"$inc":      bson.M{"capacity": -1},
		"$addToSet": bson.M{"students": studentID},
	}
	return findOneAndUpdate[models.Project](ctx, r.collection, filter, update, "reserve project seat")
}

// ReleaseSeat undoes ReserveSeat. It returns nil when the student does not
// hold a seat on the project.
func (r *ProjectRepository) ReleaseSeat(ctx context.Context, projectID, studentID primitive.ObjectID) (*models.Project, error) {
	filter := bson.M{"_id": projectID, "students": studentID}
	update := bson.M{
		"$inc":  bson.M{"capacity": 1},
		"$pull": bson.M{"students": studentID},
	}
	return findOneAndUpdate[models.Project](ctx, r.collection, filter, update, "release project seat")
}

func (r *ProjectRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return deleteByID(ctx, r.collection, id, "delete project")
}
