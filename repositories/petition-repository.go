package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"social-service/portal-service/models"
)

type PetitionRepository struct {
	collection *mongo.Collection
}

func NewPetitionRepository(db *mongo.Database) *PetitionRepository {
	return &PetitionRepository{collection: db.Collection(PetitionsCollection)}
}

func (r *PetitionRepository) Insert(ctx context.Context, petition *models.Petition) error {
	if petition.ID.IsZero() {
		petition.ID = primitive.NewObjectID()
	}
	petition.Students = emptyIfNil(petition.Students)
	petition.Projects = emptyIfNil(petition.Projects)

	_, err := r.collection.InsertOne(ctx, petition)
	return translate(err, "insert petition")
}

func (r *PetitionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Petition, error) {
	return findOne[models.Petition](ctx, r.collection, bson.M{"_id": id}, "find petition")
}

func (r *PetitionRepository) FindByStudentAndProject(ctx context.Context, studentID, projectID primitive.ObjectID) (*models.Petition, error) {
	filter := bson.M{"students": studentID, "projects": projectID}
	return findOne[models.Petition](ctx, r.collection, filter, "find petition by student and project")
}

func (r *PetitionRepository) FindAll(ctx context.Context) ([]models.Petition, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	return findMany[models.Petition](ctx, r.collection, bson.M{}, "list petitions", opts)
}

func (r *PetitionRepository) FindByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Petition, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	return findMany[models.Petition](ctx, r.collection, bson.M{"students": studentID}, "list petitions by student", opts)
}

// Decide moves a pending petition to status in a single conditional update.
// It returns nil when the petition does not exist or is no longer pending.
func (r *PetitionRepository) Decide(ctx context.Context, id primitive.ObjectID, status models.PetitionStatus, decidedAt time.Time, reason *string) (*models.Petition, error) {
	set := bson.M{"status": status, "approvedAt": decidedAt}
	if reason != nil {
		set["rejectionReason"] = *reason
	}
	filter := bson.M{"_id": id, "status": models.StatusPending}
	return findOneAndUpdate[models.Petition](ctx, r.collection, filter, bson.M{"$set": set}, "decide petition")
}

// RemoveEnrollment drops the student and project references from the
// petition and releases its enrollment key.
func (r *PetitionRepository) RemoveEnrollment(ctx context.Context, id, studentID, projectID primitive.ObjectID) (*models.Petition, error) {
	update := bson.M{
		"$pull":  bson.M{"students": studentID, "projects": projectID},
		"$unset": bson.M{"enrollmentKey": ""},
	}
	return findOneAndUpdate[models.Petition](ctx, r.collection, bson.M{"_id": id}, update, "remove petition enrollment")
}

func (r *PetitionRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return deleteByID(ctx, r.collection, id, "delete petition")
}

// MigrateLegacyStatus rewrites petitions stored with the old boolean status:
// true becomes approved (stamped with now) and false becomes pending.
func (r *PetitionRepository) MigrateLegacyStatus(ctx context.Context, now time.Time) (approved, pending int64, err error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"status": bson.M{"$type": "bool", "$eq": true}},
		bson.M{"$set": bson.M{"status": models.StatusApproved, "approvedAt": now}},
	)
	if err != nil {
		return 0, 0, translate(err, "migrate approved petitions")
	}
	approved = res.ModifiedCount

	res, err = r.collection.UpdateMany(ctx,
		bson.M{"status": bson.M{"$type": "bool", "$eq": false}},
		bson.M{"$set": bson.M{"status": models.StatusPending}},
	)
	if err != nil {
		return approved, 0, translate(err, "migrate pending petitions")
	}
	return approved, res.ModifiedCount, nil
}

// BackfillEnrollmentKeys sets the enrollment key on petitions written before
// the key existed. Petitions whose pair already has a keyed petition are
// skipped and counted separately.
func (r *PetitionRepository) BackfillEnrollmentKeys(ctx context.Context) (updated, skipped int64, err error) {
	filter := bson.M{
		"enrollmentKey": bson.M{"$exists": false},
		"students.0":    bson.M{"$exists": true},
		"projects.0":    bson.M{"$exists": true},
	}
	petitions, err := findMany[models.Petition](ctx, r.collection, filter, "list unkeyed petitions")
	if err != nil {
		return 0, 0, err
	}
	for _, p := range petitions {
		key := models.EnrollmentKey(p.StudentID(), p.ProjectID())
		_, err := r.collection.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": bson.M{"enrollmentKey": key}})
		if mongo.IsDuplicateKeyError(err) {
			skipped++
			continue
		}
		if err != nil {
			return updated, skipped, translate(err, "backfill enrollment key")
		}
		updated++
	}
	return updated, skipped, nil
}
