package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"social-service/portal-service/logging"
)

// ErrDuplicateKey is returned when a write violates a unique index.
var ErrDuplicateKey = errors.New("duplicate key")

const (
	PetitionsCollection      = "petitions"
	ProjectsCollection       = "projects"
	StudentsCollection       = "students"
	UsersCollection          = "users"
	AdministratorsCollection = "administrators"
	FacultiesCollection      = "faculties"
	CareersCollection        = "careers"
	NotificationsCollection  = "notifications"
)

// Connect opens a client and verifies the deployment is reachable.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "mongo connect")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "mongo ping")
	}
	return client, nil
}

type indexSpec struct {
	collection string
	model      mongo.IndexModel
}

func indexSpecs() []indexSpec {
	unique := func(coll, field string) indexSpec {
		return indexSpec{coll, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}}
	}
	return []indexSpec{
		unique(ProjectsCollection, "name"),
		unique(FacultiesCollection, "name"),
		unique(CareersCollection, "name"),
		unique(StudentsCollection, "email"),
		unique(UsersCollection, "email"),
		unique(AdministratorsCollection, "email"),
		{PetitionsCollection, mongo.IndexModel{
			Keys: bson.D{{Key: "enrollmentKey", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"enrollmentKey": bson.M{"$exists": true}}),
		}},
		{PetitionsCollection, mongo.IndexModel{Keys: bson.D{{Key: "students", Value: 1}}}},
		{ProjectsCollection, mongo.IndexModel{Keys: bson.D{{Key: "students", Value: 1}}}},
		{NotificationsCollection, mongo.IndexModel{
			Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "createdAt", Value: -1}},
		}},
	}
}

// EnsureIndexes creates the unique indexes the services rely on to detect
// duplicates under concurrent writers.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, spec := range indexSpecs() {
		name, err := db.Collection(spec.collection).Indexes().CreateOne(ctx, spec.model)
		if err != nil {
			return errors.Wrapf(err, "create index on %s", spec.collection)
		}
		logging.Logger.Debugf("Event ID: DB_INDEX_READY, Description: Index %s on %s is ready", name, spec.collection)
	}
	return nil
}

// translate wraps driver errors with context and maps unique index
// violations to ErrDuplicateKey.
func translate(err error, msg string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return errors.Wrap(ErrDuplicateKey, msg)
	}
	return errors.Wrap(err, msg)
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, msg string) (*T, error) {
	var doc T
	err := coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, msg)
	}
	return &doc, nil
}

func findMany[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, msg string, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, translate(err, msg)
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translate(err, msg)
	}
	return docs, nil
}

func findOneAndUpdate[T any](ctx context.Context, coll *mongo.Collection, filter, update interface{}, msg string) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc T
	err := coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, msg)
	}
	return &doc, nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, msg string) (bool, error) {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, translate(err, msg)
	}
	return res.DeletedCount > 0, nil
}

func byIDs(ids []primitive.ObjectID) bson.M {
	return bson.M{"_id": bson.M{"$in": ids}}
}

func emptyIfNil(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return []primitive.ObjectID{}
	}
	return ids
}
