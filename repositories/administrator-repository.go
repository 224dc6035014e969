package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"social-service/portal-service/models"
)

type AdministratorRepository struct {
	collection *mongo.Collection
}

func NewAdministratorRepository(db *mongo.Database) *AdministratorRepository {
	return &AdministratorRepository{collection: db.Collection(AdministratorsCollection)}
}

func (r *AdministratorRepository) Insert(ctx context.Context, admin *models.Administrator) error {
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, admin)
	return translate(err, "insert administrator")
}

func (r *AdministratorRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Administrator, error) {
	return findOne[models.Administrator](ctx, r.collection, bson.M{"_id": id}, "find administrator")
}

func (r *AdministratorRepository) FindByEmail(ctx context.Context, email string) (*models.Administrator, error) {
	return findOne[models.Administrator](ctx, r.collection, bson.M{"email": email}, "find administrator by email")
}

func (r *AdministratorRepository) FindAll(ctx context.Context) ([]models.Administrator, error) {
	return findMany[models.Administrator](ctx, r.collection, bson.M{}, "list administrators")
}

func (r *AdministratorRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return deleteByID(ctx, r.collection, id, "delete administrator")
}
