package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"social-service/portal-service/models"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection(UsersCollection)}
}

func (r *UserRepository) Insert(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Careers = emptyIfNil(user.Careers)

	_, err := r.collection.InsertOne(ctx, user)
	return translate(err, "insert user")
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return findOne[models.User](ctx, r.collection, bson.M{"_id": id}, "find user")
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, r.collection, bson.M{"email": email}, "find user by email")
}

func (r *UserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	return findMany[models.User](ctx, r.collection, bson.M{}, "list users")
}

func (r *UserRepository) AddCareer(ctx context.Context, userID, careerID primitive.ObjectID) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID, "careers": bson.M{"$ne": careerID}},
		bson.M{"$addToSet": bson.M{"careers": careerID}},
	)
	if err != nil {
		return false, translate(err, "add user career")
	}
	return res.ModifiedCount > 0, nil
}

func (r *UserRepository) SetRole(ctx context.Context, email, role string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return false, translate(err, "set user role")
	}
	return res.MatchedCount > 0, nil
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return deleteByID(ctx, r.collection, id, "delete user")
}
