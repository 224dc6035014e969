package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"social-service/portal-service/models"
)

type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{collection: db.Collection(NotificationsCollection)}
}

func (r *NotificationRepository) Insert(ctx context.Context, n *models.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, n)
	return translate(err, "insert notification")
}

func (r *NotificationRepository) FindByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findMany[models.Notification](ctx, r.collection, bson.M{"studentId": studentID}, "list notifications", opts)
}

// MarkRead flags a notification as read. Only the owning student can do so;
// it reports false otherwise.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, studentID primitive.ObjectID) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "studentId": studentID},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return false, translate(err, "mark notification read")
	}
	return res.MatchedCount > 0, nil
}
