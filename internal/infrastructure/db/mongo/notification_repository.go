package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

const collectionNotifications = "notifications"

// NotificationRepository implements ports.NotificationRepository using MongoDB.
type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) ports.NotificationRepository {
	return &NotificationRepository{col: db.Collection(collectionNotifications)}
}

// Insert persists one subscriber notification.
func (r *NotificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"theme_id":     n.ThemeID,
		"theme_name":   n.ThemeName,
		"post_id":      n.PostID,
		"author_id":    n.AuthorID,
		"recipient_id": n.RecipientID,
		"created_at":   n.CreatedAt.UTC(),
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// ListByRecipient returns the user's notifications, newest first.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.col.Find(ctx, bson.M{"recipient_id": recipientID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	type notifDoc struct {
		ThemeID     string    `bson:"theme_id"`
		ThemeName   string    `bson:"theme_name"`
		PostID      string    `bson:"post_id"`
		AuthorID    string    `bson:"author_id"`
		RecipientID string    `bson:"recipient_id"`
		CreatedAt   time.Time `bson:"created_at"`
	}

	notifications := []*domain.Notification{}
	for cur.Next(ctx) {
		var d notifDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		notifications = append(notifications, &domain.Notification{
			ThemeID:     d.ThemeID,
			ThemeName:   d.ThemeName,
			PostID:      d.PostID,
			AuthorID:    d.AuthorID,
			RecipientID: d.RecipientID,
			CreatedAt:   d.CreatedAt,
		})
	}
	return notifications, cur.Err()
}
