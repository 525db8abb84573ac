package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/forumhub/forum-api/internal/core/domain"
)

const collectionThemes = "themes"

// ThemeRepository implements ports.ThemeRepository on a single themes
// collection. A theme document embeds its posts array, so every write —
// including the theme + initial post pair — is one atomic document
// operation and concurrent writes to different themes never interfere.
type ThemeRepository struct {
	col *mongo.Collection
}

func NewThemeRepository(db *mongo.Database) *ThemeRepository {
	return &ThemeRepository{col: db.Collection(collectionThemes)}
}

type themeDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	CreatedAt     time.Time          `bson:"created_at"`
	SubscriberIDs []string           `bson:"subscriber_ids"`
	Posts         []postDoc          `bson:"posts"`
}

type postDoc struct {
	ID        string    `bson:"id"`
	AuthorID  string    `bson:"author_id"`
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d *themeDoc) toDomain() *domain.Theme {
	t := &domain.Theme{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		CreatedAt:     d.CreatedAt,
		SubscriberIDs: d.SubscriberIDs,
		Posts:         make([]domain.Post, 0, len(d.Posts)),
	}
	if t.SubscriberIDs == nil {
		t.SubscriberIDs = []string{}
	}
	for _, p := range d.Posts {
		t.Posts = append(t.Posts, domain.Post{
			ID:        p.ID,
			ThemeID:   t.ID,
			AuthorID:  p.AuthorID,
			Text:      p.Text,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return t
}

// themeFilter builds the _id filter, mapping malformed ids to not-found
// rather than a store error.
func themeFilter(themeID string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(themeID)
	if err != nil {
		return nil, domain.ErrThemeNotFound
	}
	return bson.M{"_id": oid}, nil
}

// List returns all themes in creation order with posts omitted.
func (r *ThemeRepository) List(ctx context.Context) ([]*domain.Theme, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"posts": 0}).
		SetSort(bson.D{{Key: "created_at", Value: 1}})

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	themes := []*domain.Theme{}
	for cur.Next(ctx) {
		var d themeDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		themes = append(themes, d.toDomain())
	}
	return themes, cur.Err()
}

// FindByID retrieves a theme with its full post sequence.
func (r *ThemeRepository) FindByID(ctx context.Context, themeID string) (*domain.Theme, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := themeFilter(themeID)
	if err != nil {
		return nil, err
	}

	var d themeDoc
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrThemeNotFound
		}
		return nil, err
	}
	return d.toDomain(), nil
}

// Create inserts the theme document, posts included, in one write.
func (r *ThemeRepository) Create(ctx context.Context, t *domain.Theme) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := themeDoc{
		Name:          t.Name,
		CreatedAt:     t.CreatedAt,
		SubscriberIDs: t.SubscriberIDs,
		Posts:         make([]postDoc, 0, len(t.Posts)),
	}
	if doc.SubscriberIDs == nil {
		doc.SubscriberIDs = []string{}
	}
	for _, p := range t.Posts {
		doc.Posts = append(doc.Posts, postDoc{
			ID:        p.ID,
			AuthorID:  p.AuthorID,
			Text:      p.Text,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		t.ID = oid.Hex()
	}
	return nil
}

// AppendPost pushes the post onto the theme's posts array.
func (r *ThemeRepository) AppendPost(ctx context.Context, themeID string, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := themeFilter(themeID)
	if err != nil {
		return err
	}

	update := bson.M{"$push": bson.M{"posts": postDoc{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Text:      p.Text,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrThemeNotFound
	}
	return nil
}

// UpdatePost sets the text and updated_at of one embedded post using an
// array filter, leaving the rest of the document untouched.
func (r *ThemeRepository) UpdatePost(ctx context.Context, themeID, postID, text string, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := themeFilter(themeID)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"posts.$[p].text":       text,
		"posts.$[p].updated_at": updatedAt,
	}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"p.id": postID}},
	})

	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrThemeNotFound
	}
	if res.ModifiedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// RemovePost pulls the post out of the theme's posts array.
func (r *ThemeRepository) RemovePost(ctx context.Context, themeID, postID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := themeFilter(themeID)
	if err != nil {
		return err
	}

	update := bson.M{"$pull": bson.M{"posts": bson.M{"id": postID}}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrThemeNotFound
	}
	if res.ModifiedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// AddSubscriber adds the user to the subscriber set. $addToSet makes the
// operation idempotent at the store level.
func (r *ThemeRepository) AddSubscriber(ctx context.Context, themeID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := themeFilter(themeID)
	if err != nil {
		return err
	}

	update := bson.M{"$addToSet": bson.M{"subscriber_ids": userID}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrThemeNotFound
	}
	return nil
}

// ListPosts unwinds all embedded posts across themes and returns the
// newest first. limit <= 0 returns everything.
func (r *ThemeRepository) ListPosts(ctx context.Context, limit int) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := []bson.M{
		{"$unwind": "$posts"},
		{"$sort": bson.M{"posts.created_at": -1}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.M{"$limit": limit})
	}
	pipeline = append(pipeline, bson.M{"$project": bson.M{
		"theme_id": "$_id",
		"post":     "$posts",
	}})

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	type row struct {
		ThemeID primitive.ObjectID `bson:"theme_id"`
		Post    postDoc            `bson:"post"`
	}

	posts := []*domain.Post{}
	for cur.Next(ctx) {
		var r row
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		posts = append(posts, &domain.Post{
			ID:        r.Post.ID,
			ThemeID:   r.ThemeID.Hex(),
			AuthorID:  r.Post.AuthorID,
			Text:      r.Post.Text,
			CreatedAt: r.Post.CreatedAt,
			UpdatedAt: r.Post.UpdatedAt,
		})
	}
	return posts, cur.Err()
}

// EnsureIndexes creates the indexes the themes collection relies on.
func (r *ThemeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "posts.created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
