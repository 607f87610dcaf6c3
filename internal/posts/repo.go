package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/blogbox/internal/pagination"
	"github.com/2beens/blogbox/internal/telemetry/tracing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
)

var _ postsRepo = (*Repo)(nil)

type ListParams struct {
	// BlogID narrows the scan to posts of a single blog. Zero value means
	// no blog filter.
	BlogID     primitive.ObjectID
	Pagination pagination.Params
}

// Update carries the full set of mutable post fields. BlogName must
// already be resolved against the referenced blog.
type Update struct {
	Title            string
	ShortDescription string
	Content          string
	BlogID           primitive.ObjectID
	BlogName         string
}

type Repo struct {
	collection *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{
		collection: db.Collection("posts"),
	}
}

func (r *Repo) Get(ctx context.Context, id string) (*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.Get")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPostNotFound
	}

	var post Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}

	return &post, nil
}

func (r *Repo) Add(ctx context.Context, post *Post) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.Add")
	defer span.End()

	res, err := r.collection.InsertOne(ctx, post)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	post.ID = insertedID

	return nil
}

func (r *Repo) Update(ctx context.Context, id string, update Update) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.Update")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrPostNotFound
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"title":            update.Title,
			"shortDescription": update.ShortDescription,
			"content":          update.Content,
			"blogId":           update.BlogID,
			"blogName":         update.BlogName,
		}},
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.Delete")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrPostNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}

	return nil
}

func (r *Repo) List(ctx context.Context, params ListParams) ([]Post, int, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.List")
	span.SetAttributes(attribute.Int("page", params.Pagination.Page))
	span.SetAttributes(attribute.Int("size", params.Pagination.Size))
	defer span.End()

	filter := bson.M{}
	if !params.BlogID.IsZero() {
		filter["blogId"] = params.BlogID
	}

	findOptions := options.Find().
		SetSort(sortSpec(params.Pagination)).
		SetSkip(int64(params.Pagination.Skip())).
		SetLimit(int64(params.Pagination.Size))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("find posts: %w", err)
	}

	posts := make([]Post, 0, params.Pagination.Size)
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, fmt.Errorf("decode posts: %w", err)
	}

	totalCount, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	return posts, int(totalCount), nil
}

func (r *Repo) DeleteAll(ctx context.Context) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.DeleteAll")
	defer span.End()

	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("delete all posts: %w", err)
	}
	return nil
}

// sortSpec builds the mongo sort document, with _id as a tiebreaker so
// that paging over equal values stays stable.
func sortSpec(params pagination.Params) bson.D {
	field := params.SortBy
	if field == "id" {
		field = "_id"
	}

	direction := 1
	if params.SortDirection == pagination.SortDesc {
		direction = -1
	}

	sort := bson.D{{Key: field, Value: direction}}
	if field != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: 1})
	}
	return sort
}
