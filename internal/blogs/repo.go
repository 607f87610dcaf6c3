package blogs

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/2beens/blogbox/internal/pagination"
	"github.com/2beens/blogbox/internal/telemetry/tracing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
)

var _ blogsRepo = (*Repo)(nil)

type ListParams struct {
	SearchNameTerm string
	Pagination     pagination.Params
}

type Repo struct {
	collection *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{
		collection: db.Collection("blogs"),
	}
}

func (r *Repo) Get(ctx context.Context, id string) (*Blog, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogsRepo.Get")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// malformed id can never match a stored document
		return nil, ErrBlogNotFound
	}

	var blog Blog
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&blog)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBlogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find blog: %w", err)
	}

	return &blog, nil
}

func (r *Repo) Add(ctx context.Context, blog *Blog) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogsRepo.Add")
	defer span.End()

	res, err := r.collection.InsertOne(ctx, blog)
	if err != nil {
		return fmt.Errorf("insert blog: %w", err)
	}

	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	blog.ID = insertedID

	return nil
}

func (r *Repo) Update(ctx context.Context, id string, in Input) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogsRepo.Update")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrBlogNotFound
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"name":        in.Name,
			"description": in.Description,
			"websiteUrl":  in.WebsiteURL,
		}},
	)
	if err != nil {
		return fmt.Errorf("update blog: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrBlogNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogsRepo.Delete")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrBlogNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrBlogNotFound
	}

	return nil
}

func (r *Repo) List(ctx context.Context, params ListParams) ([]Blog, int, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogsRepo.List")
	span.SetAttributes(attribute.Int("page", params.Pagination.Page))
	span.SetAttributes(attribute.Int("size", params.Pagination.Size))
	defer span.End()

	filter := bson.M{}
	if params.SearchNameTerm != "" {
		filter["name"] = primitive.Regex{
			Pattern: regexp.QuoteMeta(params.SearchNameTerm),
			Options: "i",
		}
	}

	findOptions := options.Find().
		SetSort(sortSpec(params.Pagination)).
		SetSkip(int64(params.Pagination.Skip())).
		SetLimit(int64(params.Pagination.Size))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("find blogs: %w", err)
	}

	blogs := make([]Blog, 0, params.Pagination.Size)
	if err := cursor.All(ctx, &blogs); err != nil {
		return nil, 0, fmt.Errorf("decode blogs: %w", err)
	}

	totalCount, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", err)
	}

	return blogs, int(totalCount), nil
}

func (r *Repo) DeleteAll(ctx context.Context) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogsRepo.DeleteAll")
	defer span.End()

	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("delete all blogs: %w", err)
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
