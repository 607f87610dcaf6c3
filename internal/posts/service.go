package posts

import (
	"context"
	"time"

	"github.com/2beens/blogbox/internal/blogs"
	"github.com/2beens/blogbox/internal/pagination"
)

type postsRepo interface {
	Get(ctx context.Context, id string) (*Post, error)
	Add(ctx context.Context, post *Post) error
	Update(ctx context.Context, id string, update Update) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListParams) ([]Post, int, error)
}

type blogResolver interface {
	Get(ctx context.Context, id string) (*blogs.Blog, error)
}

// Service enforces the blog reference on post writes: the referenced blog
// must exist, and its name is copied onto the post. The copied name is a
// write-time snapshot, renaming a blog leaves older posts unchanged.
type Service struct {
	repo  postsRepo
	blogs blogResolver
	now   func() time.Time
}

func NewService(repo postsRepo, blogResolver blogResolver) *Service {
	return &Service{
		repo:  repo,
		blogs: blogResolver,
		now:   time.Now,
	}
}

// Create persists a new post. Returns blogs.ErrBlogNotFound when the
// referenced blog does not exist.
//
// Note: resolve and insert are two separate store calls, a blog deleted
// in between still ends up referenced by the new post.
func (s *Service) Create(ctx context.Context, in Input) (*Post, error) {
	blog, err := s.blogs.Get(ctx, in.BlogID)
	if err != nil {
		return nil, err
	}

	post := &Post{
		Title:            in.Title,
		ShortDescription: in.ShortDescription,
		Content:          in.Content,
		BlogID:           blog.ID,
		BlogName:         blog.Name,
		CreatedAt:        s.now(),
	}

	if err := s.repo.Add(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// Update overwrites all mutable post fields, re-resolving the blog
// reference and re-copying its current name.
func (s *Service) Update(ctx context.Context, id string, in Input) error {
	blog, err := s.blogs.Get(ctx, in.BlogID)
	if err != nil {
		return err
	}

	return s.repo.Update(ctx, id, Update{
		Title:            in.Title,
		ShortDescription: in.ShortDescription,
		Content:          in.Content,
		BlogID:           blog.ID,
		BlogName:         blog.Name,
	})
}

func (s *Service) Get(ctx context.Context, id string) (*Post, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, params pagination.Params) ([]Post, int, error) {
	return s.repo.List(ctx, ListParams{Pagination: params})
}

// ListForBlog lists the posts of a single blog. Returns
// blogs.ErrBlogNotFound when the blog does not exist.
func (s *Service) ListForBlog(ctx context.Context, blogID string, params pagination.Params) ([]Post, int, error) {
	blog, err := s.blogs.Get(ctx, blogID)
	if err != nil {
		return nil, 0, err
	}

	return s.repo.List(ctx, ListParams{
		BlogID:     blog.ID,
		Pagination: params,
	})
}
