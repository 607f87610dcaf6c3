package blogs

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ blogsRepo = (*repoMock)(nil)

type repoMock struct {
	Blogs map[string]*Blog
	mutex sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		Blogs: make(map[string]*Blog),
	}
}

func (r *repoMock) BlogsCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.Blogs)
}

func (r *repoMock) Get(_ context.Context, id string) (*Blog, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	blog, ok := r.Blogs[id]
	if !ok {
		return nil, ErrBlogNotFound
	}

	blogCopy := *blog
	return &blogCopy, nil
}

func (r *repoMock) Add(_ context.Context, blog *Blog) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if blog.ID.IsZero() {
		blog.ID = primitive.NewObjectID()
	}

	r.Blogs[blog.ID.Hex()] = blog
	return nil
}

func (r *repoMock) Update(_ context.Context, id string, in Input) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	blog, ok := r.Blogs[id]
	if !ok {
		return ErrBlogNotFound
	}

	blog.Name = in.Name
	blog.Description = in.Description
	blog.WebsiteURL = in.WebsiteURL
	return nil
}

func (r *repoMock) Delete(_ context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Blogs[id]; !ok {
		return ErrBlogNotFound
	}

	delete(r.Blogs, id)
	return nil
}

func (r *repoMock) List(_ context.Context, params ListParams) ([]Blog, int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	filtered := make([]Blog, 0, len(r.Blogs))
	for _, blog := range r.Blogs {
		if params.SearchNameTerm != "" &&
			!strings.Contains(strings.ToLower(blog.Name), strings.ToLower(params.SearchNameTerm)) {
			continue
		}
		filtered = append(filtered, *blog)
	}

	sortBlogs(filtered, params)

	totalCount := len(filtered)

	start := params.Pagination.Skip()
	if start > totalCount {
		start = totalCount
	}
	end := start + params.Pagination.Size
	if end > totalCount {
		end = totalCount
	}

	return filtered[start:end], totalCount, nil
}

func (r *repoMock) DeleteAll(_ context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.Blogs = make(map[string]*Blog)
	return nil
}

func sortBlogs(blogs []Blog, params ListParams) {
	desc := params.Pagination.SortDirection == "desc"
	sort.SliceStable(blogs, func(i, j int) bool {
		a, b := blogs[i], blogs[j]
		if desc {
			a, b = b, a
		}
		switch params.Pagination.SortBy {
		case "name":
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		case "description":
			if a.Description != b.Description {
				return a.Description < b.Description
			}
		case "websiteUrl":
			if a.WebsiteURL != b.WebsiteURL {
				return a.WebsiteURL < b.WebsiteURL
			}
		case "isMembership":
			if a.IsMembership != b.IsMembership {
				return !a.IsMembership
			}
		case "id":
			return a.ID.Hex() < b.ID.Hex()
		default: // createdAt
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		}
		// tiebreak on id, always ascending
		return blogs[i].ID.Hex() < blogs[j].ID.Hex()
	})
}
