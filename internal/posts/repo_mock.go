package posts

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ postsRepo = (*repoMock)(nil)

type repoMock struct {
	Posts map[string]*Post
	mutex sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		Posts: make(map[string]*Post),
	}
}

func (r *repoMock) PostsCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.Posts)
}

func (r *repoMock) Get(_ context.Context, id string) (*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	post, ok := r.Posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}

	postCopy := *post
	return &postCopy, nil
}

func (r *repoMock) Add(_ context.Context, post *Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}

	r.Posts[post.ID.Hex()] = post
	return nil
}

func (r *repoMock) Update(_ context.Context, id string, update Update) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	post, ok := r.Posts[id]
	if !ok {
		return ErrPostNotFound
	}

	post.Title = update.Title
	post.ShortDescription = update.ShortDescription
	post.Content = update.Content
	post.BlogID = update.BlogID
	post.BlogName = update.BlogName
	return nil
}

func (r *repoMock) Delete(_ context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Posts[id]; !ok {
		return ErrPostNotFound
	}

	delete(r.Posts, id)
	return nil
}

func (r *repoMock) List(_ context.Context, params ListParams) ([]Post, int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	filtered := make([]Post, 0, len(r.Posts))
	for _, post := range r.Posts {
		if !params.BlogID.IsZero() && post.BlogID != params.BlogID {
			continue
		}
		filtered = append(filtered, *post)
	}

	sortPosts(filtered, params)

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
	r.Posts = make(map[string]*Post)
	return nil
}

func sortPosts(posts []Post, params ListParams) {
	desc := params.Pagination.SortDirection == "desc"
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if desc {
			a, b = b, a
		}
		switch params.Pagination.SortBy {
		case "title":
			if a.Title != b.Title {
				return a.Title < b.Title
			}
		case "shortDescription":
			if a.ShortDescription != b.ShortDescription {
				return a.ShortDescription < b.ShortDescription
			}
		case "content":
			if a.Content != b.Content {
				return a.Content < b.Content
			}
		case "blogId":
			if a.BlogID != b.BlogID {
				return a.BlogID.Hex() < b.BlogID.Hex()
			}
		case "blogName":
			if a.BlogName != b.BlogName {
				return a.BlogName < b.BlogName
			}
		case "id":
			return a.ID.Hex() < b.ID.Hex()
		default: // createdAt
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		}
		// tiebreak on id, always ascending
		return posts[i].ID.Hex() < posts[j].ID.Hex()
	})
}
