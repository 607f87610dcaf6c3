package posts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/blogbox/internal/blogs"
	"github.com/2beens/blogbox/internal/pagination"
	"github.com/2beens/blogbox/internal/telemetry/metrics"
	"github.com/2beens/blogbox/internal/validation"
	"github.com/2beens/blogbox/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type postsService interface {
	Create(ctx context.Context, in Input) (*Post, error)
	Update(ctx context.Context, id string, in Input) error
	Get(ctx context.Context, id string) (*Post, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params pagination.Params) ([]Post, int, error)
	ListForBlog(ctx context.Context, blogID string, params pagination.Params) ([]Post, int, error)
}

type Handler struct {
	service postsService
	metrics *metrics.Manager
}

func NewHandler(service postsService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/posts", handler.handleList).Methods("GET").Name("list-posts")
	router.HandleFunc("/posts", handler.handleCreate).Methods("POST", "OPTIONS").Name("new-post")
	router.HandleFunc("/posts/{id}", handler.handleGet).Methods("GET").Name("get-post")
	router.HandleFunc("/posts/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("update-post")
	router.HandleFunc("/posts/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-post")
	router.HandleFunc("/blogs/{blogId}/posts", handler.handleListForBlog).Methods("GET").Name("list-blog-posts")
	router.HandleFunc("/blogs/{blogId}/posts", handler.handleCreateForBlog).Methods("POST", "OPTIONS").Name("new-blog-post")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r.URL.Query(), SortableFields)

	posts, totalCount, err := handler.service.List(r.Context(), params)
	if err != nil {
		log.Errorf("list posts: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.writePage(w, posts, params, totalCount)
}

func (handler *Handler) handleListForBlog(w http.ResponseWriter, r *http.Request) {
	blogID := mux.Vars(r)["blogId"]
	params := pagination.ParseParams(r.URL.Query(), SortableFields)

	posts, totalCount, err := handler.service.ListForBlog(r.Context(), blogID, params)
	if errors.Is(err, blogs.ErrBlogNotFound) {
		http.Error(w, "blog not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("list posts of blog %s: %s", blogID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.writePage(w, posts, params, totalCount)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	post, err := handler.service.Get(r.Context(), id)
	if errors.Is(err, ErrPostNotFound) {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("get post %s: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(post.ToView())
	if err != nil {
		log.Errorf("marshal post: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Errorf("new post, unmarshal json params: %s", err)
		http.Error(w, "add post failed", http.StatusBadRequest)
		return
	}

	// unknown blog on the flat route is a field error, not a missing page
	handler.createPost(w, r, input, http.StatusBadRequest)
}

func (handler *Handler) handleCreateForBlog(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Errorf("new post, unmarshal json params: %s", err)
		http.Error(w, "add post failed", http.StatusBadRequest)
		return
	}

	// the blog reference comes from the path, not the body
	input.BlogID = mux.Vars(r)["blogId"]
	handler.createPost(w, r, input, http.StatusNotFound)
}

func (handler *Handler) createPost(
	w http.ResponseWriter,
	r *http.Request,
	input Input,
	blogNotFoundStatus int,
) {
	if validationErrs := input.Validate(); len(validationErrs) > 0 {
		validation.WriteResponse(w, validationErrs)
		return
	}
	input = input.Trimmed()

	newPost, err := handler.service.Create(r.Context(), input)
	if errors.Is(err, blogs.ErrBlogNotFound) {
		handler.writeBlogNotFound(w, blogNotFoundStatus)
		return
	}
	if err != nil {
		log.Errorf("add new post: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterPostsCreated.Inc()
	log.Tracef("new post %s: [%s] added", newPost.ID.Hex(), newPost.Title)

	respJson, err := json.Marshal(newPost.ToView())
	if err != nil {
		log.Errorf("marshal new post: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Errorf("update post, unmarshal json params: %s", err)
		http.Error(w, "update post failed", http.StatusBadRequest)
		return
	}

	if validationErrs := input.Validate(); len(validationErrs) > 0 {
		validation.WriteResponse(w, validationErrs)
		return
	}

	err := handler.service.Update(r.Context(), id, input.Trimmed())
	if errors.Is(err, blogs.ErrBlogNotFound) {
		handler.writeBlogNotFound(w, http.StatusBadRequest)
		return
	}
	if errors.Is(err, ErrPostNotFound) {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("update post %s: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := handler.service.Delete(r.Context(), id)
	if errors.Is(err, ErrPostNotFound) {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("delete post %s: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) writePage(w http.ResponseWriter, posts []Post, params pagination.Params, totalCount int) {
	views := make([]View, 0, len(posts))
	for _, p := range posts {
		views = append(views, p.ToView())
	}

	respJson, err := json.Marshal(pagination.NewPaginated(views, params, totalCount))
	if err != nil {
		log.Errorf("marshal posts page: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) writeBlogNotFound(w http.ResponseWriter, status int) {
	if status == http.StatusNotFound {
		http.Error(w, "blog not found", http.StatusNotFound)
		return
	}

	respJson, err := json.Marshal(validation.ErrorsResponse{
		ErrorsMessages: []validation.FieldError{
			{Message: "blog not found", Field: "blogId"},
		},
	})
	if err != nil {
		log.Errorf("marshal blog not found error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusBadRequest)
}
