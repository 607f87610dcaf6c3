package blogs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/blogbox/internal/pagination"
	"github.com/2beens/blogbox/internal/telemetry/metrics"
	"github.com/2beens/blogbox/internal/validation"
	"github.com/2beens/blogbox/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type blogsRepo interface {
	Get(ctx context.Context, id string) (*Blog, error)
	Add(ctx context.Context, blog *Blog) error
	Update(ctx context.Context, id string, in Input) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListParams) ([]Blog, int, error)
}

type Handler struct {
	repo    blogsRepo
	metrics *metrics.Manager
	now     func() time.Time
}

func NewHandler(repo blogsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metricsManager,
		now:     time.Now,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/blogs", handler.handleList).Methods("GET").Name("list-blogs")
	router.HandleFunc("/blogs", handler.handleCreate).Methods("POST", "OPTIONS").Name("new-blog")
	router.HandleFunc("/blogs/{id}", handler.handleGet).Methods("GET").Name("get-blog")
	router.HandleFunc("/blogs/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("update-blog")
	router.HandleFunc("/blogs/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-blog")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		SearchNameTerm: r.URL.Query().Get("searchNameTerm"),
		Pagination:     pagination.ParseParams(r.URL.Query(), SortableFields),
	}

	blogs, totalCount, err := handler.repo.List(r.Context(), params)
	if err != nil {
		log.Errorf("list blogs: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	views := make([]View, 0, len(blogs))
	for _, b := range blogs {
		views = append(views, b.ToView())
	}

	respJson, err := json.Marshal(pagination.NewPaginated(views, params.Pagination, totalCount))
	if err != nil {
		log.Errorf("marshal blogs page: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	blog, err := handler.repo.Get(r.Context(), id)
	if errors.Is(err, ErrBlogNotFound) {
		http.Error(w, "blog not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("get blog %s: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(blog.ToView())
	if err != nil {
		log.Errorf("marshal blog: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Errorf("new blog, unmarshal json params: %s", err)
		http.Error(w, "add blog failed", http.StatusBadRequest)
		return
	}

	if validationErrs := input.Validate(); len(validationErrs) > 0 {
		validation.WriteResponse(w, validationErrs)
		return
	}
	input = input.Trimmed()

	newBlog := &Blog{
		Name:         input.Name,
		Description:  input.Description,
		WebsiteURL:   input.WebsiteURL,
		CreatedAt:    handler.now(),
		IsMembership: false,
	}

	if err := handler.repo.Add(r.Context(), newBlog); err != nil {
		log.Errorf("add new blog: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterBlogsCreated.Inc()
	log.Tracef("new blog %s: [%s] added", newBlog.ID.Hex(), newBlog.Name)

	respJson, err := json.Marshal(newBlog.ToView())
	if err != nil {
		log.Errorf("marshal new blog: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Errorf("update blog, unmarshal json params: %s", err)
		http.Error(w, "update blog failed", http.StatusBadRequest)
		return
	}

	if validationErrs := input.Validate(); len(validationErrs) > 0 {
		validation.WriteResponse(w, validationErrs)
		return
	}

	err := handler.repo.Update(r.Context(), id, input.Trimmed())
	if errors.Is(err, ErrBlogNotFound) {
		http.Error(w, "blog not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("update blog %s: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := handler.repo.Delete(r.Context(), id)
	if errors.Is(err, ErrBlogNotFound) {
		http.Error(w, "blog not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("delete blog %s: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
