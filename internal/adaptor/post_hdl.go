package adaptor

import (
	"net/http"

	"blog-platform/internal/dto/request"
	"blog-platform/internal/usecase"
	"blog-platform/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PostHandler serves posts and the comment/like interactions on them.
type PostHandler struct {
	service     usecase.PostService
	interaction usecase.InteractionService
	log         *zap.Logger
}

func NewPostHandler(service usecase.PostService, interaction usecase.InteractionService, log *zap.Logger) *PostHandler {
	return &PostHandler{
		service:     service,
		interaction: interaction,
		log:         log.With(zap.String("handler", "post")),
	}
}

// List handles GET /api/posts?author=&authorId=&category=&sort=popular
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	posts, err := h.service.List(r.Context(), usecase.PostQuery{
		Author:   query.Get("author"),
		AuthorID: query.Get("authorId"),
		Category: query.Get("category"),
		Popular:  query.Get("sort") == "popular",
		Page:     parseInt(query.Get("page"), 1),
		PerPage:  parseInt(query.Get("per_page"), 10),
	})
	if err != nil {
		handleServiceError(w, h.log, err, "list posts")
		return
	}

	utils.ResponseSuccess(w, "Posts retrieved successfully", posts)
}

// ListByCategory handles GET /api/posts/category/{slug}
func (h *PostHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	posts, err := h.service.ListByCategory(r.Context(), chi.URLParam(r, "slug"),
		parseInt(query.Get("page"), 1), parseInt(query.Get("per_page"), 10))
	if err != nil {
		handleServiceError(w, h.log, err, "list posts by category")
		return
	}

	utils.ResponseSuccess(w, "Posts retrieved successfully", posts)
}

// GetBySlug handles GET /api/posts/{slug}
func (h *PostHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, h.log, err, "get post")
		return
	}

	utils.ResponseSuccess(w, "Post retrieved successfully", post)
}

// ListMine handles GET /api/posts/mine
func (h *PostHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	posts, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list own posts")
		return
	}

	utils.ResponseSuccess(w, "Posts retrieved successfully", posts)
}

// Create handles POST /api/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	var req request.CreatePostRequest
	if !decode(w, r, &req) {
		return
	}

	post, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create post")
		return
	}

	utils.ResponseCreated(w, "Post created successfully", post)
}

// Update handles PATCH /api/posts/{id}
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	var req request.UpdatePostRequest
	if !decode(w, r, &req) {
		return
	}

	post, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update post")
		return
	}

	utils.ResponseSuccess(w, "Post updated successfully", post)
}

// Delete handles DELETE /api/posts/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete post")
		return
	}

	utils.ResponseSuccess(w, "Post deleted successfully", nil)
}

// Comment handles POST /api/posts/comment
func (h *PostHandler) Comment(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	var req request.CommentRequest
	if !decode(w, r, &req) {
		return
	}

	comment, err := h.interaction.Comment(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "comment")
		return
	}

	utils.ResponseCreated(w, "Comment added", comment)
}

// Like handles POST /api/posts/like
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	var req request.LikeRequest
	if !decode(w, r, &req) {
		return
	}

	like, err := h.interaction.ToggleLike(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "toggle like")
		return
	}

	msg := "Post unliked"
	if like.Liked {
		msg = "Post liked"
	}
	utils.ResponseSuccess(w, msg, like)
}
