package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blog-platform/internal/data/entity"
	"blog-platform/internal/data/repository"
	"blog-platform/internal/dto/request"
	"blog-platform/internal/dto/response"
	"blog-platform/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostQuery holds the public listing filters.
type PostQuery struct {
	Author   string
	AuthorID string
	Category string
	Popular  bool
	Page     int
	PerPage  int
}

type PostService interface {
	List(ctx context.Context, q PostQuery) ([]response.PostResponse, error)
	ListByCategory(ctx context.Context, slug string, page, perPage int) ([]response.PostResponse, error)
	GetBySlug(ctx context.Context, slug string) (*response.PostDetailResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]response.PostResponse, error)
	Create(ctx context.Context, userID uuid.UUID, req *request.CreatePostRequest) (*response.PostResponse, error)
	Update(ctx context.Context, userID uuid.UUID, postID string, req *request.UpdatePostRequest) (*response.PostResponse, error)
	Delete(ctx context.Context, userID uuid.UUID, postID string) error
}

type postService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
	comments   repository.CommentRepository
	likes      repository.LikeRepository
	log        *zap.Logger
}

func NewPostService(repo *repository.Repository, log *zap.Logger) PostService {
	return &postService{
		posts:      repo.Post,
		categories: repo.Category,
		comments:   repo.Comment,
		likes:      repo.Like,
		log:        log.With(zap.String("service", "post")),
	}
}

func (s *postService) List(ctx context.Context, q PostQuery) ([]response.PostResponse, error) {
	page, perPage := utils.ClampPage(q.Page, q.PerPage)
	filter := entity.PostFilter{
		AuthorUsername: strings.TrimSpace(q.Author),
		CategorySlug:   strings.TrimSpace(q.Category),
		Popular:        q.Popular,
		Limit:          perPage,
		Offset:         utils.CalculateOffset(page, perPage),
	}
	if q.AuthorID != "" {
		id, err := parseID(q.AuthorID, "author")
		if err != nil {
			return nil, err
		}
		filter.AuthorID = id
	}

	views, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return response.PostsToResponse(views), nil
}

func (s *postService) ListByCategory(ctx context.Context, slug string, page, perPage int) ([]response.PostResponse, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("list posts by category: %w", err)
	}
	if category == nil {
		return nil, fail(ErrNotFound, "category not found")
	}
	return s.List(ctx, PostQuery{Category: category.Slug, Page: page, PerPage: perPage})
}

func (s *postService) GetBySlug(ctx context.Context, slug string) (*response.PostDetailResponse, error) {
	view, err := s.posts.FindViewBySlug(ctx, slug, false)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if view == nil {
		return nil, fail(ErrNotFound, "post not found")
	}

	if err := s.posts.IncrementViews(ctx, view.ID); err != nil {
		s.log.Warn("Failed to count post view", zap.Error(err), zap.String("post_id", view.ID.String()))
	} else {
		view.ViewCount++
	}

	comments, err := s.comments.ListByPost(ctx, view.ID)
	if err != nil {
		return nil, fmt.Errorf("get post comments: %w", err)
	}
	likers, err := s.likes.UserIDsByPost(ctx, view.ID)
	if err != nil {
		return nil, fmt.Errorf("get post likes: %w", err)
	}

	detail := &response.PostDetailResponse{
		PostResponse: response.PostToResponse(view),
		Comments:     make([]response.CommentResponse, 0, len(comments)),
		LikedBy:      make([]string, 0, len(likers)),
	}
	for _, c := range comments {
		detail.Comments = append(detail.Comments, response.CommentToResponse(c))
	}
	for _, id := range likers {
		detail.LikedBy = append(detail.LikedBy, id.String())
	}
	return detail, nil
}

func (s *postService) ListMine(ctx context.Context, userID uuid.UUID) ([]response.PostResponse, error) {
	views, err := s.posts.List(ctx, entity.PostFilter{AuthorID: userID, IncludeDrafts: true})
	if err != nil {
		return nil, fmt.Errorf("list own posts: %w", err)
	}
	return response.PostsToResponse(views), nil
}

// categoryIDs parses and checks that every id names an existing category.
func (s *postService) categoryIDs(ctx context.Context, raw []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(r, "category")
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return ids, nil
	}
	n, err := s.categories.CountExisting(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("check categories: %w", err)
	}
	if n != len(ids) {
		return nil, &ValidationError{Fields: map[string]string{"CategoryIDs": "Unknown category"}}
	}
	return ids, nil
}

func (s *postService) Create(ctx context.Context, userID uuid.UUID, req *request.CreatePostRequest) (*response.PostResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	categoryIDs, err := s.categoryIDs(ctx, req.CategoryIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	title := strings.TrimSpace(req.Title)
	base := title
	if utils.Slugify(base) == "" {
		base = "post"
	}

	post := &entity.Post{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		AuthorID:     userID,
		Title:        title,
		Slug:         utils.UniqueSlug(base, now),
		Content:      req.Content,
		Published:    true,
		ImageURLs:    req.ImageURLs,
		VideoURLs:    req.VideoURLs,
	}
	if err := s.posts.Create(ctx, post, categoryIDs); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fail(ErrConflict, "a post with this slug already exists, try again")
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.Info("Post created", zap.String("post_id", post.ID.String()), zap.String("slug", post.Slug))
	return s.reload(ctx, post.Slug)
}

func (s *postService) reload(ctx context.Context, slug string) (*response.PostResponse, error) {
	view, err := s.posts.FindViewBySlug(ctx, slug, true)
	if err != nil {
		return nil, fmt.Errorf("reload post: %w", err)
	}
	if view == nil {
		return nil, fail(ErrNotFound, "post not found")
	}
	resp := response.PostToResponse(view)
	return &resp, nil
}

// owned loads the post and checks that userID wrote it.
func (s *postService) owned(ctx context.Context, userID uuid.UUID, postID string) (*entity.Post, error) {
	id, err := parseID(postID, "post")
	if err != nil {
		return nil, err
	}

	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	if post == nil {
		return nil, fail(ErrNotFound, "post not found")
	}
	if post.AuthorID != userID {
		return nil, fail(ErrForbidden, "only the author can modify this post")
	}
	return post, nil
}

func (s *postService) Update(ctx context.Context, userID uuid.UUID, postID string, req *request.UpdatePostRequest) (*response.PostResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	post, err := s.owned(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.ImageURLs != nil {
		post.ImageURLs = req.ImageURLs
	}
	if req.VideoURLs != nil {
		post.VideoURLs = req.VideoURLs
	}

	var categoryIDs []uuid.UUID
	if req.CategoryIDs != nil {
		if categoryIDs, err = s.categoryIDs(ctx, req.CategoryIDs); err != nil {
			return nil, err
		}
	}

	post.UpdatedAt = time.Now()
	if err := s.posts.Update(ctx, post, categoryIDs); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fail(ErrNotFound, "post not found")
		}
		return nil, fmt.Errorf("update post: %w", err)
	}

	return s.reload(ctx, post.Slug)
}

func (s *postService) Delete(ctx context.Context, userID uuid.UUID, postID string) error {
	post, err := s.owned(ctx, userID, postID)
	if err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(ErrNotFound, "post not found")
		}
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
