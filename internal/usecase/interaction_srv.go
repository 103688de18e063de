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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InteractionService handles comments and likes on published posts.
type InteractionService interface {
	Comment(ctx context.Context, userID uuid.UUID, req *request.CommentRequest) (*response.CommentResponse, error)
	ToggleLike(ctx context.Context, userID uuid.UUID, req *request.LikeRequest) (*response.LikeResponse, error)
}

type interactionService struct {
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	likes    repository.LikeRepository
	log      *zap.Logger
}

func NewInteractionService(repo *repository.Repository, log *zap.Logger) InteractionService {
	return &interactionService{
		users:    repo.User,
		posts:    repo.Post,
		comments: repo.Comment,
		likes:    repo.Like,
		log:      log.With(zap.String("service", "interaction")),
	}
}

func (s *interactionService) publishedPost(ctx context.Context, rawID string) (*entity.Post, error) {
	id, err := parseID(rawID, "post")
	if err != nil {
		return nil, err
	}
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	if post == nil || !post.Published {
		return nil, fail(ErrNotFound, "post not found")
	}
	return post, nil
}

func (s *interactionService) Comment(ctx context.Context, userID uuid.UUID, req *request.CommentRequest) (*response.CommentResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, &ValidationError{Fields: map[string]string{"Content": "This field is required"}}
	}

	post, err := s.publishedPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find commenter: %w", err)
	}
	if user == nil {
		return nil, fail(ErrNotFound, "user not found")
	}

	comment := &entity.Comment{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		PostID:     post.ID,
		UserID:     user.ID,
		Content:    content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return nil, fail(ErrNotFound, "post not found")
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}

	resp := response.CommentToResponse(&entity.CommentView{
		Comment:   *comment,
		Username:  user.Username,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	})
	return &resp, nil
}

// ToggleLike removes the caller's like when present and adds it otherwise.
func (s *interactionService) ToggleLike(ctx context.Context, userID uuid.UUID, req *request.LikeRequest) (*response.LikeResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	post, err := s.publishedPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	removed, err := s.likes.Remove(ctx, userID, post.ID)
	if err != nil {
		return nil, fmt.Errorf("toggle like: %w", err)
	}
	if removed {
		return &response.LikeResponse{Liked: false}, nil
	}

	if err := s.likes.Add(ctx, userID, post.ID, time.Now()); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return nil, fail(ErrNotFound, "post not found")
		}
		return nil, fmt.Errorf("toggle like: %w", err)
	}
	return &response.LikeResponse{Liked: true}, nil
}
