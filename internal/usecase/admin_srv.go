package usecase

import (
	"context"
	"errors"
	"fmt"

	"blog-platform/internal/data/entity"
	"blog-platform/internal/data/repository"
	"blog-platform/internal/dto/request"
	"blog-platform/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AdminService backs the /api/admin routes. Callers are already checked for
// the ADMIN role; actorID is the admin performing the change.
type AdminService interface {
	Stats(ctx context.Context) (*response.StatsResponse, error)
	ListUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.AccountResponse], error)
	UpdateUserStatus(ctx context.Context, actorID uuid.UUID, userID string, req *request.UpdateStatusRequest) (*response.AccountResponse, error)
	UpdateUserRole(ctx context.Context, actorID uuid.UUID, userID string, req *request.UpdateRoleRequest) (*response.AccountResponse, error)
	DeleteUser(ctx context.Context, actorID uuid.UUID, userID string) error
	ListPosts(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PostResponse], error)
	SetPostPublished(ctx context.Context, postID string, req *request.SetPublishedRequest) error
	DeletePost(ctx context.Context, postID string) error
}

type adminService struct {
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	log      *zap.Logger
}

func NewAdminService(repo *repository.Repository, log *zap.Logger) AdminService {
	return &adminService{
		users:    repo.User,
		posts:    repo.Post,
		comments: repo.Comment,
		log:      log.With(zap.String("service", "admin")),
	}
}

func (s *adminService) Stats(ctx context.Context) (*response.StatsResponse, error) {
	var stats response.StatsResponse

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalUsers, err = s.users.CountAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalPosts, err = s.posts.CountAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalComments, err = s.comments.CountAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}

	return &stats, nil
}

func (s *adminService) ListUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.AccountResponse], error) {
	page, perPage := req.Clamped()

	users, err := s.users.FindAll(ctx, perPage, req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	total, err := s.users.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	data := make([]response.AccountResponse, 0, len(users))
	for _, u := range users {
		data = append(data, response.AccountToResponse(u))
	}
	return response.NewPaginatedResponse(data, page, perPage, total), nil
}

// target parses userID and refuses changes an admin makes to themselves, so
// the last admin cannot lock themselves out.
func (s *adminService) target(actorID uuid.UUID, userID string) (uuid.UUID, error) {
	id, err := parseID(userID, "user")
	if err != nil {
		return uuid.Nil, err
	}
	if id == actorID {
		return uuid.Nil, fail(ErrForbidden, "you cannot change your own account here")
	}
	return id, nil
}

func (s *adminService) reload(ctx context.Context, id uuid.UUID) (*response.AccountResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	if user == nil {
		return nil, fail(ErrNotFound, "user not found")
	}
	resp := response.AccountToResponse(user)
	return &resp, nil
}

func notFoundAs(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fail(ErrNotFound, "%s", msg)
	}
	return err
}

func (s *adminService) UpdateUserStatus(ctx context.Context, actorID uuid.UUID, userID string, req *request.UpdateStatusRequest) (*response.AccountResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	id, err := s.target(actorID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateStatus(ctx, id, entity.UserStatus(req.Status)); err != nil {
		return nil, notFoundAs(err, "user not found")
	}

	s.log.Info("User status changed",
		zap.String("admin_id", actorID.String()),
		zap.String("user_id", id.String()),
		zap.String("status", req.Status))
	return s.reload(ctx, id)
}

func (s *adminService) UpdateUserRole(ctx context.Context, actorID uuid.UUID, userID string, req *request.UpdateRoleRequest) (*response.AccountResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	id, err := s.target(actorID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateRole(ctx, id, entity.UserRole(req.Role)); err != nil {
		return nil, notFoundAs(err, "user not found")
	}

	s.log.Info("User role changed",
		zap.String("admin_id", actorID.String()),
		zap.String("user_id", id.String()),
		zap.String("role", req.Role))
	return s.reload(ctx, id)
}

func (s *adminService) DeleteUser(ctx context.Context, actorID uuid.UUID, userID string) error {
	id, err := s.target(actorID, userID)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return notFoundAs(err, "user not found")
	}
	return nil
}

func (s *adminService) ListPosts(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PostResponse], error) {
	page, perPage := req.Clamped()

	views, err := s.posts.List(ctx, entity.PostFilter{
		IncludeDrafts: true,
		Limit:         perPage,
		Offset:        req.Offset(),
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	total, err := s.posts.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	return response.NewPaginatedResponse(response.PostsToResponse(views), page, perPage, total), nil
}

func (s *adminService) SetPostPublished(ctx context.Context, postID string, req *request.SetPublishedRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	id, err := parseID(postID, "post")
	if err != nil {
		return err
	}
	if err := s.posts.SetPublished(ctx, id, *req.Published); err != nil {
		return notFoundAs(err, "post not found")
	}
	return nil
}

func (s *adminService) DeletePost(ctx context.Context, postID string) error {
	id, err := parseID(postID, "post")
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return notFoundAs(err, "post not found")
	}
	return nil
}
