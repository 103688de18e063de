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

type CategoryService interface {
	List(ctx context.Context) ([]response.CategoryResponse, error)
	Create(ctx context.Context, req *request.CategoryRequest) (*response.CategoryResponse, error)
	Update(ctx context.Context, id string, req *request.CategoryRequest) (*response.CategoryResponse, error)
	Delete(ctx context.Context, id string) error
}

type categoryService struct {
	repo repository.CategoryRepository
	log  *zap.Logger
}

func NewCategoryService(repo repository.CategoryRepository, log *zap.Logger) CategoryService {
	return &categoryService{
		repo: repo,
		log:  log.With(zap.String("service", "category")),
	}
}

func (s *categoryService) List(ctx context.Context) ([]response.CategoryResponse, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]response.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, response.CategoryToResponse(c))
	}
	return out, nil
}

func categorySlug(name string) (string, error) {
	slug := utils.Slugify(name)
	if strings.Trim(slug, "-") == "" {
		return "", &ValidationError{Fields: map[string]string{"Name": "Must contain letters or digits"}}
	}
	return slug, nil
}

func (s *categoryService) Create(ctx context.Context, req *request.CategoryRequest) (*response.CategoryResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	slug, err := categorySlug(name)
	if err != nil {
		return nil, err
	}

	c := &entity.Category{
		BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fail(ErrConflict, "category already exists")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.log.Info("Category created", zap.String("category_id", c.ID.String()), zap.String("slug", c.Slug))
	resp := response.CategoryToResponse(c)
	return &resp, nil
}

func (s *categoryService) Update(ctx context.Context, id string, req *request.CategoryRequest) (*response.CategoryResponse, error) {
	categoryID, err := parseID(id, "category")
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	c, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	if c == nil {
		return nil, fail(ErrNotFound, "category not found")
	}

	c.Name = strings.TrimSpace(req.Name)
	c.Description = strings.TrimSpace(req.Description)
	if c.Slug, err = categorySlug(c.Name); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fail(ErrConflict, "category already exists")
		case errors.Is(err, repository.ErrNotFound):
			return nil, fail(ErrNotFound, "category not found")
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	resp := response.CategoryToResponse(c)
	return &resp, nil
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	categoryID, err := parseID(id, "category")
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, categoryID); err != nil {
		switch {
		case errors.Is(err, repository.ErrReferenced):
			return fail(ErrConflict, "category is still used by posts")
		case errors.Is(err, repository.ErrNotFound):
			return fail(ErrNotFound, "category not found")
		}
		return fmt.Errorf("delete category: %w", err)
	}

	s.log.Info("Category deleted", zap.String("category_id", id))
	return nil
}
