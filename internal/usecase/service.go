package usecase

import (
	"blog-platform/internal/data/repository"
	"blog-platform/pkg/notify"
	"blog-platform/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth        AuthService
	User        UserService
	Admin       AdminService
	Category    CategoryService
	Post        PostService
	Interaction InteractionService
	Newsletter  NewsletterService
}

func NewService(
	repo *repository.Repository,
	tokens TokenIssuer,
	gateway notify.Gateway,
	config *utils.Config,
	log *zap.Logger,
	authOpts ...AuthOption,
) *Service {
	return &Service{
		Auth:        NewAuthService(repo, tokens, gateway, config, log, authOpts...),
		User:        NewUserService(repo.User, log),
		Admin:       NewAdminService(repo, log),
		Category:    NewCategoryService(repo.Category, log),
		Post:        NewPostService(repo, log),
		Interaction: NewInteractionService(repo, log),
		Newsletter:  NewNewsletterService(repo.Newsletter, gateway, config, log),
	}
}
