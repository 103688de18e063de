package wire

import (
	"net/http"

	"blog-platform/internal/adaptor"
	"blog-platform/internal/data/repository"
	"blog-platform/internal/usecase"
	"blog-platform/pkg/cooldown"
	"blog-platform/pkg/middleware"
	"blog-platform/pkg/notify"
	"blog-platform/pkg/token"
	"blog-platform/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the wired router.
type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and routes from the shared dependencies.
// gateway and throttle may be nil.
func Wiring(
	repo *repository.Repository,
	tokens *token.Manager,
	gateway notify.Gateway,
	throttle cooldown.Throttle,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	var authOpts []usecase.AuthOption
	if throttle != nil {
		authOpts = append(authOpts, usecase.WithThrottle(throttle))
	}

	service := usecase.NewService(repo, tokens, gateway, config, logger, authOpts...)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router: setupRouter(handler, tokens, config, logger),
	}
}

func setupRouter(
	handler *adaptor.Handler,
	verifier token.Verifier,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))
	r.Use(middleware.Metrics)

	authenticate := middleware.Authenticate(verifier, logger)

	wireAuth(r, handler.Auth, authenticate, config)
	wireUser(r, handler.User, authenticate)
	wirePost(r, handler.Post, handler.Category, authenticate)
	wireNewsletter(r, handler.Newsletter)
	wireAdmin(r, handler, authenticate, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
