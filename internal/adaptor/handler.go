package adaptor

import (
	"encoding/json"
	"net/http"
	"strconv"

	"blog-platform/internal/usecase"
	"blog-platform/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Category   *CategoryHandler
	Post       *PostHandler
	Admin      *AdminHandler
	Newsletter *NewsletterHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(service.Auth, log),
		User:       NewUserHandler(service.User, log),
		Category:   NewCategoryHandler(service.Category, log),
		Post:       NewPostHandler(service.Post, service.Interaction, log),
		Admin:      NewAdminHandler(service.Admin, log),
		Newsletter: NewNewsletterHandler(service.Newsletter, log),
	}
}

// decode reads a JSON body into dst and answers 400 when it is malformed.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// caller returns the authenticated account id or answers 401.
func caller(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

// parseInt parses a positive query value, falling back to defaultValue.
func parseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil || result < 1 {
		return defaultValue
	}
	return result
}
