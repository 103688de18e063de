package adaptor

import (
	"errors"
	"net/http"

	"blog-platform/internal/usecase"
	"blog-platform/pkg/utils"

	"go.uber.org/zap"
)

// message prefers the client-facing text carried by usecase.Error.
func message(err error, fallback string) string {
	var svcErr *usecase.Error
	if errors.As(err, &svcErr) && svcErr.Message != "" {
		return svcErr.Message
	}
	return fallback
}

// handleServiceError maps service sentinels to HTTP responses. Anything
// unrecognised is a 500 whose body never includes the error text.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var validationErr *usecase.ValidationError

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, message(err, "Validation failed"), nil)

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, message(err, "Resource already exists"))

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, message(err, "Not found"))

	case errors.Is(err, usecase.ErrInvalidCredentials):
		log.Warn(operation+" failed - invalid credentials")
		utils.ResponseUnauthorized(w, "Invalid email or password")

	case errors.Is(err, usecase.ErrEmailNotVerified):
		log.Warn(operation+" failed - email not verified")
		utils.ResponseForbidden(w, message(err, "Email not verified"))

	case errors.Is(err, usecase.ErrAccountDisabled):
		log.Warn(operation+" failed - account disabled")
		utils.ResponseForbidden(w, message(err, "Account is disabled"))

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, message(err, "Forbidden"))

	case errors.Is(err, usecase.ErrInvalidCode):
		log.Warn(operation+" failed - invalid code")
		utils.ResponseBadRequest(w, "Invalid verification code", nil)

	case errors.Is(err, usecase.ErrCodeExpired):
		log.Warn(operation+" failed - code expired")
		utils.ResponseBadRequest(w, "Verification code expired, request a new one", nil)

	case errors.Is(err, usecase.ErrAlreadyVerified):
		utils.ResponseBadRequest(w, "Email already verified", nil)

	case errors.Is(err, usecase.ErrNoRecipients):
		utils.ResponseBadRequest(w, "No active subscribers", nil)

	case errors.Is(err, usecase.ErrTooManyRequests):
		log.Warn(operation+" throttled", zap.Error(err))
		utils.ResponseTooManyRequests(w, message(err, "Too many requests"))

	case errors.Is(err, usecase.ErrMisconfigured):
		log.Error(operation+" failed - server misconfigured", zap.Error(err))
		utils.ResponseInternalError(w, "Server misconfigured")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
