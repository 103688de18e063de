package response

import (
	"time"

	"blog-platform/internal/data/entity"
	"blog-platform/pkg/notify"
)

// AccountResponse is the safe projection of an account; it never carries the
// password hash.
type AccountResponse struct {
	ID              string            `json:"id"`
	Username        string            `json:"username"`
	Email           string            `json:"email"`
	Name            string            `json:"name"`
	Bio             string            `json:"bio"`
	AvatarURL       *string           `json:"avatar_url"`
	Role            entity.UserRole   `json:"role"`
	Status          entity.UserStatus `json:"status"`
	EmailVerified   bool              `json:"email_verified"`
	EmailVerifiedAt *time.Time        `json:"email_verified_at"`
	CreatedAt       time.Time         `json:"created_at"`
}

func AccountToResponse(user *entity.User) AccountResponse {
	return AccountResponse{
		ID:              user.ID.String(),
		Username:        user.Username,
		Email:           user.Email,
		Name:            user.Name,
		Bio:             user.Bio,
		AvatarURL:       user.AvatarURL,
		Role:            user.Role,
		Status:          user.Status,
		EmailVerified:   user.IsVerified(),
		EmailVerifiedAt: user.EmailVerifiedAt,
		CreatedAt:       user.CreatedAt,
	}
}

type RegisterResponse struct {
	AccountID        string         `json:"account_id,omitempty"`
	Email            string         `json:"email"`
	Message          string         `json:"message"`
	NotificationSent bool           `json:"notification_sent"`
	Notification     notify.Receipt `json:"notification"`
}

// DeliveryResponse reports a code issuance whose delivery was best effort.
type DeliveryResponse struct {
	Message          string         `json:"message"`
	NotificationSent bool           `json:"notification_sent"`
	Notification     notify.Receipt `json:"notification"`
}

type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   AccountResponse `json:"account"`
}
