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
	"blog-platform/pkg/cooldown"
	"blog-platform/pkg/metrics"
	"blog-platform/pkg/notify"
	"blog-platform/pkg/token"
	"blog-platform/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.RegisterResponse, error)
	VerifyEmail(ctx context.Context, req *request.VerifyEmailRequest) error
	ResendVerification(ctx context.Context, req *request.ResendVerificationRequest) (*response.DeliveryResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error)
	GetCurrentAccount(ctx context.Context, accountID uuid.UUID) (*response.AccountResponse, error)
}

// TokenIssuer mints bearer tokens.
type TokenIssuer interface {
	Issue(accountID uuid.UUID, role string) (string, time.Time, error)
	Configured() bool
}

type authService struct {
	users    repository.UserRepository
	codes    repository.VerificationRepository
	tokens   TokenIssuer
	gateway  notify.Gateway
	throttle cooldown.Throttle
	codeTTL  time.Duration
	now      func() time.Time
	log      *zap.Logger
}

type AuthOption func(*authService)

// WithClock replaces time.Now for code expiry and verification timestamps.
func WithClock(now func() time.Time) AuthOption {
	return func(s *authService) { s.now = now }
}

// WithThrottle limits how often a verification code can be resent.
func WithThrottle(t cooldown.Throttle) AuthOption {
	return func(s *authService) { s.throttle = t }
}

func NewAuthService(
	repo *repository.Repository,
	tokens TokenIssuer,
	gateway notify.Gateway,
	config *utils.Config,
	log *zap.Logger,
	opts ...AuthOption,
) AuthService {
	s := &authService{
		users:   repo.User,
		codes:   repo.Verification,
		tokens:  tokens,
		gateway: gateway,
		codeTTL: config.OTP.TTL(),
		now:     time.Now,
		log:     log.With(zap.String("service", "auth")),
	}
	if s.codeTTL <= 0 {
		s.codeTTL = 15 * time.Minute
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.RegisterResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Register validation failed", zap.Error(err))
		return nil, err
	}

	email := utils.NormalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)

	existing, err := s.users.FindByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, fmt.Errorf("check existing account: %w", err)
	}

	if existing != nil {
		// Only the owner of the email may resume. A username match alone
		// must look like any other conflict.
		if existing.IsVerified() || existing.Deleted() || existing.Email != email {
			metrics.AuthEventsTotal.WithLabelValues("register", "conflict").Inc()
			return nil, fail(ErrConflict, "email or username already in use")
		}

		// Unverified account: start over with a fresh code instead of
		// leaving the user stuck.
		receipt, err := s.issueCode(ctx, email)
		if err != nil {
			return nil, err
		}

		metrics.AuthEventsTotal.WithLabelValues("register", "resumed").Inc()
		s.log.Info("Registration resumed for unverified account",
			zap.String("user_id", existing.ID.String()))

		return &response.RegisterResponse{
			Email:            email,
			Message:          "Account pending verification. A new code has been sent to your email.",
			NotificationSent: receipt.Delivered,
			Notification:     receipt,
		}, fail(ErrPendingVerification, "Account pending verification. Enter the code sent to your email.")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = username
	}

	now := s.now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         name,
		Role:         entity.RoleUser,
		Status:       entity.StatusActive,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with a concurrent registration
			metrics.AuthEventsTotal.WithLabelValues("register", "conflict").Inc()
			return nil, fail(ErrConflict, "email or username already in use")
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	receipt, err := s.issueCode(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	metrics.AuthEventsTotal.WithLabelValues("register", "created").Inc()
	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.Bool("notification_sent", receipt.Delivered))

	return &response.RegisterResponse{
		AccountID:        user.ID.String(),
		Email:            user.Email,
		Message:          "Registration successful. Check your email for the verification code.",
		NotificationSent: receipt.Delivered,
		Notification:     receipt,
	}, nil
}

// issueCode replaces any live code for identifier with a new one and tries
// to deliver it. Delivery failure is reported in the receipt only.
func (s *authService) issueCode(ctx context.Context, identifier string) (notify.Receipt, error) {
	purged, err := s.codes.DeleteByIdentifier(ctx, identifier, entity.PurposeEmailVerification)
	if err != nil {
		return notify.Receipt{}, fmt.Errorf("purge verification codes: %w", err)
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return notify.Receipt{}, fmt.Errorf("generate verification code: %w", err)
	}

	now := s.now()
	v := &entity.VerificationCode{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		Identifier: identifier,
		Code:       code,
		Purpose:    entity.PurposeEmailVerification,
		ExpiresAt:  now.Add(s.codeTTL),
	}
	if err := s.codes.Create(ctx, v); err != nil {
		return notify.Receipt{}, fmt.Errorf("store verification code: %w", err)
	}

	s.log.Debug("Verification code issued",
		zap.String("email", identifier),
		zap.String("code", code),
		zap.Int64("purged", purged),
		zap.Time("expires_at", v.ExpiresAt))

	// the code is valid whether or not delivery works, so a client hanging
	// up must not cut the send short
	receipt := notify.Dispatch(context.WithoutCancel(ctx), s.gateway, notify.Message{
		Kind:    notify.KindVerification,
		To:      identifier,
		Subject: "Your verification code",
		Code:    code,
	}, s.log)

	return receipt, nil
}

func (s *authService) VerifyEmail(ctx context.Context, req *request.VerifyEmailRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	email := utils.NormalizeEmail(req.Email)

	v, err := s.codes.Find(ctx, email, req.Code, entity.PurposeEmailVerification)
	if err != nil {
		return fmt.Errorf("find verification code: %w", err)
	}
	if v == nil {
		metrics.AuthEventsTotal.WithLabelValues("verify", "invalid").Inc()
		return ErrInvalidCode
	}

	now := s.now()
	if v.Expired(now) {
		if err := s.codes.Delete(ctx, v.ID); err != nil {
			return fmt.Errorf("purge expired code: %w", err)
		}
		metrics.AuthEventsTotal.WithLabelValues("verify", "expired").Inc()
		return ErrCodeExpired
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find account: %w", err)
	}
	if user == nil {
		if err := s.codes.Delete(ctx, v.ID); err != nil {
			s.log.Warn("Failed to delete orphan verification code", zap.Error(err))
		}
		return fail(ErrNotFound, "account not found")
	}

	if err := s.users.MarkEmailVerified(ctx, user.ID, now); err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	if err := s.codes.Delete(ctx, v.ID); err != nil {
		return fmt.Errorf("consume verification code: %w", err)
	}

	metrics.AuthEventsTotal.WithLabelValues("verify", "success").Inc()
	s.log.Info("Email verified", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *authService) ResendVerification(ctx context.Context, req *request.ResendVerificationRequest) (*response.DeliveryResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	email := utils.NormalizeEmail(req.Email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	if user == nil {
		return nil, fail(ErrNotFound, "account not found")
	}
	if user.IsVerified() {
		return nil, ErrAlreadyVerified
	}

	if s.throttle != nil {
		ok, wait, err := s.throttle.Allow(ctx, "resend:"+email)
		switch {
		case err != nil:
			// fail open: the cooldown is a convenience, not a guarantee
			s.log.Warn("Resend cooldown unavailable", zap.Error(err))
		case !ok:
			metrics.AuthEventsTotal.WithLabelValues("resend", "throttled").Inc()
			return nil, fail(ErrTooManyRequests, "please wait %d seconds before requesting another code",
				int(wait.Round(time.Second)/time.Second))
		}
	}

	receipt, err := s.issueCode(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	metrics.AuthEventsTotal.WithLabelValues("resend", "success").Inc()
	return &response.DeliveryResponse{
		Message:          "A new verification code has been sent.",
		NotificationSent: receipt.Delivered,
		Notification:     receipt,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		metrics.AuthEventsTotal.WithLabelValues("login", "invalid_credentials").Inc()
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified() {
		metrics.AuthEventsTotal.WithLabelValues("login", "unverified").Inc()
		return nil, fail(ErrEmailNotVerified, "email not verified, check your inbox for the code")
	}

	if !user.IsActive() {
		metrics.AuthEventsTotal.WithLabelValues("login", "disabled").Inc()
		s.log.Warn("Login attempt on disabled account",
			zap.String("user_id", user.ID.String()),
			zap.String("status", string(user.Status)))
		return nil, ErrAccountDisabled
	}

	if s.tokens == nil || !s.tokens.Configured() {
		s.log.Error("Token signing secret is not configured")
		return nil, ErrMisconfigured
	}

	raw, expiresAt, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		if errors.Is(err, token.ErrMissingSecret) {
			return nil, ErrMisconfigured
		}
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.AuthEventsTotal.WithLabelValues("login", "success").Inc()
	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	return &response.LoginResponse{
		Token:     raw,
		ExpiresAt: expiresAt,
		Account:   response.AccountToResponse(user),
	}, nil
}

func (s *authService) GetCurrentAccount(ctx context.Context, accountID uuid.UUID) (*response.AccountResponse, error) {
	user, err := s.users.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	if user == nil {
		return nil, fail(ErrNotFound, "account not found")
	}

	resp := response.AccountToResponse(user)
	return &resp, nil
}
