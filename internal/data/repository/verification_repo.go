package repository

import (
	"context"
	"errors"
	"fmt"

	"blog-platform/internal/data/entity"
	"blog-platform/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// VerificationRepository stores one-time codes. Uniqueness per
// (identifier, purpose) is kept by callers deleting before creating.
type VerificationRepository interface {
	Create(ctx context.Context, code *entity.VerificationCode) error
	Find(ctx context.Context, identifier, code string, purpose entity.VerificationPurpose) (*entity.VerificationCode, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByIdentifier(ctx context.Context, identifier string, purpose entity.VerificationPurpose) (int64, error)
}

type verificationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVerificationRepository(db database.PgxIface, log *zap.Logger) VerificationRepository {
	return &verificationRepository{
		db:  db,
		log: log.With(zap.String("repository", "verification")),
	}
}

func (r *verificationRepository) Create(ctx context.Context, code *entity.VerificationCode) error {
	query := `
		INSERT INTO verification_codes (id, identifier, code, purpose, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		code.ID,
		code.Identifier,
		code.Code,
		code.Purpose,
		code.ExpiresAt,
		code.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create verification code",
			zap.Error(err),
			zap.String("identifier", code.Identifier),
			zap.String("purpose", string(code.Purpose)),
		)
		return fmt.Errorf("create verification code for %s: %w", code.Identifier, err)
	}

	return nil
}

// Find matches identifier and code exactly. Expired rows are returned too so
// the caller can tell an expired code from a wrong one.
func (r *verificationRepository) Find(ctx context.Context, identifier, code string, purpose entity.VerificationPurpose) (*entity.VerificationCode, error) {
	query := `
		SELECT id, identifier, code, purpose, expires_at, created_at
		FROM verification_codes
		WHERE identifier = $1 AND code = $2 AND purpose = $3
		ORDER BY created_at DESC
		LIMIT 1
	`

	var v entity.VerificationCode
	err := r.db.QueryRow(ctx, query, identifier, code, purpose).Scan(
		&v.ID,
		&v.Identifier,
		&v.Code,
		&v.Purpose,
		&v.ExpiresAt,
		&v.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find verification code",
			zap.Error(err),
			zap.String("identifier", identifier),
			zap.String("purpose", string(purpose)),
		)
		return nil, fmt.Errorf("find verification code for %s: %w", identifier, err)
	}

	return &v, nil
}

func (r *verificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM verification_codes WHERE id = $1`, id); err != nil {
		r.log.Error("Failed to delete verification code", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("delete verification code %s: %w", id, err)
	}
	return nil
}

func (r *verificationRepository) DeleteByIdentifier(ctx context.Context, identifier string, purpose entity.VerificationPurpose) (int64, error) {
	query := `DELETE FROM verification_codes WHERE identifier = $1 AND purpose = $2`

	result, err := r.db.Exec(ctx, query, identifier, purpose)
	if err != nil {
		r.log.Error("Failed to purge verification codes",
			zap.Error(err),
			zap.String("identifier", identifier),
			zap.String("purpose", string(purpose)),
		)
		return 0, fmt.Errorf("purge verification codes for %s: %w", identifier, err)
	}

	return result.RowsAffected(), nil
}
