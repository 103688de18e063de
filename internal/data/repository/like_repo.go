package repository

import (
	"context"
	"fmt"
	"time"

	"blog-platform/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LikeRepository interface {
	// Add records a like; an existing (user, post) pair is left as is.
	Add(ctx context.Context, userID, postID uuid.UUID, at time.Time) error
	// Remove deletes the like and reports whether one existed.
	Remove(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	UserIDsByPost(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error)
}

type likeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewLikeRepository(db database.PgxIface, log *zap.Logger) LikeRepository {
	return &likeRepository{
		db:  db,
		log: log.With(zap.String("repository", "like")),
	}
}

func (r *likeRepository) Add(ctx context.Context, userID, postID uuid.UUID, at time.Time) error {
	query := `
		INSERT INTO likes (user_id, post_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, post_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, userID, postID, at); err != nil {
		err = classify(err)
		r.log.Error("Failed to add like",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("post_id", postID.String()))
		return fmt.Errorf("add like on post %s: %w", postID, err)
	}
	return nil
}

func (r *likeRepository) Remove(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		r.log.Error("Failed to remove like",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("post_id", postID.String()))
		return false, fmt.Errorf("remove like on post %s: %w", postID, err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *likeRepository) UserIDsByPost(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id FROM likes WHERE post_id = $1 ORDER BY created_at`, postID)
	if err != nil {
		r.log.Error("Failed to list likes", zap.Error(err), zap.String("post_id", postID.String()))
		return nil, fmt.Errorf("list likes of post %s: %w", postID, err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan like row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate like rows: %w", err)
	}
	return ids, nil
}
