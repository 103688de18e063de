package repository

import (
	"context"
	"fmt"

	"blog-platform/internal/data/entity"
	"blog-platform/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*entity.CommentView, error)
	CountAll(ctx context.Context) (int64, error)
}

type commentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCommentRepository(db database.PgxIface, log *zap.Logger) CommentRepository {
	return &commentRepository{
		db:  db,
		log: log.With(zap.String("repository", "comment")),
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		comment.ID,
		comment.PostID,
		comment.UserID,
		comment.Content,
		comment.CreatedAt,
	)
	if err != nil {
		err = classify(err)
		r.log.Error("Failed to create comment",
			zap.Error(err),
			zap.String("post_id", comment.PostID.String()),
			zap.String("user_id", comment.UserID.String()),
		)
		return fmt.Errorf("create comment on post %s: %w", comment.PostID, err)
	}

	return nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]*entity.CommentView, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at,
		       u.username, u.name, u.avatar_url
		FROM comments c
		INNER JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		r.log.Error("Failed to list comments", zap.Error(err), zap.String("post_id", postID.String()))
		return nil, fmt.Errorf("list comments of post %s: %w", postID, err)
	}
	defer rows.Close()

	var comments []*entity.CommentView
	for rows.Next() {
		var c entity.CommentView
		if err := rows.Scan(
			&c.ID,
			&c.PostID,
			&c.UserID,
			&c.Content,
			&c.CreatedAt,
			&c.Username,
			&c.Name,
			&c.AvatarURL,
		); err != nil {
			r.log.Error("Failed to scan comment row", zap.Error(err))
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate comment rows: %w", err)
	}

	return comments, nil
}

func (r *commentRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments`).Scan(&count); err != nil {
		r.log.Error("Database error counting comments", zap.Error(err))
		return 0, fmt.Errorf("count all comments: %w", err)
	}
	return count, nil
}
