package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blog-platform/internal/data/entity"
	"blog-platform/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post, categoryIDs []uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	FindViewBySlug(ctx context.Context, slug string, includeDrafts bool) (*entity.PostView, error)
	List(ctx context.Context, filter entity.PostFilter) ([]*entity.PostView, error)
	CountAll(ctx context.Context) (int64, error)
	// Update rewrites the editable fields. A nil categoryIDs keeps the
	// current categories.
	Update(ctx context.Context, post *entity.Post, categoryIDs []uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type postRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPostRepository(db database.PgxIface, log *zap.Logger) PostRepository {
	return &postRepository{
		db:  db,
		log: log.With(zap.String("repository", "post")),
	}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post, categoryIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin create post: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO posts (id, author_id, title, slug, content, published, view_count,
		                   image_urls, video_urls, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.Exec(ctx, query,
		post.ID,
		post.AuthorID,
		post.Title,
		post.Slug,
		post.Content,
		post.Published,
		post.ViewCount,
		nonNil(post.ImageURLs),
		nonNil(post.VideoURLs),
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		err = classify(err)
		r.log.Error("Failed to create post", zap.Error(err), zap.String("slug", post.Slug))
		return fmt.Errorf("create post %s: %w", post.Slug, err)
	}

	if err := linkCategories(ctx, tx, post.ID, categoryIDs); err != nil {
		r.log.Error("Failed to link post categories", zap.Error(err), zap.String("post_id", post.ID.String()))
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit post", zap.Error(err))
		return fmt.Errorf("commit create post: %w", err)
	}
	return nil
}

func linkCategories(ctx context.Context, tx pgx.Tx, postID uuid.UUID, categoryIDs []uuid.UUID) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO post_categories (post_id, category_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING
	`
	if _, err := tx.Exec(ctx, query, postID, categoryIDs); err != nil {
		return fmt.Errorf("link categories to post %s: %w", postID, classify(err))
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	query := `
		SELECT id, author_id, title, slug, content, published, view_count,
		       image_urls, video_urls, created_at, updated_at
		FROM posts
		WHERE id = $1
	`

	var p entity.Post
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.AuthorID,
		&p.Title,
		&p.Slug,
		&p.Content,
		&p.Published,
		&p.ViewCount,
		&p.ImageURLs,
		&p.VideoURLs,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find post by ID", zap.Error(err), zap.String("post_id", id.String()))
		return nil, fmt.Errorf("find post by ID %s: %w", id, err)
	}
	return &p, nil
}

const postViewSelect = `
		SELECT p.id, p.author_id, p.title, p.slug, p.content, p.published, p.view_count,
		       p.image_urls, p.video_urls, p.created_at, p.updated_at,
		       u.username, u.name, u.avatar_url,
		       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count,
		       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count
		FROM posts p
		INNER JOIN users u ON u.id = p.author_id
		WHERE 1 = 1
`

func scanPostView(row rowScanner) (*entity.PostView, error) {
	var v entity.PostView
	err := row.Scan(
		&v.ID,
		&v.AuthorID,
		&v.Title,
		&v.Slug,
		&v.Content,
		&v.Published,
		&v.ViewCount,
		&v.ImageURLs,
		&v.VideoURLs,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.AuthorUsername,
		&v.AuthorName,
		&v.AuthorAvatar,
		&v.LikeCount,
		&v.CommentCount,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *postRepository) FindViewBySlug(ctx context.Context, slug string, includeDrafts bool) (*entity.PostView, error) {
	query := postViewSelect + ` AND p.slug = $1`
	if !includeDrafts {
		query += ` AND p.published = TRUE`
	}

	v, err := scanPostView(r.db.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find post by slug", zap.Error(err), zap.String("slug", slug))
		return nil, fmt.Errorf("find post by slug %s: %w", slug, err)
	}

	if err := r.attachCategories(ctx, []*entity.PostView{v}); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *postRepository) List(ctx context.Context, filter entity.PostFilter) ([]*entity.PostView, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(postViewSelect)

	args := []any{}
	argCount := 1

	if !filter.IncludeDrafts {
		queryBuilder.WriteString(" AND p.published = TRUE")
	}
	if filter.AuthorID != uuid.Nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.author_id = $%d", argCount))
		args = append(args, filter.AuthorID)
		argCount++
	}
	if filter.AuthorUsername != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND u.username = $%d", argCount))
		args = append(args, filter.AuthorUsername)
		argCount++
	}
	if filter.CategorySlug != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM post_categories pc
			INNER JOIN categories c ON c.id = pc.category_id
			WHERE pc.post_id = p.id AND c.slug = $%d)`, argCount))
		args = append(args, filter.CategorySlug)
		argCount++
	}

	if filter.Popular {
		queryBuilder.WriteString(" ORDER BY like_count DESC, p.view_count DESC, p.created_at DESC")
	} else {
		queryBuilder.WriteString(" ORDER BY p.created_at DESC")
	}

	if filter.Limit > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to list posts", zap.Error(err))
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []*entity.PostView
	for rows.Next() {
		v, err := scanPostView(rows)
		if err != nil {
			r.log.Error("Failed to scan post row", zap.Error(err))
			return nil, fmt.Errorf("scan post row: %w", err)
		}
		posts = append(posts, v)
	}
	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate post rows: %w", err)
	}

	if err := r.attachCategories(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) attachCategories(ctx context.Context, posts []*entity.PostView) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(posts))
	byID := make(map[uuid.UUID]*entity.PostView, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}

	query := `
		SELECT pc.post_id, c.id, c.name, c.slug, c.description, c.created_at
		FROM post_categories pc
		INNER JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id = ANY($1)
		ORDER BY c.name
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to load post categories", zap.Error(err))
		return fmt.Errorf("load post categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID uuid.UUID
		var c entity.Category
		if err := rows.Scan(&postID, &c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt); err != nil {
			return fmt.Errorf("scan post category: %w", err)
		}
		if p, ok := byID[postID]; ok {
			p.Categories = append(p.Categories, c)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate post categories: %w", err)
	}
	return nil
}

func (r *postRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		r.log.Error("Database error counting posts", zap.Error(err))
		return 0, fmt.Errorf("count all posts: %w", err)
	}
	return count, nil
}

func (r *postRepository) Update(ctx context.Context, post *entity.Post, categoryIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin update post: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		UPDATE posts
		SET title = $2, content = $3, image_urls = $4, video_urls = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := tx.Exec(ctx, query,
		post.ID,
		post.Title,
		post.Content,
		nonNil(post.ImageURLs),
		nonNil(post.VideoURLs),
		post.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update post", zap.Error(err), zap.String("post_id", post.ID.String()))
		return fmt.Errorf("update post %s: %w", post.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update post %s: %w", post.ID, ErrNotFound)
	}

	if categoryIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM post_categories WHERE post_id = $1`, post.ID); err != nil {
			r.log.Error("Failed to clear post categories", zap.Error(err))
			return fmt.Errorf("clear categories of post %s: %w", post.ID, err)
		}
		if err := linkCategories(ctx, tx, post.ID, categoryIDs); err != nil {
			r.log.Error("Failed to link post categories", zap.Error(err))
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit post update", zap.Error(err))
		return fmt.Errorf("commit update post: %w", err)
	}
	return nil
}

func (r *postRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `UPDATE posts SET view_count = view_count + 1 WHERE id = $1`, id); err != nil {
		r.log.Error("Failed to increment views", zap.Error(err), zap.String("post_id", id.String()))
		return fmt.Errorf("increment views of post %s: %w", id, err)
	}
	return nil
}

func (r *postRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	result, err := r.db.Exec(ctx, `UPDATE posts SET published = $2, updated_at = NOW() WHERE id = $1`, id, published)
	if err != nil {
		r.log.Error("Failed to set post published", zap.Error(err), zap.String("post_id", id.String()))
		return fmt.Errorf("set published on post %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("set published on post %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes the post; comments, likes and category links cascade.
func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete post", zap.Error(err), zap.String("post_id", id.String()))
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete post %s: %w", id, ErrNotFound)
	}

	r.log.Info("Post deleted", zap.String("id", id.String()))
	return nil
}
