package repository

import (
	"blog-platform/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User         UserRepository
	Verification VerificationRepository
	Category     CategoryRepository
	Post         PostRepository
	Comment      CommentRepository
	Like         LikeRepository
	Newsletter   NewsletterRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		Verification: NewVerificationRepository(db, log),
		Category:     NewCategoryRepository(db, log),
		Post:         NewPostRepository(db, log),
		Comment:      NewCommentRepository(db, log),
		Like:         NewLikeRepository(db, log),
		Newsletter:   NewNewsletterRepository(db, log),
	}
}
