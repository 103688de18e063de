package entity

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	BaseSimple
	PostID  uuid.UUID `db:"post_id"`
	UserID  uuid.UUID `db:"user_id"`
	Content string    `db:"content"`
}

type CommentView struct {
	Comment
	Username  string
	Name      string
	AvatarURL *string
}

// Like is keyed by (user, post); a user likes a post at most once.
type Like struct {
	UserID    uuid.UUID `db:"user_id"`
	PostID    uuid.UUID `db:"post_id"`
	CreatedAt time.Time `db:"created_at"`
}
