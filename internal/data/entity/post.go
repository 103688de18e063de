package entity

import "github.com/google/uuid"

type Post struct {
	BaseNoDelete
	AuthorID  uuid.UUID `db:"author_id"`
	Title     string    `db:"title"`
	Slug      string    `db:"slug"`
	Content   string    `db:"content"`
	Published bool      `db:"published"`
	ViewCount int64     `db:"view_count"`
	ImageURLs []string  `db:"image_urls"`
	VideoURLs []string  `db:"video_urls"`
}

// PostView is a post joined with its author and counters for listings.
type PostView struct {
	Post
	AuthorUsername string
	AuthorName     string
	AuthorAvatar   *string
	LikeCount      int64
	CommentCount   int64
	Categories     []Category
}

// PostFilter narrows post listings. Zero values mean no filter.
type PostFilter struct {
	AuthorID       uuid.UUID
	AuthorUsername string
	CategorySlug   string
	IncludeDrafts  bool
	Popular        bool
	Limit          int
	Offset         int
}
