package request

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type CreatePostRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=255"`
	Content     string   `json:"content" validate:"required"`
	CategoryIDs []string `json:"category_ids" validate:"omitempty,dive,uuid"`
	ImageURLs   []string `json:"image_urls" validate:"omitempty,dive,url"`
	VideoURLs   []string `json:"video_urls" validate:"omitempty,dive,url"`
}

// UpdatePostRequest leaves absent fields untouched. An empty category_ids
// array clears the categories.
type UpdatePostRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Content     *string  `json:"content,omitempty" validate:"omitempty,min=1"`
	CategoryIDs []string `json:"category_ids" validate:"omitempty,dive,uuid"`
	ImageURLs   []string `json:"image_urls" validate:"omitempty,dive,url"`
	VideoURLs   []string `json:"video_urls" validate:"omitempty,dive,url"`
}

type CommentRequest struct {
	PostID  string `json:"post_id" validate:"required,uuid"`
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

type LikeRequest struct {
	PostID string `json:"post_id" validate:"required,uuid"`
}
