package response

import (
	"time"

	"blog-platform/internal/data/entity"
)

type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	PostCount   int64     `json:"post_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func CategoryToResponse(c *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		PostCount:   c.PostCount,
		CreatedAt:   c.CreatedAt,
	}
}

type AuthorResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}

type PostResponse struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Slug         string             `json:"slug"`
	Content      string             `json:"content"`
	Published    bool               `json:"published"`
	ViewCount    int64              `json:"view_count"`
	ImageURLs    []string           `json:"image_urls"`
	VideoURLs    []string           `json:"video_urls"`
	Author       AuthorResponse     `json:"author"`
	Categories   []CategoryResponse `json:"categories"`
	LikeCount    int64              `json:"like_count"`
	CommentCount int64              `json:"comment_count"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func PostToResponse(v *entity.PostView) PostResponse {
	categories := make([]CategoryResponse, 0, len(v.Categories))
	for i := range v.Categories {
		categories = append(categories, CategoryToResponse(&v.Categories[i]))
	}
	return PostResponse{
		ID:        v.ID.String(),
		Title:     v.Title,
		Slug:      v.Slug,
		Content:   v.Content,
		Published: v.Published,
		ViewCount: v.ViewCount,
		ImageURLs: orEmpty(v.ImageURLs),
		VideoURLs: orEmpty(v.VideoURLs),
		Author: AuthorResponse{
			ID:        v.AuthorID.String(),
			Username:  v.AuthorUsername,
			Name:      v.AuthorName,
			AvatarURL: v.AuthorAvatar,
		},
		Categories:   categories,
		LikeCount:    v.LikeCount,
		CommentCount: v.CommentCount,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func PostsToResponse(views []*entity.PostView) []PostResponse {
	out := make([]PostResponse, 0, len(views))
	for _, v := range views {
		out = append(out, PostToResponse(v))
	}
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type PostDetailResponse struct {
	PostResponse
	Comments []CommentResponse `json:"comments"`
	LikedBy  []string          `json:"liked_by"`
}

type CommentResponse struct {
	ID        string         `json:"id"`
	PostID    string         `json:"post_id"`
	Content   string         `json:"content"`
	Author    AuthorResponse `json:"author"`
	CreatedAt time.Time      `json:"created_at"`
}

func CommentToResponse(c *entity.CommentView) CommentResponse {
	return CommentResponse{
		ID:      c.ID.String(),
		PostID:  c.PostID.String(),
		Content: c.Content,
		Author: AuthorResponse{
			ID:        c.UserID.String(),
			Username:  c.Username,
			Name:      c.Name,
			AvatarURL: c.AvatarURL,
		},
		CreatedAt: c.CreatedAt,
	}
}

type LikeResponse struct {
	Liked bool `json:"liked"`
}
