package response

import (
	"time"

	"blog-platform/internal/data/entity"
)

type ActivityResponse struct {
	Posts    int64 `json:"posts"`
	Comments int64 `json:"comments"`
	Likes    int64 `json:"likes"`
}

type ProfileResponse struct {
	AccountResponse
	Stats ActivityResponse `json:"stats"`
}

func ProfileToResponse(user *entity.User, a entity.UserActivity) ProfileResponse {
	return ProfileResponse{
		AccountResponse: AccountToResponse(user),
		Stats:           ActivityResponse{Posts: a.Posts, Comments: a.Comments, Likes: a.Likes},
	}
}

// PublicProfileResponse omits email and status.
type PublicProfileResponse struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Name      string          `json:"name"`
	Bio       string          `json:"bio"`
	AvatarURL *string         `json:"avatar_url"`
	Role      entity.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
	Posts     int64           `json:"posts"`
	Comments  int64           `json:"comments"`
}

func PublicProfileToResponse(user *entity.User, a entity.UserActivity) PublicProfileResponse {
	return PublicProfileResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Name:      user.Name,
		Bio:       user.Bio,
		AvatarURL: user.AvatarURL,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		Posts:     a.Posts,
		Comments:  a.Comments,
	}
}

type StatsResponse struct {
	TotalUsers    int64 `json:"total_users"`
	TotalPosts    int64 `json:"total_posts"`
	TotalComments int64 `json:"total_comments"`
}
