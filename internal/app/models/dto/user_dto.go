package dto

import (
	"time"

	"github.com/dcanli/fieldside/internal/app/models"
)

// UserResponse is the view representation of a user
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatarUrl"`
	External  bool      `json:"external"`
	CreatedAt time.Time `json:"memberSince"`
}

// ProfileResponse is the view data for the profile page: the user's own
// posts plus the posts they follow.
type ProfileResponse struct {
	User          UserResponse   `json:"user"`
	Posts         []PostResponse `json:"posts"`
	FollowedPosts []PostResponse `json:"followedPosts"`
}

// NewUserResponse maps a user model onto its view representation
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: "/avatar/" + u.Username,
		External:  u.IsExternal(),
		CreatedAt: u.CreatedAt,
	}
}
