package dto

import (
	"time"

	"github.com/dcanli/fieldside/internal/app/models"
)

// CreatePostRequest is the body for creating a post or event
type CreatePostRequest struct {
	Category  string     `json:"sport" form:"sport" binding:"required,min=1,max=64"`
	Title     string     `json:"title" form:"title" binding:"required,min=1,max=200"`
	Body      string     `json:"content" form:"content" binding:"required,min=1"`
	EventTime *time.Time `json:"eventTime,omitempty" form:"eventTime" time_format:"2006-01-02T15:04:05Z07:00"`
}

// SortPostsRequest selects the feed ordering and category filter
type SortPostsRequest struct {
	SortType    string `json:"sortType" form:"sortType"`
	SportFilter string `json:"sportFilter" form:"sportFilter"`
}

// PostResponse is the view representation of a single post
type PostResponse struct {
	ID             int64      `json:"id"`
	Category       string     `json:"sport"`
	Title          string     `json:"title"`
	Body           string     `json:"content"`
	AuthorUsername string     `json:"username"`
	CreatedAt      time.Time  `json:"timestamp"`
	EventTime      *time.Time `json:"eventTime,omitempty"`
	FollowerCount  int        `json:"followers"`
	IsFollowing    bool       `json:"isFollowing"`
	IsOwn          bool       `json:"isOwn"`
}

// FeedResponse is the view data for the home feed
type FeedResponse struct {
	Posts []PostResponse `json:"posts"`
	User  *UserResponse  `json:"user,omitempty"`
}

// NewPostResponse maps a post model onto its view representation
func NewPostResponse(p *models.Post) PostResponse {
	return PostResponse{
		ID:             p.ID,
		Category:       p.Category,
		Title:          p.Title,
		Body:           p.Body,
		AuthorUsername: p.AuthorUsername,
		CreatedAt:      p.CreatedAt,
		EventTime:      p.EventTime,
		FollowerCount:  p.FollowerCount,
	}
}
