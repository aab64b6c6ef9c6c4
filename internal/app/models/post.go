package models

import "time"

// FeedOrder selects the feed ordering key.
type FeedOrder string

const (
	OrderPostTime      FeedOrder = "postTime"
	OrderEventTime     FeedOrder = "eventTime"
	OrderFollowerCount FeedOrder = "followerCount"
)

// ParseFeedOrder maps a request value onto a FeedOrder. Unknown values fall
// back to post time, the default feed ordering.
func ParseFeedOrder(s string) FeedOrder {
	switch FeedOrder(s) {
	case OrderPostTime, OrderEventTime, OrderFollowerCount:
		return FeedOrder(s)
	default:
		return OrderPostTime
	}
}

// Post represents a post or scheduled event in the feed. FollowerCount is
// denormalized and must always equal the cardinality of the post's follow
// relation.
type Post struct {
	ID             int64      `json:"id"`
	Category       string     `json:"category"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	AuthorID       int64      `json:"authorId"`
	AuthorUsername string     `json:"authorUsername"`
	CreatedAt      time.Time  `json:"createdAt"`
	EventTime      *time.Time `json:"eventTime,omitempty"`
	FollowerCount  int        `json:"followerCount"`
}
