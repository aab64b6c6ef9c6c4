package services

import (
	"context"
	"time"

	"github.com/dcanli/fieldside/internal/app/models"
)

// The repository interfaces below are what the services actually consume.
// The concrete pgx-backed repositories satisfy them; tests substitute
// in-memory fakes so the feed and follow logic runs without a database.

// UserRepository is the user store surface used by services
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByExternalIdentityHash(ctx context.Context, hash string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateAvatarRef(ctx context.Context, userID int64, avatarRef string) error
}

// PostRepository is the post store surface used by services
type PostRepository interface {
	List(ctx context.Context, order models.FeedOrder, category *string) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]*models.Post, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*models.Post, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// FollowRepository is the follow relation surface used by services. Insert
// and Remove are atomic: membership mutation and counter update commit
// together, and both report whether the relation actually changed.
type FollowRepository interface {
	Insert(ctx context.Context, userID, postID int64) (bool, error)
	Remove(ctx context.Context, userID, postID int64) (bool, error)
	Exists(ctx context.Context, userID, postID int64) (bool, error)
	PostIDsByUser(ctx context.Context, userID int64) ([]int64, error)
}

// TokenRepository is the refresh token store surface used by services
type TokenRepository interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetTokenUserID(ctx context.Context, token string) (int64, error)
	RevokeToken(ctx context.Context, token string) error
}
