package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dcanli/fieldside/internal/pkg/apperrors"
)

// FollowConfig carries the behavioral switches of the follow/like relation.
type FollowConfig struct {
	// AllowSelfLike permits users to like their own posts. Defaults to
	// false: authors are excluded from liking their own content.
	AllowSelfLike bool
}

// FollowService defines the interface for follow/like operations. Like is
// the same relation as Follow with the author-exclusion rule applied.
type FollowService interface {
	Follow(ctx context.Context, userID, postID int64) error
	Unfollow(ctx context.Context, userID, postID int64) error
	Like(ctx context.Context, userID, postID int64) error
	IsFollowing(ctx context.Context, userID, postID int64) (bool, error)
	ListFollowed(ctx context.Context, userID int64) ([]int64, error)
}

// followServiceImpl implements FollowService
type followServiceImpl struct {
	followRepo FollowRepository
	postRepo   PostRepository
	config     FollowConfig
	logger     zerolog.Logger
}

// NewFollowService creates a new FollowService
func NewFollowService(followRepo FollowRepository, postRepo PostRepository, config FollowConfig, logger zerolog.Logger) FollowService {
	return &followServiceImpl{
		followRepo: followRepo,
		postRepo:   postRepo,
		config:     config,
		logger:     logger,
	}
}

// Follow inserts (userID, postID) into the relation. Calling it again for
// the same pair changes nothing, including the follower counter.
func (s *followServiceImpl) Follow(ctx context.Context, userID, postID int64) error {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return err
	}

	inserted, err := s.followRepo.Insert(ctx, userID, postID)
	if err != nil {
		return err
	}

	if inserted {
		s.logger.Debug().Int64("userID", userID).Int64("postID", postID).Msg("Follow added")
	}

	return nil
}

// Unfollow removes (userID, postID) from the relation; a no-op when the
// pair is absent.
func (s *followServiceImpl) Unfollow(ctx context.Context, userID, postID int64) error {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return err
	}

	removed, err := s.followRepo.Remove(ctx, userID, postID)
	if err != nil {
		return err
	}

	if removed {
		s.logger.Debug().Int64("userID", userID).Int64("postID", postID).Msg("Follow removed")
	}

	return nil
}

// Like follows a post in like mode: unless AllowSelfLike is set, the
// post's author may not like their own post.
func (s *followServiceImpl) Like(ctx context.Context, userID, postID int64) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if !s.config.AllowSelfLike && post.AuthorID == userID {
		return apperrors.ErrSelfLikeNotAllowed
	}

	_, err = s.followRepo.Insert(ctx, userID, postID)
	return err
}

// IsFollowing checks relation membership
func (s *followServiceImpl) IsFollowing(ctx context.Context, userID, postID int64) (bool, error) {
	return s.followRepo.Exists(ctx, userID, postID)
}

// ListFollowed returns the ids of all posts the user follows
func (s *followServiceImpl) ListFollowed(ctx context.Context, userID int64) ([]int64, error) {
	return s.followRepo.PostIDsByUser(ctx, userID)
}
