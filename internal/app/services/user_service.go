package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dcanli/fieldside/internal/app/models/dto"
)

// UserService defines the interface for profile operations
type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error)
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo   UserRepository
	postRepo   PostRepository
	followRepo FollowRepository
	logger     zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo UserRepository, postRepo PostRepository, followRepo FollowRepository, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		userRepo:   userRepo,
		postRepo:   postRepo,
		followRepo: followRepo,
		logger:     logger,
	}
}

// GetProfile returns the profile view data: the user's record, their own
// posts and the posts they follow.
func (s *userServiceImpl) GetProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ownPosts, err := s.postRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	followedIDs, err := s.followRepo.PostIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	followedPosts, err := s.postRepo.ListByIDs(ctx, followedIDs)
	if err != nil {
		return nil, err
	}

	response := &dto.ProfileResponse{
		User:          dto.NewUserResponse(user),
		Posts:         make([]dto.PostResponse, 0, len(ownPosts)),
		FollowedPosts: make([]dto.PostResponse, 0, len(followedPosts)),
	}

	for _, post := range ownPosts {
		pr := dto.NewPostResponse(post)
		pr.IsOwn = true
		response.Posts = append(response.Posts, pr)
	}

	for _, post := range followedPosts {
		pr := dto.NewPostResponse(post)
		pr.IsFollowing = true
		pr.IsOwn = post.AuthorID == userID
		response.FollowedPosts = append(response.FollowedPosts, pr)
	}

	return response, nil
}
