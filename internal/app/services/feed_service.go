package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dcanli/fieldside/internal/app/models"
	"github.com/dcanli/fieldside/internal/app/models/dto"
	"github.com/dcanli/fieldside/internal/pkg/apperrors"
)

// FeedService defines the interface for feed operations
type FeedService interface {
	GetFeed(ctx context.Context, order models.FeedOrder, category *string, currentUser *models.User) (*dto.FeedResponse, error)
	CreatePost(ctx context.Context, currentUser *models.User, req *dto.CreatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, postID int64, currentUser *models.User) error
}

// feedServiceImpl implements FeedService
type feedServiceImpl struct {
	postRepo   PostRepository
	followRepo FollowRepository
	logger     zerolog.Logger
}

// NewFeedService creates a new FeedService
func NewFeedService(postRepo PostRepository, followRepo FollowRepository, logger zerolog.Logger) FeedService {
	return &feedServiceImpl{
		postRepo:   postRepo,
		followRepo: followRepo,
		logger:     logger,
	}
}

// GetFeed retrieves the ordered, optionally category-filtered feed. When a
// current user is present, each post is annotated with their follow state
// and ownership.
func (s *feedServiceImpl) GetFeed(ctx context.Context, order models.FeedOrder, category *string, currentUser *models.User) (*dto.FeedResponse, error) {
	posts, err := s.postRepo.List(ctx, order, category)
	if err != nil {
		return nil, err
	}

	var followed map[int64]bool
	if currentUser != nil {
		postIDs, err := s.followRepo.PostIDsByUser(ctx, currentUser.ID)
		if err != nil {
			// The feed is still renderable without follow annotations
			s.logger.Error().Err(err).Int64("userID", currentUser.ID).Msg("Failed to load followed posts for feed")
		} else {
			followed = make(map[int64]bool, len(postIDs))
			for _, id := range postIDs {
				followed[id] = true
			}
		}
	}

	response := &dto.FeedResponse{
		Posts: make([]dto.PostResponse, 0, len(posts)),
	}
	if currentUser != nil {
		user := dto.UserResponse{
			ID:        currentUser.ID,
			Username:  currentUser.Username,
			AvatarURL: "/avatar/" + currentUser.Username,
		}
		response.User = &user
	}

	for _, post := range posts {
		pr := dto.NewPostResponse(post)
		if currentUser != nil {
			pr.IsFollowing = followed[post.ID]
			pr.IsOwn = post.AuthorID == currentUser.ID
		}
		response.Posts = append(response.Posts, pr)
	}

	return response, nil
}

// CreatePost creates a post authored by the current user. An anonymous call
// is a silent no-op: no post is created and no error is returned, matching
// the feed-unchanged rendering contract.
func (s *feedServiceImpl) CreatePost(ctx context.Context, currentUser *models.User, req *dto.CreatePostRequest) (*models.Post, error) {
	if currentUser == nil {
		s.logger.Debug().Str("title", req.Title).Msg("Anonymous post creation ignored")
		return nil, nil
	}

	post := &models.Post{
		Category:       req.Category,
		Title:          req.Title,
		Body:           req.Body,
		AuthorID:       currentUser.ID,
		AuthorUsername: currentUser.Username,
		EventTime:      req.EventTime,
	}

	if _, err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("postID", post.ID).
		Str("author", currentUser.Username).
		Str("category", post.Category).
		Msg("Post created")

	return post, nil
}

// DeletePost removes a post. Only the author may delete it: anonymous
// callers get ErrUnauthorized, non-authors ErrPermissionDenied.
func (s *feedServiceImpl) DeletePost(ctx context.Context, postID int64, currentUser *models.User) error {
	if currentUser == nil {
		return apperrors.ErrUnauthorized
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != currentUser.ID {
		return apperrors.NewCustomError(apperrors.ErrPermissionDenied, "only the author can delete a post").
			WithDetails(map[string]interface{}{"postId": postID})
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	s.logger.Info().
		Int64("postID", postID).
		Str("author", currentUser.Username).
		Msg("Post deleted")

	return nil
}
