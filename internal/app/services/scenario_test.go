package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dcanli/fieldside/internal/app/models"
	"github.com/dcanli/fieldside/internal/app/models/dto"
	"github.com/dcanli/fieldside/internal/pkg/auth"
)

// TestRegisterPostFollowLifecycle walks one user through the whole flow:
// register, publish a post, find it through the filtered feed, follow it,
// then unfollow it, checking the follower counter at each step.
func TestRegisterPostFollowLifecycle(t *testing.T) {
	users := newFakeUserRepo()
	posts := newFakePostRepo()
	follows := newFakeFollowRepo(posts)
	tokens := newFakeTokenRepo()

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "fieldside.test",
	})

	authService := NewAuthService(users, tokens, jwtService, nil, zerolog.Nop())
	feedService := NewFeedService(posts, follows, zerolog.Nop())
	followService := NewFollowService(follows, posts, FollowConfig{}, zerolog.Nop())

	ctx := context.Background()

	registered, err := authService.Register(ctx, &dto.RegisterRequest{Username: "bob", Password: "supersecret"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	bob := &models.User{ID: registered.User.ID, Username: registered.User.Username}

	post, err := feedService.CreatePost(ctx, bob, &dto.CreatePostRequest{
		Category: "soccer", Title: "Pickup", Body: "casual game after work",
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	category := "soccer"
	feed, err := feedService.GetFeed(ctx, models.OrderPostTime, &category, bob)
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}
	if len(feed.Posts) != 1 || feed.Posts[0].ID != post.ID {
		t.Fatalf("filtered feed = %+v, want exactly the created post", feed.Posts)
	}
	if !feed.Posts[0].IsOwn {
		t.Error("author's own post not flagged IsOwn")
	}

	if err := followService.Follow(ctx, bob.ID, post.ID); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	got, _ := posts.GetByID(ctx, post.ID)
	if got.FollowerCount != 1 {
		t.Errorf("follower count after follow = %d, want 1", got.FollowerCount)
	}

	if err := followService.Unfollow(ctx, bob.ID, post.ID); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}
	got, _ = posts.GetByID(ctx, post.ID)
	if got.FollowerCount != 0 {
		t.Errorf("follower count after unfollow = %d, want 0", got.FollowerCount)
	}
}
