package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dcanli/fieldside/internal/app/models"
	"github.com/dcanli/fieldside/internal/pkg/apperrors"
)

func newFollowFixture(cfg FollowConfig) (FollowService, *fakePostRepo, *fakeFollowRepo) {
	posts := newFakePostRepo()
	follows := newFakeFollowRepo(posts)
	svc := NewFollowService(follows, posts, cfg, zerolog.Nop())
	return svc, posts, follows
}

func TestFollowIsIdempotent(t *testing.T) {
	svc, posts, _ := newFollowFixture(FollowConfig{})
	post := posts.add(&models.Post{Category: "soccer", Title: "Pickup game", AuthorID: 1})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := svc.Follow(ctx, 2, post.ID); err != nil {
			t.Fatalf("Follow attempt %d: unexpected error %v", i+1, err)
		}
	}

	got, _ := posts.GetByID(ctx, post.ID)
	if got.FollowerCount != 1 {
		t.Errorf("follower count after repeated follows = %d, want 1", got.FollowerCount)
	}

	following, err := svc.IsFollowing(ctx, 2, post.ID)
	if err != nil {
		t.Fatalf("IsFollowing: %v", err)
	}
	if !following {
		t.Error("IsFollowing = false after Follow")
	}
}

func TestFollowUnknownPost(t *testing.T) {
	svc, _, _ := newFollowFixture(FollowConfig{})

	err := svc.Follow(context.Background(), 1, 42)
	if !errors.Is(err, apperrors.ErrPostNotFound) {
		t.Errorf("Follow on missing post: got %v, want ErrPostNotFound", err)
	}
}

func TestUnfollowAbsentPairIsNoOp(t *testing.T) {
	svc, posts, _ := newFollowFixture(FollowConfig{})
	post := posts.add(&models.Post{Category: "football", Title: "Scrimmage", AuthorID: 1})

	ctx := context.Background()
	if err := svc.Unfollow(ctx, 2, post.ID); err != nil {
		t.Fatalf("Unfollow absent pair: unexpected error %v", err)
	}

	got, _ := posts.GetByID(ctx, post.ID)
	if got.FollowerCount != 0 {
		t.Errorf("follower count after no-op unfollow = %d, want 0", got.FollowerCount)
	}
}

func TestFollowUnfollowRoundTrip(t *testing.T) {
	svc, posts, _ := newFollowFixture(FollowConfig{})
	post := posts.add(&models.Post{Category: "tennis", Title: "Doubles", AuthorID: 1})

	ctx := context.Background()
	if err := svc.Follow(ctx, 2, post.ID); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if err := svc.Unfollow(ctx, 2, post.ID); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}

	got, _ := posts.GetByID(ctx, post.ID)
	if got.FollowerCount != 0 {
		t.Errorf("follower count after round trip = %d, want 0", got.FollowerCount)
	}

	following, _ := svc.IsFollowing(ctx, 2, post.ID)
	if following {
		t.Error("IsFollowing = true after Unfollow")
	}
}

func TestLikeOwnPost(t *testing.T) {
	tests := []struct {
		name          string
		allowSelfLike bool
		userID        int64
		wantErr       error
		wantFollowers int
	}{
		{name: "author blocked by default", userID: 1, wantErr: apperrors.ErrSelfLikeNotAllowed},
		{name: "author allowed when enabled", allowSelfLike: true, userID: 1, wantFollowers: 1},
		{name: "other user always allowed", userID: 2, wantFollowers: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, posts, _ := newFollowFixture(FollowConfig{AllowSelfLike: tt.allowSelfLike})
			post := posts.add(&models.Post{Category: "soccer", Title: "Derby", AuthorID: 1})

			ctx := context.Background()
			err := svc.Like(ctx, tt.userID, post.ID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Like: got error %v, want %v", err, tt.wantErr)
			}

			got, _ := posts.GetByID(ctx, post.ID)
			if got.FollowerCount != tt.wantFollowers {
				t.Errorf("follower count = %d, want %d", got.FollowerCount, tt.wantFollowers)
			}
		})
	}
}

func TestListFollowed(t *testing.T) {
	svc, posts, _ := newFollowFixture(FollowConfig{})
	first := posts.add(&models.Post{Category: "soccer", Title: "One", AuthorID: 1})
	second := posts.add(&models.Post{Category: "soccer", Title: "Two", AuthorID: 1})
	posts.add(&models.Post{Category: "soccer", Title: "Three", AuthorID: 1})

	ctx := context.Background()
	if err := svc.Follow(ctx, 2, second.ID); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if err := svc.Follow(ctx, 2, first.ID); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	ids, err := svc.ListFollowed(ctx, 2)
	if err != nil {
		t.Fatalf("ListFollowed: %v", err)
	}
	if len(ids) != 2 || ids[0] != first.ID || ids[1] != second.ID {
		t.Errorf("ListFollowed = %v, want [%d %d]", ids, first.ID, second.ID)
	}
}
