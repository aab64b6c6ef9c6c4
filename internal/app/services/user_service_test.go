package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dcanli/fieldside/internal/app/models"
	"github.com/dcanli/fieldside/internal/pkg/apperrors"
)

func TestGetProfile(t *testing.T) {
	users := newFakeUserRepo()
	posts := newFakePostRepo()
	follows := newFakeFollowRepo(posts)
	svc := NewUserService(users, posts, follows, zerolog.Nop())

	ctx := context.Background()
	viewer := users.add(&models.User{Username: "footballGuy"})
	other := users.add(&models.User{Username: "soccerLover"})

	own := posts.add(&models.Post{Category: "football", Title: "mine", AuthorID: viewer.ID, AuthorUsername: viewer.Username})
	followed := posts.add(&models.Post{Category: "soccer", Title: "theirs", AuthorID: other.ID, AuthorUsername: other.Username})
	posts.add(&models.Post{Category: "soccer", Title: "unrelated", AuthorID: other.ID, AuthorUsername: other.Username})

	follows.Insert(ctx, viewer.ID, followed.ID)

	profile, err := svc.GetProfile(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}

	if profile.User.Username != viewer.Username {
		t.Errorf("profile user = %q, want %q", profile.User.Username, viewer.Username)
	}

	if len(profile.Posts) != 1 || profile.Posts[0].Title != own.Title {
		t.Fatalf("own posts = %+v, want just %q", profile.Posts, own.Title)
	}
	if !profile.Posts[0].IsOwn {
		t.Error("own post not flagged IsOwn")
	}

	if len(profile.FollowedPosts) != 1 || profile.FollowedPosts[0].Title != followed.Title {
		t.Fatalf("followed posts = %+v, want just %q", profile.FollowedPosts, followed.Title)
	}
	if !profile.FollowedPosts[0].IsFollowing {
		t.Error("followed post not flagged IsFollowing")
	}
}

func TestGetProfileUnknownUser(t *testing.T) {
	users := newFakeUserRepo()
	posts := newFakePostRepo()
	follows := newFakeFollowRepo(posts)
	svc := NewUserService(users, posts, follows, zerolog.Nop())

	_, err := svc.GetProfile(context.Background(), 404)
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("GetProfile: got %v, want ErrUserNotFound", err)
	}
}
