package services

import (
	"context"
	"sort"
	"time"

	"github.com/dcanli/fieldside/internal/app/models"
	"github.com/dcanli/fieldside/internal/pkg/apperrors"
)

// In-memory repository fakes. They mirror the relational invariants the
// pgx-backed repositories enforce: unique (user, post) follow pairs, a
// follower counter that only moves when the relation actually changes, and
// not-found sentinels.

type fakePostRepo struct {
	posts  map[int64]*models.Post
	nextID int64
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[int64]*models.Post), nextID: 1}
}

func (r *fakePostRepo) add(post *models.Post) *models.Post {
	p := *post
	p.ID = r.nextID
	r.nextID++
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.posts[p.ID] = &p
	return &p
}

func (r *fakePostRepo) List(_ context.Context, order models.FeedOrder, category *string) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range r.posts {
		if category != nil && p.Category != *category {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch order {
		case models.OrderFollowerCount:
			if a.FollowerCount != b.FollowerCount {
				return a.FollowerCount > b.FollowerCount
			}
		case models.OrderEventTime:
			at, bt := a.EventTime, b.EventTime
			if at != nil && bt != nil && !at.Equal(*bt) {
				return at.After(*bt)
			}
			if (at == nil) != (bt == nil) {
				return at != nil
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (r *fakePostRepo) ListByAuthor(_ context.Context, authorID int64) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePostRepo) ListByIDs(_ context.Context, ids []int64) ([]*models.Post, error) {
	var out []*models.Post
	for _, id := range ids {
		if p, ok := r.posts[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id int64) (*models.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, apperrors.ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) Create(_ context.Context, post *models.Post) (int64, error) {
	created := r.add(post)
	post.ID = created.ID
	post.CreatedAt = created.CreatedAt
	return created.ID, nil
}

func (r *fakePostRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.posts[id]; !ok {
		return apperrors.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

type followPair struct {
	userID int64
	postID int64
}

type fakeFollowRepo struct {
	pairs map[followPair]bool
	posts *fakePostRepo
}

func newFakeFollowRepo(posts *fakePostRepo) *fakeFollowRepo {
	return &fakeFollowRepo{pairs: make(map[followPair]bool), posts: posts}
}

func (r *fakeFollowRepo) Insert(_ context.Context, userID, postID int64) (bool, error) {
	key := followPair{userID, postID}
	if r.pairs[key] {
		return false, nil
	}
	r.pairs[key] = true
	if p, ok := r.posts.posts[postID]; ok {
		p.FollowerCount++
	}
	return true, nil
}

func (r *fakeFollowRepo) Remove(_ context.Context, userID, postID int64) (bool, error) {
	key := followPair{userID, postID}
	if !r.pairs[key] {
		return false, nil
	}
	delete(r.pairs, key)
	if p, ok := r.posts.posts[postID]; ok && p.FollowerCount > 0 {
		p.FollowerCount--
	}
	return true, nil
}

func (r *fakeFollowRepo) Exists(_ context.Context, userID, postID int64) (bool, error) {
	return r.pairs[followPair{userID, postID}], nil
}

func (r *fakeFollowRepo) PostIDsByUser(_ context.Context, userID int64) ([]int64, error) {
	var ids []int64
	for pair := range r.pairs {
		if pair.userID == userID {
			ids = append(ids, pair.postID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User), nextID: 1}
}

func (r *fakeUserRepo) add(user *models.User) *models.User {
	u := *user
	u.ID = r.nextID
	r.nextID++
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	r.users[u.ID] = &u
	return &u
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) (int64, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return 0, apperrors.ErrUsernameAlreadyExists
		}
	}
	created := r.add(user)
	user.ID = created.ID
	user.CreatedAt = created.CreatedAt
	return created.ID, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) GetByExternalIdentityHash(_ context.Context, hash string) (*models.User, error) {
	for _, u := range r.users {
		if u.ExternalIdentityHash != nil && *u.ExternalIdentityHash == hash {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) UpdateAvatarRef(_ context.Context, userID int64, avatarRef string) error {
	u, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.AvatarRef = &avatarRef
	return nil
}

type fakeTokenRepo struct {
	tokens map[string]tokenRecord
}

type tokenRecord struct {
	userID  int64
	expiry  time.Time
	revoked bool
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]tokenRecord)}
}

func (r *fakeTokenRepo) CreateToken(_ context.Context, token string, userID int64, expiryDate time.Time) error {
	r.tokens[token] = tokenRecord{userID: userID, expiry: expiryDate}
	return nil
}

func (r *fakeTokenRepo) GetTokenUserID(_ context.Context, token string) (int64, error) {
	rec, ok := r.tokens[token]
	if !ok {
		return 0, apperrors.ErrTokenNotFound
	}
	if rec.revoked {
		return 0, apperrors.ErrTokenRevoked
	}
	if rec.expiry.Before(time.Now()) {
		return 0, apperrors.ErrTokenExpired
	}
	return rec.userID, nil
}

func (r *fakeTokenRepo) RevokeToken(_ context.Context, token string) error {
	rec, ok := r.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	rec.revoked = true
	r.tokens[token] = rec
	return nil
}
