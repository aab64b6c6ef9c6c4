package models

import "time"

// User represents a registered account. Local accounts carry a bcrypt
// password hash; OAuth-derived accounts carry the hashed provider subject
// instead.
type User struct {
	ID                   int64     `json:"id"`
	Username             string    `json:"username"`
	PasswordHash         *string   `json:"-"`
	ExternalIdentityHash *string   `json:"-"`
	AvatarRef            *string   `json:"avatarRef,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
}

// IsExternal reports whether the account was created through an OAuth provider.
func (u *User) IsExternal() bool {
	return u.ExternalIdentityHash != nil && *u.ExternalIdentityHash != ""
}
