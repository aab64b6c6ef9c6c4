package repositories

import (
	"github.com/dcanli/fieldside/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository   *UserRepository
	PostRepository   *PostRepository
	FollowRepository *FollowRepository
	TokenRepository  *TokenRepository
}

// NewRepositories creates all repositories sharing one database handle
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:   NewUserRepository(database.Pool),
		PostRepository:   NewPostRepository(database.Pool),
		FollowRepository: NewFollowRepository(database),
		TokenRepository:  NewTokenRepository(database.Pool),
	}
}
