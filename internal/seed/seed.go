package seed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/dcanli/fieldside/internal/app/repositories"
)

type sampleUser struct {
	username   string
	identity   string
	memberDate time.Time
}

type samplePost struct {
	category  string
	title     string
	body      string
	author    string
	createdAt time.Time
	eventTime time.Time
}

var sampleUsers = []sampleUser{
	{username: "footballGuy", identity: "sample-google-id-1", memberDate: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
	{username: "soccerLover", identity: "sample-google-id-2", memberDate: time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)},
}

var samplePosts = []samplePost{
	{
		category:  "football",
		title:     "Football at the park!",
		body:      "We are doing a chill pickup game of football at the park. Anyone is welcome to join!",
		author:    "footballGuy",
		createdAt: time.Date(2024, 5, 5, 8, 30, 0, 0, time.UTC),
		eventTime: time.Date(2024, 6, 10, 12, 30, 0, 0, time.UTC),
	},
	{
		category:  "football",
		title:     "Pickup game at Russel",
		body:      "Need at least 12 players for a pickup game at russel. follow if interested.",
		author:    "footballGuy",
		createdAt: time.Date(2024, 4, 5, 16, 40, 0, 0, time.UTC),
		eventTime: time.Date(2024, 8, 10, 12, 30, 0, 0, time.UTC),
	},
	{
		category:  "soccer",
		title:     "Chill soccer game!",
		body:      "Join us for a chill game of soccer at the park!",
		author:    "soccerLover",
		createdAt: time.Date(2024, 5, 5, 18, 30, 0, 0, time.UTC),
		eventTime: time.Date(2024, 6, 10, 8, 30, 0, 0, time.UTC),
	},
	{
		category:  "soccer",
		title:     "Soccer game at Russel",
		body:      "Come watch us play at russel field facing our biggest rivals!",
		author:    "soccerLover",
		createdAt: time.Date(2024, 6, 5, 10, 30, 0, 0, time.UTC),
		eventTime: time.Date(2024, 11, 10, 15, 30, 0, 0, time.UTC),
	},
}

// CreateSampleData populates an empty database with two demo accounts and a
// handful of pickup-game posts. A database that already has users is left
// untouched.
func CreateSampleData(ctx context.Context, pool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(pool)

	count, err := userRepo.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		lgr.Debug().Int64("users", count).Msg("Database already populated, skipping sample data")
		return nil
	}

	lgr.Info().Msg("Seeding sample data")

	userIDs := make(map[string]int64, len(sampleUsers))
	for _, u := range sampleUsers {
		sum := sha256.Sum256([]byte(u.identity))
		identityHash := hex.EncodeToString(sum[:])

		var id int64
		err := pool.QueryRow(ctx,
			`INSERT INTO users (username, external_identity_hash, created_at) VALUES ($1, $2, $3) RETURNING id`,
			u.username, identityHash, u.memberDate).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.username, err)
		}
		userIDs[u.username] = id
	}

	for _, p := range samplePosts {
		_, err := pool.Exec(ctx,
			`INSERT INTO posts (category, title, body, author_id, author_username, created_at, event_time)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.category, p.title, p.body, userIDs[p.author], p.author, p.createdAt, p.eventTime)
		if err != nil {
			return fmt.Errorf("failed to seed post %q: %w", p.title, err)
		}
	}

	lgr.Info().Int("users", len(sampleUsers)).Int("posts", len(samplePosts)).Msg("Sample data seeded")
	return nil
}
