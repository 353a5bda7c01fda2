package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			visibility TEXT NOT NULL DEFAULT 'public' CHECK (visibility IN ('public','private')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
		`CREATE TABLE IF NOT EXISTS friend_requests (
			id BIGSERIAL PRIMARY KEY,
			from_user_id BIGINT NOT NULL,
			to_user_id BIGINT NOT NULL,
			status TEXT NOT NULL CHECK (status IN ('pending','accepted','rejected')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
		// At most one active request per unordered pair, regardless of
		// direction. Races on simultaneous sends collapse to a benign
		// unique violation.
		`CREATE UNIQUE INDEX IF NOT EXISTS friend_requests_active_pair
			ON friend_requests (LEAST(from_user_id, to_user_id), GREATEST(from_user_id, to_user_id))
			WHERE status = 'pending'`,
		`CREATE TABLE IF NOT EXISTS friendships (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			friend_id BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, friend_id)
			)`,
		`CREATE TABLE IF NOT EXISTS groups (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			creator_id BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
		`CREATE TABLE IF NOT EXISTS group_members (
			group_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			role TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('member','admin')),
			joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (group_id, user_id)
			)`,
		`CREATE TABLE IF NOT EXISTS dating_decisions (
			actor_id BIGINT NOT NULL,
			target_id BIGINT NOT NULL,
			liked BOOLEAN NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (actor_id, target_id)
			)`,
		`CREATE INDEX IF NOT EXISTS dating_decisions_liked_me
			ON dating_decisions (target_id, liked, updated_at DESC, actor_id)`,
		`CREATE TABLE IF NOT EXISTS dating_matches (
			id BIGSERIAL PRIMARY KEY,
			user_a_id BIGINT NOT NULL,
			user_b_id BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (user_a_id < user_b_id),
			UNIQUE (user_a_id, user_b_id)
			)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id BIGSERIAL PRIMARY KEY,
			author_id BIGINT NOT NULL,
			wall_owner_id BIGINT NOT NULL,
			body TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
		`CREATE INDEX IF NOT EXISTS posts_wall_owner_created
			ON posts (wall_owner_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id BIGSERIAL PRIMARY KEY,
			user_a_id BIGINT NOT NULL,
			user_b_id BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (user_a_id < user_b_id),
			UNIQUE (user_a_id, user_b_id)
			)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id BIGSERIAL PRIMARY KEY,
			conversation_id BIGINT NOT NULL REFERENCES conversations(id),
			sender_id BIGINT NOT NULL,
			body TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
		`CREATE INDEX IF NOT EXISTS messages_conversation_created
			ON messages (conversation_id, created_at)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
