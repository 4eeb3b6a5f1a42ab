package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
)

type Store struct {
	DB     *sql.DB
	RDB    *redis.Client
	Ctx    context.Context
	logger *slog.Logger
}

func NewStore(ctx context.Context, pgConnStr, redisURL string, logger *slog.Logger) (*Store, error) {
	var db *sql.DB
	var err error

	// Retry Postgres connection 5 times
	for i := 0; i < 5; i++ {
		db, err = sql.Open("postgres", pgConnStr)
		if err == nil {
			err = db.Ping()
			if err == nil {
				logger.Info("PostgreSQL connection successful", "attempt", i+1)
				break
			}
		}
		logger.Warn("Waiting for PostgreSQL...", "attempt", i+1, "max_attempts", 5, "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL", "error", err)
		return nil, fmt.Errorf("postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	rdb, err := InitRedis(redisURL)
	if err != nil {
		logger.Error("Failed to configure Redis", "error", err)
		return nil, err
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to ping Redis", "error", err)
		return nil, fmt.Errorf("redis: %w", err)
	}

	logger.Info("Successfully connected to PostgreSQL and Redis")

	return &Store{
		DB:     db,
		RDB:    rdb,
		Ctx:    ctx,
		logger: logger,
	}, nil
}

func (s *Store) InitSchema() error {
	s.logger.Info("Initializing database schema")

	schema := `
		-- Users table: profile plus the redundant relationship code arrays
		CREATE TABLE IF NOT EXISTS users (
			code VARCHAR(4) PRIMARY KEY,
			username VARCHAR(100) NOT NULL,
			profile_picture TEXT DEFAULT '',
			password_hash TEXT DEFAULT '',
			contacts TEXT[] NOT NULL DEFAULT '{}',
			pending TEXT[] NOT NULL DEFAULT '{}',
			requests TEXT[] NOT NULL DEFAULT '{}',
			groups TEXT[] NOT NULL DEFAULT '{}',
			is_online BOOLEAN DEFAULT FALSE,
			last_seen TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			last_used_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			device_id TEXT,
			is_device_locked BOOLEAN DEFAULT FALSE,
			is_admin BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_users_device_id ON users(device_id);
		CREATE INDEX IF NOT EXISTS idx_users_last_used_at ON users(last_used_at);

		-- Groups table
		CREATE TABLE IF NOT EXISTS groups (
			code VARCHAR(4) PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			icon TEXT DEFAULT '',
			members TEXT[] NOT NULL DEFAULT '{}',
			admins TEXT[] NOT NULL DEFAULT '{}',
			muted TEXT[] NOT NULL DEFAULT '{}',
			banned TEXT[] NOT NULL DEFAULT '{}',
			join_disabled BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_groups_name ON groups(name);

		-- Messages: exactly one of receiver_code / group_code is set
		CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY,
			sender_code VARCHAR(4) NOT NULL,
			receiver_code VARCHAR(4),
			group_code VARCHAR(4),
			content TEXT NOT NULL,
			type VARCHAR(10) DEFAULT 'text'
				CHECK (type IN ('text', 'image', 'video', 'audio', 'document', 'archive', 'other')),
			file_name TEXT,
			caption TEXT,
			reply_to UUID,
			deleted BOOLEAN DEFAULT FALSE,
			sent_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			CHECK ((receiver_code IS NULL) <> (group_code IS NULL))
		);

		CREATE INDEX IF NOT EXISTS idx_messages_direct
			ON messages(sender_code, receiver_code, sent_at);
		CREATE INDEX IF NOT EXISTS idx_messages_group
			ON messages(group_code, sent_at);

		-- Trigger for updated_at
		CREATE OR REPLACE FUNCTION update_updated_at_column()
		RETURNS TRIGGER AS $$
		BEGIN
			NEW.updated_at = CURRENT_TIMESTAMP;
			RETURN NEW;
		END;
		$$ language 'plpgsql';

		DROP TRIGGER IF EXISTS update_users_updated_at ON users;
		CREATE TRIGGER update_users_updated_at
			BEFORE UPDATE ON users
			FOR EACH ROW
			EXECUTE FUNCTION update_updated_at_column();

		DROP TRIGGER IF EXISTS update_groups_updated_at ON groups;
		CREATE TRIGGER update_groups_updated_at
			BEFORE UPDATE ON groups
			FOR EACH ROW
			EXECUTE FUNCTION update_updated_at_column();
	`

	if _, err := s.DB.Exec(schema); err != nil {
		s.logger.Error("Failed to initialize schema", "error", err)
		return err
	}

	s.logger.Info("Database schema initialized successfully")
	return nil
}

func (s *Store) Close() error {
	s.logger.Info("Closing store connections")

	var errs []error
	if err := s.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("postgres close error: %w", err))
	}
	if err := s.RDB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("redis close error: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing store: %v", errs)
	}
	return nil
}

// StartCleanupWorker periodically deletes profiles that have not been used
// for maxAge and have no contacts and no groups. Admin profiles are kept.
func (s *Store) StartCleanupWorker(interval, maxAge time.Duration) {
	s.logger.Info("Starting cleanup worker", "interval", interval, "max_age", maxAge)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		result, err := s.DB.Exec(`
			DELETE FROM users
			WHERE last_used_at < NOW() - ($1 * INTERVAL '1 second')
			AND contacts = '{}'
			AND groups = '{}'
			AND is_admin = FALSE
		`, int64(maxAge.Seconds()))
		if err != nil {
			s.logger.Error("Error cleaning up stale profiles", "error", err)
			continue
		}
		rows, _ := result.RowsAffected()
		if rows > 0 {
			s.logger.Info("Cleaned up stale profiles", "deleted_rows", rows)
		}
	}
}
