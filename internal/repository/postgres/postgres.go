// Package postgres stores users, jobs and applications in PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-jobboard-backend/internal/domain"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                  TEXT PRIMARY KEY,
		name                TEXT NOT NULL,
		email               TEXT NOT NULL UNIQUE,
		password_hash       TEXT NOT NULL,
		role                TEXT NOT NULL,
		applications        TEXT[] NOT NULL DEFAULT '{}',
		phone               TEXT NOT NULL DEFAULT '',
		bio                 TEXT NOT NULL DEFAULT '',
		skills              TEXT[] NOT NULL DEFAULT '{}',
		education           JSONB NOT NULL DEFAULT '[]',
		work_experience     JSONB NOT NULL DEFAULT '[]',
		resume              TEXT NOT NULL DEFAULT '',
		company_name        TEXT NOT NULL DEFAULT '',
		company_website     TEXT NOT NULL DEFAULT '',
		company_description TEXT NOT NULL DEFAULT '',
		company_logo        TEXT NOT NULL DEFAULT '',
		created_at          TIMESTAMPTZ NOT NULL,
		updated_at          TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id               TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		description      TEXT NOT NULL,
		company          TEXT NOT NULL,
		location         TEXT NOT NULL,
		salary           TEXT NOT NULL,
		experience       TEXT NOT NULL,
		type             TEXT NOT NULL,
		requirements     TEXT[] NOT NULL DEFAULT '{}',
		recruiter_id     TEXT NOT NULL REFERENCES users(id),
		applications     TEXT[] NOT NULL DEFAULT '{}',
		salary_range     JSONB,
		experience_range JSONB,
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_recruiter ON jobs (recruiter_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS applications (
		id           TEXT PRIMARY KEY,
		job_id       TEXT NOT NULL,
		applicant_id TEXT NOT NULL REFERENCES users(id),
		recruiter_id TEXT NOT NULL REFERENCES users(id),
		status       TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL,
		UNIQUE (job_id, applicant_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_recruiter ON applications (recruiter_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_applicant ON applications (applicant_id, created_at DESC)`,
}

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Pinger reports whether the pool can reach the server.
type Pinger struct {
	db *pgxpool.Pool
}

func NewPinger(db *pgxpool.Pool) *Pinger {
	return &Pinger{db: db}
}

func (p *Pinger) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func newID() string {
	return uuid.NewString()
}

// translate maps driver errors onto domain errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return domain.ErrDuplicate
	}
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
