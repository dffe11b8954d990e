package roles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a role id has no stored profile.
var ErrNotFound = errors.New("role not found")

// Store keeps role profiles in a SQLite database. Single-operator
// semantics: no concurrent-writer conflict resolution.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open roles db %q: %w", path, err)
	}

	store := &Store{db: db}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS roles (
	id TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	extra_instructions TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`)
	if err != nil {
		return fmt.Errorf("migrate roles schema: %w", err)
	}
	return nil
}

// Upsert creates or replaces the profile keyed by its id.
func (s *Store) Upsert(ctx context.Context, profile *Profile) error {
	if profile == nil {
		return errors.New("profile is required")
	}

	id := strings.TrimSpace(profile.ID)
	description := strings.TrimSpace(profile.Description)
	if id == "" || description == "" {
		return errors.New("role id and description are required")
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO roles (id, description, extra_instructions, updated_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET
	description = excluded.description,
	extra_instructions = excluded.extra_instructions,
	updated_at = CURRENT_TIMESTAMP`,
		id, description, strings.TrimSpace(profile.ExtraInstructions),
	)
	if err != nil {
		return fmt.Errorf("upsert role %q: %w", id, err)
	}

	return nil
}

// Get returns the profile for the given role id.
func (s *Store) Get(ctx context.Context, id string) (*Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, description, extra_instructions FROM roles WHERE id = ?`, id)

	var profile Profile
	switch err := row.Scan(&profile.ID, &profile.Description, &profile.ExtraInstructions); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("role %q: %w", id, ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("get role %q: %w", id, err)
	}

	return &profile, nil
}

// List returns all stored profiles ordered by id.
func (s *Store) List(ctx context.Context) ([]*Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, extra_instructions FROM roles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		var profile Profile
		if err := rows.Scan(&profile.ID, &profile.Description, &profile.ExtraInstructions); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		profiles = append(profiles, &profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	return profiles, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
