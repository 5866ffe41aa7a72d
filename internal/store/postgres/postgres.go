package postgres

import (
	"context"
	"fmt"

	"github.com/inkwell-db/inkwell/internal/models"
	"github.com/inkwell-db/inkwell/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
)

// user is a reserved word in PostgreSQL, so it stays quoted throughout.
var schemaStatements = []string{
	`DROP TABLE IF EXISTS post`,
	`DROP TABLE IF EXISTS "user"`,
	`CREATE TABLE "user" (
    id SERIAL PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    password TEXT NOT NULL
)`,
	`CREATE TABLE post (
    id SERIAL PRIMARY KEY,
    author_id INTEGER NOT NULL REFERENCES "user" (id) ON DELETE RESTRICT,
    created TIMESTAMP NOT NULL DEFAULT NOW(),
    title TEXT NOT NULL,
    body TEXT NOT NULL
)`,
}

// PostgresStore implements the Store interface over a pgx pool.
// A server-backed database is never "missing": CheckState starts at
// StateUninitialized.
type PostgresStore struct {
	dsn  string
	pool *pgxpool.Pool
}

// New creates a new PostgresStore for the given DSN.
func New(dsn string) *PostgresStore {
	return &PostgresStore{dsn: dsn}
}

// Open connects the pool and verifies the server is reachable.
func (s *PostgresStore) Open(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, s.dsn)
	if err != nil {
		return &store.ConnectError{Err: err}
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return &store.ConnectError{Err: err}
	}
	s.pool = pool
	return nil
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Init drops and recreates the user and post tables in one transaction.
func (s *PostgresStore) Init(ctx context.Context, force bool) error {
	if s.pool == nil {
		return store.ErrNotOpen
	}

	state, err := s.CheckState(ctx)
	if err != nil {
		return err
	}
	if state == store.StatePopulated && !force {
		return store.ErrPopulated
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range schemaStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return &store.SchemaError{Stmt: stmt, Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CheckState returns the current state of the datastore. Rows in
// either table read as populated even when the other table is missing,
// so a plain Init can never destroy them.
func (s *PostgresStore) CheckState(ctx context.Context) (store.State, error) {
	if s.pool == nil {
		return store.StateMissing, store.ErrNotOpen
	}

	rows, err := s.pool.Query(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = 'public' AND table_name IN ('user', 'post')`)
	if err != nil {
		return store.StateUninitialized, fmt.Errorf("failed to check tables: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return store.StateUninitialized, fmt.Errorf("failed to check tables: %w", err)
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return store.StateUninitialized, fmt.Errorf("failed to check tables: %w", err)
	}

	tables := []struct{ name, ident string }{
		{"user", `"user"`},
		{"post", `post`},
	}
	var total int64
	for _, tbl := range tables {
		if !present[tbl.name] {
			continue
		}
		var n int64
		if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+tbl.ident).Scan(&n); err != nil {
			return store.StateUninitialized, fmt.Errorf("failed to count %s rows: %w", tbl.name, err)
		}
		total += n
	}

	if total > 0 {
		return store.StatePopulated, nil
	}
	if len(present) < 2 {
		return store.StateUninitialized, nil
	}
	return store.StateReady, nil
}

// Counts returns the number of rows in the user and post tables.
func (s *PostgresStore) Counts(ctx context.Context) (int64, int64, error) {
	if s.pool == nil {
		return 0, 0, store.ErrNotOpen
	}

	var users, posts int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM "user"`).Scan(&users); err != nil {
		return 0, 0, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM post`).Scan(&posts); err != nil {
		return 0, 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return users, posts, nil
}

// SeedDemo inserts one example user and one post by that user.
func (s *PostgresStore) SeedDemo(ctx context.Context) (*models.User, *models.Post, error) {
	if s.pool == nil {
		return nil, nil, store.ErrNotOpen
	}

	user := &models.User{Username: "alice", Password: "hash1"}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO "user" (username, password) VALUES ($1, $2) RETURNING id`,
		user.Username, user.Password,
	).Scan(&user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert user: %w", err)
	}

	post := &models.Post{AuthorID: user.ID, Title: "Hello", Body: "World"}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO post (author_id, title, body) VALUES ($1, $2, $3) RETURNING id, created`,
		post.AuthorID, post.Title, post.Body,
	).Scan(&post.ID, &post.Created)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert post: %w", err)
	}

	return user, post, nil
}
