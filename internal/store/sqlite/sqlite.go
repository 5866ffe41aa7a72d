package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkwell-db/inkwell/internal/models"
	"github.com/inkwell-db/inkwell/internal/store"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using modernc.org/sqlite.
type SQLiteStore struct {
	dbPath string
	db     *sql.DB
}

// New creates a new SQLiteStore for the database file at dbPath.
func New(dbPath string) *SQLiteStore {
	return &SQLiteStore{
		dbPath: dbPath,
	}
}

// Open opens the SQLite database with safe defaults.
func (s *SQLiteStore) Open(ctx context.Context) error {
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return &store.ConnectError{Err: err}
	}

	// Pragmas are per-connection; pin the pool to one so they hold.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return &store.ConnectError{Err: fmt.Errorf("set pragma %q: %w", pragma, err)}
		}
	}

	s.db = db
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Init drops and recreates the user and post tables in one transaction.
// Any rows in either table are lost; a populated database is refused
// unless force is set.
func (s *SQLiteStore) Init(ctx context.Context, force bool) error {
	if s.db == nil {
		return store.ErrNotOpen
	}

	state, err := s.CheckState(ctx)
	if err != nil {
		return err
	}
	if state == store.StatePopulated && !force {
		return store.ErrPopulated
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return &store.SchemaError{Stmt: stmt, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CheckState returns the current state of the datastore. Rows in
// either table read as populated even when the other table is missing,
// so a plain Init can never destroy them.
func (s *SQLiteStore) CheckState(ctx context.Context) (store.State, error) {
	if s.db == nil {
		return store.StateMissing, store.ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('user', 'post')`)
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

	var total int64
	for _, name := range []string{"user", "post"} {
		if !present[name] {
			continue
		}
		var n int64
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+name).Scan(&n); err != nil {
			return store.StateUninitialized, fmt.Errorf("failed to count %s rows: %w", name, err)
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
func (s *SQLiteStore) Counts(ctx context.Context) (int64, int64, error) {
	if s.db == nil {
		return 0, 0, store.ErrNotOpen
	}

	var users, posts int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user`).Scan(&users); err != nil {
		return 0, 0, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM post`).Scan(&posts); err != nil {
		return 0, 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return users, posts, nil
}

// SeedDemo inserts one example user and one post by that user.
func (s *SQLiteStore) SeedDemo(ctx context.Context) (*models.User, *models.Post, error) {
	if s.db == nil {
		return nil, nil, store.ErrNotOpen
	}

	user := &models.User{Username: "alice", Password: "hash1"}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO user (username, password) VALUES (?, ?)`,
		user.Username, user.Password,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert user: %w", err)
	}
	user.ID, err = res.LastInsertId()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read user id: %w", err)
	}

	post := &models.Post{AuthorID: user.ID, Title: "Hello", Body: "World"}
	res, err = s.db.ExecContext(ctx,
		`INSERT INTO post (author_id, title, body) VALUES (?, ?, ?)`,
		post.AuthorID, post.Title, post.Body,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert post: %w", err)
	}
	post.ID, err = res.LastInsertId()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read post id: %w", err)
	}

	// The column is declared TIMESTAMP, so the driver hands back a
	// time.Time; scan it directly.
	err = s.db.QueryRowContext(ctx,
		`SELECT p.created FROM post p JOIN user u ON p.author_id = u.id WHERE p.id = ?`,
		post.ID,
	).Scan(&post.Created)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read post timestamp: %w", err)
	}

	return user, post, nil
}
