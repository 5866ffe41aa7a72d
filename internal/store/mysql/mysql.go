package mysql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/inkwell-db/inkwell/internal/models"
	"github.com/inkwell-db/inkwell/internal/store"
)

// MySQL refuses a UNIQUE index on an unbounded TEXT column, so
// username is VARCHAR here; everything else matches the other dialects
// column for column.
var schemaStatements = []string{
	`DROP TABLE IF EXISTS post`,
	`DROP TABLE IF EXISTS user`,
	`CREATE TABLE user (
    id INTEGER PRIMARY KEY AUTO_INCREMENT,
    username VARCHAR(255) UNIQUE NOT NULL,
    password TEXT NOT NULL
) ENGINE=InnoDB`,
	`CREATE TABLE post (
    id INTEGER PRIMARY KEY AUTO_INCREMENT,
    author_id INTEGER NOT NULL,
    created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    FOREIGN KEY (author_id) REFERENCES user (id) ON DELETE RESTRICT
) ENGINE=InnoDB`,
}

// MySQLStore implements the Store interface using go-sql-driver/mysql.
// MySQL auto-commits every DDL statement, so Init runs statement by
// statement rather than inside a transaction. A server-backed database
// is never "missing": CheckState starts at StateUninitialized.
type MySQLStore struct {
	dsn string
	db  *sql.DB
}

// New creates a new MySQLStore for the given DSN. The DSN must carry
// parseTime=true for timestamp scanning.
func New(dsn string) *MySQLStore {
	return &MySQLStore{dsn: dsn}
}

// Open opens the connection and verifies the server is reachable.
func (s *MySQLStore) Open(ctx context.Context) error {
	db, err := sql.Open("mysql", s.dsn)
	if err != nil {
		return &store.ConnectError{Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return &store.ConnectError{Err: err}
	}
	s.db = db
	return nil
}

// Close closes the database connection.
func (s *MySQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Init drops and recreates the user and post tables.
func (s *MySQLStore) Init(ctx context.Context, force bool) error {
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

	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return &store.SchemaError{Stmt: stmt, Err: err}
		}
	}

	return nil
}

// CheckState returns the current state of the datastore. Rows in
// either table read as populated even when the other table is missing,
// so a plain Init can never destroy them.
func (s *MySQLStore) CheckState(ctx context.Context) (store.State, error) {
	if s.db == nil {
		return store.StateMissing, store.ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = DATABASE() AND table_name IN ('user', 'post')`)
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
func (s *MySQLStore) Counts(ctx context.Context) (int64, int64, error) {
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
func (s *MySQLStore) SeedDemo(ctx context.Context) (*models.User, *models.Post, error) {
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

	if err := s.db.QueryRowContext(ctx,
		`SELECT created FROM post WHERE id = ?`, post.ID,
	).Scan(&post.Created); err != nil {
		return nil, nil, fmt.Errorf("failed to read post timestamp: %w", err)
	}

	return user, post, nil
}
