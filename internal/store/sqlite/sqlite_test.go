package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/inkwell-db/inkwell/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), store.DefaultDBFile))
	require.NoError(t, s.Open(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInitCreatesSchema(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	state, err := s.CheckState(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.StateUninitialized, state)

	require.NoError(t, s.Init(ctx, false))

	state, err = s.CheckState(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.StateReady, state)

	users, posts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, users)
	assert.Zero(t, posts)

	// Exactly the two blog tables, nothing else.
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		tables = append(tables, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"post", "user"}, tables)
}

func TestInitRefusesPopulatedWithoutForce(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Init(ctx, false))

	_, _, err := s.SeedDemo(ctx)
	require.NoError(t, err)

	err = s.Init(ctx, false)
	require.ErrorIs(t, err, store.ErrPopulated)

	// The refused init must not have touched the rows.
	users, posts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, users)
	assert.EqualValues(t, 1, posts)

	// With force the reset goes through and discards everything.
	require.NoError(t, s.Init(ctx, true))
	users, posts, err = s.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, users)
	assert.Zero(t, posts)
}

func TestInitTwiceLeavesSameEmptySchema(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Init(ctx, false))
	require.NoError(t, s.Init(ctx, false))

	state, err := s.CheckState(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.StateReady, state)
}

func TestUsernameUnique(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Init(ctx, false))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user (username, password) VALUES (?, ?)`, "alice", "hash1")
	require.NoError(t, err)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user (username, password) VALUES (?, ?)`, "alice", "hash2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE")
}

func TestForeignKeyEnforced(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Init(ctx, false))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO post (author_id, title, body) VALUES (?, ?, ?)`, 42, "Hello", "World")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOREIGN KEY")
}

func TestDeleteAuthorWithPostsRestricted(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Init(ctx, false))

	user, _, err := s.SeedDemo(ctx)
	require.NoError(t, err)

	_, err = s.db.ExecContext(ctx, `DELETE FROM user WHERE id = ?`, user.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOREIGN KEY")
}

func TestCreatedDefaultsToInsertionTime(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Init(ctx, false))

	_, post, err := s.SeedDemo(ctx)
	require.NoError(t, err)

	// CURRENT_TIMESTAMP has second precision and is always UTC.
	assert.WithinDuration(t, time.Now().UTC(), post.Created, time.Minute)
}

func TestSeedDemoOnFreshStore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Init(ctx, false))

	user, post, err := s.SeedDemo(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, post)
	assert.False(t, post.Created.IsZero())
}

func TestHalfSchemaWithRowsReadsPopulated(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Init(ctx, false))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user (username, password) VALUES (?, ?)`, "alice", "hash1")
	require.NoError(t, err)
	_, err = s.db.ExecContext(ctx, `DROP TABLE post`)
	require.NoError(t, err)

	// The surviving user row must still block a plain init.
	state, err := s.CheckState(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.StatePopulated, state)

	err = s.Init(ctx, false)
	require.ErrorIs(t, err, store.ErrPopulated)

	require.NoError(t, s.Init(ctx, true))
	state, err = s.CheckState(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.StateReady, state)
}

func TestSeedDemoJoin(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Init(ctx, false))

	user, post, err := s.SeedDemo(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 1, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.EqualValues(t, 1, post.ID)
	assert.Equal(t, user.ID, post.AuthorID)

	var (
		postID   int64
		username string
		title    string
	)
	err = s.db.QueryRowContext(ctx,
		`SELECT p.id, u.username, p.title FROM post p JOIN user u ON p.author_id = u.id`,
	).Scan(&postID, &username, &title)
	require.NoError(t, err)
	assert.EqualValues(t, 1, postID)
	assert.Equal(t, "alice", username)
	assert.Equal(t, "Hello", title)
}

func TestUseBeforeOpen(t *testing.T) {
	ctx := context.Background()
	s := New(filepath.Join(t.TempDir(), store.DefaultDBFile))

	err := s.Init(ctx, false)
	require.True(t, errors.Is(err, store.ErrNotOpen))

	_, err = s.CheckState(ctx)
	require.True(t, errors.Is(err, store.ErrNotOpen))
}
