package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/inkwell-db/inkwell/internal/config"
	"github.com/inkwell-db/inkwell/internal/logger"
	"github.com/inkwell-db/inkwell/internal/store"
	"github.com/inkwell-db/inkwell/internal/store/mysql"
	"github.com/inkwell-db/inkwell/internal/store/postgres"
	"github.com/inkwell-db/inkwell/internal/store/sqlite"
	"github.com/maloquacious/semver"
	"github.com/spf13/cobra"
)

var version = semver.Version{Minor: 1, PreRelease: "alpha", Build: semver.Commit()}

var (
	engine string
	dbPath string
	force  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "inkwell",
		Short:   "Blog database schema management CLI",
		Version: version.String(),
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&engine, "engine", "sqlite", "database engine (sqlite, postgres, mysql)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database file (default $INKWELL_DB or ./inkwell.db)")

	// db command group
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	dbInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Drop and recreate the blog schema",
		Long: "Drops the user and post tables if present and recreates them empty.\n" +
			"All existing rows are destroyed. A populated database is refused\n" +
			"unless --force is set.",
		RunE: runDBInit,
	}
	dbInitCmd.Flags().BoolVar(&force, "force", false, "reinitialize even if the database holds rows (destroys them)")

	dbVerifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Report schema state and row counts",
		RunE:  runDBVerify,
	}

	dbSeedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert an example user and post",
		RunE:  runDBSeed,
	}

	dbCmd.AddCommand(dbInitCmd, dbVerifyCmd, dbSeedCmd)
	rootCmd.AddCommand(dbCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// sqlitePath resolves the database file for the sqlite engine. The
// --db flag wins over the environment.
func sqlitePath(cfg *config.Config) string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.SQLitePath
}

// newStore builds the store for the selected engine without opening it.
func newStore(cfg *config.Config) (store.Store, error) {
	switch engine {
	case "sqlite":
		return sqlite.New(sqlitePath(cfg)), nil
	case "postgres":
		return postgres.New(cfg.PostgresDSN), nil
	case "mysql":
		return mysql.New(cfg.MySQLDSN()), nil
	default:
		return nil, fmt.Errorf("unknown engine %q (want sqlite, postgres, or mysql)", engine)
	}
}

func runDBInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load()

	st, err := newStore(cfg)
	if err != nil {
		return err
	}
	if err := st.Open(ctx); err != nil {
		return err
	}
	defer st.Close()

	if err := st.Init(ctx, force); err != nil {
		if errors.Is(err, store.ErrPopulated) {
			return fmt.Errorf("%w; rerun with --force to destroy them", err)
		}
		return err
	}

	logger.Default.Info("schema initialized (engine=%s)", engine)
	return nil
}

func runDBVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load()

	// For the file-backed engine, report a missing file without
	// opening it: opening would create an empty database.
	if engine == "sqlite" {
		exists, err := store.Exists(sqlitePath(cfg))
		if err != nil {
			return err
		}
		if !exists {
			fmt.Printf("state: %s\n", store.StateMissing)
			return fmt.Errorf("database file %s does not exist; run db init", sqlitePath(cfg))
		}
	}

	st, err := newStore(cfg)
	if err != nil {
		return err
	}
	if err := st.Open(ctx); err != nil {
		return err
	}
	defer st.Close()

	state, err := st.CheckState(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("state: %s\n", state)

	if state == store.StateUninitialized {
		return fmt.Errorf("schema not initialized; run db init")
	}

	users, posts, err := st.Counts(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("users: %d\nposts: %d\n", users, posts)
	return nil
}

func runDBSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load()

	if engine == "sqlite" {
		exists, err := store.Exists(sqlitePath(cfg))
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("database file %s does not exist; run db init", sqlitePath(cfg))
		}
	}

	st, err := newStore(cfg)
	if err != nil {
		return err
	}
	if err := st.Open(ctx); err != nil {
		return err
	}
	defer st.Close()

	state, err := st.CheckState(ctx)
	if err != nil {
		return err
	}
	if state == store.StateUninitialized {
		return fmt.Errorf("schema not initialized; run db init")
	}

	user, post, err := st.SeedDemo(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("seeded post %d by %s: %q (created %s)\n",
		post.ID, user.Username, post.Title, post.Created.Format(time.RFC3339))
	return nil
}
