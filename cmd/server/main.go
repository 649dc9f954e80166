package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Semicile17/Campus-Connect/internal/config"
	"github.com/Semicile17/Campus-Connect/internal/db"
	"github.com/Semicile17/Campus-Connect/internal/logging"
	"github.com/Semicile17/Campus-Connect/internal/repository"
)

// Set at build time.
var (
	version = "dev"
	commit  = "none"
)

var readPasswordFunc = term.ReadPassword // mockable

const sqlitePrefix = "sqlite://"

type app struct {
	cfg       config.Config
	logger    *slog.Logger
	openStore func(ctx context.Context, cfg config.Config) (*repository.Store, func(), error)
}

func main() {
	cfg := config.Load()
	a := &app{cfg: cfg, logger: logging.New(cfg), openStore: openStore}
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "campus-connect",
		Short:         "Campus portal with role-based pages and a JSON API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	root.AddCommand(
		serveCmd(a),
		migrateCmd(a),
		addUserCmd(a),
		resetPasswordCmd(a),
		versionCmd(),
	)
	return root
}

// openStore connects to DATABASE_URL. A sqlite:// URL opens a local database
// whose schema comes from the gorm models; anything else is Postgres and is
// migrated with the embedded SQL files when auto-migration is on.
func openStore(ctx context.Context, cfg config.Config) (*repository.Store, func(), error) {
	if strings.HasPrefix(cfg.DatabaseURL, sqlitePrefix) {
		gdb, err := db.OpenSQLite(strings.TrimPrefix(cfg.DatabaseURL, sqlitePrefix))
		if err != nil {
			return nil, nil, err
		}
		if cfg.AutoMigrate {
			if err := db.AutoMigrate(gdb); err != nil {
				return nil, nil, err
			}
		}
		closeFn := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewStore(gdb), closeFn, nil
	}

	if cfg.AutoMigrate {
		if _, err := db.Migrate(cfg.DatabaseURL); err != nil {
			return nil, nil, err
		}
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "db connection failed")
	}
	gdb, err := db.Open(pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return repository.NewStore(gdb), pool.Close, nil
}

func migrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.HasPrefix(a.cfg.DatabaseURL, sqlitePrefix) {
				gdb, err := db.OpenSQLite(strings.TrimPrefix(a.cfg.DatabaseURL, sqlitePrefix))
				if err != nil {
					return err
				}
				if err := db.AutoMigrate(gdb); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "sqlite schema up to date")
				return nil
			}
			ver, err := db.Migrate(a.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", ver)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "campus-connect %s (%s)\n", version, commit)
		},
	}
}
