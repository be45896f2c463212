// Package main applies the embedded schema migrations.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/codemastery/codemastery-api/migrations"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		databaseURL string
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the CodeMastery database schema",
		Long: `Apply or roll back the SQL migrations embedded in the binary.

Examples:
  migrate up                  # Apply all pending migrations
  migrate down                # Roll back the latest migration
  migrate status              # Show applied and pending migrations
  migrate up --database-url postgres://...
`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres DSN (defaults to $DATABASE_URL)")
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall timeout")

	step := func(use, short string, fn func(context.Context, *sql.DB) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(databaseURL, timeout, fn)
			},
		}
	}

	cmd.AddCommand(
		step("up", "Apply all pending migrations", migrations.Up),
		step("down", "Roll back the most recent migration", migrations.Down),
		step("status", "Print migration status", migrations.Status),
	)
	return cmd
}

func withDB(databaseURL string, timeout time.Duration, fn func(context.Context, *sql.DB) error) error {
	_ = godotenv.Load()
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return fn(ctx, db)
}
