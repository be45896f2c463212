// Package main loads the demo course catalogue and demo accounts.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/codemastery/codemastery-api/domain/entity"
	"github.com/codemastery/codemastery-api/infrastructure/adapter/postgres"
	"github.com/codemastery/codemastery-api/infrastructure/service/password"
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
		migrate     bool
		skipUsers   bool
		bcryptCost  int
	)

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Seed the demo catalogue and demo users",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			if databaseURL == "" {
				databaseURL = os.Getenv("DATABASE_URL")
			}
			if databaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}
			return run(cmd.Context(), databaseURL, migrate, skipUsers, bcryptCost)
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres DSN (defaults to $DATABASE_URL)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply pending migrations first")
	cmd.Flags().BoolVar(&skipUsers, "skip-users", false, "Only seed courses and modules")
	cmd.Flags().IntVar(&bcryptCost, "bcrypt-cost", 0, "bcrypt cost for demo passwords (0 uses the library default)")
	return cmd
}

func run(ctx context.Context, databaseURL string, migrate, skipUsers bool, bcryptCost int) error {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if migrate {
		if err := migrations.Up(ctx, db); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	courses, modules := catalogue(now)
	if err := postgres.NewCourseRepositoryAdapter(db).Seed(ctx, courses, modules); err != nil {
		return err
	}
	fmt.Printf("Seeded %d courses and %d modules\n", len(courses), len(modules))

	demoLessons := lessons(now)
	if err := postgres.NewLessonRepositoryAdapter(db).Seed(ctx, demoLessons); err != nil {
		return err
	}
	fmt.Printf("Seeded %d lessons\n", len(demoLessons))

	if skipUsers {
		return nil
	}

	userRepo := postgres.NewUserRepositoryAdapter(db)
	passwordService := password.NewBcryptPasswordService(bcryptCost)
	for _, u := range demoUsers {
		exists, err := userRepo.ExistsByEmail(ctx, u.Email)
		if err != nil {
			return fmt.Errorf("check %s: %w", u.Email, err)
		}
		if exists {
			fmt.Printf("User %s already exists, skipping\n", u.Email)
			continue
		}

		hash, err := passwordService.HashPassword(u.Password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.Email, err)
		}
		user := entity.NewUser(uuid.NewString(), u.Name, u.Email, hash, now)
		if err := userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("create %s: %w", u.Email, err)
		}
		fmt.Printf("Seeded user: email=%s id=%s\n", user.Email, user.ID)
	}
	return nil
}
