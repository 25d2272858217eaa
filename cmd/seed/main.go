// Command seed migrates the schema and creates the default accounts.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/xyz-asif/whistleblow/internal/access"
	"github.com/xyz-asif/whistleblow/internal/config"
	"github.com/xyz-asif/whistleblow/internal/database"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
	"github.com/xyz-asif/whistleblow/internal/pkg/logger"
	"github.com/xyz-asif/whistleblow/internal/routes"
)

type account struct {
	Name     string
	Email    string
	Password string
	Role     access.Role
}

func defaultAccounts(superEmail, superPassword string) []account {
	return []account{
		{Name: "Super Admin", Email: superEmail, Password: superPassword, Role: access.RoleSuperAdmin},
		{Name: "Admin", Email: "admin@example.com", Password: "admin123", Role: access.RoleAdmin},
		{Name: "User", Email: "pelapor@example.com", Password: "pelapor123", Role: access.RoleUser},
	}
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		migrate       bool
		seed          bool
		superEmail    string
		superPassword string
	)
	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.BoolVar(&migrate, "migrate", true, "create or update the database schema")
	flagSet.BoolVar(&seed, "seed", true, "insert the default super-admin, admin and reporter accounts")
	flagSet.StringVar(&superEmail, "super-admin-email", "superadmin@example.com", "email of the seeded super-admin")
	flagSet.StringVar(&superPassword, "super-admin-password", "superadmin", "password of the seeded super-admin")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	cfg := config.Load()
	logger.Configure(logger.ParseLevel(cfg.LogLevel), cfg.AppEnv)
	ctx := context.Background()

	db, err := database.Connect(ctx, database.Options{
		Driver:       cfg.DBDriver,
		DSN:          cfg.DatabaseURL,
		MaxOpenConns: 1,
	})
	if err != nil {
		return err
	}
	defer database.Close(db)

	if migrate {
		if err := database.Migrate(db, routes.Models()...); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("schema migrated")
	}
	if seed {
		created, err := seedAccounts(ctx, auth.NewRepository(db), defaultAccounts(superEmail, superPassword))
		if err != nil {
			return err
		}
		logger.Info("seeded %d account(s)", created)
	}
	return nil
}

// seedAccounts creates the accounts whose email is not taken yet.
func seedAccounts(ctx context.Context, users *auth.Repository, accounts []account) (int, error) {
	created := 0
	for _, a := range accounts {
		email := auth.NormalizeEmail(a.Email)
		existing, err := users.FindByEmail(ctx, email)
		if err != nil {
			return created, err
		}
		if existing != nil {
			logger.WithFields(logger.Fields{"email": email}).Info("account exists, skipping")
			continue
		}

		hash, err := auth.HashPassword(a.Password)
		if err != nil {
			return created, err
		}
		if err := users.Create(ctx, &auth.User{Name: a.Name, Email: email, Password: hash, Role: a.Role}); err != nil {
			return created, fmt.Errorf("create %s: %w", email, err)
		}
		created++
	}
	return created, nil
}
