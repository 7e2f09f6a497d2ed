// Command adminuser creates an administrator account or resets its password.
// Accounts are provisioned here, never through the HTTP API.
//
// Usage:
//
//	ADMIN_PASSWORD=... adminuser --username=editor [--full-name="Kari Nordmann"]
//
// An existing username gets its password replaced.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/association-site-api/internal/config"
	"github.com/association-site-api/internal/database"
	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/repository"
	"github.com/association-site-api/internal/validation"
	"github.com/association-site-api/pkg/logger"
)

const minPasswordLength = 12

func main() {
	username := flag.String("username", "", "username of the admin account")
	fullName := flag.String("full-name", "", "display name shown in the article history")
	flag.Parse()
	*username = strings.TrimSpace(*username)

	password := os.Getenv("ADMIN_PASSWORD")
	if errs := validation.ValidateCredentials(*username, password); len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "Usage: ADMIN_PASSWORD=... adminuser --username=<name> [--full-name=<name>]")
		os.Exit(2)
	}
	if len(password) < minPasswordLength {
		fmt.Fprintf(os.Stderr, "ADMIN_PASSWORD must be at least %d characters\n", minPasswordLength)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	if cfg.Database.Driver == config.DriverMemory {
		log.Fatal().Msg("Admin accounts need a persistent database driver")
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	st, err := database.NewStore(&cfg.Database, db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer st.Close()
	users := repository.New(st).User

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	existing, err := users.GetByUsername(ctx, *username)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to look up user")
	}

	if existing != nil {
		if err := users.SetPasswordHash(ctx, existing.ID, string(hash)); err != nil {
			log.Fatal().Err(err).Msg("Failed to reset password")
		}
		fmt.Printf("Password reset for %q.\n", *username)
		return
	}

	user := &models.AdminUser{Username: *username, PasswordHash: string(hash)}
	if *fullName != "" {
		user.FullName = fullName
	}
	if err := users.Create(ctx, user); err != nil {
		log.Fatal().Err(err).Msg("Failed to create user")
	}
	fmt.Printf("Admin user %q created (id %s).\n", user.Username, user.ID)
}
