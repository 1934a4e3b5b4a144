// Package bootstrap wires up runtime dependencies for the cmd entry points.
package bootstrap

import (
	"fmt"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/seed"

	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// EnsureAdmin creates the default admin account when set. Intended for
	// development; production admins are provisioned explicitly.
	EnsureAdmin bool
}

const (
	devAdminUsername = "admin"
	devAdminEmail    = "admin@yatube.local"
	devAdminPassword = "password123"
)

// InitRuntime connects to the database and Redis and optionally ensures the
// development admin account exists.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *cache.Store, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	store := cache.New(cfg.RedisURL)

	if opts.EnsureAdmin && cfg.Env == "development" {
		seeder := seed.NewSeeder(db)
		if _, err := seeder.EnsureAdmin(devAdminUsername, devAdminEmail, devAdminPassword); err != nil {
			return nil, nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
		}
	}

	return db, store, nil
}
