package main

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/anandkanishkZ/pds/internal/auth"
	"github.com/anandkanishkZ/pds/internal/config"
	"github.com/anandkanishkZ/pds/internal/db"
	"github.com/anandkanishkZ/pds/internal/model"
	"github.com/anandkanishkZ/pds/internal/repository"
)

// Seeds the bootstrap administrator from ADMIN_NAME/ADMIN_EMAIL/ADMIN_PASSWORD.
// Idempotent: an existing account with the same email is left untouched.
func main() {
	log.Println("Starting admin seed...")

	cfg := config.Load()
	if cfg.AdminPassword == "" {
		log.Fatal("ADMIN_PASSWORD is not set")
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)

	existing, err := users.FindByEmail(ctx, cfg.AdminEmail)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to check admin account: %v", err)
	}
	if existing != nil {
		log.Printf("Admin %s already exists, nothing to do", cfg.AdminEmail)
		return
	}

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	hash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := &model.User{
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Status:       model.StatusActive,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}

	log.Printf("Seeded admin %s (%s)", admin.Name, admin.Email)
}
