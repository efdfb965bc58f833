package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf/config"
	"github.com/oksasatya/bookshelf/internal/domain/entity"
	"github.com/oksasatya/bookshelf/internal/domain/repository"
	pginfra "github.com/oksasatya/bookshelf/internal/infrastructure/postgres"
	"github.com/oksasatya/bookshelf/pkg/helpers"
)

const (
	demoEmail    = "demo@bookshelf.local"
	demoPassword = "Demo$helf1"
	demoName     = "Demo Reader"
	demoSlug     = "demo"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, time.Hour, logger)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	books := pginfra.NewBookRepository(pool)

	u, err := upsertUser(ctx, users)
	if err != nil {
		logger.Fatalf("failed to seed user: %v", err)
	}
	logger.WithFields(logrus.Fields{"user_id": u.ID, "email": demoEmail}).Info("seeded demo user")

	existing, err := books.ListByUser(ctx, u.ID, false)
	if err != nil {
		logger.Fatalf("failed to list books: %v", err)
	}
	if len(existing) > 0 {
		logger.Info("demo books already present")
		return
	}
	for _, b := range demoBooks(u.ID) {
		if err := books.Create(ctx, &b); err != nil {
			logger.Fatalf("failed to seed book %q: %v", b.Title, err)
		}
	}
	logger.Info("seeded demo books")
}

// upsertUser creates the demo account or resets its password to the known value.
func upsertUser(ctx context.Context, users repository.UserRepository) (*entity.User, error) {
	hash, err := helpers.HashPassword(demoPassword)
	if err != nil {
		return nil, err
	}
	u, err := users.GetByEmail(ctx, demoEmail)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		u = &entity.User{Name: demoName, Email: demoEmail, PasswordHash: hash}
		if err := users.Create(ctx, u); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := users.UpdatePassword(ctx, u.ID, hash); err != nil {
			return nil, err
		}
	}
	if u.ProfileSlug == nil {
		if err := users.UpdateSlug(ctx, u.ID, demoSlug); err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
	}
	return u, nil
}

func demoBooks(userID string) []entity.Book {
	finished := time.Now().AddDate(0, -1, 0)
	started := finished.AddDate(0, 0, -14)
	rating := 4.5
	return []entity.Book{
		{
			UserID: userID, GoogleID: "B1hSG45JCX4C", Title: "Dune", Authors: []string{"Frank Herbert"},
			Categories: []string{"Fiction"}, Status: entity.StatusFinished, StartDate: &started, EndDate: &finished,
			Rating: &rating, Tags: []string{"scifi", "classic"}, IsPublic: true,
		},
		{
			UserID: userID, GoogleID: "zyTCAlFPjgYC", Title: "The Pragmatic Programmer", Authors: []string{"Andrew Hunt", "David Thomas"},
			Categories: []string{"Computers"}, Status: entity.StatusReading, StartDate: &finished, Tags: []string{"craft"},
		},
	}
}
