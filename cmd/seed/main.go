package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-task-manager/config"
	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	pginfra "github.com/oksasatya/go-task-manager/internal/infrastructure/postgres"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "password123"
	demoName     = "Demo User"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, time.Hour)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	hash, err := helpers.HashPassword(demoPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id::text
	`, demoName, demoEmail, hash).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	logger.WithField("user_id", userID).WithField("email", demoEmail).Info("seeded demo user")

	tasks := pginfra.NewTaskRepository(pool)
	_, total, err := tasks.List(ctx, entity.TaskListQuery{UserID: userID, Page: 1, Limit: 1})
	if err != nil {
		log.Fatalf("failed to count tasks: %v", err)
	}
	if total > 0 {
		logger.WithField("tasks", total).Info("demo user already has tasks, skipping")
		return
	}

	now := time.Now().UTC()
	notes := "Bring the quarterly numbers"
	for _, t := range []entity.Task{
		{Title: "Prepare team meeting", Description: &notes, Priority: entity.PriorityHigh, EndDate: now.Add(24 * time.Hour)},
		{Title: "Review pull requests", Priority: entity.PriorityMedium, EndDate: now.Add(3 * 24 * time.Hour)},
		{Title: "Clean up backlog", Priority: entity.PriorityLow, EndDate: now.Add(7 * 24 * time.Hour)},
	} {
		t.UserID = userID
		if err := tasks.Create(ctx, &t); err != nil {
			log.Fatalf("failed to seed task %q: %v", t.Title, err)
		}
	}
	logger.WithField("tasks", 3).Info("seeded demo tasks")
}
