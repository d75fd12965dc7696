package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dimitrije/taskmanager-api/internal/config"
	"github.com/dimitrije/taskmanager-api/internal/database"
	"github.com/dimitrije/taskmanager-api/internal/logging"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/dimitrije/taskmanager-api/internal/services"
	"github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Println("Usage: promote-admin <email> [Admin|Manager|Worker|Controller]")
		os.Exit(1)
	}

	email := os.Args[1]
	role := models.RoleAdmin
	if len(os.Args) == 3 {
		parsed, err := models.ParseRole(os.Args[2])
		if err != nil {
			fmt.Printf("Unknown role: %s\n", os.Args[2])
			os.Exit(1)
		}
		role = parsed
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	userService := services.NewUserService(db, log, cfg.BcryptCost)
	if err := userService.SetRoleByEmail(ctx, email, role); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			log.Fatalf("No user found with email: %s", email)
		}
		log.Fatalf("Failed to update user: %v", err)
	}

	fmt.Printf("Successfully set role of %s to %s\n", email, role)
}
