package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/mo-amir99/course-marketplace-go/internal/features/user"
	"github.com/mo-amir99/course-marketplace-go/pkg/config"
	"github.com/mo-amir99/course-marketplace-go/pkg/database"
	"github.com/mo-amir99/course-marketplace-go/pkg/logger"
	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.Database, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close(db, appLogger)

	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Print(label)
		value, _ := reader.ReadString('\n')
		return strings.TrimSpace(value)
	}

	name := prompt("Name: ")
	email := prompt("Email: ")
	password := prompt(fmt.Sprintf("Password (min %d chars): ", user.MinPasswordLength))

	if name == "" || email == "" || len(password) < user.MinPasswordLength {
		fmt.Printf("❌ Error: name, email and password (min %d chars) are required\n", user.MinPasswordLength)
		os.Exit(1)
	}

	created, err := user.Create(ctx, db, user.CreateInput{
		Name:       name,
		Email:      email,
		Password:   password,
		Roles:      types.NewRoleSet(types.RoleSubscriber, types.RoleAdmin),
		BcryptCost: cfg.Auth.BcryptCost,
	})
	if err != nil {
		appLogger.Error("Failed to create admin", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("\n✅ Admin created: %s (%s)\n", created.Email, created.ID)
}
