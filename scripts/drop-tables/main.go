package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/mo-amir99/course-marketplace-go/internal/bootstrap"
	"github.com/mo-amir99/course-marketplace-go/pkg/config"
	"github.com/mo-amir99/course-marketplace-go/pkg/database"
	"github.com/mo-amir99/course-marketplace-go/pkg/logger"
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

	fmt.Println("\n⚠️  WARNING: This will DROP ALL TABLES in the database!")
	fmt.Println("   This action CANNOT be undone.")
	fmt.Print("\nType 'DROP ALL TABLES' to confirm: ")

	reader := bufio.NewReader(os.Stdin)
	confirmation, _ := reader.ReadString('\n')
	if strings.TrimSpace(confirmation) != "DROP ALL TABLES" {
		fmt.Println("\n❌ Operation cancelled. Database unchanged.")
		os.Exit(0)
	}

	// reverse dependency order
	models := bootstrap.Models()
	droppedCount := 0
	migrator := db.WithContext(ctx).Migrator()
	for i := len(models) - 1; i >= 0; i-- {
		model := models[i]
		if err := migrator.DropTable(model); err != nil {
			appLogger.Warn("Failed to drop table", slog.String("model", fmt.Sprintf("%T", model)), slog.String("error", err.Error()))
			continue
		}
		appLogger.Info("Dropped table", slog.String("model", fmt.Sprintf("%T", model)))
		droppedCount++
	}

	fmt.Printf("\n✅ Successfully dropped %d tables!\n", droppedCount)
	fmt.Println("   You can now run the migrate script to recreate them.")
}
