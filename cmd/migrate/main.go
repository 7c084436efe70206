package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/wempy/storefront/internal/config"
	"github.com/wempy/storefront/internal/domain"
	"github.com/wempy/storefront/internal/repository/postgres"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] != "up" && os.Args[1] != "purge-sessions" {
		fmt.Println("Usage: go run cmd/migrate/main.go [up | purge-sessions <hours>]")
		fmt.Println("Example: go run cmd/migrate/main.go purge-sessions 12")
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.Migrate(db, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to migrate storage schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Storage schema is up to date\n")

	if len(os.Args) < 2 || os.Args[1] != "purge-sessions" {
		return
	}

	maxAge := cfg.Storage.SessionTTL
	if len(os.Args) > 2 {
		hours, err := strconv.Atoi(os.Args[2])
		if err != nil || hours <= 0 {
			fmt.Fprintf(os.Stderr, "Invalid hours %q\n", os.Args[2])
			os.Exit(1)
		}
		maxAge = time.Duration(hours) * time.Hour
	}

	repo := postgres.NewKVRepository(db, domain.ScopeSession, logger)
	purged, err := repo.PurgeSessions(context.Background(), time.Now().Add(-maxAge))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to purge sessions: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("🧹 Purged %d session entries older than %s\n", purged, maxAge)
}
