// Package main provides admin management utilities for Postboard.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postboard/internal/cache"
	"postboard/internal/config"
	"postboard/internal/database"
	"postboard/internal/models"
	"postboard/internal/notifications"
	"postboard/internal/repository"
	"postboard/internal/service"

	"github.com/redis/go-redis/v9"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin/main.go promote <username>   - Promote user to admin")
	fmt.Println("  go run ./cmd/admin/main.go demote <username>    - Demote user from admin")
	fmt.Println("  go run ./cmd/admin/main.go list-admins         - List all admins")
	fmt.Println("  go run ./cmd/admin/main.go cache-clear         - Drop every cached page")
	fmt.Println("  go run ./cmd/admin/main.go watch-events        - Print content events until interrupted")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	ctx := context.Background()

	command := os.Args[1]
	switch command {
	case "cache-clear":
		clearCache(ctx, cfg)
		return
	case "watch-events":
		watchEvents(cfg)
		return
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	users := service.NewUserService(repository.NewUserRepository(db))

	switch command {
	case "promote", "demote":
		if len(os.Args) < 3 {
			fmt.Printf("Usage: go run ./cmd/admin/main.go %s <username>\n", command)
			os.Exit(1)
		}
		setAdmin(ctx, users, os.Args[2], command == "promote")

	case "list-admins":
		listAdmins(ctx, users)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		usage()
		os.Exit(1)
	}
}

func setAdmin(ctx context.Context, users *service.UserService, username string, isAdmin bool) {
	user, err := users.GetUserByUsername(ctx, username)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			fmt.Printf("User %s not found\n", username)
			os.Exit(1)
		}
		log.Fatalf("Database error: %v", err)
	}

	if user.IsAdmin == isAdmin {
		fmt.Printf("User %s (ID: %d) already has admin=%t\n", user.Username, user.ID, isAdmin)
		return
	}

	if err := users.SetAdmin(ctx, username, isAdmin); err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}

	if isAdmin {
		fmt.Printf("✅ Successfully promoted %s (ID: %d) to admin\n", user.Username, user.ID)
	} else {
		fmt.Printf("✅ Successfully demoted %s (ID: %d) from admin\n", user.Username, user.ID)
	}
}

func listAdmins(ctx context.Context, users *service.UserService) {
	admins, err := users.ListAdmins(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch admins: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No admins found in the system")
		return
	}

	fmt.Println("\n📋 Current Admins:")
	fmt.Println("─────────────────────────────────────")
	for _, admin := range admins {
		fmt.Printf("ID: %d | Username: %s | Email: %s\n", admin.ID, admin.Username, admin.Email)
	}
	fmt.Println("─────────────────────────────────────")
}

func redisClient(cfg *config.Config) *redis.Client {
	cache.InitRedis(cfg.RedisURL)
	rdb := cache.GetClient()
	if rdb == nil {
		log.Fatalf("Redis is not reachable at %s", cfg.RedisURL)
	}
	return rdb
}

func watchEvents(cfg *config.Config) {
	rdb := redisClient(cfg)
	defer func() { _ = rdb.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := notifications.NewNotifier(rdb).Subscribe(ctx, func(ev notifications.Event) {
		fmt.Printf("%s %-16s actor=%d post=%d author=%d group=%d\n",
			ev.At.Format(time.RFC3339), ev.Type, ev.ActorID, ev.PostID, ev.AuthorID, ev.GroupID)
	})
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}
	fmt.Println("👀 Watching events, press Ctrl+C to stop")
	<-ctx.Done()
}

func clearCache(ctx context.Context, cfg *config.Config) {
	rdb := redisClient(cfg)
	defer func() { _ = rdb.Close() }()

	if err := cache.NewPageCache(rdb, cfg.IndexCacheTTL()).Clear(ctx); err != nil {
		log.Fatalf("Failed to clear page cache: %v", err)
	}
	fmt.Println("✅ Page cache cleared")
}
