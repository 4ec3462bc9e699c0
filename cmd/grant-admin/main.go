package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/phongtro-app/notify-service/internal/admin"
	"github.com/phongtro-app/notify-service/internal/config"
	"github.com/phongtro-app/notify-service/internal/firebase"
	"github.com/phongtro-app/notify-service/internal/logger"
)

func main() {
	var (
		uid      = flag.String("uid", "", "Firebase UID of the target user (required)")
		enable   = flag.Bool("enable", true, "Grant (true) or revoke (false) the admin capability")
		showHelp = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *showHelp || *uid == "" {
		fmt.Println("Admin Capability Grant")
		fmt.Println("Usage: go run cmd/grant-admin/main.go -uid <UID> [-enable=false]")
		fmt.Println("")
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println("")
		fmt.Println("Examples:")
		fmt.Println("  go run cmd/grant-admin/main.go -uid abc123")
		fmt.Println("  go run cmd/grant-admin/main.go -uid abc123 -enable=false")
		return
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	config.LoadConfig()

	ctx := context.Background()

	fb, err := firebase.NewClient(ctx, config.AppConfig.FirebaseProjectID, config.AppConfig.FirebaseCredJSON)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}
	defer fb.Close()

	service := admin.NewService(
		fb.Auth,
		admin.NewFirestoreProfiles(fb.Firestore),
		logger.New(logger.Config{Level: slog.LevelInfo}),
	)

	if err := service.SetAdmin(ctx, *uid, *enable); err != nil {
		log.Fatalf("Failed to update admin capability: %v", err)
	}

	role := admin.RoleUser
	if *enable {
		role = admin.RoleAdmin
	}

	fmt.Printf("Done. uid=%s, role=%s\n", *uid, role)
	fmt.Println("The user must sign in again before their tokens carry the new claims.")
}
