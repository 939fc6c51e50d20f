// Package main prints a signed access token for local testing of the wizard
// endpoints and the websocket feed. It reads the same configuration as the
// server, so the token verifies against JWT_ACCESS_SECRET.
//
//	go run ./cmd/devtoken -user 6f1c0d1e-... -role user
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/commt/commitments/internal/config"
	"github.com/commt/commitments/internal/service"
	"github.com/google/uuid"
)

func main() {
	userFlag := flag.String("user", "", "user UUID (random when empty)")
	role := flag.String("role", "user", "role claim")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := config.MustLoad()
	if cfg.IsProd() {
		logger.Error("refusing to mint tokens in production")
		os.Exit(1)
	}

	userID := uuid.New()
	if *userFlag != "" {
		id, err := uuid.Parse(*userFlag)
		if err != nil {
			logger.Error("invalid -user", "err", err)
			os.Exit(2)
		}
		userID = id
	}

	tok, err := service.NewAuthService(cfg).IssueAccessToken(userID, *role)
	if err != nil {
		logger.Error("sign token", "err", err)
		os.Exit(1)
	}

	logger.Info("issued access token", "user_id", userID, "ttl", cfg.JWT.AccessTTL)
	fmt.Println(tok)
}
