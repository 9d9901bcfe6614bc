package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cuistot/cuistot/internal/auth"
	"github.com/cuistot/cuistot/internal/model"
	"github.com/cuistot/cuistot/internal/repository"
)

type output struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	KeyConfigured bool   `json:"key_configured"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		email       = flag.String("email", "", "Account email")
		password    = flag.String("password", "", "Account password")
		geminiKey   = flag.String("gemini-key", "", "Optional Gemini API key to store for the account")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "-email and -password are required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	userID, err := ensureUser(ctx, repo, strings.ToLower(strings.TrimSpace(*email)), *password)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	configured := false
	if *geminiKey != "" {
		cred := &model.Credential{
			UserID: userID,
			APIKey: model.NewSecret(*geminiKey),
		}
		if err := repo.UpsertCredential(ctx, cred); err != nil {
			fmt.Fprintln(os.Stderr, "store gemini key:", err)
			os.Exit(1)
		}
		configured = true
	}

	out := output{
		UserID:        userID,
		Email:         strings.ToLower(strings.TrimSpace(*email)),
		KeyConfigured: configured,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.UserID)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

func ensureUser(ctx context.Context, repo *repository.Repository, email, password string) (string, error) {
	existing, err := repo.GetUserByEmail(ctx, email)
	if err == nil {
		return existing.ID, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	return user.ID, nil
}
