package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/agoradata/agora-auth/internal/auth/app"
	"github.com/agoradata/agora-auth/internal/auth/service"
	"github.com/agoradata/agora-auth/internal/auth/store/drivers/sqlite"
	"github.com/agoradata/agora-auth/pkg/cryptox"
)

// create-admin provisions an account interactively against the configured
// database. It is meant to be run once on a fresh deployment to create the
// first administrator, but works for any account.
func main() {
	cfg := app.LoadConfig()

	pepper, err := cryptox.LoadOrGeneratePepper(cfg.PepperFile)
	if err != nil {
		log.Fatalf("failed to load pepper: %v", err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.ApplyMigrations(); err != nil {
		log.Fatalf("failed to apply database migrations: %v", err)
	}

	users := &service.UserService{
		Store: db,
		Hasher: &cryptox.Hasher{
			Params: cryptox.Argon2Params{
				MemoryKiB:   uint32(cfg.Argon2MemoryKiB),
				Iterations:  uint32(cfg.Argon2Iterations),
				Parallelism: uint8(cfg.Argon2Parallelism),
			},
			Pepper: pepper,
		},
		Policy: cryptox.PasswordPolicy{MinLength: cfg.MinPasswordLength},
	}

	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	empty, err := db.Users().IsEmpty(ctx)
	if err != nil {
		log.Fatalf("failed to query users: %v", err)
	}
	if !empty {
		fmt.Println("Note: the database already contains accounts.")
	}

	email := promptLine(reader, "Email: ")
	name := promptLine(reader, "Name: ")

	password, err := promptPassword("Password: ")
	if err != nil {
		log.Fatalf("failed to read password: %v", err)
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		log.Fatalf("failed to read password: %v", err)
	}
	if password != confirm {
		log.Fatal("passwords do not match")
	}

	user, err := users.Create(ctx, service.CreateUserParams{
		Email:         email,
		Name:          name,
		Password:      password,
		EmailVerified: true,
		CreatedBy:     "create-admin",
	})
	if err != nil {
		var weak *service.WeakPasswordError
		switch {
		case errors.As(err, &weak):
			log.Fatalf("password rejected by policy: %s", formatViolations(weak.Violations))
		case errors.Is(err, service.ErrEmailTaken):
			log.Fatalf("an account with email %q already exists", email)
		case errors.Is(err, service.ErrInvalidEmail):
			log.Fatalf("invalid email address %q", email)
		default:
			log.Fatalf("failed to create account: %v", err)
		}
	}

	fmt.Printf("Created account %s (%s)\n", user.Email, user.ID)
}

func promptLine(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("failed to read input: %v", err)
	}
	return strings.TrimSpace(line)
}

// promptPassword reads a line with terminal echo disabled.
func promptPassword(label string) (string, error) {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func formatViolations(violations []cryptox.Violation) string {
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, string(v))
	}
	return strings.Join(parts, ", ")
}
