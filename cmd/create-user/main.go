// CLI tool to create a user with a bcrypt-hashed password and default app
// settings. The user row and settings row are inserted in one transaction.
// Usage: go run ./cmd/create-user (from the repo root)
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type newUser struct {
	Username string
	Email    string
	Password string
}

func main() {
	if err := run(context.Background(), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, in io.Reader, out io.Writer) error {
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	u, err := prompt(in, out)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	authToken := uuid.New().String()

	conn, err := pgx.Connect(ctx, os.Getenv("DB_URL"))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	var userID int
	err = pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO users (username, email, password, auth_token)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			u.Username, u.Email, string(hash), authToken,
		).Scan(&userID); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO app_settings (user_id) VALUES ($1)`, userID); err != nil {
			return fmt.Errorf("create app settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nUser created successfully!\n")
	fmt.Fprintf(out, "  ID:         %d\n", userID)
	fmt.Fprintf(out, "  Username:   %s\n", u.Username)
	fmt.Fprintf(out, "  Auth Token: %s\n", authToken)
	fmt.Fprintln(out, "\nLog in and POST /api/onboarding to set a daily calorie goal.")
	return nil
}

// prompt reads username, email and password, one per line.
func prompt(in io.Reader, out io.Writer) (newUser, error) {
	reader := bufio.NewReader(in)
	ask := func(label string) string {
		fmt.Fprintf(out, "%s: ", label)
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	u := newUser{
		Username: ask("Username"),
		Email:    ask("Email"),
		Password: ask("Password"),
	}
	if u.Username == "" || u.Password == "" {
		return newUser{}, errors.New("username and password are required")
	}
	return u, nil
}
