// CLI tool to run pending database migrations from db/ (or MIGRATIONS_DIR).
// Files already recorded in the migrations table are skipped; each pending
// file runs in its own transaction together with its record insert.
// Usage: go run ./cmd/migrate (from the repo root)
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

var migrationPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-\d{3}-`)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = "db"
	}
	files, err := migrationFiles(dir)
	if err != nil {
		return err
	}

	conn, err := pgx.Connect(ctx, os.Getenv("DB_URL"))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	applied, err := appliedMigrations(ctx, conn)
	if err != nil {
		return fmt.Errorf("read migrations table: %w", err)
	}

	ran := 0
	for _, path := range files {
		name := filepath.Base(path)
		if applied[name] {
			fmt.Printf("  skip: %s\n", name)
			continue
		}
		if err := apply(ctx, conn, path); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Printf("  applied: %s\n", name)
		ran++
	}

	if ran == 0 {
		fmt.Println("No pending migrations.")
	} else {
		fmt.Printf("\n%d migration(s) applied.\n", ran)
	}
	return nil
}

// migrationFiles returns the .sql files in dir in the order they must run.
func migrationFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no migration files found in %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

// apply runs one migration file and records it, atomically.
func apply(ctx context.Context, conn *pgx.Conn, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	name := filepath.Base(path)

	return pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("run: %w", err)
		}
		if _, err := tx.Exec(ctx,
			"INSERT INTO migrations (migration, description) VALUES ($1, $2)",
			name, descriptionFromFilename(name)); err != nil {
			return fmt.Errorf("record: %w", err)
		}
		return nil
	})
}

// appliedMigrations returns the filenames already recorded in the migrations
// table. A missing table (first run) yields an empty set.
func appliedMigrations(ctx context.Context, conn *pgx.Conn) (map[string]bool, error) {
	applied := make(map[string]bool)

	var exists bool
	if err := conn.QueryRow(ctx, "SELECT to_regclass('migrations') IS NOT NULL").Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return applied, nil
	}

	rows, err := conn.Query(ctx, "SELECT migration FROM migrations")
	if err != nil {
		return nil, err
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		applied[n] = true
	}
	return applied, nil
}

// descriptionFromFilename strips the YYYY-MM-DD-NNN- prefix and .sql suffix.
func descriptionFromFilename(filename string) string {
	name := strings.TrimSuffix(filename, ".sql")
	name = migrationPrefix.ReplaceAllString(name, "")
	return strings.ReplaceAll(name, "-", " ")
}
