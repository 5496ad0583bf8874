package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adelinebrd/chasse/internal/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|status>")
	}

	cfg, err := config.Load("chasse-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	files, err := discoverMigrations()
	if err != nil {
		log.Fatalf("discover: %v", err)
	}

	switch os.Args[1] {
	case "up":
		runMigrations(ctx, pool, files)
	case "status":
		printStatus(ctx, pool, files)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

// discoverMigrations lists migrations/*.sql in lexical order; the numeric
// filename prefix (001_, 002_, ...) is the execution order.
func discoverMigrations() ([]string, error) {
	files, err := filepath.Glob("migrations/*.sql")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no migration files under migrations/")
	}
	sort.Strings(files)
	return files, nil
}

func ensureLedger(ctx context.Context, pool *pgxpool.Pool) {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename   text PRIMARY KEY,
			applied_at timestamptz NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		log.Fatalf("ledger: %v", err)
	}
}

func applied(ctx context.Context, pool *pgxpool.Pool) map[string]bool {
	rows, err := pool.Query(ctx, `SELECT filename FROM schema_migrations`)
	if err != nil {
		log.Fatalf("ledger read: %v", err)
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			log.Fatalf("ledger scan: %v", err)
		}
		done[f] = true
	}
	return done
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool, files []string) {
	ensureLedger(ctx, pool)
	done := applied(ctx, pool)

	ran := 0
	for _, f := range files {
		name := filepath.Base(f)
		if done[name] {
			fmt.Printf("SKIP %s\n", name)
			continue
		}

		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}
		if _, err := pool.Exec(ctx, string(data)); err != nil {
			log.Fatalf("exec %s: %v", name, err)
		}
		if _, err := pool.Exec(ctx, `INSERT INTO schema_migrations (filename) VALUES ($1)`, name); err != nil {
			log.Fatalf("record %s: %v", name, err)
		}
		fmt.Printf("OK   %s\n", name)
		ran++
	}

	log.Printf("%d migration(s) applied, %d already in place", ran, len(files)-ran)
}

func printStatus(ctx context.Context, pool *pgxpool.Pool, files []string) {
	ensureLedger(ctx, pool)
	done := applied(ctx, pool)

	for _, f := range files {
		name := filepath.Base(f)
		state := "pending"
		if done[name] {
			state = "applied"
		}
		fmt.Printf("%-8s %s\n", state, name)
	}
}
