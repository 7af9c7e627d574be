// Command tzrepair fixes rows written before the API normalized
// timestamps to UTC. Those rows carry a local wall-clock time that was
// stored with a UTC label, so every kickoff and stat entry from that era
// is shifted by the zone offset. The tool reinterprets the stored wall
// clock in the given IANA zone and writes the corrected instant back.
//
// Run with -dry-run first; the repair only touches rows created before
// the -before cutoff.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type repairTarget struct {
	table  string
	column string
}

var targets = []repairTarget{
	{table: "games", column: "kickoff_at"},
	{table: "stat_entries", column: "recorded_at"},
}

func main() {
	location := flag.String("location", "", "IANA zone the old rows were written in, e.g. Europe/Amsterdam")
	before := flag.String("before", "", "only repair rows created before this RFC 3339 instant")
	dryRun := flag.Bool("dry-run", false, "report affected row counts without writing")
	flag.Usage = printUsage
	flag.Parse()

	if *location == "" || *before == "" {
		printUsage()
		os.Exit(2)
	}

	if _, err := time.LoadLocation(*location); err != nil {
		log.Fatalf("invalid location %q: %v", *location, err)
	}

	cutoff, err := time.Parse(time.RFC3339, *before)
	if err != nil {
		log.Fatalf("invalid -before value %q: %v", *before, err)
	}

	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		log.Fatal("DB_URL is required")
	}

	ctx := context.Background()
	db, err := sqlx.ConnectContext(ctx, "postgres", normalizeDBURL(dbURL))
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	if err := repair(ctx, db, *location, cutoff, *dryRun); err != nil {
		log.Fatal(err)
	}
}

func repair(ctx context.Context, db *sqlx.DB, location string, cutoff time.Time, dryRun bool) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, target := range targets {
		if dryRun {
			query := fmt.Sprintf(
				"SELECT COUNT(*) FROM %s WHERE %s IS NOT NULL AND created_at < $1",
				target.table, target.column,
			)
			var count int64
			if err := tx.GetContext(ctx, &count, query, cutoff); err != nil {
				return fmt.Errorf("count %s.%s: %w", target.table, target.column, err)
			}
			log.Printf("dry-run: %s.%s would repair %d row(s)", target.table, target.column, count)
			continue
		}

		// The stored timestamptz carries the wrong instant but the right
		// wall clock. Strip the UTC label, then reattach the real zone.
		query := fmt.Sprintf(
			"UPDATE %s SET %s = (%s AT TIME ZONE 'UTC') AT TIME ZONE $1 WHERE %s IS NOT NULL AND created_at < $2",
			target.table, target.column, target.column, target.column,
		)
		result, err := tx.ExecContext(ctx, query, location, cutoff)
		if err != nil {
			return fmt.Errorf("repair %s.%s: %w", target.table, target.column, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected for %s.%s: %w", target.table, target.column, err)
		}
		log.Printf("repaired %s.%s: %d row(s)", target.table, target.column, affected)
	}

	if dryRun {
		return nil
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit repair: %w", err)
	}

	return nil
}

func normalizeDBURL(raw string) string {
	if !envBool("DB_DISABLE_PREPARED_BINARY_RESULT") {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

func envBool(key string) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch value {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "usage: %s -location <zone> -before <rfc3339> [-dry-run]\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(os.Stderr, "example:")
	fmt.Fprintf(os.Stderr, "  %s -location Europe/Amsterdam -before 2024-03-01T00:00:00Z -dry-run\n", filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}
