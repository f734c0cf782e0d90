package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed schema.sql
var schema string

// Statements returns the schema split into individual statements. Every
// statement is idempotent (CREATE TABLE IF NOT EXISTS).
func Statements() []string {
	var out []string
	for _, chunk := range strings.Split(schema, ";") {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			if !strings.HasPrefix(strings.TrimSpace(line), "--") {
				lines = append(lines, line)
			}
		}
		if s := strings.TrimSpace(strings.Join(lines, "\n")); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Migrate applies the schema statement by statement.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i+1, err)
		}
	}
	return nil
}
