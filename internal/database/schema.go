package database

import (
	"context"
	"fmt"
)

// EnsureTableColumns verifies that a table carries the columns the repositories
// scan, so a half-applied schema fails at boot instead of at first request.
func EnsureTableColumns(ctx context.Context, db DB, table string, columns ...string) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	if table == "" {
		return fmt.Errorf("empty table")
	}
	for _, col := range columns {
		if col == "" {
			return fmt.Errorf("empty column")
		}
	}

	rows, err := db.Query(
		ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema='public' AND table_name=$1`,
		table,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		existing[c] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, col := range columns {
		if _, ok := existing[col]; !ok {
			return fmt.Errorf("schema mismatch: missing column %s.%s", table, col)
		}
	}
	return nil
}

// EnsureCoreSchema checks every table the service touches.
func EnsureCoreSchema(ctx context.Context, db DB) error {
	checks := []struct {
		table   string
		columns []string
	}{
		{"users", []string{"id", "username", "email", "password_hash", "created_at", "updated_at"}},
		{"skills", []string{"id", "name", "created_at"}},
		{"user_skills", []string{"id", "user_id", "skill_id", "created_at"}},
		{"matches", []string{"id", "user_a_id", "user_b_id", "initiator_id", "created_at"}},
	}
	for _, c := range checks {
		if err := EnsureTableColumns(ctx, db, c.table, c.columns...); err != nil {
			return err
		}
	}
	return nil
}
