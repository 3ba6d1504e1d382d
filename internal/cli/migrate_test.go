package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/uptrace/bun/migrate"

	"quiz-admin-service/internal/config"
)

func TestDescribeMigrationGroup(t *testing.T) {
	if got := describeMigrationGroup(nil); got != "database schema up to date" {
		t.Fatalf("unexpected nil description %q", got)
	}
	if got := describeMigrationGroup(&migrate.MigrationGroup{}); got != "database schema up to date" {
		t.Fatalf("unexpected empty description %q", got)
	}

	group := &migrate.MigrationGroup{
		ID: 1,
		Migrations: migrate.MigrationSlice{
			{Name: "2026101801"},
			{Name: "2026101802"},
		},
	}
	got := describeMigrationGroup(group)
	if got != "migrated to group #1: 2026101801, 2026101802" {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestRunMigrationsRequiresURL(t *testing.T) {
	err := runMigrationsWithConfig(context.Background(), config.Config{})
	if err == nil || !strings.Contains(err.Error(), "postgres url not configured") {
		t.Fatalf("expected missing url error, got %v", err)
	}
}
