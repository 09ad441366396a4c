package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// Necesita un Postgres real: TEST_DATABASE_URL=postgres://... go test ./internal/infra/storage
func openTestDB(t *testing.T) *IncidentRepo {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := Open(ctx, url)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM incidents`); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	return NewIncidentRepo(db)
}

func TestIncidentRepo(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	rows := []Incident{
		{ID: uuid.NewString(), Level: "WARN", Message: "slow", CreatedAt: base.Add(-3 * time.Minute)},
		{ID: uuid.NewString(), Level: "ERROR", Message: "render failed", ErrorType: "discordgo.RESTError", ErrorText: "HTTP 500", CreatedAt: base.Add(-2 * time.Minute)},
		{ID: uuid.NewString(), Level: "CRITICAL", Message: "lavalink down", CreatedAt: base.Add(-time.Minute)},
	}
	for _, in := range rows {
		if err := repo.Insert(ctx, in); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	// id repetido no falla
	if err := repo.Insert(ctx, rows[0]); err != nil {
		t.Fatalf("Insert duplicate: %v", err)
	}

	got, err := repo.Recent(ctx, 10, []string{"ERROR", "CRITICAL"})
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0].Message != "lavalink down" || got[1].ErrorText != "HTTP 500" {
		t.Errorf("Unexpected incidents %+v", got)
	}

	all, err := repo.Recent(ctx, 2, nil)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected limit 2, got %d", len(all))
	}
}
