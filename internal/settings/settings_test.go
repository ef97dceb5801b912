package settings

import (
	"path/filepath"
	"testing"

	"github.com/shiwanibaghel76/dairybook/internal/db"
	"github.com/shiwanibaghel76/dairybook/internal/migrations"
	"github.com/shiwanibaghel76/dairybook/internal/pricing"
	"github.com/shiwanibaghel76/dairybook/internal/seed"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "settings-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if _, err := seed.Run(database); err != nil {
		t.Fatalf("run seed: %v", err)
	}

	return NewRepo(database)
}

func TestGetReturnsSeededDefaults(t *testing.T) {
	repo := newTestRepo(t)

	s, err := repo.Get()
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if s != pricing.DefaultSettings {
		t.Fatalf("Get = %+v, want %+v", s, pricing.DefaultSettings)
	}
}

func TestUpdateReplacesAllFiveCoefficients(t *testing.T) {
	repo := newTestRepo(t)

	want := pricing.Settings{BaseFat: 4.0, BaseSNF: 8.7, BaseRate: 38.0, FatRate: 5.5, SNFRate: -1.5}
	if err := repo.Update(want); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	got, err := repo.Get()
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != want {
		t.Fatalf("Get after Update = %+v, want %+v", got, want)
	}
}
