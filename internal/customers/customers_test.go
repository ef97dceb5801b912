package customers

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shiwanibaghel76/dairybook/internal/db"
	"github.com/shiwanibaghel76/dairybook/internal/migrations"
)

func newTestRepo(t *testing.T) (*Repo, *sql.DB) {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return NewRepo(database), database
}

func mustUpsert(t *testing.T, repo *Repo, c Customer) int64 {
	t.Helper()

	id, err := repo.Upsert(c)
	if err != nil {
		t.Fatalf("upsert %q: %v", c.Name, err)
	}
	return id
}

func TestUpsertInsertsAndTrims(t *testing.T) {
	repo, _ := newTestRepo(t)

	id := mustUpsert(t, repo, Customer{
		Name:    "  Ramesh Kumar  ",
		Phone:   " 9876543210 ",
		Address: " Village Rampur ",
		Notes:   " morning shift ",
	})
	if id == 0 {
		t.Fatal("expected a non-zero id for a new customer")
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(list))
	}

	got := list[0]
	if got.Name != "Ramesh Kumar" {
		t.Errorf("name not trimmed: %q", got.Name)
	}
	if got.Phone != "9876543210" {
		t.Errorf("phone not trimmed: %q", got.Phone)
	}
	if got.Address != "Village Rampur" {
		t.Errorf("address not trimmed: %q", got.Address)
	}
	if got.Notes != "morning shift" {
		t.Errorf("notes not trimmed: %q", got.Notes)
	}
}

func TestUpsertRejectsBlankName(t *testing.T) {
	repo, _ := newTestRepo(t)

	if _, err := repo.Upsert(Customer{Name: "   "}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}

func TestUpsertRejectsDuplicateName(t *testing.T) {
	repo, _ := newTestRepo(t)

	mustUpsert(t, repo, Customer{Name: "Sita Devi", Phone: "555"})

	if _, err := repo.Upsert(Customer{Name: " Sita Devi "}); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Phone != "555" {
		t.Fatalf("rejected insert must leave the existing customer untouched, got %+v", list)
	}
}

func TestUpsertUpdatesExistingCustomer(t *testing.T) {
	repo, _ := newTestRepo(t)

	id := mustUpsert(t, repo, Customer{Name: "Mohan Lal", Phone: "111"})

	updatedID, err := repo.Upsert(Customer{ID: id, Name: "Mohan Lal", Phone: "222", Address: "New Address"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updatedID != id {
		t.Fatalf("expected update to keep id %d, got %d", id, updatedID)
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 customer after update, got %d", len(list))
	}
	if list[0].Phone != "222" || list[0].Address != "New Address" {
		t.Errorf("update did not replace fields: %+v", list[0])
	}
}

func TestUpsertRenameKeepsOwnName(t *testing.T) {
	repo, _ := newTestRepo(t)

	id := mustUpsert(t, repo, Customer{Name: "Gita Bai"})

	// Saving a customer under its current name is not a duplicate.
	if _, err := repo.Upsert(Customer{ID: id, Name: "Gita Bai", Phone: "333"}); err != nil {
		t.Fatalf("re-save under own name: %v", err)
	}

	mustUpsert(t, repo, Customer{Name: "Radha Bai"})
	if _, err := repo.Upsert(Customer{ID: id, Name: "Radha Bai"}); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName on rename collision, got %v", err)
	}
}

func TestUpsertUnknownIDFails(t *testing.T) {
	repo, _ := newTestRepo(t)

	if _, err := repo.Upsert(Customer{ID: 9999, Name: "Ghost"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestDeleteRemovesCustomer(t *testing.T) {
	repo, _ := newTestRepo(t)

	id := mustUpsert(t, repo, Customer{Name: "Kiran"})

	if err := repo.Delete(id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list after delete, got %d customers", len(list))
	}
}

func TestDeleteUnknownIDFails(t *testing.T) {
	repo, _ := newTestRepo(t)

	if err := repo.Delete(12345); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteBlockedByEntries(t *testing.T) {
	repo, database := newTestRepo(t)

	id := mustUpsert(t, repo, Customer{Name: "Shyam"})

	_, err := database.Exec(`
		INSERT INTO entries (entry_date, customer_id, qty_liters, fat, snf, rate, amount, notes)
		VALUES ('2024-01-15', ?, 10.0, 4.0, 8.5, 32.0, 320.0, '')
	`, id)
	if err != nil {
		t.Fatalf("insert entry: %v", err)
	}

	if err := repo.Delete(id); !errors.Is(err, ErrHasEntries) {
		t.Fatalf("expected ErrHasEntries, got %v", err)
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatal("blocked delete must leave the customer in place")
	}
}

func TestListOrdersByName(t *testing.T) {
	repo, _ := newTestRepo(t)

	mustUpsert(t, repo, Customer{Name: "Zarina"})
	mustUpsert(t, repo, Customer{Name: "Anil"})
	mustUpsert(t, repo, Customer{Name: "Meena"})

	list, err := repo.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"Anil", "Meena", "Zarina"}
	if len(list) != len(want) {
		t.Fatalf("expected %d customers, got %d", len(want), len(list))
	}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, list[i].Name)
		}
	}
}
