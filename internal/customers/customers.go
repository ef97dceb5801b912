package customers

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Customer is a milk supplier in the customer master.
type Customer struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

var (
	ErrNameRequired  = errors.New("customer name is required")
	ErrDuplicateName = errors.New("customer name already exists")
	ErrNotFound      = errors.New("customer not found")
	ErrHasEntries    = errors.New("collection entries exist for this customer")
)

// Repo provides CRUD over the customer master.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Upsert inserts a new customer when c.ID is zero, otherwise replaces every
// field of the existing record. Text fields are trimmed before storage, and
// the trimmed name must be unique across all customers.
func (r *Repo) Upsert(c Customer) (int64, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.Notes = strings.TrimSpace(c.Notes)
	if c.Name == "" {
		return 0, ErrNameRequired
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin customer upsert: %w", err)
	}

	if c.ID != 0 {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM customers WHERE id = ?)`, c.ID).Scan(&exists); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("check customer existence: %w", err)
		}
		if !exists {
			_ = tx.Rollback()
			return 0, ErrNotFound
		}
	}

	var taken bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM customers WHERE name = ? AND id <> ?)`, c.Name, c.ID).Scan(&taken); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("check name uniqueness: %w", err)
	}
	if taken {
		_ = tx.Rollback()
		return 0, ErrDuplicateName
	}

	id := c.ID
	if c.ID == 0 {
		res, err := tx.Exec(`
			INSERT INTO customers (name, phone, address, notes)
			VALUES (?, ?, ?, ?)
		`, c.Name, c.Phone, c.Address, c.Notes)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert customer: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("read inserted customer id: %w", err)
		}
	} else {
		if _, err := tx.Exec(`
			UPDATE customers
			SET name = ?, phone = ?, address = ?, notes = ?
			WHERE id = ?
		`, c.Name, c.Phone, c.Address, c.Notes, c.ID); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("update customer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit customer upsert: %w", err)
	}

	return id, nil
}

// Delete removes a customer permanently. Deletion is blocked while any
// collection entry references the customer; nothing cascades.
func (r *Repo) Delete(id int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin customer delete: %w", err)
	}

	var refs int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM entries WHERE customer_id = ?`, id).Scan(&refs); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("count entries for customer: %w", err)
	}
	if refs > 0 {
		_ = tx.Rollback()
		return ErrHasEntries
	}

	res, err := tx.Exec(`DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete customer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("read delete result: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit customer delete: %w", err)
	}

	return nil
}

// List returns all customers ordered by name ascending.
func (r *Repo) List() ([]Customer, error) {
	rows, err := r.db.Query(`
		SELECT id, name, COALESCE(phone, ''), COALESCE(address, ''), COALESCE(notes, '')
		FROM customers
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	list := make([]Customer, 0)
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.Notes); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}

	return list, nil
}
