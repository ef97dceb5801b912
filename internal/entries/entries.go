// Package entries maintains the append-only ledger of milk collections.
// Each entry freezes the rate and amount computed from the settings in
// force at insert time; later settings changes never touch stored rows.
package entries

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shiwanibaghel76/dairybook/internal/pricing"
)

const dateLayout = "2006-01-02"

// Entry is one recorded milk collection.
type Entry struct {
	ID         int64   `json:"id"`
	Date       string  `json:"entry_date"`
	CustomerID int64   `json:"customer_id"`
	Customer   string  `json:"customer"`
	QtyLiters  float64 `json:"qty_liters"`
	Fat        float64 `json:"fat"`
	SNF        float64 `json:"snf"`
	Rate       float64 `json:"rate"`
	Amount     float64 `json:"amount"`
	Notes      string  `json:"notes"`
}

// NewEntry is the caller-supplied part of an entry. Rate and amount are
// computed on insert and are never accepted from the caller.
type NewEntry struct {
	Date       string  `json:"entry_date"`
	CustomerID int64   `json:"customer_id"`
	QtyLiters  float64 `json:"qty_liters"`
	Fat        float64 `json:"fat"`
	SNF        float64 `json:"snf"`
	Notes      string  `json:"notes"`
}

// Filter narrows Query results. Zero values mean "no restriction";
// From and To are inclusive yyyy-mm-dd bounds.
type Filter struct {
	CustomerID int64
	From       string
	To         string
}

var (
	ErrQtyNotPositive = errors.New("quantity must be greater than zero")
	ErrBadDate        = errors.New("date must be in yyyy-mm-dd format")
	ErrNoSuchCustomer = errors.New("customer does not exist")
)

// Repo records and reads ledger entries.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Add validates the input, prices it against the current settings row and
// appends the resulting entry, all inside one transaction. The returned
// Entry carries the stored rate and amount.
func (r *Repo) Add(in NewEntry) (Entry, error) {
	in.Date = strings.TrimSpace(in.Date)
	in.Notes = strings.TrimSpace(in.Notes)

	if in.QtyLiters <= 0 {
		return Entry{}, ErrQtyNotPositive
	}
	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		return Entry{}, ErrBadDate
	}

	tx, err := r.db.Begin()
	if err != nil {
		return Entry{}, fmt.Errorf("begin entry insert: %w", err)
	}

	var customerName string
	err = tx.QueryRow(`SELECT name FROM customers WHERE id = ?`, in.CustomerID).Scan(&customerName)
	if errors.Is(err, sql.ErrNoRows) {
		_ = tx.Rollback()
		return Entry{}, ErrNoSuchCustomer
	}
	if err != nil {
		_ = tx.Rollback()
		return Entry{}, fmt.Errorf("look up customer: %w", err)
	}

	var s pricing.Settings
	err = tx.QueryRow(`
		SELECT base_fat, base_snf, base_rate, fat_rate, snf_rate
		FROM settings
		WHERE id = 1
	`).Scan(&s.BaseFat, &s.BaseSNF, &s.BaseRate, &s.FatRate, &s.SNFRate)
	if err != nil {
		_ = tx.Rollback()
		return Entry{}, fmt.Errorf("read settings for pricing: %w", err)
	}

	rate, amount := pricing.RateAndAmount(in.Fat, in.SNF, in.QtyLiters, s)

	res, err := tx.Exec(`
		INSERT INTO entries (entry_date, customer_id, qty_liters, fat, snf, rate, amount, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, in.Date, in.CustomerID, in.QtyLiters, in.Fat, in.SNF, rate, amount, in.Notes)
	if err != nil {
		_ = tx.Rollback()
		return Entry{}, fmt.Errorf("insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return Entry{}, fmt.Errorf("read inserted entry id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Entry{}, fmt.Errorf("commit entry insert: %w", err)
	}

	return Entry{
		ID:         id,
		Date:       in.Date,
		CustomerID: in.CustomerID,
		Customer:   customerName,
		QtyLiters:  in.QtyLiters,
		Fat:        in.Fat,
		SNF:        in.SNF,
		Rate:       rate,
		Amount:     amount,
		Notes:      in.Notes,
	}, nil
}

// Query returns entries matching the filter, ordered by entry date and
// then customer name, both ascending. Dates are stored as yyyy-mm-dd
// text, so string comparison on the bounds is chronological.
func (r *Repo) Query(f Filter) ([]Entry, error) {
	f.From = strings.TrimSpace(f.From)
	f.To = strings.TrimSpace(f.To)
	if f.From != "" {
		if _, err := time.Parse(dateLayout, f.From); err != nil {
			return nil, ErrBadDate
		}
	}
	if f.To != "" {
		if _, err := time.Parse(dateLayout, f.To); err != nil {
			return nil, ErrBadDate
		}
	}

	query := `
		SELECT
			e.id,
			e.entry_date,
			e.customer_id,
			c.name,
			e.qty_liters,
			e.fat,
			e.snf,
			e.rate,
			e.amount,
			COALESCE(e.notes, '')
		FROM entries e
		JOIN customers c ON c.id = e.customer_id
	`

	var (
		clauses []string
		args    []any
	)
	if f.CustomerID != 0 {
		clauses = append(clauses, "e.customer_id = ?")
		args = append(args, f.CustomerID)
	}
	if f.From != "" {
		clauses = append(clauses, "e.entry_date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		clauses = append(clauses, "e.entry_date <= ?")
		args = append(args, f.To)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY e.entry_date ASC, c.name ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	list := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID,
			&e.Date,
			&e.CustomerID,
			&e.Customer,
			&e.QtyLiters,
			&e.Fat,
			&e.SNF,
			&e.Rate,
			&e.Amount,
			&e.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		list = append(list, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return list, nil
}
