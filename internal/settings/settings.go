package settings

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shiwanibaghel76/dairybook/internal/pricing"
)

// Repo reads and writes the single pricing-settings record (row id = 1).
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Get returns the current pricing settings. The seed guarantees the row
// exists, so a missing row is a storage fault, not a domain condition.
func (r *Repo) Get() (pricing.Settings, error) {
	var s pricing.Settings
	err := r.db.QueryRow(`
		SELECT base_fat, base_snf, base_rate, fat_rate, snf_rate
		FROM settings
		WHERE id = 1
	`).Scan(&s.BaseFat, &s.BaseSNF, &s.BaseRate, &s.FatRate, &s.SNFRate)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.Settings{}, fmt.Errorf("settings singleton not found")
	}
	if err != nil {
		return pricing.Settings{}, fmt.Errorf("query settings: %w", err)
	}
	return s, nil
}

// Update replaces all five coefficients in one statement. Stored entries keep
// the rate and amount computed when they were recorded.
func (r *Repo) Update(s pricing.Settings) error {
	_, err := r.db.Exec(`
		UPDATE settings
		SET base_fat = ?, base_snf = ?, base_rate = ?, fat_rate = ?, snf_rate = ?
		WHERE id = 1
	`, s.BaseFat, s.BaseSNF, s.BaseRate, s.FatRate, s.SNFRate)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}
