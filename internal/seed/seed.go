package seed

import (
	"database/sql"
	"fmt"

	"github.com/shiwanibaghel76/dairybook/internal/pricing"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way. Today that means
// guaranteeing the pricing-settings singleton exists with its defaults.
func Run(db *sql.DB) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureSettings(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureSettings(tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM settings WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check settings existence: %w", err)
	}
	if exists {
		return nil
	}

	s := pricing.DefaultSettings
	if _, err := tx.Exec(`
		INSERT INTO settings (id, base_fat, base_snf, base_rate, fat_rate, snf_rate)
		VALUES (1, ?, ?, ?, ?, ?)
	`, s.BaseFat, s.BaseSNF, s.BaseRate, s.FatRate, s.SNFRate); err != nil {
		return fmt.Errorf("insert settings singleton: %w", err)
	}
	stats.Inserts++
	return nil
}
