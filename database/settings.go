package database

import (
	"database/sql"
	"fmt"
)

// ==================== SETTINGS OPERATIONS ====================

// SetSetting writes one settings key. Each key is independent; there is
// no cross-key transaction.
func (r *Repository) SetSetting(key string, value []byte) error {
	_, err := r.db.Exec(`
		INSERT INTO settings (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write setting %q: %w", key, err)
	}
	return nil
}

// GetSetting reads one settings key. The second return value is false
// when the key has never been written.
func (r *Repository) GetSetting(key string) ([]byte, bool, error) {
	var value []byte
	err := r.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}
