package database

import (
	"database/sql"
	"fmt"

	"qr-cache/models"
)

// ==================== QR CODE OPERATIONS ====================

// CreateQRCode inserts a new history record and returns the id the store
// assigned to it. The same URL inserted twice produces two distinct rows.
func (r *Repository) CreateQRCode(code *models.QRCode) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO qr_codes (url, bank_name, account_no, amount, description,
			timestamp, is_pinned, template_name, account_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		code.URL, code.BankName, code.AccountNo, code.Amount, code.Description,
		code.Timestamp, code.IsPinned, code.TemplateName, code.AccountName,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert qr code: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read assigned id: %w", err)
	}

	code.ID = id
	return id, nil
}

// GetQRCode retrieves a single record by id, (nil, nil) when missing
func (r *Repository) GetQRCode(id int64) (*models.QRCode, error) {
	code, err := scanQRCode(r.db.QueryRow(`
		SELECT id, url, bank_name, account_no, amount, description,
		       timestamp, is_pinned, template_name, account_name
		FROM qr_codes
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return code, nil
}

// GetAllQRCodes returns every stored record. Iteration order is whatever
// the store yields; callers sort on top of it.
func (r *Repository) GetAllQRCodes() ([]models.QRCode, error) {
	rows, err := r.db.Query(`
		SELECT id, url, bank_name, account_no, amount, description,
		       timestamp, is_pinned, template_name, account_name
		FROM qr_codes
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Initialize with empty slice to avoid returning nil
	codes := make([]models.QRCode, 0)
	for rows.Next() {
		var code models.QRCode
		var pinned int
		if err := rows.Scan(
			&code.ID, &code.URL, &code.BankName, &code.AccountNo,
			&code.Amount, &code.Description, &code.Timestamp,
			&pinned, &code.TemplateName, &code.AccountName,
		); err != nil {
			return nil, err
		}
		code.IsPinned = pinned == 1
		codes = append(codes, code)
	}

	return codes, rows.Err()
}

// UpdateQRCode merges the patch over the stored record and writes the
// result back. The read and the write run in one transaction so two
// concurrent updates of the same id cannot lose fields between them.
// Timestamp is carried over untouched.
func (r *Repository) UpdateQRCode(id int64, patch *models.QRCodeUpdate) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin update transaction: %w", err)
	}
	defer tx.Rollback()

	code, err := scanQRCode(tx.QueryRow(`
		SELECT id, url, bank_name, account_no, amount, description,
		       timestamp, is_pinned, template_name, account_name
		FROM qr_codes
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	patch.Apply(code)

	if _, err := tx.Exec(`
		UPDATE qr_codes SET
			url = ?,
			bank_name = ?,
			account_no = ?,
			amount = ?,
			description = ?,
			is_pinned = ?,
			template_name = ?,
			account_name = ?
		WHERE id = ?
	`,
		code.URL, code.BankName, code.AccountNo, code.Amount,
		code.Description, code.IsPinned, code.TemplateName,
		code.AccountName, id,
	); err != nil {
		return fmt.Errorf("failed to update qr code: %w", err)
	}

	return tx.Commit()
}

// DeleteQRCode removes a record. Deleting an id that is not in the store
// is a no-op, not an error, so bulk deletion can tolerate stale ids.
func (r *Repository) DeleteQRCode(id int64) error {
	_, err := r.db.Exec("DELETE FROM qr_codes WHERE id = ?", id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQRCode(row rowScanner) (*models.QRCode, error) {
	var code models.QRCode
	var pinned int
	err := row.Scan(
		&code.ID, &code.URL, &code.BankName, &code.AccountNo,
		&code.Amount, &code.Description, &code.Timestamp,
		&pinned, &code.TemplateName, &code.AccountName,
	)
	if err != nil {
		return nil, err
	}
	code.IsPinned = pinned == 1
	return &code, nil
}
