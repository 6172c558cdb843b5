package services

import "errors"

// Common service-level errors
var (
	// QR history errors
	ErrQRCodeNotFound = errors.New("qr code not found")

	// Bank directory errors
	ErrBankDirectoryUnavailable = errors.New("bank directory unavailable")
)
