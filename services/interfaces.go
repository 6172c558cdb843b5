package services

import "qr-cache/models"

// QRCodeRepository defines the interface for QR history data access
type QRCodeRepository interface {
	CreateQRCode(code *models.QRCode) (int64, error)
	GetQRCode(id int64) (*models.QRCode, error)
	GetAllQRCodes() ([]models.QRCode, error)
	UpdateQRCode(id int64, patch *models.QRCodeUpdate) error
	DeleteQRCode(id int64) error
}

// SettingsRepository defines the interface for settings data access
type SettingsRepository interface {
	SetSetting(key string, value []byte) error
	GetSetting(key string) ([]byte, bool, error)
}
