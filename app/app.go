package app

import (
	"log/slog"

	"qr-cache/database"
	"qr-cache/services"
	"qr-cache/validator"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	Repo      *database.Repository
	QRCodes   *services.QRCodeService
	Settings  *services.SettingsService
	Banks     *services.BankDirectory
	Validator *validator.Validator
	Logger    *slog.Logger
}

// New creates a new App instance with all dependencies
func New(repo *database.Repository, qrCodes *services.QRCodeService, settings *services.SettingsService, banks *services.BankDirectory, logger *slog.Logger) *App {
	return &App{
		Repo:      repo,
		QRCodes:   qrCodes,
		Settings:  settings,
		Banks:     banks,
		Validator: validator.New(),
		Logger:    logger,
	}
}
