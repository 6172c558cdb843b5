package setup

import (
	"log/slog"

	"qr-cache/app"
	"qr-cache/config"
	"qr-cache/database"
	"qr-cache/services"
)

// InitDatabase opens the shared SQLite database and runs migrations
func InitDatabase(dbPath string, logger *slog.Logger) (*database.DB, error) {
	db, err := database.Open(dbPath)
	if err != nil {
		return nil, err
	}

	logger.Info("database initialized", "path", dbPath, "schema_version", database.SchemaVersion)
	return db, nil
}

// InitApp initializes the application with all dependencies
func InitApp(db *database.DB, logger *slog.Logger) *app.App {
	// Create repository over the shared handle
	repo := database.NewRepository(db)

	qrCodes := services.NewQRCodeService(repo, config.AppConfig.QRImageBaseURL)
	settings := services.NewSettingsService(repo)
	banks := services.NewBankDirectory(config.AppConfig.BankDirectoryURL)
	logger.Info("services initialized",
		"image_base_url", config.AppConfig.QRImageBaseURL,
		"bank_directory_url", config.AppConfig.BankDirectoryURL,
	)

	// Create App with all dependencies injected
	application := app.New(repo, qrCodes, settings, banks, logger)
	logger.Info("application initialized with dependency injection")

	return application
}

// Shutdown performs graceful shutdown of all services
func Shutdown(db *database.DB, logger *slog.Logger) {
	logger.Info("shutting down services...")

	if db != nil {
		db.Close()
		logger.Info("database closed")
	}
}
