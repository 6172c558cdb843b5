package handlers

import (
	"errors"

	"qr-cache/app"
	"qr-cache/database"
	"qr-cache/models"

	"github.com/gofiber/fiber/v2"
)

// GetSettings returns the stored default profile. Keys that were never
// written come back as null.
func GetSettings(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		settings := fiber.Map{
			"defaultAccountName":   nil,
			"defaultAccountNumber": nil,
			"defaultBank":          nil,
		}

		name, found, err := a.Settings.GetDefaultAccountName()
		if err != nil {
			return settingsError(c, err)
		}
		if found {
			settings["defaultAccountName"] = name
		}

		number, found, err := a.Settings.GetDefaultAccountNumber()
		if err != nil {
			return settingsError(c, err)
		}
		if found {
			settings["defaultAccountNumber"] = number
		}

		bank, found, err := a.Settings.GetDefaultBank()
		if err != nil {
			return settingsError(c, err)
		}
		if found {
			settings["defaultBank"] = bank
		}

		return success(c, fiber.Map{"settings": settings})
	}
}

// UpdateSettings writes the provided default-profile values. Each key is
// an independent write; omitted keys are left untouched.
func UpdateSettings(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdateSettingsRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(&req); err != nil {
			return badRequest(c, err.Error())
		}

		if req.DefaultAccountName != nil {
			if err := a.Settings.SetDefaultAccountName(*req.DefaultAccountName); err != nil {
				return settingsError(c, err)
			}
		}
		if req.DefaultAccountNumber != nil {
			if err := a.Settings.SetDefaultAccountNumber(*req.DefaultAccountNumber); err != nil {
				return settingsError(c, err)
			}
		}
		if req.DefaultBank != nil {
			if err := a.Settings.SetDefaultBank(req.DefaultBank); err != nil {
				return settingsError(c, err)
			}
		}

		return success(c, fiber.Map{"message": "Settings saved successfully"})
	}
}

func settingsError(c *fiber.Ctx, err error) error {
	if errors.Is(err, database.ErrStorageUnavailable) {
		return serviceUnavailable(c, "Local storage is unavailable")
	}
	return serverErrorWithDetails(c, "Failed to access settings", err)
}
