package handlers

import (
	"qr-cache/app"

	"github.com/gofiber/fiber/v2"
)

// GetBanks proxies the external bank directory, unmodified
func GetBanks(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		banks, err := a.Banks.List(c.Context())
		if err != nil {
			return badGateway(c, "Bank directory is unavailable")
		}

		return success(c, fiber.Map{"banks": banks})
	}
}
