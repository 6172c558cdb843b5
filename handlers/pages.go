package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HomePage serves the SPA shell; the frontend bundle lives under /static
func HomePage(c *fiber.Ctx) error {
	return c.SendFile("./static/index.html")
}

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
