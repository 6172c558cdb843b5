package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"qr-cache/app"
	"qr-cache/database"
	"qr-cache/models"
	"qr-cache/services"

	"github.com/gofiber/fiber/v2"
)

// downloadClient fetches image bytes from the external image service for
// the download endpoint.
var downloadClient = &http.Client{Timeout: 30 * time.Second}

// CreateQRCode generates a QR image URL and stores a history record for it
func CreateQRCode(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateQRCodeRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(&req); err != nil {
			return badRequest(c, err.Error())
		}

		code, err := a.QRCodes.Create(&req)
		if err != nil {
			if errors.Is(err, database.ErrStorageUnavailable) {
				return serviceUnavailable(c, "Local storage is unavailable")
			}
			return serverErrorWithDetails(c, "Failed to save QR code", err)
		}

		return created(c, fiber.Map{"qrcode": code})
	}
}

// ListQRCodes returns the stored history, filtered and sorted per query
func ListQRCodes(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sortBy := c.Query("sort", services.SortByTime)
		search := c.Query("search")

		listing, err := a.QRCodes.List(sortBy, search)
		if err != nil {
			if errors.Is(err, database.ErrStorageUnavailable) {
				return serviceUnavailable(c, "Local storage is unavailable")
			}
			return serverErrorWithDetails(c, "Failed to fetch QR history", err)
		}

		return success(c, fiber.Map{
			"pinned":   listing.Pinned,
			"unpinned": listing.Unpinned,
			"total":    listing.Total,
		})
	}
}

// UpdateQRCode applies a partial patch to one history record
func UpdateQRCode(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return badRequest(c, "Invalid QR code id")
		}

		var patch models.QRCodeUpdate
		if err := c.BodyParser(&patch); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.QRCodes.Update(int64(id), &patch); err != nil {
			if errors.Is(err, services.ErrQRCodeNotFound) {
				return notFound(c, "QR code not found")
			}
			return serverErrorWithDetails(c, "Failed to update QR code", err)
		}

		return success(c, fiber.Map{"message": "QR code updated successfully"})
	}
}

// TogglePin flips the pinned flag of one history record
func TogglePin(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return badRequest(c, "Invalid QR code id")
		}

		pinned, err := a.QRCodes.TogglePin(int64(id))
		if err != nil {
			if errors.Is(err, services.ErrQRCodeNotFound) {
				return notFound(c, "QR code not found")
			}
			return serverErrorWithDetails(c, "Failed to toggle pin", err)
		}

		return success(c, fiber.Map{"isPinned": pinned})
	}
}

// DeleteQRCode removes one history record. Deleting an id that no longer
// exists still succeeds.
func DeleteQRCode(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return badRequest(c, "Invalid QR code id")
		}

		if err := a.QRCodes.Delete(int64(id)); err != nil {
			return serverErrorWithDetails(c, "Failed to delete QR code", err)
		}

		return success(c, fiber.Map{"message": "QR code deleted successfully"})
	}
}

// DownloadQRCode streams the image bytes for one record from the external
// image service, with a download file name built from the bank name.
func DownloadQRCode(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return badRequest(c, "Invalid QR code id")
		}

		code, err := a.QRCodes.Get(int64(id))
		if err != nil {
			if errors.Is(err, services.ErrQRCodeNotFound) {
				return notFound(c, "QR code not found")
			}
			return serverErrorWithDetails(c, "Failed to fetch QR code", err)
		}

		resp, err := downloadClient.Get(code.URL)
		if err != nil {
			return badGateway(c, "Failed to fetch QR image")
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return badGateway(c, fmt.Sprintf("Image service returned status %d", resp.StatusCode))
		}

		filename := fmt.Sprintf("QR_%s_%d.png", code.BankName, time.Now().UnixMilli())
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		c.Set(fiber.HeaderContentType, resp.Header.Get(fiber.HeaderContentType))
		return c.SendStream(resp.Body)
	}
}

// BulkPin pins every requested id; ids that fail are reported per id
func BulkPin(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids, ok := parseBulkIDs(c, a)
		if !ok {
			return nil
		}

		result := a.QRCodes.BulkPin(ids)
		return success(c, fiber.Map{"result": result})
	}
}

// BulkDelete deletes every requested id
func BulkDelete(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids, ok := parseBulkIDs(c, a)
		if !ok {
			return nil
		}

		result := a.QRCodes.BulkDelete(ids)
		return success(c, fiber.Map{"result": result})
	}
}

// BulkDownload maps the requested ids to their stored image URLs
func BulkDownload(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids, ok := parseBulkIDs(c, a)
		if !ok {
			return nil
		}

		items, result := a.QRCodes.BulkDownloadURLs(ids)
		return success(c, fiber.Map{
			"downloads": items,
			"result":    result,
		})
	}
}

// parseBulkIDs parses and validates a bulk request body. On failure it
// writes the error response and reports ok=false.
func parseBulkIDs(c *fiber.Ctx, a *app.App) ([]int64, bool) {
	var req models.BulkRequest
	if err := c.BodyParser(&req); err != nil {
		badRequest(c, "Invalid request body")
		return nil, false
	}
	if err := a.Validator.Validate(&req); err != nil {
		badRequest(c, err.Error())
		return nil, false
	}
	return req.IDs, true
}
