package handlers_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"qr-cache/app"
	"qr-cache/database"
	"qr-cache/handlers"
	"qr-cache/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testImageBase = "https://img.vietqr.io/image"

// setupTestDB creates a temporary test database and returns app with all dependencies
func setupTestDB(t *testing.T) (*app.App, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "qr-cache-test-*")
	require.NoError(t, err, "Failed to create temp directory")

	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := database.New(dbPath)
	require.NoError(t, err, "Failed to initialize test database")

	err = db.Migrate()
	require.NoError(t, err, "Failed to run migrations")

	repo := database.NewRepository(db)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	qrCodes := services.NewQRCodeService(repo, testImageBase)
	settings := services.NewSettingsService(repo)

	application := app.New(repo, qrCodes, settings, nil, logger)

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return application, cleanup
}

// setupTestApp creates a test Fiber app with the production error handler shape
func setupTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})
}

func postJSON(t *testing.T, fiberApp *fiber.App, path string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reqBody []byte
	if payload != nil {
		var err error
		reqBody, err = json.Marshal(payload)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func createTestQRCode(t *testing.T, fiberApp *fiber.App, bankName, accountNo string) int64 {
	t.Helper()

	resp, body := postJSON(t, fiberApp, "/api/qrcodes", map[string]interface{}{
		"bankBin":      "970436",
		"bankName":     bankName,
		"accountNo":    accountNo,
		"templateName": "compact",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	code := body["qrcode"].(map[string]interface{})
	return int64(code["id"].(float64))
}

func TestCreateQRCode(t *testing.T) {
	application, cleanup := setupTestDB(t)
	defer cleanup()

	fiberApp := setupTestApp()
	fiberApp.Post("/api/qrcodes", handlers.CreateQRCode(application))

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		validateBody   func(t *testing.T, body map[string]interface{})
	}{
		{
			name: "Full request",
			requestBody: map[string]interface{}{
				"bankBin":      "970436",
				"bankName":     "Vietcombank",
				"accountNo":    "12345678",
				"templateName": "compact",
				"amount":       "50000",
				"description":  "lunch",
				"accountName":  "NGUYEN VAN A",
			},
			expectedStatus: http.StatusCreated,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				code := body["qrcode"].(map[string]interface{})
				assert.Greater(t, code["id"].(float64), float64(0))
				assert.Equal(t,
					testImageBase+"/970436-12345678-compact.png?accountName=NGUYEN+VAN+A&addInfo=lunch&amount=50000",
					code["url"])
				assert.Equal(t, "Vietcombank", code["bankName"])
				assert.Equal(t, false, code["isPinned"])
			},
		},
		{
			name: "Minimal request has no query string",
			requestBody: map[string]interface{}{
				"bankBin":      "970416",
				"bankName":     "ACB",
				"accountNo":    "87654321",
				"templateName": "qr_only",
			},
			expectedStatus: http.StatusCreated,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				code := body["qrcode"].(map[string]interface{})
				assert.Equal(t, testImageBase+"/970416-87654321-qr_only.png", code["url"])
			},
		},
		{
			name: "Account number too short",
			requestBody: map[string]interface{}{
				"bankBin":      "970436",
				"bankName":     "Vietcombank",
				"accountNo":    "123",
				"templateName": "compact",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "accountNo must be at least 4 digits",
		},
		{
			name: "Unknown template",
			requestBody: map[string]interface{}{
				"bankBin":      "970436",
				"bankName":     "Vietcombank",
				"accountNo":    "12345678",
				"templateName": "fancy",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "templateName must be one of: compact, qr_only",
		},
		{
			name:           "Missing everything",
			requestBody:    map[string]interface{}{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postJSON(t, fiberApp, "/api/qrcodes", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedError != "" {
				assert.Contains(t, body["error"], tt.expectedError)
			}
			if tt.validateBody != nil {
				tt.validateBody(t, body)
			}
		})
	}
}

func TestListQRCodes(t *testing.T) {
	application, cleanup := setupTestDB(t)
	defer cleanup()

	fiberApp := setupTestApp()
	fiberApp.Post("/api/qrcodes", handlers.CreateQRCode(application))
	fiberApp.Get("/api/qrcodes", handlers.ListQRCodes(application))
	fiberApp.Put("/api/qrcodes/:id/pin", handlers.TogglePin(application))

	vcbID := createTestQRCode(t, fiberApp, "Vietcombank", "11112222")
	createTestQRCode(t, fiberApp, "ACB", "33334444")

	// Pin the Vietcombank entry
	req := httptest.NewRequest(http.MethodPut, "/api/qrcodes/"+itoa(vcbID)+"/pin", nil)
	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tests := []struct {
		name             string
		query            string
		expectedPinned   int
		expectedUnpinned int
		expectedTotal    float64
	}{
		{
			name:             "All entries, partitioned by pin",
			query:            "",
			expectedPinned:   1,
			expectedUnpinned: 1,
			expectedTotal:    2,
		},
		{
			name:             "Search by bank name is case-insensitive",
			query:            "?search=vietcom",
			expectedPinned:   1,
			expectedUnpinned: 0,
			expectedTotal:    1,
		},
		{
			name:             "Search by account number substring",
			query:            "?search=3344",
			expectedPinned:   0,
			expectedUnpinned: 1,
			expectedTotal:    1,
		},
		{
			name:             "Search with no match",
			query:            "?search=nothing",
			expectedPinned:   0,
			expectedUnpinned: 0,
			expectedTotal:    0,
		},
		{
			name:             "Sort by bank name",
			query:            "?sort=bankName",
			expectedPinned:   1,
			expectedUnpinned: 1,
			expectedTotal:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/qrcodes"+tt.query, nil)
			resp, err := fiberApp.Test(req, -1)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

			assert.Len(t, body["pinned"], tt.expectedPinned)
			assert.Len(t, body["unpinned"], tt.expectedUnpinned)
			assert.Equal(t, tt.expectedTotal, body["total"])
		})
	}
}

func TestUpdateQRCodeHandler(t *testing.T) {
	application, cleanup := setupTestDB(t)
	defer cleanup()

	fiberApp := setupTestApp()
	fiberApp.Post("/api/qrcodes", handlers.CreateQRCode(application))
	fiberApp.Put("/api/qrcodes/:id", handlers.UpdateQRCode(application))

	id := createTestQRCode(t, fiberApp, "Vietcombank", "12345678")

	t.Run("Patch one field", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]interface{}{"amount": "99000"})
		req := httptest.NewRequest(http.MethodPut, "/api/qrcodes/"+itoa(id), bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := fiberApp.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		code, err := application.Repo.GetQRCode(id)
		require.NoError(t, err)
		require.NotNil(t, code)
		assert.Equal(t, "99000", code.Amount)
		assert.Equal(t, "Vietcombank", code.BankName)
	})

	t.Run("Unknown id", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]interface{}{"amount": "99000"})
		req := httptest.NewRequest(http.MethodPut, "/api/qrcodes/999999", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := fiberApp.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/qrcodes/abc", bytes.NewReader([]byte("{}")))
		req.Header.Set("Content-Type", "application/json")

		resp, err := fiberApp.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeleteQRCodeHandler(t *testing.T) {
	application, cleanup := setupTestDB(t)
	defer cleanup()

	fiberApp := setupTestApp()
	fiberApp.Post("/api/qrcodes", handlers.CreateQRCode(application))
	fiberApp.Delete("/api/qrcodes/:id", handlers.DeleteQRCode(application))

	id := createTestQRCode(t, fiberApp, "Vietcombank", "12345678")

	deleteOnce := func() int {
		req := httptest.NewRequest(http.MethodDelete, "/api/qrcodes/"+itoa(id), nil)
		resp, err := fiberApp.Test(req, -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, deleteOnce())
	// Deleting again is still a success
	assert.Equal(t, http.StatusOK, deleteOnce())

	code, err := application.Repo.GetQRCode(id)
	require.NoError(t, err)
	assert.Nil(t, code)
}

func TestBulkHandlers(t *testing.T) {
	application, cleanup := setupTestDB(t)
	defer cleanup()

	fiberApp := setupTestApp()
	fiberApp.Post("/api/qrcodes", handlers.CreateQRCode(application))
	fiberApp.Post("/api/qrcodes/bulk/pin", handlers.BulkPin(application))
	fiberApp.Post("/api/qrcodes/bulk/delete", handlers.BulkDelete(application))
	fiberApp.Post("/api/qrcodes/bulk/download", handlers.BulkDownload(application))

	first := createTestQRCode(t, fiberApp, "Vietcombank", "11112222")
	second := createTestQRCode(t, fiberApp, "ACB", "33334444")
	missing := second + 1000

	t.Run("Empty id list is rejected", func(t *testing.T) {
		resp, _ := postJSON(t, fiberApp, "/api/qrcodes/bulk/pin", map[string]interface{}{
			"ids": []int64{},
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Bulk pin reports per-id outcomes", func(t *testing.T) {
		resp, body := postJSON(t, fiberApp, "/api/qrcodes/bulk/pin", map[string]interface{}{
			"ids": []int64{first, missing, second},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		result := body["result"].(map[string]interface{})
		assert.Equal(t, float64(3), result["attempted"])
		assert.Equal(t, float64(2), result["succeeded"])

		outcomes := result["outcomes"].([]interface{})
		require.Len(t, outcomes, 3)
		assert.False(t, outcomes[1].(map[string]interface{})["ok"].(bool))

		// The surviving ids really are pinned
		code, err := application.Repo.GetQRCode(first)
		require.NoError(t, err)
		assert.True(t, code.IsPinned)
	})

	t.Run("Bulk download resolves stored URLs", func(t *testing.T) {
		resp, body := postJSON(t, fiberApp, "/api/qrcodes/bulk/download", map[string]interface{}{
			"ids": []int64{first, missing},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		downloads := body["downloads"].([]interface{})
		require.Len(t, downloads, 1)
		item := downloads[0].(map[string]interface{})
		assert.Equal(t, float64(first), item["id"])
		assert.Contains(t, item["url"], "970436-11112222-compact.png")

		result := body["result"].(map[string]interface{})
		assert.Equal(t, float64(1), result["succeeded"])
	})

	t.Run("Bulk delete removes all requested ids", func(t *testing.T) {
		resp, body := postJSON(t, fiberApp, "/api/qrcodes/bulk/delete", map[string]interface{}{
			"ids": []int64{first, second, missing},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		// Deleting a missing id is a no-op, so every outcome succeeds
		result := body["result"].(map[string]interface{})
		assert.Equal(t, float64(3), result["succeeded"])

		codes, err := application.Repo.GetAllQRCodes()
		require.NoError(t, err)
		assert.Empty(t, codes)
	})
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
