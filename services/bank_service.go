package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"qr-cache/models"
)

// BankDirectory fetches the external bank directory. The list is passed
// through verbatim; there is no retry or transformation here.
type BankDirectory struct {
	url    string
	client *http.Client
}

func NewBankDirectory(url string) *BankDirectory {
	return &BankDirectory{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// List returns every bank descriptor the directory knows about.
func (d *BankDirectory) List(ctx context.Context) ([]models.Bank, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBankDirectoryUnavailable, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBankDirectoryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: directory returned status %d", ErrBankDirectoryUnavailable, resp.StatusCode)
	}

	var directory models.BankDirectoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&directory); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBankDirectoryUnavailable, err)
	}

	// The directory signals success with code "00"
	if directory.Code != "00" {
		return nil, fmt.Errorf("%w: directory returned code %s", ErrBankDirectoryUnavailable, directory.Code)
	}

	return directory.Data, nil
}
