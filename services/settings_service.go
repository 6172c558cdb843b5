package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"qr-cache/models"
)

// Settings keys. Each key is written and read independently.
const (
	keyDefaultAccountName   = "defaultAccountName"
	keyDefaultAccountNumber = "defaultAccountNumber"
	keyDefaultBank          = "defaultBank"
)

// SettingsService handles the three default-profile values used to
// pre-fill the generation form.
type SettingsService struct {
	repo SettingsRepository
}

func NewSettingsService(repo SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// SetDefaultAccountName stores the default sender name, uppercased.
// Normalization happens on write; stored values are always uppercase.
func (s *SettingsService) SetDefaultAccountName(name string) error {
	return s.repo.SetSetting(keyDefaultAccountName, []byte(strings.ToUpper(name)))
}

// GetDefaultAccountName returns the stored default sender name, or
// found=false when it was never set.
func (s *SettingsService) GetDefaultAccountName() (string, bool, error) {
	value, found, err := s.repo.GetSetting(keyDefaultAccountName)
	if err != nil || !found {
		return "", false, err
	}
	return string(value), true, nil
}

// SetDefaultAccountNumber stores the default account number as given.
func (s *SettingsService) SetDefaultAccountNumber(number string) error {
	return s.repo.SetSetting(keyDefaultAccountNumber, []byte(number))
}

func (s *SettingsService) GetDefaultAccountNumber() (string, bool, error) {
	value, found, err := s.repo.GetSetting(keyDefaultAccountNumber)
	if err != nil || !found {
		return "", false, err
	}
	return string(value), true, nil
}

// SetDefaultBank persists the bank descriptor unmodified, as JSON. The
// descriptor comes straight from the external directory; the store treats
// it as an opaque blob.
func (s *SettingsService) SetDefaultBank(bank *models.Bank) error {
	blob, err := json.Marshal(bank)
	if err != nil {
		return fmt.Errorf("failed to encode default bank: %w", err)
	}
	return s.repo.SetSetting(keyDefaultBank, blob)
}

func (s *SettingsService) GetDefaultBank() (*models.Bank, bool, error) {
	blob, found, err := s.repo.GetSetting(keyDefaultBank)
	if err != nil || !found {
		return nil, false, err
	}

	var bank models.Bank
	if err := json.Unmarshal(blob, &bank); err != nil {
		return nil, false, fmt.Errorf("failed to decode default bank: %w", err)
	}
	return &bank, true, nil
}
