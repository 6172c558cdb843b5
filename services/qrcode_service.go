package services

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"qr-cache/database"
	"qr-cache/models"

	"github.com/alitto/pond/v2"
)

// bulkWorkers bounds the fan-out of bulk actions. The store serializes
// conflicting writes itself; the bound only keeps the connection pool sane.
const bulkWorkers = 8

// QRCodeService handles business logic for the QR history
type QRCodeService struct {
	repo         QRCodeRepository
	imageBaseURL string
	pool         pond.Pool
}

// NewQRCodeService creates a new QR code service. imageBaseURL is the
// external image endpoint prefix, e.g. https://img.vietqr.io/image.
func NewQRCodeService(repo QRCodeRepository, imageBaseURL string) *QRCodeService {
	return &QRCodeService{
		repo:         repo,
		imageBaseURL: strings.TrimRight(imageBaseURL, "/"),
		pool:         pond.NewPool(bulkWorkers),
	}
}

// Create builds the image URL for the request, persists a history record
// for it, and returns the record with its assigned id. The same request
// submitted twice creates two distinct records.
func (s *QRCodeService) Create(req *models.CreateQRCodeRequest) (*models.QRCode, error) {
	code := &models.QRCode{
		URL:          s.buildImageURL(req),
		BankName:     req.BankName,
		AccountNo:    req.AccountNo,
		Amount:       req.Amount,
		Description:  req.Description,
		Timestamp:    time.Now().UnixMilli(),
		IsPinned:     false,
		TemplateName: req.TemplateName,
		AccountName:  req.AccountName,
	}

	if _, err := s.repo.CreateQRCode(code); err != nil {
		return nil, err
	}

	return code, nil
}

// buildImageURL constructs the external image-service URL:
// {base}/{bin}-{accountNo}-{template}.png?amount=&addInfo=&accountName=
func (s *QRCodeService) buildImageURL(req *models.CreateQRCodeRequest) string {
	u := fmt.Sprintf("%s/%s-%s-%s.png", s.imageBaseURL, req.BankBin, req.AccountNo, req.TemplateName)

	params := url.Values{}
	if req.Amount != "" {
		params.Set("amount", req.Amount)
	}
	if req.Description != "" {
		params.Set("addInfo", req.Description)
	}
	if req.AccountName != "" {
		params.Set("accountName", req.AccountName)
	}

	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// Get retrieves one record by id
func (s *QRCodeService) Get(id int64) (*models.QRCode, error) {
	code, err := s.repo.GetQRCode(id)
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, ErrQRCodeNotFound
	}
	return code, nil
}

// SortByTime and SortByBankName are the two orderings the history page
// offers. Anything else falls back to SortByTime.
const (
	SortByTime     = "time"
	SortByBankName = "bankName"
)

// HistoryListing partitions the history into pinned and unpinned records,
// both sorted by the requested order.
type HistoryListing struct {
	Pinned   []models.QRCode `json:"pinned"`
	Unpinned []models.QRCode `json:"unpinned"`
	Total    int             `json:"total"`
}

// List returns the stored history filtered by search and sorted by sortBy.
// Search matches the bank name case-insensitively or the account number
// as a substring. Filtering and sorting are view policy; the stored
// records are never altered.
func (s *QRCodeService) List(sortBy, search string) (*HistoryListing, error) {
	codes, err := s.repo.GetAllQRCodes()
	if err != nil {
		return nil, err
	}

	if search != "" {
		needle := strings.ToLower(search)
		filtered := make([]models.QRCode, 0, len(codes))
		for _, code := range codes {
			if strings.Contains(strings.ToLower(code.BankName), needle) ||
				strings.Contains(code.AccountNo, search) {
				filtered = append(filtered, code)
			}
		}
		codes = filtered
	}

	switch sortBy {
	case SortByBankName:
		sort.SliceStable(codes, func(i, j int) bool {
			return codes[i].BankName < codes[j].BankName
		})
	default:
		sort.SliceStable(codes, func(i, j int) bool {
			return codes[i].Timestamp > codes[j].Timestamp
		})
	}

	listing := &HistoryListing{
		Pinned:   make([]models.QRCode, 0),
		Unpinned: make([]models.QRCode, 0),
		Total:    len(codes),
	}
	for _, code := range codes {
		if code.IsPinned {
			listing.Pinned = append(listing.Pinned, code)
		} else {
			listing.Unpinned = append(listing.Unpinned, code)
		}
	}

	return listing, nil
}

// Update applies a partial patch to one record
func (s *QRCodeService) Update(id int64, patch *models.QRCodeUpdate) error {
	err := s.repo.UpdateQRCode(id, patch)
	if errors.Is(err, database.ErrNotFound) {
		return ErrQRCodeNotFound
	}
	return err
}

// TogglePin flips the pinned flag of one record and returns the new state
func (s *QRCodeService) TogglePin(id int64) (bool, error) {
	code, err := s.repo.GetQRCode(id)
	if err != nil {
		return false, err
	}
	if code == nil {
		return false, ErrQRCodeNotFound
	}

	pinned := !code.IsPinned
	if err := s.Update(id, &models.QRCodeUpdate{IsPinned: &pinned}); err != nil {
		return false, err
	}
	return pinned, nil
}

// Delete removes one record. Deleting an id that does not exist succeeds.
func (s *QRCodeService) Delete(id int64) error {
	return s.repo.DeleteQRCode(id)
}

// BulkOutcome reports the result of one id within a bulk action
type BulkOutcome struct {
	ID    int64  `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// BulkResult aggregates a bulk action. Every requested id is attempted;
// ids that fail never roll back the ones that succeeded.
type BulkResult struct {
	Attempted int           `json:"attempted"`
	Succeeded int           `json:"succeeded"`
	Outcomes  []BulkOutcome `json:"outcomes"`
}

// BulkPin pins every id in ids
func (s *QRCodeService) BulkPin(ids []int64) *BulkResult {
	pinned := true
	return s.runBulk(ids, func(id int64) error {
		return s.Update(id, &models.QRCodeUpdate{IsPinned: &pinned})
	})
}

// BulkDelete deletes every id in ids. Missing ids count as successes
// because delete is idempotent.
func (s *QRCodeService) BulkDelete(ids []int64) *BulkResult {
	return s.runBulk(ids, s.repo.DeleteQRCode)
}

// DownloadItem pairs a stored image URL with the bank name the download
// routine uses for the file name.
type DownloadItem struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	BankName string `json:"bankName"`
}

// BulkDownloadURLs maps ids to their stored url and bank name. Ids not in
// the store are reported as failed outcomes; the rest are still returned.
func (s *QRCodeService) BulkDownloadURLs(ids []int64) ([]DownloadItem, *BulkResult) {
	items := make([]DownloadItem, len(ids))
	result := &BulkResult{
		Attempted: len(ids),
		Outcomes:  make([]BulkOutcome, len(ids)),
	}

	tasks := make([]pond.Task, len(ids))
	for i, id := range ids {
		tasks[i] = s.pool.SubmitErr(func() error {
			code, err := s.repo.GetQRCode(id)
			if err != nil {
				return err
			}
			if code == nil {
				return ErrQRCodeNotFound
			}
			items[i] = DownloadItem{ID: id, URL: code.URL, BankName: code.BankName}
			return nil
		})
	}

	found := make([]DownloadItem, 0, len(ids))
	for i, task := range tasks {
		outcome := BulkOutcome{ID: ids[i], OK: true}
		if err := task.Wait(); err != nil {
			outcome.OK = false
			outcome.Error = err.Error()
		} else {
			result.Succeeded++
			found = append(found, items[i])
		}
		result.Outcomes[i] = outcome
	}
	return found, result
}

// runBulk fans op out over ids on the worker pool. Each id is an
// independent operation; a failure for one id never stops the others.
func (s *QRCodeService) runBulk(ids []int64, op func(int64) error) *BulkResult {
	result := &BulkResult{
		Attempted: len(ids),
		Outcomes:  make([]BulkOutcome, len(ids)),
	}

	tasks := make([]pond.Task, len(ids))
	for i, id := range ids {
		tasks[i] = s.pool.SubmitErr(func() error {
			return op(id)
		})
	}

	for i, task := range tasks {
		outcome := BulkOutcome{ID: ids[i], OK: true}
		if err := task.Wait(); err != nil {
			outcome.OK = false
			outcome.Error = err.Error()
		} else {
			result.Succeeded++
		}
		result.Outcomes[i] = outcome
	}

	return result
}
