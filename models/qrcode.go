package models

// QRCode is one generated QR image in the local history.
// ID is assigned by the store on insert and is never reused, even after
// the row is deleted. Timestamp is creation time in milliseconds since
// epoch and never changes after insert.
type QRCode struct {
	ID           int64  `json:"id"`
	URL          string `json:"url"`
	BankName     string `json:"bankName"`
	AccountNo    string `json:"accountNo"`
	Amount       string `json:"amount,omitempty"`
	Description  string `json:"description,omitempty"`
	Timestamp    int64  `json:"timestamp"`
	IsPinned     bool   `json:"isPinned"`
	TemplateName string `json:"templateName,omitempty"`
	AccountName  string `json:"accountName,omitempty"`
}

// QRCodeUpdate is a partial patch for a stored QRCode. Nil fields are
// left untouched by the update. ID and Timestamp are not patchable.
type QRCodeUpdate struct {
	URL          *string `json:"url,omitempty"`
	BankName     *string `json:"bankName,omitempty"`
	AccountNo    *string `json:"accountNo,omitempty"`
	Amount       *string `json:"amount,omitempty"`
	Description  *string `json:"description,omitempty"`
	IsPinned     *bool   `json:"isPinned,omitempty"`
	TemplateName *string `json:"templateName,omitempty"`
	AccountName  *string `json:"accountName,omitempty"`
}

// Apply merges the patch over code in place.
func (u *QRCodeUpdate) Apply(code *QRCode) {
	if u.URL != nil {
		code.URL = *u.URL
	}
	if u.BankName != nil {
		code.BankName = *u.BankName
	}
	if u.AccountNo != nil {
		code.AccountNo = *u.AccountNo
	}
	if u.Amount != nil {
		code.Amount = *u.Amount
	}
	if u.Description != nil {
		code.Description = *u.Description
	}
	if u.IsPinned != nil {
		code.IsPinned = *u.IsPinned
	}
	if u.TemplateName != nil {
		code.TemplateName = *u.TemplateName
	}
	if u.AccountName != nil {
		code.AccountName = *u.AccountName
	}
}
