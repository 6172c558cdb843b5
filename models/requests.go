package models

type CreateQRCodeRequest struct {
	BankBin      string `json:"bankBin" validate:"required,numeric"`
	BankName     string `json:"bankName" validate:"required,min=1,max=100"`
	AccountNo    string `json:"accountNo" validate:"required,accountno"`
	TemplateName string `json:"templateName" validate:"required,qrtemplate"`
	Amount       string `json:"amount" validate:"omitempty,numeric"`
	Description  string `json:"description" validate:"max=500"`
	AccountName  string `json:"accountName" validate:"max=100"`
}

type BulkRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1"`
}

type UpdateSettingsRequest struct {
	DefaultAccountName   *string `json:"defaultAccountName,omitempty" validate:"omitempty,max=100"`
	DefaultAccountNumber *string `json:"defaultAccountNumber,omitempty" validate:"omitempty,accountno"`
	DefaultBank          *Bank   `json:"defaultBank,omitempty"`
}
