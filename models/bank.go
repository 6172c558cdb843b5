package models

// Bank mirrors one descriptor from the vietqr bank directory. The shape
// tracks whatever the directory returns; the store persists it unmodified
// as the defaultBank setting.
type Bank struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	Code              string `json:"code"`
	Bin               string `json:"bin"`
	ShortName         string `json:"shortName"`
	ShortNameAlias    string `json:"short_name"`
	Logo              string `json:"logo"`
	TransferSupported int    `json:"transferSupported"`
	LookupSupported   int    `json:"lookupSupported"`
	Support           int    `json:"support"`
	IsTransfer        int    `json:"isTransfer"`
	SwiftCode         string `json:"swift_code"`
}

// BankDirectoryResponse is the envelope the directory endpoint wraps the
// bank list in.
type BankDirectoryResponse struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
	Data []Bank `json:"data"`
}
