package model

// Wire types for the PayPal v2 checkout API. Only the fields this service
// reads are declared.

type PaypalLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

type PaypalAmount struct {
	Currency string `json:"currency_code"`
	Value    string `json:"value"`
}

type Payer struct {
	PayerID string `json:"payer_id"`
	Email   string `json:"email_address"`
}

type PaypalCreateOrderResult struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Links  []PaypalLink `json:"links"`
}

type PaypalCaptureDetail struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Amount PaypalAmount `json:"amount"`
}

type PaypalPayments struct {
	Captures []PaypalCaptureDetail `json:"captures"`
}

type PaypalPurchaseUnit struct {
	ReferenceID string         `json:"reference_id"`
	Payments    PaypalPayments `json:"payments"`
}

type PaypalCaptureResult struct {
	ID            string               `json:"id"`
	Status        string               `json:"status"`
	Payer         Payer                `json:"payer"`
	PurchaseUnits []PaypalPurchaseUnit `json:"purchase_units"`
}
