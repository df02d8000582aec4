package model

// OrderStatus is the lifecycle state of a ledger row.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusFailed     OrderStatus = "FAILED"
	StatusCancelled  OrderStatus = "CANCELLED"
	StatusRefunded   OrderStatus = "REFUNDED"
)

// Terminal reports whether the orchestrator initiates no further transitions
// from this status.
func (s OrderStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

const (
	MethodPaypal = "PAYPAL"
	MethodCard   = "CARD"
)

// PaymentOrder is a row in the local payment ledger. LocalID is assigned by
// this process and never depends on the gateway; RemoteOrderID is set once the
// gateway accepts the order and is never cleared afterwards. Timestamps are
// epoch milliseconds.
type PaymentOrder struct {
	LocalID       string      `gorm:"primaryKey;size:36" json:"local_id"`
	UserID        uint        `gorm:"index;not null" json:"user_id"`
	Total         float64     `gorm:"not null" json:"total"`
	LineItemsJSON string      `gorm:"type:text;not null" json:"-"`
	Status        OrderStatus `gorm:"size:16;index;not null" json:"status"`
	PaymentMethod string      `gorm:"size:16;not null" json:"payment_method"`
	RemoteOrderID *string     `gorm:"size:64;index" json:"remote_order_id,omitempty"`
	RemotePayerID *string     `gorm:"size:64" json:"remote_payer_id,omitempty"`
	CreatedAt     int64       `gorm:"autoCreateTime:milli" json:"created_at"`
	UpdatedAt     int64       `gorm:"autoUpdateTime:milli" json:"updated_at"`
	Synchronized  bool        `gorm:"index;not null;default:false" json:"synchronized"`
	ErrorMessage  *string     `gorm:"size:512" json:"error_message,omitempty"`
}

// LineItem is one position of the cart snapshot embedded in a PaymentOrder.
// The snapshot is taken at order creation and never re-derived from the live
// cart, which may change or empty after checkout.
type LineItem struct {
	ProductID uint    `json:"product_id"`
	Quantity  int32   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}
