package dto

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type AddCartItemRequest struct {
	ProductID uint  `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int32 `json:"quantity"`
}

type CheckoutResponse struct {
	LocalID          string  `json:"local_id"`
	OrderID          string  `json:"order_id"`
	OrderApprovalURL string  `json:"order_approval_url"`
	Total            float64 `json:"total"`
}

type CardCheckoutRequest struct {
	PaymentToken string `json:"payment_token"`
}

type CaptureResponse struct {
	OrderID string  `json:"order_id"`
	PayerID string  `json:"payer_id"`
	Amount  float64 `json:"amount"`
}

type UpdateOrderStatusRequest struct {
	Status  string  `json:"status"`
	PayerID *string `json:"payer_id,omitempty"`
}

type ProductRequest struct {
	Name                 string  `json:"name"`
	Description          string  `json:"description"`
	Category             string  `json:"category"`
	Price                float64 `json:"price"`
	Stock                int32   `json:"stock"`
	RequiresPrescription bool    `json:"requires_prescription"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
