package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"pharmacy-backend/internal/config"
	apperr "pharmacy-backend/internal/errors"
	"pharmacy-backend/internal/model"
)

type PaypalClient interface {
	CreateOrder(ctx context.Context, total decimal.Decimal, itemCount int) (*CreateOrderResponse, error)
	CaptureOrder(ctx context.Context, orderID string) (*CaptureOrderResponse, error)
}

type CreateOrderResponse struct {
	OrderID    string
	Status     string
	ApproveURL string
}

type CaptureOrderResponse struct {
	OrderID string
	Status  string
	PayerID string
	Amount  float64
}

type paypalClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	baseURL    string
	tokens     TokenSource
	logger     zerolog.Logger
}

func NewPaypalClient(paypalCfg *config.Paypal, baseURL string, tokens TokenSource, logger zerolog.Logger) PaypalClient {
	return &paypalClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: paypalCfg.BaseApiURL,
		baseURL:    baseURL,
		tokens:     tokens,
		logger:     logger,
	}
}

func (c *paypalClientImpl) CreateOrder(ctx context.Context, total decimal.Decimal, itemCount int) (*CreateOrderResponse, error) {
	accessToken, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("get paypal access token: %w", err)
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]string{
					"currency_code": "USD",
					"value":         total.StringFixed(2),
				},
				"description":  fmt.Sprintf("Pharmacy order (%d items)", itemCount),
				"reference_id": uuid.NewString(),
			},
		},
		"application_context": map[string]string{
			"return_url": fmt.Sprintf("%s/api/payments/paypal/success", c.baseURL),
			"cancel_url": fmt.Sprintf("%s/api/payments/paypal/cancel", c.baseURL),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/v2/checkout/orders", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrTransport, "paypal create order: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, apperr.Wrap(apperr.ErrGatewayRequest,
			"paypal create order: status=%d body=%s", resp.StatusCode, string(b))
	}

	var result model.PaypalCreateOrderResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperr.Wrap(apperr.ErrGatewayRequest, "decode paypal order response: %v", err)
	}

	return &CreateOrderResponse{
		OrderID:    result.ID,
		Status:     result.Status,
		ApproveURL: extractApproveURL(result.Links),
	}, nil
}

func (c *paypalClientImpl) CaptureOrder(ctx context.Context, orderID string) (*CaptureOrderResponse, error) {
	accessToken, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("get paypal access token: %w", err)
	}

	url := fmt.Sprintf("%s/v2/checkout/orders/%s/capture", c.baseApiURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build capture request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrTransport, "paypal capture: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, apperr.Wrap(apperr.ErrGatewayRequest,
			"paypal capture: status=%d body=%s", resp.StatusCode, string(b))
	}

	var result model.PaypalCaptureResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperr.Wrap(apperr.ErrGatewayRequest, "decode paypal capture response: %v", err)
	}

	return &CaptureOrderResponse{
		OrderID: result.ID,
		Status:  result.Status,
		PayerID: result.Payer.PayerID,
		Amount:  c.capturedAmount(orderID, &result),
	}, nil
}

// capturedAmount digs the captured value out of the nested capture payload.
// A missing path defaults to 0 so a partial payload does not fail the whole
// capture, but that almost certainly means the gateway schema changed, so it
// is worth a warning.
func (c *paypalClientImpl) capturedAmount(orderID string, result *model.PaypalCaptureResult) float64 {
	if len(result.PurchaseUnits) == 0 || len(result.PurchaseUnits[0].Payments.Captures) == 0 {
		c.logger.Warn().Str("order_id", orderID).
			Msg("capture response missing nested amount, defaulting to 0")
		return 0
	}

	value := result.PurchaseUnits[0].Payments.Captures[0].Amount.Value
	amount, err := decimal.NewFromString(value)
	if err != nil {
		c.logger.Warn().Str("order_id", orderID).Str("value", value).
			Msg("capture response amount not parseable, defaulting to 0")
		return 0
	}

	f, _ := amount.Float64()
	return f
}

func extractApproveURL(links []model.PaypalLink) string {
	for _, link := range links {
		if link.Rel == "approve" {
			return link.Href
		}
	}
	return ""
}
