package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pharmacy-backend/internal/client"
	apperr "pharmacy-backend/internal/errors"
	"pharmacy-backend/internal/model"
	"pharmacy-backend/internal/repository"
)

// CheckoutResult is returned from a successful PayPal checkout; the caller
// redirects the buyer to ApproveURL and reports back via the capture path.
type CheckoutResult struct {
	Order      *model.PaymentOrder
	ApproveURL string
}

// CaptureResult is the definite outcome of a capture attempt.
type CaptureResult struct {
	OrderID string
	PayerID string
	Amount  float64
}

// PaymentService orchestrates the order lifecycle against the payment gateway
// while keeping the local ledger consistent. Gateway and storage failures are
// converted to the typed kinds in internal/errors; nothing rawer crosses this
// boundary.
type PaymentService interface {
	CheckoutCart(ctx context.Context, userID uint) (*CheckoutResult, error)
	CheckoutCartWithCard(ctx context.Context, userID uint, paymentToken string) (*model.PaymentOrder, error)
	Checkout(ctx context.Context, userID uint, items []model.LineItem, total float64) (*CheckoutResult, error)
	Capture(ctx context.Context, remoteOrderID string) (*CaptureResult, error)
	PayWithCard(ctx context.Context, userID uint, items []model.LineItem, total float64, paymentToken string) (*model.PaymentOrder, error)
	RecordLocalOrder(ctx context.Context, userID uint, items []model.LineItem, total float64, remoteOrderID *string) (*model.PaymentOrder, error)
	UpdateStatus(ctx context.Context, localID string, status model.OrderStatus, payerID *string) error
	CancelOrder(ctx context.Context, localID string) error
	ListOrders(ctx context.Context, userID uint) ([]*model.PaymentOrder, error)
	SyncCompletedOrders(ctx context.Context) (int, error)
}

type paymentServiceImpl struct {
	db              *gorm.DB
	paypalClient    client.PaypalClient
	braintreeClient client.BraintreeClient
	paymentRepo     repository.PaymentRepository
	cartRepo        repository.CartRepository
	productRepo     repository.ProductRepository
	logger          zerolog.Logger
}

func NewPaymentService(
	db *gorm.DB,
	paypalClient client.PaypalClient,
	braintreeClient client.BraintreeClient,
	paymentRepo repository.PaymentRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) PaymentService {
	return &paymentServiceImpl{
		db:              db,
		paypalClient:    paypalClient,
		braintreeClient: braintreeClient,
		paymentRepo:     paymentRepo,
		cartRepo:        cartRepo,
		productRepo:     productRepo,
		logger:          logger,
	}
}

// cartSnapshot freezes the user's cart into order line items with the unit
// prices in effect right now. The snapshot belongs to the order from here on;
// later cart changes do not touch it.
func (s *paymentServiceImpl) cartSnapshot(ctx context.Context, userID uint) ([]model.LineItem, float64, error) {
	cartItems, err := s.cartRepo.List(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if len(cartItems) == 0 {
		return nil, 0, apperr.Wrap(apperr.ErrValidation, "cart is empty")
	}

	items := make([]model.LineItem, len(cartItems))
	total := decimal.Zero
	for i, ci := range cartItems {
		if ci.Product == nil {
			return nil, 0, apperr.Wrap(apperr.ErrStorage, "cart references missing product %d", ci.ProductID)
		}
		items[i] = model.LineItem{
			ProductID: ci.ProductID,
			Quantity:  ci.Quantity,
			UnitPrice: ci.Product.Price,
		}
		total = total.Add(decimal.NewFromFloat(ci.Product.Price).Mul(decimal.NewFromInt32(ci.Quantity)))
	}

	f, _ := total.Float64()
	return items, f, nil
}

// consumeCart reserves stock for the snapshot and empties the cart in a
// single transaction, once the order exists.
func (s *paymentServiceImpl) consumeCart(ctx context.Context, userID uint, items []model.LineItem) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if err := s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return s.cartRepo.Clear(ctx, tx, userID)
	})
}

// CheckoutCart snapshots the user's cart and runs the PayPal checkout on it.
func (s *paymentServiceImpl) CheckoutCart(ctx context.Context, userID uint) (*CheckoutResult, error) {
	items, total, err := s.cartSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.Checkout(ctx, userID, items, total)
	if err != nil {
		return nil, err
	}

	if err := s.consumeCart(ctx, userID, items); err != nil {
		return nil, err
	}

	return result, nil
}

// CheckoutCartWithCard snapshots the cart and charges it through braintree.
func (s *paymentServiceImpl) CheckoutCartWithCard(ctx context.Context, userID uint, paymentToken string) (*model.PaymentOrder, error) {
	items, total, err := s.cartSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	order, err := s.PayWithCard(ctx, userID, items, total, paymentToken)
	if err != nil {
		return nil, err
	}

	if err := s.consumeCart(ctx, userID, items); err != nil {
		return nil, err
	}

	return order, nil
}

func validateOrderInput(items []model.LineItem, total float64) error {
	if len(items) == 0 {
		return apperr.Wrap(apperr.ErrValidation, "order has no line items")
	}
	if total <= 0 {
		return apperr.Wrap(apperr.ErrValidation, "order total must be positive, got %.2f", total)
	}
	return nil
}

func marshalLineItems(items []model.LineItem) (string, error) {
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal line items: %w", err)
	}
	return string(b), nil
}

// Checkout creates an order at the gateway and inserts the matching ledger
// row in PROCESSING. A gateway failure leaves no ledger row behind.
func (s *paymentServiceImpl) Checkout(ctx context.Context, userID uint, items []model.LineItem, total float64) (*CheckoutResult, error) {
	if err := validateOrderInput(items, total); err != nil {
		return nil, err
	}

	lineItemsJSON, err := marshalLineItems(items)
	if err != nil {
		return nil, err
	}

	resp, err := s.paypalClient.CreateOrder(ctx, decimal.NewFromFloat(total), len(items))
	if err != nil {
		return nil, fmt.Errorf("paypal create order: %w", err)
	}

	remoteID := resp.OrderID
	order := &model.PaymentOrder{
		LocalID:       uuid.NewString(),
		UserID:        userID,
		Total:         total,
		LineItemsJSON: lineItemsJSON,
		Status:        model.StatusProcessing,
		PaymentMethod: model.MethodPaypal,
		RemoteOrderID: &remoteID,
		Synchronized:  false,
	}
	if err := s.paymentRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info().Str("local_id", order.LocalID).Str("remote_order_id", remoteID).
		Uint("user_id", userID).Float64("total", total).
		Msg("payment order created")

	return &CheckoutResult{
		Order:      order,
		ApproveURL: resp.ApproveURL,
	}, nil
}

// Capture finalizes a gateway order after buyer approval and records the
// outcome on the matching ledger row. The result reflects the gateway
// response even when no matching row exists locally.
func (s *paymentServiceImpl) Capture(ctx context.Context, remoteOrderID string) (*CaptureResult, error) {
	resp, err := s.paypalClient.CaptureOrder(ctx, remoteOrderID)
	if err != nil {
		// an auth failure says nothing about the order itself, the capture
		// may still succeed once credentials recover
		if !errors.Is(err, apperr.ErrAuthentication) {
			s.recordCaptureFailure(ctx, remoteOrderID, err.Error())
		}
		return nil, fmt.Errorf("paypal capture order: %w", err)
	}

	if resp.Status != "COMPLETED" {
		s.recordCaptureFailure(ctx, remoteOrderID, fmt.Sprintf("gateway reported status %s", resp.Status))
		return nil, apperr.Wrap(apperr.ErrGatewayRequest,
			"capture of %s not completed, gateway status %s", remoteOrderID, resp.Status)
	}

	payerID := resp.PayerID
	err = s.paymentRepo.UpdateStatusByRemoteID(ctx, remoteOrderID, model.StatusCompleted, &payerID, nil)
	if err != nil {
		// a capture can legitimately arrive for an order this ledger never
		// saw, e.g. after a local wipe; the gateway outcome still stands
		s.logger.Warn().Err(err).Str("remote_order_id", remoteOrderID).
			Msg("captured order has no ledger row, skipping status update")
	}

	return &CaptureResult{
		OrderID: resp.OrderID,
		PayerID: resp.PayerID,
		Amount:  resp.Amount,
	}, nil
}

func (s *paymentServiceImpl) recordCaptureFailure(ctx context.Context, remoteOrderID, reason string) {
	err := s.paymentRepo.UpdateStatusByRemoteID(ctx, remoteOrderID, model.StatusFailed, nil, &reason)
	if err != nil {
		s.logger.Warn().Err(err).Str("remote_order_id", remoteOrderID).
			Msg("failed capture has no ledger row, skipping status update")
	}
}

// PayWithCard charges a vaulted card through braintree. The charge settles
// immediately, so the ledger row is born COMPLETED and is picked up by the
// next reconciliation pass.
func (s *paymentServiceImpl) PayWithCard(ctx context.Context, userID uint, items []model.LineItem, total float64, paymentToken string) (*model.PaymentOrder, error) {
	if err := validateOrderInput(items, total); err != nil {
		return nil, err
	}
	if paymentToken == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "missing payment token")
	}

	lineItemsJSON, err := marshalLineItems(items)
	if err != nil {
		return nil, err
	}

	txID, err := s.braintreeClient.ChargeOneTime(ctx, paymentToken, decimal.NewFromFloat(total))
	if err != nil {
		return nil, fmt.Errorf("braintree charge: %w", err)
	}

	order := &model.PaymentOrder{
		LocalID:       uuid.NewString(),
		UserID:        userID,
		Total:         total,
		LineItemsJSON: lineItemsJSON,
		Status:        model.StatusCompleted,
		PaymentMethod: model.MethodCard,
		RemoteOrderID: &txID,
		Synchronized:  false,
	}
	if err := s.paymentRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// RecordLocalOrder inserts a PENDING ledger row independent of any gateway
// call; callers that want a local record before talking to the gateway use
// this and drive the status themselves.
func (s *paymentServiceImpl) RecordLocalOrder(ctx context.Context, userID uint, items []model.LineItem, total float64, remoteOrderID *string) (*model.PaymentOrder, error) {
	if err := validateOrderInput(items, total); err != nil {
		return nil, err
	}

	lineItemsJSON, err := marshalLineItems(items)
	if err != nil {
		return nil, err
	}

	order := &model.PaymentOrder{
		LocalID:       uuid.NewString(),
		UserID:        userID,
		Total:         total,
		LineItemsJSON: lineItemsJSON,
		Status:        model.StatusPending,
		PaymentMethod: model.MethodPaypal,
		RemoteOrderID: remoteOrderID,
		Synchronized:  false,
	}
	if err := s.paymentRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// UpdateStatus overwrites the status of a ledger row without checking the
// transition against the lifecycle. Administrative escape hatch; reachable
// through the admin surface only.
func (s *paymentServiceImpl) UpdateStatus(ctx context.Context, localID string, status model.OrderStatus, payerID *string) error {
	return s.paymentRepo.UpdateStatus(ctx, localID, status, payerID, nil)
}

// CancelOrder moves a non-terminal order to CANCELLED. Terminal rows are
// rejected; cancellation is driven by the caller, never inferred from
// silence.
func (s *paymentServiceImpl) CancelOrder(ctx context.Context, localID string) error {
	order, err := s.paymentRepo.FindByLocalID(ctx, localID)
	if err != nil {
		return err
	}
	if order.Status.Terminal() {
		return apperr.Wrap(apperr.ErrValidation,
			"order %s is already %s and cannot be cancelled", localID, order.Status)
	}

	return s.paymentRepo.UpdateStatus(ctx, localID, model.StatusCancelled, nil, nil)
}

func (s *paymentServiceImpl) ListOrders(ctx context.Context, userID uint) ([]*model.PaymentOrder, error) {
	return s.paymentRepo.ListByUser(ctx, userID)
}

// SyncCompletedOrders is the reconciliation pass: every COMPLETED row not yet
// synchronized is marked so. Rows still in flight stay untouched for the next
// pass, and already-synchronized rows are excluded from the working set, so
// running the pass twice over unchanged state is a no-op.
func (s *paymentServiceImpl) SyncCompletedOrders(ctx context.Context) (int, error) {
	orders, err := s.paymentRepo.ListUnsynchronized(ctx)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, order := range orders {
		if order.Status != model.StatusCompleted {
			continue
		}
		if err := s.paymentRepo.MarkSynchronized(ctx, order.LocalID); err != nil {
			return synced, err
		}
		synced++
	}

	if synced > 0 {
		s.logger.Info().Int("count", synced).Msg("payment orders synchronized")
	}
	return synced, nil
}
