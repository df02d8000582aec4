package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pharmacy-backend/internal/dto"
	"pharmacy-backend/internal/middleware"
	"pharmacy-backend/internal/model"
	"pharmacy-backend/internal/service"
	"pharmacy-backend/internal/worker"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	syncWorker     *worker.SyncWorker
}

func NewPaymentHandler(paymentService service.PaymentService, syncWorker *worker.SyncWorker) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		syncWorker:     syncWorker,
	}
}

// Checkout turns the caller's cart into a PayPal order and hands back the
// approval URL for the buyer to visit.
func (h *PaymentHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	result, err := h.paymentService.CheckoutCart(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}

	var orderID string
	if result.Order.RemoteOrderID != nil {
		orderID = *result.Order.RemoteOrderID
	}

	return c.JSON(http.StatusOK, &dto.CheckoutResponse{
		LocalID:          result.Order.LocalID,
		OrderID:          orderID,
		OrderApprovalURL: result.ApproveURL,
		Total:            result.Order.Total,
	})
}

// CheckoutWithCard charges the cart against a vaulted card.
func (h *PaymentHandler) CheckoutWithCard(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	var req dto.CardCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, err := h.paymentService.CheckoutCartWithCard(ctx, userID, req.PaymentToken)
	if err != nil {
		return respondError(c, err)
	}

	// the row is already COMPLETED, let the reconciler pick it up now
	h.syncWorker.TriggerNow()

	return c.JSON(http.StatusOK, order)
}

// PaypalSuccess is the return URL PayPal redirects the buyer to after
// approval; the order token in the query string is the remote order id.
func (h *PaymentHandler) PaypalSuccess(c echo.Context) error {
	ctx := c.Request().Context()

	orderID := c.QueryParam("token")
	if orderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing order token")
	}

	result, err := h.paymentService.Capture(ctx, orderID)
	if err != nil {
		return respondError(c, err)
	}

	h.syncWorker.TriggerNow()

	return c.JSON(http.StatusOK, &dto.CaptureResponse{
		OrderID: result.OrderID,
		PayerID: result.PayerID,
		Amount:  result.Amount,
	})
}

// PaypalCancel is hit when the buyer abandons the approval flow; the matching
// ledger row goes to CANCELLED.
func (h *PaymentHandler) PaypalCancel(c echo.Context) error {
	ctx := c.Request().Context()

	localID := c.QueryParam("local_id")
	if localID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing local order id")
	}

	if err := h.paymentService.CancelOrder(ctx, localID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "cancelled"})
}

// ListOrders returns the caller's order history, newest first.
func (h *PaymentHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	orders, err := h.paymentService.ListOrders(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, orders)
}

// CancelOrder cancels one of the caller's own orders.
func (h *PaymentHandler) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.paymentService.CancelOrder(ctx, c.Param("localID")); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "cancelled"})
}

// AdminUpdateOrderStatus is the manual status override; it bypasses the
// lifecycle checks on purpose and is only routed behind the admin group.
func (h *PaymentHandler) AdminUpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	err := h.paymentService.UpdateStatus(ctx, c.Param("localID"), model.OrderStatus(req.Status), req.PayerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// AdminTriggerSync queues an immediate reconciliation run.
func (h *PaymentHandler) AdminTriggerSync(c echo.Context) error {
	h.syncWorker.TriggerNow()
	return c.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
}
