package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pharmacy-backend/internal/dto"
	"pharmacy-backend/internal/middleware"
	"pharmacy-backend/internal/service"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.Get(ctx, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.cartService.Add(ctx, middleware.UserID(c), req.ProductID, req.Quantity); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := productIDParam(c)
	if err != nil {
		return err
	}

	var req dto.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.cartService.UpdateQuantity(ctx, middleware.UserID(c), productID, req.Quantity); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) Remove(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := productIDParam(c)
	if err != nil {
		return err
	}

	if err := h.cartService.Remove(ctx, middleware.UserID(c), productID); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
