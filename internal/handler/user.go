package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"pharmacy-backend/internal/dto"
	"pharmacy-backend/internal/middleware"
	"pharmacy-backend/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.userService.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	token, err := h.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, &dto.LoginResponse{Token: token})
}

func (h *UserHandler) Me(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.userService.Get(ctx, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) AdminList(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.userService.List(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) AdminSetActive(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := strconv.ParseUint(c.Param("userID"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.userService.SetActive(ctx, uint(userID), req.Active); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
