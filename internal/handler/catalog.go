package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"pharmacy-backend/internal/dto"
	"pharmacy-backend/internal/model"
	"pharmacy-backend/internal/service"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func productIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("productID"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	return uint(id), nil
}

func (h *CatalogHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	query := c.QueryParam("q")
	category := c.QueryParam("category")

	if query != "" || category != "" {
		products, err := h.catalogService.Search(ctx, query, category)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, products)
	}

	products, err := h.catalogService.List(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := productIDParam(c)
	if err != nil {
		return err
	}

	product, err := h.catalogService.Get(ctx, productID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	product := &model.Product{
		Name:                 req.Name,
		Description:          req.Description,
		Category:             req.Category,
		Price:                req.Price,
		Stock:                req.Stock,
		RequiresPrescription: req.RequiresPrescription,
	}
	if err := h.catalogService.Create(ctx, product); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := productIDParam(c)
	if err != nil {
		return err
	}

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	product := &model.Product{
		ID:                   productID,
		Name:                 req.Name,
		Description:          req.Description,
		Category:             req.Category,
		Price:                req.Price,
		Stock:                req.Stock,
		RequiresPrescription: req.RequiresPrescription,
	}
	if err := h.catalogService.Update(ctx, product); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := productIDParam(c)
	if err != nil {
		return err
	}

	if err := h.catalogService.Delete(ctx, productID); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
