package http

import (
	"net/http"
	"strings"

	"rule-one/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupStocks(base *echo.Group) {
	stocks := base.Group("/stocks")
	stocks.GET("/search", h.searchStocks)
	stocks.GET("/:symbol", h.getStock)
	stocks.POST("/:symbol/refresh", h.refreshStock)

	base.GET("/compare/:symbol1/:symbol2", h.compareStocks)
}

func (h *HttpAPIHandler) getStock(c echo.Context) error {
	if details := h.invalidSymbols(c, "symbol"); len(details) > 0 {
		return h.badRequest(c, "invalid symbol", details...)
	}

	detail, err := h.service.StockService.GetStockDetail(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return h.errorResponse(c, err, "failed to load stock")
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Stock retrieved", detail))
}

func (h *HttpAPIHandler) refreshStock(c echo.Context) error {
	if details := h.invalidSymbols(c, "symbol"); len(details) > 0 {
		return h.badRequest(c, "invalid symbol", details...)
	}

	detail, err := h.service.StockService.Refresh(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return h.errorResponse(c, err, "failed to refresh stock")
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Stock refreshed", detail))
}

func (h *HttpAPIHandler) searchStocks(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return h.badRequest(c, "query parameter q is required", dto.FieldError{Field: "q", Reason: "required"})
	}

	results, err := h.service.StockService.Search(c.Request().Context(), query)
	if err != nil {
		return h.errorResponse(c, err, "failed to search stocks")
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Search completed", results))
}

func (h *HttpAPIHandler) compareStocks(c echo.Context) error {
	if details := h.invalidSymbols(c, "symbol1", "symbol2"); len(details) > 0 {
		return h.badRequest(c, "invalid symbol", details...)
	}

	result, err := h.service.StockService.Compare(c.Request().Context(), c.Param("symbol1"), c.Param("symbol2"))
	if err != nil {
		return h.errorResponse(c, err, "failed to compare stocks")
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Comparison ready", result))
}
