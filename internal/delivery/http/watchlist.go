package http

import (
	"net/http"

	"rule-one/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupWatchlist(base *echo.Group) {
	watchlist := base.Group("/watchlist")
	watchlist.GET("", h.listWatchlist)
	watchlist.POST("", h.addToWatchlist)
	watchlist.DELETE("/:symbol", h.removeFromWatchlist)
}

func (h *HttpAPIHandler) listWatchlist(c echo.Context) error {
	items, err := h.service.WatchlistService.List(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err, "failed to list watchlist")
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Watchlist retrieved", items))
}

func (h *HttpAPIHandler) addToWatchlist(c echo.Context) error {
	req := new(dto.WatchlistRequest)
	if err := c.Bind(req); err != nil {
		return h.badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return h.errorResponse(c, err, "invalid request")
	}

	item, err := h.service.WatchlistService.Add(c.Request().Context(), req.StockSymbol)
	if err != nil {
		return h.errorResponse(c, err, "failed to add to watchlist")
	}
	return c.JSON(http.StatusCreated, dto.NewCreatedResponse("Added to watchlist", item))
}

func (h *HttpAPIHandler) removeFromWatchlist(c echo.Context) error {
	if details := h.invalidSymbols(c, "symbol"); len(details) > 0 {
		return h.badRequest(c, "invalid symbol", details...)
	}

	if err := h.service.WatchlistService.Remove(c.Request().Context(), c.Param("symbol")); err != nil {
		return h.errorResponse(c, err, "failed to remove from watchlist")
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Removed from watchlist", nil))
}
