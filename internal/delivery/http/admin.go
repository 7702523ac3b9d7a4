package http

import (
	"net/http"

	"rule-one/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupAdmin(base *echo.Group) {
	admin := base.Group("/admin")
	admin.GET("/batch", h.listBatchProcessors)
	admin.POST("/batch", h.runAllBatchProcessors)
	admin.POST("/batch/:name", h.runBatchProcessor)
	admin.POST("/watchlist/refresh", h.refreshWatchlist)
}

func (h *HttpAPIHandler) listBatchProcessors(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Batch processors", h.service.BatchService.List()))
}

func (h *HttpAPIHandler) runAllBatchProcessors(c echo.Context) error {
	summary := h.service.BatchService.RunAll(c.Request().Context())
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Batch processing finished", summary))
}

func (h *HttpAPIHandler) runBatchProcessor(c echo.Context) error {
	result, err := h.service.BatchService.Run(c.Request().Context(), c.Param("name"))
	if err != nil {
		return h.errorResponse(c, err, "failed to run batch processor")
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Batch processor finished", result))
}

func (h *HttpAPIHandler) refreshWatchlist(c echo.Context) error {
	summary, err := h.service.SchedulerService.RefreshWatchlist(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err, "failed to refresh watchlist")
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Watchlist refreshed", summary))
}
