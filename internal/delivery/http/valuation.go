package http

import (
	"net/http"

	"rule-one/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupValuation(base *echo.Group) {
	base.POST("/valuation", h.calculateValuation)
}

func (h *HttpAPIHandler) calculateValuation(c echo.Context) error {
	req := new(dto.ValuationRequest)
	if err := c.Bind(req); err != nil {
		return h.badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return h.errorResponse(c, err, "invalid request")
	}

	result, err := h.service.ValuationService.Calculate(c.Request().Context(), *req)
	if err != nil {
		return h.errorResponse(c, err, "failed to calculate valuation")
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Valuation calculated", result))
}
