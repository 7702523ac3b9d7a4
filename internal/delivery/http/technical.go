package http

import (
	"net/http"

	"rule-one/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupTechnical(base *echo.Group) {
	base.GET("/technical/:indicator/:symbol", h.getTechnical)
}

func (h *HttpAPIHandler) getTechnical(c echo.Context) error {
	if details := h.invalidSymbols(c, "symbol"); len(details) > 0 {
		return h.badRequest(c, "invalid symbol", details...)
	}

	var params dto.TechnicalParams
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &params); err != nil {
		return h.badRequest(c, "invalid query parameters")
	}
	if err := h.validator.Struct(params); err != nil {
		return h.errorResponse(c, err, "invalid request")
	}

	result, err := h.service.TechnicalService.Get(c.Request().Context(), c.Param("indicator"), c.Param("symbol"), params)
	if err != nil {
		return h.errorResponse(c, err, "failed to load technical data")
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Technical data retrieved", result))
}
