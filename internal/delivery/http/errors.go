package http

import (
	"errors"
	"fmt"
	"net/http"

	"rule-one/internal/dto"
	"rule-one/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// errorResponse maps a service error onto its HTTP status. Unexpected
// errors are logged and answered with a generic message only.
func (h *HttpAPIHandler) errorResponse(c echo.Context, err error, message string) error {
	var validationErrs goValidator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		resp := dto.NewErrorResponse(dto.ErrorCodeValidation, "request validation failed")
		for _, fe := range validationErrs {
			resp.Details = append(resp.Details, dto.FieldError{Field: fe.Field(), Reason: validationReason(fe)})
		}
		return c.JSON(http.StatusBadRequest, resp)
	case errors.Is(err, dto.ErrInvalidIndicator):
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidation, err.Error()))
	case errors.Is(err, dto.ErrNotFound):
		return c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeNotFound, notFoundMessage(c)))
	case errors.Is(err, dto.ErrAlreadyExists):
		return c.JSON(http.StatusConflict, dto.NewErrorResponse(dto.ErrorCodeConflict, "resource already exists"))
	default:
		h.log.ErrorContext(c.Request().Context(), message, logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrorCodeInternal, message))
	}
}

func (h *HttpAPIHandler) badRequest(c echo.Context, message string, details ...dto.FieldError) error {
	resp := dto.NewErrorResponse(dto.ErrorCodeValidation, message)
	resp.Details = details
	return c.JSON(http.StatusBadRequest, resp)
}

func validationReason(fe goValidator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
}

func notFoundMessage(c echo.Context) string {
	if symbol := c.Param("symbol"); symbol != "" {
		return fmt.Sprintf("no data found for symbol %s", symbol)
	}
	return "resource not found"
}

// invalidSymbols validates tickers taken from the path.
func (h *HttpAPIHandler) invalidSymbols(c echo.Context, names ...string) []dto.FieldError {
	var details []dto.FieldError
	for _, name := range names {
		if err := h.validator.Var(c.Param(name), "required,ticker"); err != nil {
			details = append(details, dto.FieldError{Field: name, Reason: "ticker"})
		}
	}
	return details
}
