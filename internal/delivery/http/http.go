package http

import (
	"reflect"
	"strings"

	"rule-one/internal/service"
	"rule-one/pkg/logger"
	"rule-one/pkg/middleware"
	"rule-one/pkg/utils"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
	log       *logger.Logger
}

func NewHttpAPIHandler(echo *echo.Echo, validator *goValidator.Validate, service *service.Service, log *logger.Logger) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      echo,
		validator: validator,
		service:   service,
		log:       log,
	}
}

// NewValidator reports field errors under their JSON names and adds the
// "ticker" tag for symbol fields.
func NewValidator() *goValidator.Validate {
	v := goValidator.New()
	_ = v.RegisterValidation("ticker", func(fl goValidator.FieldLevel) bool {
		return utils.IsTickerSymbol(fl.Field().String())
	})
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})
	return v
}

func (h *HttpAPIHandler) SetupRoutes() {
	base := h.echo.Group("/api", middleware.RequestLogger(h.log))
	h.SetupHealth(base)
	h.SetupStocks(base)
	h.SetupWatchlist(base)
	h.SetupValuation(base)
	h.SetupTechnical(base)
	h.SetupAdmin(base)
}
