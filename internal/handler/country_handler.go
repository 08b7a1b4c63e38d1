package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 対応国マスタのAPI
type CountryHandler struct {
	uc *usecase.CountryUsecase
}

// DI
func NewCountryHandler(uc *usecase.CountryUsecase) *CountryHandler {
	return &CountryHandler{uc: uc}
}

func (h *CountryHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/countries", h.list)
}

func (h *CountryHandler) list(c echo.Context) error {
	items, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"items": items})
}
