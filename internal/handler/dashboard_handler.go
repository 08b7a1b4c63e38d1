package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// GOM向けダッシュボードのAPI
type DashboardHandler struct {
	uc *usecase.DashboardUsecase
}

// DI
func NewDashboardHandler(uc *usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo, authMW ...echo.MiddlewareFunc) {
	// 見込み収入プレビューは作成画面用なので認証なし
	e.GET("/earnings/estimate", h.estimate)

	g := e.Group("", authMW...)
	g.GET("/me/dashboard", h.summary)
}

func (h *DashboardHandler) summary(c echo.Context) error {
	out, err := h.uc.Summary(c.Request().Context(), currentUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type earningsEstimateResponse struct {
	PotentialEarnings int64 `json:"potential_earnings"`
}

func (h *DashboardHandler) estimate(c echo.Context) error {
	price, err := strconv.ParseInt(c.QueryParam("price_per_item"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid price_per_item"})
	}
	minimum, err := strconv.ParseInt(c.QueryParam("minimum_orders"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid minimum_orders"})
	}

	return c.JSON(http.StatusOK, earningsEstimateResponse{
		PotentialEarnings: usecase.EstimatePotentialEarnings(price, minimum),
	})
}
