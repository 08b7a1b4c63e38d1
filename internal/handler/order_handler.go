package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"app/internal/domain/model"
	mw "app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	var ve *usecase.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: ve.Message})
	}
	var ae *usecase.AuthorizationError
	if errors.As(err, &ae) {
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: ae.Message})
	}
	var ce *usecase.CapacityError
	if errors.As(err, &ce) {
		return c.JSON(http.StatusConflict, ErrorResponse{Error: ce.Message})
	}
	var te *usecase.InvalidTransitionError
	if errors.As(err, &te) {
		// リプレイかロジックバグの疑い。詳細はログだけに残す。
		c.Logger().Warnf("invalid transition: %s -> %s", te.From, te.To)
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "conflict"})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// AuthJWTがセットしたuser_idを取り出す
func currentUserID(c echo.Context) string {
	v, _ := c.Get(mw.CtxUserIDKey).(string)
	return v
}

// /ordersのAPI
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// 公開ルートとオーナー用ルートを登録
func (h *OrderHandler) RegisterRoutes(e *echo.Echo, authMW ...echo.MiddlewareFunc) {
	e.GET("/orders", h.list)
	e.GET("/orders/:id", h.detail)

	g := e.Group("", authMW...)
	g.POST("/orders", h.create)
	g.PATCH("/orders/:id", h.update)
	g.POST("/orders/:id/publish", h.publish)
	g.GET("/me/orders", h.listMine)
}

func (h *OrderHandler) list(c echo.Context) error {
	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	// limit（default 20）
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	out, err := h.uc.ListActive(c.Request().Context(), usecase.ListActiveOrdersInput{
		Page:  page,
		Limit: limit,
		Q:     c.QueryParam("q"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	out, err := h.uc.GetPublished(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type createOrderRequest struct {
	Title                 string                `json:"title"`
	Description           string                `json:"description"`
	Images                []string              `json:"images"`
	PricePerItem          int64                 `json:"price_per_item"`
	MinimumOrders         *int64                `json:"minimum_orders"`
	MaximumOrders         *int64                `json:"maximum_orders"`
	ClosingDate           *time.Time            `json:"closing_date"`
	EstimatedShippingDate *time.Time            `json:"estimated_shipping_date"`
	PaymentMethods        []model.PaymentMethod `json:"payment_methods"`
	PaymentInstructions   string                `json:"payment_instructions"`
}

func (h *OrderHandler) create(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in := usecase.CreateDraftOrderInput{
		Title:                 req.Title,
		Description:           req.Description,
		Images:                req.Images,
		PricePerItem:          req.PricePerItem,
		MinimumOrders:         req.MinimumOrders,
		MaximumOrders:         req.MaximumOrders,
		EstimatedShippingDate: req.EstimatedShippingDate,
		PaymentMethods:        req.PaymentMethods,
		PaymentInstructions:   req.PaymentInstructions,
	}
	if req.ClosingDate != nil {
		in.ClosingDate = *req.ClosingDate
	}

	out, err := h.uc.CreateDraft(c.Request().Context(), currentUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

type updateOrderRequest struct {
	Title                 *string                `json:"title"`
	Description           *string                `json:"description"`
	Images                *[]string              `json:"images"`
	PricePerItem          *int64                 `json:"price_per_item"`
	MinimumOrders         *int64                 `json:"minimum_orders"`
	MaximumOrders         *int64                 `json:"maximum_orders"`
	ClosingDate           *time.Time             `json:"closing_date"`
	EstimatedShippingDate *time.Time             `json:"estimated_shipping_date"`
	PaymentMethods        *[]model.PaymentMethod `json:"payment_methods"`
	PaymentInstructions   *string                `json:"payment_instructions"`
}

func (h *OrderHandler) update(c echo.Context) error {
	var req updateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateFields(c.Request().Context(), currentUserID(c), c.Param("id"), usecase.UpdateOrderInput{
		Title:                 req.Title,
		Description:           req.Description,
		Images:                req.Images,
		PricePerItem:          req.PricePerItem,
		MinimumOrders:         req.MinimumOrders,
		MaximumOrders:         req.MaximumOrders,
		ClosingDate:           req.ClosingDate,
		EstimatedShippingDate: req.EstimatedShippingDate,
		PaymentMethods:        req.PaymentMethods,
		PaymentInstructions:   req.PaymentInstructions,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) publish(c echo.Context) error {
	out, err := h.uc.Publish(c.Request().Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) listMine(c echo.Context) error {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	out, err := h.uc.ListMine(c.Request().Context(), currentUserID(c), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
