package handler

import (
	"net/http"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Submission（参加・支払い記録）のAPI
type SubmissionHandler struct {
	uc *usecase.SubmissionUsecase
}

// DI
func NewSubmissionHandler(uc *usecase.SubmissionUsecase) *SubmissionHandler {
	return &SubmissionHandler{uc: uc}
}

// 参加は認証なし（購入者はアカウントを持たない）。
// 一覧と支払い記録はオーナー限定。
func (h *SubmissionHandler) RegisterRoutes(e *echo.Echo, authMW ...echo.MiddlewareFunc) {
	e.POST("/orders/:id/submissions", h.submit)

	g := e.Group("", authMW...)
	g.GET("/orders/:id/submissions", h.listForOrder)
	g.POST("/orders/:id/expire", h.expireOverdue)
	g.POST("/submissions/:id/payment", h.applyPaymentResult)
}

type submitRequest struct {
	BuyerName       string              `json:"buyer_name"`
	BuyerPhone      string              `json:"buyer_phone"`
	WhatsappUpdates bool                `json:"whatsapp_updates"`
	Quantity        int64               `json:"quantity"`
	PaymentMethod   model.PaymentMethod `json:"payment_method"`
}

func (h *SubmissionHandler) submit(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Submit(c.Request().Context(), c.Param("id"), usecase.SubmitInput{
		BuyerName:       req.BuyerName,
		BuyerPhone:      req.BuyerPhone,
		WhatsappUpdates: req.WhatsappUpdates,
		Quantity:        req.Quantity,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *SubmissionHandler) listForOrder(c echo.Context) error {
	items, err := h.uc.ListForOrder(c.Request().Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"items": items})
}

type applyPaymentRequest struct {
	Outcome model.PaymentStatus `json:"outcome"`
}

func (h *SubmissionHandler) applyPaymentResult(c echo.Context) error {
	var req applyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.ApplyPaymentResult(c.Request().Context(), currentUserID(c), c.Param("id"), req.Outcome)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SubmissionHandler) expireOverdue(c echo.Context) error {
	out, err := h.uc.ExpireOverdue(c.Request().Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
