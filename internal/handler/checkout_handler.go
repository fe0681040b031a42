package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /checkout と /confirm-order
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type checkoutRequest struct {
	ProductIDs []int64 `json:"productIds"`
}

type confirmOrderRequest struct {
	SessionID string `json:"sessionId"`
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/checkout", h.checkout, middleware.RequireUser())
	e.POST("/confirm-order", h.confirm, middleware.RequireUser())
}

// -> {url}
func (h *CheckoutHandler) checkout(c echo.Context) error {
	s, ok := currentSession(c)
	if !ok {
		return unauthorized(c)
	}

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.Initiate(c.Request().Context(), s.UserID, req.ProductIDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) confirm(c echo.Context) error {
	s, ok := currentSession(c)
	if !ok {
		return unauthorized(c)
	}

	var req confirmOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	order, err := h.uc.Confirm(c.Request().Context(), s.UserID, req.SessionID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}
