package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type addCartRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

type removeCartItemRequest struct {
	CartItemID int64 `json:"cartItemId"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/cart", middleware.RequireUser())
	g.GET("", h.getCart)
	g.POST("", h.addToCart)
	g.DELETE("", h.removeItem)
}

// カートが無ければ null
func (h *CartHandler) getCart(c echo.Context) error {
	s, ok := currentSession(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.GetCart(c.Request().Context(), s.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	s, ok := currentSession(c)
	if !ok {
		return unauthorized(c)
	}

	var req addCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.AddItem(c.Request().Context(), s.UserID, usecase.AddCartItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// DELETE /cart {cartItemId}。POSTと同じく更新後のカートを返す
func (h *CartHandler) removeItem(c echo.Context) error {
	s, ok := currentSession(c)
	if !ok {
		return unauthorized(c)
	}

	var req removeCartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.RemoveItem(c.Request().Context(), s.UserID, req.CartItemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
