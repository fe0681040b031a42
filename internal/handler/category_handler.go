package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /categories
type CategoryHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewCategoryHandler(uc *usecase.CatalogUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

type categoryRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// 参照は公開、変更は管理者だけ
func (h *CategoryHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/categories")
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.GET("/slug/:slug", h.bySlug)

	admin := middleware.RequireAdmin()
	g.POST("", h.create, admin)
	g.PATCH("/:id", h.update, admin)
	g.DELETE("/:id", h.delete, admin)
}

// ?withProducts=false で商品を含めない
func (h *CategoryHandler) list(c echo.Context) error {
	withProducts := true
	if v := c.QueryParam("withProducts"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return badRequest(c, "invalid withProducts")
		}
		withProducts = b
	}

	out, err := h.uc.ListCategories(c.Request().Context(), withProducts)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryHandler) detail(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.GetCategory(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryHandler) bySlug(c echo.Context) error {
	out, err := h.uc.GetCategoryBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryHandler) create(c echo.Context) error {
	s, ok := currentSession(c)
	if !ok {
		return unauthorized(c)
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.CreateCategory(c.Request().Context(), s.UserID, usecase.CategoryInput{
		Name:  req.Name,
		Image: req.Image,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CategoryHandler) update(c echo.Context) error {
	s, ok := currentSession(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.UpdateCategory(c.Request().Context(), s.UserID, id, usecase.CategoryInput{
		Name:  req.Name,
		Image: req.Image,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryHandler) delete(c echo.Context) error {
	s, ok := currentSession(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.DeleteCategory(c.Request().Context(), s.UserID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
