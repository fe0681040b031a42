package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type UploadHandler struct {
	uc *usecase.UploadUsecase
}

// DI
func NewUploadHandler(uc *usecase.UploadUsecase) *UploadHandler {
	return &UploadHandler{uc: uc}
}

type uploadRequest struct {
	Image string `json:"image"`
}

func (h *UploadHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/upload", h.upload, middleware.RequireAdmin())
}

func (h *UploadHandler) upload(c echo.Context) error {
	var req uploadRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.Upload(c.Request().Context(), req.Image)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
