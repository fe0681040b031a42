package server

import (
	"net/http"

	"storefront/internal/infra/media"
	"storefront/internal/logger"

	"github.com/labstack/echo/v4"
)

func registerRoutes(e *echo.Echo, opts Options) {
	e.GET("/healthz", func(c echo.Context) error {
		if opts.Ping != nil {
			if err := opts.Ping(c.Request().Context()); err != nil {
				logger.Warn(c.Request().Context(), "health check failed", "error", err)
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	if opts.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(opts.Metrics.Handler()))
	}

	//ローカル保存した画像
	if opts.UploadDir != "" {
		e.Static(media.PublicPrefix, opts.UploadDir)
	}

	for _, h := range opts.Handlers {
		h.RegisterRoutes(e)
	}
}
