package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/session"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RegisterRoutesを持つhandler
type Routes interface {
	RegisterRoutes(e *echo.Echo)
}

type Options struct {
	Addr        string
	AllowOrigin string // フロントのURL（CORS）
	UploadDir   string // 空なら /uploads を配信しない
	BodyLimit   string // "10M" の形式。空なら DefaultBodyLimit
	Metrics     *metrics.Metrics
	Resolver    session.Resolver
	// /healthz で呼ぶ（DBのping）
	Ping     func(ctx context.Context) error
	Handlers []Routes
}

// data URLの画像アップロード（base64）が入る大きさ
const DefaultBodyLimit = "10M"

type Server struct {
	e    *echo.Echo
	addr string
}

func New(opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler
	e.Server.ReadHeaderTimeout = 10 * time.Second

	e.Use(middleware.RequestLogger())
	e.Use(middleware.Metrics(opts.Metrics))
	e.Use(echomw.Recover())
	bodyLimit := opts.BodyLimit
	if bodyLimit == "" {
		bodyLimit = DefaultBodyLimit
	}
	e.Use(echomw.BodyLimit(bodyLimit))
	if opts.AllowOrigin != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{opts.AllowOrigin},
			AllowCredentials: true,
		}))
	}
	e.Use(middleware.AccessGate(opts.Resolver))

	registerRoutes(e, opts)
	return &Server{e: e, addr: opts.Addr}
}

func (s *Server) Handler() http.Handler { return s.e }

// Shutdownされたらnilを返す
func (s *Server) Start() error {
	logger.Info(context.Background(), "server starting", "addr", s.addr)
	if err := s.e.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// echo内部のエラー（404/405など）も {"error": "..."} で返す
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := "internal error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(status)
		}
	} else {
		logger.Error(c.Request().Context(), "unhandled error", "path", c.Path(), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, map[string]string{"error": msg})
}
