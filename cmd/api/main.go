package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	"storefront/internal/infra/mailer"
	"storefront/internal/infra/media"
	"storefront/internal/infra/payment"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/seed"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/repository"
	"storefront/internal/server"
	"storefront/internal/session"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"
	"storefront/internal/validator"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	withSeed := flag.Bool("seed", false, "seed admin, categories and products before serving")
	flag.Parse()

	if err := run(*withSeed); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(withSeed bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:    cfg.Log.Level,
		Format:   cfg.Log.Format,
		Output:   cfg.Log.Output,
		FilePath: cfg.Log.File,
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	// 金額はJSONで数値として返す
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	magicLinkRepo := infraRepo.NewMagicLinkGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	if withSeed {
		if _, err := seed.NewSeeder(userRepo, categoryRepo, productRepo).Run(ctx); err != nil {
			return err
		}
	}

	//usecaseに渡す部品
	clock := &realClock{}
	m := metrics.New("storefront")
	jwtSvc := session.NewJWTService(cfg.JWTSecret, cfg.SessionTTL, cfg.MagicLinkTTL, userRepo, magicLinkRepo)
	v := validator.NewAuthValidator()

	//bcrypt（パスワード設定：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()

	gateway, err := newPaymentGateway(cfg)
	if err != nil {
		return err
	}
	uploader, err := newImageUploader(cfg)
	if err != nil {
		return err
	}
	mail, err := newMailer(cfg)
	if err != nil {
		return err
	}

	//Usecase生成
	catalogUC := usecase.NewCatalogUsecase(categoryRepo, productRepo, auditRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo, m)
	orderUC := usecase.NewOrderUsecase(orderRepo, productRepo, txm, m)
	checkoutUC := usecase.NewCheckoutUsecase(productRepo, cartRepo, orderRepo, txm, gateway, cfg.AppURL, m)
	uploadUC := usecase.NewUploadUsecase(uploader)
	auditUC := usecase.NewAuditUsecase(auditRepo)

	loginUC := auth.NewLoginUsecase(userRepo, verifier, jwtSvc, v, clock)
	magicLinkUC := auth.NewMagicLinkUsecase(userRepo, jwtSvc, jwtSvc, mail, v, clock, cfg.AppURL)
	statusUC := auth.NewStatusUsecase(userRepo, v)
	setPasswordUC := auth.NewSetPasswordUsecase(userRepo, hasher, jwtSvc, v, clock)
	meUC := auth.NewMeUsecase(userRepo)

	//Handler生成
	handlers := []server.Routes{
		handler.NewAuthHandler(loginUC, magicLinkUC, statusUC, setPasswordUC, meUC, cfg.CookieSecure),
		handler.NewCategoryHandler(catalogUC),
		handler.NewProductHandler(catalogUC),
		handler.NewCartHandler(cartUC),
		handler.NewOrderHandler(orderUC),
		handler.NewCheckoutHandler(checkoutUC),
		handler.NewUploadHandler(uploadUC),
		handler.NewAuditHandler(auditUC),
	}

	uploadDir := ""
	if lu, ok := uploader.(*media.LocalUploader); ok {
		uploadDir = lu.Dir()
	}

	srv := server.New(server.Options{
		Addr:        cfg.Addr(),
		AllowOrigin: cfg.AppURL,
		UploadDir:   uploadDir,
		Metrics:     m,
		Resolver:    jwtSvc,
		Ping:        func(ctx context.Context) error { return db.Ping(ctx, gormDB) },
		Handlers:    handlers,
	})

	//Server起動。シグナルでgraceful shutdown
	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		pruneMagicLinks(gctx, magicLinkRepo, time.Hour)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(context.Background(), "shutting down", "timeout", cfg.ShutdownTimeout.String())

		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return closeDB(gormDB)
	})
	return g.Wait()
}

// devでSTRIPE_SECRET_KEYが無ければsandbox（作成時点で支払い済み）
func newPaymentGateway(cfg config.Config) (usecase.PaymentGateway, error) {
	if cfg.Payment.StripeSecretKey != "" {
		return payment.NewStripeGateway(cfg.Payment.StripeSecretKey, cfg.Payment.Currency, nil), nil
	}
	if !cfg.IsDev() {
		return nil, fmt.Errorf("sandbox payment gateway is dev only (GO_ENV=%s)", cfg.GoEnv)
	}
	logger.Warn(context.Background(), "STRIPE_SECRET_KEY is empty, using sandbox payment gateway")
	return payment.NewSandboxGateway(true), nil
}

func newImageUploader(cfg config.Config) (usecase.ImageUploader, error) {
	if cfg.Media.CloudinaryURL != "" {
		return media.NewCloudinaryUploader(cfg.Media.CloudinaryURL, "storefront")
	}
	return media.NewLocalUploader(cfg.Media.UploadDir, cfg.Media.PublicURL), nil
}

// devでSMTP_HOSTが無ければログに出すだけ
func newMailer(cfg config.Config) (auth.Mailer, error) {
	if cfg.Mail.Host != "" {
		return mailer.NewSMTPMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From), nil
	}
	if !cfg.IsDev() {
		return nil, fmt.Errorf("log mailer is dev only (GO_ENV=%s)", cfg.GoEnv)
	}
	return mailer.NewLogMailer(), nil
}

// 期限切れの使用済みmagic linkを定期的に消す
func pruneMagicLinks(ctx context.Context, links repository.MagicLinkRepository, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := links.DeleteExpired(ctx, now)
			if err != nil {
				logger.Warn(ctx, "prune magic links failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info(ctx, "pruned magic links", "deleted", n)
			}
		}
	}
}

func closeDB(gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
