package main

import (
	"context"
	"fmt"
	"os"

	"storefront/internal/config"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/seed"
	"storefront/internal/logger"
)

// 管理者・カテゴリ・商品を投入する（何度流してもよい）
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
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

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	s := seed.NewSeeder(
		infraRepo.NewUserGormRepository(gormDB),
		infraRepo.NewCategoryGormRepository(gormDB),
		infraRepo.NewProductGormRepository(gormDB),
	)
	res, err := s.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("seeded admin=%s categories=%d products=%d\n", res.Admin.Email, res.Categories, res.Products)
	return nil
}
