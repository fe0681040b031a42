// Package seed は初期データ（管理者・カテゴリ・商品）を投入する。
// email / slug をキーにしたupsertなので何度流しても同じ状態になる。
package seed

import (
	"context"
	"fmt"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	repo "storefront/internal/repository"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const (
	AdminEmail    = "ahsan@example.com"
	AdminName     = "Ahsan"
	adminPassword = "123456"
	bcryptCost    = 10
)

type Seeder struct {
	users      repo.UserRepository
	categories repo.CategoryRepository
	products   repo.ProductRepository
}

// DI
func NewSeeder(users repo.UserRepository, categories repo.CategoryRepository, products repo.ProductRepository) *Seeder {
	return &Seeder{users: users, categories: categories, products: products}
}

type Result struct {
	Admin      model.User
	Categories int
	Products   int
}

func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcryptCost)
	if err != nil {
		return res, fmt.Errorf("hash admin password: %w", err)
	}
	h := string(hash)
	admin := model.User{
		Name:         AdminName,
		Email:        AdminEmail,
		PasswordHash: &h,
		Role:         model.RoleAdmin,
	}
	if err := s.users.UpsertByEmail(ctx, &admin); err != nil {
		return res, fmt.Errorf("seed admin: %w", err)
	}
	res.Admin = admin
	logger.Info(ctx, "seeded admin", "user_id", admin.ID, "email", admin.Email)

	categoryIDs := make(map[string]int64, len(categories))
	for _, cs := range categories {
		c := model.Category{Name: cs.Name, Slug: cs.Slug, Image: cs.Image}
		if err := s.categories.UpsertBySlug(ctx, &c); err != nil {
			return res, fmt.Errorf("seed category %s: %w", cs.Slug, err)
		}
		categoryIDs[cs.Slug] = c.ID
		res.Categories++
	}

	for _, ps := range products {
		catID, ok := categoryIDs[ps.CategorySlug]
		if !ok {
			return res, fmt.Errorf("seed product %s: unknown category %s", ps.Slug, ps.CategorySlug)
		}
		p := model.Product{
			Name:        ps.Name,
			Slug:        ps.Slug,
			Description: ps.Description,
			Price:       decimal.RequireFromString(ps.Price),
			Images:      pq.StringArray(ps.Images),
			Stock:       ps.Stock,
			CategoryID:  catID,
		}
		if err := s.products.UpsertBySlug(ctx, &p); err != nil {
			return res, fmt.Errorf("seed product %s: %w", ps.Slug, err)
		}
		res.Products++
	}

	logger.Info(ctx, "seed done", "categories", res.Categories, "products", res.Products)
	return res, nil
}
