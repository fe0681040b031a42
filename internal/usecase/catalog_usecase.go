package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	repo "storefront/internal/repository"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// カテゴリと商品の参照・管理
type CatalogUsecase struct {
	categoryRepo repo.CategoryRepository
	productRepo  repo.ProductRepository
	auditRepo    repo.AuditLogRepository
}

// DI
func NewCatalogUsecase(
	categoryRepo repo.CategoryRepository,
	productRepo repo.ProductRepository,
	auditRepo repo.AuditLogRepository,
) *CatalogUsecase {
	return &CatalogUsecase{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		auditRepo:    auditRepo,
	}
}

type CategoryInput struct {
	Name  string
	Image string
}

// PATCHも全項目必須
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  int64
	Images      []string
	Stock       int64
}

// =====================
// categories
// =====================

func (u *CatalogUsecase) ListCategories(ctx context.Context, withProducts bool) ([]model.Category, error) {
	categories, err := u.categoryRepo.List(ctx, withProducts)
	if err != nil {
		return nil, dbError(ctx, "list categories", err)
	}
	return categories, nil
}

func (u *CatalogUsecase) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	if id <= 0 {
		return model.Category{}, badRequest("category id is required")
	}
	c, err := u.categoryRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, notFound("category not found")
	}
	if err != nil {
		return model.Category{}, dbError(ctx, "get category", err)
	}
	return c, nil
}

func (u *CatalogUsecase) GetCategoryBySlug(ctx context.Context, slug string) (model.Category, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return model.Category{}, badRequest("slug is required")
	}
	c, err := u.categoryRepo.FindBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, notFound("category not found")
	}
	if err != nil {
		return model.Category{}, dbError(ctx, "get category by slug", err)
	}
	return c, nil
}

func (u *CatalogUsecase) CreateCategory(ctx context.Context, actorID int64, in CategoryInput) (model.Category, error) {
	c, err := buildCategory(in)
	if err != nil {
		return model.Category{}, err
	}

	if err := u.categoryRepo.Create(ctx, &c); err != nil {
		return model.Category{}, storeError(ctx, "create category", err)
	}

	u.audit(ctx, actorID, model.AuditActionCreate, model.AuditResourceCategory, c.ID, nil, c)
	return c, nil
}

func (u *CatalogUsecase) UpdateCategory(ctx context.Context, actorID int64, id int64, in CategoryInput) (model.Category, error) {
	if id <= 0 {
		return model.Category{}, badRequest("category id is required")
	}
	c, err := buildCategory(in)
	if err != nil {
		return model.Category{}, err
	}

	before, err := u.categoryRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, notFound("category not found")
	}
	if err != nil {
		return model.Category{}, dbError(ctx, "get category", err)
	}
	before.Products = nil

	c.ID = id
	if err := u.categoryRepo.Update(ctx, &c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Category{}, notFound("category not found")
		}
		return model.Category{}, storeError(ctx, "update category", err)
	}

	u.audit(ctx, actorID, model.AuditActionUpdate, model.AuditResourceCategory, id, before, c)
	return c, nil
}

// 商品もDB側でカスケード削除される
func (u *CatalogUsecase) DeleteCategory(ctx context.Context, actorID int64, id int64) (model.Category, error) {
	if id <= 0 {
		return model.Category{}, badRequest("category id is required")
	}

	c, err := u.categoryRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, notFound("category not found")
	}
	if err != nil {
		return model.Category{}, dbError(ctx, "get category", err)
	}

	if err := u.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Category{}, notFound("category not found")
		}
		return model.Category{}, dbError(ctx, "delete category", err)
	}

	u.audit(ctx, actorID, model.AuditActionDelete, model.AuditResourceCategory, id, c, nil)
	c.Products = nil
	return c, nil
}

// =====================
// products
// =====================

func (u *CatalogUsecase) ListProducts(ctx context.Context, f repo.ProductFilter) ([]model.Product, error) {
	products, err := u.productRepo.List(ctx, f)
	if err != nil {
		return nil, dbError(ctx, "list products", err)
	}
	return products, nil
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	if id <= 0 {
		return model.Product{}, badRequest("product id is required")
	}
	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, notFound("product not found")
	}
	if err != nil {
		return model.Product{}, dbError(ctx, "get product", err)
	}
	return p, nil
}

func (u *CatalogUsecase) GetProductBySlug(ctx context.Context, slug string) (model.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return model.Product{}, badRequest("slug is required")
	}
	p, err := u.productRepo.FindBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, notFound("product not found")
	}
	if err != nil {
		return model.Product{}, dbError(ctx, "get product by slug", err)
	}
	return p, nil
}

func (u *CatalogUsecase) CreateProduct(ctx context.Context, actorID int64, in ProductInput) (model.Product, error) {
	p, err := u.buildProduct(ctx, in)
	if err != nil {
		return model.Product{}, err
	}

	if err := u.productRepo.Create(ctx, &p); err != nil {
		return model.Product{}, storeError(ctx, "create product", err)
	}

	u.audit(ctx, actorID, model.AuditActionCreate, model.AuditResourceProduct, p.ID, nil, p)
	return p, nil
}

func (u *CatalogUsecase) UpdateProduct(ctx context.Context, actorID int64, id int64, in ProductInput) (model.Product, error) {
	if id <= 0 {
		return model.Product{}, badRequest("product id is required")
	}
	p, err := u.buildProduct(ctx, in)
	if err != nil {
		return model.Product{}, err
	}

	before, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, notFound("product not found")
	}
	if err != nil {
		return model.Product{}, dbError(ctx, "get product", err)
	}
	before.Category = nil

	p.ID = id
	if err := u.productRepo.Update(ctx, &p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, notFound("product not found")
		}
		return model.Product{}, storeError(ctx, "update product", err)
	}

	u.audit(ctx, actorID, model.AuditActionUpdate, model.AuditResourceProduct, id, before, p)
	return p, nil
}

func (u *CatalogUsecase) DeleteProduct(ctx context.Context, actorID int64, id int64) (model.Product, error) {
	if id <= 0 {
		return model.Product{}, badRequest("product id is required")
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, notFound("product not found")
	}
	if err != nil {
		return model.Product{}, dbError(ctx, "get product", err)
	}

	if err := u.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, notFound("product not found")
		}
		return model.Product{}, dbError(ctx, "delete product", err)
	}

	u.audit(ctx, actorID, model.AuditActionDelete, model.AuditResourceProduct, id, p, nil)
	return p, nil
}

// =====================
// helpers
// =====================

// slugは毎回名前から作り直す（クライアント指定は受けない）
func buildCategory(in CategoryInput) (model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Category{}, badRequest("name is required")
	}
	image := strings.TrimSpace(in.Image)
	if image == "" {
		return model.Category{}, badRequest("image is required")
	}
	slug := model.Slugify(name)
	if slug == "" {
		return model.Category{}, badRequest("name must contain letters or digits")
	}
	return model.Category{Name: name, Slug: slug, Image: image}, nil
}

// price 0 と stock 0 は「未入力」として弾く。
// priceは先に小数2桁へ丸めてから見る（0.001は0扱い）
func (u *CatalogUsecase) buildProduct(ctx context.Context, in ProductInput) (model.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Product{}, badRequest("name is required")
	}
	price := in.Price.Round(2)
	if price.IsZero() {
		return model.Product{}, badRequest("price is required")
	}
	if price.IsNegative() {
		return model.Product{}, badRequest("invalid price")
	}
	if in.CategoryID <= 0 {
		return model.Product{}, badRequest("category id is required")
	}

	images := make([]string, 0, len(in.Images))
	for _, img := range in.Images {
		if s := strings.TrimSpace(img); s != "" {
			images = append(images, s)
		}
	}
	if len(images) == 0 {
		return model.Product{}, badRequest("images are required")
	}
	if in.Stock == 0 {
		return model.Product{}, badRequest("stock is required")
	}
	if in.Stock < 0 {
		return model.Product{}, badRequest("invalid stock")
	}

	slug := model.Slugify(name)
	if slug == "" {
		return model.Product{}, badRequest("name must contain letters or digits")
	}

	//カテゴリの存在確認
	if _, err := u.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, notFound("category not found")
		}
		return model.Product{}, dbError(ctx, "get category", err)
	}

	return model.Product{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(in.Description),
		Price:       price,
		Images:      pq.StringArray(images),
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
	}, nil
}

// 一意制約違反（slug重複）もstoreの失敗として500
func storeError(ctx context.Context, op string, err error) error {
	if errors.Is(err, repo.ErrDuplicate) {
		logger.Warn(ctx, "duplicate slug", "op", op, "error", err)
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return dbError(ctx, op, err)
}

// 監査ログは失敗しても本処理は成功扱い（ログだけ残す）
func (u *CatalogUsecase) audit(ctx context.Context, actorID int64, action model.AuditAction, rt model.AuditResourceType, id int64, before, after any) {
	if u.auditRepo == nil {
		return
	}
	entry := model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: rt,
		ResourceID:   id,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
		CreatedAt:    time.Now(),
	}
	if err := u.auditRepo.Create(ctx, entry); err != nil {
		logger.Warn(ctx, "audit log write failed", "action", action, "resource", rt, "id", id, "error", err)
	}
}

func toJSON(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
