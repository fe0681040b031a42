package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type categoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewCategoryGormRepository(db *gorm.DB) repo.CategoryRepository {
	return &categoryGormRepository{db: db}
}

func (r *categoryGormRepository) List(ctx context.Context, withProducts bool) ([]model.Category, error) {
	q := r.db.WithContext(ctx).Order("id asc")
	if withProducts {
		q = q.Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		})
	}

	var categories []model.Category
	if err := q.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryGormRepository) FindByID(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return model.Category{}, translateError(err)
	}
	return c, nil
}

func (r *categoryGormRepository) FindBySlug(ctx context.Context, slug string) (model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("slug = ?", slug).
		First(&c).Error
	if err != nil {
		return model.Category{}, translateError(err)
	}
	return c, nil
}

func (r *categoryGormRepository) Create(ctx context.Context, c *model.Category) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error)
}

func (r *categoryGormRepository) Update(ctx context.Context, c *model.Category) error {
	res := r.db.WithContext(ctx).
		Model(&model.Category{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"name":  c.Name,
			"slug":  c.Slug,
			"image": c.Image,
		})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}

	//更新後の値を読み直す
	return translateError(r.db.WithContext(ctx).Where("id = ?", c.ID).First(c).Error)
}

func (r *categoryGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Category{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *categoryGormRepository) UpsertBySlug(ctx context.Context, c *model.Category) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(c).Error
	if err != nil {
		return translateError(err)
	}
	return translateError(r.db.WithContext(ctx).Where("slug = ?", c.Slug).First(c).Error)
}
