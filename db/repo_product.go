package db

import (
	"Gin_postgres_redis_seller_admin/models"
	"context"
	"strings"
)

func (r *Repo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *Repo) FindProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Preload("Variants").First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

type ListProductsResult struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

func (r *Repo) ListProducts(ctx context.Context, q, category string, page, size int) (ListProductsResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	tx := r.DB.WithContext(ctx).Model(&models.Product{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}
	if category != "" {
		tx = tx.Where("category = ?", category)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListProductsResult{}, err
	}
	var products []models.Product
	if err := tx.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&products).Error; err != nil {
		return ListProductsResult{}, err
	}
	return ListProductsResult{Products: products, Total: total}, nil
}

func (r *Repo) UpdateProduct(ctx context.Context, id uint, fields map[string]any) error {
	return r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *Repo) DeleteProductByID(ctx context.Context, id uint) error {
	// 变体跟着商品一起删
	if err := r.DB.WithContext(ctx).Where("product_id = ?", id).Delete(&models.Variant{}).Error; err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Delete(&models.Product{}, id).Error
}

func (r *Repo) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}

// Variants

func (r *Repo) CreateVariant(ctx context.Context, v *models.Variant) error {
	return r.DB.WithContext(ctx).Create(v).Error
}

func (r *Repo) ListVariants(ctx context.Context, productID uint) ([]models.Variant, error) {
	var vs []models.Variant
	err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&vs).Error
	return vs, err
}

func (r *Repo) DeleteVariantByID(ctx context.Context, productID, variantID uint) error {
	return r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.Variant{}, variantID).Error
}
