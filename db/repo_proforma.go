package db

import (
	"Gin_postgres_redis_seller_admin/models"
	"context"
	"strings"

	"gorm.io/gorm"
)

// CreateProforma 连同条目一起落库，总价服务端按条目算，不信前端
func (r *Repo) CreateProforma(ctx context.Context, p *models.Proforma) error {
	total := 0.0
	for _, it := range p.Items {
		total += float64(it.Quantity) * it.UnitPrice
	}
	p.Total = total
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(p).Error
	})
}

func (r *Repo) FindProformaByID(ctx context.Context, id uint) (*models.Proforma, error) {
	var p models.Proforma
	if err := r.DB.WithContext(ctx).Preload("Items").First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

type ListProformasResult struct {
	Proformas []models.Proforma `json:"proformas"`
	Total     int64             `json:"total"`
}

func (r *Repo) ListProformas(ctx context.Context, q, status string, page, size int) (ListProformasResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	tx := r.DB.WithContext(ctx).Model(&models.Proforma{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(number) LIKE ? OR LOWER(customer_name) LIKE ?", like, like)
	}
	if status != "" {
		tx = tx.Where("status = ?", status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListProformasResult{}, err
	}
	var rows []models.Proforma
	if err := tx.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&rows).Error; err != nil {
		return ListProformasResult{}, err
	}
	return ListProformasResult{Proformas: rows, Total: total}, nil
}

func (r *Repo) UpdateProformaStatus(ctx context.Context, id uint, status string) error {
	return r.DB.WithContext(ctx).Model(&models.Proforma{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *Repo) DeleteProformaByID(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("proforma_id = ?", id).Delete(&models.ProformaItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Proforma{}, id).Error
	})
}

func (r *Repo) CountProformas(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Proforma{}).Count(&n).Error
	return n, err
}

func (r *Repo) RecentProformas(ctx context.Context, limit int) ([]models.Proforma, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	var rows []models.Proforma
	err := r.DB.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
