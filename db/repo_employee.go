package db

import (
	"Gin_postgres_redis_seller_admin/models"
	"context"
	"strings"
)

func (r *Repo) CreateEmployee(ctx context.Context, e *models.Employee) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *Repo) FindEmployeeByID(ctx context.Context, id uint) (*models.Employee, error) {
	var e models.Employee
	if err := r.DB.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repo) FindEmployeeByCode(ctx context.Context, code string) (*models.Employee, error) {
	var e models.Employee
	if err := r.DB.WithContext(ctx).Where("code = ?", code).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

type ListEmployeesResult struct {
	Employees []models.Employee `json:"employees"`
	Total     int64             `json:"total"`
}

func (r *Repo) ListEmployees(ctx context.Context, q string, page, size int) (ListEmployeesResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	tx := r.DB.WithContext(ctx).Model(&models.Employee{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where(
			"LOWER(code) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(department) LIKE ?",
			like, like, like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListEmployeesResult{}, err
	}
	var employees []models.Employee
	if err := tx.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&employees).Error; err != nil {
		return ListEmployeesResult{}, err
	}
	return ListEmployeesResult{Employees: employees, Total: total}, nil
}

func (r *Repo) UpdateEmployee(ctx context.Context, id uint, fields map[string]any) error {
	return r.DB.WithContext(ctx).Model(&models.Employee{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *Repo) DeleteEmployeeByID(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Employee{}, id).Error
}

func (r *Repo) CountEmployees(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Employee{}).Count(&n).Error
	return n, err
}
