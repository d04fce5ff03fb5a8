package db

import (
	"context"
	"errors"
	"time"

	"Gin_postgres_redis_seller_admin/models"
	"Gin_postgres_redis_seller_admin/privatelink"

	"gorm.io/gorm"
)

// *Repo 实现 privatelink.Store
var _ privatelink.Store = (*Repo)(nil)

func (r *Repo) CreateToken(ctx context.Context, t *models.AccessToken) error {
	err := r.DB.WithContext(ctx).Create(t).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return privatelink.ErrDuplicateToken
	}
	return err
}

func (r *Repo) GetToken(ctx context.Context, token string) (*models.AccessToken, error) {
	var t models.AccessToken
	err := r.DB.WithContext(ctx).Where("token = ?", token).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ConsumeToken 整个临界区就是这一条条件更新：
// 并发兑换时数据库保证只有一行生效，多实例部署也成立
func (r *Repo) ConsumeToken(ctx context.Context, token string, now time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.AccessToken{}).
		Where("token = ? AND used = ? AND expires_at > ?", token, false, now).
		Updates(map[string]any{"used": true, "used_at": now})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repo) ReleaseToken(ctx context.Context, token string) error {
	res := r.DB.WithContext(ctx).Model(&models.AccessToken{}).
		Where("token = ? AND used = ?", token, true).
		Updates(map[string]any{"used": false, "used_at": nil})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("token not in consumed state")
	}
	return nil
}

// 管理端列表/删除

type ListTokensResult struct {
	Tokens []models.AccessToken `json:"tokens"`
	Total  int64                `json:"total"`
}

func (r *Repo) ListTokens(ctx context.Context, targetType string, page, size int) (ListTokensResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	tx := r.DB.WithContext(ctx).Model(&models.AccessToken{})
	if targetType != "" {
		tx = tx.Where("target_type = ?", targetType)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListTokensResult{}, err
	}
	var tokens []models.AccessToken
	if err := tx.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&tokens).Error; err != nil {
		return ListTokensResult{}, err
	}
	return ListTokensResult{Tokens: tokens, Total: total}, nil
}

func (r *Repo) DeleteTokensByID(ctx context.Context, ids []uint) (int64, error) {
	res := r.DB.WithContext(ctx).Delete(&models.AccessToken{}, ids)
	return res.RowsAffected, res.Error
}

func (r *Repo) CountOpenTokens(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.AccessToken{}).
		Where("used = ? AND expires_at > ?", false, now).
		Count(&n).Error
	return n, err
}
