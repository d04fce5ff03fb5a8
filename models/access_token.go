package models

import "time"

// AccessToken 一次性私有链接（private link）
// token 本身就是能力凭证，过期/用掉之后保留做审计，不回收复用
type AccessToken struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Token          string `gorm:"uniqueIndex;size:64;not null" json:"token"`
	TargetType     string `gorm:"index;size:64;not null" json:"targetType"`
	TargetUserName string `gorm:"index;size:255;not null" json:"targetUserName"`
	TargetID       *uint  `gorm:"index" json:"targetId,omitempty"`

	IssuedAt  time.Time  `gorm:"not null" json:"issuedAt"`
	ExpiresAt time.Time  `gorm:"index;not null" json:"expiresAt"`
	Used      bool       `gorm:"not null;default:false" json:"used"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`

	CreatedBy string    `gorm:"size:255" json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (AccessToken) TableName() string {
	return "seller_access_tokens"
}

func (t *AccessToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
