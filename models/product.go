package models

import "time"

type Product struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	SKU         string  `gorm:"uniqueIndex;size:64;not null" json:"sku"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null;default:0" json:"price"`
	Category    string  `gorm:"index;size:128" json:"category"`
	Active      bool    `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Variants []Variant `json:"variants,omitempty"`
}

func (Product) TableName() string {
	return "seller_products"
}

// Variant 商品变体；外部贡献者通过私有链接上传时 UploadedBy 记 targetUserName
type Variant struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	ProductID  uint    `gorm:"index;not null" json:"productId"`
	Name       string  `gorm:"size:255;not null" json:"name"`
	Color      string  `gorm:"size:64" json:"color"`
	Size       string  `gorm:"size:64" json:"size"`
	Price      float64 `gorm:"not null;default:0" json:"price"`
	ImageKey   string  `gorm:"size:512" json:"imageKey"`
	UploadedBy string  `gorm:"size:255" json:"uploadedBy"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Variant) TableName() string {
	return "seller_product_variants"
}
