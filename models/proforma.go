package models

import "time"

const (
	ProformaStatusDraft     = "draft"
	ProformaStatusSent      = "sent"
	ProformaStatusConfirmed = "confirmed"
	ProformaStatusCancelled = "cancelled"
)

type Proforma struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Number       string  `gorm:"uniqueIndex;size:64;not null" json:"number"`
	CustomerName string  `gorm:"size:255;not null" json:"customerName"`
	Status       string  `gorm:"index;size:32;not null;default:'draft'" json:"status"`
	Total        float64 `gorm:"not null;default:0" json:"total"`
	Note         string  `gorm:"type:text" json:"note"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Items []ProformaItem `json:"items,omitempty"`
}

func (Proforma) TableName() string {
	return "seller_proformas"
}

type ProformaItem struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	ProformaID uint    `gorm:"index;not null" json:"proformaId"`
	ProductID  *uint   `gorm:"index" json:"productId,omitempty"`
	Label      string  `gorm:"size:255;not null" json:"label"`
	Quantity   int     `gorm:"not null;default:1" json:"quantity"`
	UnitPrice  float64 `gorm:"not null;default:0" json:"unitPrice"`

	CreatedAt time.Time `json:"createdAt"`
}

func (ProformaItem) TableName() string {
	return "seller_proforma_items"
}
