package models

import "time"

// Employee 员工档案；Code 就是私有链接里的 targetUserName（工号）
type Employee struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Code       string `gorm:"uniqueIndex;size:64;not null" json:"code"`
	FirstName  string `gorm:"size:255;not null" json:"firstName"`
	LastName   string `gorm:"size:255;not null" json:"lastName"`
	Department string `gorm:"size:255" json:"department"`
	Phone      string `gorm:"size:32" json:"phone"`
	Email      string `gorm:"size:255" json:"email"`
	Active     bool   `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Employee) TableName() string {
	return "seller_employees"
}
