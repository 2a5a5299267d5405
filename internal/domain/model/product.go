package model

import "time"

type Product struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	Description *string `gorm:"type:text" json:"description"`

	//価格はnull許可（未設定の商品は表示のみ）
	Price         *float64 `gorm:"type:numeric(10,2)" json:"price"`
	DiscountPrice *float64 `gorm:"type:numeric(10,2)" json:"discountPrice"`
	IsOnSale      bool     `gorm:"not null;default:false" json:"isOnSale"`

	ImageURL *string `gorm:"type:varchar(500)" json:"imageUrl"`
	Slug     *string `gorm:"type:varchar(255)" json:"slug"`

	CategoryID int64     `gorm:"not null;index" json:"categoryId"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	Stock     int64     `gorm:"not null;default:0" json:"stock"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
