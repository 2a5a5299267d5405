package model

import "time"

type OrderItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64 `gorm:"not null;index" json:"orderId"`
	ProductID int64 `gorm:"not null;index" json:"productId"`

	Quantity   int64   `gorm:"not null" json:"quantity"`
	UnitPrice  float64 `gorm:"type:numeric(10,2);not null" json:"unitPrice"`
	TotalPrice float64 `gorm:"type:numeric(10,2);not null" json:"totalPrice"`

	//商品名のスナップショット（商品が消えても注文履歴は壊れない）
	ProductName string `gorm:"type:varchar(255);not null" json:"productName"`

	//表示用の参照。削除はRESTRICTで履歴を守る
	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
}
