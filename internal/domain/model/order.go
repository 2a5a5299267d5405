package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Order struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string      `gorm:"type:varchar(30);not null;uniqueIndex" json:"orderNumber"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	//金額は作成時に確定し、以後は再計算しない
	TotalAmount  float64 `gorm:"type:numeric(10,2);not null" json:"totalAmount"`
	Subtotal     float64 `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	ShippingCost float64 `gorm:"type:numeric(10,2);not null" json:"shippingCost"`
	Tax          float64 `gorm:"type:numeric(10,2);not null" json:"tax"`

	CustomerName  string  `gorm:"type:varchar(255);not null" json:"customerName"`
	CustomerEmail string  `gorm:"type:varchar(255);not null" json:"customerEmail"`
	CustomerPhone *string `gorm:"type:varchar(30)" json:"customerPhone"`

	//住所は注文時点のスナップショット（参照ではなくコピー）
	ShippingStreet  string `gorm:"type:varchar(255);not null" json:"shippingStreet"`
	ShippingCity    string `gorm:"type:varchar(255);not null" json:"shippingCity"`
	ShippingState   string `gorm:"type:varchar(255);not null" json:"shippingState"`
	ShippingZip     string `gorm:"type:varchar(20);not null" json:"shippingZip"`
	ShippingCountry string `gorm:"type:varchar(100);not null" json:"shippingCountry"`

	BillingStreet  *string `gorm:"type:varchar(255)" json:"billingStreet"`
	BillingCity    *string `gorm:"type:varchar(255)" json:"billingCity"`
	BillingState   *string `gorm:"type:varchar(255)" json:"billingState"`
	BillingZip     *string `gorm:"type:varchar(20)" json:"billingZip"`
	BillingCountry *string `gorm:"type:varchar(100)" json:"billingCountry"`

	ShippingMethod string        `gorm:"type:varchar(20);not null" json:"shippingMethod"`
	PaymentMethod  *string       `gorm:"type:varchar(20)" json:"paymentMethod"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(20);not null" json:"paymentStatus"`
	Notes          *string       `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}
