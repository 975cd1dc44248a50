package models

import (
	"time"

	"github.com/google/uuid"
)

// Order lifecycle: new -> in_delivery -> completed, or -> cancelled.
const (
	OrderStatusNew        = "new"
	OrderStatusInDelivery = "in_delivery"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

const (
	ProductTypeGas   = "gas"
	ProductTypeWater = "water"
)

type Customer struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name    string    `gorm:"not null;index" json:"name"`
	Phone   string    `gorm:"uniqueIndex;not null" json:"phone"`
	Address string    `gorm:"type:text;not null" json:"address"`

	// Expected number of days between reorders, used by the reminder batch.
	ConsumptionPatternDays int `gorm:"not null;default:30" json:"consumption_pattern_days"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	ProductType string    `gorm:"type:varchar(10);not null" json:"product_type"`

	// May go negative: order placement decrements without an availability check.
	StockQuantity int  `gorm:"not null;default:0" json:"stock_quantity"`
	IsActive      bool `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Order struct {
	ID         uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID uuid.UUID   `gorm:"type:uuid;not null;index" json:"customer_id"`
	Status     string      `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	TotalAmount float64    `gorm:"not null;default:0" json:"total_amount"`
	Notes      string      `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	Items      []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`

	// Price snapshot taken at order time; later product price changes don't touch it.
	UnitPrice float64 `gorm:"not null" json:"unit_price"`
	Subtotal  float64 `gorm:"not null" json:"subtotal"`
}

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"not null" json:"name"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
