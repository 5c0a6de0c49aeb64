package models

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null"                 json:"name"`
	Address      string `gorm:"not null"                 json:"address"`
	PasswordHash string `gorm:"not null"                 json:"-"`
}

// ProductType is static reference data ("Electronics", "Sporting Goods", ...).
type ProductType struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Label string `gorm:"not null"                 json:"label"`
}

type Product struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"     json:"id"`
	DateCreated   time.Time `gorm:"autoCreateTime"               json:"date_created"`
	Title         string    `gorm:"size:55;not null"             json:"title"`
	Description   string    `gorm:"size:255;not null"            json:"description"`
	Price         float64   `gorm:"not null"                     json:"price"`
	Quantity      int       `gorm:"not null;check:quantity >= 0" json:"quantity"`
	UserID        uint      `gorm:"index;not null"               json:"user_id"`
	City          string    `gorm:"size:55;not null"             json:"city"`
	ImagePath     string    `gorm:"size:55"                      json:"image_path"`
	ProductTypeID uint      `gorm:"index;not null"               json:"product_type_id"`
}

type PaymentType struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	DateCreated   time.Time `gorm:"autoCreateTime"           json:"date_created"`
	Description   string    `gorm:"size:55;not null"         json:"description"`
	AccountNumber string    `gorm:"size:20;not null"         json:"account_number"`
	UserID        uint      `gorm:"index;not null"           json:"user_id"`
}

// Order is open (= the user's cart) while PaymentTypeID and DateCompleted
// are both null. A user has at most one open order at a time.
// An Order is open while PaymentTypeID and DateCompleted are both NULL.
// The partial unique index keeps concurrent inserts from giving a user
// two open orders at once.
type Order struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	DateCreated   time.Time  `gorm:"autoCreateTime"           json:"date_created"`
	DateCompleted *time.Time `json:"date_completed,omitempty"`
	UserID        uint       `gorm:"index;not null;uniqueIndex:idx_orders_user_open,where:payment_type_id IS NULL AND date_completed IS NULL" json:"user_id"`
	PaymentTypeID *uint      `gorm:"index"                    json:"payment_type_id,omitempty"`
}

// OrderLineItem links one order to one product. Each row is exactly one
// unit; adding the same product twice produces two rows.
type OrderLineItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint `gorm:"index;not null"           json:"order_id"`
	ProductID uint `gorm:"index;not null"           json:"product_id"`
}
