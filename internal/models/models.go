package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"   json:"id"`
	Title         string          `gorm:"not null"                   json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Discount      bool            `gorm:"default:false"              json:"discount"`
	DiscountPrice decimal.Decimal `gorm:"type:decimal(12,2)"         json:"discount_price"`
	Category      string          `gorm:"index"                      json:"category"`
	MainImage     string          `json:"main_image"`
	Count         uint            `json:"count"`
}

// WishlistEntry is the minimal projection of a product stored inside the
// user record when a product is liked.
type WishlistEntry struct {
	ProductID     uint            `json:"product_id"`
	Title         string          `json:"title"`
	Price         decimal.Decimal `json:"price"`
	Discount      bool            `json:"discount"`
	DiscountPrice decimal.Decimal `json:"discount_price,omitempty"`
	Category      string          `json:"category"`
	MainImage     string          `json:"main_image"`
}

// UserRecord is the durable per-user document. The wishlist lives embedded
// in it, not as a separate collection.
type UserRecord struct {
	UserID   uint            `json:"user_id"`
	Name     string          `json:"name,omitempty"`
	Surname  string          `json:"surname,omitempty"`
	Email    string          `json:"email,omitempty"`
	Wishlist []WishlistEntry `json:"wishlist"`
}

// UserBlob is the primary small-value row holding a JSON-encoded UserRecord.
type UserBlob struct {
	UserKey   string `gorm:"primaryKey"`
	Payload   []byte `gorm:"not null"`
	UpdatedAt time.Time
}

type Order struct {
	ID             uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	PublicID       string          `gorm:"uniqueIndex;not null"        json:"public_id"`
	UserID         uint            `gorm:"index;not null"              json:"user_id"`
	Status         string          `gorm:"not null"                    json:"status"`
	PaymentMethod  string          `gorm:"not null"                    json:"payment_method"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Discount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	Shipping       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shipping"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	BillingName    string          `gorm:"not null"                    json:"billing_name"`
	BillingSurname string          `json:"billing_surname"`
	BillingAddress string          `json:"billing_address"`
	BillingTown    string          `json:"billing_town"`
	BillingPhone   string          `json:"billing_phone"`
	CreatedAt      time.Time       `json:"created_at"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID   uint            `gorm:"index;not null"              json:"order_id"`
	ProductID uint            `gorm:"not null"                    json:"product_id"`
	Title     string          `gorm:"not null"                    json:"title"`
	MainImage string          `json:"main_image"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Quantity  uint            `gorm:"not null;check:quantity>0"   json:"quantity"`
}

type BlogPost struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	Title     string    `gorm:"not null"                 json:"title"`
	Content   string    `gorm:"not null"                 json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
