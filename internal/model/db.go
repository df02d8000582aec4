package model

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"size:128;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	Name         string `gorm:"size:128" json:"name"`
	Role         string `gorm:"size:16;not null;default:customer" json:"role"` // customer | admin
	Active       bool   `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:128;index;not null" json:"name"`
	Description string  `gorm:"size:512" json:"description"`
	Category    string  `gorm:"size:64;index" json:"category"`
	Price       float64 `gorm:"not null" json:"price"`
	Stock       int32   `gorm:"not null" json:"stock"`
	// prescription-only products require pharmacist review before dispatch
	RequiresPrescription bool `gorm:"not null;default:false" json:"requires_prescription"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type CartItem struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	UserID    uint  `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"user_id"`
	ProductID uint  `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"product_id"`
	Quantity  int32 `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
