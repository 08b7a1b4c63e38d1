package model

import "time"

// Orderはグループオーダーの募集。
// 現在の参加数（fill count）はカラムに持たず、Submissionから集計する。
type Order struct {
	ID                    string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Title                 string          `gorm:"type:varchar(255);not null" json:"title"`
	Description           string          `gorm:"type:text;not null" json:"description"`
	Images                []string        `gorm:"serializer:json" json:"images"`
	PricePerItem          int64           `gorm:"not null;default:0" json:"price_per_item"`
	CurrencyCode          string          `gorm:"type:varchar(3);not null" json:"currency_code"`
	MinimumOrders         int64           `gorm:"not null;default:0" json:"minimum_orders"`
	MaximumOrders         *int64          `json:"maximum_orders"`
	ClosingDate           time.Time       `gorm:"index" json:"closing_date"`
	EstimatedShippingDate *time.Time      `json:"estimated_shipping_date"`
	PaymentMethods        []PaymentMethod `gorm:"serializer:json" json:"payment_methods"`
	PaymentInstructions   string          `gorm:"type:text" json:"payment_instructions"`
	IsPublished           bool            `gorm:"not null;default:false;index" json:"is_published"`
	CreatedAt             time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 画像は最大5枚まで
const MaxOrderImages = 5
