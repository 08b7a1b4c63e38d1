package model

// Countryは通貨と許可された支払い方法のマスタ
type Country struct {
	Code           string          `gorm:"type:varchar(2);primaryKey" json:"code"`
	Name           string          `gorm:"type:varchar(100);not null" json:"name"`
	CurrencyCode   string          `gorm:"type:varchar(3);not null" json:"currency_code"`
	CurrencySymbol string          `gorm:"type:varchar(8);not null" json:"currency_symbol"`
	PaymentMethods []PaymentMethod `gorm:"serializer:json;not null" json:"payment_methods"`
}
