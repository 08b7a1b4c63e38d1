package model

import "time"

// 支払いステータス。pending以外はすべて終端。
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusExpired   PaymentStatus = "expired"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// Terminalは終端状態かどうかを返す
func (s PaymentStatus) Terminal() bool {
	return s != PaymentStatusPending
}

// CanTransitionToはsからnextへの遷移が許されるかを返す。
// 許される遷移はpending→{paid, failed, expired, cancelled}のみ。
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	if s != PaymentStatusPending {
		return false
	}
	switch next {
	case PaymentStatusPaid, PaymentStatusFailed, PaymentStatusExpired, PaymentStatusCancelled:
		return true
	default:
		return false
	}
}

// CountsTowardFillはfill countに算入するステータスかを返す。
// failed/expired/cancelledは履歴として残すが進捗には数えない。
func (s PaymentStatus) CountsTowardFill() bool {
	return s == PaymentStatusPending || s == PaymentStatusPaid
}

// Submissionは購入者1人分の参加。購入者はアカウントを持たない（連絡先のみ）。
type Submission struct {
	ID              string        `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID         string        `gorm:"type:uuid;not null;index" json:"order_id"`
	BuyerName       string        `gorm:"type:varchar(100);not null" json:"buyer_name"`
	BuyerPhone      string        `gorm:"type:varchar(32);not null" json:"buyer_phone"`
	WhatsappUpdates bool          `gorm:"not null;default:false" json:"whatsapp_updates"`
	Quantity        int64         `gorm:"not null" json:"quantity"`
	PaymentMethod   PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus   PaymentStatus `gorm:"type:varchar(20);not null;index" json:"payment_status"`
	CreatedAt       time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
