package model

import "time"

// UserはGOM（グループオーダー主催者）のアカウント。
// total_earningsはカラムに持たず、paid済みSubmissionから都度集計する。
type User struct {
	ID                   string     `gorm:"type:uuid;primaryKey" json:"id"`
	Email                string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash         string     `gorm:"column:password_hash;not null" json:"-"`
	FullName             string     `gorm:"type:varchar(100);not null" json:"full_name"`
	Username             string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	CountryCode          string     `gorm:"type:varchar(2);not null" json:"country_code"`
	WhatsappNumber       string     `gorm:"type:varchar(32)" json:"whatsapp_number"`
	Rating               float64    `gorm:"not null;default:0" json:"rating"`
	TotalOrdersCompleted int64      `gorm:"not null;default:0" json:"total_orders_completed"`
	TokenVersion         int        `gorm:"not null;default:0" json:"-"`
	IsActive             bool       `gorm:"not null;default:true" json:"-"`
	LastLoginAt          *time.Time `json:"-"`
	CreatedAt            time.Time  `gorm:"not null;autoCreateTime" json:"member_since"`
	UpdatedAt            time.Time  `gorm:"not null;autoUpdateTime" json:"-"`
}
