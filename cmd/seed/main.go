package main

import (
	"fmt"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/infra/db"
	auth "app/internal/usecase/auth_usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 対応国のマスタ。支払い方法は国ごとの許可リスト。
var countries = []model.Country{
	{
		Code:           "PH",
		Name:           "Philippines",
		CurrencyCode:   "PHP",
		CurrencySymbol: "₱",
		PaymentMethods: []model.PaymentMethod{
			model.PaymentMethodGcash,
			model.PaymentMethodPaymaya,
			model.PaymentMethodBPI,
			model.PaymentMethodBankTransfer,
		},
	},
	{
		Code:           "SG",
		Name:           "Singapore",
		CurrencyCode:   "SGD",
		CurrencySymbol: "S$",
		PaymentMethods: []model.PaymentMethod{
			model.PaymentMethodPaynow,
			model.PaymentMethodGrabpay,
			model.PaymentMethodBankTransfer,
		},
	},
	{
		Code:           "MY",
		Name:           "Malaysia",
		CurrencyCode:   "MYR",
		CurrencySymbol: "RM",
		PaymentMethods: []model.PaymentMethod{
			model.PaymentMethodGrabpay,
			model.PaymentMethodBankTransfer,
		},
	},
	{
		Code:           "ID",
		Name:           "Indonesia",
		CurrencyCode:   "IDR",
		CurrencySymbol: "Rp",
		PaymentMethods: []model.PaymentMethod{
			model.PaymentMethodBankTransfer,
		},
	},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Country{},
		&model.Order{},
		&model.Submission{},
	); err != nil {
		panic(err)
	}

	if err := seedCountries(gormDB); err != nil {
		panic(err)
	}

	if err := seedDemoData(gormDB); err != nil {
		panic(err)
	}

	fmt.Println("seed done")
}

func seedCountries(gormDB *gorm.DB) error {
	// 再実行しても増えないようupsertにする
	return gormDB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		UpdateAll: true,
	}).Create(&countries).Error
}

// デモ用のGOMアカウントと公開中のOrderを1件作る
func seedDemoData(gormDB *gorm.DB) error {
	var count int64
	if err := gormDB.Model(&model.User{}).Where("email = ?", "demo@example.com").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hasher := auth.NewBcryptPasswordHasher(12)
	hashed, err := hasher.Hash("demo-password-123")
	if err != nil {
		return err
	}

	now := time.Now()
	gom := model.User{
		ID:             uuid.NewString(),
		Email:          "demo@example.com",
		PasswordHash:   hashed,
		FullName:       "Demo Gom",
		Username:       "demo_gom",
		CountryCode:    "PH",
		WhatsappNumber: "+639171234567",
		Rating:         4.8,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := gormDB.Create(&gom).Error; err != nil {
		return err
	}

	max := int64(120)
	order := model.Order{
		ID:            uuid.NewString(),
		UserID:        gom.ID,
		Title:         "Photocard Group Order Batch 12",
		Description:   "Official photocards, sealed. Shipping from Manila.",
		Images:        []string{"https://example.com/images/batch12.jpg"},
		PricePerItem:  45000, // PHP 450.00
		CurrencyCode:  "PHP",
		MinimumOrders: 50,
		MaximumOrders: &max,
		ClosingDate:   now.Add(7 * 24 * time.Hour),
		PaymentMethods: []model.PaymentMethod{
			model.PaymentMethodGcash,
			model.PaymentMethodBankTransfer,
		},
		PaymentInstructions: "GCash 0917-123-4567. Send proof within 24h.",
		IsPublished:         true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	return gormDB.Create(&order).Error
}
