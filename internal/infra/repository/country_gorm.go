package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type CountryGormRepository struct {
	db *gorm.DB
}

func NewCountryGormRepository(db *gorm.DB) *CountryGormRepository {
	return &CountryGormRepository{db: db}
}

func (r *CountryGormRepository) FindByCode(ctx context.Context, code string) (model.Country, error) {
	var c model.Country
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Country{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Country{}, err
	}
	return c, nil
}

func (r *CountryGormRepository) List(ctx context.Context) ([]model.Country, error) {
	var items []model.Country
	if err := r.db.WithContext(ctx).Order("code asc").Find(&items).Error; err != nil {
		return []model.Country{}, err
	}
	return items, nil
}
