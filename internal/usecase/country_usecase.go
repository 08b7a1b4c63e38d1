package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CountryUsecase struct {
	countryRepo repo.CountryRepository
}

func NewCountryUsecase(countryRepo repo.CountryRepository) *CountryUsecase {
	return &CountryUsecase{countryRepo: countryRepo}
}

// 対応国の一覧（通貨と支払い方法の許可リスト）
func (u *CountryUsecase) List(ctx context.Context) ([]model.Country, error) {
	items, err := u.countryRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}
