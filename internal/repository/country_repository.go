package repository

import (
	"context"

	"app/internal/domain/model"
)

type CountryRepository interface {
	FindByCode(ctx context.Context, code string) (model.Country, error)
	List(ctx context.Context) ([]model.Country, error)
}
