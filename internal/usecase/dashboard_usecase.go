package usecase

import (
	"context"
	"net/http"

	repo "app/internal/repository"
)

// 1件のグループオーダーで浮く作業時間（時間）。個別対応との比較で使う目安。
const hoursSavedPerOrder = int64(20)

type DashboardUsecase struct {
	orderRepo      repo.OrderRepository
	submissionRepo repo.SubmissionRepository
	userRepo       repo.UserRepository
	countryRepo    repo.CountryRepository
	clock          Clock
}

// DI
func NewDashboardUsecase(
	orderRepo repo.OrderRepository,
	submissionRepo repo.SubmissionRepository,
	userRepo repo.UserRepository,
	countryRepo repo.CountryRepository,
	clock Clock,
) *DashboardUsecase {
	return &DashboardUsecase{
		orderRepo:      orderRepo,
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
		countryRepo:    countryRepo,
		clock:          clock,
	}
}

type DashboardSummaryOutput struct {
	TotalEarnings        int64   `json:"total_earnings"`
	CurrencyCode         string  `json:"currency_code"`
	CurrencySymbol       string  `json:"currency_symbol"`
	ActiveOrders         int64   `json:"active_orders"`
	TotalBuyers          int64   `json:"total_buyers"`
	TimeSavedHours       int64   `json:"time_saved_hours"`
	Rating               float64 `json:"rating"`
	TotalOrdersCompleted int64   `json:"total_orders_completed"`
}

// Summaryはオーナーのダッシュボード集計。
// 売上はpaid済みSubmissionから都度集計する（カラムには持たない）。
func (u *DashboardUsecase) Summary(ctx context.Context, ownerID string) (DashboardSummaryOutput, error) {
	if ownerID == "" {
		return DashboardSummaryOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	owner, err := u.userRepo.FindByID(ctx, ownerID)
	if err == repo.ErrUserNotFound {
		return DashboardSummaryOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return DashboardSummaryOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	earnings, err := u.submissionRepo.SumPaidEarningsByOwner(ctx, ownerID)
	if err != nil {
		return DashboardSummaryOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	active, err := u.orderRepo.CountActiveByOwner(ctx, ownerID, u.clock.Now())
	if err != nil {
		return DashboardSummaryOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	buyers, err := u.submissionRepo.CountDistinctBuyersByOwner(ctx, ownerID)
	if err != nil {
		return DashboardSummaryOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := DashboardSummaryOutput{
		TotalEarnings:        earnings,
		ActiveOrders:         active,
		TotalBuyers:          buyers,
		TimeSavedHours:       owner.TotalOrdersCompleted * hoursSavedPerOrder,
		Rating:               owner.Rating,
		TotalOrdersCompleted: owner.TotalOrdersCompleted,
	}

	country, err := u.countryRepo.FindByCode(ctx, owner.CountryCode)
	if err == nil {
		out.CurrencyCode = country.CurrencyCode
		out.CurrencySymbol = country.CurrencySymbol
	}

	return out, nil
}

// EstimatePotentialEarningsは手数料10%想定の見込み収入。
// 最低数に届いた場合の目安で、作成画面のプレビューに使う。
func EstimatePotentialEarnings(pricePerItem int64, minimumOrders int64) int64 {
	if pricePerItem <= 0 || minimumOrders <= 0 {
		return 0
	}
	return pricePerItem * minimumOrders / 10
}
