package unit

import (
	"context"
	"testing"

	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDashboardUsecase_Summary(t *testing.T) {
	orders := new(OrderRepoMock)
	subs := new(SubmissionRepoMock)
	users := new(UserRepoMock)
	countries := new(CountryRepoMock)

	gom := testGom
	gom.Rating = 4.8
	gom.TotalOrdersCompleted = 12
	users.On("FindByID", mock.Anything, "gom-1").Return(&gom, nil)

	subs.On("SumPaidEarningsByOwner", mock.Anything, "gom-1").Return(int64(2250000), nil)
	orders.On("CountActiveByOwner", mock.Anything, "gom-1", testNow).Return(int64(3), nil)
	subs.On("CountDistinctBuyersByOwner", mock.Anything, "gom-1").Return(int64(87), nil)
	countries.On("FindByCode", mock.Anything, "PH").Return(testCountryPH, nil)

	uc := usecase.NewDashboardUsecase(orders, subs, users, countries, &fixedClock{now: testNow})

	out, err := uc.Summary(context.Background(), "gom-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(2250000), out.TotalEarnings)
	assert.Equal(t, "PHP", out.CurrencyCode)
	assert.Equal(t, "₱", out.CurrencySymbol)
	assert.Equal(t, int64(3), out.ActiveOrders)
	assert.Equal(t, int64(87), out.TotalBuyers)
	// 12件完了 x 20時間
	assert.Equal(t, int64(240), out.TimeSavedHours)
	assert.Equal(t, 4.8, out.Rating)
}

func TestDashboardUsecase_Summary_Unauthenticated(t *testing.T) {
	uc := usecase.NewDashboardUsecase(new(OrderRepoMock), new(SubmissionRepoMock), new(UserRepoMock), new(CountryRepoMock), &fixedClock{now: testNow})

	_, err := uc.Summary(context.Background(), "")
	assertErrContains(t, err, "unauthorized")
}

func TestEstimatePotentialEarnings(t *testing.T) {
	// PHP450.00 x 50個 x 10%
	assert.Equal(t, int64(225000), usecase.EstimatePotentialEarnings(45000, 50))
	assert.Equal(t, int64(0), usecase.EstimatePotentialEarnings(0, 50))
	assert.Equal(t, int64(0), usecase.EstimatePotentialEarnings(45000, 0))
	assert.Equal(t, int64(0), usecase.EstimatePotentialEarnings(-1, 50))
}
