package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newSubmissionEnv() (*usecase.SubmissionUsecase, *TxManagerMock, *OrderRepoMock, *SubmissionRepoMock) {
	orders := new(OrderRepoMock)
	subs := new(SubmissionRepoMock)
	tx := &TxManagerMock{Repos: &TxReposMock{orders: orders, submissions: subs}}
	uc := usecase.NewSubmissionUsecase(tx, orders, subs, &seqIDGen{}, &fixedClock{now: testNow})
	return uc, tx, orders, subs
}

func validSubmit() usecase.SubmitInput {
	return usecase.SubmitInput{
		BuyerName:     "Maria Santos",
		BuyerPhone:    "+639170000001",
		Quantity:      1,
		PaymentMethod: model.PaymentMethodGcash,
	}
}

// =====================
// Submit
// =====================

func TestSubmissionUsecase_Submit_QuantityMustBePositive(t *testing.T) {
	uc, _, _, _ := newSubmissionEnv()

	in := validSubmit()
	in.Quantity = 0
	_, err := uc.Submit(context.Background(), "order-1", in)
	assertErrContains(t, err, "quantity must be positive")
}

func TestSubmissionUsecase_Submit_BuyerNameRequired(t *testing.T) {
	uc, _, _, _ := newSubmissionEnv()

	in := validSubmit()
	in.BuyerName = "  "
	_, err := uc.Submit(context.Background(), "order-1", in)
	assertErrContains(t, err, "buyer name required")
}

func TestSubmissionUsecase_Submit_UnknownPaymentMethod(t *testing.T) {
	uc, _, _, _ := newSubmissionEnv()

	in := validSubmit()
	in.PaymentMethod = "cash_on_hand"
	_, err := uc.Submit(context.Background(), "order-1", in)
	assertErrContains(t, err, "unknown payment method")
}

// 下書きOrderへの参加は404（購入者には存在しない扱い）
func TestSubmissionUsecase_Submit_DraftOrderHidden(t *testing.T) {
	uc, tx, orders, _ := newSubmissionEnv()

	o := publishedOrder()
	o.IsPublished = false
	tx.On("WithinTx", mock.Anything).Return()
	orders.On("FindByID", mock.Anything, "order-1").Return(o, nil)

	_, err := uc.Submit(context.Background(), "order-1", validSubmit())
	assertErrContains(t, err, "not found")
}

func TestSubmissionUsecase_Submit_MethodNotAcceptedForOrder(t *testing.T) {
	uc, tx, orders, _ := newSubmissionEnv()

	tx.On("WithinTx", mock.Anything).Return()
	orders.On("FindByID", mock.Anything, "order-1").Return(publishedOrder(), nil)

	in := validSubmit()
	in.PaymentMethod = model.PaymentMethodBankTransfer
	_, err := uc.Submit(context.Background(), "order-1", in)
	assertErrContains(t, err, "payment method not accepted for this order")
}

// 最大数に達していたらquantityに関係なく拒否
func TestSubmissionUsecase_Submit_OrderAlreadyFull(t *testing.T) {
	uc, tx, orders, subs := newSubmissionEnv()

	o := publishedOrder()
	o.MaximumOrders = ptrInt64(50)
	tx.On("WithinTx", mock.Anything).Return()
	orders.On("FindByID", mock.Anything, "order-1").Return(o, nil)
	subs.On("SumQuantityByStatuses", mock.Anything, "order-1", mock.Anything).Return(int64(50), nil)

	_, err := uc.Submit(context.Background(), "order-1", validSubmit())

	var ce *usecase.CapacityError
	assert.True(t, errors.As(err, &ce))
	assertErrContains(t, err, "no longer available")
	subs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 枠は残っているがquantity分は入りきらない
func TestSubmissionUsecase_Submit_NotEnoughSpotsForQuantity(t *testing.T) {
	uc, tx, orders, subs := newSubmissionEnv()

	o := publishedOrder()
	o.MaximumOrders = ptrInt64(50)
	tx.On("WithinTx", mock.Anything).Return()
	orders.On("FindByID", mock.Anything, "order-1").Return(o, nil)
	subs.On("SumQuantityByStatuses", mock.Anything, "order-1", mock.Anything).Return(int64(48), nil)

	in := validSubmit()
	in.Quantity = 5
	_, err := uc.Submit(context.Background(), "order-1", in)

	var ce *usecase.CapacityError
	assert.True(t, errors.As(err, &ce))
	assertErrContains(t, err, "not enough spots left")
	subs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmissionUsecase_Submit_ClosedOrder(t *testing.T) {
	uc, tx, orders, subs := newSubmissionEnv()

	o := publishedOrder()
	o.ClosingDate = testNow.Add(-time.Minute)
	tx.On("WithinTx", mock.Anything).Return()
	orders.On("FindByID", mock.Anything, "order-1").Return(o, nil)
	subs.On("SumQuantityByStatuses", mock.Anything, "order-1", mock.Anything).Return(int64(10), nil)

	_, err := uc.Submit(context.Background(), "order-1", validSubmit())

	var ce *usecase.CapacityError
	assert.True(t, errors.As(err, &ce))
}

func TestSubmissionUsecase_Submit_CreatesPending(t *testing.T) {
	uc, tx, orders, subs := newSubmissionEnv()

	tx.On("WithinTx", mock.Anything).Return()
	orders.On("FindByID", mock.Anything, "order-1").Return(publishedOrder(), nil)
	subs.On("SumQuantityByStatuses", mock.Anything, "order-1", mock.Anything).Return(int64(10), nil)
	subs.On("Create", mock.Anything, mock.MatchedBy(func(s model.Submission) bool {
		return s.OrderID == "order-1" &&
			s.PaymentStatus == model.PaymentStatusPending &&
			s.Quantity == 2 &&
			s.BuyerName == "Maria Santos" &&
			s.CreatedAt.Equal(testNow)
	})).Return(nil)

	in := validSubmit()
	in.Quantity = 2
	out, err := uc.Submit(context.Background(), "order-1", in)
	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, out.PaymentStatus)
	assert.Equal(t, "id-1", out.ID)

	tx.AssertExpectations(t)
	subs.AssertExpectations(t)
}

// =====================
// ApplyPaymentResult
// =====================

func TestSubmissionUsecase_ApplyPaymentResult_InvalidOutcome(t *testing.T) {
	uc, _, _, _ := newSubmissionEnv()

	_, err := uc.ApplyPaymentResult(context.Background(), "gom-1", "sub-1", model.PaymentStatusPending)
	assertErrContains(t, err, "invalid outcome")
}

func TestSubmissionUsecase_ApplyPaymentResult_NotOwner(t *testing.T) {
	uc, _, orders, subs := newSubmissionEnv()

	subs.On("FindByID", mock.Anything, "sub-1").Return(model.Submission{
		ID: "sub-1", OrderID: "order-1", PaymentStatus: model.PaymentStatusPending,
	}, nil)
	orders.On("FindByID", mock.Anything, "order-1").Return(publishedOrder(), nil)

	_, err := uc.ApplyPaymentResult(context.Background(), "intruder", "sub-1", model.PaymentStatusPaid)

	var ae *usecase.AuthorizationError
	assert.True(t, errors.As(err, &ae))
	subs.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmissionUsecase_ApplyPaymentResult_PendingToPaid(t *testing.T) {
	uc, _, orders, subs := newSubmissionEnv()

	subs.On("FindByID", mock.Anything, "sub-1").Return(model.Submission{
		ID: "sub-1", OrderID: "order-1", PaymentStatus: model.PaymentStatusPending,
	}, nil)
	orders.On("FindByID", mock.Anything, "order-1").Return(publishedOrder(), nil)
	subs.On("UpdateStatus", mock.Anything, "sub-1", model.PaymentStatusPaid, testNow).Return(nil)

	out, err := uc.ApplyPaymentResult(context.Background(), "gom-1", "sub-1", model.PaymentStatusPaid)
	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, out.PaymentStatus)

	subs.AssertExpectations(t)
}

// 終端状態からの再適用は拒否され、状態は変わらない
func TestSubmissionUsecase_ApplyPaymentResult_TerminalIsFinal(t *testing.T) {
	uc, _, orders, subs := newSubmissionEnv()

	subs.On("FindByID", mock.Anything, "sub-1").Return(model.Submission{
		ID: "sub-1", OrderID: "order-1", PaymentStatus: model.PaymentStatusPaid,
	}, nil)
	orders.On("FindByID", mock.Anything, "order-1").Return(publishedOrder(), nil)

	_, err := uc.ApplyPaymentResult(context.Background(), "gom-1", "sub-1", model.PaymentStatusFailed)

	var ite *usecase.InvalidTransitionError
	assert.True(t, errors.As(err, &ite))
	assert.Equal(t, model.PaymentStatusPaid, ite.From)
	assert.Equal(t, model.PaymentStatusFailed, ite.To)

	subs.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// =====================
// ExpireOverdue
// =====================

func TestSubmissionUsecase_ExpireOverdue_OrderStillOpen(t *testing.T) {
	uc, _, orders, subs := newSubmissionEnv()

	orders.On("FindByID", mock.Anything, "order-1").Return(publishedOrder(), nil)

	_, err := uc.ExpireOverdue(context.Background(), "gom-1", "order-1")
	assertErrContains(t, err, "order is still open")
	subs.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmissionUsecase_ExpireOverdue_MarksPendings(t *testing.T) {
	uc, _, orders, subs := newSubmissionEnv()

	o := publishedOrder()
	o.ClosingDate = testNow.Add(-time.Hour)
	orders.On("FindByID", mock.Anything, "order-1").Return(o, nil)
	subs.On("ListByOrderIDAndStatus", mock.Anything, "order-1", model.PaymentStatusPending).
		Return([]model.Submission{
			{ID: "sub-1", OrderID: "order-1", PaymentStatus: model.PaymentStatusPending},
			{ID: "sub-2", OrderID: "order-1", PaymentStatus: model.PaymentStatusPending},
		}, nil)
	subs.On("UpdateStatus", mock.Anything, "sub-1", model.PaymentStatusExpired, testNow).Return(nil)
	subs.On("UpdateStatus", mock.Anything, "sub-2", model.PaymentStatusExpired, testNow).Return(nil)

	out, err := uc.ExpireOverdue(context.Background(), "gom-1", "order-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), out.Expired)

	subs.AssertExpectations(t)
}

// =====================
// ListForOrder
// =====================

func TestSubmissionUsecase_ListForOrder_OwnerOnly(t *testing.T) {
	uc, _, orders, subs := newSubmissionEnv()

	orders.On("FindByID", mock.Anything, "order-1").Return(publishedOrder(), nil)

	_, err := uc.ListForOrder(context.Background(), "intruder", "order-1")

	var ae *usecase.AuthorizationError
	assert.True(t, errors.As(err, &ae))
	subs.AssertNotCalled(t, "ListByOrderID", mock.Anything, mock.Anything)
}

// =====================
// 小さいOrderの一連の流れ（最低2個）
// =====================

func TestSubmissionUsecase_SmallOrderLifecycle(t *testing.T) {
	orders := new(OrderRepoMock)
	subs := new(SubmissionRepoMock)
	tx := &TxManagerMock{Repos: &TxReposMock{orders: orders, submissions: subs}}
	uc := usecase.NewSubmissionUsecase(tx, orders, subs, &seqIDGen{}, &fixedClock{now: testNow})

	o := publishedOrder()
	o.MinimumOrders = 2
	o.MaximumOrders = ptrInt64(2)

	tx.On("WithinTx", mock.Anything).Return()
	orders.On("FindByID", mock.Anything, "order-1").Return(o, nil)

	// 参加のたびにfill countを読み直す：0 → 1 → 2
	subs.On("SumQuantityByStatuses", mock.Anything, "order-1", mock.Anything).Return(int64(0), nil).Once()
	subs.On("Create", mock.Anything, mock.Anything).Return(nil).Twice()
	subs.On("SumQuantityByStatuses", mock.Anything, "order-1", mock.Anything).Return(int64(1), nil).Once()
	subs.On("SumQuantityByStatuses", mock.Anything, "order-1", mock.Anything).Return(int64(2), nil)

	first, err := uc.Submit(context.Background(), "order-1", validSubmit())
	assert.NoError(t, err)

	second, err := uc.Submit(context.Background(), "order-1", validSubmit())
	assert.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// 満員になったので3人目は入れない
	_, err = uc.Submit(context.Background(), "order-1", validSubmit())
	var ce *usecase.CapacityError
	assert.True(t, errors.As(err, &ce))

	// 支払いを記録
	subs.On("FindByID", mock.Anything, first.ID).Return(first, nil)
	subs.On("FindByID", mock.Anything, second.ID).Return(second, nil)
	subs.On("UpdateStatus", mock.Anything, first.ID, model.PaymentStatusPaid, testNow).Return(nil)
	subs.On("UpdateStatus", mock.Anything, second.ID, model.PaymentStatusPaid, testNow).Return(nil)

	_, err = uc.ApplyPaymentResult(context.Background(), "gom-1", first.ID, model.PaymentStatusPaid)
	assert.NoError(t, err)
	_, err = uc.ApplyPaymentResult(context.Background(), "gom-1", second.ID, model.PaymentStatusPaid)
	assert.NoError(t, err)

	// 達成数は最後にセットしたmock値（2）のまま
	count, err := uc.CurrentFillCount(context.Background(), "order-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)

	subs.AssertExpectations(t)
}

var _ repo.TransactionManager = (*TxManagerMock)(nil)
