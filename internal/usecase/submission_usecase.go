package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	"app/internal/domain/progress"
	repo "app/internal/repository"
)

type SubmissionUsecase struct {
	tx             repo.TransactionManager
	orderRepo      repo.OrderRepository
	submissionRepo repo.SubmissionRepository
	idGen          IDGenerator
	clock          Clock
}

// DI
func NewSubmissionUsecase(
	tx repo.TransactionManager,
	orderRepo repo.OrderRepository,
	submissionRepo repo.SubmissionRepository,
	idGen IDGenerator,
	clock Clock,
) *SubmissionUsecase {
	return &SubmissionUsecase{
		tx:             tx,
		orderRepo:      orderRepo,
		submissionRepo: submissionRepo,
		idGen:          idGen,
		clock:          clock,
	}
}

type SubmitInput struct {
	BuyerName       string
	BuyerPhone      string
	WhatsappUpdates bool
	Quantity        int64
	PaymentMethod   model.PaymentMethod
}

// SubmitはOrderへの参加を受け付けてpendingのSubmissionを作る。
// 同時参加とのレースを小さくするため、fill countの再読込とINSERTを
// 同じトランザクションで行う。
func (u *SubmissionUsecase) Submit(ctx context.Context, orderID string, in SubmitInput) (model.Submission, error) {
	if orderID == "" {
		return model.Submission{}, NewValidationError("order id required")
	}
	if in.Quantity <= 0 {
		return model.Submission{}, NewValidationError("quantity must be positive")
	}
	name := strings.TrimSpace(in.BuyerName)
	if name == "" {
		return model.Submission{}, NewValidationError("buyer name required")
	}
	phone := strings.TrimSpace(in.BuyerPhone)
	if phone == "" {
		return model.Submission{}, NewValidationError("buyer phone required")
	}
	if !in.PaymentMethod.Known() {
		return model.Submission{}, NewValidationError("unknown payment method")
	}

	now := u.clock.Now()

	var created model.Submission

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 下書きは購入者には存在しない扱い
		if !o.IsPublished {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		if !model.ContainsMethod(o.PaymentMethods, in.PaymentMethod) {
			return NewValidationError("payment method not accepted for this order")
		}

		// キャパ判定の直前に必ず読み直す
		count, err := r.Submissions().SumQuantityByStatuses(ctx, orderID, []model.PaymentStatus{
			model.PaymentStatusPending,
			model.PaymentStatusPaid,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if !progress.IsActive(o.IsPublished, o.ClosingDate, o.MaximumOrders, now, count) {
			return NewCapacityError("order is no longer available")
		}
		if o.MaximumOrders != nil && count+in.Quantity > *o.MaximumOrders {
			return NewCapacityError("not enough spots left")
		}

		created = model.Submission{
			ID:              u.idGen.NewID(),
			OrderID:         orderID,
			BuyerName:       name,
			BuyerPhone:      phone,
			WhatsappUpdates: in.WhatsappUpdates,
			Quantity:        in.Quantity,
			PaymentMethod:   in.PaymentMethod,
			PaymentStatus:   model.PaymentStatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := r.Submissions().Create(ctx, created); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	if err != nil {
		return model.Submission{}, err
	}
	return created, nil
}

// ApplyPaymentResultは支払い結果を記録する。
// pending以外からの遷移はInvalidTransitionErrorで拒否する。
// 購入者はアカウントを持たないので、記録するのはOrderのオーナー。
func (u *SubmissionUsecase) ApplyPaymentResult(ctx context.Context, callerID string, submissionID string, outcome model.PaymentStatus) (model.Submission, error) {
	if callerID == "" {
		return model.Submission{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if submissionID == "" {
		return model.Submission{}, NewValidationError("submission id required")
	}
	switch outcome {
	case model.PaymentStatusPaid, model.PaymentStatusFailed,
		model.PaymentStatusExpired, model.PaymentStatusCancelled:
	default:
		return model.Submission{}, NewValidationError("invalid outcome")
	}

	s, err := u.submissionRepo.FindByID(ctx, submissionID)
	if err == repo.ErrNotFound {
		return model.Submission{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Submission{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	o, err := u.orderRepo.FindByID(ctx, s.OrderID)
	if err != nil {
		return model.Submission{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.UserID != callerID {
		return model.Submission{}, NewAuthorizationError("not the order owner")
	}

	if !s.PaymentStatus.CanTransitionTo(outcome) {
		return model.Submission{}, &InvalidTransitionError{From: s.PaymentStatus, To: outcome}
	}

	now := u.clock.Now()
	if err := u.submissionRepo.UpdateStatus(ctx, submissionID, outcome, now); err != nil {
		return model.Submission{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	s.PaymentStatus = outcome
	s.UpdatedAt = now
	return s, nil
}

type ExpireOverdueOutput struct {
	Expired int64 `json:"expired"`
}

// ExpireOverdueは締切を過ぎたOrderのpendingをまとめてexpiredにする。
func (u *SubmissionUsecase) ExpireOverdue(ctx context.Context, callerID string, orderID string) (ExpireOverdueOutput, error) {
	if callerID == "" {
		return ExpireOverdueOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID == "" {
		return ExpireOverdueOutput{}, NewValidationError("order id required")
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return ExpireOverdueOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ExpireOverdueOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.UserID != callerID {
		return ExpireOverdueOutput{}, NewAuthorizationError("not the order owner")
	}

	now := u.clock.Now()
	if o.ClosingDate.IsZero() || o.ClosingDate.After(now) {
		return ExpireOverdueOutput{}, NewValidationError("order is still open")
	}

	pendings, err := u.submissionRepo.ListByOrderIDAndStatus(ctx, orderID, model.PaymentStatusPending)
	if err != nil {
		return ExpireOverdueOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var expired int64
	for _, s := range pendings {
		if err := u.submissionRepo.UpdateStatus(ctx, s.ID, model.PaymentStatusExpired, now); err != nil {
			return ExpireOverdueOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		expired++
	}

	return ExpireOverdueOutput{Expired: expired}, nil
}

// ListForOrderはOrderのSubmission一覧。購入者の連絡先を含むのでオーナー限定。
func (u *SubmissionUsecase) ListForOrder(ctx context.Context, callerID string, orderID string) ([]model.Submission, error) {
	if callerID == "" {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID == "" {
		return nil, NewValidationError("order id required")
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.UserID != callerID {
		return nil, NewAuthorizationError("not the order owner")
	}

	items, err := u.submissionRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// CurrentFillCountはpending/paidのquantity合計。
func (u *SubmissionUsecase) CurrentFillCount(ctx context.Context, orderID string) (int64, error) {
	if orderID == "" {
		return 0, NewValidationError("order id required")
	}
	count, err := u.submissionRepo.SumQuantityByStatuses(ctx, orderID, []model.PaymentStatus{
		model.PaymentStatusPending,
		model.PaymentStatusPaid,
	})
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return count, nil
}
