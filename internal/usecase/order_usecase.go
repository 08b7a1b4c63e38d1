package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/domain/progress"
	repo "app/internal/repository"
)

// 最低注文数のデフォルト
const DefaultMinimumOrders = int64(50)

// 「まもなく締切」の閾値
const closingSoonThreshold = time.Hour

type OrderUsecase struct {
	orderRepo      repo.OrderRepository
	submissionRepo repo.SubmissionRepository
	countryRepo    repo.CountryRepository
	userRepo       repo.UserRepository
	idGen          IDGenerator
	clock          Clock
}

// DI
func NewOrderUsecase(
	orderRepo repo.OrderRepository,
	submissionRepo repo.SubmissionRepository,
	countryRepo repo.CountryRepository,
	userRepo repo.UserRepository,
	idGen IDGenerator,
	clock Clock,
) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:      orderRepo,
		submissionRepo: submissionRepo,
		countryRepo:    countryRepo,
		userRepo:       userRepo,
		idGen:          idGen,
		clock:          clock,
	}
}

// 進捗ブロック。表示のたびにnowから導出する（キャッシュしない）。
type OrderProgress struct {
	CurrentCount   int64              `json:"current_count"`
	FillPercentage float64            `json:"fill_percentage"`
	SpotsRemaining int64              `json:"spots_remaining"`
	TimeRemaining  progress.Remaining `json:"time_remaining"`
	TimeLeft       string             `json:"time_left"`
	ClosingSoon    bool               `json:"closing_soon"`
	Active         bool               `json:"active"`
}

func buildProgress(o model.Order, currentCount int64, now time.Time) OrderProgress {
	return OrderProgress{
		CurrentCount:   currentCount,
		FillPercentage: progress.FillPercentage(currentCount, o.MinimumOrders),
		SpotsRemaining: progress.SpotsRemaining(currentCount, o.MinimumOrders),
		TimeRemaining:  progress.TimeRemaining(o.ClosingDate, now),
		TimeLeft:       progress.FormatTimeLeft(o.ClosingDate, now),
		ClosingSoon:    progress.IsClosingSoon(o.ClosingDate, now, closingSoonThreshold),
		Active:         progress.IsActive(o.IsPublished, o.ClosingDate, o.MaximumOrders, now, currentCount),
	}
}

type OrderOutput struct {
	Order    model.Order   `json:"order"`
	Progress OrderProgress `json:"progress"`
}

// 主催者（GOM）の公開プロフィール
type GomOutput struct {
	Username             string    `json:"username"`
	FullName             string    `json:"full_name"`
	Rating               float64   `json:"rating"`
	TotalOrdersCompleted int64     `json:"total_orders_completed"`
	MemberSince          time.Time `json:"member_since"`
}

type OrderDetailOutput struct {
	Order          model.Order   `json:"order"`
	Progress       OrderProgress `json:"progress"`
	Gom            GomOutput     `json:"gom"`
	CurrencySymbol string        `json:"currency_symbol"`
}

type CreateDraftOrderInput struct {
	Title                 string
	Description           string
	Images                []string
	PricePerItem          int64 // 通貨の最小単位。0は「まだ未入力」扱い
	MinimumOrders         *int64
	MaximumOrders         *int64
	ClosingDate           time.Time
	EstimatedShippingDate *time.Time
	PaymentMethods        []model.PaymentMethod
	PaymentInstructions   string
}

// CreateDraftは下書きOrderを作る。published=falseで保存され、購入者には見えない。
func (u *OrderUsecase) CreateDraft(ctx context.Context, ownerID string, in CreateDraftOrderInput) (model.Order, error) {
	if ownerID == "" {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Order{}, NewValidationError("title required")
	}
	if len(title) > 255 {
		return model.Order{}, NewValidationError("title too long")
	}
	if strings.TrimSpace(in.Description) == "" {
		return model.Order{}, NewValidationError("description required")
	}

	// 通貨はオーナーの国から決まる
	owner, err := u.userRepo.FindByID(ctx, ownerID)
	if err == repo.ErrUserNotFound {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	country, err := u.countryRepo.FindByCode(ctx, owner.CountryCode)
	if err == repo.ErrNotFound {
		return model.Order{}, NewValidationError("unsupported country")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()

	minimum := DefaultMinimumOrders
	if in.MinimumOrders != nil {
		minimum = *in.MinimumOrders
	}

	draft := model.Order{
		ID:                    u.idGen.NewID(),
		UserID:                ownerID,
		Title:                 title,
		Description:           in.Description,
		Images:                in.Images,
		PricePerItem:          in.PricePerItem,
		CurrencyCode:          country.CurrencyCode,
		MinimumOrders:         minimum,
		MaximumOrders:         in.MaximumOrders,
		ClosingDate:           in.ClosingDate,
		EstimatedShippingDate: in.EstimatedShippingDate,
		PaymentMethods:        in.PaymentMethods,
		PaymentInstructions:   in.PaymentInstructions,
		IsPublished:           false,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := validateOrderFields(draft, country, now); err != nil {
		return model.Order{}, err
	}

	if err := u.orderRepo.Create(ctx, draft); err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return draft, nil
}

// 下書き中も含めて常に成立していないといけない条件。
// 値が未入力（ゼロ値）の項目は公開時のチェックに回す。
func validateOrderFields(o model.Order, country model.Country, now time.Time) error {
	if o.PricePerItem < 0 {
		return NewValidationError("price_per_item must be positive")
	}
	if o.MinimumOrders <= 0 {
		return NewValidationError("minimum_orders must be positive")
	}
	if o.MaximumOrders != nil && *o.MaximumOrders < o.MinimumOrders {
		return NewValidationError("maximum_orders must be >= minimum_orders")
	}
	if len(o.Images) > model.MaxOrderImages {
		return NewValidationError("too many images")
	}
	for _, img := range o.Images {
		if strings.TrimSpace(img) == "" {
			return NewValidationError("image url required")
		}
	}
	if !o.ClosingDate.IsZero() && !o.ClosingDate.After(now) {
		return NewValidationError("closing_date must be in the future")
	}
	if o.EstimatedShippingDate != nil {
		if o.ClosingDate.IsZero() {
			return NewValidationError("closing_date required before shipping date")
		}
		if o.EstimatedShippingDate.Before(o.ClosingDate) {
			return NewValidationError("estimated_shipping_date must be on or after closing_date")
		}
	}
	for _, m := range o.PaymentMethods {
		if !m.Known() {
			return NewValidationError("unknown payment method: " + string(m))
		}
		if !model.ContainsMethod(country.PaymentMethods, m) {
			return NewValidationError("payment method not available in " + country.Code + ": " + string(m))
		}
	}
	return nil
}

// 部分更新。nilのフィールドは触らない。
type UpdateOrderInput struct {
	Title                 *string
	Description           *string
	Images                *[]string
	PricePerItem          *int64
	MinimumOrders         *int64
	MaximumOrders         *int64
	ClosingDate           *time.Time
	EstimatedShippingDate *time.Time
	PaymentMethods        *[]model.PaymentMethod
	PaymentInstructions   *string
}

// UpdateFieldsはpatchをマージして保存する。
// キャンセル以外のSubmissionが1件でもあると、価格と支払い方法は変更できない。
func (u *OrderUsecase) UpdateFields(ctx context.Context, callerID string, orderID string, in UpdateOrderInput) (model.Order, error) {
	if callerID == "" {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID == "" {
		return model.Order{}, NewValidationError("order id required")
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if o.UserID != callerID {
		return model.Order{}, NewAuthorizationError("not the order owner")
	}

	// 途中で条件を変えられると参加済みの購入者が困る
	if in.PricePerItem != nil || in.PaymentMethods != nil {
		n, err := u.submissionRepo.CountByOrderIDExcluding(ctx, orderID, model.PaymentStatusCancelled)
		if err != nil {
			return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if n > 0 {
			return model.Order{}, NewValidationError("price and payment methods are locked after submissions exist")
		}
	}

	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return model.Order{}, NewValidationError("title required")
		}
		if len(t) > 255 {
			return model.Order{}, NewValidationError("title too long")
		}
		o.Title = t
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			return model.Order{}, NewValidationError("description required")
		}
		o.Description = *in.Description
	}
	if in.Images != nil {
		o.Images = *in.Images
	}
	if in.PricePerItem != nil {
		o.PricePerItem = *in.PricePerItem
	}
	if in.MinimumOrders != nil {
		o.MinimumOrders = *in.MinimumOrders
	}
	if in.MaximumOrders != nil {
		o.MaximumOrders = in.MaximumOrders
	}
	if in.ClosingDate != nil {
		o.ClosingDate = *in.ClosingDate
	}
	if in.EstimatedShippingDate != nil {
		o.EstimatedShippingDate = in.EstimatedShippingDate
	}
	if in.PaymentMethods != nil {
		o.PaymentMethods = *in.PaymentMethods
	}
	if in.PaymentInstructions != nil {
		o.PaymentInstructions = *in.PaymentInstructions
	}

	owner, err := u.userRepo.FindByID(ctx, o.UserID)
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	country, err := u.countryRepo.FindByCode(ctx, owner.CountryCode)
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()
	if err := validateOrderFields(o, country, now); err != nil {
		return model.Order{}, err
	}

	o.UpdatedAt = now
	if err := u.orderRepo.Save(ctx, o); err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return o, nil
}

// Publishは公開する。一方通行で、公開済みへの再実行は何もしないで成功を返す。
func (u *OrderUsecase) Publish(ctx context.Context, callerID string, orderID string) (model.Order, error) {
	if callerID == "" {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID == "" {
		return model.Order{}, NewValidationError("order id required")
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if o.UserID != callerID {
		return model.Order{}, NewAuthorizationError("not the order owner")
	}

	if o.IsPublished {
		return o, nil
	}

	// 公開には全項目が揃っていないといけない
	if o.PricePerItem <= 0 {
		return model.Order{}, NewValidationError("price_per_item required")
	}
	if o.MinimumOrders <= 0 {
		return model.Order{}, NewValidationError("minimum_orders required")
	}
	if o.ClosingDate.IsZero() {
		return model.Order{}, NewValidationError("closing_date required")
	}
	now := u.clock.Now()
	if !o.ClosingDate.After(now) {
		return model.Order{}, NewValidationError("closing_date must be in the future")
	}
	if len(o.PaymentMethods) == 0 {
		return model.Order{}, NewValidationError("at least one payment method required")
	}

	o.IsPublished = true
	o.UpdatedAt = now
	if err := u.orderRepo.Save(ctx, o); err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return o, nil
}

type ListActiveOrdersInput struct {
	Page  int
	Limit int
	Q     string
}

type OrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// ListActiveは公開済みかつ締切前のOrderを新しい順に返す。
func (u *OrderUsecase) ListActive(ctx context.Context, in ListActiveOrdersInput) (OrderListOutput, error) {
	if in.Page < 1 {
		return OrderListOutput{}, NewValidationError("invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return OrderListOutput{}, NewValidationError("invalid limit")
	}
	if len(in.Q) > 100 {
		return OrderListOutput{}, NewValidationError("q too long")
	}

	now := u.clock.Now()

	orders, total, err := u.orderRepo.ListActive(ctx, repo.ActiveOrderQuery{
		Page:  in.Page,
		Limit: in.Limit,
		Q:     strings.TrimSpace(in.Q),
		Now:   now,
	})
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		count, err := u.currentFillCount(ctx, o.ID)
		if err != nil {
			return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		items = append(items, OrderOutput{Order: o, Progress: buildProgress(o, count, now)})
	}

	return OrderListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

// GetPublishedは公開済みOrderの詳細。下書きは存在しない扱いにする。
func (u *OrderUsecase) GetPublished(ctx context.Context, orderID string) (OrderDetailOutput, error) {
	if orderID == "" {
		return OrderDetailOutput{}, NewValidationError("order id required")
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !o.IsPublished {
		return OrderDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	count, err := u.currentFillCount(ctx, o.ID)
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	gom, err := u.userRepo.FindByID(ctx, o.UserID)
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	symbol := ""
	country, err := u.countryRepo.FindByCode(ctx, gom.CountryCode)
	if err == nil {
		symbol = country.CurrencySymbol
	}

	now := u.clock.Now()
	return OrderDetailOutput{
		Order:    o,
		Progress: buildProgress(o, count, now),
		Gom: GomOutput{
			Username:             gom.Username,
			FullName:             gom.FullName,
			Rating:               gom.Rating,
			TotalOrdersCompleted: gom.TotalOrdersCompleted,
			MemberSince:          gom.CreatedAt,
		},
		CurrencySymbol: symbol,
	}, nil
}

// ListMineはオーナー自身のOrder一覧（下書き含む）。
func (u *OrderUsecase) ListMine(ctx context.Context, ownerID string, page int, limit int) (OrderListOutput, error) {
	if ownerID == "" {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return OrderListOutput{}, NewValidationError("invalid page")
	}
	if limit < 1 || limit > 100 {
		return OrderListOutput{}, NewValidationError("invalid limit")
	}

	orders, total, err := u.orderRepo.ListByOwner(ctx, ownerID, page, limit)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()
	items := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		count, err := u.currentFillCount(ctx, o.ID)
		if err != nil {
			return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		items = append(items, OrderOutput{Order: o, Progress: buildProgress(o, count, now)})
	}

	return OrderListOutput{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// fill countは保存せずpending/paidのquantity合計から都度導出する。
func (u *OrderUsecase) currentFillCount(ctx context.Context, orderID string) (int64, error) {
	return u.submissionRepo.SumQuantityByStatuses(ctx, orderID, []model.PaymentStatus{
		model.PaymentStatusPending,
		model.PaymentStatusPaid,
	})
}
