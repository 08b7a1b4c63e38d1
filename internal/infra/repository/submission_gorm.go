package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type SubmissionGormRepository struct {
	db *gorm.DB
}

func NewSubmissionGormRepository(db *gorm.DB) *SubmissionGormRepository {
	return &SubmissionGormRepository{db: db}
}

func (r *SubmissionGormRepository) Create(ctx context.Context, submission model.Submission) error {
	return r.db.WithContext(ctx).Create(&submission).Error
}

func (r *SubmissionGormRepository) FindByID(ctx context.Context, submissionID string) (model.Submission, error) {
	var s model.Submission
	err := r.db.WithContext(ctx).Where("id = ?", submissionID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Submission{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Submission{}, err
	}
	return s, nil
}

func (r *SubmissionGormRepository) ListByOrderID(ctx context.Context, orderID string) ([]model.Submission, error) {
	var items []model.Submission
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at asc").
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.Submission{}, err
	}
	return items, nil
}

func (r *SubmissionGormRepository) ListByOrderIDAndStatus(ctx context.Context, orderID string, status model.PaymentStatus) ([]model.Submission, error) {
	var items []model.Submission
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND payment_status = ?", orderID, status).
		Order("created_at asc").
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.Submission{}, err
	}
	return items, nil
}

// fill countの集計。NULL（1件もない）は0に畳む。
func (r *SubmissionGormRepository) SumQuantityByStatuses(ctx context.Context, orderID string, statuses []model.PaymentStatus) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Submission{}).
		Where("order_id = ? AND payment_status IN ?", orderID, statuses).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *SubmissionGormRepository) CountByOrderIDExcluding(ctx context.Context, orderID string, excluded model.PaymentStatus) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Submission{}).
		Where("order_id = ? AND payment_status <> ?", orderID, excluded).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *SubmissionGormRepository) UpdateStatus(ctx context.Context, submissionID string, status model.PaymentStatus, now time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Submission{}).
		Where("id = ?", submissionID).
		Updates(map[string]interface{}{
			"payment_status": status,
			"updated_at":     now,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// paid済みSubmissionの売上合計（quantity × 単価）
func (r *SubmissionGormRepository) SumPaidEarningsByOwner(ctx context.Context, ownerID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Submission{}).
		Joins("JOIN orders ON orders.id = submissions.order_id").
		Where("orders.user_id = ?", ownerID).
		Where("submissions.payment_status = ?", model.PaymentStatusPaid).
		Select("COALESCE(SUM(submissions.quantity * orders.price_per_item), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// 購入者のユニーク数（電話番号単位）
func (r *SubmissionGormRepository) CountDistinctBuyersByOwner(ctx context.Context, ownerID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Submission{}).
		Joins("JOIN orders ON orders.id = submissions.order_id").
		Where("orders.user_id = ?", ownerID).
		Distinct("submissions.buyer_phone").
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
