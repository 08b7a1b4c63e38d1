package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission model.Submission) error
	FindByID(ctx context.Context, submissionID string) (model.Submission, error)
	ListByOrderID(ctx context.Context, orderID string) ([]model.Submission, error)
	ListByOrderIDAndStatus(ctx context.Context, orderID string, status model.PaymentStatus) ([]model.Submission, error)

	// fill countの唯一の情報源。statusesに該当するSubmissionのquantity合計。
	SumQuantityByStatuses(ctx context.Context, orderID string, statuses []model.PaymentStatus) (int64, error)

	// キャンセル以外のSubmission件数（価格・支払い方法の変更可否判定に使う）
	CountByOrderIDExcluding(ctx context.Context, orderID string, excluded model.PaymentStatus) (int64, error)

	// ステータス遷移。updated_atも必ず更新する。
	UpdateStatus(ctx context.Context, submissionID string, status model.PaymentStatus, now time.Time) error

	// ダッシュボード集計（オーナーの全Orderを横断）
	SumPaidEarningsByOwner(ctx context.Context, ownerID string) (int64, error)
	CountDistinctBuyersByOwner(ctx context.Context, ownerID string) (int64, error)
}
