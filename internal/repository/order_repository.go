package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
)

// 見つかりませんを統一
var ErrNotFound = errors.New("not found")

// 公開中一覧の検索条件
type ActiveOrderQuery struct {
	Page  int
	Limit int
	Q     string    // タイトル部分一致（大文字小文字は区別しない）
	Now   time.Time // 締切判定の基準時刻
}

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) error
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	// 全カラム保存（patch適用後のOrderを渡す）
	Save(ctx context.Context, order model.Order) error

	// 公開済みかつ締切前の一覧。作成日時降順、同時刻はID昇順で安定させる。
	ListActive(ctx context.Context, q ActiveOrderQuery) ([]model.Order, int64, error)
	// オーナーの一覧（下書き含む）
	ListByOwner(ctx context.Context, ownerID string, page int, limit int) ([]model.Order, int64, error)
	// オーナーのアクティブ件数（ダッシュボード用）
	CountActiveByOwner(ctx context.Context, ownerID string, now time.Time) (int64, error)
}
