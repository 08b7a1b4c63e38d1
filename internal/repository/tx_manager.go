package repository

import "context"

// トランザクション内で使う約束。
// Submitのfill count再読込とINSERTを同一トランザクションに載せる。
type TxRepos interface {
	Orders() OrderRepository
	Submissions() SubmissionRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
