package unit

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// 共通部品（固定時刻・連番ID）
// =====================

// テストの基準時刻。progressの判定はすべてここからの相対で書く。
var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type seqIDGen struct{ n int }

func (g *seqIDGen) NewID() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func ptrInt64(v int64) *int64 { return &v }

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMockはWithinTxの中で渡すreposを固定してunitテストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders      repo.OrderRepository
	submissions repo.SubmissionRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository           { return r.orders }
func (r *TxReposMock) Submissions() repo.SubmissionRepository { return r.submissions }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) Save(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) ListActive(ctx context.Context, q repo.ActiveOrderQuery) ([]model.Order, int64, error) {
	args := m.Called(ctx, q)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListByOwner(ctx context.Context, ownerID string, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, ownerID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) CountActiveByOwner(ctx context.Context, ownerID string, now time.Time) (int64, error) {
	args := m.Called(ctx, ownerID, now)
	return args.Get(0).(int64), args.Error(1)
}

type SubmissionRepoMock struct{ mock.Mock }

func (m *SubmissionRepoMock) Create(ctx context.Context, submission model.Submission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *SubmissionRepoMock) FindByID(ctx context.Context, submissionID string) (model.Submission, error) {
	args := m.Called(ctx, submissionID)
	s, _ := args.Get(0).(model.Submission)
	return s, args.Error(1)
}

func (m *SubmissionRepoMock) ListByOrderID(ctx context.Context, orderID string) ([]model.Submission, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.Submission)
	return items, args.Error(1)
}

func (m *SubmissionRepoMock) ListByOrderIDAndStatus(ctx context.Context, orderID string, status model.PaymentStatus) ([]model.Submission, error) {
	args := m.Called(ctx, orderID, status)
	items, _ := args.Get(0).([]model.Submission)
	return items, args.Error(1)
}

func (m *SubmissionRepoMock) SumQuantityByStatuses(ctx context.Context, orderID string, statuses []model.PaymentStatus) (int64, error) {
	args := m.Called(ctx, orderID, statuses)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SubmissionRepoMock) CountByOrderIDExcluding(ctx context.Context, orderID string, excluded model.PaymentStatus) (int64, error) {
	args := m.Called(ctx, orderID, excluded)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SubmissionRepoMock) UpdateStatus(ctx context.Context, submissionID string, status model.PaymentStatus, now time.Time) error {
	args := m.Called(ctx, submissionID, status, now)
	return args.Error(0)
}

func (m *SubmissionRepoMock) SumPaidEarningsByOwner(ctx context.Context, ownerID string) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SubmissionRepoMock) CountDistinctBuyersByOwner(ctx context.Context, ownerID string) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

type CountryRepoMock struct{ mock.Mock }

func (m *CountryRepoMock) FindByCode(ctx context.Context, code string) (model.Country, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(model.Country)
	return c, args.Error(1)
}

func (m *CountryRepoMock) List(ctx context.Context) ([]model.Country, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Country)
	return items, args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type RefreshTokenRepoMock struct{ mock.Mock }

func (m *RefreshTokenRepoMock) Create(ctx context.Context, token *model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	t, _ := args.Get(0).(*model.RefreshToken)
	return t, args.Error(1)
}

func (m *RefreshTokenRepoMock) MarkUsed(ctx context.Context, tokenID string, usedAt time.Time) error {
	args := m.Called(ctx, tokenID, usedAt)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) Revoke(ctx context.Context, tokenID string, revokedAt time.Time) error {
	args := m.Called(ctx, tokenID, revokedAt)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) DeleteAllByUserID(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// =====================
// Helper: error contains（HTTPErrorの実装詳細に依存しない）
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

// テスト用の国マスタ
var testCountryPH = model.Country{
	Code:           "PH",
	Name:           "Philippines",
	CurrencyCode:   "PHP",
	CurrencySymbol: "₱",
	PaymentMethods: []model.PaymentMethod{
		model.PaymentMethodGcash,
		model.PaymentMethodPaymaya,
		model.PaymentMethodBPI,
		model.PaymentMethodBankTransfer,
	},
}

var testGom = model.User{
	ID:          "gom-1",
	Email:       "gom@example.com",
	FullName:    "Test Gom",
	Username:    "test_gom",
	CountryCode: "PH",
	IsActive:    true,
}
