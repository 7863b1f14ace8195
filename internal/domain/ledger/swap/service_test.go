package swap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dukapos/internal/core/apperror"
	appctx "dukapos/internal/core/context"
	"dukapos/internal/core/id"
	"dukapos/internal/core/types"
	"dukapos/internal/domain/account"
)

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memAccounts struct {
	accounts map[id.ID]*account.Account
}

func newMemAccounts(accs ...*account.Account) *memAccounts {
	m := &memAccounts{accounts: make(map[id.ID]*account.Account)}
	for _, a := range accs {
		m.accounts[a.ID] = a
	}
	return m
}

func (m *memAccounts) GetByID(ctx context.Context, accountID id.ID) (*account.Account, error) {
	a, ok := m.accounts[accountID]
	if !ok {
		return nil, apperror.NewNotFound("account", accountID)
	}
	return a, nil
}

func (m *memAccounts) GetForUpdate(ctx context.Context, accountID id.ID) (*account.Account, error) {
	return m.GetByID(ctx, accountID)
}

func (m *memAccounts) UpdateBalances(ctx context.Context, accountID id.ID, balance, cashBalance types.Money) error {
	a, ok := m.accounts[accountID]
	if !ok {
		return apperror.NewNotFound("account", accountID)
	}
	a.Balance = balance
	a.CashBalance = cashBalance
	return nil
}

func (m *memAccounts) List(ctx context.Context) ([]*account.Account, error) { return nil, nil }
func (m *memAccounts) GetDefault(ctx context.Context) (*account.Account, error) {
	return nil, apperror.NewNotFound("account", "default")
}

type memSwapRepo struct {
	swaps map[id.ID]*AccountSwap
}

func newMemSwapRepo() *memSwapRepo {
	return &memSwapRepo{swaps: make(map[id.ID]*AccountSwap)}
}

func (m *memSwapRepo) Create(ctx context.Context, a *AccountSwap) error {
	cp := *a
	m.swaps[a.ID] = &cp
	return nil
}

func (m *memSwapRepo) Update(ctx context.Context, a *AccountSwap) error {
	if _, ok := m.swaps[a.ID]; !ok {
		return apperror.NewNotFound("swap", a.ID)
	}
	cp := *a
	m.swaps[a.ID] = &cp
	return nil
}

func (m *memSwapRepo) Delete(ctx context.Context, swapID id.ID) error {
	if _, ok := m.swaps[swapID]; !ok {
		return apperror.NewNotFound("swap", swapID)
	}
	delete(m.swaps, swapID)
	return nil
}

func (m *memSwapRepo) GetByID(ctx context.Context, swapID id.ID) (*AccountSwap, error) {
	a, ok := m.swaps[swapID]
	if !ok {
		return nil, apperror.NewNotFound("swap", swapID)
	}
	cp := *a
	return &cp, nil
}

func (m *memSwapRepo) List(ctx context.Context, filter ListFilter) ([]*AccountSwap, error) {
	return nil, nil
}

type swapFixture struct {
	service  *Service
	repo     *memSwapRepo
	accounts *memAccounts
	fromID   id.ID
	toID     id.ID
	userID   id.ID
}

func newSwapFixture(t *testing.T) *swapFixture {
	t.Helper()

	f := &swapFixture{
		repo:   newMemSwapRepo(),
		fromID: id.New(),
		toID:   id.New(),
		userID: id.New(),
	}
	f.accounts = newMemAccounts(
		&account.Account{
			ID:          f.fromID,
			Label:       "KES",
			Balance:     types.MustMoney("1000"),
			CashBalance: types.MustMoney("500"),
		},
		&account.Account{
			ID:          f.toID,
			Label:       "USD",
			Balance:     types.MustMoney("100"),
			CashBalance: types.MustMoney("20"),
		},
	)
	f.service = NewService(f.repo, f.accounts, passthroughTxManager{})
	return f
}

func (f *swapFixture) ctx() context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: f.userID.String(),
		Role:   appctx.RoleCashier,
	})
}

// newSwap moves 650 KES (500 digital + 150 cash) into 5 USD digital.
func (f *swapFixture) newSwap() *AccountSwap {
	return &AccountSwap{
		FromAccountID:     f.fromID,
		ToAccountID:       f.toID,
		FromDigitalAmount: types.MustMoney("500"),
		FromCashAmount:    types.MustMoney("150"),
		FromAmount:        types.MustMoney("650"),
		ToDigitalAmount:   types.MustMoney("5"),
		ToCashAmount:      types.Zero(),
		ToAmount:          types.MustMoney("5"),
		ExchangeRate:      types.MustMoney("130"),
	}
}

func TestSwapCreate_MovesBothBuckets(t *testing.T) {
	f := newSwapFixture(t)

	sw := f.newSwap()
	require.NoError(t, f.service.Create(f.ctx(), sw))

	from := f.accounts.accounts[f.fromID]
	assert.True(t, from.Balance.Equal(types.MustMoney("500")), "from balance: %s", from.Balance)
	assert.True(t, from.CashBalance.Equal(types.MustMoney("350")), "from cash: %s", from.CashBalance)

	to := f.accounts.accounts[f.toID]
	assert.True(t, to.Balance.Equal(types.MustMoney("105")), "to balance: %s", to.Balance)
	assert.True(t, to.CashBalance.Equal(types.MustMoney("20")), "to cash: %s", to.CashBalance)

	assert.Equal(t, f.userID, sw.UserID)
}

func TestSwapCreate_SameAccountRejected(t *testing.T) {
	f := newSwapFixture(t)

	sw := f.newSwap()
	sw.ToAccountID = sw.FromAccountID

	err := f.service.Create(f.ctx(), sw)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestSwapCreate_SplitMustSumToAmount(t *testing.T) {
	f := newSwapFixture(t)

	sw := f.newSwap()
	sw.FromAmount = types.MustMoney("700") // split sums to 650

	err := f.service.Create(f.ctx(), sw)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestSwapCreate_UnknownAccount(t *testing.T) {
	f := newSwapFixture(t)

	sw := f.newSwap()
	sw.ToAccountID = id.New()

	err := f.service.Create(f.ctx(), sw)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, f.repo.swaps, "no swap row should be written")
}

func TestSwapDelete_RevertsMovement(t *testing.T) {
	f := newSwapFixture(t)

	sw := f.newSwap()
	require.NoError(t, f.service.Create(f.ctx(), sw))
	require.NoError(t, f.service.Delete(f.ctx(), sw.ID))

	from := f.accounts.accounts[f.fromID]
	assert.True(t, from.Balance.Equal(types.MustMoney("1000")))
	assert.True(t, from.CashBalance.Equal(types.MustMoney("500")))

	to := f.accounts.accounts[f.toID]
	assert.True(t, to.Balance.Equal(types.MustMoney("100")))
	assert.Empty(t, f.repo.swaps)
}

func TestSwapUpdate_RevertsOldAppliesNew(t *testing.T) {
	f := newSwapFixture(t)

	sw := f.newSwap()
	require.NoError(t, f.service.Create(f.ctx(), sw))

	updated := f.newSwap()
	updated.FromDigitalAmount = types.MustMoney("260")
	updated.FromCashAmount = types.Zero()
	updated.FromAmount = types.MustMoney("260")
	updated.ToDigitalAmount = types.MustMoney("2")
	updated.ToAmount = types.MustMoney("2")

	require.NoError(t, f.service.Update(f.ctx(), sw.ID, updated))

	from := f.accounts.accounts[f.fromID]
	assert.True(t, from.Balance.Equal(types.MustMoney("740")), "from balance: %s", from.Balance)
	assert.True(t, from.CashBalance.Equal(types.MustMoney("500")), "from cash: %s", from.CashBalance)

	to := f.accounts.accounts[f.toID]
	assert.True(t, to.Balance.Equal(types.MustMoney("102")), "to balance: %s", to.Balance)
}
