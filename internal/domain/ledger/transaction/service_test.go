package transaction

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

type memTransactionRepo struct {
	transactions map[id.ID]*Transaction
}

func newMemTransactionRepo() *memTransactionRepo {
	return &memTransactionRepo{transactions: make(map[id.ID]*Transaction)}
}

func (m *memTransactionRepo) Create(ctx context.Context, t *Transaction) error {
	cp := *t
	m.transactions[t.ID] = &cp
	return nil
}

func (m *memTransactionRepo) Update(ctx context.Context, t *Transaction) error {
	if _, ok := m.transactions[t.ID]; !ok {
		return apperror.NewNotFound("transaction", t.ID)
	}
	cp := *t
	m.transactions[t.ID] = &cp
	return nil
}

func (m *memTransactionRepo) Delete(ctx context.Context, transactionID id.ID) error {
	if _, ok := m.transactions[transactionID]; !ok {
		return apperror.NewNotFound("transaction", transactionID)
	}
	delete(m.transactions, transactionID)
	return nil
}

func (m *memTransactionRepo) GetByID(ctx context.Context, transactionID id.ID) (*Transaction, error) {
	t, ok := m.transactions[transactionID]
	if !ok {
		return nil, apperror.NewNotFound("transaction", transactionID)
	}
	cp := *t
	return &cp, nil
}

func (m *memTransactionRepo) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return nil, nil
}

type txnFixture struct {
	service   *Service
	repo      *memTransactionRepo
	accounts  *memAccounts
	accountID id.ID
	userID    id.ID
}

func newTxnFixture(t *testing.T) *txnFixture {
	t.Helper()

	f := &txnFixture{
		repo:      newMemTransactionRepo(),
		accountID: id.New(),
		userID:    id.New(),
	}
	f.accounts = newMemAccounts(&account.Account{
		ID:          f.accountID,
		Label:       "KES",
		Balance:     types.MustMoney("1000"),
		CashBalance: types.MustMoney("500"),
	})
	f.service = NewService(f.repo, f.accounts, passthroughTxManager{})
	return f
}

func (f *txnFixture) ctx() context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: f.userID.String(),
		Role:   appctx.RoleCashier,
	})
}

func (f *txnFixture) account() *account.Account {
	return f.accounts.accounts[f.accountID]
}

func TestTransactionCreate_CreditDigital(t *testing.T) {
	f := newTxnFixture(t)

	txn := &Transaction{
		AccountID: f.accountID,
		Amount:    types.MustMoney("200"),
		Acc:       AccCredit,
		Type:      TypeDigital,
	}
	require.NoError(t, f.service.Create(f.ctx(), txn))

	assert.NotEmpty(t, txn.Ref)
	assert.Equal(t, "KES", txn.AmountType)
	assert.True(t, f.account().Balance.Equal(types.MustMoney("1200")))
	assert.True(t, f.account().CashBalance.Equal(types.MustMoney("500")))
}

func TestTransactionCreate_DebitCash(t *testing.T) {
	f := newTxnFixture(t)

	txn := &Transaction{
		AccountID: f.accountID,
		Amount:    types.MustMoney("150"),
		Acc:       AccDebit,
		Type:      TypeCash,
	}
	require.NoError(t, f.service.Create(f.ctx(), txn))

	assert.True(t, f.account().Balance.Equal(types.MustMoney("1000")))
	assert.True(t, f.account().CashBalance.Equal(types.MustMoney("350")))
}

func TestTransactionCreate_ExchangeWithdrawal(t *testing.T) {
	f := newTxnFixture(t)

	txn := &Transaction{
		AccountID:    f.accountID,
		Amount:       types.MustMoney("300"),
		IsExchange:   true,
		ExchangeType: ExchangeWithdrawal,
	}
	require.NoError(t, f.service.Create(f.ctx(), txn))

	// Withdrawal converts digital value into cash on hand.
	assert.True(t, f.account().Balance.Equal(types.MustMoney("700")), "balance: %s", f.account().Balance)
	assert.True(t, f.account().CashBalance.Equal(types.MustMoney("800")), "cash: %s", f.account().CashBalance)
}

func TestTransactionCreate_ExchangeDeposit(t *testing.T) {
	f := newTxnFixture(t)

	txn := &Transaction{
		AccountID:    f.accountID,
		Amount:       types.MustMoney("100"),
		IsExchange:   true,
		ExchangeType: ExchangeDeposit,
	}
	require.NoError(t, f.service.Create(f.ctx(), txn))

	assert.True(t, f.account().Balance.Equal(types.MustMoney("1100")))
	assert.True(t, f.account().CashBalance.Equal(types.MustMoney("400")))
}

func TestTransactionCreate_NonPositiveAmount(t *testing.T) {
	f := newTxnFixture(t)

	txn := &Transaction{
		AccountID: f.accountID,
		Amount:    types.Zero(),
		Acc:       AccCredit,
	}
	err := f.service.Create(f.ctx(), txn)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestTransactionUpdate_AppliesDelta(t *testing.T) {
	f := newTxnFixture(t)

	txn := &Transaction{
		AccountID: f.accountID,
		Amount:    types.MustMoney("200"),
		Acc:       AccCredit,
		Type:      TypeDigital,
	}
	require.NoError(t, f.service.Create(f.ctx(), txn))
	require.True(t, f.account().Balance.Equal(types.MustMoney("1200")))

	updated := &Transaction{
		AccountID: f.accountID,
		Amount:    types.MustMoney("50"),
		Acc:       AccCredit,
		Type:      TypeDigital,
	}
	require.NoError(t, f.service.Update(f.ctx(), txn.ID, updated))

	// Net effect of the change: -200 + 50.
	assert.True(t, f.account().Balance.Equal(types.MustMoney("1050")), "balance: %s", f.account().Balance)
	assert.Equal(t, txn.Ref, updated.Ref, "reference is immutable")
}

func TestTransactionUpdate_UnchangedEffectSkipsBalances(t *testing.T) {
	f := newTxnFixture(t)

	txn := &Transaction{
		AccountID: f.accountID,
		Amount:    types.MustMoney("200"),
		Acc:       AccCredit,
		Type:      TypeDigital,
	}
	require.NoError(t, f.service.Create(f.ctx(), txn))

	updated := &Transaction{
		AccountID: f.accountID,
		Amount:    types.MustMoney("200"),
		Acc:       AccCredit,
		Type:      TypeDigital,
		Details:   "corrected note",
	}
	require.NoError(t, f.service.Update(f.ctx(), txn.ID, updated))

	assert.True(t, f.account().Balance.Equal(types.MustMoney("1200")))
	stored, err := f.repo.GetByID(context.Background(), txn.ID)
	require.NoError(t, err)
	assert.Equal(t, "corrected note", stored.Details)
}

func TestTransactionDelete_ReversesEffect(t *testing.T) {
	f := newTxnFixture(t)

	txn := &Transaction{
		AccountID:    f.accountID,
		Amount:       types.MustMoney("300"),
		IsExchange:   true,
		ExchangeType: ExchangeWithdrawal,
	}
	require.NoError(t, f.service.Create(f.ctx(), txn))

	require.NoError(t, f.service.Delete(f.ctx(), txn.ID))

	assert.True(t, f.account().Balance.Equal(types.MustMoney("1000")))
	assert.True(t, f.account().CashBalance.Equal(types.MustMoney("500")))
	assert.Empty(t, f.repo.transactions)
}

func TestTransactionDelete_DebitReversalClampsAtZero(t *testing.T) {
	f := newTxnFixture(t)

	txn := &Transaction{
		AccountID: f.accountID,
		Amount:    types.MustMoney("200"),
		Acc:       AccCredit,
		Type:      TypeDigital,
	}
	require.NoError(t, f.service.Create(f.ctx(), txn))

	// Drain the balance below the reversal amount.
	require.NoError(t, f.accounts.UpdateBalances(context.Background(), f.accountID,
		types.MustMoney("50"), types.MustMoney("500")))

	require.NoError(t, f.service.Delete(f.ctx(), txn.ID))

	assert.True(t, f.account().Balance.IsZero(), "balance: %s", f.account().Balance)
}
