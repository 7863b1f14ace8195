package bank

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

type memBankRepo struct {
	rows map[id.ID]*BankTransaction
}

func newMemBankRepo() *memBankRepo {
	return &memBankRepo{rows: make(map[id.ID]*BankTransaction)}
}

func (m *memBankRepo) Create(ctx context.Context, b *BankTransaction) error {
	cp := *b
	m.rows[b.ID] = &cp
	return nil
}

func (m *memBankRepo) Update(ctx context.Context, b *BankTransaction) error {
	if _, ok := m.rows[b.ID]; !ok {
		return apperror.NewNotFound("bank transaction", b.ID)
	}
	cp := *b
	m.rows[b.ID] = &cp
	return nil
}

func (m *memBankRepo) Delete(ctx context.Context, bankTransactionID id.ID) error {
	if _, ok := m.rows[bankTransactionID]; !ok {
		return apperror.NewNotFound("bank transaction", bankTransactionID)
	}
	delete(m.rows, bankTransactionID)
	return nil
}

func (m *memBankRepo) GetByID(ctx context.Context, bankTransactionID id.ID) (*BankTransaction, error) {
	b, ok := m.rows[bankTransactionID]
	if !ok {
		return nil, apperror.NewNotFound("bank transaction", bankTransactionID)
	}
	cp := *b
	return &cp, nil
}

func (m *memBankRepo) List(ctx context.Context, filter ListFilter) ([]*BankTransaction, error) {
	return nil, nil
}

type bankFixture struct {
	service       *Service
	repo          *memBankRepo
	accounts      *memAccounts
	accountID     id.ID
	bankAccountID id.ID
	userID        id.ID
}

func newBankFixture(t *testing.T) *bankFixture {
	t.Helper()

	f := &bankFixture{
		repo:          newMemBankRepo(),
		accountID:     id.New(),
		bankAccountID: id.New(),
		userID:        id.New(),
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

func (f *bankFixture) ctx() context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: f.userID.String(),
		Role:   appctx.RoleCashier,
	})
}

func (f *bankFixture) account() *account.Account {
	return f.accounts.accounts[f.accountID]
}

func TestBankCreate_CreditBothBuckets(t *testing.T) {
	f := newBankFixture(t)

	bt := &BankTransaction{
		AccountID:     f.accountID,
		BankAccountID: f.bankAccountID,
		Acc:           AccCredit,
		CashAmount:    types.MustMoney("100"),
		DigitalAmount: types.MustMoney("250"),
	}
	require.NoError(t, f.service.Create(f.ctx(), bt))

	assert.True(t, f.account().Balance.Equal(types.MustMoney("1250")))
	assert.True(t, f.account().CashBalance.Equal(types.MustMoney("600")))
	assert.True(t, bt.Total().Equal(types.MustMoney("350")))
	assert.Equal(t, f.userID, bt.UserID)
}

func TestBankCreate_DebitBothBuckets(t *testing.T) {
	f := newBankFixture(t)

	bt := &BankTransaction{
		AccountID:     f.accountID,
		BankAccountID: f.bankAccountID,
		Acc:           AccDebit,
		CashAmount:    types.MustMoney("200"),
		DigitalAmount: types.MustMoney("300"),
	}
	require.NoError(t, f.service.Create(f.ctx(), bt))

	assert.True(t, f.account().Balance.Equal(types.MustMoney("700")))
	assert.True(t, f.account().CashBalance.Equal(types.MustMoney("300")))
}

func TestBankCreate_RequiresPositiveAmount(t *testing.T) {
	f := newBankFixture(t)

	bt := &BankTransaction{
		AccountID:     f.accountID,
		BankAccountID: f.bankAccountID,
		Acc:           AccCredit,
	}
	err := f.service.Create(f.ctx(), bt)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestBankDelete_ReversesEffect(t *testing.T) {
	f := newBankFixture(t)

	bt := &BankTransaction{
		AccountID:     f.accountID,
		BankAccountID: f.bankAccountID,
		Acc:           AccDebit,
		CashAmount:    types.MustMoney("200"),
		DigitalAmount: types.Zero(),
	}
	require.NoError(t, f.service.Create(f.ctx(), bt))
	require.NoError(t, f.service.Delete(f.ctx(), bt.ID))

	assert.True(t, f.account().CashBalance.Equal(types.MustMoney("500")))
	assert.Empty(t, f.repo.rows)
}

func TestBankUpdate_NetsOldAndNew(t *testing.T) {
	f := newBankFixture(t)

	bt := &BankTransaction{
		AccountID:     f.accountID,
		BankAccountID: f.bankAccountID,
		Acc:           AccCredit,
		DigitalAmount: types.MustMoney("400"),
	}
	require.NoError(t, f.service.Create(f.ctx(), bt))
	require.True(t, f.account().Balance.Equal(types.MustMoney("1400")))

	updated := &BankTransaction{
		AccountID:     f.accountID,
		BankAccountID: f.bankAccountID,
		Acc:           AccCredit,
		DigitalAmount: types.MustMoney("100"),
	}
	require.NoError(t, f.service.Update(f.ctx(), bt.ID, updated))

	assert.True(t, f.account().Balance.Equal(types.MustMoney("1100")), "balance: %s", f.account().Balance)
}
