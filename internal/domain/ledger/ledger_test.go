package ledger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/core/types"
	"dukapos/internal/domain/account"
)

// passthroughTxManager runs fn directly; the services under test never
// see a real database in these tests.
type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memAccounts struct {
	accounts map[id.ID]*account.Account
	writes   int
	locked   []id.ID
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
	m.locked = append(m.locked, accountID)
	return m.GetByID(ctx, accountID)
}

func (m *memAccounts) UpdateBalances(ctx context.Context, accountID id.ID, balance, cashBalance types.Money) error {
	a, ok := m.accounts[accountID]
	if !ok {
		return apperror.NewNotFound("account", accountID)
	}
	a.Balance = balance
	a.CashBalance = cashBalance
	m.writes++
	return nil
}

func (m *memAccounts) List(ctx context.Context) ([]*account.Account, error) {
	out := make([]*account.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (m *memAccounts) GetDefault(ctx context.Context) (*account.Account, error) {
	for _, a := range m.accounts {
		if a.IsDefault {
			return a, nil
		}
	}
	return nil, apperror.NewNotFound("account", "default")
}

func TestDeltaSet_NetsPerAccount(t *testing.T) {
	accountID := id.New()
	accounts := newMemAccounts(&account.Account{
		ID:          accountID,
		Balance:     types.MustMoney("100"),
		CashBalance: types.MustMoney("50"),
	})

	deltas := NewDeltaSet()
	deltas.Add(accountID, types.MustMoney("-30"), types.MustMoney("10"))
	deltas.Add(accountID, types.MustMoney("20"), types.MustMoney("-10"))

	require.NoError(t, deltas.Apply(context.Background(), accounts))

	acc := accounts.accounts[accountID]
	assert.True(t, acc.Balance.Equal(types.MustMoney("90")), "balance: %s", acc.Balance)
	assert.True(t, acc.CashBalance.Equal(types.MustMoney("50")), "cash: %s", acc.CashBalance)
	assert.Equal(t, 1, accounts.writes, "netted deltas should write the account once")
}

func TestDeltaSet_SkipsZeroNet(t *testing.T) {
	accountID := id.New()
	accounts := newMemAccounts(&account.Account{ID: accountID})

	deltas := NewDeltaSet()
	deltas.Add(accountID, types.MustMoney("15"), types.Zero())
	deltas.Add(accountID, types.MustMoney("-15"), types.Zero())

	require.NoError(t, deltas.Apply(context.Background(), accounts))
	assert.Equal(t, 0, accounts.writes)
}

func TestDeltaSet_ClampsAtZero(t *testing.T) {
	accountID := id.New()
	accounts := newMemAccounts(&account.Account{
		ID:          accountID,
		Balance:     types.MustMoney("10"),
		CashBalance: types.MustMoney("5"),
	})

	deltas := NewDeltaSet()
	deltas.Add(accountID, types.MustMoney("-100"), types.MustMoney("-100"))

	require.NoError(t, deltas.Apply(context.Background(), accounts))

	acc := accounts.accounts[accountID]
	assert.True(t, acc.Balance.IsZero(), "balance: %s", acc.Balance)
	assert.True(t, acc.CashBalance.IsZero(), "cash: %s", acc.CashBalance)
}

func TestDeltaSet_LocksAccountsInIDOrder(t *testing.T) {
	a := id.New()
	b := id.New()
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}

	newAccounts := func() *memAccounts {
		return newMemAccounts(
			&account.Account{ID: a, Balance: types.MustMoney("100")},
			&account.Account{ID: b, Balance: types.MustMoney("100")},
		)
	}

	// Two operations adding the same pair in opposite order must still
	// take the row locks in the same sequence.
	forward := NewDeltaSet()
	forward.Add(a, types.MustMoney("10"), types.Zero())
	forward.Add(b, types.MustMoney("-10"), types.Zero())

	reverse := NewDeltaSet()
	reverse.Add(b, types.MustMoney("-10"), types.Zero())
	reverse.Add(a, types.MustMoney("10"), types.Zero())

	accounts := newAccounts()
	require.NoError(t, forward.Apply(context.Background(), accounts))
	assert.Equal(t, []id.ID{a, b}, accounts.locked)

	accounts = newAccounts()
	require.NoError(t, reverse.Apply(context.Background(), accounts))
	assert.Equal(t, []id.ID{a, b}, accounts.locked)
}

// countingTxManager fails the first n attempts with the given error.
type countingTxManager struct {
	failures int
	err      error
	attempts int
}

func (m *countingTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.attempts++
	if m.attempts <= m.failures {
		return m.err
	}
	return fn(ctx)
}

func TestRunWithRetry_RetriesSerializationFailures(t *testing.T) {
	txm := &countingTxManager{failures: 2, err: apperror.NewSerialization(nil)}

	err := RunWithRetry(context.Background(), txm, "test.op", func(ctx context.Context) error {
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, txm.attempts)
}

func TestRunWithRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	txm := &countingTxManager{failures: MaxAttempts + 1, err: apperror.NewSerialization(nil)}

	err := RunWithRetry(context.Background(), txm, "test.op", func(ctx context.Context) error {
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, MaxAttempts, txm.attempts)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeSerialization, appErr.Code)
}

func TestRunWithRetry_PermanentErrorFailsImmediately(t *testing.T) {
	txm := &countingTxManager{failures: MaxAttempts, err: apperror.NewValidation("bad input")}

	err := RunWithRetry(context.Background(), txm, "test.op", func(ctx context.Context) error {
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, 1, txm.attempts)
}
