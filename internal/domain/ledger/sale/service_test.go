package sale

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dukapos/internal/core/apperror"
	appctx "dukapos/internal/core/context"
	"dukapos/internal/core/id"
	"dukapos/internal/core/types"
	"dukapos/internal/domain/account"
	"dukapos/internal/domain/inventory"
	"dukapos/pkg/numerator"
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

type memInventory struct {
	skus       map[id.ID]*inventory.SKU
	recomputed map[id.ID]int
}

func newMemInventory(skus ...*inventory.SKU) *memInventory {
	m := &memInventory{
		skus:       make(map[id.ID]*inventory.SKU),
		recomputed: make(map[id.ID]int),
	}
	for _, s := range skus {
		m.skus[s.ID] = s
	}
	return m
}

func (m *memInventory) GetSKUForUpdate(ctx context.Context, skuID id.ID) (*inventory.SKU, error) {
	s, ok := m.skus[skuID]
	if !ok {
		return nil, apperror.NewNotFound("sku", skuID)
	}
	return s, nil
}

func (m *memInventory) UpdateSKUStock(ctx context.Context, skuID id.ID, quantity int) error {
	s, ok := m.skus[skuID]
	if !ok {
		return apperror.NewNotFound("sku", skuID)
	}
	s.StockQuantity = quantity
	return nil
}

func (m *memInventory) RecomputeProductStock(ctx context.Context, productID id.ID) error {
	m.recomputed[productID]++
	return nil
}

func (m *memInventory) GetProduct(ctx context.Context, productID id.ID) (*inventory.Product, error) {
	return nil, apperror.NewNotFound("product", productID)
}
func (m *memInventory) ListProducts(ctx context.Context) ([]*inventory.Product, error) {
	return nil, nil
}
func (m *memInventory) CreateProduct(ctx context.Context, p *inventory.Product) error { return nil }
func (m *memInventory) UpdateProduct(ctx context.Context, p *inventory.Product) error { return nil }
func (m *memInventory) DeleteProduct(ctx context.Context, productID id.ID) error { return nil }
func (m *memInventory) CreateVariant(ctx context.Context, v *inventory.Variant) error { return nil }
func (m *memInventory) CreateSKU(ctx context.Context, s *inventory.SKU) error { return nil }

type memSaleRepo struct {
	sells map[id.ID]*Sell
	items map[id.ID][]SellItem
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{sells: make(map[id.ID]*Sell), items: make(map[id.ID][]SellItem)}
}

func (m *memSaleRepo) Create(ctx context.Context, s *Sell) error {
	cp := *s
	m.sells[s.ID] = &cp
	return nil
}

func (m *memSaleRepo) Update(ctx context.Context, s *Sell) error {
	if _, ok := m.sells[s.ID]; !ok {
		return apperror.NewNotFound("sell", s.ID)
	}
	cp := *s
	m.sells[s.ID] = &cp
	return nil
}

func (m *memSaleRepo) Delete(ctx context.Context, sellID id.ID) error {
	if _, ok := m.sells[sellID]; !ok {
		return apperror.NewNotFound("sell", sellID)
	}
	delete(m.sells, sellID)
	return nil
}

func (m *memSaleRepo) GetByID(ctx context.Context, sellID id.ID) (*Sell, error) {
	s, ok := m.sells[sellID]
	if !ok {
		return nil, apperror.NewNotFound("sell", sellID)
	}
	cp := *s
	cp.Items = append([]SellItem(nil), m.items[sellID]...)
	return &cp, nil
}

func (m *memSaleRepo) SaveItems(ctx context.Context, sellID id.ID, items []SellItem) error {
	m.items[sellID] = append(m.items[sellID], items...)
	return nil
}

func (m *memSaleRepo) DeleteItems(ctx context.Context, sellID id.ID) error {
	delete(m.items, sellID)
	return nil
}

func (m *memSaleRepo) List(ctx context.Context, filter ListFilter) ([]*Sell, error) {
	return nil, nil
}

// seqRow feeds a counter to the numerator's Scan.
type seqRow struct{ val int64 }

func (r *seqRow) Scan(dest ...any) error {
	if len(dest) > 0 {
		if p, ok := dest[0].(*int64); ok {
			*p = r.val
		}
	}
	return nil
}

type seqProvider struct{ current int64 }

func (p *seqProvider) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	p.current++
	return &seqRow{val: p.current}
}

func (p *seqProvider) GetQuerier(ctx context.Context) numerator.Querier { return p }

type saleFixture struct {
	service   *Service
	repo      *memSaleRepo
	accounts  *memAccounts
	inventory *memInventory
	accountID id.ID
	userID    id.ID
	skuID     id.ID
	productID id.ID
}

func newSaleFixture(t *testing.T, stock int) *saleFixture {
	t.Helper()

	f := &saleFixture{
		repo:      newMemSaleRepo(),
		accountID: id.New(),
		userID:    id.New(),
		skuID:     id.New(),
		productID: id.New(),
	}
	f.accounts = newMemAccounts(&account.Account{
		ID:          f.accountID,
		Label:       "KES",
		Balance:     types.MustMoney("1000"),
		CashBalance: types.MustMoney("500"),
	})
	f.inventory = newMemInventory(&inventory.SKU{
		ID:            f.skuID,
		Price:         types.MustMoney("100"),
		StockQuantity: stock,
	})
	f.service = NewService(
		f.repo, f.accounts, f.inventory,
		numerator.New(&seqProvider{}), passthroughTxManager{},
	)
	return f
}

func (f *saleFixture) ctx() context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: f.userID.String(),
		Role:   appctx.RoleCashier,
	})
}

func (f *saleFixture) newSell(payType string, qty int) *Sell {
	return &Sell{
		AccountID: f.accountID,
		Type:      payType,
		Items: []SellItem{
			{ProductID: f.productID, SkuID: f.skuID, Price: types.MustMoney("100"), Quantity: qty},
		},
	}
}

func TestSaleCreate_CashSale(t *testing.T) {
	f := newSaleFixture(t, 10)

	sell := f.newSell(PaymentCash, 3)
	require.NoError(t, f.service.Create(f.ctx(), sell))

	assert.Equal(t, "ORD-0001", sell.OrderID)
	assert.True(t, sell.Total.Equal(types.MustMoney("300")), "total: %s", sell.Total)
	assert.Equal(t, StatusPaid, sell.Status)
	assert.Equal(t, f.userID, sell.UserID)

	// Stock decremented, product rollup refreshed.
	assert.Equal(t, 7, f.inventory.skus[f.skuID].StockQuantity)
	assert.Equal(t, 1, f.inventory.recomputed[f.productID])

	// Cash sale credits only the cash bucket.
	acc := f.accounts.accounts[f.accountID]
	assert.True(t, acc.Balance.Equal(types.MustMoney("1000")))
	assert.True(t, acc.CashBalance.Equal(types.MustMoney("800")))
}

func TestSaleCreate_SequentialOrderIDs(t *testing.T) {
	f := newSaleFixture(t, 10)

	first := f.newSell(PaymentDigital, 1)
	second := f.newSell(PaymentDigital, 1)
	require.NoError(t, f.service.Create(f.ctx(), first))
	require.NoError(t, f.service.Create(f.ctx(), second))

	assert.Equal(t, "ORD-0001", first.OrderID)
	assert.Equal(t, "ORD-0002", second.OrderID)
}

func TestSaleCreate_InsufficientStock(t *testing.T) {
	f := newSaleFixture(t, 2)

	err := f.service.Create(f.ctx(), f.newSell(PaymentCash, 5))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Empty(t, f.repo.sells, "no sell row should be written")
}

func TestSaleCreate_SplitMustSumToTotal(t *testing.T) {
	f := newSaleFixture(t, 10)

	sell := f.newSell(PaymentBoth, 2) // total 200
	sell.CashAmount = types.MustMoney("50")
	sell.DigitalAmount = types.MustMoney("100")

	err := f.service.Create(f.ctx(), sell)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestSaleCreate_SplitSale(t *testing.T) {
	f := newSaleFixture(t, 10)

	sell := f.newSell(PaymentBoth, 2) // total 200
	sell.CashAmount = types.MustMoney("80")
	sell.DigitalAmount = types.MustMoney("120")

	require.NoError(t, f.service.Create(f.ctx(), sell))

	acc := f.accounts.accounts[f.accountID]
	assert.True(t, acc.Balance.Equal(types.MustMoney("1120")))
	assert.True(t, acc.CashBalance.Equal(types.MustMoney("580")))
}

func TestSaleCreate_MissingCaller(t *testing.T) {
	f := newSaleFixture(t, 10)

	err := f.service.Create(context.Background(), f.newSell(PaymentCash, 1))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestSaleDelete_RestoresStockAndReversesCredit(t *testing.T) {
	f := newSaleFixture(t, 10)

	sell := f.newSell(PaymentDigital, 4)
	require.NoError(t, f.service.Create(f.ctx(), sell))
	require.Equal(t, 6, f.inventory.skus[f.skuID].StockQuantity)

	require.NoError(t, f.service.Delete(f.ctx(), sell.ID))

	assert.Equal(t, 10, f.inventory.skus[f.skuID].StockQuantity)
	acc := f.accounts.accounts[f.accountID]
	assert.True(t, acc.Balance.Equal(types.MustMoney("1000")), "balance: %s", acc.Balance)
	assert.Empty(t, f.repo.sells)
	assert.Empty(t, f.repo.items[sell.ID])
}

func TestSaleUpdate_ReplacesItemsAndRebalances(t *testing.T) {
	f := newSaleFixture(t, 10)

	sell := f.newSell(PaymentCash, 2) // total 200 cash
	require.NoError(t, f.service.Create(f.ctx(), sell))

	updated := f.newSell(PaymentDigital, 5) // total 500 digital
	require.NoError(t, f.service.Update(f.ctx(), sell.ID, updated))

	// Stock: back to 10, then down 5.
	assert.Equal(t, 5, f.inventory.skus[f.skuID].StockQuantity)

	// Cash credit reversed, digital credit applied.
	acc := f.accounts.accounts[f.accountID]
	assert.True(t, acc.CashBalance.Equal(types.MustMoney("500")), "cash: %s", acc.CashBalance)
	assert.True(t, acc.Balance.Equal(types.MustMoney("1500")), "balance: %s", acc.Balance)

	// Order ID and creator survive the update.
	stored, err := f.repo.GetByID(context.Background(), sell.ID)
	require.NoError(t, err)
	assert.Equal(t, sell.OrderID, stored.OrderID)
	assert.Equal(t, f.userID, stored.UserID)
}

func TestSaleUpdate_PaidSaleForeignCashierForbidden(t *testing.T) {
	f := newSaleFixture(t, 10)

	sell := f.newSell(PaymentCash, 1)
	require.NoError(t, f.service.Create(f.ctx(), sell))

	other := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: id.New().String(),
		Role:   appctx.RoleCashier,
	})

	err := f.service.Update(other, sell.ID, f.newSell(PaymentCash, 2))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestSaleDelete_PaidSaleAdminAllowed(t *testing.T) {
	f := newSaleFixture(t, 10)

	sell := f.newSell(PaymentCash, 1)
	require.NoError(t, f.service.Create(f.ctx(), sell))

	admin := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: id.New().String(),
		Role:   appctx.RoleAdmin,
	})

	require.NoError(t, f.service.Delete(admin, sell.ID))
	assert.Empty(t, f.repo.sells)
}
