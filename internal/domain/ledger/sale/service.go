package sale

import (
	"context"
	"time"

	"dukapos/internal/core/apperror"
	appctx "dukapos/internal/core/context"
	"dukapos/internal/core/id"
	"dukapos/internal/core/tx"
	"dukapos/internal/domain/account"
	"dukapos/internal/domain/inventory"
	"dukapos/internal/domain/ledger"
	"dukapos/pkg/logger"
	"dukapos/pkg/numerator"
)

// orderSeriesKey names the sys_sequences row for order numbers.
const orderSeriesKey = "ORD"

// Service runs the sale mutation flow. Every operation is one
// transaction: stock checks and decrements, the sell rows and the
// account credit either all commit or none do.
type Service struct {
	repo      Repository
	accounts  account.Repository
	inventory inventory.Repository
	numerator *numerator.Service
	txManager tx.Manager
}

// NewService creates a new sale service.
func NewService(
	repo Repository,
	accounts account.Repository,
	inventory inventory.Repository,
	num *numerator.Service,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		accounts:  accounts,
		inventory: inventory,
		numerator: num,
		txManager: txManager,
	}
}

// Create validates the sell, decrements stock per item, allocates a
// sequential order number, inserts the rows and credits the account.
func (s *Service) Create(ctx context.Context, sell *Sell) error {
	sell.Total = sell.ComputeTotal()
	if err := sell.Validate(); err != nil {
		return err
	}

	userID := appctx.GetUserID(ctx)
	if userID == "" {
		return apperror.NewUnauthorized("missing caller identity")
	}
	uid, err := id.Parse(userID)
	if err != nil {
		return apperror.NewUnauthorized("invalid caller identity")
	}
	sell.UserID = uid

	err = ledger.RunWithRetry(ctx, s.txManager, "sale.create", func(ctx context.Context) error {
		if err := s.takeStock(ctx, sell.Items); err != nil {
			return err
		}

		orderID, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(orderSeriesKey))
		if err != nil {
			return err
		}
		sell.OrderID = orderID

		if id.IsNil(sell.ID) {
			sell.ID = id.New()
		}
		if sell.CreatedAt.IsZero() {
			sell.CreatedAt = time.Now()
		}
		for i := range sell.Items {
			sell.Items[i].ID = id.New()
			sell.Items[i].SellID = sell.ID
		}

		if err := s.repo.Create(ctx, sell); err != nil {
			return err
		}
		if err := s.repo.SaveItems(ctx, sell.ID, sell.Items); err != nil {
			return err
		}

		digital, cash := sell.BalanceEffect()
		deltas := ledger.NewDeltaSet()
		deltas.Add(sell.AccountID, digital, cash)
		return deltas.Apply(ctx, s.accounts)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "sell created",
		"id", sell.ID, "order_id", sell.OrderID, "total", sell.Total)
	return nil
}

// Update replaces a sell's items, account and payment split. Old stock
// is restored before new stock is taken; old and new balance effects
// net per account, so moving a sell between accounts reverts one and
// credits the other in the same transaction.
func (s *Service) Update(ctx context.Context, sellID id.ID, updated *Sell) error {
	updated.Total = updated.ComputeTotal()
	if err := updated.Validate(); err != nil {
		return err
	}

	err := ledger.RunWithRetry(ctx, s.txManager, "sale.update", func(ctx context.Context) error {
		old, err := s.repo.GetByID(ctx, sellID)
		if err != nil {
			return err
		}

		if err := s.authorizeMutation(ctx, old); err != nil {
			return err
		}

		if err := s.restoreStock(ctx, old.Items); err != nil {
			return err
		}
		if err := s.repo.DeleteItems(ctx, sellID); err != nil {
			return err
		}

		if err := s.takeStock(ctx, updated.Items); err != nil {
			return err
		}

		updated.ID = old.ID
		updated.UserID = old.UserID
		updated.OrderID = old.OrderID
		updated.CreatedAt = old.CreatedAt
		for i := range updated.Items {
			updated.Items[i].ID = id.New()
			updated.Items[i].SellID = old.ID
		}

		if err := s.repo.Update(ctx, updated); err != nil {
			return err
		}
		if err := s.repo.SaveItems(ctx, old.ID, updated.Items); err != nil {
			return err
		}

		deltas := ledger.NewDeltaSet()
		oldDigital, oldCash := old.BalanceEffect()
		deltas.Add(old.AccountID, oldDigital.Neg(), oldCash.Neg())
		newDigital, newCash := updated.BalanceEffect()
		deltas.Add(updated.AccountID, newDigital, newCash)
		return deltas.Apply(ctx, s.accounts)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "sell updated", "id", sellID, "total", updated.Total)
	return nil
}

// Delete reverses the sell's balance effect, restores stock and
// removes the rows.
func (s *Service) Delete(ctx context.Context, sellID id.ID) error {
	err := ledger.RunWithRetry(ctx, s.txManager, "sale.delete", func(ctx context.Context) error {
		old, err := s.repo.GetByID(ctx, sellID)
		if err != nil {
			return err
		}

		if err := s.authorizeMutation(ctx, old); err != nil {
			return err
		}

		digital, cash := old.BalanceEffect()
		deltas := ledger.NewDeltaSet()
		deltas.Add(old.AccountID, digital.Neg(), cash.Neg())
		if err := deltas.Apply(ctx, s.accounts); err != nil {
			return err
		}

		if err := s.restoreStock(ctx, old.Items); err != nil {
			return err
		}
		if err := s.repo.DeleteItems(ctx, sellID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, sellID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "sell deleted", "id", sellID)
	return nil
}

// GetByID retrieves a sell with its items.
func (s *Service) GetByID(ctx context.Context, sellID id.ID) (*Sell, error) {
	return s.repo.GetByID(ctx, sellID)
}

// List retrieves sells with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Sell, error) {
	return s.repo.List(ctx, filter)
}

// takeStock checks and decrements stock for each item, then recomputes
// each parent product's rollup. Any failing item aborts the whole
// transaction; no partial decrement persists.
func (s *Service) takeStock(ctx context.Context, items []SellItem) error {
	for _, item := range items {
		sku, err := s.inventory.GetSKUForUpdate(ctx, item.SkuID)
		if err != nil {
			return err
		}
		if sku.StockQuantity <= 0 || sku.StockQuantity < item.Quantity {
			return apperror.NewInsufficientStock(sku.ID.String(), item.Quantity, sku.StockQuantity)
		}
		if err := s.inventory.UpdateSKUStock(ctx, sku.ID, sku.StockQuantity-item.Quantity); err != nil {
			return err
		}
		if err := s.inventory.RecomputeProductStock(ctx, item.ProductID); err != nil {
			return err
		}
	}
	return nil
}

// restoreStock increments stock for each item by its quantity and
// recomputes the parent rollups. Exact inverse of takeStock.
func (s *Service) restoreStock(ctx context.Context, items []SellItem) error {
	for _, item := range items {
		sku, err := s.inventory.GetSKUForUpdate(ctx, item.SkuID)
		if err != nil {
			return err
		}
		if err := s.inventory.UpdateSKUStock(ctx, sku.ID, sku.StockQuantity+item.Quantity); err != nil {
			return err
		}
		if err := s.inventory.RecomputeProductStock(ctx, item.ProductID); err != nil {
			return err
		}
	}
	return nil
}

// authorizeMutation allows a paid sell to be changed only by its
// creator or an admin.
func (s *Service) authorizeMutation(ctx context.Context, old *Sell) error {
	if old.Status != StatusPaid {
		return nil
	}
	if appctx.IsAdmin(ctx) {
		return nil
	}
	if appctx.GetUserID(ctx) != old.UserID.String() {
		return apperror.NewForbidden("only the sale's creator can modify a paid sale")
	}
	return nil
}
