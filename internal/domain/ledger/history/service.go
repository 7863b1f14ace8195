package history

import (
	"context"
	"fmt"
	"time"

	"dukapos/internal/core/id"
	"dukapos/internal/core/types"
	"dukapos/internal/domain/account"
	"dukapos/internal/domain/ledger/bank"
	"dukapos/internal/domain/ledger/sale"
	"dukapos/internal/domain/ledger/swap"
	"dukapos/internal/domain/ledger/transaction"
)

// Service reconstructs account timelines.
type Service struct {
	repo     Repository
	accounts account.Repository
}

// NewService creates a new history service.
func NewService(repo Repository, accounts account.Repository) *Service {
	return &Service{repo: repo, accounts: accounts}
}

// event is one dated row from any of the four sources, normalized to a
// signed amount before merging.
type event struct {
	date        time.Time
	entryType   string
	amount      types.Money
	description string
	details     map[string]any

	// exchange marks an internal cash<->digital move. It shifts the
	// running balance but is not money entering or leaving the account,
	// so the summary keeps it out of TotalIn/TotalOut.
	exchange bool
}

// Reconstruct builds the running-balance timeline for an account and
// window. The starting balance is derived backward: the stored balance
// minus the net effect of all transaction, sell and swap rows dated
// strictly before fromDate. Bank rows do not participate in the
// walk-back. toDate is made inclusive by normalizing its time to the
// end of the day.
func (s *Service) Reconstruct(ctx context.Context, accountID id.ID, fromDate, toDate time.Time) (*Report, error) {
	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	toDate = endOfDay(toDate)

	starting, err := s.startingBalance(ctx, acc, fromDate)
	if err != nil {
		return nil, err
	}

	events, err := s.collectEvents(ctx, accountID, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	report := &Report{
		AccountID: accountID,
		FromDate:  fromDate,
		ToDate:    toDate,
	}

	running := starting
	report.Timeline = append(report.Timeline, Entry{
		Date:        fromDate,
		Type:        EntryInitial,
		Amount:      types.Zero(),
		Description: "Starting balance",
		Balance:     running,
	})

	sum := Summary{
		StartingBalance: starting,
		TotalIn:         types.Zero(),
		TotalOut:        types.Zero(),
		TotalSwapIn:     types.Zero(),
		TotalSwapOut:    types.Zero(),
		TotalBankIn:     types.Zero(),
		TotalBankOut:    types.Zero(),
		TotalSales:      types.Zero(),
	}

	for _, ev := range events {
		running = running.Add(ev.amount)
		report.Timeline = append(report.Timeline, Entry{
			Date:        ev.date,
			Type:        ev.entryType,
			Amount:      ev.amount,
			Description: ev.description,
			Details:     ev.details,
			Balance:     running,
		})

		switch ev.entryType {
		case EntryTransactionIn:
			if !ev.exchange {
				sum.TotalIn = sum.TotalIn.Add(ev.amount)
			}
			sum.TransactionCount++
		case EntryTransactionOut:
			if !ev.exchange {
				sum.TotalOut = sum.TotalOut.Add(ev.amount.Abs())
			}
			sum.TransactionCount++
		case EntrySale:
			sum.TotalSales = sum.TotalSales.Add(ev.amount)
			sum.SaleCount++
		case EntrySwapIn:
			sum.TotalSwapIn = sum.TotalSwapIn.Add(ev.amount)
			sum.SwapCount++
		case EntrySwapOut:
			sum.TotalSwapOut = sum.TotalSwapOut.Add(ev.amount.Abs())
			sum.SwapCount++
		case EntryBankIn:
			sum.TotalBankIn = sum.TotalBankIn.Add(ev.amount)
			sum.BankCount++
		case EntryBankOut:
			sum.TotalBankOut = sum.TotalBankOut.Add(ev.amount.Abs())
			sum.BankCount++
		}
	}

	sum.FinalBalance = running
	sum.NetChange = sum.FinalBalance.Sub(sum.StartingBalance)
	report.Summary = sum

	return report, nil
}

// startingBalance walks the stored balance backward past all history
// before the cutoff.
func (s *Service) startingBalance(ctx context.Context, acc *account.Account, before time.Time) (types.Money, error) {
	txNet, err := s.repo.NetTransactionEffectBefore(ctx, acc.ID, before)
	if err != nil {
		return types.Zero(), err
	}
	salesTotal, err := s.repo.SalesTotalBefore(ctx, acc.ID, before)
	if err != nil {
		return types.Zero(), err
	}
	swapNet, err := s.repo.SwapNetBefore(ctx, acc.ID, before)
	if err != nil {
		return types.Zero(), err
	}
	return acc.Balance.Sub(txNet).Sub(salesTotal).Sub(swapNet), nil
}

// collectEvents fetches the four pre-sorted streams and merges them
// into one chronological sequence.
func (s *Service) collectEvents(ctx context.Context, accountID id.ID, from, to time.Time) ([]event, error) {
	txs, err := s.repo.TransactionsInRange(ctx, accountID, from, to)
	if err != nil {
		return nil, err
	}
	sells, err := s.repo.SellsInRange(ctx, accountID, from, to)
	if err != nil {
		return nil, err
	}
	swaps, err := s.repo.SwapsInRange(ctx, accountID, from, to)
	if err != nil {
		return nil, err
	}
	banks, err := s.repo.BankTransactionsInRange(ctx, accountID, from, to)
	if err != nil {
		return nil, err
	}

	txEvents := make([]event, len(txs))
	for i, t := range txs {
		txEvents[i] = transactionEvent(t)
	}
	sellEvents := make([]event, len(sells))
	for i, sl := range sells {
		sellEvents[i] = sellEvent(sl)
	}
	swapEvents := make([]event, len(swaps))
	for i, sw := range swaps {
		swapEvents[i] = swapEvent(sw, accountID)
	}
	bankEvents := make([]event, len(banks))
	for i, b := range banks {
		bankEvents[i] = bankEvent(b)
	}

	return mergeByDate(txEvents, sellEvents, swapEvents, bankEvents), nil
}

func transactionEvent(t *transaction.Transaction) event {
	amount := t.Amount
	entryType := EntryTransactionIn
	desc := fmt.Sprintf("Transaction %s", t.Ref)

	if t.IsExchange {
		// Exchange effect on the digital balance: withdrawal moves
		// value out to cash, deposit moves it in.
		if t.ExchangeType == transaction.ExchangeWithdrawal {
			amount = amount.Neg()
			entryType = EntryTransactionOut
		}
		desc = fmt.Sprintf("Exchange %s %s", t.ExchangeType, t.Ref)
	} else if t.Acc == transaction.AccDebit {
		amount = amount.Neg()
		entryType = EntryTransactionOut
	}

	return event{
		date:        t.TranDate,
		entryType:   entryType,
		amount:      amount,
		description: desc,
		exchange:    t.IsExchange,
		details: map[string]any{
			"ref":        t.Ref,
			"acc":        t.Acc,
			"isExchange": t.IsExchange,
			"details":    t.Details,
		},
	}
}

func sellEvent(s *sale.Sell) event {
	return event{
		date:        s.CreatedAt,
		entryType:   EntrySale,
		amount:      s.Total,
		description: fmt.Sprintf("Sale %s", s.OrderID),
		details: map[string]any{
			"orderId": s.OrderID,
			"type":    s.Type,
			"status":  s.Status,
		},
	}
}

func swapEvent(sw *swap.AccountSwap, accountID id.ID) event {
	if sw.ToAccountID == accountID {
		return event{
			date:        sw.CreatedAt,
			entryType:   EntrySwapIn,
			amount:      sw.ToAmount,
			description: "Swap in",
			details: map[string]any{
				"fromAccountId": sw.FromAccountID,
				"exchangeRate":  sw.ExchangeRate,
			},
		}
	}
	return event{
		date:        sw.CreatedAt,
		entryType:   EntrySwapOut,
		amount:      sw.FromAmount.Neg(),
		description: "Swap out",
		details: map[string]any{
			"toAccountId":  sw.ToAccountID,
			"exchangeRate": sw.ExchangeRate,
		},
	}
}

func bankEvent(b *bank.BankTransaction) event {
	amount := b.Total()
	entryType := EntryBankIn
	desc := "Bank deposit"
	if b.Acc == bank.AccDebit {
		amount = amount.Neg()
		entryType = EntryBankOut
		desc = "Bank withdrawal"
	}
	return event{
		date:        b.CreatedAt,
		entryType:   entryType,
		amount:      amount,
		description: desc,
		details: map[string]any{
			"bankAccountId": b.BankAccountID,
			"details":       b.Details,
		},
	}
}

// mergeByDate lazily merges pre-sorted event streams into one
// chronological sequence. Ties keep stream order (transactions, sells,
// swaps, banks), which keeps the merge stable.
func mergeByDate(streams ...[]event) []event {
	total := 0
	for _, s := range streams {
		total += len(s)
	}
	merged := make([]event, 0, total)
	idx := make([]int, len(streams))

	for len(merged) < total {
		best := -1
		for i, s := range streams {
			if idx[i] >= len(s) {
				continue
			}
			if best == -1 || s[idx[i]].date.Before(streams[best][idx[best]].date) {
				best = i
			}
		}
		merged = append(merged, streams[best][idx[best]])
		idx[best]++
	}

	return merged
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}
