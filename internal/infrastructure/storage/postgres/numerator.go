package postgres

import (
	"context"

	"dukapos/pkg/numerator"
)

// NumeratorProvider adapts the TxManager to the numerator's querier
// contract, so number allocation joins the caller's transaction.
type NumeratorProvider struct {
	txm *TxManager
}

// NewNumeratorProvider creates a provider backed by the tx manager.
func NewNumeratorProvider(txm *TxManager) *NumeratorProvider {
	return &NumeratorProvider{txm: txm}
}

// GetQuerier returns the context transaction, or the pool outside one.
func (p *NumeratorProvider) GetQuerier(ctx context.Context) numerator.Querier {
	return p.txm.GetQuerier(ctx)
}
