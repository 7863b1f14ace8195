package catalog

import (
	"context"
	"time"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
)

// BankAccount is an external bank account referenced by bank
// transactions purely as metadata. It holds no balance of its own.
type BankAccount struct {
	ID            id.ID     `db:"id" json:"id"`
	BankName      string    `db:"bank_name" json:"bankName"`
	AccountName   string    `db:"account_name" json:"accountName"`
	AccountNumber string    `db:"account_number" json:"accountNumber"`
	Branch        string    `db:"branch" json:"branch,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// Validate checks bank account fields.
func (b *BankAccount) Validate() error {
	if b.BankName == "" {
		return apperror.NewValidation("bank name is required").WithDetail("field", "bankName")
	}
	if b.AccountNumber == "" {
		return apperror.NewValidation("account number is required").WithDetail("field", "accountNumber")
	}
	return nil
}

// BankAccountRepository defines data access for bank accounts.
type BankAccountRepository interface {
	Create(ctx context.Context, b *BankAccount) error
	Update(ctx context.Context, b *BankAccount) error
	Delete(ctx context.Context, bankAccountID id.ID) error
	GetByID(ctx context.Context, bankAccountID id.ID) (*BankAccount, error)
	List(ctx context.Context) ([]*BankAccount, error)
}

// BankAccountService provides bank account CRUD.
type BankAccountService struct {
	repo BankAccountRepository
}

// NewBankAccountService creates a new bank account service.
func NewBankAccountService(repo BankAccountRepository) *BankAccountService {
	return &BankAccountService{repo: repo}
}

// Create creates a bank account.
func (s *BankAccountService) Create(ctx context.Context, b *BankAccount) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if id.IsNil(b.ID) {
		b.ID = id.New()
	}
	return s.repo.Create(ctx, b)
}

// Update updates a bank account.
func (s *BankAccountService) Update(ctx context.Context, b *BankAccount) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, b)
}

// Delete removes a bank account.
func (s *BankAccountService) Delete(ctx context.Context, bankAccountID id.ID) error {
	if _, err := s.repo.GetByID(ctx, bankAccountID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, bankAccountID)
}

// GetByID retrieves one bank account.
func (s *BankAccountService) GetByID(ctx context.Context, bankAccountID id.ID) (*BankAccount, error) {
	return s.repo.GetByID(ctx, bankAccountID)
}

// List retrieves all bank accounts.
func (s *BankAccountService) List(ctx context.Context) ([]*BankAccount, error) {
	return s.repo.List(ctx)
}
