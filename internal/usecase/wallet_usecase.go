package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edenv/walletvault/internal/domain"
)

// WalletUseCase handles wallet provisioning and read access. Balances are
// only ever mutated by the transfer engine.
type WalletUseCase struct {
	wallets WalletRepository
	logs    WalletLogRepository
	pins    PinHasher
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(wallets WalletRepository, logs WalletLogRepository, pins PinHasher) *WalletUseCase {
	return &WalletUseCase{
		wallets: wallets,
		logs:    logs,
		pins:    pins,
	}
}

// CreateWalletInput represents input for provisioning a wallet.
type CreateWalletInput struct {
	Address        string
	Pin            string
	InitialBalance decimal.Decimal
}

// CreateWallet provisions a wallet with a bcrypt-hashed PIN. The plaintext
// PIN is never stored.
func (uc *WalletUseCase) CreateWallet(ctx context.Context, input CreateWalletInput) (*domain.Wallet, error) {
	if err := domain.ValidateAddress(input.Address); err != nil {
		return nil, err
	}

	if err := domain.ValidatePin(input.Pin); err != nil {
		return nil, err
	}

	if input.InitialBalance.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	pinHash, err := uc.pins.Hash(input.Pin)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		Address:   input.Address,
		Balance:   input.InitialBalance,
		PinHash:   pinHash,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.wallets.Create(ctx, wallet); err != nil {
		return nil, err
	}

	return wallet, nil
}

// GetWallet retrieves a wallet by address.
func (uc *WalletUseCase) GetWallet(ctx context.Context, address string) (*domain.Wallet, error) {
	return uc.wallets.GetByAddress(ctx, address)
}

// ListLogsByWalletInput represents input for listing audit log entries.
type ListLogsByWalletInput struct {
	Address string
	Limit   int
	Offset  int
}

// ListLogsByWallet lists the audit trail of a wallet, newest first.
func (uc *WalletUseCase) ListLogsByWallet(ctx context.Context, input ListLogsByWalletInput) ([]*domain.WalletLogEntry, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.logs.ListByWallet(ctx, input.Address, input.Limit, input.Offset)
}
