package dto

import (
	"github.com/shopspring/decimal"

	"github.com/edenv/walletvault/internal/domain"
	"github.com/edenv/walletvault/internal/usecase"
)

// CreateTransferRequest represents a request to move funds between wallets.
type CreateTransferRequest struct {
	FromAddress string `json:"from_address"`
	ToAddress   string `json:"to_address"`
	Amount      string `json:"amount"`
	Pin         string `json:"pin"`
}

// ToUseCaseInput validates the request shape and converts it to engine input.
// Whether the wallets exist and the PIN matches is decided by the engine, not
// here.
func (r *CreateTransferRequest) ToUseCaseInput() (usecase.TransferInput, error) {
	if err := domain.ValidateAddress(r.FromAddress); err != nil {
		return usecase.TransferInput{}, err
	}

	if err := domain.ValidateAddress(r.ToAddress); err != nil {
		return usecase.TransferInput{}, err
	}

	if err := domain.ValidatePin(r.Pin); err != nil {
		return usecase.TransferInput{}, err
	}

	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return usecase.TransferInput{}, domain.ErrInvalidAmount
	}

	if err := domain.ValidateTransferAmount(amount); err != nil {
		return usecase.TransferInput{}, err
	}

	return usecase.TransferInput{
		SenderAddress:    r.FromAddress,
		RecipientAddress: r.ToAddress,
		Amount:           amount,
		Pin:              r.Pin,
	}, nil
}

// CreateWalletRequest represents a request to provision a wallet.
type CreateWalletRequest struct {
	Address        string `json:"address"`
	Pin            string `json:"pin"`
	InitialBalance string `json:"initial_balance,omitempty"`
}

// ToUseCaseInput converts to use case input. A missing initial balance means
// zero.
func (r *CreateWalletRequest) ToUseCaseInput() (usecase.CreateWalletInput, error) {
	balance := decimal.Zero

	if r.InitialBalance != "" {
		parsed, err := decimal.NewFromString(r.InitialBalance)
		if err != nil {
			return usecase.CreateWalletInput{}, domain.ErrInvalidAmount
		}
		balance = parsed
	}

	return usecase.CreateWalletInput{
		Address:        r.Address,
		Pin:            r.Pin,
		InitialBalance: balance,
	}, nil
}
