package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operation is the kind of balance mutation recorded in a wallet log entry.
type Operation string

const (
	OperationCredit Operation = "credit"
	OperationDebit  Operation = "debit"
)

// IsValid checks if the operation is a known kind.
func (o Operation) IsValid() bool {
	return o == OperationCredit || o == OperationDebit
}

// WalletLogEntry is an immutable audit row documenting one balance mutation.
// It is written in the same transaction as the mutation itself.
type WalletLogEntry struct {
	ID            string
	WalletAddress string
	Operation     Operation
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	CreatedAt     time.Time
}

// Validate checks the entry's internal consistency: the amount is positive
// and BalanceAfter equals BalanceBefore adjusted by Amount per the operation.
func (e *WalletLogEntry) Validate() error {
	if !e.Operation.IsValid() {
		return ErrInvalidOperation
	}

	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	var expected decimal.Decimal
	switch e.Operation {
	case OperationCredit:
		expected = e.BalanceBefore.Add(e.Amount)
	case OperationDebit:
		expected = e.BalanceBefore.Sub(e.Amount)
	}

	if !e.BalanceAfter.Equal(expected) {
		return ErrIntegrity
	}

	return nil
}
