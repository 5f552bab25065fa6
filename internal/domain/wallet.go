package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet represents an account identified by its crypto address.
// PinHash holds the bcrypt hash of the owner's 4-digit PIN and is never
// exposed through the API.
type Wallet struct {
	Address   string
	Balance   decimal.Decimal
	PinHash   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanDebit checks if the wallet holds enough funds to be debited by amount.
func (w *Wallet) CanDebit(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}

// ApplyDebit returns the balance after a debit of amount.
func (w *Wallet) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return w.Balance.Sub(amount)
}

// ApplyCredit returns the balance after a credit of amount.
func (w *Wallet) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return w.Balance.Add(amount)
}
