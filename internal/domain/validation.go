package domain

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAddress = errors.New("invalid crypto address format")
	ErrInvalidPin     = errors.New("pin must be exactly 4 digits")
	ErrAmountTooSmall = errors.New("amount below minimum allowed")
	ErrPinTooWeak     = errors.New("pin does not meet requirements")
)

// Validation constants
const (
	PinLength         = 4
	MinTransferAmount = "1"
)

// addressRegex accepts Ethereum (0x-prefixed hex), Bitcoin (base58, 1/3
// prefix) and Litecoin (L/M/3 prefix) address forms.
var addressRegex = regexp.MustCompile(
	`^0x[a-fA-F0-9]{40}$|^[13][a-km-zA-HJ-NP-Z1-9]{25,34}$|^[LM3][a-km-zA-HJ-NP-Z1-9]{26,33}$`,
)

var pinRegex = regexp.MustCompile(`^[0-9]{4}$`)

// ValidateAddress validates a wallet address string.
func ValidateAddress(address string) error {
	if !addressRegex.MatchString(address) {
		return ErrInvalidAddress
	}

	return nil
}

// ValidatePin validates the shape of a PIN: exactly four numeric digits.
func ValidatePin(pin string) error {
	if len(pin) != PinLength {
		return ErrInvalidPin
	}

	if !pinRegex.MatchString(pin) {
		return ErrInvalidPin
	}

	return nil
}

// ValidateTransferAmount validates a transfer amount against the API minimum.
// The engine itself only requires a positive amount; the stricter minimum is
// a boundary rule.
func ValidateTransferAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	minAmount, _ := decimal.NewFromString(MinTransferAmount)
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinTransferAmount)
	}

	return nil
}
