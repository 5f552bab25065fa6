package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/edenv/walletvault/internal/domain"
)

// WalletResponse represents a wallet in API responses. The PIN hash never
// leaves the service.
type WalletResponse struct {
	Address   string          `json:"address"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// WalletFromDomain converts a domain wallet to a response.
func WalletFromDomain(w *domain.Wallet) *WalletResponse {
	return &WalletResponse{
		Address:   w.Address,
		Balance:   w.Balance,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// TransactionResponse represents a transfer record in API responses.
type TransactionResponse struct {
	ID          string          `json:"id"`
	FromAddress string          `json:"from_address"`
	ToAddress   string          `json:"to_address"`
	Amount      decimal.Decimal `json:"amount"`
	Hash        string          `json:"hash"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction record to a response.
func TransactionFromDomain(t *domain.TransactionRecord) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		FromAddress: t.FromAddress,
		ToAddress:   t.ToAddress,
		Amount:      t.Amount,
		Hash:        t.Hash,
		CreatedAt:   t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transaction records to responses.
func TransactionsFromDomain(records []*domain.TransactionRecord) []*TransactionResponse {
	result := make([]*TransactionResponse, len(records))
	for i, r := range records {
		result[i] = TransactionFromDomain(r)
	}
	return result
}

// TransferResultResponse is returned by the transfer endpoint.
type TransferResultResponse struct {
	Message     string               `json:"message"`
	Transaction *TransactionResponse `json:"transaction"`
}

// WalletLogResponse represents a balance-change log entry in API responses.
type WalletLogResponse struct {
	ID            string          `json:"id"`
	WalletAddress string          `json:"wallet_address"`
	Operation     string          `json:"operation"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	CreatedAt     time.Time       `json:"created_at"`
}

// WalletLogFromDomain converts a domain log entry to a response.
func WalletLogFromDomain(e *domain.WalletLogEntry) *WalletLogResponse {
	return &WalletLogResponse{
		ID:            e.ID,
		WalletAddress: e.WalletAddress,
		Operation:     string(e.Operation),
		Amount:        e.Amount,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		CreatedAt:     e.CreatedAt,
	}
}

// WalletLogsFromDomain converts domain log entries to responses.
func WalletLogsFromDomain(entries []*domain.WalletLogEntry) []*WalletLogResponse {
	result := make([]*WalletLogResponse, len(entries))
	for i, e := range entries {
		result[i] = WalletLogFromDomain(e)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
