package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edenv/walletvault/internal/domain"
)

// WalletRepository defines data access for wallets.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByAddress(ctx context.Context, address string) (*domain.Wallet, error)
	// GetByAddressesForUpdate locks the given wallets for the duration of tx.
	// Callers must pass addresses in a consistent global order to avoid
	// deadlocks between crossing transfers.
	GetByAddressesForUpdate(ctx context.Context, tx Transaction, addresses []string) ([]*domain.Wallet, error)
	// AdjustBalance applies delta (negative for debit) to the wallet balance
	// inside tx. It returns domain.ErrIntegrity if the adjustment would drive
	// the balance negative; the engine is expected to have checked
	// sufficiency on locked rows before calling it.
	AdjustBalance(ctx context.Context, tx Transaction, address string, delta decimal.Decimal, updatedAt time.Time) error
}

// WalletLogRepository defines append-only access to the balance audit log.
// No update or delete is exposed.
type WalletLogRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.WalletLogEntry) error
	ListByWallet(ctx context.Context, address string, limit, offset int) ([]*domain.WalletLogEntry, error)
}

// TransactionRepository defines append-only access to committed transfer
// records, keyed by their content hash.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, record *domain.TransactionRecord) error
	GetByHash(ctx context.Context, hash string) (*domain.TransactionRecord, error)
	ListByWallet(ctx context.Context, address string, limit, offset int) ([]*domain.TransactionRecord, error)
}

// Transaction represents the atomic scope every durable mutation of one
// transfer runs in. It is passed explicitly to every store call.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// PinHasher hashes and verifies wallet PINs. Verification must be
// constant-time; the algorithm is pluggable so its cost can evolve
// independently of the engine.
type PinHasher interface {
	Hash(pin string) (string, error)
	Verify(pin, encodedHash string) (bool, error)
}

// IDGenerator generates unique IDs for log entries and records.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient store conflicts (deadlocks,
// serialization failures). Business failures are never retried.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore handles idempotency key storage for the HTTP boundary.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Forget releases a claimed key so the request may be retried.
	Forget(ctx context.Context, key string) error
}
