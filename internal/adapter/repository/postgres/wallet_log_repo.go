package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edenv/walletvault/internal/domain"
	"github.com/edenv/walletvault/internal/usecase"
)

// WalletLogRepository implements usecase.WalletLogRepository.
type WalletLogRepository struct {
	pool *pgxpool.Pool
}

// NewWalletLogRepository creates a new WalletLogRepository.
func NewWalletLogRepository(pool *pgxpool.Pool) *WalletLogRepository {
	return &WalletLogRepository{pool: pool}
}

// Create inserts a balance-change log entry inside the given transaction.
func (r *WalletLogRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.WalletLogEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO wallet_logs (id, wallet_address, operation, amount, balance_before, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := pgxTx.Exec(ctx, query,
		entry.ID,
		entry.WalletAddress,
		string(entry.Operation),
		decimalToNumeric(entry.Amount),
		decimalToNumeric(entry.BalanceBefore),
		decimalToNumeric(entry.BalanceAfter),
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// ListByWallet retrieves log entries for a wallet, newest first.
func (r *WalletLogRepository) ListByWallet(ctx context.Context, address string, limit, offset int) ([]*domain.WalletLogEntry, error) {
	query := `
		SELECT id, wallet_address, operation, amount, balance_before, balance_after, created_at
		FROM wallet_logs
		WHERE wallet_address = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, address, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.WalletLogEntry
	for rows.Next() {
		var (
			entry         domain.WalletLogEntry
			operation     string
			amount        pgtype.Numeric
			balanceBefore pgtype.Numeric
			balanceAfter  pgtype.Numeric
			createdAt     pgtype.Timestamptz
		)

		err := rows.Scan(
			&entry.ID,
			&entry.WalletAddress,
			&operation,
			&amount,
			&balanceBefore,
			&balanceAfter,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		entry.Operation = domain.Operation(operation)
		entry.Amount = numericToDecimal(amount)
		entry.BalanceBefore = numericToDecimal(balanceBefore)
		entry.BalanceAfter = numericToDecimal(balanceAfter)
		entry.CreatedAt = createdAt.Time

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
