package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edenv/walletvault/internal/domain"
	"github.com/edenv/walletvault/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a transfer record inside the given transaction. A unique
// index on the content hash turns duplicate inserts into ErrDuplicateHash.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.TransactionRecord) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO transactions (id, from_address, to_address, amount, hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := pgxTx.Exec(ctx, query,
		record.ID,
		record.FromAddress,
		record.ToAddress,
		decimalToNumeric(record.Amount),
		record.Hash,
		timeToPgTimestamptz(record.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateHash
		}

		return err
	}

	return nil
}

// GetByHash retrieves a transfer record by its content hash.
func (r *TransactionRepository) GetByHash(ctx context.Context, hash string) (*domain.TransactionRecord, error) {
	query := `
		SELECT id, from_address, to_address, amount, hash, created_at
		FROM transactions
		WHERE hash = $1
	`

	record, err := scanTransaction(r.pool.QueryRow(ctx, query, hash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	return record, nil
}

// ListByWallet retrieves transfer records where the wallet is sender or
// recipient, newest first.
func (r *TransactionRepository) ListByWallet(ctx context.Context, address string, limit, offset int) ([]*domain.TransactionRecord, error) {
	query := `
		SELECT id, from_address, to_address, amount, hash, created_at
		FROM transactions
		WHERE from_address = $1 OR to_address = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, address, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.TransactionRecord
	for rows.Next() {
		record, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

func scanTransaction(row rowScanner) (*domain.TransactionRecord, error) {
	var (
		record    domain.TransactionRecord
		amount    pgtype.Numeric
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&record.ID,
		&record.FromAddress,
		&record.ToAddress,
		&amount,
		&record.Hash,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.Amount = numericToDecimal(amount)
	record.CreatedAt = createdAt.Time

	return &record, nil
}
