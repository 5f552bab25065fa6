package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/edenv/walletvault/internal/domain"
	"github.com/edenv/walletvault/internal/usecase"
)

const pgErrUniqueViolation = "23505"

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

// Create inserts a new wallet.
func (r *WalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	query := `
		INSERT INTO wallets (address, balance, pin_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		wallet.Address,
		decimalToNumeric(wallet.Balance),
		wallet.PinHash,
		timeToPgTimestamptz(wallet.CreatedAt),
		timeToPgTimestamptz(wallet.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrWalletExists
		}

		return err
	}

	return nil
}

// GetByAddress retrieves a wallet by address.
func (r *WalletRepository) GetByAddress(ctx context.Context, address string) (*domain.Wallet, error) {
	query := `
		SELECT address, balance, pin_hash, created_at, updated_at
		FROM wallets
		WHERE address = $1
	`

	wallet, err := scanWallet(r.pool.QueryRow(ctx, query, address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}

		return nil, err
	}

	return wallet, nil
}

// GetByAddressesForUpdate retrieves wallets by address with FOR UPDATE locks.
// Rows are locked in ascending address order so that concurrent transfers
// touching the same wallets cannot deadlock on lock acquisition.
func (r *WalletRepository) GetByAddressesForUpdate(ctx context.Context, tx usecase.Transaction, addresses []string) ([]*domain.Wallet, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT address, balance, pin_hash, created_at, updated_at
		FROM wallets
		WHERE address = ANY($1)
		ORDER BY address
		FOR UPDATE
	`

	rows, err := pgxTx.Query(ctx, query, addresses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wallets := make([]*domain.Wallet, 0, len(addresses))
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}

		wallets = append(wallets, wallet)
	}

	return wallets, rows.Err()
}

// AdjustBalance applies a signed delta to a wallet balance. The update is
// guarded so the stored balance can never go negative even if callers race.
func (r *WalletRepository) AdjustBalance(ctx context.Context, tx usecase.Transaction, address string, delta decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE wallets
		SET balance = balance + $2, updated_at = $3
		WHERE address = $1 AND balance + $2 >= 0
	`

	tag, err := pgxTx.Exec(ctx, query, address, decimalToNumeric(delta), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrIntegrity
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWallet(row rowScanner) (*domain.Wallet, error) {
	var (
		wallet    domain.Wallet
		balance   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&wallet.Address, &balance, &wallet.PinHash, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	wallet.Balance = numericToDecimal(balance)
	wallet.CreatedAt = createdAt.Time
	wallet.UpdatedAt = updatedAt.Time

	return &wallet, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
