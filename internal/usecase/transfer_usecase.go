package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edenv/walletvault/internal/domain"
)

// defaultScopeTimeout bounds one transfer attempt end-to-end so no store
// operation can block indefinitely.
const defaultScopeTimeout = 30 * time.Second

// TransferUseCase is the fund-transfer engine. It drives the wallet store,
// the audit log and the transaction record store within one atomic scope per
// call: either the debit, the credit, both log entries and the record all
// commit, or none of them do.
type TransferUseCase struct {
	txManager TransactionManager
	wallets   WalletRepository
	logs      WalletLogRepository
	records   TransactionRepository
	pins      PinHasher
	idGen     IDGenerator
	retrier   Retrier
	timeout   time.Duration
}

// NewTransferUseCase creates a new TransferUseCase. retrier may be nil, in
// which case transient store conflicts surface to the caller after a single
// attempt.
func NewTransferUseCase(
	txManager TransactionManager,
	wallets WalletRepository,
	logs WalletLogRepository,
	records TransactionRepository,
	pins PinHasher,
	idGen IDGenerator,
	retrier Retrier,
) *TransferUseCase {
	return &TransferUseCase{
		txManager: txManager,
		wallets:   wallets,
		logs:      logs,
		records:   records,
		pins:      pins,
		idGen:     idGen,
		retrier:   retrier,
		timeout:   defaultScopeTimeout,
	}
}

// WithTimeout overrides the per-attempt scope timeout.
func (uc *TransferUseCase) WithTimeout(timeout time.Duration) *TransferUseCase {
	if timeout > 0 {
		uc.timeout = timeout
	}

	return uc
}

// TransferInput represents one transfer request.
type TransferInput struct {
	SenderAddress    string
	RecipientAddress string
	Amount           decimal.Decimal
	Pin              string
}

// TransferFunds moves Amount from the sender wallet to the recipient wallet.
// Errors are terminal for the attempt: nothing is retried internally except
// transient lock conflicts, which are re-run before any mutation commits.
//
// Sender and recipient may be the same address; the debit and credit then net
// to zero and both audit rows are still written.
func (uc *TransferUseCase) TransferFunds(ctx context.Context, input TransferInput) (*domain.TransactionRecord, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	var record *domain.TransactionRecord

	attempt := func() error {
		var err error

		record, err = uc.transferOnce(ctx, input)

		return err
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, attempt)
	} else {
		err = attempt()
	}

	if err != nil {
		return nil, mapStoreError(err)
	}

	return record, nil
}

// transferOnce runs one attempt inside a fresh transaction scope. The
// deferred Rollback is a no-op once Commit has succeeded, so every exit path
// releases the scope.
func (uc *TransferUseCase) transferOnce(ctx context.Context, input TransferInput) (*domain.TransactionRecord, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transfer scope: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock wallets in lexicographic address order so two transfers crossing
	// the same pair in opposite directions cannot deadlock.
	addresses := uniqueSorted(input.SenderAddress, input.RecipientAddress)

	wallets, err := uc.wallets.GetByAddressesForUpdate(ctx, tx, addresses)
	if err != nil {
		return nil, err
	}

	walletsByAddress := make(map[string]*domain.Wallet, len(wallets))
	for _, w := range wallets {
		walletsByAddress[w.Address] = w
	}

	// Existence is checked before authentication: a missing wallet wins over
	// a wrong PIN.
	sender := walletsByAddress[input.SenderAddress]
	if sender == nil {
		return nil, domain.ErrSenderNotFound
	}

	recipient := walletsByAddress[input.RecipientAddress]
	if recipient == nil {
		return nil, domain.ErrRecipientNotFound
	}

	ok, err := uc.pins.Verify(input.Pin, sender.PinHash)
	if err != nil {
		return nil, fmt.Errorf("verify pin: %w", err)
	}

	if !ok {
		return nil, domain.ErrPinMismatch
	}

	if !sender.CanDebit(input.Amount) {
		return nil, domain.ErrInsufficientFunds
	}

	// Balances captured from the locked rows; they stay valid through commit
	// because the row locks are held until the scope ends.
	senderBalanceBefore := sender.Balance
	recipientBalanceBefore := recipient.Balance

	now := time.Now().UTC()

	if err := uc.wallets.AdjustBalance(ctx, tx, input.SenderAddress, input.Amount.Neg(), now); err != nil {
		return nil, err
	}

	if err := uc.wallets.AdjustBalance(ctx, tx, input.RecipientAddress, input.Amount, now); err != nil {
		return nil, err
	}

	debit := &domain.WalletLogEntry{
		ID:            uc.idGen.Generate(),
		WalletAddress: input.SenderAddress,
		Operation:     domain.OperationDebit,
		Amount:        input.Amount,
		BalanceBefore: senderBalanceBefore,
		BalanceAfter:  senderBalanceBefore.Sub(input.Amount),
		CreatedAt:     now,
	}

	if err := uc.logs.Create(ctx, tx, debit); err != nil {
		return nil, err
	}

	credit := &domain.WalletLogEntry{
		ID:            uc.idGen.Generate(),
		WalletAddress: input.RecipientAddress,
		Operation:     domain.OperationCredit,
		Amount:        input.Amount,
		BalanceBefore: recipientBalanceBefore,
		BalanceAfter:  recipientBalanceBefore.Add(input.Amount),
		CreatedAt:     now,
	}

	if err := uc.logs.Create(ctx, tx, credit); err != nil {
		return nil, err
	}

	timestamp := time.Now().UTC()
	record := &domain.TransactionRecord{
		ID:          uc.idGen.Generate(),
		FromAddress: input.SenderAddress,
		ToAddress:   input.RecipientAddress,
		Amount:      input.Amount,
		Hash:        domain.ComputeTransferHash(input.SenderAddress, input.RecipientAddress, input.Amount, timestamp),
		CreatedAt:   timestamp,
	}

	if err := uc.records.Create(ctx, tx, record); err != nil {
		if errors.Is(err, domain.ErrDuplicateHash) {
			return nil, fmt.Errorf("%w: transaction hash collision on %s", domain.ErrIntegrity, record.Hash)
		}

		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transfer scope: %w", err)
	}

	return record, nil
}

// GetTransaction retrieves a committed transfer record by its hash.
func (uc *TransferUseCase) GetTransaction(ctx context.Context, hash string) (*domain.TransactionRecord, error) {
	return uc.records.GetByHash(ctx, hash)
}

// ListTransactionsByWalletInput represents input for listing transactions.
type ListTransactionsByWalletInput struct {
	Address string
	Limit   int
	Offset  int
}

// ListTransactionsByWallet lists transfer records a wallet took part in,
// either side.
func (uc *TransferUseCase) ListTransactionsByWallet(ctx context.Context, input ListTransactionsByWalletInput) ([]*domain.TransactionRecord, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.records.ListByWallet(ctx, input.Address, input.Limit, input.Offset)
}

func uniqueSorted(addresses ...string) []string {
	seen := make(map[string]bool, len(addresses))

	var unique []string
	for _, a := range addresses {
		if !seen[a] {
			seen[a] = true
			unique = append(unique, a)
		}
	}

	sort.Strings(unique)

	return unique
}

// terminalOutcomes are the engine's business results. Anything a store
// attempt surfaces outside this set is an infrastructure fault.
var terminalOutcomes = []error{
	domain.ErrSenderNotFound,
	domain.ErrRecipientNotFound,
	domain.ErrPinMismatch,
	domain.ErrInsufficientFunds,
	domain.ErrInvalidAmount,
	domain.ErrIntegrity,
	domain.ErrDuplicateHash,
	domain.ErrUnavailable,
}

// mapStoreError passes business outcomes through with their original type
// and folds everything else, context expiry and raw store faults alike, into
// the unavailable class so driver internals never reach callers.
func mapStoreError(err error) error {
	for _, outcome := range terminalOutcomes {
		if errors.Is(err, outcome) {
			return err
		}
	}

	return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
}
