package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/edenv/walletvault/internal/domain"
	"github.com/edenv/walletvault/internal/usecase"
	"github.com/edenv/walletvault/internal/usecase/mocks"
)

const (
	senderAddr    = "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"
	recipientAddr = "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2"
	senderPinHash = "$2a$10$fakehashforsenderwallet000000000000000000000000000000"
)

type engineMocks struct {
	txManager *mocks.MockTransactionManager
	tx        *mocks.MockTransaction
	wallets   *mocks.MockWalletRepository
	logs      *mocks.MockWalletLogRepository
	records   *mocks.MockTransactionRepository
	pins      *mocks.MockPinHasher
	idGen     *mocks.MockIDGenerator
}

func newEngine(t *testing.T) (*usecase.TransferUseCase, engineMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := engineMocks{
		txManager: mocks.NewMockTransactionManager(ctrl),
		tx:        mocks.NewMockTransaction(ctrl),
		wallets:   mocks.NewMockWalletRepository(ctrl),
		logs:      mocks.NewMockWalletLogRepository(ctrl),
		records:   mocks.NewMockTransactionRepository(ctrl),
		pins:      mocks.NewMockPinHasher(ctrl),
		idGen:     mocks.NewMockIDGenerator(ctrl),
	}

	uc := usecase.NewTransferUseCase(m.txManager, m.wallets, m.logs, m.records, m.pins, m.idGen, nil)

	return uc, m
}

func walletWith(address string, balance int64) *domain.Wallet {
	return &domain.Wallet{
		Address: address,
		Balance: decimal.NewFromInt(balance),
		PinHash: senderPinHash,
	}
}

func expectScope(m engineMocks) {
	m.txManager.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
}

func TestTransferFunds_Success(t *testing.T) {
	uc, m := newEngine(t)
	ctx := context.Background()
	amount := decimal.NewFromInt(100)

	expectScope(m)

	m.wallets.EXPECT().
		GetByAddressesForUpdate(gomock.Any(), m.tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, addresses []string) ([]*domain.Wallet, error) {
			// Locks must be requested in lexicographic order.
			require.Len(t, addresses, 2)
			assert.Less(t, addresses[0], addresses[1])

			return []*domain.Wallet{
				walletWith(senderAddr, 1000),
				walletWith(recipientAddr, 500),
			}, nil
		})

	m.pins.EXPECT().Verify("1234", senderPinHash).Return(true, nil)

	m.wallets.EXPECT().
		AdjustBalance(gomock.Any(), m.tx, senderAddr, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, _ string, delta decimal.Decimal, _ time.Time) error {
			assert.True(t, delta.Equal(amount.Neg()), "sender delta must be -amount, got %s", delta)
			return nil
		})

	m.wallets.EXPECT().
		AdjustBalance(gomock.Any(), m.tx, recipientAddr, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, _ string, delta decimal.Decimal, _ time.Time) error {
			assert.True(t, delta.Equal(amount), "recipient delta must be +amount, got %s", delta)
			return nil
		})

	m.idGen.EXPECT().Generate().Return("id-1")
	m.idGen.EXPECT().Generate().Return("id-2")
	m.idGen.EXPECT().Generate().Return("id-3")

	var entries []*domain.WalletLogEntry
	m.logs.EXPECT().
		Create(gomock.Any(), m.tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, e *domain.WalletLogEntry) error {
			entries = append(entries, e)
			return nil
		}).
		Times(2)

	var stored *domain.TransactionRecord
	m.records.EXPECT().
		Create(gomock.Any(), m.tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, r *domain.TransactionRecord) error {
			stored = r
			return nil
		})

	m.tx.EXPECT().Commit(gomock.Any()).Return(nil)

	record, err := uc.TransferFunds(ctx, usecase.TransferInput{
		SenderAddress:    senderAddr,
		RecipientAddress: recipientAddr,
		Amount:           amount,
		Pin:              "1234",
	})
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Same(t, stored, record)

	// Record carries the content-derived hash of its own fields.
	assert.Equal(t, domain.ComputeTransferHash(senderAddr, recipientAddr, amount, record.CreatedAt), record.Hash)
	assert.Equal(t, senderAddr, record.FromAddress)
	assert.Equal(t, recipientAddr, record.ToAddress)
	assert.True(t, record.Amount.Equal(amount))

	// Exactly one debit and one credit, with before/after captured from the
	// locked reads, never re-read.
	require.Len(t, entries, 2)

	debit, credit := entries[0], entries[1]
	assert.Equal(t, domain.OperationDebit, debit.Operation)
	assert.Equal(t, senderAddr, debit.WalletAddress)
	assert.True(t, debit.BalanceBefore.Equal(decimal.NewFromInt(1000)))
	assert.True(t, debit.BalanceAfter.Equal(decimal.NewFromInt(900)))
	require.NoError(t, debit.Validate())

	assert.Equal(t, domain.OperationCredit, credit.Operation)
	assert.Equal(t, recipientAddr, credit.WalletAddress)
	assert.True(t, credit.BalanceBefore.Equal(decimal.NewFromInt(500)))
	assert.True(t, credit.BalanceAfter.Equal(decimal.NewFromInt(600)))
	require.NoError(t, credit.Validate())

	// Conservation: total before == total after.
	totalBefore := debit.BalanceBefore.Add(credit.BalanceBefore)
	totalAfter := debit.BalanceAfter.Add(credit.BalanceAfter)
	assert.True(t, totalBefore.Equal(totalAfter))
}

func TestTransferFunds_SenderNotFound(t *testing.T) {
	uc, m := newEngine(t)

	expectScope(m)

	// Only the recipient exists. No mutation expectations are registered, so
	// any balance adjustment or append would fail the test.
	m.wallets.EXPECT().
		GetByAddressesForUpdate(gomock.Any(), m.tx, gomock.Any()).
		Return([]*domain.Wallet{walletWith(recipientAddr, 500)}, nil)

	_, err := uc.TransferFunds(context.Background(), usecase.TransferInput{
		SenderAddress:    senderAddr,
		RecipientAddress: recipientAddr,
		Amount:           decimal.NewFromInt(100),
		Pin:              "1234",
	})
	require.ErrorIs(t, err, domain.ErrSenderNotFound)
}

func TestTransferFunds_RecipientNotFound(t *testing.T) {
	uc, m := newEngine(t)

	expectScope(m)

	m.wallets.EXPECT().
		GetByAddressesForUpdate(gomock.Any(), m.tx, gomock.Any()).
		Return([]*domain.Wallet{walletWith(senderAddr, 1000)}, nil)

	_, err := uc.TransferFunds(context.Background(), usecase.TransferInput{
		SenderAddress:    senderAddr,
		RecipientAddress: recipientAddr,
		Amount:           decimal.NewFromInt(100),
		Pin:              "1234",
	})
	require.ErrorIs(t, err, domain.ErrRecipientNotFound)
}

func TestTransferFunds_PinMismatch(t *testing.T) {
	uc, m := newEngine(t)

	expectScope(m)

	// Balance is sufficient; the wrong PIN must still reject the transfer
	// before any mutation.
	m.wallets.EXPECT().
		GetByAddressesForUpdate(gomock.Any(), m.tx, gomock.Any()).
		Return([]*domain.Wallet{
			walletWith(senderAddr, 1000),
			walletWith(recipientAddr, 500),
		}, nil)

	m.pins.EXPECT().Verify("9999", senderPinHash).Return(false, nil)

	_, err := uc.TransferFunds(context.Background(), usecase.TransferInput{
		SenderAddress:    senderAddr,
		RecipientAddress: recipientAddr,
		Amount:           decimal.NewFromInt(100),
		Pin:              "9999",
	})
	require.ErrorIs(t, err, domain.ErrPinMismatch)
}

func TestTransferFunds_InsufficientFunds(t *testing.T) {
	uc, m := newEngine(t)

	expectScope(m)

	m.wallets.EXPECT().
		GetByAddressesForUpdate(gomock.Any(), m.tx, gomock.Any()).
		Return([]*domain.Wallet{
			walletWith(senderAddr, 1000),
			walletWith(recipientAddr, 500),
		}, nil)

	m.pins.EXPECT().Verify("1234", senderPinHash).Return(true, nil)

	_, err := uc.TransferFunds(context.Background(), usecase.TransferInput{
		SenderAddress:    senderAddr,
		RecipientAddress: recipientAddr,
		Amount:           decimal.NewFromInt(1500),
		Pin:              "1234",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestTransferFunds_ExistenceCheckedBeforePin(t *testing.T) {
	uc, m := newEngine(t)

	expectScope(m)

	// Recipient missing and PIN wrong: the missing wallet must win. Verify
	// has no expectation registered, so calling it would fail the test.
	m.wallets.EXPECT().
		GetByAddressesForUpdate(gomock.Any(), m.tx, gomock.Any()).
		Return([]*domain.Wallet{walletWith(senderAddr, 1000)}, nil)

	_, err := uc.TransferFunds(context.Background(), usecase.TransferInput{
		SenderAddress:    senderAddr,
		RecipientAddress: recipientAddr,
		Amount:           decimal.NewFromInt(100),
		Pin:              "9999",
	})
	require.ErrorIs(t, err, domain.ErrRecipientNotFound)
}

func TestTransferFunds_InvalidAmount(t *testing.T) {
	uc, _ := newEngine(t)

	// No scope is even opened for a non-positive amount.
	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		_, err := uc.TransferFunds(context.Background(), usecase.TransferInput{
			SenderAddress:    senderAddr,
			RecipientAddress: recipientAddr,
			Amount:           amount,
			Pin:              "1234",
		})
		require.ErrorIs(t, err, domain.ErrInvalidAmount)
	}
}

func TestTransferFunds_FailureIsIdempotent(t *testing.T) {
	uc, m := newEngine(t)

	// Two identical calls on an unchanged store produce the same error kind.
	m.txManager.EXPECT().Begin(gomock.Any()).Return(m.tx, nil).Times(2)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).Times(2)

	m.wallets.EXPECT().
		GetByAddressesForUpdate(gomock.Any(), m.tx, gomock.Any()).
		Return([]*domain.Wallet{walletWith(recipientAddr, 500)}, nil).
		Times(2)

	input := usecase.TransferInput{
		SenderAddress:    senderAddr,
		RecipientAddress: recipientAddr,
		Amount:           decimal.NewFromInt(100),
		Pin:              "1234",
	}

	_, err1 := uc.TransferFunds(context.Background(), input)
	_, err2 := uc.TransferFunds(context.Background(), input)
	require.ErrorIs(t, err1, domain.ErrSenderNotFound)
	require.ErrorIs(t, err2, domain.ErrSenderNotFound)
}

func TestTransferFunds_HashCollisionAborts(t *testing.T) {
	uc, m := newEngine(t)

	expectScope(m)

	m.wallets.EXPECT().
		GetByAddressesForUpdate(gomock.Any(), m.tx, gomock.Any()).
		Return([]*domain.Wallet{
			walletWith(senderAddr, 1000),
			walletWith(recipientAddr, 500),
		}, nil)

	m.pins.EXPECT().Verify("1234", senderPinHash).Return(true, nil)
	m.wallets.EXPECT().AdjustBalance(gomock.Any(), m.tx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	m.idGen.EXPECT().Generate().Return("id").Times(3)
	m.logs.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil).Times(2)

	m.records.EXPECT().
		Create(gomock.Any(), m.tx, gomock.Any()).
		Return(domain.ErrDuplicateHash)

	// Commit has no expectation: the scope must abort.
	_, err := uc.TransferFunds(context.Background(), usecase.TransferInput{
		SenderAddress:    senderAddr,
		RecipientAddress: recipientAddr,
		Amount:           decimal.NewFromInt(100),
		Pin:              "1234",
	})
	require.ErrorIs(t, err, domain.ErrIntegrity)
}

func TestTransferFunds_SelfTransferAllowed(t *testing.T) {
	uc, m := newEngine(t)

	expectScope(m)

	// Sender and recipient are the same wallet: a single lock is taken, the
	// debit and credit net to zero, and both audit rows are still written.
	m.wallets.EXPECT().
		GetByAddressesForUpdate(gomock.Any(), m.tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, addresses []string) ([]*domain.Wallet, error) {
			require.Len(t, addresses, 1)
			return []*domain.Wallet{walletWith(senderAddr, 1000)}, nil
		})

	m.pins.EXPECT().Verify("1234", senderPinHash).Return(true, nil)
	m.wallets.EXPECT().AdjustBalance(gomock.Any(), m.tx, senderAddr, gomock.Any(), gomock.Any()).Return(nil).Times(2)
	m.idGen.EXPECT().Generate().Return("id").Times(3)
	m.logs.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil).Times(2)
	m.records.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil)
	m.tx.EXPECT().Commit(gomock.Any()).Return(nil)

	record, err := uc.TransferFunds(context.Background(), usecase.TransferInput{
		SenderAddress:    senderAddr,
		RecipientAddress: senderAddr,
		Amount:           decimal.NewFromInt(100),
		Pin:              "1234",
	})
	require.NoError(t, err)
	assert.Equal(t, senderAddr, record.FromAddress)
	assert.Equal(t, senderAddr, record.ToAddress)
}

func TestTransferFunds_CommitFailureSurfaces(t *testing.T) {
	uc, m := newEngine(t)

	expectScope(m)

	m.wallets.EXPECT().
		GetByAddressesForUpdate(gomock.Any(), m.tx, gomock.Any()).
		Return([]*domain.Wallet{
			walletWith(senderAddr, 1000),
			walletWith(recipientAddr, 500),
		}, nil)

	m.pins.EXPECT().Verify("1234", senderPinHash).Return(true, nil)
	m.wallets.EXPECT().AdjustBalance(gomock.Any(), m.tx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	m.idGen.EXPECT().Generate().Return("id").Times(3)
	m.logs.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil).Times(2)
	m.records.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil)
	m.tx.EXPECT().Commit(gomock.Any()).Return(context.DeadlineExceeded)

	_, err := uc.TransferFunds(context.Background(), usecase.TransferInput{
		SenderAddress:    senderAddr,
		RecipientAddress: recipientAddr,
		Amount:           decimal.NewFromInt(100),
		Pin:              "1234",
	})
	require.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestTransferFunds_StoreFaultMapsToUnavailable(t *testing.T) {
	uc, m := newEngine(t)

	connRefused := errors.New("failed to connect to 'host=db': connection refused")
	m.txManager.EXPECT().Begin(gomock.Any()).Return(nil, connRefused)

	_, err := uc.TransferFunds(context.Background(), usecase.TransferInput{
		SenderAddress:    senderAddr,
		RecipientAddress: recipientAddr,
		Amount:           decimal.NewFromInt(100),
		Pin:              "1234",
	})
	require.ErrorIs(t, err, domain.ErrUnavailable)
	// Driver text is kept for logs but the type callers branch on is the
	// unavailable sentinel.
	assert.Contains(t, err.Error(), "connection refused")
}

func TestTransferFunds_BusinessOutcomeKeepsItsType(t *testing.T) {
	uc, m := newEngine(t)

	expectScope(m)

	m.wallets.EXPECT().
		GetByAddressesForUpdate(gomock.Any(), m.tx, gomock.Any()).
		Return([]*domain.Wallet{
			walletWith(senderAddr, 10),
			walletWith(recipientAddr, 0),
		}, nil)
	m.pins.EXPECT().Verify("1234", senderPinHash).Return(true, nil)

	_, err := uc.TransferFunds(context.Background(), usecase.TransferInput{
		SenderAddress:    senderAddr,
		RecipientAddress: recipientAddr,
		Amount:           decimal.NewFromInt(100),
		Pin:              "1234",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	require.NotErrorIs(t, err, domain.ErrUnavailable)
}

func TestGetTransaction(t *testing.T) {
	uc, m := newEngine(t)

	want := &domain.TransactionRecord{Hash: "abc123"}
	m.records.EXPECT().GetByHash(gomock.Any(), "abc123").Return(want, nil)

	got, err := uc.GetTransaction(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestListTransactionsByWallet_ClampsLimit(t *testing.T) {
	uc, m := newEngine(t)

	m.records.EXPECT().ListByWallet(gomock.Any(), senderAddr, 20, 0).Return(nil, nil)
	m.records.EXPECT().ListByWallet(gomock.Any(), senderAddr, 100, 0).Return(nil, nil)

	_, err := uc.ListTransactionsByWallet(context.Background(), usecase.ListTransactionsByWalletInput{Address: senderAddr})
	require.NoError(t, err)

	_, err = uc.ListTransactionsByWallet(context.Background(), usecase.ListTransactionsByWalletInput{Address: senderAddr, Limit: 500})
	require.NoError(t, err)
}
