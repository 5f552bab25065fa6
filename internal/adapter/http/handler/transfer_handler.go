package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edenv/walletvault/internal/adapter/http/dto"
	"github.com/edenv/walletvault/internal/domain"
	"github.com/edenv/walletvault/internal/infrastructure/metrics"
	"github.com/edenv/walletvault/internal/usecase"
)

// TransferService is the engine surface the transfer handler needs.
type TransferService interface {
	TransferFunds(ctx context.Context, input usecase.TransferInput) (*domain.TransactionRecord, error)
	GetTransaction(ctx context.Context, hash string) (*domain.TransactionRecord, error)
	ListTransactionsByWallet(ctx context.Context, input usecase.ListTransactionsByWalletInput) ([]*domain.TransactionRecord, error)
}

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC TransferService
	metrics    *metrics.Metrics
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService) *TransferHandler {
	return &TransferHandler{transferUC: transferUC}
}

// WithMetrics enables transfer instrumentation.
func (h *TransferHandler) WithMetrics(m *metrics.Metrics) *TransferHandler {
	h.metrics = m
	return h
}

// Create executes a transfer between two wallets.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, mapDomainError(err), "invalid transfer request", err.Error())
		return
	}

	start := time.Now()

	record, err := h.transferUC.TransferFunds(r.Context(), input)
	if err != nil {
		if h.metrics != nil {
			h.metrics.TransferErrors.WithLabelValues(errorLabel(err)).Inc()
		}

		status := mapDomainError(err)
		writeError(w, status, "transfer failed", err.Error())

		return
	}

	if h.metrics != nil {
		h.metrics.TransfersCompleted.Inc()
		h.metrics.TransferDuration.Observe(time.Since(start).Seconds())
		h.metrics.TransferAmount.Observe(input.Amount.InexactFloat64())
		h.metrics.WalletOperations.WithLabelValues(string(domain.OperationDebit)).Inc()
		h.metrics.WalletOperations.WithLabelValues(string(domain.OperationCredit)).Inc()
	}

	writeJSON(w, http.StatusCreated, dto.TransferResultResponse{
		Message:     "Transfer successful",
		Transaction: dto.TransactionFromDomain(record),
	})
}

// Get retrieves a transaction record by its content hash.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	if hash == "" {
		writeError(w, http.StatusBadRequest, "missing transaction hash", "")
		return
	}

	record, err := h.transferUC.GetTransaction(r.Context(), hash)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get transaction", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(record))
}

// ListByWallet lists transactions where the wallet is sender or recipient.
func (h *TransferHandler) ListByWallet(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if address == "" {
		writeError(w, http.StatusBadRequest, "missing wallet address", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	records, err := h.transferUC.ListTransactionsByWallet(r.Context(), usecase.ListTransactionsByWalletInput{
		Address: address,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(records))
}
