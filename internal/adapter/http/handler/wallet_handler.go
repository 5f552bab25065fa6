package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edenv/walletvault/internal/adapter/http/dto"
	"github.com/edenv/walletvault/internal/domain"
	"github.com/edenv/walletvault/internal/infrastructure/metrics"
	"github.com/edenv/walletvault/internal/usecase"
)

// WalletService is the use case surface the wallet handler needs.
type WalletService interface {
	CreateWallet(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error)
	GetWallet(ctx context.Context, address string) (*domain.Wallet, error)
	ListLogsByWallet(ctx context.Context, input usecase.ListLogsByWalletInput) ([]*domain.WalletLogEntry, error)
}

// WalletHandler handles wallet-related HTTP requests.
type WalletHandler struct {
	walletUC WalletService
	metrics  *metrics.Metrics
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletUC WalletService) *WalletHandler {
	return &WalletHandler{walletUC: walletUC}
}

// WithMetrics enables wallet instrumentation.
func (h *WalletHandler) WithMetrics(m *metrics.Metrics) *WalletHandler {
	h.metrics = m
	return h
}

// Create provisions a new wallet.
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, mapDomainError(err), "invalid wallet request", err.Error())
		return
	}

	wallet, err := h.walletUC.CreateWallet(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create wallet", err.Error())

		return
	}

	if h.metrics != nil {
		h.metrics.WalletsCreated.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.WalletFromDomain(wallet))
}

// Get retrieves a wallet by address.
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if address == "" {
		writeError(w, http.StatusBadRequest, "missing wallet address", "")
		return
	}

	wallet, err := h.walletUC.GetWallet(r.Context(), address)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get wallet", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}

// ListLogs lists the balance-change audit trail of a wallet.
func (h *WalletHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if address == "" {
		writeError(w, http.StatusBadRequest, "missing wallet address", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	entries, err := h.walletUC.ListLogsByWallet(r.Context(), usecase.ListLogsByWalletInput{
		Address: address,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list wallet logs", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletLogsFromDomain(entries))
}
