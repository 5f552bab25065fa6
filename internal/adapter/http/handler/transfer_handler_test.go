package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/edenv/walletvault/internal/adapter/http/dto"
	"github.com/edenv/walletvault/internal/domain"
	"github.com/edenv/walletvault/internal/usecase"
)

const (
	testSenderAddr    = "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"
	testRecipientAddr = "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2"
)

type transferServiceStub struct {
	transferFn func(ctx context.Context, input usecase.TransferInput) (*domain.TransactionRecord, error)
	getFn      func(ctx context.Context, hash string) (*domain.TransactionRecord, error)
	listFn     func(ctx context.Context, input usecase.ListTransactionsByWalletInput) ([]*domain.TransactionRecord, error)
}

func (s *transferServiceStub) TransferFunds(ctx context.Context, input usecase.TransferInput) (*domain.TransactionRecord, error) {
	return s.transferFn(ctx, input)
}

func (s *transferServiceStub) GetTransaction(ctx context.Context, hash string) (*domain.TransactionRecord, error) {
	return s.getFn(ctx, hash)
}

func (s *transferServiceStub) ListTransactionsByWallet(ctx context.Context, input usecase.ListTransactionsByWalletInput) ([]*domain.TransactionRecord, error) {
	return s.listFn(ctx, input)
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func validTransferBody(t *testing.T) []byte {
	t.Helper()

	body, err := json.Marshal(dto.CreateTransferRequest{
		FromAddress: testSenderAddr,
		ToAddress:   testRecipientAddr,
		Amount:      "100",
		Pin:         "1234",
	})
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	return body
}

func TestTransferHandler_Create_Success(t *testing.T) {
	record := &domain.TransactionRecord{
		ID:          "tx-1",
		FromAddress: testSenderAddr,
		ToAddress:   testRecipientAddr,
		Amount:      decimal.NewFromInt(100),
		Hash:        "abc123",
	}

	var captured usecase.TransferInput
	handler := NewTransferHandler(&transferServiceStub{
		transferFn: func(ctx context.Context, input usecase.TransferInput) (*domain.TransactionRecord, error) {
			captured = input
			return record, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(validTransferBody(t)))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.SenderAddress != testSenderAddr || captured.RecipientAddress != testRecipientAddr {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.TransferResultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Transfer successful" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	if resp.Transaction == nil || resp.Transaction.Hash != "abc123" {
		t.Fatalf("unexpected transaction in response: %+v", resp.Transaction)
	}
}

func TestTransferHandler_Create_InvalidBody(t *testing.T) {
	handler := NewTransferHandler(&transferServiceStub{
		transferFn: func(ctx context.Context, input usecase.TransferInput) (*domain.TransactionRecord, error) {
			t.Fatal("TransferFunds should not be called")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewBufferString("{bad json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransferHandler_Create_InvalidAddress(t *testing.T) {
	handler := NewTransferHandler(&transferServiceStub{
		transferFn: func(ctx context.Context, input usecase.TransferInput) (*domain.TransactionRecord, error) {
			t.Fatal("TransferFunds should not be called on invalid address")
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.CreateTransferRequest{
		FromAddress: "nope",
		ToAddress:   testRecipientAddr,
		Amount:      "10",
		Pin:         "1234",
	})
	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransferHandler_Create_DomainErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"sender not found", domain.ErrSenderNotFound, http.StatusNotFound},
		{"recipient not found", domain.ErrRecipientNotFound, http.StatusNotFound},
		{"pin mismatch", domain.ErrPinMismatch, http.StatusConflict},
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusBadRequest},
		{"store unavailable", domain.ErrUnavailable, http.StatusServiceUnavailable},
		{"integrity violation", domain.ErrIntegrity, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			handler := NewTransferHandler(&transferServiceStub{
				transferFn: func(ctx context.Context, input usecase.TransferInput) (*domain.TransactionRecord, error) {
					return nil, tt.err
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(validTransferBody(t)))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

func TestTransferHandler_Get(t *testing.T) {
	handler := NewTransferHandler(&transferServiceStub{
		getFn: func(ctx context.Context, hash string) (*domain.TransactionRecord, error) {
			return &domain.TransactionRecord{ID: "tx-1", Hash: hash}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/transactions/abc123", nil)
	req = setChiURLParam(req, "hash", "abc123")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestTransferHandler_Get_NotFound(t *testing.T) {
	handler := NewTransferHandler(&transferServiceStub{
		getFn: func(ctx context.Context, hash string) (*domain.TransactionRecord, error) {
			return nil, domain.ErrTransactionNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/transactions/missing", nil)
	req = setChiURLParam(req, "hash", "missing")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTransferHandler_ListByWallet(t *testing.T) {
	handler := NewTransferHandler(&transferServiceStub{
		listFn: func(ctx context.Context, input usecase.ListTransactionsByWalletInput) ([]*domain.TransactionRecord, error) {
			if input.Address != testSenderAddr || input.Limit != 5 || input.Offset != 1 {
				t.Fatalf("unexpected input %+v", input)
			}
			return []*domain.TransactionRecord{{ID: "tx-1"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/wallets/"+testSenderAddr+"/transactions?limit=5&offset=1", nil)
	req = setChiURLParam(req, "address", testSenderAddr)
	rec := httptest.NewRecorder()

	handler.ListByWallet(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
