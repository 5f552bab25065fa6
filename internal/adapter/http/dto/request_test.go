package dto

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/edenv/walletvault/internal/domain"
)

const (
	testFromAddress = "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"
	testToAddress   = "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2"
)

func TestCreateTransferRequest_ToUseCaseInput(t *testing.T) {
	tests := []struct {
		name    string
		request *CreateTransferRequest
		wantErr error
	}{
		{
			name: "valid request",
			request: &CreateTransferRequest{
				FromAddress: testFromAddress,
				ToAddress:   testToAddress,
				Amount:      "12.34",
				Pin:         "1234",
			},
		},
		{
			name: "bad sender address",
			request: &CreateTransferRequest{
				FromAddress: "not-an-address",
				ToAddress:   testToAddress,
				Amount:      "10",
				Pin:         "1234",
			},
			wantErr: domain.ErrInvalidAddress,
		},
		{
			name: "bad recipient address",
			request: &CreateTransferRequest{
				FromAddress: testFromAddress,
				ToAddress:   "nope",
				Amount:      "10",
				Pin:         "1234",
			},
			wantErr: domain.ErrInvalidAddress,
		},
		{
			name: "bad pin",
			request: &CreateTransferRequest{
				FromAddress: testFromAddress,
				ToAddress:   testToAddress,
				Amount:      "10",
				Pin:         "12ab",
			},
			wantErr: domain.ErrInvalidPin,
		},
		{
			name: "unparseable amount",
			request: &CreateTransferRequest{
				FromAddress: testFromAddress,
				ToAddress:   testToAddress,
				Amount:      "bad",
				Pin:         "1234",
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "amount below minimum",
			request: &CreateTransferRequest{
				FromAddress: testFromAddress,
				ToAddress:   testToAddress,
				Amount:      "0.5",
				Pin:         "1234",
			},
			wantErr: domain.ErrAmountTooSmall,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.request.ToUseCaseInput()

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.SenderAddress != tt.request.FromAddress || got.RecipientAddress != tt.request.ToAddress {
				t.Fatalf("addresses not mapped: %+v", got)
			}

			if !got.Amount.Equal(decimal.RequireFromString(tt.request.Amount)) {
				t.Fatalf("amount not mapped: %s", got.Amount)
			}

			if got.Pin != tt.request.Pin {
				t.Fatalf("pin not mapped")
			}
		})
	}
}

func TestCreateWalletRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateWalletRequest{
		Address:        testFromAddress,
		Pin:            "1234",
		InitialBalance: "100",
	}

	got, err := req.ToUseCaseInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Address != req.Address || got.Pin != req.Pin || !got.InitialBalance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected input: %+v", got)
	}
}

func TestCreateWalletRequest_DefaultsBalanceToZero(t *testing.T) {
	req := &CreateWalletRequest{Address: testFromAddress, Pin: "1234"}

	got, err := req.ToUseCaseInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !got.InitialBalance.IsZero() {
		t.Fatalf("expected zero balance, got %s", got.InitialBalance)
	}
}

func TestCreateWalletRequest_BadBalance(t *testing.T) {
	req := &CreateWalletRequest{Address: testFromAddress, Pin: "1234", InitialBalance: "lots"}

	if _, err := req.ToUseCaseInput(); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
