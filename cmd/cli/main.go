package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	baseURL string
	timeout time.Duration
)

// bcryptGenerate is swapped out in tests.
var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	rootCmd := &cobra.Command{
		Use:   "walletvault-cli",
		Short: "WalletVault CLI tool",
		Long:  `A command line interface for interacting with the WalletVault API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the WalletVault API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(walletCmd())
	rootCmd.AddCommand(transferCmd())
	rootCmd.AddCommand(txCmd())
	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(hashPinCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func walletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet operations",
	}

	var pin, balance string
	createCmd := &cobra.Command{
		Use:   "create <address>",
		Short: "Provision a new wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/wallets/", map[string]string{
				"address":         args[0],
				"pin":             pin,
				"initial_balance": balance,
			}, "")
		},
	}
	createCmd.Flags().StringVar(&pin, "pin", "", "4-digit wallet PIN")
	createCmd.Flags().StringVar(&balance, "balance", "0", "Initial balance")

	getCmd := &cobra.Command{
		Use:   "get <address>",
		Short: "Show a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/wallets/" + args[0])
		},
	}

	logsCmd := &cobra.Command{
		Use:   "logs <address>",
		Short: "Show the balance-change audit trail of a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/wallets/" + args[0] + "/logs")
		},
	}

	cmd.AddCommand(createCmd, getCmd, logsCmd)
	return cmd
}

func transferCmd() *cobra.Command {
	var from, to, amount, pin, idempotencyKey string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move funds between wallets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/transfers/", map[string]string{
				"from_address": from,
				"to_address":   to,
				"amount":       amount,
				"pin":          pin,
			}, idempotencyKey)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Sender wallet address")
	cmd.Flags().StringVar(&to, "to", "", "Recipient wallet address")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to transfer")
	cmd.Flags().StringVar(&pin, "pin", "", "Sender wallet PIN")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Optional Idempotency-Key header")

	return cmd
}

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Transaction record operations",
	}

	getCmd := &cobra.Command{
		Use:   "get <hash>",
		Short: "Show a transaction by its content hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/transactions/" + args[0])
		},
	}

	listCmd := &cobra.Command{
		Use:   "list <address>",
		Short: "List transactions a wallet took part in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/wallets/" + args[0] + "/transactions")
		},
	}

	cmd.AddCommand(getCmd, listCmd)
	return cmd
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check service readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/ready")
		},
	}
}

func hashPinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-pin <pin>",
		Short: "Hash a PIN the way the service stores it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Println(string(hash))
			return nil
		},
	}
}

func getJSON(path string) error {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func postJSON(path string, payload any, idempotencyKey string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		fmt.Println(string(body))
	} else {
		printJSON(decoded)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render response: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
