package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/shopspring/decimal"
)

// transferHashTimeFormat renders timestamps in ISO-8601 with millisecond
// precision and a literal Z suffix, the canonical form the hash is defined
// over. Changing it would change every transaction hash.
const transferHashTimeFormat = "2006-01-02T15:04:05.000Z"

// TransactionRecord is an immutable row representing one committed transfer.
// Hash is content-derived and unique across all records; a collision on
// insert is treated as an integrity failure.
type TransactionRecord struct {
	ID          string
	FromAddress string
	ToAddress   string
	Amount      decimal.Decimal
	Hash        string
	CreatedAt   time.Time
}

// ComputeTransferHash derives the deterministic identity of a transfer as the
// hex-encoded SHA-256 digest of sender, recipient, the canonical decimal
// rendering of the amount and the canonical timestamp, concatenated in that
// order. Identical inputs always produce identical output.
func ComputeTransferHash(sender, recipient string, amount decimal.Decimal, ts time.Time) string {
	h := sha256.New()
	h.Write([]byte(sender))
	h.Write([]byte(recipient))
	h.Write([]byte(amount.String()))
	h.Write([]byte(ts.UTC().Format(transferHashTimeFormat)))

	return hex.EncodeToString(h.Sum(nil))
}
