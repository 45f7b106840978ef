package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingTransfer holds the recipient side of a transfer across the
// redirect boundary, keyed by the gateway reference. It is written when a
// payment is initiated and deleted exactly once, on successful
// verification; failed verifications leave it in place until its TTL
// expires so the callback can be retried.
type PendingTransfer struct {
	RecipientEmail string          `json:"recipient_email"`
	PayerEmail     string          `json:"payer_email"`
	Amount         decimal.Decimal `json:"amount"`
	CreatedAt      time.Time       `json:"created_at"`
}
