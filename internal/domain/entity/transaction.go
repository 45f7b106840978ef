package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Metadata carries the transfer context the gateway itself does not know
// about, stored alongside the record.
type Metadata struct {
	RecipientEmail string    `json:"recipient_email"`
	Reference      string    `json:"reference"`
	Channel        string    `json:"channel"`
	PaidAt         time.Time `json:"paid_at"`
}

// Transaction is one successfully verified payment. The gateway
// transaction id is the natural idempotency key: at most one Transaction
// exists per gateway id, and a record is never mutated after insert.
type Transaction struct {
	id                   uuid.UUID
	gatewayTransactionID int64
	amount               decimal.Decimal
	currency             string
	status               string
	customerEmail        string
	customerID           int64
	metadata             Metadata
	createdAt            time.Time
}

func NewTransaction(
	gatewayTransactionID int64,
	amount decimal.Decimal,
	currency, status, customerEmail string,
	customerID int64,
	metadata Metadata,
) *Transaction {
	return &Transaction{
		id:                   uuid.New(),
		gatewayTransactionID: gatewayTransactionID,
		amount:               amount,
		currency:             currency,
		status:               status,
		customerEmail:        customerEmail,
		customerID:           customerID,
		metadata:             metadata,
		createdAt:            time.Now(),
	}
}

func ReconstructTransaction(
	id uuid.UUID,
	gatewayTransactionID int64,
	amount decimal.Decimal,
	currency, status, customerEmail string,
	customerID int64,
	metadata Metadata,
	createdAt time.Time,
) *Transaction {
	return &Transaction{
		id:                   id,
		gatewayTransactionID: gatewayTransactionID,
		amount:               amount,
		currency:             currency,
		status:               status,
		customerEmail:        customerEmail,
		customerID:           customerID,
		metadata:             metadata,
		createdAt:            createdAt,
	}
}

func (t *Transaction) ID() uuid.UUID {
	return t.id
}

func (t *Transaction) GatewayTransactionID() int64 {
	return t.gatewayTransactionID
}

func (t *Transaction) Amount() decimal.Decimal {
	return t.amount
}

func (t *Transaction) Currency() string {
	return t.currency
}

func (t *Transaction) Status() string {
	return t.status
}

func (t *Transaction) CustomerEmail() string {
	return t.customerEmail
}

func (t *Transaction) CustomerID() int64 {
	return t.customerID
}

func (t *Transaction) Metadata() Metadata {
	return t.metadata
}

func (t *Transaction) CreatedAt() time.Time {
	return t.createdAt
}
