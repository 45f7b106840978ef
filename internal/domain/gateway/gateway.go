package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Session is the result of initializing a payment: where to send the
// browser, and the reference the gateway will echo back on the callback.
type Session struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// VerifiedPayment is the normalized verification result. Amount is in
// major currency units; the wire format's minor units never leave the
// client.
type VerifiedPayment struct {
	TransactionID int64
	Amount        decimal.Decimal
	Currency      string
	Status        string
	Reference     string
	Channel       string
	PaidAt        time.Time
	CustomerEmail string
	CustomerID    int64
}

//go:generate mockgen -source=gateway.go -destination=../../usecase/mocks/gateway_mock.go -package=mocks

type Client interface {
	Initialize(ctx context.Context, email string, amount decimal.Decimal) (*Session, error)
	Verify(ctx context.Context, reference string) (*VerifiedPayment, error)
}

// Error is any failure talking to the gateway: transport errors, non-2xx
// responses, an explicit status:false payload, or a payload missing the
// fields the flow depends on.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateway %s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gateway %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}
