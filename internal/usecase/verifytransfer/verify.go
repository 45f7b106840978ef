package verifytransfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/mzeitler/bank-portal/internal/domain/entity"
	"github.com/mzeitler/bank-portal/internal/domain/gateway"
	"github.com/mzeitler/bank-portal/internal/domain/repository"
)

var (
	// ErrMissingReference is returned when the callback route is reached
	// without a reference. No gateway call is made in that case.
	ErrMissingReference = errors.New("payment reference required")

	// ErrPendingNotFound means the gateway confirmed the payment but no
	// pending transfer exists for its reference (expired or never created).
	ErrPendingNotFound = errors.New("no pending transfer for reference")
)

// RecordingError wraps a storage failure that happened after the gateway
// already settled the payment. It must stay distinguishable from a
// verification failure: the money moved, only the local record is
// missing, and operators reconcile that manually.
type RecordingError struct {
	Err error
}

func (e *RecordingError) Error() string {
	return fmt.Sprintf("payment verified but recording failed: %v", e.Err)
}

func (e *RecordingError) Unwrap() error {
	return e.Err
}

type Request struct {
	Reference string
}

type Response struct {
	Transaction *entity.Transaction
	// AlreadyRecorded is true when this verification re-played an earlier
	// one and the stored record was reused.
	AlreadyRecorded bool
}

type UseCase struct {
	gateway      gateway.Client
	pending      repository.PendingTransferStore
	profiles     repository.ProfileRepository
	transactions repository.TransactionRepository
}

func NewUseCase(
	gw gateway.Client,
	pending repository.PendingTransferStore,
	profiles repository.ProfileRepository,
	transactions repository.TransactionRepository,
) *UseCase {
	return &UseCase{gateway: gw, pending: pending, profiles: profiles, transactions: transactions}
}

// Execute walks the callback side: verify the reference with the
// gateway, re-resolve the pending transfer's recipient, and record the
// result exactly once. The pending transfer is deleted only after a
// successful recording; on any failure it stays put so reloading the
// callback URL retries cleanly.
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	if req.Reference == "" {
		return nil, ErrMissingReference
	}

	payment, err := uc.gateway.Verify(ctx, req.Reference)
	if err != nil {
		return nil, err
	}

	pending, err := uc.pending.Get(ctx, req.Reference)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, ErrPendingNotFound
	}

	if _, err := uc.profiles.FindByEmail(ctx, pending.RecipientEmail); err != nil {
		return nil, err
	}

	record, alreadyRecorded, err := uc.recordIfAbsent(ctx, payment, pending.RecipientEmail)
	if err != nil {
		return nil, err
	}

	if err := uc.pending.Delete(ctx, req.Reference); err != nil {
		return nil, err
	}

	return &Response{Transaction: record, AlreadyRecorded: alreadyRecorded}, nil
}

// recordIfAbsent inserts the verified payment unless a record with the
// same gateway transaction id already exists. Verification can run more
// than once for one reference (callback reload, retried request), and an
// insert losing the race to a concurrent one is success, not an error.
func (uc *UseCase) recordIfAbsent(
	ctx context.Context,
	payment *gateway.VerifiedPayment,
	recipientEmail string,
) (*entity.Transaction, bool, error) {
	existing, err := uc.transactions.FindByGatewayID(ctx, payment.TransactionID)
	if err != nil {
		return nil, false, &RecordingError{Err: err}
	}
	if existing != nil {
		return existing, true, nil
	}

	record := entity.NewTransaction(
		payment.TransactionID,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.CustomerEmail,
		payment.CustomerID,
		entity.Metadata{
			RecipientEmail: recipientEmail,
			Reference:      payment.Reference,
			Channel:        payment.Channel,
			PaidAt:         payment.PaidAt,
		},
	)

	switch err := uc.transactions.Create(ctx, record); {
	case err == nil:
		return record, false, nil
	case errors.Is(err, repository.ErrTransactionExists):
		return record, true, nil
	default:
		return nil, false, &RecordingError{Err: err}
	}
}
