package initiatetransfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mzeitler/bank-portal/internal/domain/entity"
	"github.com/mzeitler/bank-portal/internal/domain/gateway"
	"github.com/mzeitler/bank-portal/internal/domain/repository"
)

// ErrValidation marks bad input rejected before any external call.
var ErrValidation = errors.New("invalid transfer request")

type Request struct {
	PayerEmail     string
	RecipientEmail string
	Amount         decimal.Decimal
}

type Response struct {
	AuthorizationURL string
	Reference        string
}

type UseCase struct {
	profiles repository.ProfileRepository
	gateway  gateway.Client
	pending  repository.PendingTransferStore
}

func NewUseCase(profiles repository.ProfileRepository, gw gateway.Client, pending repository.PendingTransferStore) *UseCase {
	return &UseCase{profiles: profiles, gateway: gw, pending: pending}
}

// Execute walks the submit side of a transfer: validate, resolve the
// recipient, open a gateway session, then persist the pending transfer
// keyed by the session reference. The recipient must resolve before any
// gateway call so funds are never directed at an unknown identity. A
// failed initialization leaves no pending transfer behind.
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if _, err := uc.profiles.FindByEmail(ctx, req.RecipientEmail); err != nil {
		return nil, err
	}

	session, err := uc.gateway.Initialize(ctx, req.PayerEmail, req.Amount)
	if err != nil {
		return nil, err
	}

	err = uc.pending.Put(ctx, session.Reference, entity.PendingTransfer{
		RecipientEmail: req.RecipientEmail,
		PayerEmail:     req.PayerEmail,
		Amount:         req.Amount,
		CreatedAt:      time.Now(),
	})
	if err != nil {
		return nil, err
	}

	return &Response{
		AuthorizationURL: session.AuthorizationURL,
		Reference:        session.Reference,
	}, nil
}

func validate(req Request) error {
	if !strings.Contains(req.PayerEmail, "@") {
		return fmt.Errorf("%w: payer email required", ErrValidation)
	}
	if !strings.Contains(req.RecipientEmail, "@") {
		return fmt.Errorf("%w: recipient email required", ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	}
	return nil
}
