package repository

import (
	"context"
	"errors"

	"github.com/mzeitler/bank-portal/internal/domain/entity"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")

	// ErrTransactionExists is returned when an insert loses the race
	// against a concurrent recording of the same gateway transaction.
	// Callers treat it as success.
	ErrTransactionExists = errors.New("transaction already recorded")
)

//go:generate mockgen -source=repository.go -destination=../../usecase/mocks/repository_mock.go -package=mocks

type ProfileRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.Profile, error)
	Create(ctx context.Context, p *entity.Profile) error
}

type TransactionRepository interface {
	// FindByGatewayID returns (nil, nil) when no record exists.
	FindByGatewayID(ctx context.Context, gatewayTransactionID int64) (*entity.Transaction, error)
	Create(ctx context.Context, t *entity.Transaction) error
	ListByCustomerEmail(ctx context.Context, email string, limit int) ([]*entity.Transaction, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.Transaction, error)
}

// PendingTransferStore keeps pending transfers across the redirect
// boundary, keyed by the gateway reference.
type PendingTransferStore interface {
	Put(ctx context.Context, reference string, t entity.PendingTransfer) error
	// Get returns (nil, nil) when the reference is unknown or expired.
	Get(ctx context.Context, reference string) (*entity.PendingTransfer, error)
	Delete(ctx context.Context, reference string) error
}
