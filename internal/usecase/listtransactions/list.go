package listtransactions

import (
	"context"

	"github.com/mzeitler/bank-portal/internal/domain/entity"
	"github.com/mzeitler/bank-portal/internal/domain/repository"
)

const defaultLimit = 50

type Request struct {
	// CustomerEmail filters to one payer; empty lists the most recent
	// transactions across all payers (back-office view).
	CustomerEmail string
	Limit         int
}

type UseCase struct {
	transactions repository.TransactionRepository
}

func NewUseCase(transactions repository.TransactionRepository) *UseCase {
	return &UseCase{transactions: transactions}
}

func (uc *UseCase) Execute(ctx context.Context, req Request) ([]*entity.Transaction, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if req.CustomerEmail == "" {
		return uc.transactions.ListRecent(ctx, limit)
	}
	return uc.transactions.ListByCustomerEmail(ctx, req.CustomerEmail, limit)
}
