package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mzeitler/bank-portal/internal/domain/entity"
	"github.com/mzeitler/bank-portal/internal/domain/repository"
)

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) FindByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	var (
		id            uuid.UUID
		fullName      string
		accountNumber string
		createdAt     time.Time
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, full_name, account_number, created_at FROM bank_profiles WHERE email = $1`,
		email,
	).Scan(&id, &fullName, &accountNumber, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return entity.ReconstructProfile(id, email, fullName, accountNumber, createdAt), nil
}

func (r *ProfileRepo) Create(ctx context.Context, p *entity.Profile) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO bank_profiles (id, email, full_name, account_number, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID(), p.Email(), p.FullName(), p.AccountNumber(), p.CreatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrProfileExists
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

type TransactionRepo struct {
	pool *pgxpool.Pool
}

func NewTransactionRepo(pool *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `id, gateway_transaction_id, amount::text, currency, status,
customer_email, customer_id, metadata, created_at`

func (r *TransactionRepo) FindByGatewayID(ctx context.Context, gatewayTransactionID int64) (*entity.Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE gateway_transaction_id = $1`,
		gatewayTransactionID,
	)
	t, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	meta, err := json.Marshal(t.Metadata())
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO transactions
		 (id, gateway_transaction_id, amount, currency, status, customer_email, customer_id, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID(), t.GatewayTransactionID(), t.Amount().String(), t.Currency(), t.Status(),
		t.CustomerEmail(), t.CustomerID(), meta, t.CreatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrTransactionExists
		}
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepo) ListByCustomerEmail(ctx context.Context, email string, limit int) ([]*entity.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE customer_email = $1 ORDER BY created_at DESC LIMIT $2`,
		email, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *TransactionRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var (
		id            uuid.UUID
		gatewayID     int64
		amountText    string
		currency      string
		status        string
		customerEmail string
		customerID    int64
		metaRaw       []byte
		createdAt     time.Time
	)
	if err := row.Scan(&id, &gatewayID, &amountText, &currency, &status,
		&customerEmail, &customerID, &metaRaw, &createdAt); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(amountText)
	if err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}
	var meta entity.Metadata
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}

	return entity.ReconstructTransaction(id, gatewayID, amount, currency, status,
		customerEmail, customerID, meta, createdAt), nil
}

func collectTransactions(rows pgx.Rows) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
