package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mzeitler/bank-portal/internal/domain/entity"
	"github.com/mzeitler/bank-portal/internal/domain/gateway"
	"github.com/mzeitler/bank-portal/internal/domain/repository"
	"github.com/mzeitler/bank-portal/internal/infrastructure/metrics"
	"github.com/mzeitler/bank-portal/internal/usecase/initiatetransfer"
	"github.com/mzeitler/bank-portal/internal/usecase/listtransactions"
	"github.com/mzeitler/bank-portal/internal/usecase/registerprofile"
	"github.com/mzeitler/bank-portal/internal/usecase/verifytransfer"
)

type TransferInitiator interface {
	Execute(ctx context.Context, req initiatetransfer.Request) (*initiatetransfer.Response, error)
}

type TransferVerifier interface {
	Execute(ctx context.Context, req verifytransfer.Request) (*verifytransfer.Response, error)
}

type TransactionLister interface {
	Execute(ctx context.Context, req listtransactions.Request) ([]*entity.Transaction, error)
}

type ProfileRegistrar interface {
	Execute(ctx context.Context, req registerprofile.Request) (*registerprofile.Response, error)
}

type Handler struct {
	initiate TransferInitiator
	verify   TransferVerifier
	list     TransactionLister
	register ProfileRegistrar
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func NewHandler(
	initiate TransferInitiator,
	verify TransferVerifier,
	list TransactionLister,
	register ProfileRegistrar,
	logger *zap.Logger,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		initiate: initiate,
		verify:   verify,
		list:     list,
		register: register,
		logger:   logger,
		metrics:  m,
	}
}

type transferRequest struct {
	PayerEmail     string          `json:"payer_email"`
	RecipientEmail string          `json:"recipient_email"`
	Amount         decimal.Decimal `json:"amount"`
}

type transferResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

func (h *Handler) HandleInitiateTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	resp, err := h.initiate.Execute(r.Context(), initiatetransfer.Request{
		PayerEmail:     req.PayerEmail,
		RecipientEmail: req.RecipientEmail,
		Amount:         req.Amount,
	})
	if err != nil {
		h.writeInitiateError(w, err)
		return
	}

	h.metrics.TransfersInitiated.Inc()
	writeJSON(w, http.StatusOK, transferResponse{
		AuthorizationURL: resp.AuthorizationURL,
		Reference:        resp.Reference,
	})
}

func (h *Handler) writeInitiateError(w http.ResponseWriter, err error) {
	var gwErr *gateway.Error
	switch {
	case errors.Is(err, initiatetransfer.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation", err.Error())
	case errors.Is(err, repository.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "recipient_not_found", "recipient not found in our system")
	case errors.As(err, &gwErr):
		h.logger.Error("payment initialization failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "gateway", "failed to initialize payment")
	default:
		h.logger.Error("transfer initiation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

type verifyResponse struct {
	Status          string           `json:"status"`
	AlreadyRecorded bool             `json:"already_recorded"`
	Transaction     *transactionView `json:"transaction"`
}

func (h *Handler) HandleVerifyTransfer(w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("reference")

	resp, err := h.verify.Execute(r.Context(), verifytransfer.Request{Reference: reference})
	if err != nil {
		h.writeVerifyError(w, err)
		return
	}

	result := metrics.ResultRecorded
	if resp.AlreadyRecorded {
		result = metrics.ResultDuplicate
	}
	h.metrics.Verifications.WithLabelValues(result).Inc()

	writeJSON(w, http.StatusOK, verifyResponse{
		Status:          "success",
		AlreadyRecorded: resp.AlreadyRecorded,
		Transaction:     newTransactionView(resp.Transaction),
	})
}

func (h *Handler) writeVerifyError(w http.ResponseWriter, err error) {
	h.metrics.Verifications.WithLabelValues(metrics.ResultFailed).Inc()

	var (
		gwErr  *gateway.Error
		recErr *verifytransfer.RecordingError
	)
	switch {
	case errors.Is(err, verifytransfer.ErrMissingReference):
		writeError(w, http.StatusBadRequest, "missing_reference", "no payment reference found")
	case errors.Is(err, verifytransfer.ErrPendingNotFound):
		writeError(w, http.StatusUnprocessableEntity, "pending_not_found", "no pending transfer found for this payment")
	case errors.Is(err, repository.ErrProfileNotFound):
		writeError(w, http.StatusUnprocessableEntity, "recipient_not_found", "recipient not found in our system")
	case errors.As(err, &recErr):
		// The gateway settled this payment; only the local record is
		// missing. Operators reconcile these by gateway transaction id.
		h.logger.Error("verified payment could not be recorded", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "verified_unrecorded",
			"payment was verified but could not be recorded; contact support")
	case errors.As(err, &gwErr):
		h.logger.Error("payment verification failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "gateway", "payment verification failed")
	default:
		h.logger.Error("transfer verification failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (h *Handler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	list, err := h.list.Execute(r.Context(), listtransactions.Request{
		CustomerEmail: r.URL.Query().Get("email"),
	})
	if err != nil {
		h.logger.Error("listing transactions failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	views := make([]*transactionView, 0, len(list))
	for _, t := range list {
		views = append(views, newTransactionView(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": views})
}

type profileRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type profileView struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	AccountNumber string    `json:"account_number"`
	CreatedAt     time.Time `json:"created_at"`
}

func (h *Handler) HandleRegisterProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	resp, err := h.register.Execute(r.Context(), registerprofile.Request{
		Email:    req.Email,
		FullName: req.FullName,
	})
	switch {
	case err == nil:
	case errors.Is(err, registerprofile.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation", err.Error())
		return
	case errors.Is(err, repository.ErrProfileExists):
		writeError(w, http.StatusConflict, "profile_exists", "a profile with this email already exists")
		return
	default:
		h.logger.Error("profile registration failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	p := resp.Profile
	writeJSON(w, http.StatusCreated, profileView{
		ID:            p.ID().String(),
		Email:         p.Email(),
		FullName:      p.FullName(),
		AccountNumber: p.AccountNumber(),
		CreatedAt:     p.CreatedAt(),
	})
}

func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type transactionView struct {
	ID                   string          `json:"id"`
	GatewayTransactionID int64           `json:"gateway_transaction_id"`
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency"`
	Status               string          `json:"status"`
	CustomerEmail        string          `json:"customer_email"`
	CustomerID           int64           `json:"customer_id"`
	Metadata             entity.Metadata `json:"metadata"`
	CreatedAt            time.Time       `json:"created_at"`
}

func newTransactionView(t *entity.Transaction) *transactionView {
	if t == nil {
		return nil
	}
	return &transactionView{
		ID:                   t.ID().String(),
		GatewayTransactionID: t.GatewayTransactionID(),
		Amount:               t.Amount(),
		Currency:             t.Currency(),
		Status:               t.Status(),
		CustomerEmail:        t.CustomerEmail(),
		CustomerID:           t.CustomerID(),
		Metadata:             t.Metadata(),
		CreatedAt:            t.CreatedAt(),
	}
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Code: code, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
