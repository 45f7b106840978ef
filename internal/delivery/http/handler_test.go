package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httpdelivery "github.com/mzeitler/bank-portal/internal/delivery/http"
	"github.com/mzeitler/bank-portal/internal/domain/entity"
	"github.com/mzeitler/bank-portal/internal/domain/gateway"
	"github.com/mzeitler/bank-portal/internal/domain/repository"
	"github.com/mzeitler/bank-portal/internal/infrastructure/metrics"
	"github.com/mzeitler/bank-portal/internal/usecase/initiatetransfer"
	"github.com/mzeitler/bank-portal/internal/usecase/listtransactions"
	"github.com/mzeitler/bank-portal/internal/usecase/registerprofile"
	"github.com/mzeitler/bank-portal/internal/usecase/verifytransfer"
)

type stubInitiator struct {
	resp *initiatetransfer.Response
	err  error
}

func (s stubInitiator) Execute(context.Context, initiatetransfer.Request) (*initiatetransfer.Response, error) {
	return s.resp, s.err
}

type stubVerifier struct {
	resp *verifytransfer.Response
	err  error
}

func (s stubVerifier) Execute(context.Context, verifytransfer.Request) (*verifytransfer.Response, error) {
	return s.resp, s.err
}

type stubLister struct {
	list []*entity.Transaction
	err  error
}

func (s stubLister) Execute(context.Context, listtransactions.Request) ([]*entity.Transaction, error) {
	return s.list, s.err
}

type stubRegistrar struct {
	resp *registerprofile.Response
	err  error
}

func (s stubRegistrar) Execute(context.Context, registerprofile.Request) (*registerprofile.Response, error) {
	return s.resp, s.err
}

func newTestRouter(initiate httpdelivery.TransferInitiator, verify httpdelivery.TransferVerifier,
	list httpdelivery.TransactionLister, register httpdelivery.ProfileRegistrar) http.Handler {
	h := httpdelivery.NewHandler(initiate, verify, list, register,
		zap.NewNop(), metrics.New(prometheus.NewRegistry()))
	return httpdelivery.NewRouter(h)
}

func TestHandleInitiateTransfer_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		stub           stubInitiator
		expectedStatus int
		expectedSubstr string
	}{
		{
			name: "success",
			body: `{"payer_email":"a@x.com","recipient_email":"b@x.com","amount":100}`,
			stub: stubInitiator{resp: &initiatetransfer.Response{
				AuthorizationURL: "https://checkout.test/abc",
				Reference:        "ref123",
			}},
			expectedStatus: http.StatusOK,
			expectedSubstr: `"authorization_url":"https://checkout.test/abc"`,
		},
		{
			name:           "invalid json",
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"invalid_json"`,
		},
		{
			name:           "validation error",
			body:           `{"payer_email":"a@x.com","recipient_email":"b@x.com","amount":0}`,
			stub:           stubInitiator{err: initiatetransfer.ErrValidation},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "recipient not found",
			body:           `{"payer_email":"a@x.com","recipient_email":"ghost@nowhere.test","amount":100}`,
			stub:           stubInitiator{err: repository.ErrProfileNotFound},
			expectedStatus: http.StatusNotFound,
			expectedSubstr: `"recipient_not_found"`,
		},
		{
			name:           "gateway error",
			body:           `{"payer_email":"a@x.com","recipient_email":"b@x.com","amount":100}`,
			stub:           stubInitiator{err: &gateway.Error{Op: "initialize", Message: "Invalid key"}},
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTestRouter(tt.stub, stubVerifier{}, stubLister{}, stubRegistrar{})
			req := httptest.NewRequest(http.MethodPost, "/api/transfers", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedSubstr != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedSubstr)
			}
		})
	}
}

func TestHandleVerifyTransfer_StatusMapping(t *testing.T) {
	t.Parallel()

	recorded := entity.NewTransaction(77, decimal.NewFromInt(100), "ZAR", "success",
		"a@x.com", 42, entity.Metadata{RecipientEmail: "b@x.com", Reference: "ref123"})

	tests := []struct {
		name           string
		target         string
		stub           stubVerifier
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "recorded",
			target:         "/payment/verify?reference=ref123",
			stub:           stubVerifier{resp: &verifytransfer.Response{Transaction: recorded}},
			expectedStatus: http.StatusOK,
			expectedSubstr: `"gateway_transaction_id":77`,
		},
		{
			name:           "missing reference",
			target:         "/payment/verify",
			stub:           stubVerifier{err: verifytransfer.ErrMissingReference},
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"missing_reference"`,
		},
		{
			name:           "pending not found",
			target:         "/payment/verify?reference=ref123",
			stub:           stubVerifier{err: verifytransfer.ErrPendingNotFound},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "recipient gone",
			target:         "/payment/verify?reference=ref123",
			stub:           stubVerifier{err: repository.ErrProfileNotFound},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "gateway failure",
			target:         "/payment/verify?reference=ref123",
			stub:           stubVerifier{err: &gateway.Error{Op: "verify", Message: "not found"}},
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:           "recording failure is distinct",
			target:         "/payment/verify?reference=ref123",
			stub:           stubVerifier{err: &verifytransfer.RecordingError{Err: context.DeadlineExceeded}},
			expectedStatus: http.StatusInternalServerError,
			expectedSubstr: `"verified_unrecorded"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTestRouter(stubInitiator{}, tt.stub, stubLister{}, stubRegistrar{})
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedSubstr != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedSubstr)
			}
		})
	}
}

func TestHandleListTransactions(t *testing.T) {
	t.Parallel()

	list := []*entity.Transaction{
		entity.NewTransaction(77, decimal.NewFromInt(100), "ZAR", "success",
			"a@x.com", 42, entity.Metadata{RecipientEmail: "b@x.com"}),
	}
	router := newTestRouter(stubInitiator{}, stubVerifier{}, stubLister{list: list}, stubRegistrar{})

	req := httptest.NewRequest(http.MethodGet, "/api/transactions?email=a@x.com", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"customer_email":"a@x.com"`)
}

func TestHandleRegisterProfile(t *testing.T) {
	t.Parallel()

	t.Run("created", func(t *testing.T) {
		t.Parallel()
		profile := entity.NewProfile("b@x.com", "B Recipient", "1234567890")
		router := newTestRouter(stubInitiator{}, stubVerifier{}, stubLister{},
			stubRegistrar{resp: &registerprofile.Response{Profile: profile}})

		req := httptest.NewRequest(http.MethodPost, "/api/profiles",
			strings.NewReader(`{"email":"b@x.com","full_name":"B Recipient"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"account_number":"1234567890"`)
	})

	t.Run("duplicate", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(stubInitiator{}, stubVerifier{}, stubLister{},
			stubRegistrar{err: repository.ErrProfileExists})

		req := httptest.NewRequest(http.MethodPost, "/api/profiles",
			strings.NewReader(`{"email":"b@x.com","full_name":"B Recipient"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
