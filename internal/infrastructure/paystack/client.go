package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mzeitler/bank-portal/internal/domain/gateway"
)

const defaultTimeout = 15 * time.Second

var hundred = decimal.NewFromInt(100)

// Client talks to a Paystack-compatible payment API. All calls are
// bounded by the HTTP client timeout in addition to the caller's context.
type Client struct {
	baseURL     string
	secretKey   string
	callbackURL string
	httpClient  *http.Client
	logger      *zap.Logger
}

func NewClient(baseURL, secretKey, callbackURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		secretKey:   secretKey,
		callbackURL: callbackURL,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		logger:      logger,
	}
}

// envelope is the outer shape of every gateway response.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	ID        int64  `json:"id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Channel   string `json:"channel"`
	PaidAt    string `json:"paid_at"`
	Customer  struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	} `json:"customer"`
}

func (c *Client) Initialize(ctx context.Context, email string, amount decimal.Decimal) (*gateway.Session, error) {
	const op = "initialize"

	body, err := json.Marshal(map[string]any{
		"email":        email,
		"amount":       minorUnits(amount),
		"callback_url": c.callbackURL,
	})
	if err != nil {
		return nil, &gateway.Error{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, &gateway.Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	env, err := c.do(req, op)
	if err != nil {
		return nil, err
	}

	var data initializeData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, &gateway.Error{Op: op, Err: fmt.Errorf("decode data: %w", err)}
	}
	if data.AuthorizationURL == "" || data.Reference == "" {
		return nil, &gateway.Error{Op: op, Message: "response missing authorization_url or reference"}
	}

	return &gateway.Session{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

func (c *Client) Verify(ctx context.Context, reference string) (*gateway.VerifiedPayment, error) {
	const op = "verify"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, &gateway.Error{Op: op, Err: err}
	}

	env, err := c.do(req, op)
	if err != nil {
		return nil, err
	}

	var data verifyData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, &gateway.Error{Op: op, Err: fmt.Errorf("decode data: %w", err)}
	}
	if data.ID == 0 || data.Currency == "" {
		return nil, &gateway.Error{Op: op, Message: "response missing transaction id or currency"}
	}

	var paidAt time.Time
	if data.PaidAt != "" {
		if paidAt, err = time.Parse(time.RFC3339, data.PaidAt); err != nil {
			return nil, &gateway.Error{Op: op, Err: fmt.Errorf("parse paid_at: %w", err)}
		}
	}

	return &gateway.VerifiedPayment{
		TransactionID: data.ID,
		Amount:        majorUnits(data.Amount),
		Currency:      data.Currency,
		Status:        data.Status,
		Reference:     data.Reference,
		Channel:       data.Channel,
		PaidAt:        paidAt,
		CustomerEmail: data.Customer.Email,
		CustomerID:    data.Customer.ID,
	}, nil
}

func (c *Client) do(req *http.Request, op string) (*envelope, error) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("gateway request failed", zap.String("op", op), zap.Error(err))
		return nil, &gateway.Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &gateway.Error{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("gateway returned non-2xx",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", raw),
		)
		return nil, &gateway.Error{Op: op, StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &gateway.Error{Op: op, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if !env.Status {
		msg := env.Message
		if msg == "" {
			msg = "gateway reported failure"
		}
		return nil, &gateway.Error{Op: op, Message: msg}
	}
	return &env, nil
}

// minorUnits converts a major-unit amount to the gateway's smallest
// denomination, e.g. 100 ZAR -> 10000.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

func majorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(hundred)
}
