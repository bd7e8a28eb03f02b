package banco

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/urbandrive/storefront/pkg/config"
	pkgerrors "github.com/urbandrive/storefront/pkg/errors"
	"github.com/urbandrive/storefront/pkg/logger"
)

var errLoggerRequired = errors.New("banco logger is required")

// Doer abstracts the HTTP transport so tests can stub the wire.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Account is one bank account of a holder, looked up by legal id.
type Account struct {
	AccountID int64   `json:"cuenta_id"`
	ClientID  string  `json:"cliente_id"`
	Balance   float64 `json:"saldo"`
}

// TransferParams describes a funds movement between two accounts.
type TransferParams struct {
	OriginAccount      int64
	DestinationAccount int64
	Amount             float64
	Memo               string
}

// Transfer is the bank's record of a created transaction.
type Transfer struct {
	TransactionID int64  `json:"transaccion_id"`
	Response      string `json:"respuesta"`
	BankResponse  string `json:"respuestaBanco"`
	Status        string `json:"status"`
	CreatedAt     string `json:"fecha_transaccion"`
}

// Confirmed reports whether the bank explicitly acknowledged the transfer.
// Refund flows must only proceed on a confirmed transfer.
func (t Transfer) Confirmed() bool {
	for _, indicator := range []string{t.Response, t.BankResponse, t.Status} {
		if strings.EqualFold(strings.TrimSpace(indicator), "OK") {
			return true
		}
	}
	return false
}

type transferRequest struct {
	TransactionID      int64   `json:"transaccion_id"`
	OriginAccount      int64   `json:"cuenta_origen"`
	DestinationAccount int64   `json:"cuenta_destino"`
	Amount             float64 `json:"monto"`
	TransactionType    string  `json:"tipo_transaccion"`
	CreatedAt          string  `json:"fecha_transaccion"`
}

// Client wraps the MiBanca API: account lookup by holder legal id, and
// transfer creation. It also knows the merchant's legal id so callers do
// not have to carry it around.
type Client struct {
	httpClient      Doer
	baseURL         string
	merchantLegalID string
	logger          *logger.Logger
	now             func() time.Time
}

// NewClient initializes the banking wrapper from configuration.
func NewClient(ctx context.Context, cfg config.BancoConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("banco base url is required")
	}
	merchantLegalID := strings.TrimSpace(cfg.MerchantLegalID)
	if merchantLegalID == "" {
		return nil, errors.New("banco merchant legal id is required")
	}

	c := &Client{
		httpClient:      &http.Client{Timeout: cfg.Timeout},
		baseURL:         baseURL,
		merchantLegalID: merchantLegalID,
		logger:          logg,
		now:             time.Now,
	}

	logg.Info(ctx, "banco client initialized")
	return c, nil
}

// WithHTTPClient swaps the transport, used by tests.
func (c *Client) WithHTTPClient(doer Doer) *Client {
	c.httpClient = doer
	return c
}

// MerchantLegalID returns the configured merchant holder id.
func (c *Client) MerchantLegalID() string {
	if c == nil {
		return ""
	}
	return c.merchantLegalID
}

// AccountsByHolder looks up the holder's accounts. The endpoint answers an
// array for multi-account holders and a bare object for single-account ones.
func (c *Client) AccountsByHolder(ctx context.Context, legalID string) ([]Account, error) {
	legalID = strings.TrimSpace(legalID)
	if legalID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "holder legal id is required")
	}

	path := "/Cuentas/cliente/" + url.PathEscape(legalID)
	payload, err := c.do(ctx, http.MethodGet, path, nil, "accounts_by_holder")
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var accounts []Account
		if err := json.Unmarshal(payload, &accounts); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unexpected accounts payload")
		}
		return accounts, nil
	}
	var account Account
	if err := json.Unmarshal(payload, &account); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unexpected account payload")
	}
	return []Account{account}, nil
}

// MerchantAccounts looks up the merchant's accounts.
func (c *Client) MerchantAccounts(ctx context.Context) ([]Account, error) {
	return c.AccountsByHolder(ctx, c.merchantLegalID)
}

// CreateTransfer posts a funds movement and returns the bank's record.
func (c *Client) CreateTransfer(ctx context.Context, params TransferParams) (Transfer, error) {
	if params.OriginAccount == 0 || params.DestinationAccount == 0 {
		return Transfer{}, pkgerrors.New(pkgerrors.CodeValidation, "origin and destination accounts are required")
	}
	if params.Amount <= 0 {
		return Transfer{}, pkgerrors.New(pkgerrors.CodeValidation, "transfer amount must be positive")
	}

	memo := params.Memo
	if memo == "" {
		memo = "Pago reserva UrbanDrive"
	}

	body := transferRequest{
		TransactionID:      0,
		OriginAccount:      params.OriginAccount,
		DestinationAccount: params.DestinationAccount,
		Amount:             params.Amount,
		TransactionType:    memo,
		CreatedAt:          c.now().UTC().Format(time.RFC3339),
	}

	payload, err := c.do(ctx, http.MethodPost, "/Transacciones", body, "create_transfer")
	if err != nil {
		return Transfer{}, err
	}

	var transfer Transfer
	if err := json.Unmarshal(payload, &transfer); err != nil {
		return Transfer{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unexpected transfer payload")
	}
	if transfer.CreatedAt == "" {
		transfer.CreatedAt = body.CreatedAt
	}
	return transfer, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, op string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("encoding %s request", op))
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("building %s request", op))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log(ctx, "request", op, map[string]any{"method": method, "path": path})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("banco %s failed", op))
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("reading banco %s response", op))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log(ctx, "error", op, map[string]any{"status": resp.StatusCode})
		code := pkgerrors.CodeDependency
		if resp.StatusCode == http.StatusNotFound {
			code = pkgerrors.CodeNotFound
		}
		return nil, pkgerrors.New(code, fmt.Sprintf("banco %s failed", op)).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	c.log(ctx, "response", op, map[string]any{"status": resp.StatusCode})
	return payload, nil
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("banco %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("banco %s", phase))
	}
}
