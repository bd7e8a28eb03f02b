package gestion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/urbandrive/storefront/pkg/config"
	pkgerrors "github.com/urbandrive/storefront/pkg/errors"
	"github.com/urbandrive/storefront/pkg/logger"
)

var errLoggerRequired = errors.New("gestion logger is required")

// Doer abstracts the HTTP transport so tests can stub the wire.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client wraps the gestion REST API with centralized logging, response
// normalization, and error mapping.
type Client struct {
	httpClient Doer
	baseURL    string
	logger     *logger.Logger
}

// NewClient initializes the gestion wrapper from configuration.
func NewClient(ctx context.Context, cfg config.GestionConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("gestion base url is required")
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    baseURL,
		logger:     logg,
	}

	logg.Info(ctx, "gestion client initialized")
	return c, nil
}

// WithHTTPClient swaps the transport, used by tests.
func (c *Client) WithHTTPClient(doer Doer) *Client {
	c.httpClient = doer
	return c
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("gestion %s failed", op))
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("reading gestion %s response", op))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log(ctx, "error", op, map[string]any{"status": resp.StatusCode, "body": truncate(payload)})
		return nil, pkgerrors.New(domainCodeForStatus(resp.StatusCode), fmt.Sprintf("gestion %s failed", op)).
			WithDetails(map[string]any{"status": resp.StatusCode, "upstream": truncate(payload)})
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
		c.logger.Error(ctx, fmt.Sprintf("gestion %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("gestion %s", phase))
	}
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	case http.StatusUnprocessableEntity:
		return pkgerrors.CodeStateConflict
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}

func truncate(payload []byte) string {
	const max = 512
	text := strings.TrimSpace(string(payload))
	if len(text) > max {
		return text[:max]
	}
	return text
}
