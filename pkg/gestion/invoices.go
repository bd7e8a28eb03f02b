package gestion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// CreateInvoice posts a new invoice and returns its id. The endpoint
// sometimes answers the full record, sometimes just the id.
func (c *Client) CreateInvoice(ctx context.Context, params CreateInvoiceParams) (int64, error) {
	payload, err := c.do(ctx, http.MethodPost, "/facturas", params, "create_invoice")
	if err != nil {
		return 0, err
	}

	var id int64
	if jerr := json.Unmarshal(unwrapData(payload), &id); jerr == nil && id > 0 {
		return id, nil
	}

	obj, err := decodeObject(payload)
	if err != nil {
		return 0, err
	}
	return obj.int64("IdFactura", "Id"), nil
}

// GetInvoice fetches one invoice by id.
func (c *Client) GetInvoice(ctx context.Context, invoiceID int64) (Invoice, error) {
	payload, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/facturas/%d", invoiceID), nil, "get_invoice")
	if err != nil {
		return Invoice{}, err
	}
	return normalizeInvoice(payload)
}

// ListInvoices returns every invoice, used for the document-url lookup and
// the admin console.
func (c *Client) ListInvoices(ctx context.Context) ([]Invoice, error) {
	payload, err := c.do(ctx, http.MethodGet, "/facturas", nil, "list_invoices")
	if err != nil {
		return nil, err
	}
	return normalizeEach(payload, normalizeInvoice)
}
