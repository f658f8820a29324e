package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/retailhub/retail-api/internal/retail/domain"
)

type InvoiceClient struct {
	http *resty.Client
}

func NewInvoiceClient(baseURL string, timeout time.Duration) *InvoiceClient {
	return &InvoiceClient{http: newHTTPClient(baseURL, timeout)}
}

// CreateInvoice submits the raw request and returns the persisted invoice
// with its authoritative id, item ids and purchase date.
func (c *InvoiceClient) CreateInvoice(ctx context.Context, req domain.InvoiceRequest) (*domain.Invoice, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/invoices")
	if err != nil {
		return nil, fmt.Errorf("invoice service: %w", err)
	}

	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return nil, fmt.Errorf("invoice service returned status %d", resp.StatusCode())
	}

	var invoice domain.Invoice
	if err := json.Unmarshal(resp.Body(), &invoice); err != nil {
		return nil, fmt.Errorf("invoice service: decoding response: %w", err)
	}
	return &invoice, nil
}

func (c *InvoiceClient) InvoiceByID(ctx context.Context, id int) (*domain.Invoice, error) {
	resp, err := c.http.R().SetContext(ctx).Get(fmt.Sprintf("/invoices/%d", id))
	if err != nil {
		return nil, fmt.Errorf("invoice service: %w", err)
	}

	var invoice domain.Invoice
	found, err := decodeEntity(resp, "invoice", &invoice)
	if err != nil || !found {
		return nil, err
	}
	return &invoice, nil
}

func (c *InvoiceClient) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/invoices")
	if err != nil {
		return nil, fmt.Errorf("invoice service: %w", err)
	}

	var invoices []domain.Invoice
	if err := decodeList(resp, "invoice", &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (c *InvoiceClient) InvoicesByCustomer(ctx context.Context, customerID int) ([]domain.Invoice, error) {
	resp, err := c.http.R().SetContext(ctx).Get(fmt.Sprintf("/invoices/customer/%d", customerID))
	if err != nil {
		return nil, fmt.Errorf("invoice service: %w", err)
	}

	var invoices []domain.Invoice
	if err := decodeList(resp, "invoice", &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}
