package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Client is the HTTP implementation of Provider.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) CreateInvoice(ctx context.Context, req InvoiceRequest) (Invoice, error) {
	var inv Invoice
	if err := c.post(ctx, "/v1/invoice", req, &inv); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

func (c *Client) PinPayment(ctx context.Context, invoiceID, payCurrency string) (Payment, error) {
	body := struct {
		IID         string `json:"iid"`
		PayCurrency string `json:"pay_currency"`
	}{IID: invoiceID, PayCurrency: payCurrency}

	var p Payment
	if err := c.post(ctx, "/v1/invoice-payment", body, &p); err != nil {
		return Payment{}, err
	}
	return p, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "payments: encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return errors.Wrap(err, "payments: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "payments: POST %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Non-2xx is a hard failure; include a slice of the body for the logs.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Errorf("payments: POST %s returned %d: %s", path, resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "payments: decode %s response", path)
	}
	return nil
}
