package lib

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

const xenditAPIURL = "https://api.xendit.co/v2"

var (
	xenditBaseURL string
	xenditHTTP    *http.Client
)

func getXenditBaseURL() string {
	if xenditBaseURL != "" {
		return xenditBaseURL
	}
	return xenditAPIURL
}

func getXenditHTTPClient() *http.Client {
	if xenditHTTP != nil {
		return xenditHTTP
	}
	xenditHTTP = &http.Client{Timeout: 30 * time.Second}
	return xenditHTTP
}

// NewXenditBaseURL points the client at a different endpoint. Used by tests.
func NewXenditBaseURL(url string) {
	xenditBaseURL = url
}

// NewXenditHTTPClient replaces the underlying http client. Used by tests.
func NewXenditHTTPClient(c *http.Client) {
	xenditHTTP = c
}

type XenditInvoiceParams struct {
	ExternalID     string         `json:"external_id"`
	Amount         int64          `json:"amount"`
	PayerEmail     string         `json:"payer_email"`
	Description    string         `json:"description"`
	Duration       int            `json:"invoice_duration,omitempty"`
	Currency       string         `json:"currency,omitempty"`
	SuccessURL     string         `json:"success_redirect_url,omitempty"`
	FailureURL     string         `json:"failure_redirect_url,omitempty"`
	PaymentMethods []string       `json:"payment_methods,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

type XenditInvoice struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`
	Status     string `json:"status"`
	InvoiceURL string `json:"invoice_url"`
	Amount     int64  `json:"amount"`
	PaymentID  string `json:"payment_id,omitempty"`
}

func xenditDo(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, getXenditBaseURL()+path, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(os.Getenv("XENDIT_SECRET_KEY"), "")
	req.Header.Set("Content-Type", "application/json")
	res, err := getXenditHTTPClient().Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode >= 400 {
		var apiErr struct {
			ErrorCode string `json:"error_code"`
			Message   string `json:"message"`
		}
		if err := json.Unmarshal(resBody, &apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("xendit %s %s: %s (%s)", method, path, apiErr.Message, apiErr.ErrorCode)
		}
		return fmt.Errorf("xendit %s %s: status %d", method, path, res.StatusCode)
	}
	if out != nil {
		if err := json.Unmarshal(resBody, out); err != nil {
			return err
		}
	}
	return nil
}

// XenditCreateInvoice requests a hosted payment invoice keyed by the
// booking id as external_id.
func XenditCreateInvoice(ctx context.Context, params *XenditInvoiceParams) (*XenditInvoice, error) {
	var invoice XenditInvoice
	if err := xenditDo(ctx, http.MethodPost, "/invoices", params, &invoice); err != nil {
		log.Printf("[xendit] Error creating invoice for [%s]: %s\n", params.ExternalID, err.Error())
		return nil, err
	}
	return &invoice, nil
}

// XenditGetInvoiceStatus pulls the live status of an invoice.
func XenditGetInvoiceStatus(ctx context.Context, invoiceID string) (*XenditInvoice, error) {
	var invoice XenditInvoice
	if err := xenditDo(ctx, http.MethodGet, "/invoices/"+invoiceID, nil, &invoice); err != nil {
		log.Printf("[xendit] Error retrieving invoice [%s]: %s\n", invoiceID, err.Error())
		return nil, err
	}
	return &invoice, nil
}

// VerifyXenditWebhookToken checks the x-callback-token header against
// the shared webhook secret.
func VerifyXenditWebhookToken(token string) bool {
	secret := os.Getenv("XENDIT_WEBHOOK_TOKEN")
	if secret == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}
