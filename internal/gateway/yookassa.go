// Package gateway implements the YooKassa payment API client.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"momentum_backend/internal/config"
	"momentum_backend/pkg/apperrors"

	"github.com/google/uuid"
)

const defaultBaseURL = "https://api.yookassa.ru/v3"

// Amount is the money object YooKassa uses everywhere. Value is a decimal
// string with two fraction digits.
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type Confirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

type ReceiptItem struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Amount      Amount `json:"amount"`
	VATCode     int    `json:"vat_code"`
}

type Receipt struct {
	Customer struct {
		Email string `json:"email"`
	} `json:"customer"`
	Items []ReceiptItem `json:"items"`
}

type PaymentMethodData struct {
	Type string `json:"type"`
}

// CreatePaymentParams is the outgoing payment creation body.
type CreatePaymentParams struct {
	Amount        Amount            `json:"amount"`
	Capture       bool              `json:"capture"`
	Confirmation  Confirmation      `json:"confirmation"`
	Description   string            `json:"description"`
	PaymentMethod PaymentMethodData `json:"payment_method_data"`
	Receipt       *Receipt          `json:"receipt,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Payment is the payment object returned by the API and carried in webhook
// notifications. Metadata round-trips the user and product identifiers set
// at creation time.
type Payment struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	Paid         bool              `json:"paid"`
	Amount       Amount            `json:"amount"`
	Confirmation *Confirmation     `json:"confirmation,omitempty"`
	Description  string            `json:"description"`
	Metadata     map[string]string `json:"metadata"`
	CreatedAt    time.Time         `json:"created_at"`
	Test         bool              `json:"test"`
}

// WebhookNotification is the body YooKassa POSTs to the callback URL.
type WebhookNotification struct {
	Type   string  `json:"type"`
	Event  string  `json:"event"`
	Object Payment `json:"object"`
}

// Webhook events the service reacts to.
const (
	EventPaymentSucceeded         = "payment.succeeded"
	EventPaymentWaitingForCapture = "payment.waiting_for_capture"
	EventPaymentCanceled          = "payment.canceled"
)

type apiError struct {
	Type        string `json:"type"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Client talks to the YooKassa REST API with shop credentials over basic auth.
type Client struct {
	shopID     string
	secretKey  string
	baseURL    string
	returnURL  string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	baseURL := cfg.Gateway.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		shopID:    cfg.Gateway.ShopID,
		secretKey: cfg.Gateway.SecretKey,
		baseURL:   baseURL,
		returnURL: cfg.Gateway.ReturnURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether shop credentials are present. Without them
// payment endpoints return a service error instead of making doomed calls.
func (c *Client) Configured() bool {
	return c.shopID != "" && c.secretKey != ""
}

// FormatAmount renders a float as the decimal string YooKassa expects.
func FormatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

// CreatePayment registers a bank card payment with a redirect confirmation.
// Each call gets a fresh Idempotence-Key, so retries at the service level
// create distinct payments.
func (c *Client) CreatePayment(ctx context.Context, params CreatePaymentParams) (*Payment, error) {
	if params.Confirmation.Type == "" {
		params.Confirmation = Confirmation{
			Type:      "redirect",
			ReturnURL: c.returnURL,
		}
	}
	if params.PaymentMethod.Type == "" {
		params.PaymentMethod = PaymentMethodData{Type: "bank_card"}
	}

	body, err := json.Marshal(params)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotence-Key", uuid.NewString())
	req.SetBasicAuth(c.shopID, c.secretKey)

	var payment Payment
	if err := c.do(req, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPayment fetches a single payment by its gateway identifier.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/payments/"+paymentID, nil)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	req.SetBasicAuth(c.shopID, c.secretKey)

	var payment Payment
	if err := c.do(req, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListPayments pages through payments with the given status. Used by the
// admin dashboard to compute gateway revenue.
func (c *Client) ListPayments(ctx context.Context, status string, limit int) ([]Payment, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	endpoint := c.baseURL + "/payments"
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	req.SetBasicAuth(c.shopID, c.secretKey)

	var list struct {
		Items []Payment `json:"items"`
	}
	if err := c.do(req, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return apperrors.UpstreamTimeout("payment", err)
		}
		return apperrors.UpstreamError("payment", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.UpstreamError("payment", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Description != "" {
			return apperrors.UpstreamError("payment",
				fmt.Errorf("yookassa %s (%d): %s", apiErr.Code, resp.StatusCode, apiErr.Description))
		}
		return apperrors.UpstreamError("payment",
			fmt.Errorf("yookassa returned status %d", resp.StatusCode))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.MalformedUpstreamResponse("payment", err)
	}
	return nil
}
