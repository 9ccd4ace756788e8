package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"momentum_backend/internal/config"
	"momentum_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Gateway.ShopID = "shop-1"
	cfg.Gateway.SecretKey = "secret-1"
	cfg.Gateway.BaseURL = server.URL
	cfg.Gateway.ReturnURL = "https://app.example.com/payment-success"

	return NewClient(cfg)
}

func TestCreatePayment_RequestShape(t *testing.T) {
	var gotUser, gotPass, gotIdemKey string
	var gotBody CreatePaymentParams

	client := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		gotIdemKey = r.Header.Get("Idempotence-Key")
		json.NewDecoder(r.Body).Decode(&gotBody)

		json.NewEncoder(w).Encode(Payment{
			ID:     "pay-1",
			Status: "pending",
			Confirmation: &Confirmation{
				Type:            "redirect",
				ConfirmationURL: "https://yookassa.example/confirm",
			},
			Metadata: gotBody.Metadata,
		})
	})

	payment, err := client.CreatePayment(context.Background(), CreatePaymentParams{
		Amount:      Amount{Value: "1393.00", Currency: "RUB"},
		Capture:     true,
		Description: "Subscription: Pro",
		Metadata: map[string]string{
			"userId":    "user-1",
			"productId": "prod-1",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "shop-1", gotUser)
	assert.Equal(t, "secret-1", gotPass)
	assert.NotEmpty(t, gotIdemKey)

	// Defaults filled in for confirmation and payment method.
	assert.Equal(t, "redirect", gotBody.Confirmation.Type)
	assert.Equal(t, "https://app.example.com/payment-success", gotBody.Confirmation.ReturnURL)
	assert.Equal(t, "bank_card", gotBody.PaymentMethod.Type)
	assert.Equal(t, "1393.00", gotBody.Amount.Value)

	assert.Equal(t, "pay-1", payment.ID)
	assert.Equal(t, "https://yookassa.example/confirm", payment.Confirmation.ConfirmationURL)
	assert.Equal(t, "user-1", payment.Metadata["userId"])
}

func TestCreatePayment_FreshIdempotenceKeyPerCall(t *testing.T) {
	var keys []string
	client := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("Idempotence-Key"))
		json.NewEncoder(w).Encode(Payment{ID: "pay-x"})
	})

	ctx := context.Background()
	params := CreatePaymentParams{Amount: Amount{Value: "10.00", Currency: "RUB"}}
	_, err := client.CreatePayment(ctx, params)
	require.NoError(t, err)
	_, err = client.CreatePayment(ctx, params)
	require.NoError(t, err)

	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1])
}

func TestCreatePayment_APIErrorMapped(t *testing.T) {
	client := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{
			"type":        "error",
			"code":        "invalid_credentials",
			"description": "Basic auth failed",
		})
	})

	_, err := client.CreatePayment(context.Background(), CreatePaymentParams{
		Amount: Amount{Value: "10.00", Currency: "RUB"},
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeExternalServiceError, appErr.Code)
	assert.Contains(t, appErr.Err.Error(), "Basic auth failed")
}

func TestListPayments_FiltersByStatus(t *testing.T) {
	var gotQuery string
	client := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []Payment{
				{ID: "pay-1", Amount: Amount{Value: "100.00", Currency: "RUB"}},
				{ID: "pay-2", Amount: Amount{Value: "200.00", Currency: "RUB"}},
			},
		})
	})

	payments, err := client.ListPayments(context.Background(), "succeeded", 50)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Contains(t, gotQuery, "status=succeeded")
	assert.Contains(t, gotQuery, "limit=50")
}

func TestConfigured(t *testing.T) {
	assert.False(t, NewClient(&config.Config{}).Configured())

	cfg := &config.Config{}
	cfg.Gateway.ShopID = "s"
	cfg.Gateway.SecretKey = "k"
	assert.True(t, NewClient(cfg).Configured())
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1393.00", FormatAmount(1393))
	assert.Equal(t, "66.67", FormatAmount(66.666666666666667))
	assert.Equal(t, "0.00", FormatAmount(0))
}
