package asaas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vya-logistics/vya-backend/internal/gateway"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key")
}

func TestConfigured(t *testing.T) {
	assert.True(t, NewClient("http://x", "key").Configured())
	assert.False(t, NewClient("http://x", "").Configured())
}

func TestCreatePixChargeSendsExpectedBody(t *testing.T) {
	var got chargeBody
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("access_token"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(chargeResp{ID: "pay_123", Status: "PENDING"})
	})

	due := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	charge, err := c.CreatePixCharge(context.Background(), gateway.ChargeRequest{
		CustomerID:        "cus_1",
		Amount:            decimal.RequireFromString("49.9"),
		Description:       "package delivery",
		ExternalReference: "pkg-1",
		DueDate:           due,
	})
	require.NoError(t, err)
	assert.Equal(t, "pay_123", charge.ID)
	assert.Equal(t, "PENDING", charge.Status)

	assert.Equal(t, "PIX", got.BillingType)
	assert.Equal(t, "49.90", got.Value)
	assert.Equal(t, "2026-03-15", got.DueDate)
	assert.Equal(t, "pkg-1", got.ExternalReference)
}

func TestGetPixQRCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/pay_123/pixQrCode", r.URL.Path)
		json.NewEncoder(w).Encode(qrResp{EncodedImage: "aW1n", Payload: "00020126brcode"})
	})

	qr, err := c.GetPixQRCode(context.Background(), "pay_123")
	require.NoError(t, err)
	assert.Equal(t, "aW1n", qr.EncodedImage)
	assert.Equal(t, "00020126brcode", qr.Payload)
}

func TestCreateTransferSendsPixOperation(t *testing.T) {
	var got transferBody
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transfers", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(transferResp{ID: "tr_1", Status: "PENDING"})
	})

	tr, err := c.CreateTransfer(context.Background(), gateway.TransferRequest{
		Amount:     decimal.RequireFromString("120"),
		PixKey:     "ana@example.com",
		PixKeyType: "EMAIL",
	})
	require.NoError(t, err)
	assert.Equal(t, "tr_1", tr.ID)

	assert.Equal(t, "120.00", got.Value)
	assert.Equal(t, "ana@example.com", got.PixAddressKey)
	assert.Equal(t, "EMAIL", got.PixAddressKeyType)
	assert.Equal(t, "PIX", got.OperationType)
}

func TestNon2xxReturnsAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"code":"invalid_value"}]}`, http.StatusBadRequest)
	})

	_, err := c.GetPixQRCode(context.Background(), "pay_404")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Body, "invalid_value")
}

func TestFindOrCreateCustomerFindsExisting(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "12345678900", r.URL.Query().Get("cpfCnpj"))
		json.NewEncoder(w).Encode(customerList{Data: []customer{{ID: "cus_old"}}})
	})

	id, err := c.FindOrCreateCustomer(context.Background(), "Ana", "12345678900")
	require.NoError(t, err)
	assert.Equal(t, "cus_old", id)
}

func TestFindOrCreateCustomerCreatesWhenMissing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode(customerList{})
			return
		}
		var got customer
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "Ana", got.Name)
		assert.Equal(t, "12345678900", got.CpfCnpj)
		json.NewEncoder(w).Encode(customer{ID: "cus_new"})
	})

	id, err := c.FindOrCreateCustomer(context.Background(), "Ana", "12345678900")
	require.NoError(t, err)
	assert.Equal(t, "cus_new", id)
}
