package paymentgateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, "key_id_test", "key_secret_test", 5*time.Second, nopLogger{})
}

func signPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateOrder_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_id_test", user)
		assert.Equal(t, "key_secret_test", pass)

		var req createOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(120000), req.Amount)
		assert.Equal(t, "INR", req.Currency)
		assert.Equal(t, map[string]string{"booking_id": "42"}, req.Notes)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Order{
			ID:       "order_abc",
			Amount:   req.Amount,
			Currency: req.Currency,
			Receipt:  req.Receipt,
			Status:   "created",
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	order, err := c.CreateOrder(context.Background(), 120000, "INR", "bkg-42-xyz", map[string]string{"booking_id": "42"})

	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, int64(120000), order.Amount)
	assert.Equal(t, "created", order.Status)
}

func TestCreateOrder_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount must be at least 100"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.CreateOrder(context.Background(), 1, "INR", "bkg-1-xyz", nil)

	require.ErrorIs(t, err, ErrOrderRejected)
	assert.Contains(t, err.Error(), "BAD_REQUEST_ERROR")
}

func TestCreateOrder_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.CreateOrder(context.Background(), 120000, "INR", "bkg-42-xyz", nil)

	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestCreateOrder_EmptyOrderID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"amount":120000,"currency":"INR"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.CreateOrder(context.Background(), 120000, "INR", "bkg-42-xyz", nil)

	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestCreateOrder_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // закрываем сразу, чтобы получить ошибку соединения

	c := newTestClient(srv.URL)
	_, err := c.CreateOrder(context.Background(), 120000, "INR", "bkg-42-xyz", nil)

	require.ErrorIs(t, err, ErrInternal)
}

func TestVerifySignature(t *testing.T) {
	c := newTestClient("http://gateway.local")

	t.Run("valid", func(t *testing.T) {
		sig := signPayload("key_secret_test", "order_abc", "pay_123")
		assert.True(t, c.VerifySignature("order_abc", "pay_123", sig))
	})

	t.Run("wrong secret", func(t *testing.T) {
		sig := signPayload("another_secret", "order_abc", "pay_123")
		assert.False(t, c.VerifySignature("order_abc", "pay_123", sig))
	})

	t.Run("tampered payment id", func(t *testing.T) {
		sig := signPayload("key_secret_test", "order_abc", "pay_123")
		assert.False(t, c.VerifySignature("order_abc", "pay_456", sig))
	})

	t.Run("empty signature", func(t *testing.T) {
		assert.False(t, c.VerifySignature("order_abc", "pay_123", ""))
	})

	t.Run("not hex", func(t *testing.T) {
		assert.False(t, c.VerifySignature("order_abc", "pay_123", "zzzz"))
	})
}
