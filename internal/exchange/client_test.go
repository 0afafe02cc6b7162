package exchange_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/visionify/partner-api/internal/config"
	"github.com/visionify/partner-api/internal/exchange"
)

func newTestClient(baseURL string) *exchange.Client {
	return exchange.NewClient(config.ExchangeConfig{
		BaseURL:      baseURL,
		BaseCurrency: "USD",
	}, zap.NewNop())
}

func TestFetchParsesProviderResponse(t *testing.T) {
	rq := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rq.Equal("/latest/USD", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"result": "success",
			"base_code": "USD",
			"rates": {"USD": 1, "EUR": 0.92, "INR": 83.1},
			"time_last_update_unix": 1741564800
		}`))
	}))
	defer srv.Close()

	rates, err := newTestClient(srv.URL).Fetch(context.Background())
	rq.NoError(err)
	rq.Equal("USD", rates.Base)
	rq.InDelta(0.92, rates.Rates["EUR"], 1e-9)
	rq.Equal(int64(1741564800), rates.UpdatedAt.Unix())
}

func TestFetchProviderError(t *testing.T) {
	rq := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background())
	rq.Error(err)
}

func TestFetchProviderFailureResult(t *testing.T) {
	rq := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": "error", "error-type": "unsupported-code"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background())
	rq.Error(err)
}
