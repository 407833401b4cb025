package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testQuery = Query{
	Product:     "rsk-token-bridge",
	FromNetwork: "rsk-mainnet",
	TxHash:      "0xabc123",
	WalletName:  "metamask",
}

func TestGetOptions_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/rsk-token-bridge/options", r.URL.Path)
		assert.Equal(t, "rsk-mainnet", r.URL.Query().Get("fromNetwork"))
		assert.Equal(t, "0xabc123", r.URL.Query().Get("txHash"))
		assert.Equal(t, "metamask", r.URL.Query().Get("walletName"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"ok","properties":{"fromNetwork":"rsk-mainnet","txHash":"0xabc123","walletName":"metamask","txAge":42,"txFrom":"0xdead"},"options":{"list":[]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, nil)
	resp, err := client.GetOptions(context.Background(), testQuery)
	require.NoError(t, err)

	assert.Equal(t, "ok", resp.Message)
	assert.Equal(t, Properties{
		FromNetwork: "rsk-mainnet",
		TxHash:      "0xabc123",
		WalletName:  "metamask",
		TxAge:       42,
		TxFrom:      "0xdead",
	}, resp.Properties)
	assert.JSONEq(t, `{"list":[]}`, string(resp.Options))
}

func TestGetOptions_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid inputs","value":["invalid fromNetwork: bitcoin","invalid walletName: trezor"]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, nil)
	_, err := client.GetOptions(context.Background(), testQuery)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "invalid inputs", apiErr.Message)
	assert.Equal(t, []string{"invalid fromNetwork: bitcoin", "invalid walletName: trezor"}, apiErr.Values)
	assert.Contains(t, err.Error(), "invalid walletName: trezor")
}

func TestGetOptions_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, nil)
	_, err := client.GetOptions(context.Background(), testQuery)
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "status 502")
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestGetOptionsHTML_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/html", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<section></section>"))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", nil, nil)
	html, err := client.GetOptionsHTML(context.Background(), testQuery)
	require.NoError(t, err)
	assert.Equal(t, "<section></section>", html)
}

func TestGetOptionsHTML_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/other-product/options", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"unsupported product","value":["other-product"]}`))
	}))
	defer server.Close()

	q := testQuery
	q.Product = "other-product"

	client := NewClient(server.URL, nil, nil)
	_, err := client.GetOptionsHTML(context.Background(), q)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "unsupported product", apiErr.Message)
	assert.Equal(t, []string{"other-product"}, apiErr.Values)
}

func TestGetOptions_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, nil, nil)
	_, err := client.GetOptions(ctx, testQuery)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHealth(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.Write([]byte("OK"))
	}))
	defer healthy.Close()

	require.NoError(t, NewClient(healthy.URL, nil, nil).Health(context.Background()))

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	err := NewClient(failing.URL, nil, nil).Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unhealthy status: 503")
}
