package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const optionsBody = `{
	"message": "ok",
	"properties": {"fromNetwork":"rsk-mainnet","txHash":"0xabc123","walletName":"metamask","txAge":42,"txFrom":"0xdead"},
	"options": {"list":[{"id":"tx-confirming","kind":"troubleshooting","title":"Still confirming","body":"Wait."}]}
}`

func optionsServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rsk-token-bridge/options" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"unsupported product","value":["` + strings.Split(r.URL.Path, "/")[1] + `"]}`))
			return
		}
		if r.Header.Get("Accept") == "text/html" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte("<section>Still confirming</section>"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(optionsBody))
	}))
}

var optionsArgs = []string{"options", "--from-network", "rsk-mainnet", "--tx-hash", "0xabc123", "--wallet", "metamask"}

func TestOptionsCommand_JSON(t *testing.T) {
	server := optionsServer(t)
	defer server.Close()

	out, err := runApp(t, append([]string{"--server-url", server.URL}, optionsArgs...)...)
	require.NoError(t, err)
	assert.JSONEq(t, optionsBody, out)
}

func TestOptionsCommand_JQ(t *testing.T) {
	server := optionsServer(t)
	defer server.Close()

	args := append([]string{"--server-url", server.URL}, optionsArgs...)

	out, err := runApp(t, append(args, "--jq", ".options.list[].title")...)
	require.NoError(t, err)
	assert.Equal(t, "Still confirming\n", out)

	out, err = runApp(t, append(args, "--jq", ".properties.txAge")...)
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
}

func TestOptionsCommand_InvalidJQ(t *testing.T) {
	_, err := runApp(t, append(optionsArgs, "--jq", ".options[")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse jq filter")
}

func TestOptionsCommand_HTML(t *testing.T) {
	server := optionsServer(t)
	defer server.Close()

	out, err := runApp(t, append(append([]string{"--server-url", server.URL}, optionsArgs...), "--html")...)
	require.NoError(t, err)
	assert.Equal(t, "<section>Still confirming</section>\n", out)
}

func TestOptionsCommand_HTMLWithJQ(t *testing.T) {
	_, err := runApp(t, append(optionsArgs, "--html", "--jq", ".")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be combined")
}

func TestOptionsCommand_Rejected(t *testing.T) {
	server := optionsServer(t)
	defer server.Close()

	args := append([]string{"--server-url", server.URL}, optionsArgs...)
	_, err := runApp(t, append(args, "--product", "other-product")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported product")
	assert.Contains(t, err.Error(), "other-product")
}

func TestOptionsCommand_MissingFlags(t *testing.T) {
	_, err := runApp(t, "options", "--from-network", "rsk-mainnet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Required flags")
}
