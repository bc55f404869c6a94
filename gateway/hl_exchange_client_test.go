package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hl-seeder/monitor"
)

const testMeta = `{"universe":[{"name":"BTC","szDecimals":5,"maxLeverage":40},{"name":"ETH","szDecimals":4,"maxLeverage":25}]}`

// newTestExchange wires an ExchangeClient against an httptest server that
// serves perp meta and delegates /exchange to handle.
func newTestExchange(t *testing.T, mon *monitor.Monitor, handle func(t *testing.T, payload map[string]any) string) *ExchangeClient {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		switch r.URL.Path {
		case "/info":
			var req map[string]string
			require.NoError(t, json.Unmarshal(body, &req))
			require.Equal(t, "meta", req["type"])
			io.WriteString(w, testMeta)
		case "/exchange":
			var payload map[string]any
			require.NoError(t, json.Unmarshal(body, &payload))
			io.WriteString(w, handle(t, payload))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	t.Cleanup(ts.Close)

	client, err := NewExchangeClient(ExchangeConfig{
		PrivateKey: testKey,
		BaseURL:    ts.URL,
		HTTPClient: ts.Client(),
		Monitor:    mon,
	})
	require.NoError(t, err)
	return client
}

func TestExchangeClientUpdateLeverage(t *testing.T) {
	mon := monitor.New(monitor.DefaultConfig())
	client := newTestExchange(t, mon, func(t *testing.T, payload map[string]any) string {
		action, ok := payload["action"].(map[string]any)
		require.True(t, ok, "payload missing action")
		assert.Equal(t, "updateLeverage", action["type"])
		assert.Equal(t, float64(0), action["asset"]) // BTC is index 0 in the test meta
		assert.Equal(t, true, action["isCross"])
		assert.Equal(t, float64(5), action["leverage"])

		assert.Greater(t, payload["nonce"].(float64), float64(0))
		assert.Nil(t, payload["vaultAddress"])

		sig, ok := payload["signature"].(map[string]any)
		require.True(t, ok, "payload missing signature")
		assert.Len(t, sig["r"], 66)
		assert.Len(t, sig["s"], 66)

		return `{"status":"ok","response":{"type":"default"}}`
	})

	resp, err := client.UpdateLeverage(5, "BTC", true)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)

	assert.Equal(t, float64(1), testutil.ToFloat64(mon.RESTRequests("/info")))
	assert.Equal(t, float64(1), testutil.ToFloat64(mon.RESTRequests("/exchange")))
	assert.Equal(t, float64(0), testutil.ToFloat64(mon.RESTErrors("/exchange")))
}

func TestExchangeClientPlaceOrder(t *testing.T) {
	client := newTestExchange(t, nil, func(t *testing.T, payload map[string]any) string {
		action := payload["action"].(map[string]any)
		assert.Equal(t, "order", action["type"])
		assert.Equal(t, "na", action["grouping"])

		orders := action["orders"].([]any)
		require.Len(t, orders, 1)
		order := orders[0].(map[string]any)
		assert.Equal(t, float64(1), order["a"]) // ETH
		assert.Equal(t, true, order["b"])
		assert.Equal(t, "3000.5", order["p"])
		assert.Equal(t, "0.01", order["s"])
		assert.Equal(t, false, order["r"])
		limit := order["t"].(map[string]any)["limit"].(map[string]any)
		assert.Equal(t, TifIoc, limit["tif"])

		return `{"status":"ok","response":{"type":"order","data":{"statuses":[{"filled":{"avgPx":"3000.5","totalSz":"0.01"}}]}}}`
	})

	resp, err := client.PlaceOrder("ETH", true, 0.01, 3000.5, TifIoc)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	statuses := resp.OrderStatuses()
	require.Len(t, statuses, 1)
	require.NotNil(t, statuses[0].Filled)
	assert.Equal(t, "3000.5", statuses[0].Filled.AvgPx)
}

func TestExchangeClientUnknownAsset(t *testing.T) {
	client := newTestExchange(t, nil, func(t *testing.T, payload map[string]any) string {
		assert.Fail(t, "no exchange call expected for an unknown asset")
		return `{"status":"ok"}`
	})
	_, err := client.UpdateLeverage(5, "DOGE2", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown asset")
}

func TestExchangeClientNonceMonotonic(t *testing.T) {
	client := newTestExchange(t, nil, func(t *testing.T, payload map[string]any) string {
		return `{"status":"ok","response":{"type":"default"}}`
	})
	seen := make(map[int64]bool)
	prev := int64(0)
	for i := 0; i < 50; i++ {
		n := client.nextNonce()
		assert.Greater(t, n, prev)
		assert.False(t, seen[n])
		seen[n] = true
		prev = n
	}
}

func TestExchangeClientBusinessRejectionIsNotAnError(t *testing.T) {
	client := newTestExchange(t, nil, func(t *testing.T, payload map[string]any) string {
		return `{"status":"err","response":"Invalid leverage"}`
	})
	resp, err := client.UpdateLeverage(500, "BTC", true)
	require.NoError(t, err)
	assert.Equal(t, "err", resp.Status)
	assert.Equal(t, `{"status":"err","response":"Invalid leverage"}`, resp.String())
}

func TestRESTClientTransportErrors(t *testing.T) {
	mon := monitor.New(monitor.DefaultConfig())
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream down")
	}))
	defer ts.Close()

	rest := &RESTClient{BaseURL: ts.URL, HTTPClient: ts.Client(), Monitor: mon}
	var out map[string]any
	err := rest.PostJSON("/exchange", map[string]string{}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Equal(t, float64(1), testutil.ToFloat64(mon.RESTErrors("/exchange")))

	var nilClient *RESTClient
	assert.Error(t, nilClient.PostJSON("/info", nil, nil))
}
