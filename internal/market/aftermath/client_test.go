package aftermath

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	clierr "github.com/suisage/suisage/internal/errors"
	"github.com/suisage/suisage/internal/httpx"
	"github.com/suisage/suisage/internal/registry"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(httpx.New(2*time.Second, 0), srv.URL, "MAINNET")
}

func TestCoinsPriceInfoPostsCoinTypes(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/price-info" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string][]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if len(body["coins"]) != 2 {
			t.Fatalf("unexpected coins: %v", body["coins"])
		}
		_, _ = w.Write([]byte(`{
			"` + registry.SuiType + `": {"current": 1.23, "previous": 1.2, "priceChange24h": 2.5},
			"` + body["coins"][1] + `": {"current": 1.0, "previous": 1.0, "priceChange24h": 0}
		}`))
	}))

	usdc, _ := registry.Resolve("USDC")
	info, err := c.CoinsPriceInfo(context.Background(), []string{registry.SuiType, usdc}, "")
	if err != nil {
		t.Fatalf("CoinsPriceInfo failed: %v", err)
	}
	if info[registry.SuiType].Current != 1.23 {
		t.Fatalf("unexpected SUI price: %+v", info[registry.SuiType])
	}
}

func TestTokenPriceMissingCoin(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"0xother::x::X": {"current": 1}}`))
	}))
	_, err := c.TokenPrice(context.Background(), registry.SuiType, "")
	if err == nil {
		t.Fatal("expected missing price error")
	}
	if !clierr.Is(err, clierr.CodeUnavailable) {
		t.Fatalf("expected CodeUnavailable, got %v", err)
	}
}

func TestPoolParsesResponse(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pools/0x52" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"id": "0x52",
			"tokens": ["` + registry.SuiType + `"],
			"reserves": ["1000000000"],
			"tvl": 1234567.891,
			"fee": 234.5,
			"apr": 12.345
		}`))
	}))

	pool, err := c.Pool(context.Background(), "0x52", "")
	if err != nil {
		t.Fatalf("Pool failed: %v", err)
	}
	if pool.ID != "0x52" || pool.TVL != 1234567.891 {
		t.Fatalf("unexpected pool: %+v", pool)
	}
}

func TestPoolSpotPrice(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pools/0x52/spot-price" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["withFees"] != true {
			t.Fatalf("expected withFees=true, got %v", body["withFees"])
		}
		_, _ = w.Write([]byte(`{"spotPrice": 0.987654}`))
	}))

	price, err := c.PoolSpotPrice(context.Background(), "0x52", "a::b::C", "d::e::F", true, "")
	if err != nil {
		t.Fatalf("PoolSpotPrice failed: %v", err)
	}
	if price != 0.987654 {
		t.Fatalf("unexpected price: %f", price)
	}
}

func TestTradeRoute(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/router/trade-route" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"coin_in_type": "a::b::C",
			"coin_out_type": "d::e::F",
			"coin_in_amount": "1000000000",
			"coin_out_amount": "987654321",
			"spot_price": 0.98,
			"hops": [{"pool_id": "0x52", "coin_in_type": "a::b::C", "coin_out_type": "d::e::F"}]
		}`))
	}))

	route, err := c.TradeRoute(context.Background(), "a::b::C", "d::e::F", "1000000000", "")
	if err != nil {
		t.Fatalf("TradeRoute failed: %v", err)
	}
	if route.CoinOutAmount != "987654321" || len(route.Hops) != 1 {
		t.Fatalf("unexpected route: %+v", route)
	}
}

func TestDcaOrdersEmptyList(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	orders, err := c.DcaOrders(context.Background(), "0xwallet", "")
	if err != nil {
		t.Fatalf("DcaOrders failed: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected no orders, got %+v", orders)
	}
}

func TestNetworkMismatchRejected(t *testing.T) {
	c := New(httpx.New(2*time.Second, 0), "http://unused.invalid", "MAINNET")
	_, err := c.AllPools(context.Background(), "TESTNET")
	if err == nil {
		t.Fatal("expected unsupported network error")
	}
	if !clierr.Is(err, clierr.CodeUnsupported) {
		t.Fatalf("expected CodeUnsupported, got %v", err)
	}
}
