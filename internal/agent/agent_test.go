package agent

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/suisage/suisage/internal/llm"
	"github.com/suisage/suisage/internal/market"
	"github.com/suisage/suisage/internal/model"
	"github.com/suisage/suisage/internal/registry"
)

type stubLLM struct {
	reply string
	err   error
}

func (s *stubLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	return s.reply, s.err
}

// stubMarket records the inputs of each call and serves canned data.
type stubMarket struct {
	priceByCoin map[string]market.TokenPrice
	pool        market.Pool
	pools       []market.Pool
	spotPrice   float64
	route       market.TradeRoute
	staking     []market.StakingPosition
	dca         []market.DcaOrder
	err         error

	calls     []string
	lastCoin  string
	lastCoins []string
	lastPool  string
	lastNet   string
}

func (s *stubMarket) fail(name string) error {
	s.calls = append(s.calls, name)
	return s.err
}

func (s *stubMarket) TokenPrice(ctx context.Context, coinType, network string) (market.TokenPrice, error) {
	s.lastCoin, s.lastNet = coinType, network
	if err := s.fail("get_token_price"); err != nil {
		return market.TokenPrice{}, err
	}
	return s.priceByCoin[coinType], nil
}

func (s *stubMarket) CoinsPriceInfo(ctx context.Context, coinTypes []string, network string) (market.PriceInfo, error) {
	s.lastCoins, s.lastNet = coinTypes, network
	if err := s.fail("get_coins_price_info"); err != nil {
		return nil, err
	}
	info := make(market.PriceInfo)
	for _, coinType := range coinTypes {
		info[coinType] = s.priceByCoin[coinType]
	}
	return info, nil
}

func (s *stubMarket) Pool(ctx context.Context, poolID, network string) (market.Pool, error) {
	s.lastPool, s.lastNet = poolID, network
	if err := s.fail("get_pool_info"); err != nil {
		return market.Pool{}, err
	}
	return s.pool, nil
}

func (s *stubMarket) AllPools(ctx context.Context, network string) ([]market.Pool, error) {
	s.lastNet = network
	if err := s.fail("get_all_pools"); err != nil {
		return nil, err
	}
	return s.pools, nil
}

func (s *stubMarket) PoolSpotPrice(ctx context.Context, poolID, coinInType, coinOutType string, withFees bool, network string) (float64, error) {
	s.lastPool, s.lastNet = poolID, network
	if err := s.fail("get_pool_spot_price"); err != nil {
		return 0, err
	}
	return s.spotPrice, nil
}

func (s *stubMarket) TradeRoute(ctx context.Context, coinInType, coinOutType, coinInAmount, network string) (market.TradeRoute, error) {
	s.lastNet = network
	if err := s.fail("get_trade_route"); err != nil {
		return market.TradeRoute{}, err
	}
	return s.route, nil
}

func (s *stubMarket) StakingPositions(ctx context.Context, walletAddress, network string) ([]market.StakingPosition, error) {
	s.lastNet = network
	if err := s.fail("get_staking_positions"); err != nil {
		return nil, err
	}
	return s.staking, nil
}

func (s *stubMarket) DcaOrders(ctx context.Context, walletAddress, network string) ([]market.DcaOrder, error) {
	s.lastNet = network
	if err := s.fail("get_dca_orders"); err != nil {
		return nil, err
	}
	return s.dca, nil
}

func TestAskResolvesSymbolAndSubstitutesResult(t *testing.T) {
	mkt := &stubMarket{
		priceByCoin: map[string]market.TokenPrice{
			registry.SuiType: {Current: 1.5, Previous: 1.4, PriceChange24h: 7.14},
		},
	}
	reply := "Here you go:\n```json\n{" +
		`"status":"success","reasoning":"price lookup",` +
		`"actions":[{"tool":"get_token_price","input":{"token_type":"SUI"}}],` +
		`"final_answer":"SUI is at $${result.current}"` +
		"}\n```"
	agent := New(&stubLLM{reply: reply}, mkt, WithNetwork("MAINNET"))

	resp := agent.Ask(context.Background(), "what is the price of SUI?")
	if resp.Status != model.StatusSuccess {
		t.Fatalf("status = %q (%s), want success", resp.Status, resp.Error)
	}
	if mkt.lastCoin != registry.SuiType {
		t.Errorf("coin type = %q, want resolved SUI type", mkt.lastCoin)
	}
	if mkt.lastNet != "MAINNET" {
		t.Errorf("network = %q, want MAINNET", mkt.lastNet)
	}
	if want := "SUI is at $1.500"; resp.FinalAnswer != want {
		t.Errorf("final answer = %q, want %q", resp.FinalAnswer, want)
	}
	if len(resp.Results) != 1 || resp.Results[0].Tool != "get_token_price" {
		t.Errorf("results = %+v, want one get_token_price result", resp.Results)
	}
}

func TestAskMissingRequiredInput(t *testing.T) {
	reply := `{"status":"success","actions":[{"tool":"get_pool_info","input":{}}],"final_answer":"${result}"}`
	agent := New(&stubLLM{reply: reply}, &stubMarket{})

	resp := agent.Ask(context.Background(), "pool info")
	if resp.Status != model.StatusError {
		t.Fatalf("status = %q, want error", resp.Status)
	}
	if !strings.Contains(resp.Error, "pool_id") || !strings.Contains(resp.Error, "get_pool_info") {
		t.Errorf("error = %q, want it to name the missing input and the tool", resp.Error)
	}
}

func TestAskUnknownTool(t *testing.T) {
	reply := `{"status":"success","actions":[{"tool":"get_weather","input":{}}],"final_answer":"x"}`
	agent := New(&stubLLM{reply: reply}, &stubMarket{})

	resp := agent.Ask(context.Background(), "weather in Lisbon")
	if resp.Status != model.StatusError {
		t.Fatalf("status = %q, want error", resp.Status)
	}
	if !strings.Contains(resp.Error, "get_weather") {
		t.Errorf("error = %q, want it to name the tool", resp.Error)
	}
}

func TestAskUnknownSymbol(t *testing.T) {
	reply := `{"status":"success","actions":[{"tool":"get_token_price","input":{"token_type":"DOGE"}}],"final_answer":"x"}`
	mkt := &stubMarket{}
	agent := New(&stubLLM{reply: reply}, mkt)

	resp := agent.Ask(context.Background(), "price of DOGE")
	if resp.Status != model.StatusError {
		t.Fatalf("status = %q, want error", resp.Status)
	}
	if !strings.Contains(resp.Error, "DOGE") {
		t.Errorf("error = %q, want it to name the symbol", resp.Error)
	}
	if len(mkt.calls) != 0 {
		t.Errorf("market called %v, want no calls", mkt.calls)
	}
}

func TestAskRequiresInfo(t *testing.T) {
	reply := `{"status":"requires_info","request":"Which pool do you mean?"}`
	mkt := &stubMarket{}
	agent := New(&stubLLM{reply: reply}, mkt)

	resp := agent.Ask(context.Background(), "what is the APR?")
	if resp.Status != model.StatusNeedsInfo {
		t.Fatalf("status = %q, want needs_info", resp.Status)
	}
	if resp.Request != "Which pool do you mean?" {
		t.Errorf("request = %q", resp.Request)
	}
	if len(mkt.calls) != 0 {
		t.Errorf("market called %v, want no calls", mkt.calls)
	}
}

func TestAskModelReportedError(t *testing.T) {
	reply := `{"status":"error","error_message":"I cannot execute trades"}`
	agent := New(&stubLLM{reply: reply}, &stubMarket{})

	resp := agent.Ask(context.Background(), "swap 10 SUI for USDC")
	if resp.Status != model.StatusError {
		t.Fatalf("status = %q, want error", resp.Status)
	}
	if !strings.Contains(resp.Error, "I cannot execute trades") {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestAskUnparsableReply(t *testing.T) {
	agent := New(&stubLLM{reply: "Sorry, I had trouble with that one."}, &stubMarket{})

	resp := agent.Ask(context.Background(), "price of SUI")
	if resp.Status != model.StatusError {
		t.Fatalf("status = %q, want error", resp.Status)
	}
	if resp.Error == "" {
		t.Error("error message is empty")
	}
}

func TestAskNoActionsKeepsAnswerVerbatim(t *testing.T) {
	reply := `{"status":"success","reasoning":"greeting","actions":[],"final_answer":"Hello! Ask me about Sui market data."}`
	agent := New(&stubLLM{reply: reply}, &stubMarket{})

	resp := agent.Ask(context.Background(), "hi")
	if resp.Status != model.StatusSuccess {
		t.Fatalf("status = %q, want success", resp.Status)
	}
	if want := "Hello! Ask me about Sui market data."; resp.FinalAnswer != want {
		t.Errorf("final answer = %q, want %q", resp.FinalAnswer, want)
	}
}

func TestAskFailsAsUnitWhenAnyActionFails(t *testing.T) {
	reply := `{"status":"success","actions":[` +
		`{"tool":"get_token_price","input":{"token_type":"SUI"}},` +
		`{"tool":"get_pool_info","input":{"pool_id":"0xabc"}}` +
		`],"final_answer":"x"}`
	mkt := &stubMarket{priceByCoin: map[string]market.TokenPrice{}}
	agent := New(&stubLLM{reply: reply}, mkt)

	// Second action has no required input problem; make the provider fail
	// on every call instead and check nothing leaks through.
	mkt.err = context.DeadlineExceeded

	resp := agent.Ask(context.Background(), "price and pool")
	if resp.Status != model.StatusError {
		t.Fatalf("status = %q, want error", resp.Status)
	}
	if len(resp.Results) != 0 {
		t.Errorf("results = %+v, want none on failure", resp.Results)
	}
}

func TestExecuteActionIsDeterministic(t *testing.T) {
	mkt := &stubMarket{
		priceByCoin: map[string]market.TokenPrice{
			registry.SuiType: {Current: 1.5, Previous: 1.4, PriceChange24h: 7.14},
		},
	}
	agent := New(&stubLLM{}, mkt)
	action := model.Action{Tool: "get_token_price", Input: map[string]any{"token_type": "SUI"}}

	first, err := agent.executeAction(context.Background(), action)
	if err != nil {
		t.Fatalf("first execute: %v", err)
	}
	second, err := agent.executeAction(context.Background(), action)
	if err != nil {
		t.Fatalf("second execute: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
	if got, ok := action.Input["token_type"]; !ok || got != "SUI" {
		t.Errorf("action input mutated: %v", action.Input)
	}
}

func TestAskDispatchTracksEveryCatalogTool(t *testing.T) {
	wallet := "0x3a1f6e84bfa06dcf2f5c78f2e0b6f1a5f0b4b4eac1f0b6cfcf3e2d1a9b8c7d6e"
	cases := []struct {
		name  string
		reply string
		want  string
	}{
		{
			name:  "coins price info",
			reply: `{"status":"success","actions":[{"tool":"get_coins_price_info","input":{"coins":["SUI","USDC"]}}],"final_answer":"x"}`,
			want:  "get_coins_price_info",
		},
		{
			name:  "all pools",
			reply: `{"status":"success","actions":[{"tool":"get_all_pools","input":{"sort_by":"apr","limit":3}}],"final_answer":"x"}`,
			want:  "get_all_pools",
		},
		{
			name:  "spot price",
			reply: `{"status":"success","actions":[{"tool":"get_pool_spot_price","input":{"pool_id":"0xabc","coin_in_type":"SUI","coin_out_type":"USDC"}}],"final_answer":"x"}`,
			want:  "get_pool_spot_price",
		},
		{
			name:  "trade route",
			reply: `{"status":"success","actions":[{"tool":"get_trade_route","input":{"coin_in_type":"SUI","coin_out_type":"USDC","coin_in_amount":"1000000000"}}],"final_answer":"${result.coin_out_amount}"}`,
			want:  "get_trade_route",
		},
		{
			name:  "staking positions",
			reply: `{"status":"success","actions":[{"tool":"get_staking_positions","input":{"wallet_address":"` + wallet + `"}}],"final_answer":"${result}"}`,
			want:  "get_staking_positions",
		},
		{
			name:  "dca orders",
			reply: `{"status":"success","actions":[{"tool":"get_dca_orders","input":{"wallet_address":"` + wallet + `"}}],"final_answer":"${result}"}`,
			want:  "get_dca_orders",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mkt := &stubMarket{priceByCoin: map[string]market.TokenPrice{}}
			agent := New(&stubLLM{reply: tc.reply}, mkt)

			resp := agent.Ask(context.Background(), "query")
			if resp.Status != model.StatusSuccess {
				t.Fatalf("status = %q (%s), want success", resp.Status, resp.Error)
			}
			if len(mkt.calls) != 1 || mkt.calls[0] != tc.want {
				t.Errorf("calls = %v, want [%s]", mkt.calls, tc.want)
			}
		})
	}
}
