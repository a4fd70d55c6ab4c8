// Package aftermath implements market.Client against the Aftermath Finance
// aggregator API.
package aftermath

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	clierr "github.com/suisage/suisage/internal/errors"
	"github.com/suisage/suisage/internal/httpx"
	"github.com/suisage/suisage/internal/market"
)

const defaultBaseURL = "https://aftermath.finance/api"

// Interface compliance check.
var _ market.Client = (*Client)(nil)

type Client struct {
	http    *httpx.Client
	baseURL string
	network string
}

// New builds a client for the given network (MAINNET is the only supported
// one today). baseURL overrides the production endpoint, mainly for tests.
func New(httpClient *httpx.Client, baseURL, network string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	network = strings.ToUpper(strings.TrimSpace(network))
	if network == "" {
		network = "MAINNET"
	}
	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		network: network,
	}
}

// checkNetwork validates the per-call network override against the network
// the client was built for.
func (c *Client) checkNetwork(network string) error {
	network = strings.ToUpper(strings.TrimSpace(network))
	if network == "" || network == c.network {
		return nil
	}
	return clierr.New(clierr.CodeUnsupported, fmt.Sprintf("aftermath client is configured for %s, not %s", c.network, network))
}

func (c *Client) TokenPrice(ctx context.Context, coinType, network string) (market.TokenPrice, error) {
	info, err := c.CoinsPriceInfo(ctx, []string{coinType}, network)
	if err != nil {
		return market.TokenPrice{}, err
	}
	price, ok := info[coinType]
	if !ok {
		return market.TokenPrice{}, clierr.New(clierr.CodeUnavailable, fmt.Sprintf("no price data for %s", coinType))
	}
	return price, nil
}

func (c *Client) CoinsPriceInfo(ctx context.Context, coinTypes []string, network string) (market.PriceInfo, error) {
	if err := c.checkNetwork(network); err != nil {
		return nil, err
	}
	if len(coinTypes) == 0 {
		return nil, clierr.New(clierr.CodeUsage, "at least one coin is required")
	}

	var resp market.PriceInfo
	body := map[string]any{"coins": coinTypes}
	if err := c.http.PostJSON(ctx, c.baseURL+"/price-info", body, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp) == 0 {
		return nil, clierr.New(clierr.CodeUnavailable, "provider returned no price data")
	}
	return resp, nil
}

func (c *Client) Pool(ctx context.Context, poolID, network string) (market.Pool, error) {
	if err := c.checkNetwork(network); err != nil {
		return market.Pool{}, err
	}
	var resp market.Pool
	endpoint := fmt.Sprintf("%s/pools/%s", c.baseURL, url.PathEscape(poolID))
	if err := c.http.GetJSON(ctx, endpoint, nil, &resp); err != nil {
		return market.Pool{}, err
	}
	if strings.TrimSpace(resp.ID) == "" {
		return market.Pool{}, clierr.New(clierr.CodeUnavailable, fmt.Sprintf("no pool data for %s", poolID))
	}
	return resp, nil
}

func (c *Client) AllPools(ctx context.Context, network string) ([]market.Pool, error) {
	if err := c.checkNetwork(network); err != nil {
		return nil, err
	}
	var resp []market.Pool
	if err := c.http.GetJSON(ctx, c.baseURL+"/pools", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) PoolSpotPrice(ctx context.Context, poolID, coinInType, coinOutType string, withFees bool, network string) (float64, error) {
	if err := c.checkNetwork(network); err != nil {
		return 0, err
	}
	body := map[string]any{
		"coinInType":  coinInType,
		"coinOutType": coinOutType,
		"withFees":    withFees,
	}
	var resp struct {
		SpotPrice float64 `json:"spotPrice"`
	}
	endpoint := fmt.Sprintf("%s/pools/%s/spot-price", c.baseURL, url.PathEscape(poolID))
	if err := c.http.PostJSON(ctx, endpoint, body, nil, &resp); err != nil {
		return 0, err
	}
	if resp.SpotPrice <= 0 {
		return 0, clierr.New(clierr.CodeUnavailable, "provider returned no spot price")
	}
	return resp.SpotPrice, nil
}

func (c *Client) TradeRoute(ctx context.Context, coinInType, coinOutType, coinInAmount, network string) (market.TradeRoute, error) {
	if err := c.checkNetwork(network); err != nil {
		return market.TradeRoute{}, err
	}
	body := map[string]any{
		"coinInType":   coinInType,
		"coinOutType":  coinOutType,
		"coinInAmount": coinInAmount,
	}
	var resp market.TradeRoute
	if err := c.http.PostJSON(ctx, c.baseURL+"/router/trade-route", body, nil, &resp); err != nil {
		return market.TradeRoute{}, err
	}
	if strings.TrimSpace(resp.CoinOutAmount) == "" {
		return market.TradeRoute{}, clierr.New(clierr.CodeUnavailable, "provider returned no route")
	}
	return resp, nil
}

func (c *Client) StakingPositions(ctx context.Context, walletAddress, network string) ([]market.StakingPosition, error) {
	if err := c.checkNetwork(network); err != nil {
		return nil, err
	}
	var resp []market.StakingPosition
	endpoint := fmt.Sprintf("%s/staking/positions/%s", c.baseURL, url.PathEscape(walletAddress))
	if err := c.http.GetJSON(ctx, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) DcaOrders(ctx context.Context, walletAddress, network string) ([]market.DcaOrder, error) {
	if err := c.checkNetwork(network); err != nil {
		return nil, err
	}
	var resp []market.DcaOrder
	endpoint := fmt.Sprintf("%s/dca/orders/%s", c.baseURL, url.PathEscape(walletAddress))
	if err := c.http.GetJSON(ctx, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
