// Package market defines the market-data provider boundary: typed read
// operations over token prices, pools, routes, staking positions and DCA
// orders. Implementations live in subpackages.
package market

import (
	"context"
	"sort"
	"strings"
)

// TokenPrice is the USD price snapshot for one coin.
type TokenPrice struct {
	Current        float64 `json:"current"`
	Previous       float64 `json:"previous"`
	PriceChange24h float64 `json:"priceChange24h"`
}

// PriceInfo maps a coin type to its price snapshot.
type PriceInfo map[string]TokenPrice

// Pool is one liquidity pool with its metrics. Reserves are base-unit
// integer strings aligned index-for-index with Tokens.
type Pool struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	Tokens   []string `json:"tokens"`
	Reserves []string `json:"reserves"`
	TVL      float64  `json:"tvl"`
	Fee      float64  `json:"fee"`
	APR      float64  `json:"apr"`
}

// RouteHop is one pool traversal within a trade route.
type RouteHop struct {
	PoolID      string `json:"pool_id"`
	CoinInType  string `json:"coin_in_type"`
	CoinOutType string `json:"coin_out_type"`
}

// TradeRoute is the best path found for trading one coin into another.
type TradeRoute struct {
	CoinInType    string     `json:"coin_in_type"`
	CoinOutType   string     `json:"coin_out_type"`
	CoinInAmount  string     `json:"coin_in_amount"`
	CoinOutAmount string     `json:"coin_out_amount"`
	SpotPrice     float64    `json:"spot_price"`
	Hops          []RouteHop `json:"hops"`
}

// StakingPosition is one staked balance held by a wallet.
type StakingPosition struct {
	StakedSuiID string `json:"staked_sui_id"`
	Validator   string `json:"validator"`
	Principal   string `json:"principal"`
	Status      string `json:"status"`
}

// DcaOrder is one recurring scheduled trade instruction.
type DcaOrder struct {
	ID        string `json:"id"`
	FromCoin  string `json:"fromCoin"`
	ToCoin    string `json:"toCoin"`
	Amount    string `json:"amount"`
	Frequency string `json:"frequency"`
}

// Client is the read-only market-data provider contract. Network selects
// the target chain environment; empty means the provider default.
type Client interface {
	TokenPrice(ctx context.Context, coinType, network string) (TokenPrice, error)
	CoinsPriceInfo(ctx context.Context, coinTypes []string, network string) (PriceInfo, error)
	Pool(ctx context.Context, poolID, network string) (Pool, error)
	AllPools(ctx context.Context, network string) ([]Pool, error)
	PoolSpotPrice(ctx context.Context, poolID, coinInType, coinOutType string, withFees bool, network string) (float64, error)
	TradeRoute(ctx context.Context, coinInType, coinOutType, coinInAmount, network string) (TradeRoute, error)
	StakingPositions(ctx context.Context, walletAddress, network string) ([]StakingPosition, error)
	DcaOrders(ctx context.Context, walletAddress, network string) ([]DcaOrder, error)
}

// SortPools orders pools descending by the given field (tvl, apr or fees);
// anything else falls back to tvl.
func SortPools(pools []Pool, sortBy string) {
	sortBy = strings.ToLower(strings.TrimSpace(sortBy))
	sort.SliceStable(pools, func(i, j int) bool {
		a, b := pools[i], pools[j]
		switch sortBy {
		case "apr":
			return a.APR > b.APR
		case "fees":
			return a.Fee > b.Fee
		default:
			return a.TVL > b.TVL
		}
	})
}

// TruncatePools caps the list at limit; non-positive limits leave it whole.
func TruncatePools(pools []Pool, limit int) []Pool {
	if limit <= 0 || len(pools) <= limit {
		return pools
	}
	return pools[:limit]
}
