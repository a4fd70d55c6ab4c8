// Package catalog holds the static registry of market-data tools the model
// may request. Tool identity is the name; inputs are ordered and optional
// inputs carry the default substituted when the model omits them.
package catalog

import (
	"fmt"

	clierr "github.com/suisage/suisage/internal/errors"
)

type Input struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Optional    bool   `json:"optional,omitempty"`
	Default     any    `json:"default,omitempty"`
}

type Tool struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Inputs      []Input `json:"inputs"`
	Output      string  `json:"output"`
}

// Required reports whether the named input must be present in an action.
func (t Tool) Required(name string) bool {
	for _, input := range t.Inputs {
		if input.Name == name {
			return !input.Optional
		}
	}
	return false
}

var tools = []Tool{
	{
		Name:        "get_token_price",
		Description: "Fetches the current USD price for a single coin",
		Inputs: []Input{
			{Name: "token_type", Type: "string", Description: "Coin symbol or full coin type"},
			{Name: "network", Type: "string", Description: "Target network", Optional: true, Default: "MAINNET"},
		},
		Output: "Current price, previous price and 24h change",
	},
	{
		Name:        "get_coins_price_info",
		Description: "Fetches price info for several coins at once",
		Inputs: []Input{
			{Name: "coins", Type: "string[]", Description: "Coin symbols or full coin types"},
			{Name: "network", Type: "string", Description: "Target network", Optional: true, Default: "MAINNET"},
		},
		Output: "Map from coin type to price info",
	},
	{
		Name:        "get_pool_info",
		Description: "Fetches metrics for one liquidity pool",
		Inputs: []Input{
			{Name: "pool_id", Type: "string", Description: "Pool object ID"},
			{Name: "network", Type: "string", Description: "Target network", Optional: true, Default: "MAINNET"},
		},
		Output: "Pool tokens, reserves, TVL, daily fee and APR",
	},
	{
		Name:        "get_all_pools",
		Description: "Fetches metrics for every pool, optionally ranked",
		Inputs: []Input{
			{Name: "sort_by", Type: "string", Description: "Ranking field: tvl, apr or fees", Optional: true, Default: "tvl"},
			{Name: "limit", Type: "number", Description: "Maximum pools to return", Optional: true, Default: 10},
			{Name: "network", Type: "string", Description: "Target network", Optional: true, Default: "MAINNET"},
		},
		Output: "List of pool metrics",
	},
	{
		Name:        "get_pool_spot_price",
		Description: "Fetches the instantaneous exchange rate between two pool assets",
		Inputs: []Input{
			{Name: "pool_id", Type: "string", Description: "Pool object ID"},
			{Name: "coin_in_type", Type: "string", Description: "Input coin symbol or type"},
			{Name: "coin_out_type", Type: "string", Description: "Output coin symbol or type"},
			{Name: "with_fees", Type: "boolean", Description: "Include trading fees in the rate", Optional: true, Default: true},
			{Name: "network", Type: "string", Description: "Target network", Optional: true, Default: "MAINNET"},
		},
		Output: "Spot price as output coin per input coin",
	},
	{
		Name:        "get_trade_route",
		Description: "Finds the best route for trading one coin into another",
		Inputs: []Input{
			{Name: "coin_in_type", Type: "string", Description: "Input coin symbol or type"},
			{Name: "coin_out_type", Type: "string", Description: "Output coin symbol or type"},
			{Name: "coin_in_amount", Type: "string", Description: "Input amount in base units"},
			{Name: "network", Type: "string", Description: "Target network", Optional: true, Default: "MAINNET"},
		},
		Output: "Route hops and estimated output amount",
	},
	{
		Name:        "get_staking_positions",
		Description: "Fetches staking positions held by a wallet",
		Inputs: []Input{
			{Name: "wallet_address", Type: "string", Description: "Wallet address"},
			{Name: "network", Type: "string", Description: "Target network", Optional: true, Default: "MAINNET"},
		},
		Output: "List of staking positions",
	},
	{
		Name:        "get_dca_orders",
		Description: "Fetches active DCA orders held by a wallet",
		Inputs: []Input{
			{Name: "wallet_address", Type: "string", Description: "Wallet address"},
			{Name: "network", Type: "string", Description: "Target network", Optional: true, Default: "MAINNET"},
		},
		Output: "List of recurring trade orders",
	},
}

// Tools returns the full catalog in declaration order.
func Tools() []Tool {
	return tools
}

// Lookup finds a tool by name.
func Lookup(name string) (Tool, error) {
	for _, tool := range tools {
		if tool.Name == name {
			return tool, nil
		}
	}
	return Tool{}, clierr.New(clierr.CodeUnknownTool, fmt.Sprintf("unknown tool: %s", name))
}
