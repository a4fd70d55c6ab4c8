package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/suisage/suisage/internal/catalog"
	clierr "github.com/suisage/suisage/internal/errors"
	"github.com/suisage/suisage/internal/model"
	"github.com/suisage/suisage/internal/registry"
)

// coinInputs names the parameters whose values are coin symbols to resolve
// before dispatch.
var coinInputs = map[string]bool{
	"token_type":    true,
	"coins":         true,
	"coin_in_type":  true,
	"coin_out_type": true,
}

// executeAction validates one model-requested action against the tool
// catalog, resolves coin symbols, applies defaults for omitted optional
// inputs and invokes the matching market-data operation. No retries: a
// failure here aborts the whole batch for the current query.
func (a *Agent) executeAction(ctx context.Context, action model.Action) (any, error) {
	tool, err := catalog.Lookup(action.Tool)
	if err != nil {
		return nil, err
	}

	input := make(map[string]any, len(action.Input))
	for k, v := range action.Input {
		input[k] = v
	}

	if err := resolveCoinValues(input); err != nil {
		return nil, err
	}

	for _, def := range tool.Inputs {
		if def.Optional {
			continue
		}
		if _, ok := input[def.Name]; !ok {
			return nil, clierr.New(clierr.CodeMissingInput,
				fmt.Sprintf("missing required input: %s for tool %s", def.Name, action.Tool))
		}
	}

	if _, ok := input["network"]; !ok && a.network != "" {
		input["network"] = a.network
	}
	for _, def := range tool.Inputs {
		if _, ok := input[def.Name]; !ok && def.Default != nil {
			input[def.Name] = def.Default
		}
	}

	result, err := a.invoke(ctx, action.Tool, input)
	if err != nil {
		if typed, ok := clierr.As(err); ok && typed.Code == clierr.CodeUnsupported {
			return nil, err
		}
		return nil, clierr.Wrap(clierr.CodeToolFailed, fmt.Sprintf("execute %s", action.Tool), err)
	}
	return result, nil
}

func (a *Agent) invoke(ctx context.Context, tool string, input map[string]any) (any, error) {
	network := stringValue(input["network"])
	switch tool {
	case "get_token_price":
		return a.market.TokenPrice(ctx, stringValue(input["token_type"]), network)
	case "get_coins_price_info":
		return a.market.CoinsPriceInfo(ctx, stringSlice(input["coins"]), network)
	case "get_pool_info":
		return a.market.Pool(ctx, stringValue(input["pool_id"]), network)
	case "get_all_pools":
		// sort_by and limit shape the formatted answer, not the fetch.
		return a.market.AllPools(ctx, network)
	case "get_pool_spot_price":
		return a.market.PoolSpotPrice(ctx,
			stringValue(input["pool_id"]),
			stringValue(input["coin_in_type"]),
			stringValue(input["coin_out_type"]),
			boolValue(input["with_fees"], true),
			network)
	case "get_trade_route":
		return a.market.TradeRoute(ctx,
			stringValue(input["coin_in_type"]),
			stringValue(input["coin_out_type"]),
			amountValue(input["coin_in_amount"]),
			network)
	case "get_staking_positions":
		return a.market.StakingPositions(ctx, stringValue(input["wallet_address"]), network)
	case "get_dca_orders":
		return a.market.DcaOrders(ctx, stringValue(input["wallet_address"]), network)
	default:
		return nil, clierr.New(clierr.CodeUnknownTool, fmt.Sprintf("unknown tool: %s", tool))
	}
}

// resolveCoinValues rewrites coin symbols into full coin types in place.
// Values already in module-path form pass through normalization only.
func resolveCoinValues(input map[string]any) error {
	for name := range coinInputs {
		value, ok := input[name]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case string:
			resolved, err := resolveCoinValue(v)
			if err != nil {
				return err
			}
			input[name] = resolved
		case []any:
			resolved := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return clierr.New(clierr.CodeUsage, fmt.Sprintf("input %s must contain strings", name))
				}
				r, err := resolveCoinValue(s)
				if err != nil {
					return err
				}
				resolved = append(resolved, r)
			}
			input[name] = resolved
		case []string:
			resolved := make([]string, 0, len(v))
			for _, s := range v {
				r, err := resolveCoinValue(s)
				if err != nil {
					return err
				}
				resolved = append(resolved, r)
			}
			input[name] = resolved
		}
	}
	return nil
}

func resolveCoinValue(v string) (string, error) {
	if strings.Contains(v, "::") {
		return registry.NormalizeSuiType(v), nil
	}
	return registry.Resolve(v)
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func boolValue(v any, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

func intValue(v any, fallback int) int {
	switch t := v.(type) {
	case int:
		return t
	case float64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return fallback
}

// amountValue renders a base-unit amount as an integer string whether the
// model emitted it as a string or a JSON number.
func amountValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', 0, 64)
	case int:
		return strconv.Itoa(t)
	}
	return ""
}

func stringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
