package agent

import (
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/suisage/suisage/internal/market"
	"github.com/suisage/suisage/internal/model"
	"github.com/suisage/suisage/internal/registry"
)

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// resultsPathPattern matches per-coin lookups such as
// ${results['SUI'].current}.
var resultsPathPattern = regexp.MustCompile(`results\['([^']+)'\]\.(.+)`)

// formatFinalAnswer turns the first action result into the user-facing
// answer. Recognized tool shapes get dedicated rendering; anything else
// falls back to ${...} placeholder substitution over the model's own
// final_answer template.
func formatFinalAnswer(finalAnswer string, results []model.ActionResult, query string) string {
	if len(results) == 0 || results[0].Result == nil {
		return finalAnswer
	}
	first := results[0]
	data := first.Result

	if first.Tool == "get_pool_info" {
		if pool, ok := data.(market.Pool); ok {
			if strings.Contains(finalAnswer, "${result}") || finalAnswer == "Pool Information: No data available" {
				summary := fmt.Sprintf(
					"This pool has a Total Value Locked (TVL) of %s, generates %s in daily fees, and offers an APR of %s.",
					money(pool.TVL), money(pool.Fee), percent(pool.APR))
				return summary + "\n\n" + formatPoolInfo(pool)
			}
			if strings.Contains(strings.ToLower(query), "fee") {
				return fmt.Sprintf("The daily trading fees for this pool are %s", money(pool.Fee))
			}
		}
	}

	if first.Tool == "get_pool_spot_price" {
		if price, ok := data.(float64); ok {
			in := trailingSegment(stringValue(first.Action.Input["coin_in_type"]), "token")
			out := trailingSegment(stringValue(first.Action.Input["coin_out_type"]), "token")
			return fmt.Sprintf("The current spot price is %s %s per %s", fixed(price, 6), out, in)
		}
	}

	if first.Tool == "get_coins_price_info" {
		if info, ok := data.(market.PriceInfo); ok && !strings.Contains(finalAnswer, "${results[") {
			return formatPriceLines(info, first.Action)
		}
	}

	if first.Tool == "get_all_pools" {
		if pools, ok := data.([]market.Pool); ok {
			sortBy := stringValue(first.Action.Input["sort_by"])
			if sortBy == "" {
				sortBy = "tvl"
			}
			return formatTopPools(pools, sortBy, intValue(first.Action.Input["limit"], 10))
		}
	}

	if first.Tool == "get_dca_orders" {
		if orders, ok := data.([]market.DcaOrder); ok {
			return formatDcaOrders(orders)
		}
	}

	return substitutePlaceholders(finalAnswer, data, first.Tool)
}

// formatPoolInfo renders a pool as a fixed-width table with reserves
// scaled out of base units (1e9).
func formatPoolInfo(pool market.Pool) string {
	if pool.ID == "" && len(pool.Tokens) == 0 {
		return "Pool information not available"
	}

	var rows []string
	for i, token := range pool.Tokens {
		reserve := "0"
		if i < len(pool.Reserves) {
			if raw, err := strconv.ParseFloat(pool.Reserves[i], 64); err == nil {
				reserve = formatNumber(raw/1e9, 2, true)
			}
		}
		rows = append(rows, fmt.Sprintf("%-10s: %12s", registry.SymbolForType(token), reserve))
	}

	var b strings.Builder
	b.WriteString("Pool Information\n")
	b.WriteString("================\n")
	fmt.Fprintf(&b, "ID: %s\n\n", pool.ID)
	b.WriteString("Tokens and Reserves:\n")
	for _, row := range rows {
		b.WriteString(row)
		b.WriteByte('\n')
	}
	b.WriteString("\nPool Stats:\n")
	fmt.Fprintf(&b, "• TVL: %s\n", money(pool.TVL))
	fmt.Fprintf(&b, "• Daily Fees: %s\n", money(pool.Fee))
	fmt.Fprintf(&b, "• APR: %s", percent(pool.APR))
	return b.String()
}

// formatPriceLines lists one "SYMBOL: $price" line per coin, in the order
// the action requested them so output stays deterministic.
func formatPriceLines(info market.PriceInfo, action model.Action) string {
	var ordered []string
	seen := make(map[string]bool)
	for _, requested := range stringSlice(action.Input["coins"]) {
		coinType := requested
		if !strings.Contains(coinType, "::") {
			if resolved, err := registry.Resolve(coinType); err == nil {
				coinType = resolved
			}
		} else {
			coinType = registry.NormalizeSuiType(coinType)
		}
		if _, ok := info[coinType]; ok && !seen[coinType] {
			ordered = append(ordered, coinType)
			seen[coinType] = true
		}
	}
	var rest []string
	for coinType := range info {
		if !seen[coinType] {
			rest = append(rest, coinType)
		}
	}
	sort.Strings(rest)
	ordered = append(ordered, rest...)

	lines := make([]string, 0, len(ordered))
	for _, coinType := range ordered {
		price := info[coinType]
		lines = append(lines, fmt.Sprintf("%s: $%s", registry.SymbolForType(coinType), formatNumber(price.Current, 2, false)))
	}
	return "Current prices:\n" + strings.Join(lines, "\n")
}

func formatTopPools(pools []market.Pool, sortBy string, limit int) string {
	ranked := make([]market.Pool, len(pools))
	copy(ranked, pools)
	market.SortPools(ranked, sortBy)
	ranked = market.TruncatePools(ranked, limit)
	if len(ranked) == 0 {
		return "No pools found"
	}
	blocks := make([]string, 0, len(ranked))
	for i, pool := range ranked {
		name := pool.Name
		if name == "" {
			name = pool.ID
		}
		blocks = append(blocks, fmt.Sprintf("%d. %s\n   TVL: %s\n   APR: %s\n   Daily Fees: %s",
			i+1, name, money(pool.TVL), percent(pool.APR), money(pool.Fee)))
	}
	header := fmt.Sprintf("Top %d pools by %s:\n\n", len(ranked), strings.ToUpper(sortBy))
	return header + strings.Join(blocks, "\n\n")
}

func formatDcaOrders(orders []market.DcaOrder) string {
	if len(orders) == 0 {
		return "No active DCA orders found for this wallet."
	}
	blocks := make([]string, 0, len(orders))
	for i, order := range orders {
		blocks = append(blocks, fmt.Sprintf("%d. Order ID: %s\n   From: %s\n   To: %s\n   Amount: %s\n   Frequency: %s",
			i+1, order.ID,
			registry.SymbolForType(order.FromCoin),
			registry.SymbolForType(order.ToCoin),
			order.Amount, order.Frequency))
	}
	return "DCA Orders:\n" + strings.Join(blocks, "\n\n")
}

// substitutePlaceholders replaces every ${...} expression in the template
// with a value drawn from the result. A placeholder that cannot be
// evaluated degrades to "Error processing data" without touching its
// neighbors.
func substitutePlaceholders(template string, data any, tool string) string {
	value := toJSONValue(data)
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		expr := match[2 : len(match)-1]
		if m := resultsPathPattern.FindStringSubmatch(expr); m != nil {
			return resolveCoinPlaceholder(match, value, m[1], m[2])
		}
		return resolveResultPlaceholder(match, value, expr, tool)
	})
}

// resolveCoinPlaceholder handles results['COIN'].field lookups against a
// price-info map keyed by full coin type.
func resolveCoinPlaceholder(match string, value any, coin, field string) string {
	coinType := coin
	if strings.Contains(coinType, "::") {
		coinType = registry.NormalizeSuiType(coinType)
	} else if resolved, err := registry.Resolve(coinType); err == nil {
		coinType = resolved
	}

	byCoin, ok := value.(map[string]any)
	if !ok {
		return "Error processing data"
	}
	entry, ok := byCoin[coinType].(map[string]any)
	if !ok {
		return match
	}
	field = strings.TrimSuffix(field, ".toFixed(3)")
	n, ok := entry[field].(float64)
	if !ok {
		return match
	}
	return fixed(n, 3)
}

func resolveResultPlaceholder(match string, value any, expr, tool string) string {
	path := strings.TrimPrefix(expr, "result.")
	if path == "result" || expr == "result" {
		path = ""
	}

	current := value
	if path != "" {
		keys := strings.Split(path, ".")
		for i, key := range keys {
			next, ok := lookupKey(current, key)
			if !ok {
				// A dead end before the last key means the template
				// navigated into nothing.
				if i < len(keys)-1 {
					return "Error processing data"
				}
				return "No data available"
			}
			current = next
		}
	}
	return renderValue(current, tool)
}

func lookupKey(value any, key string) (any, bool) {
	switch v := value.(type) {
	case map[string]any:
		next, ok := v[key]
		return next, ok
	case []any:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(v) {
			return nil, false
		}
		return v[idx], true
	default:
		return nil, false
	}
}

func renderValue(value any, tool string) string {
	switch v := value.(type) {
	case nil:
		return "No data available"
	case []any:
		if len(v) == 0 {
			return "No data found"
		}
		return prettyJSON(v)
	case map[string]any:
		if tool == "get_pool_info" {
			if pool, ok := poolFromValue(v); ok {
				return formatPoolInfo(pool)
			}
		}
		return prettyJSON(v)
	case float64:
		return fixed(v, 3)
	case bool:
		return strconv.FormatBool(v)
	case string:
		if n, err := strconv.ParseFloat(v, 64); err == nil && strings.TrimSpace(v) != "" {
			return fixed(n, 3)
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func poolFromValue(v map[string]any) (market.Pool, bool) {
	raw, err := json.Marshal(v)
	if err != nil {
		return market.Pool{}, false
	}
	var pool market.Pool
	if err := json.Unmarshal(raw, &pool); err != nil {
		return market.Pool{}, false
	}
	return pool, true
}

func prettyJSON(v any) string {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "Error processing data"
	}
	return string(raw)
}

// toJSONValue reduces typed results to the plain maps and slices the
// placeholder walker understands.
func toJSONValue(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

func trailingSegment(coinType, fallback string) string {
	parts := strings.Split(coinType, "::")
	last := parts[len(parts)-1]
	if last == "" {
		return fallback
	}
	return last
}

// fixed renders v with exactly the given number of fraction digits,
// rounding halves away from zero on the shortest decimal form of v.
func fixed(v float64, places int) string {
	r := new(big.Rat)
	if _, ok := r.SetString(strconv.FormatFloat(v, 'g', -1, 64)); !ok {
		return strconv.FormatFloat(v, 'f', places, 64)
	}
	return r.FloatString(places)
}

// formatNumber groups the integer part with commas and optionally trims
// trailing zeros from the fraction.
func formatNumber(v float64, places int, trim bool) string {
	s := fixed(v, places)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, frac = s[:dot], s[dot+1:]
	}
	if trim {
		frac = strings.TrimRight(frac, "0")
	}
	if n, ok := new(big.Int).SetString(intPart, 10); ok {
		intPart = humanize.BigComma(n)
	}

	out := intPart
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

func money(v float64) string {
	return "$" + formatNumber(v, 2, false)
}

func percent(v float64) string {
	return formatNumber(v, 2, false) + "%"
}
