package registry

import (
	"fmt"
	"sort"
	"strings"

	clierr "github.com/suisage/suisage/internal/errors"
)

// SUI's canonical coin type. On-chain data keys price maps by the
// zero-padded form, while user-facing tooling often emits the short
// "0x2::sui::SUI" form; NormalizeSuiType maps the latter to the former.
const (
	SuiTypeShort = "0x2::sui::SUI"
	SuiType      = "0x0000000000000000000000000000000000000000000000000000000000000002::sui::SUI"
)

// coinTypeBySymbol maps uppercase coin symbols to Sui mainnet coin types.
// Static; read-only at runtime.
var coinTypeBySymbol = map[string]string{
	"SUI":   SuiType,
	"AFSUI": "0xf325ce1300e8dac124071d3152c5c5ee6174914f8bc2161e88329cf579246efc::afsui::AFSUI",
	"KSUI":  "0x41ff228bfd566f0c707173ee6413962a77e3929588d010250e4e76f0d1cc0ad4::ksui::KSUI",
	"USDC":  "0x5d4b302506645c37ff133b98c4b50a5ae14841659738d6d733d59d0d217a93bf::coin::COIN",
	"USDT":  "0xc060006111016b8a020ad5b33834984a437aaa7d3c74c18e09a95d48aceab08c::coin::COIN",
	"WETH":  "0xaf8cd5edc19c4512f4259f0bee101a40d41ebed738ade5874359610ef8eeced5::coin::COIN",
	"BTC":   "0x027792d9fed7f9844eb4839566001bb6f6cb4804f66aa2da6fe1ee242d896881::coin::COIN",
	"CETUS": "0x06864a6f921804860930db6ddbe2e16acdf8504495ea7481637a1c8b9a8fe54b::cetus::CETUS",
}

// Resolve maps a case-insensitive coin symbol to its on-chain coin type.
func Resolve(symbol string) (string, error) {
	coinType, ok := coinTypeBySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return "", clierr.New(clierr.CodeUnknownSymbol, fmt.Sprintf("unknown coin symbol: %s", symbol))
	}
	return coinType, nil
}

// SymbolForType reverse-resolves a coin type to its display symbol. Unknown
// types fall back to the trailing segment of the module path.
func SymbolForType(coinType string) string {
	normalized := NormalizeSuiType(coinType)
	for symbol, registered := range coinTypeBySymbol {
		if registered == normalized {
			return symbol
		}
	}
	parts := strings.Split(coinType, "::")
	return parts[len(parts)-1]
}

// NormalizeSuiType rewrites the short SUI coin type to the zero-padded form
// used as a key in provider result maps. Other types pass through unchanged.
func NormalizeSuiType(coinType string) string {
	if coinType == SuiTypeShort {
		return SuiType
	}
	return coinType
}

// Symbols returns every registered symbol in sorted order.
func Symbols() []string {
	symbols := make([]string, 0, len(coinTypeBySymbol))
	for symbol := range coinTypeBySymbol {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Entry is one symbol/coin-type pair exposed for prompt rendering and the
// coins list command.
type Entry struct {
	Symbol   string `json:"symbol"`
	CoinType string `json:"coin_type"`
}

// Entries returns the whole table sorted by symbol.
func Entries() []Entry {
	symbols := Symbols()
	entries := make([]Entry, 0, len(symbols))
	for _, symbol := range symbols {
		entries = append(entries, Entry{Symbol: symbol, CoinType: coinTypeBySymbol[symbol]})
	}
	return entries
}
