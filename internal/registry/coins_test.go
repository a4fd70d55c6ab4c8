package registry

import (
	"strings"
	"testing"

	clierr "github.com/suisage/suisage/internal/errors"
)

func TestResolveIsCaseInsensitive(t *testing.T) {
	for _, symbol := range Symbols() {
		upper, err := Resolve(symbol)
		if err != nil {
			t.Fatalf("Resolve(%s) failed: %v", symbol, err)
		}
		lower, err := Resolve(strings.ToLower(symbol))
		if err != nil {
			t.Fatalf("Resolve(%s) failed: %v", strings.ToLower(symbol), err)
		}
		if upper != lower {
			t.Fatalf("case-sensitive resolution for %s: %s != %s", symbol, upper, lower)
		}
	}
}

func TestResolveUnknownSymbol(t *testing.T) {
	_, err := Resolve("DOGE")
	if err == nil {
		t.Fatal("expected unknown symbol error")
	}
	if !clierr.Is(err, clierr.CodeUnknownSymbol) {
		t.Fatalf("expected CodeUnknownSymbol, got %v", err)
	}
}

func TestNormalizeSuiType(t *testing.T) {
	if got := NormalizeSuiType(SuiTypeShort); got != SuiType {
		t.Fatalf("short SUI form not normalized: %s", got)
	}
	usdc, _ := Resolve("USDC")
	if got := NormalizeSuiType(usdc); got != usdc {
		t.Fatalf("non-SUI type must pass through, got %s", got)
	}
}

func TestSymbolForType(t *testing.T) {
	if got := SymbolForType(SuiType); got != "SUI" {
		t.Fatalf("expected SUI, got %s", got)
	}
	// The short form reverse-resolves through normalization.
	if got := SymbolForType(SuiTypeShort); got != "SUI" {
		t.Fatalf("expected SUI for short form, got %s", got)
	}
	if got := SymbolForType("0xabc::doge::DOGE"); got != "DOGE" {
		t.Fatalf("expected trailing segment fallback, got %s", got)
	}
}

func TestEntriesSorted(t *testing.T) {
	entries := Entries()
	if len(entries) == 0 {
		t.Fatal("expected non-empty table")
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Symbol >= entries[i].Symbol {
			t.Fatalf("entries not sorted: %s before %s", entries[i-1].Symbol, entries[i].Symbol)
		}
	}
}
