package prompt

import (
	"strings"
	"testing"

	"github.com/suisage/suisage/internal/catalog"
	"github.com/suisage/suisage/internal/registry"
)

func TestBuildEmbedsQueryToolsAndCoins(t *testing.T) {
	query := "What are the top pools by apr?"
	got := Build(query)

	if !strings.Contains(got, "User Query: "+query) {
		t.Fatal("prompt missing verbatim user query")
	}
	for _, tool := range catalog.Tools() {
		if !strings.Contains(got, tool.Name) {
			t.Fatalf("prompt missing tool %s", tool.Name)
		}
	}
	for _, entry := range registry.Entries() {
		if !strings.Contains(got, entry.Symbol) || !strings.Contains(got, entry.CoinType) {
			t.Fatalf("prompt missing coin %s", entry.Symbol)
		}
	}
}

func TestBuildDescribesResponseSchema(t *testing.T) {
	got := Build("price of SUI")
	for _, field := range []string{`"status"`, `"reasoning"`, `"actions"`, `"final_answer"`, "requires_info"} {
		if !strings.Contains(got, field) {
			t.Fatalf("prompt schema missing %s", field)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	if Build("q") != Build("q") {
		t.Fatal("prompt must be a pure function of its inputs")
	}
}
