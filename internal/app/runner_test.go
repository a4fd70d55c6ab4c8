package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestTrimRootPath(t *testing.T) {
	if got := trimRootPath("suisage pools top"); got != "pools top" {
		t.Fatalf("unexpected trim result: %s", got)
	}
}

func TestRunnerVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := NewRunnerWithWriters(&stdout, &stderr)
	code := r.Run([]string{"version"})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d stderr=%s", code, stderr.String())
	}
	if strings.TrimSpace(stdout.String()) == "" {
		t.Fatal("expected version output")
	}
}

func TestRunnerCoinsList(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := NewRunnerWithWriters(&stdout, &stderr)
	code := r.Run([]string{"coins", "list", "--results-only"})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d stderr=%s", code, stderr.String())
	}
	var entries []map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &entries); err != nil {
		t.Fatalf("failed to parse output json: %v output=%s", err, stdout.String())
	}
	if len(entries) == 0 {
		t.Fatal("expected coin entries, got empty")
	}
	found := false
	for _, entry := range entries {
		if entry["symbol"] == "SUI" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SUI in coin list: %s", stdout.String())
	}
}

func TestRunnerToolsList(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := NewRunnerWithWriters(&stdout, &stderr)
	code := r.Run([]string{"tools", "list", "--results-only"})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d stderr=%s", code, stderr.String())
	}
	var tools []map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &tools); err != nil {
		t.Fatalf("failed to parse output json: %v output=%s", err, stdout.String())
	}
	if len(tools) != 8 {
		t.Fatalf("expected 8 tools, got %d", len(tools))
	}
}

func TestRunnerUnknownSymbolExitCode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := NewRunnerWithWriters(&stdout, &stderr)
	code := r.Run([]string{"price", "--coin", "DOGE", "--no-cache"})
	if code != 21 {
		t.Fatalf("expected exit 21, got %d stderr=%s", code, stderr.String())
	}
	var env map[string]any
	if err := json.Unmarshal(stderr.Bytes(), &env); err != nil {
		t.Fatalf("failed to parse error envelope: %v output=%s", err, stderr.String())
	}
	if env["success"] != false {
		t.Fatalf("expected success=false, got %v", env["success"])
	}
}

func TestRunnerAskRequiresAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	var stdout, stderr bytes.Buffer
	r := NewRunnerWithWriters(&stdout, &stderr)
	code := r.Run([]string{"ask", "price of SUI"})
	if code != 10 {
		t.Fatalf("expected exit 10, got %d stderr=%s", code, stderr.String())
	}
}

func TestRunnerUsageErrorExitCode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := NewRunnerWithWriters(&stdout, &stderr)
	code := r.Run([]string{"pools", "info", "--no-cache"})
	if code != 2 {
		t.Fatalf("expected exit 2, got %d stderr=%s", code, stderr.String())
	}
}
