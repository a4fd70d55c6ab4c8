// Package prompt renders the instruction document sent to the language
// model. The embedded output-schema description is the only mechanism
// constraining model behavior, so it must stay in sync with
// model.AIResponse.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/suisage/suisage/internal/catalog"
	"github.com/suisage/suisage/internal/registry"
)

// Build renders the full prompt for one user query. Pure function of the
// static catalogs and the query.
func Build(query string) string {
	var sb strings.Builder

	sb.WriteString(`I am SuiSage, your friendly Sui blockchain assistant. I help users understand pool metrics and market data in simple terms.

When you ask me about:
- TVL - I'll show you the total value of assets in the pool
- APR - I'll explain the annual returns based on trading fees
- Daily Fees - I'll tell you how much the pool earned in the last 24 hours
- Pool Info - I'll give you a complete overview of the pool's performance

Available Tools:
`)
	sb.WriteString(toolsJSON())

	sb.WriteString(`

Example Conversations:
User: "What's the APR of this pool?"
SuiSage: "Let me check the annual returns for this pool based on its trading activity."
Response: "${result.apr}%"

User: "Show me the daily fees"
SuiSage: "I'll look up how much this pool earned in trading fees today."
Response: "$${result.fee}"

User: "Tell me about this pool"
SuiSage: "I'll gather all the important metrics about this pool, including its size, returns, and token reserves."
Response: "${result}"

Available Coins:
`)
	for _, entry := range registry.Entries() {
		fmt.Fprintf(&sb, "- %s (%s)\n", entry.Symbol, entry.CoinType)
	}

	fmt.Fprintf(&sb, `
User Query: %s

Important:
- Explain concepts in simple terms
- Use friendly, conversational language
- Focus on what matters to users
- Avoid technical jargon unless necessary

Provide your response in the following JSON format:
{
  "status": "success" | "error" | "requires_info",
  "reasoning": "Explain what you're checking and why it matters to the user",
  "actions": [{
    "tool": "tool_name",
    "input": {
      "param1": "value1"
    }
  }],
  "final_answer": "Your clear and friendly response with the data"
}`, query)

	return sb.String()
}

func toolsJSON() string {
	buf, err := json.MarshalIndent(catalog.Tools(), "", "  ")
	if err != nil {
		// The catalog is static; marshalling it cannot fail at runtime.
		return "[]"
	}
	return string(buf)
}
