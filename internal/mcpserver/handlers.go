package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers holds the handler functions for each MCP tool.
type Handlers struct {
	client *TokenScoutClient
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *TokenScoutClient) *Handlers {
	return &Handlers{client: client}
}

// HandleResearchToken runs a token risk assessment.
func (h *Handlers) HandleResearchToken(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chain := req.GetString("chain", "")
	if chain == "" {
		return mcp.NewToolResultError("chain is required"), nil
	}
	address := req.GetString("address", "")
	if address == "" {
		return mcp.NewToolResultError("address is required"), nil
	}

	raw, err := h.client.Research(ctx, chain, address)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Assessment failed: %v", err)), nil
	}

	text, err := formatReport(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse report: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleListChains lists supported chains.
func (h *Handlers) HandleListChains(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.ListChains(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list chains: %v", err)), nil
	}

	text, err := formatChainList(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse chains: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleServiceHealth reports service and upstream source health.
func (h *Handlers) HandleServiceHealth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.Health(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Health check failed: %v", err)), nil
	}

	text, err := formatHealth(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse health: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// --- Formatting helpers ---

// reportView mirrors the fields of the research report the formatter needs.
type reportView struct {
	Chain      string   `json:"chain"`
	Address    string   `json:"address"`
	RiskScore  int      `json:"riskScore"`
	RiskLevel  string   `json:"riskLevel"`
	Confidence string   `json:"confidence"`
	Reasons    []string `json:"reasons"`
	Flags      []struct {
		Severity    string `json:"severity"`
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"flags"`
	Metadata struct {
		Name     string `json:"name"`
		Symbol   string `json:"symbol"`
		Decimals int    `json:"decimals"`
	} `json:"metadata"`
	Market *struct {
		LiquidityUSD float64 `json:"liquidityUsd"`
		Volume24hUSD float64 `json:"volume24hUsd"`
		PriceUSD     string  `json:"priceUsd"`
	} `json:"market"`
	Analysis struct {
		DataCoverage struct {
			HasMetadata bool `json:"hasMetadata"`
			HasSecurity bool `json:"hasSecurity"`
			HasMarket   bool `json:"hasMarket"`
		} `json:"dataCoverage"`
	} `json:"analysis"`
}

func formatReport(raw json.RawMessage) (string, error) {
	var r reportView
	if err := json.Unmarshal(raw, &r); err != nil {
		return "", err
	}

	var sb strings.Builder

	name := r.Metadata.Name
	if name == "" {
		name = "Unknown Token"
	}
	if r.Metadata.Symbol != "" {
		fmt.Fprintf(&sb, "%s (%s)\n", name, r.Metadata.Symbol)
	} else {
		fmt.Fprintf(&sb, "%s\n", name)
	}
	fmt.Fprintf(&sb, "Chain: %s | Address: %s\n\n", r.Chain, r.Address)

	fmt.Fprintf(&sb, "Risk: %s", strings.ToUpper(r.RiskLevel))
	if r.RiskLevel != "unknown" {
		fmt.Fprintf(&sb, " (score %d/100)", r.RiskScore)
	}
	fmt.Fprintf(&sb, " | Confidence: %s\n", r.Confidence)

	cov := r.Analysis.DataCoverage
	var sources []string
	if cov.HasSecurity {
		sources = append(sources, "security scan")
	}
	if cov.HasMarket {
		sources = append(sources, "DEX market data")
	}
	if cov.HasMetadata {
		sources = append(sources, "identity metadata")
	}
	if len(sources) > 0 {
		fmt.Fprintf(&sb, "Data sources: %s\n", strings.Join(sources, ", "))
	} else {
		sb.WriteString("Data sources: none responded\n")
	}

	if len(r.Flags) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, f := range r.Flags {
			fmt.Fprintf(&sb, "  [%s] %s — %s\n", f.Severity, f.Title, f.Description)
		}
	}

	if len(r.Reasons) > 0 {
		sb.WriteString("\nAssessment:\n")
		for _, reason := range r.Reasons {
			fmt.Fprintf(&sb, "  - %s\n", reason)
		}
	}

	if r.Market != nil {
		sb.WriteString("\nMarket:\n")
		fmt.Fprintf(&sb, "  Liquidity: $%.0f | 24h volume: $%.0f\n", r.Market.LiquidityUSD, r.Market.Volume24hUSD)
		if r.Market.PriceUSD != "" {
			fmt.Fprintf(&sb, "  Price: $%s\n", r.Market.PriceUSD)
		}
	}

	return sb.String(), nil
}

func formatChainList(raw json.RawMessage) (string, error) {
	var resp struct {
		Chains []struct {
			Slug string `json:"slug"`
			Name string `json:"name"`
			EVM  bool   `json:"evm"`
		} `json:"chains"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}
	if len(resp.Chains) == 0 {
		return "No chains reported.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Supported chains (%d):\n\n", len(resp.Chains))
	for i, ch := range resp.Chains {
		format := "0x + 40 hex chars"
		if !ch.EVM {
			format = "base58, starts with T"
		}
		fmt.Fprintf(&sb, "%d. %s (slug: %s) — addresses: %s\n", i+1, ch.Name, ch.Slug, format)
	}
	return sb.String(), nil
}

func formatHealth(raw json.RawMessage) (string, error) {
	var resp struct {
		Status string `json:"status"`
		Checks []struct {
			Name    string `json:"name"`
			Healthy bool   `json:"healthy"`
			Detail  string `json:"detail"`
		} `json:"checks"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Service status: %s\n", resp.Status)
	for _, c := range resp.Checks {
		state := "ok"
		if !c.Healthy {
			state = "unavailable"
			if c.Detail != "" {
				state += " (" + c.Detail + ")"
			}
		}
		fmt.Fprintf(&sb, "  %s: %s\n", c.Name, state)
	}
	return sb.String(), nil
}
