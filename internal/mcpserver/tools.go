package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the TokenScout MCP server.
// Descriptions are what the LLM reads to decide which tool to use.

var ToolResearchToken = mcp.NewTool("research_token",
	mcp.WithDescription(
		"Run a full risk assessment on a token contract. "+
			"Combines a contract-security scan (honeypot, taxes, mint/blacklist functions), "+
			"DEX market data (liquidity, volume, price), and token identity metadata into "+
			"a single conservative verdict: risk level, risk score 0-100, confidence, and "+
			"human-readable warnings. Use this before recommending or trading any token."),
	mcp.WithString("chain",
		mcp.Required(),
		mcp.Description("Chain the token lives on: 'base', 'ethereum', 'bsc', or 'tron'")),
	mcp.WithString("address",
		mcp.Required(),
		mcp.Description("Token contract address (0x... for EVM chains, T... for Tron)")),
)

var ToolListChains = mcp.NewTool("list_chains",
	mcp.WithDescription(
		"List the chains TokenScout can assess tokens on, with their address formats. "+
			"Use this when unsure whether a chain is supported or how its addresses look."),
)

var ToolServiceHealth = mcp.NewTool("service_health",
	mcp.WithDescription(
		"Check TokenScout service health, including which upstream data sources "+
			"(security scanner, DEX indexer, identity service) are currently reachable. "+
			"A degraded source lowers assessment confidence but does not stop assessments."),
)
