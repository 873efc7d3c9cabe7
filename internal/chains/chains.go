// Package chains holds the static registry of supported chains, their
// upstream identifiers, and per-chain address validation. Non-EVM chains
// can register a native-asset override here instead of special-casing the
// engine.
package chains

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Chain describes one supported network.
type Chain struct {
	// Slug is the identifier used in API requests, e.g. "base".
	Slug string `json:"slug"`
	// Name is the human-readable network name.
	Name string `json:"name"`
	// EVM marks chains with 0x-prefixed hex contract addresses.
	EVM bool `json:"evm"`

	// GoPlusChainID is the numeric chain ID GoPlus expects in its URL path.
	GoPlusChainID string `json:"-"`
	// AlchemyNetwork is the subdomain slug for Alchemy JSON-RPC, empty when
	// the chain has no Alchemy support.
	AlchemyNetwork string `json:"-"`

	// NativeOverride, when non-nil, maps a sentinel address to a canned
	// assessment for the chain's native asset. The native coin has no
	// token contract, so there is nothing for the scanners to scan.
	NativeOverride *NativeAsset `json:"-"`
}

// NativeAsset is the canned identity for a chain's native, non-contract
// asset. Requests matching Sentinel skip the engine entirely.
type NativeAsset struct {
	Sentinel string
	Name     string
	Symbol   string
	Decimals int
}

// registry order is the order /v1/chains reports.
var registry = []Chain{
	{
		Slug:           "base",
		Name:           "Base",
		EVM:            true,
		GoPlusChainID:  "8453",
		AlchemyNetwork: "base-mainnet",
	},
	{
		Slug:           "ethereum",
		Name:           "Ethereum",
		EVM:            true,
		GoPlusChainID:  "1",
		AlchemyNetwork: "eth-mainnet",
	},
	{
		Slug:          "bsc",
		Name:          "BNB Smart Chain",
		EVM:           true,
		GoPlusChainID: "56",
	},
	{
		Slug:          "tron",
		Name:          "Tron",
		EVM:           false,
		GoPlusChainID: "tron",
		NativeOverride: &NativeAsset{
			Sentinel: "0",
			Name:     "TRON",
			Symbol:   "TRX",
			Decimals: 6,
		},
	},
}

// Get looks up a chain by slug, case-insensitively.
func Get(slug string) (Chain, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, c := range registry {
		if c.Slug == slug {
			return c, true
		}
	}
	return Chain{}, false
}

// All returns the registry in report order. Callers must not mutate it.
func All() []Chain {
	return registry
}

// Slugs returns every registered chain slug.
func Slugs() []string {
	out := make([]string, len(registry))
	for i, c := range registry {
		out[i] = c.Slug
	}
	return out
}

// IsNative reports whether addr is the chain's native-asset sentinel.
func (c Chain) IsNative(addr string) bool {
	return c.NativeOverride != nil && addr == c.NativeOverride.Sentinel
}

// ValidateAddress checks addr against the chain's address format. The
// native sentinel is always accepted on chains that declare one.
func (c Chain) ValidateAddress(addr string) error {
	if c.IsNative(addr) {
		return nil
	}
	if c.EVM {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid %s address %q: want 0x-prefixed 40 hex digits", c.Slug, addr)
		}
		return nil
	}
	// Tron base58 contract addresses start with T and run 34 characters.
	if len(addr) != 34 || !strings.HasPrefix(addr, "T") {
		return fmt.Errorf("invalid %s address %q", c.Slug, addr)
	}
	return nil
}
