package chains

import "testing"

func TestGetCaseInsensitive(t *testing.T) {
	for _, slug := range []string{"base", "Base", " BASE "} {
		c, ok := Get(slug)
		if !ok {
			t.Fatalf("Get(%q) not found", slug)
		}
		if c.Slug != "base" {
			t.Errorf("Get(%q).Slug = %s", slug, c.Slug)
		}
	}
	if _, ok := Get("solana"); ok {
		t.Error("unregistered chain should not resolve")
	}
}

func TestGoPlusChainIDs(t *testing.T) {
	want := map[string]string{
		"base":     "8453",
		"ethereum": "1",
		"bsc":      "56",
		"tron":     "tron",
	}
	for slug, id := range want {
		c, ok := Get(slug)
		if !ok {
			t.Fatalf("chain %s missing from registry", slug)
		}
		if c.GoPlusChainID != id {
			t.Errorf("%s GoPlus chain ID = %s, want %s", slug, c.GoPlusChainID, id)
		}
	}
}

func TestValidateEVMAddress(t *testing.T) {
	c, _ := Get("ethereum")

	valid := []string{
		"0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
		"0x0000000000000000000000000000000000000000",
	}
	for _, addr := range valid {
		if err := c.ValidateAddress(addr); err != nil {
			t.Errorf("ValidateAddress(%q) = %v, want nil", addr, err)
		}
	}

	invalid := []string{
		"",
		"0x123",
		"833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
		"0xZZ3589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
		"0",
	}
	for _, addr := range invalid {
		if err := c.ValidateAddress(addr); err == nil {
			t.Errorf("ValidateAddress(%q) = nil, want error", addr)
		}
	}
}

func TestTronNativeSentinel(t *testing.T) {
	c, _ := Get("tron")

	if !c.IsNative("0") {
		t.Error(`"0" should be the tron native sentinel`)
	}
	if err := c.ValidateAddress("0"); err != nil {
		t.Errorf("native sentinel rejected: %v", err)
	}
	if c.NativeOverride.Symbol != "TRX" {
		t.Errorf("native symbol = %s, want TRX", c.NativeOverride.Symbol)
	}

	if err := c.ValidateAddress("TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"); err != nil {
		t.Errorf("valid tron contract address rejected: %v", err)
	}
	if err := c.ValidateAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"); err == nil {
		t.Error("EVM address should not validate on tron")
	}
}

func TestEVMChainsHaveNoNativeOverride(t *testing.T) {
	for _, c := range All() {
		if c.EVM && c.NativeOverride != nil {
			t.Errorf("%s: EVM chains must not carry a native override", c.Slug)
		}
		if c.EVM && c.IsNative("0") {
			t.Errorf("%s: sentinel must not validate on EVM chains", c.Slug)
		}
	}
}

func TestSlugsMatchRegistryOrder(t *testing.T) {
	slugs := Slugs()
	if len(slugs) != len(All()) {
		t.Fatalf("Slugs() length = %d, registry length = %d", len(slugs), len(All()))
	}
	for i, c := range All() {
		if slugs[i] != c.Slug {
			t.Errorf("slugs[%d] = %s, want %s", i, slugs[i], c.Slug)
		}
	}
}
