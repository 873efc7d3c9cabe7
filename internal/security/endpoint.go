package security

import (
	"fmt"
	"net/url"
)

// ValidateBaseURL checks that an operator-supplied upstream base URL
// override (GoPlus, DexScreener) is a plausible http(s) URL. These come
// from configuration, not user input, so only shape is checked.
func ValidateBaseURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format")
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("URL scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
