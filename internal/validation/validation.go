// Package validation provides input sanitization for the TokenScout API:
// request size limits, address normalization, and cleanup of identity
// strings coming back from third-party sources.
package validation

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

// MaxRequestSize is the maximum request body size (1MB)
const MaxRequestSize = 1 << 20 // 1MB

// MaxIdentityLength caps token names and symbols echoed back to clients.
// Upstream indexers have served kilobyte-long "names" before.
const MaxIdentityLength = 128

// evmAddressRegex validates 0x-prefixed EVM addresses
var evmAddressRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// RequestSizeMiddleware limits request body size
func RequestSizeMiddleware(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}

// IsValidEVMAddress checks if a string is a valid EVM address
func IsValidEVMAddress(addr string) bool {
	return evmAddressRegex.MatchString(addr)
}

// SanitizeString removes dangerous characters and limits length
func SanitizeString(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	s = strings.ReplaceAll(s, "\x00", "")
	return s
}

// SanitizeIdentity cleans a token name or symbol reported by an upstream
// source before it is echoed back to clients.
func SanitizeIdentity(s string) string {
	return SanitizeString(s, MaxIdentityLength)
}

// SanitizeEVMAddress normalizes an EVM address to its lowercase 0x form.
// Non-EVM addresses (Tron base58 is case-sensitive) must not go through
// here.
func SanitizeEVMAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	addr = strings.ToLower(addr)

	// Ensure 0x prefix
	if !strings.HasPrefix(addr, "0x") && len(addr) == 40 {
		addr = "0x" + addr
	}

	return addr
}
