// Package blocklist holds the embedded local reputation blocklist.
// It answers the cheap half of the blacklist check; DNSBL zones cover
// the sending-IP half.
package blocklist

import (
	_ "embed"
	"strings"
)

//go:embed list.txt
var rawList string

var blocked map[string]struct{}

func init() {
	blocked = make(map[string]struct{})
	for _, line := range strings.Split(rawList, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			blocked[strings.ToLower(line)] = struct{}{}
		}
	}
}

// Listed reports whether the domain (or a parent domain on the list)
// carries a poor sending reputation.
func Listed(domain string) bool {
	domain = strings.ToLower(strings.TrimSuffix(domain, "."))
	for domain != "" {
		if _, ok := blocked[domain]; ok {
			return true
		}
		dot := strings.IndexByte(domain, '.')
		if dot < 0 {
			return false
		}
		domain = domain[dot+1:]
	}
	return false
}

// Len returns the number of blocklisted domains (for diagnostics).
func Len() int {
	return len(blocked)
}
