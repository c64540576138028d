package check

import (
	"context"
	"net"
	"strings"

	"github.com/mailscope/mailscope/internal/blocklist"
	"github.com/mailscope/mailscope/internal/dnscache"
	"github.com/mailscope/mailscope/types"
)

// BlacklistConfig is the blacklist checker configuration.
type BlacklistConfig struct {
	// Zones are the DNSBL zones queried for the domain's sending IPs.
	// Empty means DefaultDNSBLZones.
	Zones []string
	// MaxIPs bounds how many resolved addresses are queried per domain.
	MaxIPs int
}

// DefaultDNSBLZones are the reputation zones consulted by default.
var DefaultDNSBLZones = []string{
	"zen.spamhaus.org",
	"bl.spamcop.net",
}

// BlacklistChecker reports whether a domain is blacklisted: either the
// domain itself is on the embedded local blocklist, or one of its sending
// IPs (the domain's address records, falling back to its primary MX host)
// is listed on a DNSBL zone.
//
// Polarity: OutcomeFail means listed. Lookup failures fail closed to
// OutcomePass, i.e. "not known to be listed".
type BlacklistChecker struct {
	cfg   BlacklistConfig
	cache *dnscache.Cache
}

func NewBlacklistChecker(cfg BlacklistConfig, cache *dnscache.Cache) *BlacklistChecker {
	if len(cfg.Zones) == 0 {
		cfg.Zones = DefaultDNSBLZones
	}
	if cfg.MaxIPs <= 0 {
		cfg.MaxIPs = 2
	}
	return &BlacklistChecker{cfg: cfg, cache: cache}
}

func (c *BlacklistChecker) Check(ctx context.Context, domain string) types.CheckResult {
	name := types.CheckBlacklist

	if blocklist.Listed(domain) {
		return types.CheckResult{
			Name:    name,
			Outcome: types.OutcomeFail,
			Details: "domain is on the local reputation blocklist",
		}
	}

	for _, ip := range c.sendingIPs(domain) {
		for _, zone := range c.cfg.Zones {
			select {
			case <-ctx.Done():
				return types.CheckResult{Name: name, Outcome: types.OutcomePass, Details: "probe cancelled; not known to be listed"}
			default:
			}

			query := reverseIPv4(ip) + "." + zone
			// A DNSBL answers listed addresses with an A record;
			// NXDOMAIN means clean.
			if addrs, err := c.cache.LookupHost(query); err == nil && len(addrs) > 0 {
				return types.CheckResult{
					Name:    name,
					Outcome: types.OutcomeFail,
					Details: ip + " listed on " + zone,
				}
			}
		}
	}

	return types.CheckResult{Name: name, Outcome: types.OutcomePass, Details: "not listed"}
}

// sendingIPs returns up to MaxIPs IPv4 addresses to query: the domain's own
// address records, or the primary MX host's when the domain has none.
// DNSBL zones are IPv4-keyed, so IPv6 addresses are skipped.
func (c *BlacklistChecker) sendingIPs(domain string) []string {
	addrs, err := c.cache.LookupHost(domain)
	if err != nil || len(addrs) == 0 {
		if records, mxErr := c.cache.LookupMX(domain); mxErr == nil && len(records) > 0 {
			addrs, _ = c.cache.LookupHost(strings.TrimSuffix(records[0].Host, "."))
		}
	}

	var out []string
	for _, a := range addrs {
		ip := net.ParseIP(a)
		if ip == nil || ip.To4() == nil {
			continue
		}
		out = append(out, ip.To4().String())
		if len(out) >= c.cfg.MaxIPs {
			break
		}
	}
	return out
}

// reverseIPv4 turns "192.0.2.1" into "1.2.0.192" for DNSBL queries.
func reverseIPv4(ip string) string {
	octets := strings.Split(ip, ".")
	for i, j := 0, len(octets)-1; i < j; i, j = i+1, j-1 {
		octets[i], octets[j] = octets[j], octets[i]
	}
	return strings.Join(octets, ".")
}
