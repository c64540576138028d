package check

import (
	"context"
	"strings"

	"github.com/mailscope/mailscope/internal/dnscache"
	"github.com/mailscope/mailscope/types"
)

// DKIMConfig is the DKIM checker configuration.
type DKIMConfig struct {
	// Selectors are the selector names probed at
	// <selector>._domainkey.<domain>. Empty means DefaultDKIMSelectors.
	Selectors []string
}

// DefaultDKIMSelectors are the selector names large providers and common
// mail stacks publish under. DKIM selectors are not discoverable, so the
// probe tries a fixed list.
var DefaultDKIMSelectors = []string{
	"default", "google", "selector1", "selector2",
	"k1", "s1", "s2", "dkim", "mail", "smtp",
}

// DKIMChecker verifies that a DKIM public-key record is discoverable for
// the domain under one of the configured selectors.
type DKIMChecker struct {
	cfg   DKIMConfig
	cache *dnscache.Cache
}

func NewDKIMChecker(cfg DKIMConfig, cache *dnscache.Cache) *DKIMChecker {
	if len(cfg.Selectors) == 0 {
		cfg.Selectors = DefaultDKIMSelectors
	}
	return &DKIMChecker{cfg: cfg, cache: cache}
}

func (c *DKIMChecker) Check(ctx context.Context, domain string) types.CheckResult {
	name := types.CheckDKIM

	for _, selector := range c.cfg.Selectors {
		select {
		case <-ctx.Done():
			return types.CheckResult{Name: name, Outcome: types.OutcomeFail, Details: "probe cancelled"}
		default:
		}

		records, err := c.cache.LookupTXT(selector + "._domainkey." + domain)
		if err != nil {
			continue
		}
		for _, record := range records {
			if isDKIMRecord(normalizeTXT(record)) {
				return types.CheckResult{
					Name:    name,
					Outcome: types.OutcomePass,
					Details: "DKIM record found (selector " + selector + ")",
				}
			}
		}
	}
	return types.CheckResult{Name: name, Outcome: types.OutcomeFail, Details: "no DKIM selector record found"}
}

// isDKIMRecord accepts records carrying a version tag or a public-key tag.
// Revoked keys publish an empty p= and still count as "selector published".
func isDKIMRecord(record string) bool {
	if strings.HasPrefix(record, "v=DKIM1") {
		return true
	}
	return strings.HasPrefix(record, "p=") || strings.Contains(record, "; p=") || strings.Contains(record, ";p=")
}
