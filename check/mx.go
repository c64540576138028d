package check

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mailscope/mailscope/internal/dnscache"
	"github.com/mailscope/mailscope/types"
)

// MXChecker verifies that at least one mail-exchanger record is published
// for the domain. Lookups go through the shared DNS cache, so the SMTP
// probe reuses the same answer.
type MXChecker struct {
	cache *dnscache.Cache
}

func NewMXChecker(cache *dnscache.Cache) *MXChecker {
	return &MXChecker{cache: cache}
}

func (c *MXChecker) Check(_ context.Context, domain string) types.CheckResult {
	name := types.CheckMX

	records, err := c.cache.LookupMX(domain)
	if err != nil {
		return types.CheckResult{
			Name:    name,
			Outcome: types.OutcomeFail,
			Details: fmt.Sprintf("MX lookup failed: %v", err),
		}
	}
	if len(records) == 0 {
		return types.CheckResult{Name: name, Outcome: types.OutcomeFail, Details: "no MX records published"}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Pref < records[j].Pref
	})

	return types.CheckResult{
		Name:    name,
		Outcome: types.OutcomePass,
		Details: fmt.Sprintf("%d MX record(s) found", len(records)),
		MXHost:  strings.TrimSuffix(records[0].Host, "."),
	}
}
