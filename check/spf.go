package check

import (
	"context"
	"fmt"
	"strings"

	"github.com/mailscope/mailscope/internal/dnscache"
	"github.com/mailscope/mailscope/types"
)

// SPFChecker verifies that the domain publishes a Sender Policy Framework
// record: a TXT record on the domain itself starting with "v=spf1".
type SPFChecker struct {
	cache *dnscache.Cache
}

func NewSPFChecker(cache *dnscache.Cache) *SPFChecker {
	return &SPFChecker{cache: cache}
}

func (c *SPFChecker) Check(_ context.Context, domain string) types.CheckResult {
	name := types.CheckSPF

	records, err := c.cache.LookupTXT(domain)
	if err != nil {
		return types.CheckResult{
			Name:    name,
			Outcome: types.OutcomeFail,
			Details: fmt.Sprintf("TXT lookup failed: %v", err),
		}
	}

	for _, record := range records {
		if strings.HasPrefix(normalizeTXT(record), "v=spf1") {
			return types.CheckResult{
				Name:    name,
				Outcome: types.OutcomePass,
				Details: "SPF record published",
			}
		}
	}
	return types.CheckResult{Name: name, Outcome: types.OutcomeFail, Details: "no SPF record published"}
}

// normalizeTXT strips surrounding quotes and collapses runs of whitespace,
// which some resolvers leave in place for long TXT records.
func normalizeTXT(record string) string {
	record = strings.Trim(record, `"`)
	return strings.Join(strings.Fields(record), " ")
}
