package check

import (
	"context"
	"fmt"
	"strings"

	"github.com/mailscope/mailscope/internal/dnscache"
	"github.com/mailscope/mailscope/types"
)

// DMARCChecker verifies that the domain publishes a DMARC policy:
// a TXT record at _dmarc.<domain> starting with "v=DMARC1".
type DMARCChecker struct {
	cache *dnscache.Cache
}

func NewDMARCChecker(cache *dnscache.Cache) *DMARCChecker {
	return &DMARCChecker{cache: cache}
}

func (c *DMARCChecker) Check(_ context.Context, domain string) types.CheckResult {
	name := types.CheckDMARC

	records, err := c.cache.LookupTXT("_dmarc." + domain)
	if err != nil {
		return types.CheckResult{
			Name:    name,
			Outcome: types.OutcomeFail,
			Details: fmt.Sprintf("TXT lookup failed: %v", err),
		}
	}

	for _, record := range records {
		normalized := normalizeTXT(record)
		if strings.HasPrefix(normalized, "v=DMARC1") {
			details := "DMARC policy published"
			if p := dmarcPolicy(normalized); p != "" {
				details = "DMARC policy published (p=" + p + ")"
			}
			return types.CheckResult{Name: name, Outcome: types.OutcomePass, Details: details}
		}
	}
	return types.CheckResult{Name: name, Outcome: types.OutcomeFail, Details: "no DMARC policy published"}
}

// dmarcPolicy extracts the p= tag value from a DMARC record.
func dmarcPolicy(record string) string {
	for _, tag := range strings.Split(record, ";") {
		tag = strings.TrimSpace(tag)
		if strings.HasPrefix(tag, "p=") {
			return strings.TrimPrefix(tag, "p=")
		}
	}
	return ""
}
