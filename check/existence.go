package check

import (
	"context"
	"fmt"

	"github.com/mailscope/mailscope/internal/dnscache"
	"github.com/mailscope/mailscope/types"
)

// ExistenceChecker verifies that a domain exists in DNS at all: any A/AAAA
// address, or failing that any NS delegation, counts as existence. This is
// the gate for the short-circuit: when it fails, the remaining probes are
// skipped entirely.
type ExistenceChecker struct {
	cache *dnscache.Cache
}

func NewExistenceChecker(cache *dnscache.Cache) *ExistenceChecker {
	return &ExistenceChecker{cache: cache}
}

func (c *ExistenceChecker) Check(_ context.Context, domain string) types.CheckResult {
	name := types.CheckDomain

	addrs, err := c.cache.LookupHost(domain)
	if err == nil && len(addrs) > 0 {
		return types.CheckResult{
			Name:    name,
			Outcome: types.OutcomePass,
			Details: fmt.Sprintf("%d address record(s) found", len(addrs)),
		}
	}

	// Mail-only domains may publish no address records; a delegation still
	// proves the domain exists.
	nss, nsErr := c.cache.LookupNS(domain)
	if nsErr == nil && len(nss) > 0 {
		return types.CheckResult{
			Name:    name,
			Outcome: types.OutcomePass,
			Details: fmt.Sprintf("no address records, but %d NS record(s) found", len(nss)),
		}
	}

	details := "domain does not resolve"
	if err != nil {
		details = fmt.Sprintf("domain does not resolve: %v", err)
	}
	return types.CheckResult{Name: name, Outcome: types.OutcomeFail, Details: details}
}
