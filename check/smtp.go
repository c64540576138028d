package check

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mailscope/mailscope/internal/dnscache"
	"github.com/mailscope/mailscope/internal/smtppool"
	"github.com/mailscope/mailscope/types"
)

// SMTPConfig is the SMTP reachability checker configuration.
type SMTPConfig struct {
	// MaxMXHosts is how many MX hosts to try in preference order.
	MaxMXHosts int
	// RCPTProbe enables the full MAIL FROM / RCPT TO mailbox probe.
	// When false the probe stops after connect + banner + EHLO, which
	// verifies reachability without interrogating individual mailboxes.
	RCPTProbe bool
}

// SMTPChecker verifies that a mail exchanger of the domain answers an SMTP
// handshake. MX lookups share the DNS cache with the MX checker; connections
// come from the shared pool and are reused across addresses on the same
// domain.
type SMTPChecker struct {
	cfg   SMTPConfig
	cache *dnscache.Cache
	pool  *smtppool.Pool
}

func NewSMTPChecker(cfg SMTPConfig, cache *dnscache.Cache, pool *smtppool.Pool) *SMTPChecker {
	return &SMTPChecker{cfg: cfg, cache: cache, pool: pool}
}

// Check probes the domain's mail exchangers. email is the full address,
// used only when RCPTProbe is enabled.
func (c *SMTPChecker) Check(ctx context.Context, domain, email string) types.CheckResult {
	name := types.CheckSMTP

	records, err := c.cache.LookupMX(domain)
	if err != nil || len(records) == 0 {
		details := "no MX records to probe"
		if err != nil {
			details = fmt.Sprintf("MX lookup failed: %v", err)
		}
		return types.CheckResult{Name: name, Outcome: types.OutcomeFail, Details: details}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Pref < records[j].Pref
	})

	maxHosts := c.cfg.MaxMXHosts
	if maxHosts <= 0 || maxHosts > len(records) {
		maxHosts = len(records)
	}

	var lastErr error
	for i := 0; i < maxHosts; i++ {
		select {
		case <-ctx.Done():
			return types.CheckResult{Name: name, Outcome: types.OutcomeFail, Details: "probe cancelled"}
		default:
		}

		mxHost := strings.TrimSuffix(records[i].Host, ".")

		if !c.cfg.RCPTProbe {
			code, _, err := c.pool.Ping(mxHost)
			if err != nil {
				lastErr = err
				continue
			}
			return types.CheckResult{
				Name:     name,
				Outcome:  types.OutcomePass,
				Details:  "SMTP handshake succeeded",
				MXHost:   mxHost,
				SMTPCode: code,
			}
		}

		code, msg, err := c.pool.CheckRCPT(mxHost, email)
		if err != nil {
			lastErr = err
			continue
		}
		if code >= 500 {
			return types.CheckResult{
				Name:     name,
				Outcome:  types.OutcomeFail,
				Details:  fmt.Sprintf("RCPT rejected: %s", msg),
				MXHost:   mxHost,
				SMTPCode: code,
			}
		}
		if code >= 400 {
			lastErr = fmt.Errorf("temporary failure %d: %s", code, msg)
			continue
		}
		return types.CheckResult{
			Name:     name,
			Outcome:  types.OutcomePass,
			Details:  "RCPT TO accepted",
			MXHost:   mxHost,
			SMTPCode: code,
		}
	}

	return types.CheckResult{
		Name:    name,
		Outcome: types.OutcomeFail,
		Details: fmt.Sprintf("SMTP probe failed on all MX hosts: %v", lastErr),
	}
}
