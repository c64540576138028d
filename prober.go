package mailscope

import (
	"context"

	"github.com/mailscope/mailscope/check"
	"github.com/mailscope/mailscope/internal/dnscache"
	"github.com/mailscope/mailscope/internal/smtppool"
	"github.com/mailscope/mailscope/types"
)

// Prober is the network-check capability boundary. Each operation is
// independent, idempotent, and fails closed: errors and timeouts come back
// as a negative CheckResult, never as an error. Implementations other than
// the built-in one are used for deterministic tests.
type Prober interface {
	// DomainExists reports whether the domain resolves at all.
	DomainExists(ctx context.Context, domain string) types.CheckResult
	// MXRecords reports whether at least one mail exchanger is published.
	MXRecords(ctx context.Context, domain string) types.CheckResult
	// SPF reports whether a valid SPF TXT record is published.
	SPF(ctx context.Context, domain string) types.CheckResult
	// DKIM reports whether a DKIM selector record is discoverable.
	DKIM(ctx context.Context, domain string) types.CheckResult
	// DMARC reports whether a DMARC policy record is published.
	DMARC(ctx context.Context, domain string) types.CheckResult
	// SMTP reports whether an SMTP handshake against the domain's mail
	// exchanger succeeds. email is the full address, used by the optional
	// RCPT probe.
	SMTP(ctx context.Context, domain, email string) types.CheckResult
	// Blacklist reports whether the domain or its sending IP appears on a
	// reputation blacklist (OutcomeFail means listed).
	Blacklist(ctx context.Context, domain string) types.CheckResult
	// Close releases pooled resources.
	Close() error
}

// netProber is the live implementation, composed of the check package
// probes sharing one DNS cache and one SMTP connection pool.
type netProber struct {
	existence *check.ExistenceChecker
	mx        *check.MXChecker
	spf       *check.SPFChecker
	dkim      *check.DKIMChecker
	dmarc     *check.DMARCChecker
	smtp      *check.SMTPChecker
	blacklist *check.BlacklistChecker
	pool      *smtppool.Pool
}

func newNetProber(o Options) *netProber {
	cache := dnscache.New(o.DNS.Timeout, o.DNS.CacheTTL)
	pool := smtppool.New(smtppool.Config{
		HeloDomain:      o.SMTP.HeloDomain,
		MailFrom:        o.SMTP.MailFrom,
		ConnectTimeout:  o.SMTP.ConnectTimeout,
		CommandTimeout:  o.SMTP.CommandTimeout,
		Port:            o.SMTP.Port,
		MaxConnsPerHost: o.SMTP.MaxConnsPerHost,
	})

	return &netProber{
		existence: check.NewExistenceChecker(cache),
		mx:        check.NewMXChecker(cache),
		spf:       check.NewSPFChecker(cache),
		dkim:      check.NewDKIMChecker(check.DKIMConfig{Selectors: o.DKIM.Selectors}, cache),
		dmarc:     check.NewDMARCChecker(cache),
		smtp: check.NewSMTPChecker(check.SMTPConfig{
			MaxMXHosts: o.SMTP.MaxMXHosts,
			RCPTProbe:  o.SMTP.RCPTProbe,
		}, cache, pool),
		blacklist: check.NewBlacklistChecker(check.BlacklistConfig{
			Zones:  o.Blacklist.Zones,
			MaxIPs: o.Blacklist.MaxIPs,
		}, cache),
		pool: pool,
	}
}

func (p *netProber) DomainExists(ctx context.Context, domain string) types.CheckResult {
	return p.existence.Check(ctx, domain)
}

func (p *netProber) MXRecords(ctx context.Context, domain string) types.CheckResult {
	return p.mx.Check(ctx, domain)
}

func (p *netProber) SPF(ctx context.Context, domain string) types.CheckResult {
	return p.spf.Check(ctx, domain)
}

func (p *netProber) DKIM(ctx context.Context, domain string) types.CheckResult {
	return p.dkim.Check(ctx, domain)
}

func (p *netProber) DMARC(ctx context.Context, domain string) types.CheckResult {
	return p.dmarc.Check(ctx, domain)
}

func (p *netProber) SMTP(ctx context.Context, domain, email string) types.CheckResult {
	return p.smtp.Check(ctx, domain, email)
}

func (p *netProber) Blacklist(ctx context.Context, domain string) types.CheckResult {
	return p.blacklist.Check(ctx, domain)
}

func (p *netProber) Close() error {
	return p.pool.Close()
}
