package mailscope

import "time"

// Options bundles the per-concern option structs. The zero value gives a
// working verifier; individual fields override defaults selectively.
type Options struct {
	Syntax    SyntaxOptions
	DNS       DNSOptions
	DKIM      DKIMOptions
	SMTP      SMTPOptions
	Blacklist BlacklistOptions
}

// SyntaxOptions configures the pure format check.
type SyntaxOptions struct {
	// SuggestTypos populates Suggestion when the domain is a close match to
	// a known provider. Advisory only; never affects the outcome. Default: true
	SuggestTypos *bool
	// TypoThreshold is the edit-distance limit for suggestions. Default: 2
	TypoThreshold int
}

// DNSOptions configures the shared resolver cache behind every DNS probe.
type DNSOptions struct {
	// Timeout bounds each individual DNS query. Default: 5s
	Timeout time.Duration
	// CacheTTL is how long lookup results (including negative ones) are
	// reused across addresses. Default: 5m
	CacheTTL time.Duration
}

// DKIMOptions configures the DKIM selector probe.
type DKIMOptions struct {
	// Selectors probed at <selector>._domainkey.<domain>.
	// Default: check.DefaultDKIMSelectors
	Selectors []string
}

// SMTPOptions configures the SMTP reachability probe.
type SMTPOptions struct {
	// HeloDomain is the domain sent in EHLO. Default: "mailscope.invalid"
	HeloDomain string
	// MailFrom is the address sent in MAIL FROM when RCPTProbe is enabled.
	MailFrom string
	// RCPTProbe enables the MAIL FROM / RCPT TO mailbox probe. When false
	// (the default) the probe stops after connect + banner + EHLO.
	// Enabling it requires explicit HeloDomain and MailFrom.
	RCPTProbe bool
	// ConnectTimeout bounds the TCP connect. Default: 5s
	ConnectTimeout time.Duration
	// CommandTimeout bounds each SMTP exchange. Default: 10s
	CommandTimeout time.Duration
	// MaxMXHosts is how many MX hosts to try in preference order. Default: 2
	MaxMXHosts int
	// Port is the SMTP port. Default: 25
	Port string
	// MaxConnsPerHost is the max pooled connections per MX host. Default: 3
	MaxConnsPerHost int
}

// BlacklistOptions configures the blacklist probe.
type BlacklistOptions struct {
	// Zones are the DNSBL zones consulted for the domain's sending IPs.
	// Default: check.DefaultDNSBLZones
	Zones []string
	// MaxIPs bounds how many resolved addresses are queried. Default: 2
	MaxIPs int
}

// BatchOptions configures VerifyBatch.
type BatchOptions struct {
	// Workers bounds how many addresses are verified concurrently.
	// Default: 5
	Workers int
}

func (o *Options) applyDefaults() {
	if o.Syntax.SuggestTypos == nil {
		t := true
		o.Syntax.SuggestTypos = &t
	}
	if o.Syntax.TypoThreshold == 0 {
		o.Syntax.TypoThreshold = 2
	}
	if o.DNS.Timeout == 0 {
		o.DNS.Timeout = 5 * time.Second
	}
	if o.DNS.CacheTTL == 0 {
		o.DNS.CacheTTL = 5 * time.Minute
	}
	if o.SMTP.HeloDomain == "" {
		o.SMTP.HeloDomain = "mailscope.invalid"
	}
	if o.SMTP.ConnectTimeout == 0 {
		o.SMTP.ConnectTimeout = 5 * time.Second
	}
	if o.SMTP.CommandTimeout == 0 {
		o.SMTP.CommandTimeout = 10 * time.Second
	}
	if o.SMTP.MaxMXHosts == 0 {
		o.SMTP.MaxMXHosts = 2
	}
	if o.SMTP.Port == "" {
		o.SMTP.Port = "25"
	}
	if o.SMTP.MaxConnsPerHost == 0 {
		o.SMTP.MaxConnsPerHost = 3
	}
}
