package mailscope

import (
	"context"
	"sync"

	"github.com/mailscope/mailscope/check"
	"github.com/mailscope/mailscope/internal/parse"
	"github.com/mailscope/mailscope/types"
)

// Verifier runs the per-address verification pipeline. It is safe for
// concurrent use; the underlying DNS cache and SMTP connection pool are
// shared across all calls, so verifying many addresses of the same domain
// reuses lookups and connections.
type Verifier struct {
	opts   Options
	syntax *check.SyntaxChecker
	prober Prober
	err    error
}

// New builds a Verifier with live network probes. Option structs are merged
// over defaults; a configuration error is deferred to the first Verify call.
func New(opts ...Options) *Verifier {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	v := &Verifier{opts: o}
	if o.SMTP.RCPTProbe && (o.SMTP.HeloDomain == "" || o.SMTP.MailFrom == "") {
		v.err = ErrInvalidSMTPOptions
		return v
	}

	v.opts.applyDefaults()
	v.syntax = check.NewSyntaxChecker(check.SyntaxConfig{
		SuggestTypos:  *v.opts.Syntax.SuggestTypos,
		TypoThreshold: v.opts.Syntax.TypoThreshold,
	})
	v.prober = newNetProber(v.opts)
	return v
}

// NewWithProber builds a Verifier over a caller-supplied Prober. The format
// check stays local; every network check is delegated to p.
func NewWithProber(p Prober, opts ...Options) *Verifier {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	v := &Verifier{opts: o}
	if p == nil {
		v.err = ErrNilProber
		return v
	}

	v.opts.applyDefaults()
	v.syntax = check.NewSyntaxChecker(check.SyntaxConfig{
		SuggestTypos:  *v.opts.Syntax.SuggestTypos,
		TypoThreshold: v.opts.Syntax.TypoThreshold,
	})
	v.prober = p
	return v
}

// Verify runs the full pipeline for one address. The format check runs
// first; if it fails, no network traffic is generated and every probe is
// reported as skipped. If the domain does not resolve, the remaining six
// probes are skipped. Otherwise the six probes run concurrently.
//
// Probe failures are encoded in the result, never as an error; the returned
// error is non-nil only for configuration mistakes made at construction.
func (v *Verifier) Verify(ctx context.Context, email string) (Result, error) {
	if v.err != nil {
		return Result{}, v.err
	}

	result := Result{Email: email}

	addr := parse.Split(email)
	format := v.syntax.Check(ctx, addr)
	if !format.Passed() {
		result.Checks = skipAfter(format)
		return result, nil
	}

	domain := addr.Domain
	exists := v.prober.DomainExists(ctx, domain)
	if !exists.Passed() {
		result.Checks = skipAfter(format, exists)
		return result, nil
	}

	probes := make([]types.CheckResult, 6)
	var wg sync.WaitGroup
	run := func(i int, f func() types.CheckResult) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			probes[i] = f()
		}()
	}
	run(0, func() types.CheckResult { return v.prober.MXRecords(ctx, domain) })
	run(1, func() types.CheckResult { return v.prober.SPF(ctx, domain) })
	run(2, func() types.CheckResult { return v.prober.DKIM(ctx, domain) })
	run(3, func() types.CheckResult { return v.prober.DMARC(ctx, domain) })
	run(4, func() types.CheckResult { return v.prober.SMTP(ctx, domain, email) })
	run(5, func() types.CheckResult { return v.prober.Blacklist(ctx, domain) })
	wg.Wait()

	result.Checks = append([]types.CheckResult{format, exists}, probes...)
	return result, nil
}

// Close releases pooled network resources. The Verifier must not be used
// after Close.
func (v *Verifier) Close() error {
	if v.prober == nil {
		return nil
	}
	return v.prober.Close()
}

// checkOrder is the fixed order of Result.Checks.
var checkOrder = []types.CheckName{
	types.CheckFormat,
	types.CheckDomain,
	types.CheckMX,
	types.CheckSPF,
	types.CheckDKIM,
	types.CheckDMARC,
	types.CheckSMTP,
	types.CheckBlacklist,
}

// skipAfter pads the executed prefix with skipped placeholders so that a
// Result always carries all eight checks.
func skipAfter(done ...types.CheckResult) []types.CheckResult {
	checks := make([]types.CheckResult, 0, len(checkOrder))
	checks = append(checks, done...)
	for _, name := range checkOrder[len(done):] {
		checks = append(checks, types.Skipped(name))
	}
	return checks
}
