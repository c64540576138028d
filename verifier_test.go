package mailscope_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailscope/mailscope"
	"github.com/mailscope/mailscope/types"
)

// stubProber answers from fixed maps and counts every call, so tests can
// assert which probes ran.
type stubProber struct {
	existingDomains map[string]bool
	outcomes        map[types.CheckName]types.Outcome
	listed          map[string]bool

	domainCalls    atomic.Int32
	mxCalls        atomic.Int32
	spfCalls       atomic.Int32
	dkimCalls      atomic.Int32
	dmarcCalls     atomic.Int32
	smtpCalls      atomic.Int32
	blacklistCalls atomic.Int32
	closed         bool
}

func (s *stubProber) outcome(name types.CheckName) types.Outcome {
	if o, ok := s.outcomes[name]; ok {
		return o
	}
	return types.OutcomePass
}

func (s *stubProber) DomainExists(_ context.Context, domain string) types.CheckResult {
	s.domainCalls.Add(1)
	if s.existingDomains[domain] {
		return types.CheckResult{Name: types.CheckDomain, Outcome: types.OutcomePass}
	}
	return types.CheckResult{Name: types.CheckDomain, Outcome: types.OutcomeFail, Details: "domain does not resolve"}
}

func (s *stubProber) MXRecords(context.Context, string) types.CheckResult {
	s.mxCalls.Add(1)
	return types.CheckResult{Name: types.CheckMX, Outcome: s.outcome(types.CheckMX), MXHost: "mx.example.com"}
}

func (s *stubProber) SPF(context.Context, string) types.CheckResult {
	s.spfCalls.Add(1)
	return types.CheckResult{Name: types.CheckSPF, Outcome: s.outcome(types.CheckSPF)}
}

func (s *stubProber) DKIM(context.Context, string) types.CheckResult {
	s.dkimCalls.Add(1)
	return types.CheckResult{Name: types.CheckDKIM, Outcome: s.outcome(types.CheckDKIM)}
}

func (s *stubProber) DMARC(context.Context, string) types.CheckResult {
	s.dmarcCalls.Add(1)
	return types.CheckResult{Name: types.CheckDMARC, Outcome: s.outcome(types.CheckDMARC)}
}

func (s *stubProber) SMTP(_ context.Context, _, _ string) types.CheckResult {
	s.smtpCalls.Add(1)
	return types.CheckResult{Name: types.CheckSMTP, Outcome: s.outcome(types.CheckSMTP), SMTPCode: 250}
}

func (s *stubProber) Blacklist(_ context.Context, domain string) types.CheckResult {
	s.blacklistCalls.Add(1)
	if s.listed[domain] {
		return types.CheckResult{Name: types.CheckBlacklist, Outcome: types.OutcomeFail, Details: "domain on local blocklist"}
	}
	return types.CheckResult{Name: types.CheckBlacklist, Outcome: types.OutcomePass}
}

func (s *stubProber) Close() error {
	s.closed = true
	return nil
}

func newStub() *stubProber {
	return &stubProber{existingDomains: map[string]bool{"example.com": true}}
}

var wantOrder = []types.CheckName{
	types.CheckFormat,
	types.CheckDomain,
	types.CheckMX,
	types.CheckSPF,
	types.CheckDKIM,
	types.CheckDMARC,
	types.CheckSMTP,
	types.CheckBlacklist,
}

func checkNames(r mailscope.Result) []types.CheckName {
	names := make([]types.CheckName, len(r.Checks))
	for i, c := range r.Checks {
		names[i] = c.Name
	}
	return names
}

func TestVerify_MalformedAddressSkipsAllProbes(t *testing.T) {
	stub := newStub()
	v := mailscope.NewWithProber(stub)
	defer func() { _ = v.Close() }()

	result, err := v.Verify(context.Background(), "not-an-email")
	require.NoError(t, err)

	assert.Equal(t, "not-an-email", result.Email)
	assert.Equal(t, wantOrder, checkNames(result))

	format, ok := result.CheckFor(types.CheckFormat)
	require.True(t, ok)
	assert.Equal(t, types.OutcomeFail, format.Outcome)
	for _, c := range result.Checks[1:] {
		assert.Equal(t, types.OutcomeSkipped, c.Outcome, "check %s", c.Name)
	}

	assert.Zero(t, stub.domainCalls.Load(), "malformed address must not trigger network probes")
	assert.Zero(t, stub.smtpCalls.Load())
}

func TestVerify_NonexistentDomainSkipsRemainingProbes(t *testing.T) {
	stub := newStub()
	v := mailscope.NewWithProber(stub)
	defer func() { _ = v.Close() }()

	result, err := v.Verify(context.Background(), "user@nonexistent-domain-xyz.test")
	require.NoError(t, err)

	assert.Equal(t, wantOrder, checkNames(result))
	domain, ok := result.CheckFor(types.CheckDomain)
	require.True(t, ok)
	assert.Equal(t, types.OutcomeFail, domain.Outcome)
	for _, c := range result.Checks[2:] {
		assert.Equal(t, types.OutcomeSkipped, c.Outcome, "check %s", c.Name)
	}

	assert.Equal(t, int32(1), stub.domainCalls.Load())
	assert.Zero(t, stub.mxCalls.Load())
	assert.Zero(t, stub.spfCalls.Load())
	assert.Zero(t, stub.dkimCalls.Load())
	assert.Zero(t, stub.dmarcCalls.Load())
	assert.Zero(t, stub.smtpCalls.Load())
	assert.Zero(t, stub.blacklistCalls.Load())
}

func TestVerify_ExistingDomainRunsAllProbesOnce(t *testing.T) {
	stub := newStub()
	v := mailscope.NewWithProber(stub)
	defer func() { _ = v.Close() }()

	result, err := v.Verify(context.Background(), "user@example.com")
	require.NoError(t, err)

	assert.Equal(t, wantOrder, checkNames(result))
	for _, c := range result.Checks {
		assert.Equal(t, types.OutcomePass, c.Outcome, "check %s", c.Name)
	}

	assert.Equal(t, int32(1), stub.domainCalls.Load())
	assert.Equal(t, int32(1), stub.mxCalls.Load())
	assert.Equal(t, int32(1), stub.spfCalls.Load())
	assert.Equal(t, int32(1), stub.dkimCalls.Load())
	assert.Equal(t, int32(1), stub.dmarcCalls.Load())
	assert.Equal(t, int32(1), stub.smtpCalls.Load())
	assert.Equal(t, int32(1), stub.blacklistCalls.Load())
}

func TestVerify_ProbeFailureIsEncodedNotReturned(t *testing.T) {
	stub := newStub()
	stub.outcomes = map[types.CheckName]types.Outcome{
		types.CheckSPF:  types.OutcomeFail,
		types.CheckSMTP: types.OutcomeFail,
	}
	v := mailscope.NewWithProber(stub)
	defer func() { _ = v.Close() }()

	result, err := v.Verify(context.Background(), "user@example.com")
	require.NoError(t, err)

	failed := result.FailedChecks()
	names := make([]types.CheckName, len(failed))
	for i, c := range failed {
		names[i] = c.Name
	}
	assert.ElementsMatch(t, []types.CheckName{types.CheckSPF, types.CheckSMTP}, names)
}

func TestVerify_RecordProjection(t *testing.T) {
	stub := newStub()
	stub.listed = map[string]bool{"example.com": true}
	v := mailscope.NewWithProber(stub)
	defer func() { _ = v.Close() }()

	result, err := v.Verify(context.Background(), "user@example.com")
	require.NoError(t, err)

	rec := result.Record()
	assert.Equal(t, "user@example.com", rec.Email)
	assert.True(t, rec.FormatValid)
	assert.True(t, rec.DomainExists)
	assert.True(t, rec.MXRecords)
	assert.True(t, rec.SPF)
	assert.True(t, rec.DKIM)
	assert.True(t, rec.DMARC)
	assert.True(t, rec.SMTP)
	assert.True(t, rec.Blacklisted, "a failing blacklist check means listed")
}

func TestVerify_SkippedChecksProjectToFalse(t *testing.T) {
	v := mailscope.NewWithProber(newStub())
	defer func() { _ = v.Close() }()

	result, err := v.Verify(context.Background(), "bad-address")
	require.NoError(t, err)

	rec := result.Record()
	assert.False(t, rec.FormatValid)
	assert.False(t, rec.DomainExists)
	assert.False(t, rec.SMTP)
	assert.False(t, rec.Blacklisted)
}

func TestNew_RCPTProbeRequiresIdentity(t *testing.T) {
	v := mailscope.New(mailscope.Options{
		SMTP: mailscope.SMTPOptions{RCPTProbe: true},
	})
	defer func() { _ = v.Close() }()

	_, err := v.Verify(context.Background(), "user@example.com")
	assert.ErrorIs(t, err, mailscope.ErrInvalidSMTPOptions)
}

func TestNew_RCPTProbeWithIdentity(t *testing.T) {
	v := mailscope.New(mailscope.Options{
		SMTP: mailscope.SMTPOptions{
			RCPTProbe:  true,
			HeloDomain: "probe.test",
			MailFrom:   "verify@probe.test",
		},
	})
	defer func() { _ = v.Close() }()

	// Malformed input exercises the constructor path without network I/O.
	result, err := v.Verify(context.Background(), "not-an-email")
	require.NoError(t, err)
	assert.Equal(t, wantOrder, checkNames(result))
}

func TestNewWithProber_NilProber(t *testing.T) {
	v := mailscope.NewWithProber(nil)
	_, err := v.Verify(context.Background(), "user@example.com")
	assert.ErrorIs(t, err, mailscope.ErrNilProber)
}

func TestClose_ReleasesProber(t *testing.T) {
	stub := newStub()
	v := mailscope.NewWithProber(stub)
	require.NoError(t, v.Close())
	assert.True(t, stub.closed)
}
