// Package mailscope verifies bulk lists of email addresses by combining a
// local format check with live probes against the destination mail domain:
// DNS existence, MX records, SPF, DKIM, DMARC, SMTP reachability and
// blacklist membership.
//
// Single address:
//
//	v := mailscope.New()
//	defer v.Close()
//	result, err := v.Verify(ctx, "user@example.com")
//
// Bulk, order-preserving:
//
//	batch, err := v.VerifyBatch(ctx, lines)
//	records := batch.Records()
//
// Every network probe fails closed: a timeout or lookup failure is reported
// as a negative check outcome, never as an error. Verify only returns an
// error for configuration mistakes.
package mailscope

import "github.com/mailscope/mailscope/types"

// CheckResult is a re-export from the types package so that consumers
// don't need to import the types package directly.
type CheckResult = types.CheckResult

// CheckName is a re-export.
type CheckName = types.CheckName

// Check name constants re-exported.
const (
	CheckFormat    = types.CheckFormat
	CheckDomain    = types.CheckDomain
	CheckMX        = types.CheckMX
	CheckSPF       = types.CheckSPF
	CheckDKIM      = types.CheckDKIM
	CheckDMARC     = types.CheckDMARC
	CheckSMTP      = types.CheckSMTP
	CheckBlacklist = types.CheckBlacklist
)

// Outcome constants re-exported.
const (
	OutcomePass    = types.OutcomePass
	OutcomeFail    = types.OutcomeFail
	OutcomeSkipped = types.OutcomeSkipped
)
