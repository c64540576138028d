// Package types contains the shared types for mailscope.
// This package does not import anything from other mailscope packages
// to avoid circular imports.
package types

// CheckName identifies one check of the validation pipeline.
type CheckName = string

const (
	CheckFormat    CheckName = "format"
	CheckDomain    CheckName = "domain"
	CheckMX        CheckName = "mx"
	CheckSPF       CheckName = "spf"
	CheckDKIM      CheckName = "dkim"
	CheckDMARC     CheckName = "dmarc"
	CheckSMTP      CheckName = "smtp"
	CheckBlacklist CheckName = "blacklist"
)

// Outcome is the tri-state result of a single check. A check that never ran
// (because an earlier check short-circuited the pipeline) is OutcomeSkipped,
// which is distinct from OutcomeFail.
type Outcome = string

const (
	OutcomePass    Outcome = "pass"
	OutcomeFail    Outcome = "fail"
	OutcomeSkipped Outcome = "skipped"
)

// CheckResult is the outcome of a single check.
//
// For CheckBlacklist the polarity is inverted relative to the boolean report:
// OutcomePass means the domain is not listed, OutcomeFail means it is.
type CheckResult struct {
	Name       CheckName `json:"name"`
	Outcome    Outcome   `json:"outcome"`
	Details    string    `json:"details,omitempty"`
	MXHost     string    `json:"mxHost,omitempty"`
	SMTPCode   int       `json:"smtpCode,omitempty"`
	Suggestion string    `json:"suggestion,omitempty"`
}

// Passed reports whether the check ran and came back positive.
func (r CheckResult) Passed() bool {
	return r.Outcome == OutcomePass
}

// Skipped returns a CheckResult for a check that was never evaluated.
func Skipped(name CheckName) CheckResult {
	return CheckResult{Name: name, Outcome: OutcomeSkipped, Details: "not evaluated"}
}
