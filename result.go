package mailscope

import "github.com/mailscope/mailscope/types"

// Result holds the full verification outcome for one address. Checks always
// contains all eight checks in a fixed order: format, domain, mx, spf, dkim,
// dmarc, smtp, blacklist. Checks that were not executed because an earlier
// gate failed carry OutcomeSkipped.
type Result struct {
	// Email is the address exactly as submitted.
	Email  string
	Checks []types.CheckResult
}

// CheckFor returns the result for the named check and whether it was found.
func (r Result) CheckFor(name types.CheckName) (types.CheckResult, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return types.CheckResult{}, false
}

// FailedChecks returns the checks with a failing outcome. Skipped checks are
// not failures.
func (r Result) FailedChecks() []types.CheckResult {
	var failed []types.CheckResult
	for _, c := range r.Checks {
		if c.Outcome == types.OutcomeFail {
			failed = append(failed, c)
		}
	}
	return failed
}

// Record is the flat boolean projection of a Result used for export and API
// responses. A skipped check projects to false. Blacklisted is inverted
// relative to the check outcome: true means the domain or its sending IP is
// listed.
type Record struct {
	Email        string `json:"email"`
	FormatValid  bool   `json:"formatValid"`
	DomainExists bool   `json:"domainExists"`
	MXRecords    bool   `json:"mxRecords"`
	SPF          bool   `json:"spf"`
	DKIM         bool   `json:"dkim"`
	DMARC        bool   `json:"dmarc"`
	SMTP         bool   `json:"smtp"`
	Blacklisted  bool   `json:"blacklisted"`
}

// Record projects the tri-state check outcomes down to booleans.
func (r Result) Record() Record {
	rec := Record{Email: r.Email}
	for _, c := range r.Checks {
		switch c.Name {
		case types.CheckFormat:
			rec.FormatValid = c.Passed()
		case types.CheckDomain:
			rec.DomainExists = c.Passed()
		case types.CheckMX:
			rec.MXRecords = c.Passed()
		case types.CheckSPF:
			rec.SPF = c.Passed()
		case types.CheckDKIM:
			rec.DKIM = c.Passed()
		case types.CheckDMARC:
			rec.DMARC = c.Passed()
		case types.CheckSMTP:
			rec.SMTP = c.Passed()
		case types.CheckBlacklist:
			rec.Blacklisted = c.Outcome == types.OutcomeFail
		}
	}
	return rec
}

// Batch is an ordered collection of results, index-aligned with the
// submitted addresses.
type Batch []Result

// Records projects every result in order.
func (b Batch) Records() []Record {
	records := make([]Record, len(b))
	for i, r := range b {
		records[i] = r.Record()
	}
	return records
}
