package check

import (
	"context"
	"strings"
	"unicode"

	"github.com/mailscope/mailscope/internal/levenshtein"
	"github.com/mailscope/mailscope/internal/parse"
	"github.com/mailscope/mailscope/types"
)

// SyntaxConfig is the format checker configuration.
type SyntaxConfig struct {
	// SuggestTypos populates the Suggestion field when the domain is a close
	// match to a known provider. Never affects the outcome.
	SuggestTypos bool
	// TypoThreshold is the edit-distance limit for suggestions.
	TypoThreshold int
}

// SyntaxChecker validates email format according to RFC 5321/5322 with
// RFC 6531 (SMTPUTF8) and IDNA2008 internationalization support.
// It is pure: no I/O, deterministic, and total over arbitrary input.
type SyntaxChecker struct {
	cfg            SyntaxConfig
	knownProviders []string
}

// defaultProviders is used for typo suggestions only: a domain within
// TypoThreshold edits of one of these gets a Suggestion on the result.
var defaultProviders = []string{
	"gmail.com", "googlemail.com",
	"yahoo.com", "yahoo.co.uk", "yahoo.fr", "yahoo.de",
	"outlook.com", "hotmail.com", "hotmail.co.uk", "live.com",
	"icloud.com", "me.com", "mac.com",
	"protonmail.com", "proton.me",
	"aol.com",
	"zoho.com",
	"yandex.com", "yandex.ru",
	"mail.com",
	"gmx.com", "gmx.net", "gmx.de",
	"fastmail.com",
	"tutanota.com",
}

func NewSyntaxChecker(cfg SyntaxConfig) *SyntaxChecker {
	return &SyntaxChecker{
		cfg:            cfg,
		knownProviders: defaultProviders,
	}
}

func (c *SyntaxChecker) Check(_ context.Context, addr parse.Address) types.CheckResult {
	name := types.CheckFormat

	if addr.Raw == "" {
		return types.CheckResult{Name: name, Outcome: types.OutcomeFail, Details: "empty address"}
	}
	if !addr.Valid {
		return types.CheckResult{Name: name, Outcome: types.OutcomeFail, Details: "invalid email syntax"}
	}

	// Length limits (RFC 5321).
	if len(addr.Raw) > 254 {
		return types.CheckResult{Name: name, Outcome: types.OutcomeFail, Details: "address exceeds 254 characters"}
	}
	if len(addr.Local) > 64 {
		return types.CheckResult{Name: name, Outcome: types.OutcomeFail, Details: "local part exceeds 64 characters"}
	}

	// net/mail strips quotes from quoted local parts, so detect quoted form
	// on the raw input.
	if !hasQuotedLocal(addr.Raw) {
		if msg := checkLocal(addr.Local); msg != "" {
			return types.CheckResult{Name: name, Outcome: types.OutcomeFail, Details: msg}
		}
	}

	// The Unicode form gives readable error details; IDNA2008 validation
	// already ran during parsing.
	if msg := checkDomain(addr.DomainUnicode); msg != "" {
		return types.CheckResult{Name: name, Outcome: types.OutcomeFail, Details: msg}
	}

	result := types.CheckResult{Name: name, Outcome: types.OutcomePass, Details: "format ok"}
	if c.cfg.SuggestTypos {
		if s := c.suggest(strings.ToLower(addr.DomainUnicode)); s != "" {
			result.Details = "format ok; possible typo in domain"
			result.Suggestion = s
		}
	}
	return result
}

// suggest returns the closest known provider within the threshold,
// or "" when the domain is an exact match or nothing is close enough.
func (c *SyntaxChecker) suggest(domain string) string {
	best := c.cfg.TypoThreshold + 1
	match := ""
	for _, provider := range c.knownProviders {
		if domain == provider {
			return ""
		}
		if d := levenshtein.Distance(domain, provider); d < best {
			best = d
			match = provider
		}
	}
	if best > c.cfg.TypoThreshold {
		return ""
	}
	return match
}

func hasQuotedLocal(raw string) bool {
	at := strings.LastIndex(raw, "@")
	if at < 1 {
		return false
	}
	local := raw[:at]
	return strings.HasPrefix(local, `"`) && strings.HasSuffix(local, `"`)
}

// checkLocal validates an unquoted local part. Returns error text, or "" if ok.
// ASCII follows RFC 5321; non-ASCII runes are allowed per RFC 6531 except
// control characters.
func checkLocal(local string) string {
	if local == "" {
		return "local part is empty"
	}
	if strings.HasPrefix(local, `"`) && strings.HasSuffix(local, `"`) {
		return "" // quoted form allows any printable character
	}

	const asciiSpecial = "!#$%&'*+/=?^_`{|}~-."
	for _, ch := range local {
		if ch > 127 {
			if unicode.IsControl(ch) {
				return "local part contains control character"
			}
			continue
		}
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			continue
		}
		if !strings.ContainsRune(asciiSpecial, ch) {
			return "local part contains invalid character: " + string(ch)
		}
	}

	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return "local part cannot start or end with a dot"
	}
	if strings.Contains(local, "..") {
		return "local part cannot contain consecutive dots"
	}
	return ""
}

// checkDomain validates the domain part (Unicode form). Returns error text,
// or "" if ok.
func checkDomain(domain string) string {
	if domain == "" {
		return "domain is empty"
	}

	// IP literal: [192.0.2.1] - accepted without deep validation.
	if strings.HasPrefix(domain, "[") && strings.HasSuffix(domain, "]") {
		return ""
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return "domain must have at least two labels"
	}

	for _, label := range labels {
		if label == "" {
			return "domain contains empty label (consecutive dots)"
		}
		if len(label) > 63 {
			return "domain label exceeds 63 characters"
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return "domain label cannot start or end with a hyphen"
		}
		for _, ch := range label {
			if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '-' {
				return "domain label contains invalid character: " + string(ch)
			}
		}
	}

	tld := labels[len(labels)-1]
	allDigits := true
	for _, ch := range tld {
		if !unicode.IsDigit(ch) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return "TLD cannot be all digits"
	}
	return ""
}
