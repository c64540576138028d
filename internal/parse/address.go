// Package parse splits candidate email addresses into their local and domain
// parts, normalizing internationalized domains to their DNS (Punycode) form.
package parse

import (
	"net/mail"
	"strings"

	"golang.org/x/net/idna"
)

// Address is the split form of a candidate email address. The check packages
// receive this instead of the raw string so that each check works on the
// already-normalized domain.
type Address struct {
	Raw           string // original input, trimmed
	Local         string // part before the last @
	Domain        string // part after the last @, ASCII/Punycode form (for DNS and SMTP)
	DomainUnicode string // Unicode form of the domain (for display and typo matching)
	Valid         bool   // false when Raw cannot be split into local@domain
}

// Split parses the given address. Valid=false never panics or errors; Raw is
// always populated so that malformed input can still be reported back.
// Internationalized addresses (RFC 6531) and domains (IDNA2008) are supported.
func Split(raw string) Address {
	raw = strings.TrimSpace(raw)

	if addr, err := mail.ParseAddress(raw); err == nil {
		return fromParts(raw, addr.Address)
	}
	if addr, err := mail.ParseAddress("<" + raw + ">"); err == nil {
		return fromParts(raw, addr.Address)
	}

	// net/mail rejects Unicode local parts (RFC 6531 SMTPUTF8); split on the
	// last @ ourselves so EAI addresses still get through.
	return fromParts(raw, raw)
}

func fromParts(raw, addr string) Address {
	at := strings.LastIndex(addr, "@")
	if at < 1 || at == len(addr)-1 {
		return Address{Raw: raw}
	}
	local, domain := addr[:at], strings.ToLower(addr[at+1:])

	ascii, unicode, ok := normalizeDomain(domain)
	if !ok {
		return Address{Raw: raw}
	}
	return Address{
		Raw:           raw,
		Local:         local,
		Domain:        ascii,
		DomainUnicode: unicode,
		Valid:         true,
	}
}

// normalizeDomain returns the ASCII/Punycode and Unicode forms of a domain.
// ok is false when a non-ASCII domain fails IDNA2008 validation.
func normalizeDomain(domain string) (ascii, unicode string, ok bool) {
	if isASCII(domain) {
		// Already-encoded Punycode still gets a readable Unicode form
		// (xn--mnchen-3ya.de -> münchen.de).
		u, err := idna.Display.ToUnicode(domain)
		if err != nil {
			u = domain
		}
		return domain, u, true
	}

	a, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return "", "", false
	}
	return a, domain, true
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}
