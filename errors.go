package mailscope

import "errors"

var (
	// ErrInvalidSMTPOptions is returned when the RCPT probe is enabled
	// without an explicit HeloDomain and MailFrom. Mailbox probes announce
	// a sender to remote exchangers, so a default identity is not supplied.
	ErrInvalidSMTPOptions = errors.New("mailscope: SMTPOptions with RCPTProbe requires HeloDomain and MailFrom")

	// ErrNilProber is returned when NewWithProber is given a nil prober.
	ErrNilProber = errors.New("mailscope: prober must not be nil")
)
