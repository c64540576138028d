// Package check contains the individual verification checks: the pure format
// check and the network-backed domain probes (existence, MX, SPF, DKIM,
// DMARC, SMTP reachability, blacklist membership).
//
// Every network probe fails closed: lookup errors and timeouts come back as
// a negative CheckResult, never as an error. These types can be used
// directly, but the recommended entry point is the Verifier in the
// github.com/mailscope/mailscope package.
package check
