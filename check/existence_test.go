package check_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mailscope/mailscope/check"
)

func TestExistenceChecker(t *testing.T) {
	tests := []struct {
		name   string
		host   map[string][]string
		ns     map[string][]*net.NS
		wantOK bool
	}{
		{
			name:   "domain with address records",
			host:   map[string][]string{"example.com": {"192.0.2.1"}},
			wantOK: true,
		},
		{
			name:   "mail-only domain with NS delegation",
			ns:     map[string][]*net.NS{"example.com": {{Host: "ns1.example.com."}}},
			wantOK: true,
		},
		{
			name:   "nonexistent domain",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := check.NewExistenceChecker(newCache(&fakeResolver{host: tt.host, ns: tt.ns}))
			result := c.Check(context.Background(), "example.com")
			assert.Equal(t, tt.wantOK, result.Passed(), "Details: %s", result.Details)
		})
	}
}
