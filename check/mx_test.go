package check_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mailscope/mailscope/check"
)

func TestMXChecker(t *testing.T) {
	tests := []struct {
		name   string
		mx     map[string][]*net.MX
		wantOK bool
	}{
		{
			name:   "has MX records",
			mx:     map[string][]*net.MX{"example.com": {{Host: "mx.example.com.", Pref: 10}}},
			wantOK: true,
		},
		{
			name:   "empty MX answer",
			mx:     map[string][]*net.MX{"example.com": {}},
			wantOK: false,
		},
		{
			name:   "lookup error",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := check.NewMXChecker(newCache(&fakeResolver{mx: tt.mx}))
			result := c.Check(context.Background(), "example.com")
			assert.Equal(t, tt.wantOK, result.Passed(), "Details: %s", result.Details)
		})
	}
}

func TestMXChecker_PrimaryHostByPreference(t *testing.T) {
	r := &fakeResolver{mx: map[string][]*net.MX{"example.com": {
		{Host: "backup.example.com.", Pref: 20},
		{Host: "primary.example.com.", Pref: 10},
	}}}
	c := check.NewMXChecker(newCache(r))

	result := c.Check(context.Background(), "example.com")
	assert.True(t, result.Passed())
	assert.Equal(t, "primary.example.com", result.MXHost, "trailing dot trimmed, lowest preference wins")
}
