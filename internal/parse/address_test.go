package parse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mailscope/mailscope/internal/parse"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantValid  bool
		wantLocal  string
		wantDomain string
	}{
		{"simple", "user@example.com", true, "user", "example.com"},
		{"trims whitespace", "  user@example.com  ", true, "user", "example.com"},
		{"lowercases domain", "user@EXAMPLE.COM", true, "user", "example.com"},
		{"plus tag", "user+tag@example.com", true, "user+tag", "example.com"},
		{"no at sign", "userexample.com", false, "", ""},
		{"empty", "", false, "", ""},
		{"missing local", "@example.com", false, "", ""},
		{"missing domain", "user@", false, "", ""},
		{"unicode local kept", "用户@example.com", true, "用户", "example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := parse.Split(tt.raw)
			assert.Equal(t, tt.wantValid, a.Valid)
			if tt.wantValid {
				assert.Equal(t, tt.wantLocal, a.Local)
				assert.Equal(t, tt.wantDomain, a.Domain)
			}
		})
	}
}

func TestSplit_IDN(t *testing.T) {
	a := parse.Split("user@münchen.de")
	assert.True(t, a.Valid)
	assert.Equal(t, "xn--mnchen-3ya.de", a.Domain)
	assert.Equal(t, "münchen.de", a.DomainUnicode)

	a = parse.Split("user@xn--mnchen-3ya.de")
	assert.True(t, a.Valid)
	assert.Equal(t, "xn--mnchen-3ya.de", a.Domain)
	assert.Equal(t, "münchen.de", a.DomainUnicode)
}

func TestSplit_RawAlwaysPopulated(t *testing.T) {
	a := parse.Split("not-an-address")
	assert.False(t, a.Valid)
	assert.Equal(t, "not-an-address", a.Raw)
}
