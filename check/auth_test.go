package check_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mailscope/mailscope/check"
)

func TestSPFChecker(t *testing.T) {
	tests := []struct {
		name   string
		txt    map[string][]string
		wantOK bool
	}{
		{
			name:   "SPF record published",
			txt:    map[string][]string{"example.com": {"v=spf1 include:_spf.example.net -all"}},
			wantOK: true,
		},
		{
			name:   "quoted record normalized",
			txt:    map[string][]string{"example.com": {`"v=spf1  mx   -all"`}},
			wantOK: true,
		},
		{
			name:   "unrelated TXT records only",
			txt:    map[string][]string{"example.com": {"google-site-verification=abc123"}},
			wantOK: false,
		},
		{
			name:   "lookup error",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := check.NewSPFChecker(newCache(&fakeResolver{txt: tt.txt}))
			result := c.Check(context.Background(), "example.com")
			assert.Equal(t, tt.wantOK, result.Passed(), "Details: %s", result.Details)
		})
	}
}

func TestDMARCChecker(t *testing.T) {
	tests := []struct {
		name        string
		txt         map[string][]string
		wantOK      bool
		wantDetails string
	}{
		{
			name:        "DMARC policy published",
			txt:         map[string][]string{"_dmarc.example.com": {"v=DMARC1; p=reject; rua=mailto:d@example.com"}},
			wantOK:      true,
			wantDetails: "p=reject",
		},
		{
			name:   "record on wrong name",
			txt:    map[string][]string{"example.com": {"v=DMARC1; p=none"}},
			wantOK: false,
		},
		{
			name:   "lookup error",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := check.NewDMARCChecker(newCache(&fakeResolver{txt: tt.txt}))
			result := c.Check(context.Background(), "example.com")
			assert.Equal(t, tt.wantOK, result.Passed(), "Details: %s", result.Details)
			if tt.wantDetails != "" {
				assert.Contains(t, result.Details, tt.wantDetails)
			}
		})
	}
}

func TestDKIMChecker(t *testing.T) {
	tests := []struct {
		name      string
		selectors []string
		txt       map[string][]string
		wantOK    bool
	}{
		{
			name:   "record under default selector",
			txt:    map[string][]string{"google._domainkey.example.com": {"v=DKIM1; k=rsa; p=MIGfMA0GCSq"}},
			wantOK: true,
		},
		{
			name:      "key-only record under custom selector",
			selectors: []string{"mycorp2024"},
			txt:       map[string][]string{"mycorp2024._domainkey.example.com": {"k=rsa; p=MIGfMA0GCSq"}},
			wantOK:    true, // no v= tag, but a key tag is enough
		},
		{
			name:      "unrelated TXT under selector name",
			selectors: []string{"default"},
			txt:       map[string][]string{"default._domainkey.example.com": {"some-verification=token"}},
			wantOK:    false,
		},
		{
			name:      "revoked key still counts as published",
			selectors: []string{"s1"},
			txt:       map[string][]string{"s1._domainkey.example.com": {"v=DKIM1; p="}},
			wantOK:    true,
		},
		{
			name:   "no selector record anywhere",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := check.NewDKIMChecker(check.DKIMConfig{Selectors: tt.selectors}, newCache(&fakeResolver{txt: tt.txt}))
			result := c.Check(context.Background(), "example.com")
			assert.Equal(t, tt.wantOK, result.Passed(), "Details: %s", result.Details)
		})
	}
}
