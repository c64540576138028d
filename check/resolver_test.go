package check_test

import (
	"context"
	"net"
	"time"

	"github.com/mailscope/mailscope/internal/dnscache"
)

// fakeResolver answers lookups from fixed maps; names missing from a map
// get an *net.DNSError like a real NXDOMAIN.
type fakeResolver struct {
	host map[string][]string
	mx   map[string][]*net.MX
	txt  map[string][]string
	ns   map[string][]*net.NS
}

func nxdomain(name string) error {
	return &net.DNSError{Err: "no such host", Name: name, IsNotFound: true}
}

func (f *fakeResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	if v, ok := f.host[host]; ok {
		return v, nil
	}
	return nil, nxdomain(host)
}

func (f *fakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if v, ok := f.mx[name]; ok {
		return v, nil
	}
	return nil, nxdomain(name)
}

func (f *fakeResolver) LookupTXT(_ context.Context, name string) ([]string, error) {
	if v, ok := f.txt[name]; ok {
		return v, nil
	}
	return nil, nxdomain(name)
}

func (f *fakeResolver) LookupNS(_ context.Context, name string) ([]*net.NS, error) {
	if v, ok := f.ns[name]; ok {
		return v, nil
	}
	return nil, nxdomain(name)
}

func newCache(r *fakeResolver) *dnscache.Cache {
	return dnscache.NewWithResolver(time.Second, time.Minute, r)
}
