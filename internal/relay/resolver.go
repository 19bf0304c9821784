package relay

import (
	"net/url"
	"strings"
)

// DefaultHosts refuse direct in-page fetches and must be routed through the
// relay: the redgifs CDN and reddit's native video host.
var DefaultHosts = []string{"redgifs.com", "v.redd.it"}

// Resolver rewrites URLs on relay-required hosts to go through the relay
// endpoint. The check happens at delivery time, when a reference is handed to
// a playback element, so classification stays independent of relay
// availability.
type Resolver struct {
	base  string
	hosts []string
}

// NewResolver builds a resolver targeting the relay at base (for example
// "http://localhost:3000"). An empty base disables rewriting. With no
// explicit hosts, DefaultHosts apply.
func NewResolver(base string, hosts ...string) *Resolver {
	if len(hosts) == 0 {
		hosts = DefaultHosts
	}
	return &Resolver{base: strings.TrimSuffix(base, "/"), hosts: hosts}
}

// Rewrite returns the delivery URL for raw: relay-wrapped when its host
// requires it, unchanged otherwise.
func (r *Resolver) Rewrite(raw string) string {
	if r.base == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	host := u.Hostname()
	for _, h := range r.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return r.base + "/relay?url=" + url.QueryEscape(raw)
		}
	}
	return raw
}
