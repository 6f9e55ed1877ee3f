package uriutil

import (
	"fmt"
	"net/url"
	"strings"
)

// OriginPattern is a wildcard-capable matcher over the scheme, hostname and
// port of an origin, e.g. "https://*.example.com" or "http://localhost:*".
// An empty port component constrains the origin to its scheme's default
// port, mirroring how browsers normalize origins.
type OriginPattern struct {
	scheme   string
	hostname string
	port     string // "" = default port only, "*" = any port
}

// ParsePattern parses an allowed-origin pattern. The scheme and hostname are
// required; each component may contain "*" wildcards.
func ParsePattern(raw string) (*OriginPattern, error) {
	raw = strings.TrimSpace(raw)

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok || scheme == "" {
		return nil, fmt.Errorf("origin pattern %q has no scheme", raw)
	}
	if !validComponent(scheme) {
		return nil, fmt.Errorf("origin pattern %q has an invalid scheme", raw)
	}

	rest = strings.TrimSuffix(rest, "/")
	if rest == "" || strings.ContainsAny(rest, "/?# \t") {
		return nil, fmt.Errorf("origin pattern %q has an invalid host", raw)
	}

	hostname, port := rest, ""
	if i := strings.LastIndex(rest, ":"); i != -1 && !strings.Contains(rest[i:], "]") {
		hostname, port = rest[:i], rest[i+1:]
		if port == "" || !validComponent(port) {
			return nil, fmt.Errorf("origin pattern %q has an invalid port", raw)
		}
	}
	// url.URL.Hostname() returns IPv6 hosts without brackets.
	if strings.HasPrefix(hostname, "[") && strings.HasSuffix(hostname, "]") {
		hostname = hostname[1 : len(hostname)-1]
	}
	if hostname == "" || !validComponent(hostname) {
		return nil, fmt.Errorf("origin pattern %q has an invalid host", raw)
	}

	scheme = strings.ToLower(scheme)
	hostname = strings.ToLower(hostname)

	// A literal default port is the same constraint as no port at all.
	if port == defaultPort(scheme) {
		port = ""
	}

	return &OriginPattern{scheme: scheme, hostname: hostname, port: port}, nil
}

// PortLess derives a pattern that matches on scheme and hostname only,
// ignoring the port. Used for the localhost carve-out in IsValidOrigin.
func (p *OriginPattern) PortLess() *OriginPattern {
	return &OriginPattern{scheme: p.scheme, hostname: p.hostname, port: "*"}
}

// Matches reports whether the URL's scheme, hostname and port satisfy the
// pattern. A URL carrying its scheme's default port explicitly is treated
// the same as one carrying no port.
func (p *OriginPattern) Matches(u *url.URL) bool {
	scheme := strings.ToLower(u.Scheme)
	if !wildcardMatch(p.scheme, scheme) {
		return false
	}
	if !wildcardMatch(p.hostname, strings.ToLower(u.Hostname())) {
		return false
	}

	port := u.Port()
	if port == defaultPort(scheme) {
		port = ""
	}
	if p.port == "*" {
		return true
	}
	if p.port == "" {
		return port == ""
	}
	return wildcardMatch(p.port, port)
}

// IsValidOrigin reports whether a cross-origin message's origin satisfies an
// allowed-origin pattern. Any parse failure means "not valid" — callers must
// reject on ambiguity rather than see an error.
//
// Origins with hostname "localhost" only need to match the pattern's scheme
// and hostname: allow-lists are authored without anticipating the ephemeral
// ports local testing tools listen on. Non-localhost origins always match
// against the full pattern, port included.
func IsValidOrigin(allowedOrigin, testOrigin string) bool {
	pattern, err := ParsePattern(allowedOrigin)
	if err != nil {
		return false
	}

	u, err := url.Parse(testOrigin)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return false
	}

	if u.Hostname() == "localhost" && pattern.PortLess().Matches(u) {
		return true
	}
	return pattern.Matches(u)
}

func defaultPort(scheme string) string {
	switch scheme {
	case "https", "wss":
		return "443"
	case "http", "ws":
		return "80"
	}
	return ""
}

// validComponent rejects characters that cannot appear in a scheme, host or
// port pattern. Wildcards are allowed anywhere within a component.
func validComponent(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '*', r == '.', r == '-', r == '+', r == '_', r == '[', r == ']', r == ':':
		default:
			return false
		}
	}
	return true
}

// wildcardMatch matches value against a pattern where "*" matches any run of
// characters, including the empty one.
func wildcardMatch(pattern, value string) bool {
	if !strings.Contains(pattern, "*") {
		return pattern == value
	}

	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(value, parts[0]) {
		return false
	}
	if !strings.HasSuffix(value[len(parts[0]):], parts[len(parts)-1]) {
		return false
	}

	pos := len(parts[0])
	end := len(value) - len(parts[len(parts)-1])
	for _, part := range parts[1 : len(parts)-1] {
		if part == "" {
			continue
		}
		idx := strings.Index(value[pos:end], part)
		if idx == -1 {
			return false
		}
		pos += idx + len(part)
	}
	return true
}
