// Package uriutil resolves where a front-end's backend can be reached when
// the app is served from an arbitrary sub-path, builds WebSocket/HTTP URIs
// from a base and a relative path, and validates cross-origin message
// origins against wildcard-capable allow patterns.
package uriutil

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// BaseURIParts identifies where the backend is expected to be reached.
// BasePath never has leading or trailing slashes.
type BaseURIParts struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	BasePath string `json:"base_path"`
}

// Location is the page location the resolver works from, passed explicitly
// instead of being read from ambient state. Port is empty when the URL
// carries no explicit port.
type Location struct {
	Protocol string // "http" or "https", no trailing colon
	Hostname string
	Port     string
	Pathname string
}

// Options carries the build-mode flag and the fixed development WebSocket
// port. In development the page is served by a separate dev server, so the
// backend port cannot be taken from the page URL.
type Options struct {
	DevMode bool
	DevPort int
}

// ParseLocation parses a page URL into a Location. The scheme and hostname
// must be present; everything else is optional.
func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("parse page URL %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return Location{}, fmt.Errorf("page URL %q has no scheme or host", raw)
	}
	return Location{
		Protocol: strings.ToLower(u.Scheme),
		Hostname: u.Hostname(),
		Port:     u.Port(),
		Pathname: u.Path,
	}, nil
}

// IsHTTPS reports whether the page was loaded over HTTPS.
func (l Location) IsHTTPS() bool {
	return l.Protocol == "https"
}

// WindowBaseURIParts derives the effective base URI of the page. In dev mode
// the port is forced to opts.DevPort; otherwise a missing port is normalized
// to 443/80 so later string building always has an explicit port.
func WindowBaseURIParts(loc Location, opts Options) BaseURIParts {
	var port int
	switch {
	case opts.DevMode:
		port = opts.DevPort
	case loc.Port != "":
		port, _ = strconv.Atoi(loc.Port)
	case loc.IsHTTPS():
		port = 443
	default:
		port = 80
	}

	path := strings.TrimRight(loc.Pathname, "/")
	path = strings.TrimLeft(path, "/")

	return BaseURIParts{
		Host:     loc.Hostname,
		Port:     port,
		BasePath: path,
	}
}

// PossibleBaseURIs enumerates candidate base URIs, most-specific first.
// A page at /foo/bar may be the root page of an app deployed at /foo/bar,
// or the "bar" sub-page of an app deployed at /foo. Callers probe each
// candidate's health endpoint in order to find out which one it is.
//
// At most 2 candidates are returned. That cap is a known trade-off for
// deeply nested multipage deployments, kept deliberately.
func PossibleBaseURIs(loc Location, opts Options) []BaseURIParts {
	parts := WindowBaseURIParts(loc, opts)
	if parts.BasePath == "" {
		return []BaseURIParts{parts}
	}

	segments := strings.Split(parts.BasePath, "/")
	var candidates []BaseURIParts
	for len(segments) > 0 {
		candidates = append(candidates, BaseURIParts{
			Host:     parts.Host,
			Port:     parts.Port,
			BasePath: strings.Join(segments, "/"),
		})
		segments = segments[:len(segments)-1]
	}

	if len(candidates) > 2 {
		candidates = candidates[:2]
	}
	return candidates
}

// BuildWSURI builds a WebSocket URI from a base and a relative path.
// The scheme follows the page scheme: wss when the page is HTTPS, ws
// otherwise. Inputs are not validated beyond slash trimming.
func BuildWSURI(base BaseURIParts, path string, secure bool) string {
	scheme := "ws"
	if secure {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s:%d/%s", scheme, base.Host, base.Port, MakePath(base.BasePath, path))
}

// BuildHTTPURI builds an HTTP URI from a base and a relative path, https
// when the page is HTTPS.
func BuildHTTPURI(base BaseURIParts, path string, secure bool) string {
	scheme := "http"
	if secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d/%s", scheme, base.Host, base.Port, MakePath(base.BasePath, path))
}

// MakePath joins a base path and a sub-path. Both are stripped of leading
// and trailing slashes first; an empty base yields the sub-path alone.
func MakePath(basePath, subPath string) string {
	basePath = strings.Trim(basePath, "/")
	subPath = strings.Trim(subPath, "/")
	if basePath == "" {
		return subPath
	}
	return basePath + "/" + subPath
}
