package handlers

import (
	"embedgate/uriutil"
)

// matchOrigin returns the first allow pattern the origin satisfies.
func matchOrigin(patterns []string, origin string) (string, bool) {
	for _, p := range patterns {
		if uriutil.IsValidOrigin(p, origin) {
			return p, true
		}
	}
	return "", false
}
