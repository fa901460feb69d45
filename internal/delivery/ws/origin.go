package ws

import "strings"

// AllowedOrigin reports whether a browser Origin may talk to the command
// server. Requests without an Origin header come from native clients and
// are always allowed; "*" in the list allows every origin.
func AllowedOrigin(allowed []string, origin string) bool {
	if origin == "" {
		return true
	}
	origin = strings.TrimSuffix(origin, "/")

	for _, a := range allowed {
		if a == "*" || strings.EqualFold(strings.TrimSuffix(a, "/"), origin) {
			return true
		}
	}
	return false
}
