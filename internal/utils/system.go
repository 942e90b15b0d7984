package utils

import (
	"os"
	"strings"
)

// Hostname returns the OS-reported short hostname. Falls back to the
// literal "unknown" when the hostname cannot be determined, so swap
// sentinels always carry a usable host token.
func Hostname() string {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		return "unknown"
	}
	// Short form: strip any domain suffix.
	if i := strings.IndexByte(hostname, '.'); i > 0 {
		hostname = hostname[:i]
	}
	return hostname
}
