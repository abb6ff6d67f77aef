package util

import (
	"net/url"
)

// MustParseURL parses the given raw url and panics if it is malformed.
// Only meant for urls which are known to be valid at compile time.
func MustParseURL(u string) *url.URL {
	uu, err := url.Parse(u)
	if err != nil {
		panic(err)
	}
	return uu
}
