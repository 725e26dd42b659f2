// Package clientid derives the stable identity used as the rate limiter
// key from the transport-level client address.
package clientid

import (
	"net"
	"net/http"
	"strings"

	"github.com/seancfoley/ipaddress-go/ipaddr"
)

// FromRequest extracts the client identity from the request. When
// trustProxy is set, the first X-Forwarded-For entry wins, since the
// service then sits behind a proxy that overwrites the header.
func FromRequest(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return Normalize(strings.TrimSpace(first))
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return Normalize(host)
}

// Normalize canonicalizes an IP address string so textual variants of the
// same address ("::1", "0:0:0:0:0:0:0:1") collapse to a single limiter
// key. Anything that does not parse as an IP is used verbatim rather than
// being exempt from limiting.
func Normalize(raw string) string {
	addr, err := ipaddr.NewIPAddressString(raw).ToAddress()
	if err != nil || addr == nil {
		return raw
	}
	return addr.ToNormalizedString()
}
