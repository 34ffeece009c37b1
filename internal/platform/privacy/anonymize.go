// Package privacy masks personal and commercially sensitive identifiers
// before they reach logs.
package privacy

import (
	"net/netip"
	"strings"
)

// AnonymizeIP truncates an address to its network: IPv4 keeps the /24 and
// IPv6 the /48. Returns "unknown" for an empty value and "invalid" for one
// that does not parse. A trailing port is ignored.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		ap, perr := netip.ParseAddrPort(ip)
		if perr != nil {
			return "invalid"
		}
		addr = ap.Addr()
	}
	addr = addr.Unmap()

	bits := 48
	if addr.Is4() {
		bits = 24
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.Addr().String()
}

// MaskIdentifier keeps the first and last two characters of id, e.g.
// "CUST-0031" becomes "CU*****31". Identifiers of six characters or fewer
// are fully masked.
func MaskIdentifier(id string) string {
	if id == "" {
		return ""
	}
	if len(id) <= 6 {
		return strings.Repeat("*", len(id))
	}
	return id[:2] + strings.Repeat("*", len(id)-4) + id[len(id)-2:]
}
