// Package identity bridges the two product id spaces: the opaque string ids
// used by the GraphQL backend and the numeric ids required by the legacy REST
// surface. The mapping is a polynomial rolling hash, so it is deterministic
// but not injective; callers must keep the original id alongside the numeric
// one and never treat the hash as authoritative.
package identity

import "unicode/utf16"

// NumericID maps an opaque string id to a stable numeric id. The algorithm is
// h = h*31 + codeUnit over UTF-16 code units, truncated to a signed 32-bit
// integer, absolute value taken. It must stay bit-compatible with the ids
// already stored by existing clients, so do not change it.
func NumericID(id string) int64 {
	var h int32
	for _, u := range utf16.Encode([]rune(id)) {
		h = h*31 + int32(u)
	}
	n := int64(h)
	if n < 0 {
		n = -n
	}
	return n
}
