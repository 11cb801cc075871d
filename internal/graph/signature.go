package graph

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"
)

// signatureDigits is the number of significant digits numbers keep in
// canonical form; values that differ only beyond it share a signature.
const signatureDigits = 12

// CanonicalValue renders a scalar attribute value with a type tag so that
// the string "1" and the number 1 never collide.
func CanonicalValue(v any) string {
	if f, ok := ToFloat(v); ok {
		return "n:" + strconv.FormatFloat(f, 'g', signatureDigits, 64)
	}
	switch x := v.(type) {
	case nil:
		return "z:"
	case string:
		return "s:" + strconv.Quote(x)
	case bool:
		return "b:" + strconv.FormatBool(x)
	default:
		return "?"
	}
}

// Canonical renders attrs as a sorted key=value list, skipping ignored keys.
func Canonical(attrs map[string]any, ignore map[string]bool) string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for _, k := range SortedKeys(attrs) {
		if ignore[k] {
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteString(strconv.Quote(k))
		b.WriteByte('=')
		b.WriteString(CanonicalValue(attrs[k]))
	}
	b.WriteByte('}')
	return b.String()
}

// Signature returns the hex BLAKE3 digest of the given parts.
func Signature(parts ...string) string {
	h := blake3.New()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// AttrSignature returns the content signature of an attribute map.
func AttrSignature(attrs map[string]any, ignore map[string]bool) string {
	return Signature(Canonical(attrs, ignore))
}
