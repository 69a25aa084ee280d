package scpi

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var nonASCII = runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })

// encodeASCII drops every rune outside 7-bit ASCII. It never fails.
func encodeASCII(s string) []byte {
	out, _, err := transform.String(runes.Remove(nonASCII), s)
	if err != nil {
		return []byte(stripNonASCII(s))
	}
	return []byte(out)
}

// decodeASCII maps each byte above 0x7f to U+FFFD.
func decodeASCII(b []byte) string {
	t := transform.Chain(
		charmap.ISO8859_1.NewDecoder(),
		runes.Map(func(r rune) rune {
			if nonASCII.Contains(r) {
				return utf8.RuneError
			}
			return r
		}),
	)
	out, _, err := transform.Bytes(t, b)
	if err != nil {
		return replaceNonASCII(b)
	}
	return string(out)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func stripNonASCII(s string) string {
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		if r <= unicode.MaxASCII {
			buf = append(buf, byte(r))
		}
	}
	return string(buf)
}

func replaceNonASCII(b []byte) string {
	buf := make([]rune, 0, len(b))
	for _, c := range b {
		if c > unicode.MaxASCII {
			buf = append(buf, utf8.RuneError)
			continue
		}
		buf = append(buf, rune(c))
	}
	return string(buf)
}
