package http

import (
	"strings"

	"github.com/indigo-web/utils/uf"
)

// RootRoute is the route key of the request-target "/" (or any target that has no
// non-empty segments at all).
const RootRoute = ""

// SplitPath splits the request-target into its route key and the positional params.
// The target is trimmed of surrounding whitespace and split by '/', empty segments are
// dropped, so "/foo/bar/", "foo/bar" and "//foo//bar" are all the same.
func SplitPath(target string) (route string, params []string) {
	target = strings.TrimSpace(target)

	for len(target) > 0 {
		var segment string
		segment, target, _ = strings.Cut(target, "/")
		if len(segment) == 0 {
			continue
		}

		if len(route) == 0 {
			route = segment
			continue
		}

		params = append(params, segment)
	}

	return route, params
}

// Escape makes the path safe to be logged, replacing all the non-printable characters
// by their escape sequences.
func Escape(p string) string {
	var (
		buff   []byte
		offset int
	)

	for i := 0; i < len(p); i++ {
		if !isASCIIPrintable(p[i]) {
			if buff == nil {
				buff = allocBuff(len(p))
			}

			buff = append(buff, p[offset:i]...)
			escaped := escapeByte(p[i])
			buff = append(buff, '\\', escaped)
			offset = i + 1
		}
	}

	if len(buff) == 0 {
		return p
	}

	return uf.B2S(append(buff, p[offset:]...))
}

func isASCIIPrintable(c byte) bool {
	return c >= 0x20 && c <= 0x7e
}

var escapeTable = [256]byte{
	0x0:  '0',
	0x1:  '?',
	0x2:  '?',
	0x3:  '?',
	0x4:  '?',
	0x5:  '?',
	0x6:  '?',
	0x7:  'a',
	0x8:  'b',
	0x9:  't',
	0xA:  'n',
	0xB:  'v',
	0xC:  'f',
	0xD:  'r',
	0xE:  '?',
	0xF:  '?',
	0x10: '?',
	0x11: '?',
	0x12: '?',
	0x13: '?',
	0x14: '?',
	0x15: '?',
	0x16: '?',
	0x17: '?',
	0x18: '?',
	0x19: '?',
	0x1A: '?',
	0x1B: '?',
	0x1C: '?',
	0x1D: '?',
	0x1E: '?',
	0x1F: '?',
}

func escapeByte(b byte) byte {
	if b < 0x7f {
		return escapeTable[b]
	}

	return '?'
}

func allocBuff(strsize int) []byte {
	if strsize <= 25 {
		return make([]byte, 0, 40)
	}

	return make([]byte, 0, strsize+strsize/2)
}
