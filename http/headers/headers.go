package headers

import (
	"strings"

	"github.com/indigo-web/utils/strcomp"
)

// Pair is a single header entry. Responses keep their headers as an ordered slice of
// pairs, so they are rendered exactly in the order they were set.
type Pair struct {
	Key, Value string
}

// Headers maps header names to their values. Names are stored as they were received,
// and lookups via Get are exact: "user-agent" won't find "User-Agent". Use GetFold
// when a case-insensitive lookup is acceptable.
type Headers map[string]string

// Parse builds Headers out of raw header lines. Every non-empty line is split at the
// first colon, name and value are trimmed of surrounding whitespace. Lines without
// a colon are skipped. In case of duplicate names, the last occurrence wins.
func Parse(lines []string) Headers {
	h := make(Headers, len(lines))

	for _, line := range lines {
		key, value, ok := ParseLine(line)
		if !ok {
			continue
		}

		h[key] = value
	}

	return h
}

// ParseLine splits a single header line into the name and the value.
func ParseLine(line string) (key, value string, ok bool) {
	if len(line) == 0 {
		return "", "", false
	}

	key, value, ok = strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}

	return strings.Trim(key, " \t"), strings.Trim(value, " \t"), true
}

// Get returns a value by the exact key.
func (h Headers) Get(key string) (string, bool) {
	value, found := h[key]
	return value, found
}

// Value returns a value by the exact key, or an empty string if there's no such.
func (h Headers) Value(key string) string {
	return h[key]
}

// GetFold looks the key up case-insensitively. The exact match is tried first, so
// for well-behaved clients it costs the same as Get.
func (h Headers) GetFold(key string) (string, bool) {
	if value, found := h[key]; found {
		return value, true
	}

	for k, value := range h {
		if strcomp.EqualFold(k, key) {
			return value, true
		}
	}

	return "", false
}

// Has indicates, whether there's an entry of the exact key.
func (h Headers) Has(key string) bool {
	_, found := h[key]
	return found
}
