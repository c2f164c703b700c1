package http1

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/hearth-web/hearth/config"
	"github.com/hearth-web/hearth/http"
	"github.com/hearth-web/hearth/http/method"
	"github.com/hearth-web/hearth/http/status"
	"github.com/indigo-web/utils/uf"
)

var crlf = []byte("\r\n")

// Parse converts a complete request buffer into a request. The returned request
// references the buffer directly (strings are not copied), so the buffer must not
// be modified or reused while the request is alive.
//
// The request line must consist of exactly three tokens separated by single spaces,
// and the method must be GET. Header lines are collected up to the first empty line
// and parsed lazily, everything after the empty line is the body, taken as is.
func Parse(data []byte, cfg config.Headers) (*http.Request, error) {
	if !utf8.Valid(data) {
		return nil, status.ErrBadEncoding
	}

	if len(data) == 0 {
		return nil, status.ErrBadRequest
	}

	line, rest, _ := cutLine(data)
	tokens := strings.Split(uf.B2S(line), " ")
	if len(tokens) != 3 {
		return nil, status.ErrBadRequestLine
	}

	m := method.Parse(tokens[0])
	if m == method.Unknown {
		return nil, status.ErrMethodNotImplemented
	}

	headerLines, body := splitHeaders(rest)
	request := http.NewRequest(m, strings.TrimSpace(tokens[1]), tokens[2], headerLines, body)
	request.FoldHeaderKeys = cfg.FoldKeys

	return request, nil
}

// splitHeaders scans the header lines until the first empty one. The body is whatever
// follows the empty line's terminator. If there's no empty line, the headers section
// spans until the end of data and the body is empty.
func splitHeaders(data []byte) (headerLines []string, body []byte) {
	for len(data) > 0 {
		line, rest, terminated := cutLine(data)
		if terminated && len(line) == 0 {
			return headerLines, rest
		}

		if len(line) > 0 {
			headerLines = append(headerLines, uf.B2S(line))
		}

		data = rest
	}

	return headerLines, nil
}

// cutLine slices data around the first CRLF. In case there's none, the whole data is
// the line.
func cutLine(data []byte) (line, rest []byte, terminated bool) {
	idx := bytes.Index(data, crlf)
	if idx == -1 {
		return data, nil, false
	}

	return data[:idx], data[idx+len(crlf):], true
}
