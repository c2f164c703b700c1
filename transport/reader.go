package transport

import (
	"bytes"
	"errors"
	"io"
	"math"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/hearth-web/hearth/config"
	"github.com/hearth-web/hearth/http/headers"
	"github.com/hearth-web/hearth/http/status"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

var headersTerminator = []byte("\r\n\r\n")

// ReadRequest reads a single request from the connection. The read is considered
// complete when the headers terminator was received together with the body declared
// by Content-Length (requests without one end at the terminator), or when the peer
// closes its side of the connection.
//
// In case of an I/O error (including the read deadline), whatever was read so far is
// returned together with the error. Exceeding cfg.MaxRequestSize, either by the bytes
// read or by the declared Content-Length, results in status.ErrRequestEntityTooLarge.
// So does a Content-Length the request size can't be represented with.
func ReadRequest(conn net.Conn, cfg config.NET) ([]byte, error) {
	if cfg.ReadTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout)); err != nil {
			return nil, err
		}
	}

	var (
		data  []byte
		chunk = make([]byte, max(cfg.ReadBufferSize, 1))
		// need is the total length of the request. It stays -1 until the headers
		// terminator was found.
		need = -1
	)

	for {
		n, err := conn.Read(chunk)
		data = append(data, chunk[:n]...)

		if cfg.MaxRequestSize > 0 && len(data) > cfg.MaxRequestSize {
			return nil, status.ErrRequestEntityTooLarge
		}

		if need == -1 {
			if end := bytes.Index(data, headersTerminator); end != -1 {
				headLen := end + len(headersTerminator)
				length := contentLength(data[:end])
				if length > math.MaxInt-headLen ||
					(cfg.MaxRequestSize > 0 && headLen+length > cfg.MaxRequestSize) {
					return nil, status.ErrRequestEntityTooLarge
				}

				need = headLen + length
			}
		}

		if need != -1 && len(data) >= need {
			return data[:need], nil
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return data, nil
		default:
			return data, err
		}
	}
}

// contentLength extracts the Content-Length value from the request head. Malformed
// and negative values are treated as absence of the body.
func contentLength(head []byte) int {
	lines := strings.Split(uf.B2S(head), "\r\n")
	if len(lines) < 2 {
		return 0
	}

	value, found := "", false
	for _, line := range lines[1:] {
		key, v, ok := headers.ParseLine(line)
		if !ok {
			continue
		}

		switch {
		case key == "Content-Length":
			// exact match always takes precedence
			return parseLength(v)
		case !found && strcomp.EqualFold(key, "Content-Length"):
			value, found = v, true
		}
	}

	if !found {
		return 0
	}

	return parseLength(value)
}

// parseLength parses the Content-Length value. Values too big to be represented are
// saturated to math.MaxInt, so they're rejected as too large later.
func parseLength(value string) int {
	length, err := strconv.Atoi(value)
	switch {
	case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(value, "-"):
		return math.MaxInt
	case err != nil || length < 0:
		return 0
	}

	return length
}
