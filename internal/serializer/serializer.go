package serializer

import (
	"strconv"

	"github.com/hearth-web/hearth/http"
	"github.com/hearth-web/hearth/http/status"
)

const (
	protocol      = "HTTP/1.1 "
	contentType   = "Content-Type: "
	contentLength = "Content-Length: "
)

// Serialize renders the response into a newly allocated buffer.
func Serialize(response http.Response) []byte {
	fields := response.Reveal()
	// rough estimation, good enough to avoid growing in common cases
	size := len(protocol) + 64 + len(fields.Body)
	for _, header := range fields.Headers {
		size += len(header.Key) + len(header.Value) + 4
	}

	return Append(make([]byte, 0, size), response)
}

// Append renders the response and appends it to buff. The output is:
//
//	HTTP/1.1 <code> <reason>\r\n
//	<custom headers, in the order they were set>\r\n
//	Content-Type: <type>\r\n
//	Content-Length: <len(body)>\r\n
//	\r\n
//	<body>
//
// Content-Type and Content-Length are rendered only if a content type is set or the
// body isn't empty, so a bare response consists of the status line and an empty line.
func Append(buff []byte, response http.Response) []byte {
	fields := response.Reveal()

	buff = append(buff, protocol...)
	buff = append(buff, status.Line(fields.Code)...)
	buff = crlf(buff)

	for _, header := range fields.Headers {
		buff = renderHeader(buff, header.Key, header.Value)
	}

	if len(fields.ContentType) > 0 || len(fields.Body) > 0 {
		if len(fields.ContentType) > 0 {
			buff = append(buff, contentType...)
			buff = append(buff, fields.ContentType...)
			buff = crlf(buff)
		}

		buff = append(buff, contentLength...)
		buff = strconv.AppendInt(buff, int64(len(fields.Body)), 10)
		buff = crlf(buff)
	}

	buff = crlf(buff)

	return append(buff, fields.Body...)
}

func renderHeader(buff []byte, key, value string) []byte {
	buff = append(buff, key...)
	buff = append(buff, ':', ' ')
	buff = append(buff, value...)
	return crlf(buff)
}

func crlf(buff []byte) []byte {
	return append(buff, '\r', '\n')
}
