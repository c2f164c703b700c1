package http

import (
	"net"

	"github.com/hearth-web/hearth/http/headers"
	"github.com/hearth-web/hearth/http/method"
)

// Request represents HTTP request
type Request struct {
	// Method is an enum representing the request method. Only GET is ever parsed.
	Method method.Method
	// Path is the request-target exactly as it was received.
	Path string
	// Proto is the protocol token from the request line, e.g. "HTTP/1.1". It isn't
	// validated.
	Proto string
	// Route is the first non-empty path segment, or RootRoute.
	Route string
	// Params are the rest of the path segments, in their original order.
	Params []string
	// Body holds the raw bytes following the blank line which terminates headers. It's
	// never reassembled from lines, so it may contain CRLF sequences as-is.
	Body []byte
	// FoldHeaderKeys makes Header look the keys up case-insensitively.
	FoldHeaderKeys bool
	// Remote holds the remote address, if known.
	Remote net.Addr
	// HeaderLines are the raw header lines, without line terminators.
	HeaderLines []string
	headers     headers.Headers
}

// NewRequest returns a request with route and params derived from the path.
func NewRequest(m method.Method, path, proto string, headerLines []string, body []byte) *Request {
	route, params := SplitPath(path)

	return &Request{
		Method:      m,
		Path:        path,
		Proto:       proto,
		Route:       route,
		Params:      params,
		Body:        body,
		HeaderLines: headerLines,
	}
}

// IsRoot reports whether the request targets "/".
func (r *Request) IsRoot() bool {
	return r.Route == RootRoute
}

// Segments returns the route key followed by params. It's never empty: the root
// request has a single RootRoute segment.
func (r *Request) Segments() []string {
	return append([]string{r.Route}, r.Params...)
}

// Headers returns the header map, parsing the header lines at the first call.
func (r *Request) Headers() headers.Headers {
	if r.headers == nil {
		r.headers = headers.Parse(r.HeaderLines)
	}

	return r.headers
}

// Header looks up a single header value. The lookup is exact unless FoldHeaderKeys
// is set.
func (r *Request) Header(key string) (string, bool) {
	if r.FoldHeaderKeys {
		return r.Headers().GetFold(key)
	}

	return r.Headers().Get(key)
}
