package http

import (
	"errors"
	"slices"

	"github.com/hearth-web/hearth/http/headers"
	"github.com/hearth-web/hearth/http/mime"
	"github.com/hearth-web/hearth/http/status"
	"github.com/indigo-web/utils/uf"
)

// Fields is the exposed content of a Response, used mainly by the serializer.
type Fields struct {
	Code        status.Code
	ContentType mime.MIME
	Headers     []headers.Pair
	Body        []byte
}

// Response is an immutable HTTP response. Every builder method returns a modified copy,
// leaving the receiver as is, so a response may safely be shared or serialized twice.
type Response struct {
	fields Fields
}

// NewResponse returns a 200 OK response with no headers and an empty body.
func NewResponse() Response {
	return Response{
		fields: Fields{
			Code: status.OK,
		},
	}
}

// Code sets the response code. The status text is always derived from the code.
func (r Response) Code(code status.Code) Response {
	r.fields.Code = code
	return r
}

// ContentType sets the Content-Type header value. Setting a content type also makes
// Content-Length be rendered even for empty bodies.
func (r Response) ContentType(value mime.MIME) Response {
	r.fields.ContentType = value
	return r
}

// Header appends a header. Content-Type and Content-Length are managed by the
// response itself and must not be set this way.
func (r Response) Header(key, value string) Response {
	r.fields.Headers = append(slices.Clip(r.fields.Headers), headers.Pair{Key: key, Value: value})
	return r
}

// String sets the response body.
func (r Response) String(body string) Response {
	return r.Bytes(uf.S2B(body))
}

// Bytes sets the response body. The slice must not be modified afterwards.
func (r Response) Bytes(body []byte) Response {
	r.fields.Body = body
	return r
}

// Error sets the code corresponding to the error. Errors other than status.HTTPError
// result in 500 Internal Server Error. The body is left empty, as the error messages
// are internal.
func (r Response) Error(err error) Response {
	var httpErr status.HTTPError
	if errors.As(err, &httpErr) {
		return r.Code(httpErr.Code)
	}

	return r.Code(status.InternalServerError)
}

// Reveal returns a copy of the response fields.
func (r Response) Reveal() Fields {
	return r.fields
}
