package status

type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrBadRequest              = NewError(BadRequest, "bad request")
	ErrBadRequestLine          = NewError(BadRequest, "malformed request line")
	ErrBadEncoding             = NewError(BadRequest, "request is not valid UTF-8")
	ErrNotFound                = NewError(NotFound, "not found")
	ErrRequestTimeout          = NewError(RequestTimeout, "request timeout")
	ErrRequestEntityTooLarge   = NewError(RequestEntityTooLarge, "request entity too large")
	ErrInternalServerError     = NewError(InternalServerError, "internal server error")
	ErrMethodNotImplemented    = NewError(NotImplemented, "request method is not supported")
	ErrHTTPVersionNotSupported = NewError(HTTPVersionNotSupported, "HTTP version not supported")
)
