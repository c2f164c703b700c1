package status

type (
	Code   uint16
	Status string
)

// HTTP status codes the server is able to answer with. The registry is the IANA one,
// see https://www.iana.org/assignments/http-status-codes/http-status-codes.xhtml
const (
	OK Code = 200 // RFC 9110, 15.3.1

	BadRequest            Code = 400 // RFC 9110, 15.5.1
	NotFound              Code = 404 // RFC 9110, 15.5.5
	MethodNotAllowed      Code = 405 // RFC 9110, 15.5.6
	RequestTimeout        Code = 408 // RFC 9110, 15.5.9
	RequestEntityTooLarge Code = 413 // RFC 9110, 15.5.14

	InternalServerError     Code = 500 // RFC 9110, 15.6.1
	NotImplemented          Code = 501 // RFC 9110, 15.6.2
	HTTPVersionNotSupported Code = 505 // RFC 9110, 15.6.6
)

// KnownCodes lists every code Text has a reason phrase for.
var KnownCodes = []Code{
	OK,
	BadRequest, NotFound, MethodNotAllowed, RequestTimeout, RequestEntityTooLarge,
	InternalServerError, NotImplemented, HTTPVersionNotSupported,
}

// Text returns a reason phrase for the HTTP status code. It returns the empty
// string if the code is unknown.
func Text(code Code) Status {
	switch code {
	case OK:
		return "OK"
	case BadRequest:
		return "Bad Request"
	case NotFound:
		return "Not Found"
	case MethodNotAllowed:
		return "Method Not Allowed"
	case RequestTimeout:
		return "Request Timeout"
	case RequestEntityTooLarge:
		return "Request Entity Too Large"
	case InternalServerError:
		return "Internal Server Error"
	case NotImplemented:
		return "Not Implemented"
	case HTTPVersionNotSupported:
		return "HTTP Version Not Supported"
	default:
		return ""
	}
}

// Line renders the code together with its reason phrase, e.g. "404 Not Found". Unknown
// codes are rendered with a generic phrase, so the status line always stays well-formed.
func Line(code Code) string {
	text := Text(code)
	if len(text) == 0 {
		text = "Unknown Status Code"
	}

	return StringCode(code) + " " + string(text)
}

// StringCode returns the three-digit decimal representation of the code.
func StringCode(code Code) string {
	if code < 100 || code > 999 {
		return "000"
	}

	return string([]byte{
		byte('0' + code/100),
		byte('0' + code/10%10),
		byte('0' + code%10),
	})
}
