package method

// Method is an HTTP request method. The server recognizes GET only: any other token
// parses into Unknown and the request is rejected before it reaches a router.
type Method uint8

const (
	Unknown Method = iota
	GET

	// Count is the last one enum, so contains the greatest integer value of all the
	// methods. So real number of methods is lower by 1
	Count = iota - 1
)

// List contains all the supported HTTP methods. Unknown method is not included.
var List = []Method{GET}

func Parse(str string) Method {
	if str == "GET" {
		return GET
	}

	return Unknown
}

func (m Method) String() string {
	switch m {
	case GET:
		return "GET"
	default:
		return "UNKNOWN"
	}
}
