package segment

import (
	"strings"

	"github.com/hearth-web/hearth/http"
	"github.com/hearth-web/hearth/http/mime"
	"github.com/hearth-web/hearth/http/status"
)

// Root responds with 200 OK and no body.
func Root(*http.Request) http.Response {
	return http.NewResponse()
}

// Echo responds with the request params concatenated with no separator.
func Echo(request *http.Request) http.Response {
	return http.NewResponse().
		ContentType(mime.Plain).
		String(strings.Join(request.Params, ""))
}

// UserAgent responds with the User-Agent header value. Requests without it get 404.
func UserAgent(request *http.Request) http.Response {
	agent, found := request.Header("User-Agent")
	if !found {
		return NotFound(request)
	}

	return http.NewResponse().
		ContentType(mime.Plain).
		String(agent)
}

func NotFound(*http.Request) http.Response {
	return http.NewResponse().Code(status.NotFound)
}
