package router

import (
	"github.com/hearth-web/hearth/http"
)

// Router dispatches parsed requests. OnStart is called once before the server starts
// accepting connections, after that the router must be safe for concurrent use.
type Router interface {
	OnStart() error
	OnRequest(request *http.Request) http.Response
	OnError(request *http.Request, err error) http.Response
}
