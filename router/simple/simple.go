package simple

import (
	"github.com/hearth-web/hearth/http"
	"github.com/hearth-web/hearth/router"
)

type (
	Handler      func(*http.Request) http.Response
	ErrorHandler func(*http.Request, error) http.Response
)

var _ router.Router = Router{}

// Router passes every request to a single handler. A nil error handler responds with
// the code corresponding to the error.
type Router struct {
	handler    Handler
	errHandler ErrorHandler
}

func New(handler Handler, errHandler ErrorHandler) Router {
	if errHandler == nil {
		errHandler = func(_ *http.Request, err error) http.Response {
			return http.NewResponse().Error(err)
		}
	}

	return Router{
		handler:    handler,
		errHandler: errHandler,
	}
}

func (Router) OnStart() error {
	return nil
}

func (r Router) OnRequest(request *http.Request) http.Response {
	return r.handler(request)
}

func (r Router) OnError(request *http.Request, err error) http.Response {
	return r.errHandler(request, err)
}
