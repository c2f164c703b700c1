package segment

import (
	"context"
	"log/slog"
	"time"

	"github.com/hearth-web/hearth/http"
	"github.com/hearth-web/hearth/http/codec"
	"github.com/hearth-web/hearth/http/headers"
	"github.com/hearth-web/hearth/http/status"
	"github.com/indigo-web/utils/strcomp"
)

// Recover catches panics in the handler and responds with 500 Internal Server Error
// instead. The half-cooked response, if any, is discarded.
func Recover(next Handler, request *http.Request) (response http.Response) {
	defer func() {
		if r := recover(); r != nil {
			response = http.NewResponse().Error(status.ErrInternalServerError)
		}
	}()

	return next(request)
}

// LogRequests logs every request together with the response code. A nil logger
// means slog.Default().
func LogRequests(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next Handler, request *http.Request) http.Response {
		start := time.Now()
		response := next(request)

		attrs := []slog.Attr{
			slog.String("method", request.Method.String()),
			slog.String("path", http.Escape(request.Path)),
			slog.Int("code", int(response.Reveal().Code)),
			slog.Duration("took", time.Since(start)),
		}
		if request.Remote != nil {
			attrs = append(attrs, slog.String("remote", request.Remote.String()))
		}

		logger.LogAttrs(context.Background(), slog.LevelInfo, "request", attrs...)

		return response
	}
}

// Compress encodes response bodies with the first coding from the request's
// Accept-Encoding the server supports. Responses with an empty body or an already set
// Content-Encoding are left intact, as well as the ones failing to compress.
func Compress(codecs ...codec.Codec) Middleware {
	return func(next Handler, request *http.Request) http.Response {
		response := next(request)
		fields := response.Reveal()
		if len(fields.Body) == 0 || hasHeader(fields.Headers, "Content-Encoding") {
			return response
		}

		acceptEncoding, found := request.Header("Accept-Encoding")
		if !found {
			return response
		}

		c := codec.Negotiate(acceptEncoding, codecs)
		if c == nil {
			return response
		}

		compressed, err := c.Compress(nil, fields.Body)
		if err != nil {
			return response
		}

		return response.
			Header("Content-Encoding", c.Token()).
			Bytes(compressed)
	}
}

func hasHeader(pairs []headers.Pair, key string) bool {
	for _, pair := range pairs {
		if strcomp.EqualFold(pair.Key, key) {
			return true
		}
	}

	return false
}
