package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/hearth-web/hearth/config"
	"github.com/hearth-web/hearth/http"
	"github.com/hearth-web/hearth/http/status"
	"github.com/hearth-web/hearth/internal/parser/http1"
	"github.com/hearth-web/hearth/internal/serializer"
	"github.com/hearth-web/hearth/router"
	"github.com/hearth-web/hearth/transport"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const name = "github.com/hearth-web/hearth/internal/server"

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(s *Server) {
		if provider != nil {
			s.meterProvider = provider
		}
	}
}

func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(s *Server) {
		if provider != nil {
			s.tracerProvider = provider
		}
	}
}

// Server serves a single request per connection: it reads the request, parses it,
// dispatches it to the router and writes the response back. The connection is closed
// afterwards in any case.
type Server struct {
	router         router.Router
	cfg            *config.Config
	logger         *slog.Logger
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	tracer         trace.Tracer
	requests       metric.Int64Counter
	failures       metric.Int64Counter
}

func New(r router.Router, cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		router:         r,
		cfg:            cfg,
		logger:         slog.Default(),
		meterProvider:  otel.GetMeterProvider(),
		tracerProvider: otel.GetTracerProvider(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.tracer = s.tracerProvider.Tracer(name)
	meter := s.meterProvider.Meter(name)

	var err error
	s.requests, err = meter.Int64Counter("hearth.server.requests",
		metric.WithDescription("The number of responded requests by response code"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, fmt.Errorf("server: create requests counter: %w", err)
	}

	s.failures, err = meter.Int64Counter("hearth.server.failures",
		metric.WithDescription("The number of connections which didn't result in a routed request"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, fmt.Errorf("server: create failures counter: %w", err)
	}

	return s, nil
}

// HandleConn serves the connection and closes it.
func (s *Server) HandleConn(conn net.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	ctx, span := s.tracer.Start(context.Background(), "hearth.conn",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	if remote := conn.RemoteAddr(); remote != nil {
		span.SetAttributes(attribute.String("net.peer.addr", remote.String()))
	}

	data, err := transport.ReadRequest(conn, s.cfg.NET)
	if err != nil {
		if errors.Is(err, status.ErrRequestEntityTooLarge) {
			s.fail(ctx, span, conn, err)
			return
		}

		// whatever was read before the error is treated as the whole request
		s.logger.Debug("read request", slog.Any("error", err))
		span.AddEvent("read error", trace.WithAttributes(attribute.String("error", err.Error())))
	}

	request, err := http1.Parse(data, s.cfg.Headers)
	if err != nil {
		s.fail(ctx, span, conn, err)
		return
	}

	request.Remote = conn.RemoteAddr()
	span.SetAttributes(
		attribute.String("http.method", request.Method.String()),
		attribute.String("http.target", http.Escape(request.Path)),
	)

	s.respond(ctx, span, conn, s.router.OnRequest(request))
}

// fail applies the parse-failure policy. Under the close policy nothing is written,
// and the connection is just closed.
func (s *Server) fail(ctx context.Context, span trace.Span, conn net.Conn, err error) {
	s.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", err.Error())))
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.Debug("bad request", slog.Any("error", err))

	if s.cfg.Parse.OnError != config.RespondOnParseError {
		return
	}

	s.respond(ctx, span, conn, s.router.OnError(nil, err))
}

func (s *Server) respond(ctx context.Context, span trace.Span, conn net.Conn, response http.Response) {
	code := response.Reveal().Code
	span.SetAttributes(attribute.Int("http.status_code", int(code)))
	s.requests.Add(ctx, 1, metric.WithAttributes(attribute.Int("code", int(code))))

	if _, err := conn.Write(serializer.Serialize(response)); err != nil {
		s.logger.Debug("write response", slog.Any("error", err))
		span.RecordError(err)
	}
}
