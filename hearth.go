package hearth

import (
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/hearth-web/hearth/config"
	"github.com/hearth-web/hearth/internal/address"
	"github.com/hearth-web/hearth/internal/server"
	"github.com/hearth-web/hearth/pool"
	"github.com/hearth-web/hearth/router"
	"github.com/hearth-web/hearth/router/segment"
	"github.com/hearth-web/hearth/transport"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// App binds the transport, the worker pool and the router together.
type App struct {
	addr           string
	cfg            *config.Config
	hooks          hooks
	logger         *slog.Logger
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	transport      *transport.TCP
}

// New returns a new App instance. If only the port is given, e.g. ":4221", the server
// listens on all the interfaces.
func New(addr string) *App {
	return &App{
		addr:      address.Normalize(addr),
		cfg:       config.Default(),
		logger:    slog.Default(),
		transport: transport.NewTCP(),
	}
}

// Tune replaces the default config.
func (a *App) Tune(cfg *config.Config) *App {
	a.cfg = cfg
	return a
}

// Logger replaces slog.Default() for all the components. Nil means slog.Default().
func (a *App) Logger(logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}

	a.logger = logger
	return a
}

// Telemetry sets the providers instruments are created by. Nil providers mean the
// global ones.
func (a *App) Telemetry(mp metric.MeterProvider, tp trace.TracerProvider) *App {
	a.meterProvider, a.tracerProvider = mp, tp
	return a
}

// NotifyOnStart calls the callback at the moment, when the listener is bound and the
// workers are spawned. The accept loop starts right after it returns.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback at the moment, when the server is down. It's guaranteed
// that at that moment no new connections are accepted and all the accepted ones are
// already served.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Addr returns the bound address. It's nil before the server started, so it must be
// called from the NotifyOnStart callback or after it.
func (a *App) Addr() net.Addr {
	return a.transport.Addr()
}

// Serve starts the application and blocks until Stop is called. If nil is passed instead
// of a router, segment.Default() will be used.
func (a *App) Serve(r router.Router) error {
	if r == nil {
		r = segment.Default()
	}

	if err := a.cfg.Validate(); err != nil {
		return err
	}

	if err := r.OnStart(); err != nil {
		return err
	}

	srv, err := server.New(r, a.cfg,
		server.WithLogger(a.logger),
		server.WithMeterProvider(a.meterProvider),
		server.WithTracerProvider(a.tracerProvider),
	)
	if err != nil {
		return err
	}

	workers, err := pool.New(a.cfg.Workers.Count,
		pool.WithQueueSize(a.cfg.Workers.QueueSize),
		pool.WithLogger(a.logger),
		pool.WithMeterProvider(a.meterProvider),
	)
	if err != nil {
		return err
	}

	if err = a.transport.Bind(a.addr); err != nil {
		workers.Stop()
		return fmt.Errorf("hearth: bind %s: %w", a.addr, err)
	}

	a.logger.Info("listening",
		slog.String("addr", a.Addr().String()),
		slog.Int("workers", workers.Size()))
	callIfNotNil(a.hooks.OnStart)

	err = a.transport.Listen(a.cfg.NET, func(conn net.Conn) error {
		return workers.Submit(func() {
			srv.HandleConn(conn)
		})
	})

	closeErr := a.transport.Close()
	workers.Stop()
	a.logger.Info("stopped")
	callIfNotNil(a.hooks.OnStop)

	return errors.Join(err, closeErr)
}

// Stop stops accepting new connections. The call isn't blocking: Serve returns once the
// accept loop notices it, and all the connections already accepted are served.
func (a *App) Stop() {
	a.transport.Stop()
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
