package pool

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
)

type Option func(*Pool)

// WithQueueSize sets the capacity of the jobs queue. Zero makes Submit block until
// some worker picks the job up.
func WithQueueSize(size int) Option {
	return func(p *Pool) {
		p.queueSize = max(size, 0)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(p *Pool) {
		if provider != nil {
			p.meterProvider = provider
		}
	}
}
