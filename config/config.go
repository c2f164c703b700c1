package config

import (
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseErrorPolicy decides what happens to a connection whose request couldn't be parsed.
type ParseErrorPolicy string

const (
	// CloseOnParseError closes the connection without writing anything back.
	CloseOnParseError ParseErrorPolicy = "close"
	// RespondOnParseError answers with the 4xx/5xx code corresponding to the failure
	// before closing the connection.
	RespondOnParseError ParseErrorPolicy = "respond"
)

type (
	NET struct {
		// ReadBufferSize is the size of a chunk read from the socket at once.
		ReadBufferSize int `json:"read_buffer_size"`
		// ReadTimeout limits the time spent receiving a single request. A client failing
		// to send it in time occupies a worker no longer than that. Zero disables the
		// deadline.
		ReadTimeout time.Duration `json:"read_timeout"`
		// MaxRequestSize is the maximal number of bytes a request may consist of, including
		// the body. Zero disables the limit.
		MaxRequestSize int `json:"max_request_size"`
		// AcceptLoopInterruptPeriod controls how often will the Accept() call be interrupted
		// in order to check whether it's time to stop.
		AcceptLoopInterruptPeriod time.Duration `json:"accept_loop_interrupt_period"`
	}

	Headers struct {
		// FoldKeys enables case-insensitive header lookups. By default keys are matched
		// exactly as they were received.
		FoldKeys bool `json:"fold_keys" test:"nullable"`
	}

	Parse struct {
		// OnError is the policy applied to requests failing to parse.
		OnError ParseErrorPolicy `json:"on_error"`
	}

	Compression struct {
		// Enabled turns compression of response bodies on.
		Enabled bool `json:"enabled" test:"nullable"`
		// Codings are the content codings offered to clients. Known ones are gzip,
		// deflate and zstd.
		Codings []string `json:"codings"`
	}

	Workers struct {
		// Count is the fixed number of workers serving connections. It must be positive.
		Count int `json:"count"`
		// QueueSize is the capacity of the queue connections wait in for a free worker.
		// When it's full, the accept loop blocks.
		QueueSize int `json:"queue_size"`
	}
)

// Config holds settings used across the server, mainly restrictions, limitations
// and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	NET         NET         `json:"net"`
	Headers     Headers     `json:"headers"`
	Parse       Parse       `json:"parse"`
	Compression Compression `json:"compression"`
	Workers     Workers     `json:"workers"`
}

// Default returns default config.
func Default() *Config {
	return &Config{
		NET: NET{
			ReadBufferSize:            1024,
			ReadTimeout:               10 * time.Second,
			MaxRequestSize:            1024 * 1024, // 1mb, there's no use of a bigger request anyway
			AcceptLoopInterruptPeriod: 5 * time.Second,
		},
		Headers: Headers{
			FoldKeys: false,
		},
		Parse: Parse{
			OnError: CloseOnParseError,
		},
		Compression: Compression{
			Enabled: false,
			Codings: []string{"gzip", "deflate", "zstd"},
		},
		Workers: Workers{
			Count:     4,
			QueueSize: 64,
		},
	}
}

// Load reads a JSON file and overlays it on top of the defaults, so the file must
// contain only the values differing from them. Durations are written as strings
// understood by time.ParseDuration, e.g. "10s".
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err = json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the values the server can't work with. The workers number isn't
// checked here, as it's the worker pool who refuses to start without workers.
func (c *Config) Validate() error {
	switch {
	case c.NET.ReadBufferSize <= 0:
		return fmt.Errorf("net.read_buffer_size must be positive, got %d", c.NET.ReadBufferSize)
	case c.NET.ReadTimeout < 0:
		return fmt.Errorf("net.read_timeout must not be negative, got %s", c.NET.ReadTimeout)
	case c.NET.MaxRequestSize < 0:
		return fmt.Errorf("net.max_request_size must not be negative, got %d", c.NET.MaxRequestSize)
	case c.NET.AcceptLoopInterruptPeriod <= 0:
		return fmt.Errorf("net.accept_loop_interrupt_period must be positive, got %s", c.NET.AcceptLoopInterruptPeriod)
	case c.Compression.Enabled && len(c.Compression.Codings) == 0:
		return fmt.Errorf("compression.codings must not be empty when compression is enabled")
	case c.Workers.QueueSize < 0:
		return fmt.Errorf("workers.queue_size must not be negative, got %d", c.Workers.QueueSize)
	}

	switch c.Parse.OnError {
	case CloseOnParseError, RespondOnParseError:
	default:
		return fmt.Errorf("parse.on_error: unknown policy %q", c.Parse.OnError)
	}

	return nil
}

func (n *NET) UnmarshalJSON(data []byte) error {
	type Alias NET

	aux := struct {
		*Alias
		ReadTimeout               string `json:"read_timeout"`
		AcceptLoopInterruptPeriod string `json:"accept_loop_interrupt_period"`
	}{
		Alias: (*Alias)(n),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	return parseDurations(
		durationField{"net.read_timeout", aux.ReadTimeout, &n.ReadTimeout},
		durationField{"net.accept_loop_interrupt_period", aux.AcceptLoopInterruptPeriod, &n.AcceptLoopInterruptPeriod},
	)
}

type durationField struct {
	name  string
	value string
	dst   *time.Duration
}

func parseDurations(fields ...durationField) error {
	for _, field := range fields {
		if len(field.value) == 0 {
			continue
		}

		d, err := time.ParseDuration(field.value)
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}

		*field.dst = d
	}

	return nil
}
