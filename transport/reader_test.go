package transport

import (
	"errors"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/hearth-web/hearth/config"
	"github.com/hearth-web/hearth/http/status"
	"github.com/hearth-web/hearth/transport/dummy"
	"github.com/stretchr/testify/require"
)

func split(data string, n int) (pieces [][]byte) {
	for len(data) > n {
		pieces = append(pieces, []byte(data[:n]))
		data = data[n:]
	}

	return append(pieces, []byte(data))
}

func TestReadRequest(t *testing.T) {
	cfg := config.Default().NET

	t.Run("terminator", func(t *testing.T) {
		request := "GET / HTTP/1.1\r\nHost: localhost\r\n\r\n"
		data, err := ReadRequest(dummy.NewConn([]byte(request)), cfg)
		require.NoError(t, err)
		require.Equal(t, request, string(data))
	})

	t.Run("short reads don't end the request", func(t *testing.T) {
		request := "GET /echo/abc HTTP/1.1\r\nHost: localhost\r\nUser-Agent: curl\r\n\r\n"
		for _, n := range []int{1, 2, 3, 7, 16} {
			data, err := ReadRequest(dummy.NewConn(split(request, n)...), cfg)
			require.NoError(t, err)
			require.Equal(t, request, string(data))
		}
	})

	t.Run("small read buffer", func(t *testing.T) {
		cfg := cfg
		cfg.ReadBufferSize = 3
		request := "GET /echo/abc HTTP/1.1\r\nHost: localhost\r\n\r\n"
		data, err := ReadRequest(dummy.NewConn([]byte(request)), cfg)
		require.NoError(t, err)
		require.Equal(t, request, string(data))
	})

	t.Run("content length", func(t *testing.T) {
		request := "GET / HTTP/1.1\r\nContent-Length: 13\r\n\r\nHello, world!"
		data, err := ReadRequest(dummy.NewConn(split(request, 5)...), cfg)
		require.NoError(t, err)
		require.Equal(t, request, string(data))
	})

	t.Run("content length case insensitive", func(t *testing.T) {
		request := "GET / HTTP/1.1\r\ncontent-length: 5\r\n\r\nHello"
		data, err := ReadRequest(dummy.NewConn(split(request, 4)...), cfg)
		require.NoError(t, err)
		require.Equal(t, request, string(data))
	})

	t.Run("extra bytes are cut off", func(t *testing.T) {
		request := "GET / HTTP/1.1\r\nContent-Length: 2\r\n\r\nok"
		data, err := ReadRequest(dummy.NewConn([]byte(request+"GET / HTTP/1.1\r\n\r\n")), cfg)
		require.NoError(t, err)
		require.Equal(t, request, string(data))
	})

	t.Run("malformed content length", func(t *testing.T) {
		for _, value := range []string{"abc", "-1", ""} {
			request := "GET / HTTP/1.1\r\nContent-Length: " + value + "\r\n\r\n"
			data, err := ReadRequest(dummy.NewConn([]byte(request+"garbage")), cfg)
			require.NoError(t, err)
			require.Equal(t, request, string(data))
		}
	})

	t.Run("peer closes before terminator", func(t *testing.T) {
		request := "GET / HTTP/1.1\r\nHost: loc"
		data, err := ReadRequest(dummy.NewConn([]byte(request)), cfg)
		require.NoError(t, err)
		require.Equal(t, request, string(data))
	})

	t.Run("peer closes before body is complete", func(t *testing.T) {
		request := "GET / HTTP/1.1\r\nContent-Length: 100\r\n\r\nshort"
		data, err := ReadRequest(dummy.NewConn([]byte(request)), cfg)
		require.NoError(t, err)
		require.Equal(t, request, string(data))
	})

	t.Run("nothing sent", func(t *testing.T) {
		data, err := ReadRequest(dummy.NewConn(), cfg)
		require.NoError(t, err)
		require.Empty(t, data)
	})

	t.Run("io error", func(t *testing.T) {
		ioErr := errors.New("connection reset")
		data, err := ReadRequest(dummy.NewConn([]byte("GET / HT")).Err(ioErr), cfg)
		require.ErrorIs(t, err, ioErr)
		require.Equal(t, "GET / HT", string(data))
	})

	t.Run("deadline", func(t *testing.T) {
		conn := dummy.NewConn([]byte("GET")).Err(os.ErrDeadlineExceeded)
		before := time.Now()
		_, err := ReadRequest(conn, cfg)
		require.ErrorIs(t, err, os.ErrDeadlineExceeded)
		require.False(t, conn.ReadDeadline().Before(before.Add(cfg.ReadTimeout)))
	})

	t.Run("no deadline", func(t *testing.T) {
		cfg := cfg
		cfg.ReadTimeout = 0
		conn := dummy.NewConn([]byte("GET / HTTP/1.1\r\n\r\n"))
		_, err := ReadRequest(conn, cfg)
		require.NoError(t, err)
		require.True(t, conn.ReadDeadline().IsZero())
	})

	t.Run("too large", func(t *testing.T) {
		cfg := cfg
		cfg.MaxRequestSize = 64
		request := "GET /" + strings.Repeat("a", 100) + " HTTP/1.1\r\n\r\n"
		_, err := ReadRequest(dummy.NewConn(split(request, 10)...), cfg)
		require.ErrorIs(t, err, status.ErrRequestEntityTooLarge)
	})

	t.Run("too large body", func(t *testing.T) {
		cfg := cfg
		cfg.MaxRequestSize = 64
		request := "GET / HTTP/1.1\r\nContent-Length: 200\r\n\r\n" + strings.Repeat("a", 200)
		_, err := ReadRequest(dummy.NewConn([]byte(request)), cfg)
		require.ErrorIs(t, err, status.ErrRequestEntityTooLarge)
	})

	t.Run("declared length over the limit", func(t *testing.T) {
		cfg := cfg
		cfg.MaxRequestSize = 64
		conn := dummy.NewConn([]byte("GET / HTTP/1.1\r\nContent-Length: 100\r\n\r\n"))
		_, err := ReadRequest(conn, cfg)
		require.ErrorIs(t, err, status.ErrRequestEntityTooLarge)
	})

	t.Run("overflowing content length", func(t *testing.T) {
		for _, value := range []string{"9223372036854775807", "99999999999999999999999"} {
			request := "GET / HTTP/1.1\r\nContent-Length: " + value + "\r\n\r\n"
			for _, limit := range []int{0, 1024 * 1024} {
				cfg := cfg
				cfg.MaxRequestSize = limit
				require.NotPanics(t, func() {
					_, err := ReadRequest(dummy.NewConn([]byte(request)), cfg)
					require.ErrorIs(t, err, status.ErrRequestEntityTooLarge)
				})
			}
		}
	})

	t.Run("unlimited", func(t *testing.T) {
		cfg := cfg
		cfg.MaxRequestSize = 0
		body := strings.Repeat("a", 4096)
		request := "GET / HTTP/1.1\r\nContent-Length: 4096\r\n\r\n" + body
		data, err := ReadRequest(dummy.NewConn(split(request, 100)...), cfg)
		require.NoError(t, err)
		require.Equal(t, request, string(data))
	})
}

func TestContentLength(t *testing.T) {
	tcs := []struct {
		Head string
		Want int
	}{
		{"GET / HTTP/1.1", 0},
		{"GET / HTTP/1.1\r\nHost: localhost", 0},
		{"GET / HTTP/1.1\r\nContent-Length: 42", 42},
		{"GET / HTTP/1.1\r\nCONTENT-LENGTH:7", 7},
		{"GET / HTTP/1.1\r\ncontent-length: 3\r\nContent-Length: 5", 5},
		{"GET / HTTP/1.1\r\nContent-Length: nope", 0},
		{"GET / HTTP/1.1\r\nContent-Length: -99999999999999999999999", 0},
		{"GET / HTTP/1.1\r\nContent-Length: 99999999999999999999999", math.MaxInt},
	}

	for _, tc := range tcs {
		require.Equal(t, tc.Want, contentLength([]byte(tc.Head)), tc.Head)
	}
}
