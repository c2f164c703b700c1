package address

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tcs := []struct {
		Addr, Want string
	}{
		{":4221", "0.0.0.0:4221"},
		{"127.0.0.1:4221", "127.0.0.1:4221"},
		{"localhost:8080", "localhost:8080"},
		{"[::1]:8080", "[::1]:8080"},
		{"localhost", "localhost"},
		{"", ""},
	}

	for _, tc := range tcs {
		require.Equal(t, tc.Want, Normalize(tc.Addr), tc.Addr)
	}
}
