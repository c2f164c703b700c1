package codec

import (
	"strconv"
	"strings"
)

// Codec is a content coding able to compress a whole body at once. Implementations
// must be safe for concurrent use.
type Codec interface {
	// Token returns a coding token associated with the codec itself.
	Token() string
	// Compress appends the compressed src to dst.
	Compress(dst, src []byte) ([]byte, error)
}

// Lookup returns a codec by its token. Known tokens are gzip, deflate and zstd.
func Lookup(token string) (Codec, bool) {
	switch strings.ToLower(token) {
	case "gzip":
		return NewGZIP(), true
	case "deflate":
		return NewDeflate(), true
	case "zstd":
		return NewZSTD(), true
	default:
		return nil, false
	}
}

// Negotiate picks a codec for the Accept-Encoding header value. Codings are considered
// in the order the client listed them, the ones with q=0 are skipped. Nil is returned
// if there's no codec acceptable by both sides.
func Negotiate(acceptEncoding string, codecs []Codec) Codec {
	for _, token := range strings.Split(acceptEncoding, ",") {
		token, params, _ := strings.Cut(token, ";")
		token = strings.TrimSpace(token)
		if len(token) == 0 || isRejected(params) {
			continue
		}

		for _, c := range codecs {
			if strings.EqualFold(c.Token(), token) {
				return c
			}
		}
	}

	return nil
}

func isRejected(params string) bool {
	for _, param := range strings.Split(params, ";") {
		key, value, found := strings.Cut(strings.TrimSpace(param), "=")
		if !found || !strings.EqualFold(strings.TrimSpace(key), "q") {
			continue
		}

		q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		return err != nil || q == 0
	}

	return false
}
