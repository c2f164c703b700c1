package codec

import (
	"bytes"
	"sync"

	"github.com/klauspost/compress/gzip"
)

type gzipCodec struct {
	writers *sync.Pool
}

func NewGZIP() Codec {
	return gzipCodec{
		writers: &sync.Pool{
			New: func() any {
				return gzip.NewWriter(nil)
			},
		},
	}
}

func (gzipCodec) Token() string {
	return "gzip"
}

func (g gzipCodec) Compress(dst, src []byte) ([]byte, error) {
	buff := bytes.NewBuffer(dst)
	w := g.writers.Get().(*gzip.Writer)
	defer g.writers.Put(w)

	w.Reset(buff)
	if _, err := w.Write(src); err != nil {
		return dst, err
	}

	if err := w.Close(); err != nil {
		return dst, err
	}

	return buff.Bytes(), nil
}
