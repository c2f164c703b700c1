package codec

import (
	"bytes"
	"sync"

	"github.com/klauspost/compress/flate"
)

const deflateLevel = 5

type deflateCodec struct {
	writers *sync.Pool
}

func NewDeflate() Codec {
	return deflateCodec{
		writers: &sync.Pool{
			New: func() any {
				w, err := flate.NewWriter(nil, deflateLevel)
				if err != nil {
					panic(err)
				}

				return w
			},
		},
	}
}

func (deflateCodec) Token() string {
	return "deflate"
}

func (d deflateCodec) Compress(dst, src []byte) ([]byte, error) {
	buff := bytes.NewBuffer(dst)
	w := d.writers.Get().(*flate.Writer)
	defer d.writers.Put(w)

	w.Reset(buff)
	if _, err := w.Write(src); err != nil {
		return dst, err
	}

	if err := w.Close(); err != nil {
		return dst, err
	}

	return buff.Bytes(), nil
}
