package codec

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
)

type zstdCodec struct{}

// NewZSTD returns the zstd codec. All the instances share a single encoder, as
// EncodeAll is safe for concurrent use.
func NewZSTD() Codec {
	zstdOnce.Do(func() {
		var err error
		zstdEncoder, err = zstd.NewWriter(nil)
		if err != nil {
			panic(err)
		}
	})

	return zstdCodec{}
}

func (zstdCodec) Token() string {
	return "zstd"
}

func (zstdCodec) Compress(dst, src []byte) ([]byte, error) {
	return zstdEncoder.EncodeAll(src, dst), nil
}
