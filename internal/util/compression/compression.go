// Package compression holds the codecs used for stored post bodies.
package compression

import "fmt"

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

const (
	Zstd = "zstd"
	Gzip = "gzip"
)

// ByName returns the codec registered under name.
func ByName(name string) (Compressor, error) {
	switch name {
	case Zstd, "":
		return ZstdCompressor{}, nil
	case Gzip:
		return GzipCompressor{}, nil
	default:
		return nil, fmt.Errorf("unknown compression %q", name)
	}
}
