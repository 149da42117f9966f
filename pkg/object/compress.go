package object

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

// Compression names the stream codec used for newly written object files.
// Reads detect the codec from the stream header, so a store may hold a mix.
type Compression string

const (
	// CompressionSnappy writes framed Snappy streams.
	CompressionSnappy Compression = "snappy"
	// CompressionS2 writes native S2 frames.
	CompressionS2 Compression = "s2"
	// CompressionZstd writes zstd frames.
	CompressionZstd Compression = "zstd"

	DefaultCompression = CompressionSnappy
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// ParseCompression validates a codec name. The empty string selects
// DefaultCompression.
func ParseCompression(name string) (Compression, error) {
	switch c := Compression(name); c {
	case "":
		return DefaultCompression, nil
	case CompressionSnappy, CompressionS2, CompressionZstd:
		return c, nil
	default:
		return "", fmt.Errorf("unknown compression %q", name)
	}
}

// compressStream compresses src into dst with codec c.
func compressStream(c Compression, dst io.Writer, src []byte) error {
	switch c {
	case CompressionZstd:
		enc, err := zstd.NewWriter(dst)
		if err != nil {
			return err
		}
		if _, err := enc.Write(src); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	case CompressionS2, CompressionSnappy, "":
		var opts []s2.WriterOption
		if c != CompressionS2 {
			opts = append(opts, s2.WriterSnappyCompat())
		}
		enc := s2.NewWriter(dst, opts...)
		if _, err := enc.Write(src); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown compression %q", c)
	}
}

// decompressStream reads src to EOF, picking zstd or S2/Snappy framing from
// the leading magic bytes.
func decompressStream(src io.Reader) ([]byte, error) {
	br := bufio.NewReader(src)
	magic, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}

	var out bytes.Buffer
	if bytes.Equal(magic, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		if _, err := io.Copy(&out, dec); err != nil {
			return nil, err
		}
		return out.Bytes(), nil
	}

	if _, err := io.Copy(&out, s2.NewReader(br)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
