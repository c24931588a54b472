package rentals

import (
	"github.com/boreq/errors"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

const (
	CompressionNone   = "none"
	CompressionSnappy = "snappy"
	CompressionZSTD   = "zstd"
)

// Compression is applied to encoded records right before they are written to
// a region and reversed right after they are read.
type Compression interface {
	Name() string
	Compress(b []byte) ([]byte, error)
	Decompress(b []byte) ([]byte, error)
}

func CompressionByName(name string) (Compression, error) {
	switch name {
	case CompressionNone, "":
		return NewNoopCompression(), nil
	case CompressionSnappy:
		return NewSnappyCompression(), nil
	case CompressionZSTD:
		return NewZSTDCompression()
	default:
		return nil, errors.New("unknown compression")
	}
}

type NoopCompression struct {
}

func NewNoopCompression() *NoopCompression {
	return &NoopCompression{}
}

func (c *NoopCompression) Name() string {
	return CompressionNone
}

func (c *NoopCompression) Compress(b []byte) ([]byte, error) {
	return b, nil
}

func (c *NoopCompression) Decompress(b []byte) ([]byte, error) {
	return b, nil
}

type SnappyCompression struct {
}

func NewSnappyCompression() *SnappyCompression {
	return &SnappyCompression{}
}

func (c *SnappyCompression) Name() string {
	return CompressionSnappy
}

func (c *SnappyCompression) Compress(b []byte) ([]byte, error) {
	return snappy.Encode(nil, b), nil
}

func (c *SnappyCompression) Decompress(b []byte) ([]byte, error) {
	v, err := snappy.Decode(nil, b)
	if err != nil {
		return nil, errors.Wrap(err, "error calling decode")
	}
	return v, nil
}

type ZSTDCompression struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewZSTDCompression() (*ZSTDCompression, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errors.Wrap(err, "error creating the decoder")
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, errors.Wrap(err, "error creating the encoder")
	}

	return &ZSTDCompression{
		encoder: encoder,
		decoder: decoder,
	}, nil
}

func (c *ZSTDCompression) Name() string {
	return CompressionZSTD
}

func (c *ZSTDCompression) Compress(b []byte) ([]byte, error) {
	return c.encoder.EncodeAll(b, nil), nil
}

func (c *ZSTDCompression) Decompress(b []byte) ([]byte, error) {
	v, err := c.decoder.DecodeAll(b, nil)
	if err != nil {
		return nil, errors.Wrap(err, "error calling decode all")
	}
	return v, nil
}
