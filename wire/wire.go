// Package wire frames and compresses protocol messages for a byte stream.
//
// A frame is a 4 byte big-endian length followed by that many bytes. The
// game drivers never look at frames: the transport wraps what a driver
// emits and unwraps what it feeds to the counterpart.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/luca-patrignani/heads-up-poker/domain/poker"
)

// MaxLen is the largest body a frame may carry.
const MaxLen = 64 * 1024

const headerLen = 4

// maxDecoded bounds the size of a decompressed message.
const maxDecoded = 1 << 20

var codec = sync.OnceValues(func() (*codecs, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecoded))
	if err != nil {
		return nil, err
	}
	return &codecs{enc: enc, dec: dec}, nil
})

type codecs struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Wrap prefixes data with its length.
func Wrap(data []byte) ([]byte, error) {
	if len(data) > MaxLen {
		return nil, fmt.Errorf("message of %d bytes exceeds %d", len(data), MaxLen)
	}
	out := make([]byte, headerLen+len(data))
	binary.BigEndian.PutUint32(out, uint32(len(data)))
	copy(out[headerLen:], data)
	return out, nil
}

// Unwrap returns the body of a single frame. Trailing bytes are an error.
func Unwrap(frame []byte) ([]byte, error) {
	if len(frame) < headerLen {
		return nil, poker.ErrEndOfStream
	}
	n := binary.BigEndian.Uint32(frame)
	if n > MaxLen {
		return nil, fmt.Errorf("frame of %d bytes exceeds %d", n, MaxLen)
	}
	body := frame[headerLen:]
	if uint32(len(body)) < n {
		return nil, poker.ErrEndOfStream
	}
	if uint32(len(body)) > n {
		return nil, fmt.Errorf("%d bytes after frame", uint32(len(body))-n)
	}
	return body, nil
}

// UnwrapNext reads the next frame from r. A stream that ends inside a
// frame, or before it, fails with poker.ErrEndOfStream.
func UnwrapNext(r io.Reader) ([]byte, error) {
	var header [headerLen]byte
	if err := readExactly(r, header[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(header[:])
	if n > MaxLen {
		return nil, fmt.Errorf("frame of %d bytes exceeds %d", n, MaxLen)
	}
	body := make([]byte, n)
	if err := readExactly(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

func readExactly(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return poker.ErrEndOfStream
	}
	return err
}

// Compress returns the zstd compression of data.
func Compress(data []byte) ([]byte, error) {
	c, err := codec()
	if err != nil {
		return nil, err
	}
	return c.enc.EncodeAll(data, nil), nil
}

func Decompress(data []byte) ([]byte, error) {
	c, err := codec()
	if err != nil {
		return nil, err
	}
	out, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	return out, nil
}

func CompressAndWrap(data []byte) ([]byte, error) {
	c, err := Compress(data)
	if err != nil {
		return nil, err
	}
	return Wrap(c)
}

func UnwrapAndDecompress(frame []byte) ([]byte, error) {
	body, err := Unwrap(frame)
	if err != nil {
		return nil, err
	}
	return Decompress(body)
}

// UnwrapAndDecompressNext reads and decompresses the next frame of r.
func UnwrapAndDecompressNext(r io.Reader) ([]byte, error) {
	body, err := UnwrapNext(r)
	if err != nil {
		return nil, err
	}
	return Decompress(body)
}
