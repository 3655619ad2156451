package blobstore

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/flatpack/internal/conv"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec selects the compression algorithm for a CompressedStore.
type Codec uint8

const (
	// CodecZstd favors compression ratio and is the default.
	CodecZstd Codec = iota
	// CodecLZ4 favors decompression speed for hot blobs.
	CodecLZ4
)

// Blob framing: [rawLen uint32][compLen uint32][payload]. compLen 0
// means the payload is stored raw, which happens when compression
// would not shrink the blob.
const frameHeaderSize = 8

// ErrCorruptFrame is returned when a stored blob fails frame checks.
var ErrCorruptFrame = errors.New("blobstore: corrupt compressed frame")

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// CompressedStore wraps a Store and compresses whole blobs in flight.
// Serialized blobs must be complete in memory before resolution, so
// per-blob framing costs nothing over block framing and keeps reads a
// single backend fetch.
type CompressedStore struct {
	inner Store
	codec Codec
}

// NewCompressedStore wraps inner with transparent compression.
func NewCompressedStore(inner Store, codec Codec) *CompressedStore {
	return &CompressedStore{inner: inner, codec: codec}
}

func (s *CompressedStore) compress(blob []byte) ([]byte, error) {
	rawLen, err := conv.IntToUint32(len(blob))
	if err != nil {
		return nil, fmt.Errorf("blobstore: blob too large to frame: %w", err)
	}

	var compressed []byte
	switch s.codec {
	case CodecLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(blob)))
		n, err := lz4.CompressBlock(blob, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n] // n == 0 means incompressible
	default:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(blob, nil)
		zstdEncoderPool.Put(enc)
	}

	// Store raw when compression does not pay for itself.
	if len(compressed) == 0 || len(compressed) >= len(blob) {
		framed := make([]byte, frameHeaderSize+len(blob))
		binary.LittleEndian.PutUint32(framed[0:], rawLen)
		binary.LittleEndian.PutUint32(framed[4:], 0)
		copy(framed[frameHeaderSize:], blob)
		return framed, nil
	}

	compLen, err := conv.IntToUint32(len(compressed))
	if err != nil {
		return nil, fmt.Errorf("blobstore: blob too large to frame: %w", err)
	}

	framed := make([]byte, frameHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(framed[0:], rawLen)
	binary.LittleEndian.PutUint32(framed[4:], compLen)
	copy(framed[frameHeaderSize:], compressed)
	return framed, nil
}

func (s *CompressedStore) decompress(framed []byte) ([]byte, error) {
	if len(framed) < frameHeaderSize {
		return nil, ErrCorruptFrame
	}

	rawLen, err := conv.Uint32ToInt(binary.LittleEndian.Uint32(framed[0:]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFrame, err)
	}
	compLen, err := conv.Uint32ToInt(binary.LittleEndian.Uint32(framed[4:]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFrame, err)
	}

	if compLen == 0 {
		if len(framed) < frameHeaderSize+rawLen {
			return nil, ErrCorruptFrame
		}
		raw := make([]byte, rawLen)
		copy(raw, framed[frameHeaderSize:frameHeaderSize+rawLen])
		return raw, nil
	}

	if len(framed) < frameHeaderSize+compLen {
		return nil, ErrCorruptFrame
	}
	payload := framed[frameHeaderSize : frameHeaderSize+compLen]
	raw := make([]byte, rawLen)

	switch s.codec {
	case CodecLZ4:
		n, err := lz4.UncompressBlock(payload, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptFrame, err)
		}
		if n != rawLen {
			return nil, ErrCorruptFrame
		}
		return raw, nil
	default:
		dec := getZstdDecoder()
		decoded, err := dec.DecodeAll(payload, raw[:0])
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptFrame, err)
		}
		if len(decoded) != rawLen {
			return nil, ErrCorruptFrame
		}
		return decoded, nil
	}
}

// Open fetches and decompresses the whole blob; the returned handle
// serves reads from the decompressed bytes in memory.
func (s *CompressedStore) Open(ctx context.Context, name string) (Blob, error) {
	framed, err := ReadAll(ctx, s.inner, name)
	if err != nil {
		return nil, err
	}
	raw, err := s.decompress(framed)
	if err != nil {
		return nil, fmt.Errorf("blobstore: open %q: %w", name, err)
	}
	return &memoryBlob{data: raw}, nil
}

// Create buffers writes and stores the compressed blob on Close.
func (s *CompressedStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	return &compressedWritableBlob{store: s, ctx: ctx, name: name}, nil
}

// Put compresses blob and writes the frame to the backend.
func (s *CompressedStore) Put(ctx context.Context, name string, blob []byte) error {
	framed, err := s.compress(blob)
	if err != nil {
		return err
	}
	return s.inner.Put(ctx, name, framed)
}

// Delete delegates to the backend.
func (s *CompressedStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

// List delegates to the backend.
func (s *CompressedStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

type compressedWritableBlob struct {
	store *CompressedStore
	ctx   context.Context
	name  string
	buf   bytes.Buffer
}

func (w *compressedWritableBlob) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *compressedWritableBlob) Sync() error {
	return nil
}

func (w *compressedWritableBlob) Close() error {
	return w.store.Put(w.ctx, w.name, w.buf.Bytes())
}

var _ Store = (*CompressedStore)(nil)
