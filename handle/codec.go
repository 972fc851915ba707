package handle

import (
	"encoding/binary"
	"errors"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec selects the compression applied to the serialized code block.
type Codec uint8

const (
	// CodecNone stores the block uncompressed.
	CodecNone Codec = 0
	// CodecLZ4 uses LZ4 block compression (fast, hot data).
	CodecLZ4 Codec = 1
	// CodecZSTD uses ZSTD block compression (better ratio, cold data).
	CodecZSTD Codec = 2
)

// ZSTD encoder/decoder pools for efficiency
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

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Block format: [UncompressedSize uint32][CompressedSize uint32][Data].
// CompressedSize == 0 means the data is stored uncompressed.
const blockHeaderSize = 8

// compressBlock compresses data with the given codec, falling back to
// uncompressed storage when compression gains less than 10%.
func compressBlock(data []byte, codec Codec) ([]byte, error) {
	var compressed []byte

	switch codec {
	case CodecNone:
	case CodecLZ4:
		bound := lz4.CompressBlockBound(len(data))
		buf := make([]byte, bound)
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			compressed = buf[:n]
		}
	case CodecZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		putZstdEncoder(enc)
	default:
		return nil, errors.New("handle: unknown codec")
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		result := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(result[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(result[4:], 0) // 0 = uncompressed
		copy(result[blockHeaderSize:], data)
		return result, nil
	}

	result := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(result[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(result[4:], uint32(len(compressed)))
	copy(result[blockHeaderSize:], compressed)
	return result, nil
}

// decompressBlock reverses compressBlock.
func decompressBlock(data []byte, codec Codec) ([]byte, error) {
	if len(data) < blockHeaderSize {
		return nil, errors.New("handle: block too small for header")
	}

	uncompressedSize := binary.LittleEndian.Uint32(data[0:])
	compressedSize := binary.LittleEndian.Uint32(data[4:])

	if compressedSize == 0 {
		if uint32(len(data)) < blockHeaderSize+uncompressedSize {
			return nil, errors.New("handle: block data too small")
		}
		return data[blockHeaderSize : blockHeaderSize+uncompressedSize], nil
	}

	if uint32(len(data)) < blockHeaderSize+compressedSize {
		return nil, errors.New("handle: compressed block data too small")
	}
	compressedData := data[blockHeaderSize : blockHeaderSize+compressedSize]
	result := make([]byte, uncompressedSize)

	switch codec {
	case CodecLZ4:
		n, err := lz4.UncompressBlock(compressedData, result)
		if err != nil {
			return nil, err
		}
		if uint32(n) != uncompressedSize {
			return nil, errors.New("handle: decompressed size mismatch")
		}
		return result, nil

	case CodecZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		decoded, err := dec.DecodeAll(compressedData, result[:0])
		if err != nil {
			return nil, err
		}
		if uint32(len(decoded)) != uncompressedSize {
			return nil, errors.New("handle: decompressed size mismatch")
		}
		return decoded, nil

	default:
		return nil, errors.New("handle: compressed block with unknown codec")
	}
}
