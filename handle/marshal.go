package handle

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/kerngo/metric"
)

// Serialized layout, little-endian:
//
//	magic   [4]byte  "KDH1"
//	metric  uint8
//	bits    uint8
//	codec   uint8
//	_       uint8    reserved
//	m       uint32
//	block   uint32
//	d       uint32
//	ny      uint32
//	scale   float32
//	bias    float32
//	payload uint32   length of the compressed code block
//	block   []byte   compressBlock(transposed codes as LE float32)
var handleMagic = [4]byte{'K', 'D', 'H', '1'}

const headerSize = 4 + 4 + 4*4 + 4 + 4 + 4

// ErrBadFormat is returned when serialized bytes fail structural
// validation.
var ErrBadFormat = errors.New("handle: bad serialized format")

// Marshal writes the handle to w using the given codec.
func (h *DistanceHandle) Marshal(w io.Writer, codec Codec) error {
	raw := make([]byte, len(h.transposed)*4)
	for i, v := range h.transposed {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}

	payload, err := compressBlock(raw, codec)
	if err != nil {
		return err
	}

	hdr := make([]byte, headerSize)
	copy(hdr[0:4], handleMagic[:])
	hdr[4] = uint8(h.metricType)
	hdr[5] = uint8(h.dataBits)
	hdr[6] = uint8(codec)
	binary.LittleEndian.PutUint32(hdr[8:], uint32(h.m))
	binary.LittleEndian.PutUint32(hdr[12:], uint32(h.blocksize))
	binary.LittleEndian.PutUint32(hdr[16:], uint32(h.d))
	binary.LittleEndian.PutUint32(hdr[20:], uint32(h.ny))
	binary.LittleEndian.PutUint32(hdr[24:], math.Float32bits(h.scale))
	binary.LittleEndian.PutUint32(hdr[28:], math.Float32bits(h.bias))
	binary.LittleEndian.PutUint32(hdr[32:], uint32(len(payload)))

	if _, err := w.Write(hdr); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// Unmarshal reads a handle serialized by Marshal.
func Unmarshal(r io.Reader) (*DistanceHandle, error) {
	hdr := make([]byte, headerSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, err
	}
	if [4]byte(hdr[0:4]) != handleMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrBadFormat)
	}

	h := &DistanceHandle{
		metricType: metric.Type(hdr[4]),
		dataBits:   int(hdr[5]),
		m:          int(binary.LittleEndian.Uint32(hdr[8:])),
		blocksize:  int(binary.LittleEndian.Uint32(hdr[12:])),
		d:          int(binary.LittleEndian.Uint32(hdr[16:])),
		ny:         int(binary.LittleEndian.Uint32(hdr[20:])),
		scale:      math.Float32frombits(binary.LittleEndian.Uint32(hdr[24:])),
		bias:       math.Float32frombits(binary.LittleEndian.Uint32(hdr[28:])),
	}
	codec := Codec(hdr[6])
	payloadLen := binary.LittleEndian.Uint32(hdr[32:])

	if !h.metricType.Valid() {
		return nil, fmt.Errorf("%w: unknown metric %d", ErrBadFormat, hdr[4])
	}
	if h.dataBits != 8 && h.dataBits != 16 && h.dataBits != 32 {
		return nil, fmt.Errorf("%w: data bits %d", ErrBadFormat, h.dataBits)
	}
	if h.blocksize != BlockMini && h.blocksize != BlockMedium && h.blocksize != BlockLarge {
		return nil, fmt.Errorf("%w: blocksize %d", ErrBadFormat, h.blocksize)
	}
	if h.m < 1 || h.d < 1 || h.d > 65535 || h.ny < 1 || h.ny > 1<<30 {
		return nil, fmt.Errorf("%w: m=%d d=%d ny=%d", ErrBadFormat, h.m, h.d, h.ny)
	}
	h.ceilNy = (h.ny + h.blocksize - 1) / h.blocksize * h.blocksize

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	raw, err := decompressBlock(payload, codec)
	if err != nil {
		return nil, err
	}

	want := h.m * h.ceilNy * h.d * 4
	if len(raw) != want {
		return nil, fmt.Errorf("%w: code block is %d bytes, want %d", ErrBadFormat, len(raw), want)
	}
	h.transposed = make([]float32, h.m*h.ceilNy*h.d)
	for i := range h.transposed {
		h.transposed[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return h, nil
}
