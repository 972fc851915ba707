package lut

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Serialized layout, little-endian:
//
//	magic    [4]byte "LUB1"
//	flags    uint8   bit 0: index buffer present
//	_        [3]byte reserved
//	capacity uint32
//	idx      capacity*8 bytes (when flagged)
//	dis      capacity*4 bytes (float32 bits)
var buffersMagic = [4]byte{'L', 'U', 'B', '1'}

const buffersHeaderSize = 4 + 4 + 4

// ErrBadFormat is returned when serialized buffers fail structural
// validation.
var ErrBadFormat = errors.New("lut: bad serialized format")

// Marshal writes the buffers to w, contents included, so a scan's
// index selection and results survive the round trip.
func (b *Buffers) Marshal(w io.Writer) error {
	hdr := make([]byte, buffersHeaderSize)
	copy(hdr[0:4], buffersMagic[:])
	if b.useIdx {
		hdr[4] = 1
	}
	binary.LittleEndian.PutUint32(hdr[8:], uint32(b.capacity))
	if _, err := w.Write(hdr); err != nil {
		return err
	}

	if b.useIdx {
		raw := make([]byte, len(b.idx)*8)
		for i, v := range b.idx {
			binary.LittleEndian.PutUint64(raw[i*8:], uint64(v))
		}
		if _, err := w.Write(raw); err != nil {
			return err
		}
	}

	raw := make([]byte, len(b.dis)*4)
	for i, v := range b.dis {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}
	_, err := w.Write(raw)
	return err
}

// UnmarshalBuffers reads buffers serialized by Buffers.Marshal.
func UnmarshalBuffers(r io.Reader) (*Buffers, error) {
	hdr := make([]byte, buffersHeaderSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, err
	}
	if [4]byte(hdr[0:4]) != buffersMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrBadFormat)
	}
	capacity := int(binary.LittleEndian.Uint32(hdr[8:]))
	if capacity < 1 {
		return nil, fmt.Errorf("%w: capacity %d", ErrBadFormat, capacity)
	}

	b := &Buffers{
		useIdx:   hdr[4]&1 != 0,
		capacity: capacity,
		dis:      make([]float32, capacity),
	}
	if b.useIdx {
		raw := make([]byte, capacity*8)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, err
		}
		b.idx = make([]int64, capacity)
		for i := range b.idx {
			b.idx[i] = int64(binary.LittleEndian.Uint64(raw[i*8:]))
		}
	}

	raw := make([]byte, capacity*4)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, err
	}
	for i := range b.dis {
		b.dis[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return b, nil
}
