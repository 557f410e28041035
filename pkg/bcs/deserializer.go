package bcs

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
)

// Unmarshaler is implemented by values that can read themselves from BCS.
type Unmarshaler interface {
	UnmarshalBCS(deserializer *Deserializer)
}

// Deserializer reads BCS values from a byte slice. The first error is sticky.
type Deserializer struct {
	source []byte
	pos    int
	err    error
}

// NewDeserializer creates a new Deserializer over the given bytes.
func NewDeserializer(source []byte) *Deserializer {
	return &Deserializer{source: source}
}

// Error returns the first decoding error, if any.
func (d *Deserializer) Error() error {
	return d.err
}

// SetError records a decoding error from an Unmarshaler.
func (d *Deserializer) SetError(err error) {
	if d.err == nil {
		d.err = err
	}
}

// Remaining returns the number of unread bytes.
func (d *Deserializer) Remaining() int {
	return len(d.source) - d.pos
}

func (d *Deserializer) take(count int) []byte {
	if d.err != nil {
		return nil
	}
	if count < 0 || d.Remaining() < count {
		d.SetError(fmt.Errorf("bcs: need %d bytes, %d remaining: %w", count, d.Remaining(), io.ErrUnexpectedEOF))
		return nil
	}
	chunk := d.source[d.pos : d.pos+count]
	d.pos += count
	return chunk
}

// U8 reads a single byte.
func (d *Deserializer) U8() uint8 {
	chunk := d.take(1)
	if chunk == nil {
		return 0
	}
	return chunk[0]
}

// U16 reads a little-endian uint16.
func (d *Deserializer) U16() uint16 {
	chunk := d.take(2)
	if chunk == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(chunk)
}

// U32 reads a little-endian uint32.
func (d *Deserializer) U32() uint32 {
	chunk := d.take(4)
	if chunk == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(chunk)
}

// U64 reads a little-endian uint64.
func (d *Deserializer) U64() uint64 {
	chunk := d.take(8)
	if chunk == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(chunk)
}

// U128 reads a little-endian 128-bit unsigned integer.
func (d *Deserializer) U128() *big.Int {
	chunk := d.take(16)
	if chunk == nil {
		return new(big.Int)
	}
	bigEndian := make([]byte, 16)
	for index := range chunk {
		bigEndian[15-index] = chunk[index]
	}
	return new(big.Int).SetBytes(bigEndian)
}

// Bool reads a boolean; any byte other than 0 or 1 is an error.
func (d *Deserializer) Bool() bool {
	value := d.U8()
	switch value {
	case 0:
		return false
	case 1:
		return true
	default:
		d.SetError(fmt.Errorf("bcs: invalid bool byte 0x%02x", value))
		return false
	}
}

// Uleb128 reads a variable-length unsigned integer that fits in 32 bits.
func (d *Deserializer) Uleb128() uint32 {
	var value uint64
	var shift uint
	for {
		b := d.U8()
		if d.err != nil {
			return 0
		}
		value |= uint64(b&0x7f) << shift
		if value > 0xffffffff {
			d.SetError(fmt.Errorf("bcs: uleb128 overflows u32"))
			return 0
		}
		if b&0x80 == 0 {
			return uint32(value)
		}
		shift += 7
	}
}

// ReadBytes reads a length-prefixed byte string.
func (d *Deserializer) ReadBytes() []byte {
	length := d.Uleb128()
	chunk := d.take(int(length))
	if chunk == nil {
		return nil
	}
	out := make([]byte, len(chunk))
	copy(out, chunk)
	return out
}

// ReadString reads a length-prefixed UTF-8 string.
func (d *Deserializer) ReadString() string {
	return string(d.ReadBytes())
}

// FixedBytes reads exactly length bytes.
func (d *Deserializer) FixedBytes(length int) []byte {
	chunk := d.take(length)
	if chunk == nil {
		return nil
	}
	out := make([]byte, len(chunk))
	copy(out, chunk)
	return out
}

// Struct reads a value that implements Unmarshaler.
func (d *Deserializer) Struct(value Unmarshaler) {
	if d.err != nil {
		return
	}
	value.UnmarshalBCS(d)
}

// Deserialize decodes bytes into value and requires every byte to be consumed.
func Deserialize(value Unmarshaler, source []byte) error {
	deserializer := NewDeserializer(source)
	value.UnmarshalBCS(deserializer)
	if err := deserializer.Error(); err != nil {
		return err
	}
	if deserializer.Remaining() != 0 {
		return fmt.Errorf("bcs: %d trailing bytes", deserializer.Remaining())
	}
	return nil
}

// DeserializeU64 decodes a uint64 entry-function argument.
func DeserializeU64(source []byte) (uint64, error) {
	deserializer := NewDeserializer(source)
	value := deserializer.U64()
	if err := deserializer.Error(); err != nil {
		return 0, err
	}
	if deserializer.Remaining() != 0 {
		return 0, fmt.Errorf("bcs: %d trailing bytes", deserializer.Remaining())
	}
	return value, nil
}

// DeserializeBool decodes a bool entry-function argument.
func DeserializeBool(source []byte) (bool, error) {
	deserializer := NewDeserializer(source)
	value := deserializer.Bool()
	if err := deserializer.Error(); err != nil {
		return false, err
	}
	if deserializer.Remaining() != 0 {
		return false, fmt.Errorf("bcs: %d trailing bytes", deserializer.Remaining())
	}
	return value, nil
}
