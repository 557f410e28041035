package bcs

import (
	"encoding/binary"
	"fmt"
	"math/big"
)

// Marshaler is implemented by values that know how to write themselves in BCS.
type Marshaler interface {
	MarshalBCS(serializer *Serializer)
}

// Serializer accumulates BCS encoded bytes. The first error is sticky; later
// writes are ignored once it is set.
type Serializer struct {
	out []byte
	err error
}

// Error returns the first encoding error, if any.
func (s *Serializer) Error() error {
	return s.err
}

// SetError records an encoding error from a Marshaler.
func (s *Serializer) SetError(err error) {
	if s.err == nil {
		s.err = err
	}
}

// ToBytes returns the encoded bytes.
func (s *Serializer) ToBytes() []byte {
	return s.out
}

// U8 writes a single byte.
func (s *Serializer) U8(value uint8) {
	if s.err != nil {
		return
	}
	s.out = append(s.out, value)
}

// U16 writes a little-endian uint16.
func (s *Serializer) U16(value uint16) {
	if s.err != nil {
		return
	}
	s.out = binary.LittleEndian.AppendUint16(s.out, value)
}

// U32 writes a little-endian uint32.
func (s *Serializer) U32(value uint32) {
	if s.err != nil {
		return
	}
	s.out = binary.LittleEndian.AppendUint32(s.out, value)
}

// U64 writes a little-endian uint64.
func (s *Serializer) U64(value uint64) {
	if s.err != nil {
		return
	}
	s.out = binary.LittleEndian.AppendUint64(s.out, value)
}

// U128 writes a little-endian 128-bit unsigned integer.
func (s *Serializer) U128(value *big.Int) {
	if s.err != nil {
		return
	}
	if value == nil || value.Sign() < 0 || value.BitLen() > 128 {
		s.SetError(fmt.Errorf("u128 out of range: %v", value))
		return
	}
	bigEndian := value.FillBytes(make([]byte, 16))
	for index := len(bigEndian) - 1; index >= 0; index-- {
		s.out = append(s.out, bigEndian[index])
	}
}

// Bool writes 0x01 for true and 0x00 for false.
func (s *Serializer) Bool(value bool) {
	if value {
		s.U8(1)
		return
	}
	s.U8(0)
}

// Uleb128 writes a variable-length unsigned integer.
func (s *Serializer) Uleb128(value uint32) {
	if s.err != nil {
		return
	}
	for value >= 0x80 {
		s.out = append(s.out, byte(value&0x7f)|0x80)
		value >>= 7
	}
	s.out = append(s.out, byte(value))
}

// WriteBytes writes a length-prefixed byte string.
func (s *Serializer) WriteBytes(value []byte) {
	s.Uleb128(uint32(len(value)))
	s.FixedBytes(value)
}

// WriteString writes a length-prefixed UTF-8 string.
func (s *Serializer) WriteString(value string) {
	s.WriteBytes([]byte(value))
}

// FixedBytes writes bytes without a length prefix.
func (s *Serializer) FixedBytes(value []byte) {
	if s.err != nil {
		return
	}
	s.out = append(s.out, value...)
}

// Struct writes a value that implements Marshaler.
func (s *Serializer) Struct(value Marshaler) {
	if s.err != nil {
		return
	}
	value.MarshalBCS(s)
}

// Serialize encodes a single Marshaler value.
func Serialize(value Marshaler) ([]byte, error) {
	serializer := &Serializer{}
	value.MarshalBCS(serializer)
	if err := serializer.Error(); err != nil {
		return nil, err
	}
	return serializer.ToBytes(), nil
}

// SerializeU64 encodes a uint64 entry-function argument.
func SerializeU64(value uint64) []byte {
	serializer := &Serializer{}
	serializer.U64(value)
	return serializer.ToBytes()
}

// SerializeBool encodes a bool entry-function argument.
func SerializeBool(value bool) []byte {
	serializer := &Serializer{}
	serializer.Bool(value)
	return serializer.ToBytes()
}

// SerializeBytes encodes a vector<u8> entry-function argument.
func SerializeBytes(value []byte) []byte {
	serializer := &Serializer{}
	serializer.WriteBytes(value)
	return serializer.ToBytes()
}
