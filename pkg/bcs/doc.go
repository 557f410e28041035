// Package bcs implements the Binary Canonical Serialization format used by
// Move ledgers for transaction payloads, entry-function arguments, and
// signing messages.
//
// Integers are fixed-width little-endian, booleans are a single byte, and
// variable-length values (byte strings, UTF-8 strings, sequences) carry a
// ULEB128 length prefix. The Deserializer mirrors the Serializer so values
// can be read back exactly as they were written.
//
//	serializer := &bcs.Serializer{}
//	serializer.U64(10_000)
//	argument := serializer.ToBytes()
package bcs
