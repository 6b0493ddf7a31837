package protocol

import (
	"encoding/binary"
	"math"
)

// Writer builds a message body field by field.
// All multi-byte values are Little-Endian.
type Writer struct {
	buf []byte
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteBool writes one byte: 1 for true, 0 for false.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

// WriteUint8 writes 1 byte.
func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteUint16 writes uint16 (2 bytes, LE).
func (w *Writer) WriteUint16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// WriteUint32 writes uint32 (4 bytes, LE).
func (w *Writer) WriteUint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// WriteInt64 writes int64 (8 bytes, LE).
func (w *Writer) WriteInt64(v int64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(v))
}

// WriteString writes a uint16 byte-length prefix followed by the UTF-8 bytes.
// Strings longer than 65535 bytes are truncated at the limit.
func (w *Writer) WriteString(s string) {
	if len(s) > math.MaxUint16 {
		s = s[:math.MaxUint16]
	}
	w.WriteUint16(uint16(len(s)))
	w.buf = append(w.buf, s...)
}

// Bytes returns the accumulated body.
func (w *Writer) Bytes() []byte {
	return w.buf
}
