package protocol

import (
	"encoding/binary"
	"errors"
)

// Frame layout: cmd_id (u32 LE) | length (u32 LE) | body (length bytes).
// Exactly one frame per WebSocket binary message.
const (
	FrameHeaderSize = 8

	// MaxFrameSize matches the transport's 1 MiB message limit.
	MaxFrameSize = 1 << 20
)

var (
	ErrFrameTooShort  = errors.New("frame shorter than header")
	ErrLengthMismatch = errors.New("frame length mismatch")
	ErrBodyTooLarge   = errors.New("frame body too large")
)

// EncodeFrame prepends the 8-byte header to body and returns the full frame.
func EncodeFrame(cmdID uint32, body []byte) []byte {
	frame := make([]byte, FrameHeaderSize+len(body))
	binary.LittleEndian.PutUint32(frame[0:4], cmdID)
	binary.LittleEndian.PutUint32(frame[4:8], uint32(len(body)))
	copy(frame[FrameHeaderSize:], body)
	return frame
}

// DecodeFrame splits a received message into command id and body.
// The declared length must match the received payload exactly.
func DecodeFrame(data []byte) (uint32, []byte, error) {
	if len(data) < FrameHeaderSize {
		return 0, nil, ErrFrameTooShort
	}

	cmdID := binary.LittleEndian.Uint32(data[0:4])
	length := binary.LittleEndian.Uint32(data[4:8])

	if length > MaxFrameSize {
		return 0, nil, ErrBodyTooLarge
	}
	if int(length) != len(data)-FrameHeaderSize {
		return 0, nil, ErrLengthMismatch
	}

	return cmdID, data[FrameHeaderSize:], nil
}
