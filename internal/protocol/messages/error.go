package messages

import (
	"fmt"

	"github.com/udisondev/dicehall/internal/protocol"
)

// ErrorResponse (cmd 0x9999) may replace any response.
type ErrorResponse struct {
	ErrorCode    uint32
	ErrorMessage string
	Details      string
}

func (m *ErrorResponse) Encode() []byte {
	w := protocol.NewWriter()
	w.WriteUint32(m.ErrorCode)
	w.WriteString(m.ErrorMessage)
	w.WriteString(m.Details)
	return w.Bytes()
}

func (m *ErrorResponse) Decode(data []byte) error {
	r := protocol.NewReader(data)
	var err error
	if m.ErrorCode, err = r.ReadUint32(); err != nil {
		return fmt.Errorf("decoding ErrorResponse: %w", err)
	}
	if m.ErrorMessage, err = r.ReadString(); err != nil {
		return fmt.Errorf("decoding ErrorResponse: %w", err)
	}
	if m.Details, err = r.ReadString(); err != nil {
		return fmt.Errorf("decoding ErrorResponse: %w", err)
	}
	return nil
}
