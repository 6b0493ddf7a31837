// Package messages defines the typed request/response bodies carried inside
// frames. Field order and widths follow the wire catalog; every body both
// encodes and decodes so that clients and tests share one codec.
package messages

import (
	"fmt"

	"github.com/udisondev/dicehall/internal/protocol"
)

// LoginRequest (cmd 0x0001).
type LoginRequest struct {
	Username string
	Password string
}

func (m *LoginRequest) Encode() []byte {
	w := protocol.NewWriter()
	w.WriteString(m.Username)
	w.WriteString(m.Password)
	return w.Bytes()
}

func (m *LoginRequest) Decode(data []byte) error {
	r := protocol.NewReader(data)
	var err error
	if m.Username, err = r.ReadString(); err != nil {
		return fmt.Errorf("decoding LoginRequest: %w", err)
	}
	if m.Password, err = r.ReadString(); err != nil {
		return fmt.Errorf("decoding LoginRequest: %w", err)
	}
	return nil
}

// LoginResponse (cmd 0x1001).
type LoginResponse struct {
	Success      bool
	Message      string
	SessionToken string
	UserID       uint32
	Balance      int64
}

func (m *LoginResponse) Encode() []byte {
	w := protocol.NewWriter()
	w.WriteBool(m.Success)
	w.WriteString(m.Message)
	w.WriteString(m.SessionToken)
	w.WriteUint32(m.UserID)
	w.WriteInt64(m.Balance)
	return w.Bytes()
}

func (m *LoginResponse) Decode(data []byte) error {
	r := protocol.NewReader(data)
	var err error
	if m.Success, err = r.ReadBool(); err != nil {
		return fmt.Errorf("decoding LoginResponse: %w", err)
	}
	if m.Message, err = r.ReadString(); err != nil {
		return fmt.Errorf("decoding LoginResponse: %w", err)
	}
	if m.SessionToken, err = r.ReadString(); err != nil {
		return fmt.Errorf("decoding LoginResponse: %w", err)
	}
	if m.UserID, err = r.ReadUint32(); err != nil {
		return fmt.Errorf("decoding LoginResponse: %w", err)
	}
	if m.Balance, err = r.ReadInt64(); err != nil {
		return fmt.Errorf("decoding LoginResponse: %w", err)
	}
	return nil
}
