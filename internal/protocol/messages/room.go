package messages

import (
	"fmt"

	"github.com/udisondev/dicehall/internal/protocol"
)

// RoomJoinRequest (cmd 0x0002).
type RoomJoinRequest struct {
	RoomID uint32
}

func (m *RoomJoinRequest) Encode() []byte {
	w := protocol.NewWriter()
	w.WriteUint32(m.RoomID)
	return w.Bytes()
}

func (m *RoomJoinRequest) Decode(data []byte) error {
	r := protocol.NewReader(data)
	var err error
	if m.RoomID, err = r.ReadUint32(); err != nil {
		return fmt.Errorf("decoding RoomJoinRequest: %w", err)
	}
	return nil
}

// RoomJoinResponse (cmd 0x1002).
type RoomJoinResponse struct {
	Success     bool
	Message     string
	RoomID      uint32
	PlayerCount uint32
	JackpotPool int64
}

func (m *RoomJoinResponse) Encode() []byte {
	w := protocol.NewWriter()
	w.WriteBool(m.Success)
	w.WriteString(m.Message)
	w.WriteUint32(m.RoomID)
	w.WriteUint32(m.PlayerCount)
	w.WriteInt64(m.JackpotPool)
	return w.Bytes()
}

func (m *RoomJoinResponse) Decode(data []byte) error {
	r := protocol.NewReader(data)
	var err error
	if m.Success, err = r.ReadBool(); err != nil {
		return fmt.Errorf("decoding RoomJoinResponse: %w", err)
	}
	if m.Message, err = r.ReadString(); err != nil {
		return fmt.Errorf("decoding RoomJoinResponse: %w", err)
	}
	if m.RoomID, err = r.ReadUint32(); err != nil {
		return fmt.Errorf("decoding RoomJoinResponse: %w", err)
	}
	if m.PlayerCount, err = r.ReadUint32(); err != nil {
		return fmt.Errorf("decoding RoomJoinResponse: %w", err)
	}
	if m.JackpotPool, err = r.ReadInt64(); err != nil {
		return fmt.Errorf("decoding RoomJoinResponse: %w", err)
	}
	return nil
}
