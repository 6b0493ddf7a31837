package messages

import (
	"fmt"

	"github.com/udisondev/dicehall/internal/protocol"
)

// BetPlacementRequest (cmd 0x0004). RoundID is optional: clients that omit it
// may stop writing after Amount, so a missing trailing field decodes as "".
type BetPlacementRequest struct {
	DiceFace uint32
	Amount   int64
	RoundID  string
}

func (m *BetPlacementRequest) Encode() []byte {
	w := protocol.NewWriter()
	w.WriteUint32(m.DiceFace)
	w.WriteInt64(m.Amount)
	w.WriteString(m.RoundID)
	return w.Bytes()
}

func (m *BetPlacementRequest) Decode(data []byte) error {
	r := protocol.NewReader(data)
	var err error
	if m.DiceFace, err = r.ReadUint32(); err != nil {
		return fmt.Errorf("decoding BetPlacementRequest: %w", err)
	}
	if m.Amount, err = r.ReadInt64(); err != nil {
		return fmt.Errorf("decoding BetPlacementRequest: %w", err)
	}
	if r.Remaining() == 0 {
		m.RoundID = ""
		return nil
	}
	if m.RoundID, err = r.ReadString(); err != nil {
		return fmt.Errorf("decoding BetPlacementRequest: %w", err)
	}
	return nil
}

// BetPlacementResponse (cmd 0x1004).
type BetPlacementResponse struct {
	Success          bool
	Message          string
	BetID            string
	RoundID          string
	RemainingBalance int64
}

func (m *BetPlacementResponse) Encode() []byte {
	w := protocol.NewWriter()
	w.WriteBool(m.Success)
	w.WriteString(m.Message)
	w.WriteString(m.BetID)
	w.WriteString(m.RoundID)
	w.WriteInt64(m.RemainingBalance)
	return w.Bytes()
}

func (m *BetPlacementResponse) Decode(data []byte) error {
	r := protocol.NewReader(data)
	var err error
	if m.Success, err = r.ReadBool(); err != nil {
		return fmt.Errorf("decoding BetPlacementResponse: %w", err)
	}
	if m.Message, err = r.ReadString(); err != nil {
		return fmt.Errorf("decoding BetPlacementResponse: %w", err)
	}
	if m.BetID, err = r.ReadString(); err != nil {
		return fmt.Errorf("decoding BetPlacementResponse: %w", err)
	}
	if m.RoundID, err = r.ReadString(); err != nil {
		return fmt.Errorf("decoding BetPlacementResponse: %w", err)
	}
	if m.RemainingBalance, err = r.ReadInt64(); err != nil {
		return fmt.Errorf("decoding BetPlacementResponse: %w", err)
	}
	return nil
}

// BetFinishedRequest (cmd 0x0005).
type BetFinishedRequest struct {
	RoundID string
}

func (m *BetFinishedRequest) Encode() []byte {
	w := protocol.NewWriter()
	w.WriteString(m.RoundID)
	return w.Bytes()
}

func (m *BetFinishedRequest) Decode(data []byte) error {
	r := protocol.NewReader(data)
	var err error
	if m.RoundID, err = r.ReadString(); err != nil {
		return fmt.Errorf("decoding BetFinishedRequest: %w", err)
	}
	return nil
}

// BetFinishedResponse (cmd 0x1005).
type BetFinishedResponse struct {
	Success bool
	Message string
	RoundID string
}

func (m *BetFinishedResponse) Encode() []byte {
	w := protocol.NewWriter()
	w.WriteBool(m.Success)
	w.WriteString(m.Message)
	w.WriteString(m.RoundID)
	return w.Bytes()
}

func (m *BetFinishedResponse) Decode(data []byte) error {
	r := protocol.NewReader(data)
	var err error
	if m.Success, err = r.ReadBool(); err != nil {
		return fmt.Errorf("decoding BetFinishedResponse: %w", err)
	}
	if m.Message, err = r.ReadString(); err != nil {
		return fmt.Errorf("decoding BetFinishedResponse: %w", err)
	}
	if m.RoundID, err = r.ReadString(); err != nil {
		return fmt.Errorf("decoding BetFinishedResponse: %w", err)
	}
	return nil
}
