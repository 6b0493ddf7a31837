package messages

import (
	"fmt"

	"github.com/udisondev/dicehall/internal/protocol"
)

// BetSummary is one unsettled bet inside a SnapshotResponse.
type BetSummary struct {
	DiceFace uint32
	Amount   int64
	BetID    string
	RoundID  string
}

// SnapshotResponse (cmd 0x1003). The request body is empty.
type SnapshotResponse struct {
	UserBalance int64
	ActiveBets  []BetSummary
	CurrentRoom uint32
	JackpotPool int64
	RoundStatus uint8
}

func (m *SnapshotResponse) Encode() []byte {
	w := protocol.NewWriter()
	w.WriteInt64(m.UserBalance)
	w.WriteUint16(uint16(len(m.ActiveBets)))
	for _, b := range m.ActiveBets {
		w.WriteUint32(b.DiceFace)
		w.WriteInt64(b.Amount)
		w.WriteString(b.BetID)
		w.WriteString(b.RoundID)
	}
	w.WriteUint32(m.CurrentRoom)
	w.WriteInt64(m.JackpotPool)
	w.WriteUint8(m.RoundStatus)
	return w.Bytes()
}

func (m *SnapshotResponse) Decode(data []byte) error {
	r := protocol.NewReader(data)
	var err error
	if m.UserBalance, err = r.ReadInt64(); err != nil {
		return fmt.Errorf("decoding SnapshotResponse: %w", err)
	}
	count, err := r.ReadUint16()
	if err != nil {
		return fmt.Errorf("decoding SnapshotResponse: %w", err)
	}
	m.ActiveBets = make([]BetSummary, 0, count)
	for i := uint16(0); i < count; i++ {
		var b BetSummary
		if b.DiceFace, err = r.ReadUint32(); err != nil {
			return fmt.Errorf("decoding SnapshotResponse bet: %w", err)
		}
		if b.Amount, err = r.ReadInt64(); err != nil {
			return fmt.Errorf("decoding SnapshotResponse bet: %w", err)
		}
		if b.BetID, err = r.ReadString(); err != nil {
			return fmt.Errorf("decoding SnapshotResponse bet: %w", err)
		}
		if b.RoundID, err = r.ReadString(); err != nil {
			return fmt.Errorf("decoding SnapshotResponse bet: %w", err)
		}
		m.ActiveBets = append(m.ActiveBets, b)
	}
	if m.CurrentRoom, err = r.ReadUint32(); err != nil {
		return fmt.Errorf("decoding SnapshotResponse: %w", err)
	}
	if m.JackpotPool, err = r.ReadInt64(); err != nil {
		return fmt.Errorf("decoding SnapshotResponse: %w", err)
	}
	if m.RoundStatus, err = r.ReadUint8(); err != nil {
		return fmt.Errorf("decoding SnapshotResponse: %w", err)
	}
	return nil
}
