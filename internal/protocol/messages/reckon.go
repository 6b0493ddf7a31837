package messages

import (
	"fmt"

	"github.com/udisondev/dicehall/internal/protocol"
)

// ReckonResultRequest (cmd 0x0006).
type ReckonResultRequest struct {
	RoundID string
}

func (m *ReckonResultRequest) Encode() []byte {
	w := protocol.NewWriter()
	w.WriteString(m.RoundID)
	return w.Bytes()
}

func (m *ReckonResultRequest) Decode(data []byte) error {
	r := protocol.NewReader(data)
	var err error
	if m.RoundID, err = r.ReadString(); err != nil {
		return fmt.Errorf("decoding ReckonResultRequest: %w", err)
	}
	return nil
}

// BetResult is one settled bet inside a ReckonResultResponse.
type BetResult struct {
	BetID     string
	DiceFace  uint32
	BetAmount int64
	Won       bool
	Payout    int64
	RoundID   string
}

// ReckonResultResponse (cmd 0x1006).
type ReckonResultResponse struct {
	DiceResult         uint32
	BetResults         []BetResult
	TotalWinnings      int64
	NewBalance         int64
	UpdatedJackpotPool int64
	RoundID            string
}

func (m *ReckonResultResponse) Encode() []byte {
	w := protocol.NewWriter()
	w.WriteUint32(m.DiceResult)
	w.WriteUint16(uint16(len(m.BetResults)))
	for _, b := range m.BetResults {
		w.WriteString(b.BetID)
		w.WriteUint32(b.DiceFace)
		w.WriteInt64(b.BetAmount)
		w.WriteBool(b.Won)
		w.WriteInt64(b.Payout)
		w.WriteString(b.RoundID)
	}
	w.WriteInt64(m.TotalWinnings)
	w.WriteInt64(m.NewBalance)
	w.WriteInt64(m.UpdatedJackpotPool)
	w.WriteString(m.RoundID)
	return w.Bytes()
}

func (m *ReckonResultResponse) Decode(data []byte) error {
	r := protocol.NewReader(data)
	var err error
	if m.DiceResult, err = r.ReadUint32(); err != nil {
		return fmt.Errorf("decoding ReckonResultResponse: %w", err)
	}
	count, err := r.ReadUint16()
	if err != nil {
		return fmt.Errorf("decoding ReckonResultResponse: %w", err)
	}
	m.BetResults = make([]BetResult, 0, count)
	for i := uint16(0); i < count; i++ {
		var b BetResult
		if b.BetID, err = r.ReadString(); err != nil {
			return fmt.Errorf("decoding ReckonResultResponse bet: %w", err)
		}
		if b.DiceFace, err = r.ReadUint32(); err != nil {
			return fmt.Errorf("decoding ReckonResultResponse bet: %w", err)
		}
		if b.BetAmount, err = r.ReadInt64(); err != nil {
			return fmt.Errorf("decoding ReckonResultResponse bet: %w", err)
		}
		if b.Won, err = r.ReadBool(); err != nil {
			return fmt.Errorf("decoding ReckonResultResponse bet: %w", err)
		}
		if b.Payout, err = r.ReadInt64(); err != nil {
			return fmt.Errorf("decoding ReckonResultResponse bet: %w", err)
		}
		if b.RoundID, err = r.ReadString(); err != nil {
			return fmt.Errorf("decoding ReckonResultResponse bet: %w", err)
		}
		m.BetResults = append(m.BetResults, b)
	}
	if m.TotalWinnings, err = r.ReadInt64(); err != nil {
		return fmt.Errorf("decoding ReckonResultResponse: %w", err)
	}
	if m.NewBalance, err = r.ReadInt64(); err != nil {
		return fmt.Errorf("decoding ReckonResultResponse: %w", err)
	}
	if m.UpdatedJackpotPool, err = r.ReadInt64(); err != nil {
		return fmt.Errorf("decoding ReckonResultResponse: %w", err)
	}
	if m.RoundID, err = r.ReadString(); err != nil {
		return fmt.Errorf("decoding ReckonResultResponse: %w", err)
	}
	return nil
}
