package model

import (
	"time"

	"github.com/google/uuid"
)

// Bet is a single wager on one dice face. Settled stays false until the
// owning round is settled; Won and Payout are meaningless before that.
type Bet struct {
	ID        string
	UserID    uint32
	RoundID   string
	DiceFace  int
	Amount    int64
	Settled   bool
	Won       bool
	Payout    int64
	CreatedAt time.Time
}

// NewBet creates a bet with a fresh id.
func NewBet(userID uint32, roundID string, diceFace int, amount int64) *Bet {
	return &Bet{
		ID:        uuid.NewString(),
		UserID:    userID,
		RoundID:   roundID,
		DiceFace:  diceFace,
		Amount:    amount,
		CreatedAt: time.Now(),
	}
}
