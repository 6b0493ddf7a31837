package model

import (
	"time"

	"github.com/google/uuid"
)

// PayoutMultiplier is the fair payout on a uniform six-sided die.
const PayoutMultiplier = 6

// Round is one user's betting envelope against a single dice roll.
// Bets keep their placement order.
type Round struct {
	ID            string
	UserID        uint32
	RoomID        uint32
	Bets          []*Bet
	Status        RoundStatus
	DiceResult    int
	TotalWinnings int64
	CreatedAt     time.Time
	FinishedAt    time.Time
}

// NewRound creates a round in the BETTING phase.
func NewRound(userID, roomID uint32) *Round {
	return &Round{
		ID:        uuid.NewString(),
		UserID:    userID,
		RoomID:    roomID,
		Status:    Betting,
		CreatedAt: time.Now(),
	}
}

// AddBet appends a bet, preserving placement order.
func (r *Round) AddBet(b *Bet) {
	r.Bets = append(r.Bets, b)
}

// FinishBetting transitions the round out of the BETTING phase.
func (r *Round) FinishBetting() {
	r.Status = AwaitingResults
}

// Settle records the dice result, marks every bet won or lost, and returns
// the sum of payouts. A winning bet pays Amount * PayoutMultiplier.
func (r *Round) Settle(dice int) int64 {
	r.DiceResult = dice

	var total int64
	for _, b := range r.Bets {
		b.Settled = true
		b.Won = b.DiceFace == dice
		if b.Won {
			b.Payout = b.Amount * PayoutMultiplier
		} else {
			b.Payout = 0
		}
		total += b.Payout
	}

	r.TotalWinnings = total
	r.FinishedAt = time.Now()
	return total
}

// TotalBetAmount is the sum of all bet amounts in the round.
func (r *Round) TotalBetAmount() int64 {
	var sum int64
	for _, b := range r.Bets {
		sum += b.Amount
	}
	return sum
}
