package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/dicehall/internal/model"
)

// Engine validates and applies gameplay operations. Every operation is one
// critical section on the store mutex, so balance debits, round transitions
// and jackpot accrual are atomic with their checks.
type Engine struct {
	state  *State
	roller DiceRoller
}

// NewEngine creates an engine over the store with the given dice source.
func NewEngine(state *State, roller DiceRoller) *Engine {
	return &Engine{state: state, roller: roller}
}

// SettleResult is the outcome of a settled round.
type SettleResult struct {
	DiceResult    int
	Bets          []*model.Bet
	TotalWinnings int64
	NewBalance    int64
	JackpotPool   int64
}

// Snapshot is a point-in-time view of one user's game state.
type Snapshot struct {
	Balance     int64
	ActiveBets  []*model.Bet
	CurrentRoom uint32
	JackpotPool int64
	RoundStatus model.RoundStatus
}

// PlaceBet validates and applies one bet. With an empty roundID the user's
// active BETTING round is used or a fresh one created. Returns
// (ok, message, betID, roundID); the debit and the bet append happen in the
// same critical section.
func (e *Engine) PlaceBet(userID uint32, diceFace int, amount int64, roundID string) (bool, string, string, string) {
	s := e.state
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return false, "User not found", "", ""
	}

	if diceFace < 1 || diceFace > 6 {
		return false, "Invalid dice face (must be 1-6)", "", ""
	}

	if amount < s.cfg.MinBet || amount > s.cfg.MaxBet {
		return false, fmt.Sprintf("Invalid bet amount (%d-%d)", s.cfg.MinBet, s.cfg.MaxBet), "", ""
	}

	if user.Balance < amount {
		return false, "Insufficient balance", "", ""
	}

	var round *model.Round
	if roundID != "" {
		round = s.rounds[roundID]
		if round == nil || round.UserID != userID {
			return false, "Invalid round", "", ""
		}
	} else {
		round = e.activeRoundForBetLocked(userID)
	}

	if round == nil {
		return false, "Failed to create game round", "", ""
	}

	if round.Status != model.Betting {
		return false, "Betting phase has ended", "", ""
	}

	if len(round.Bets) >= s.cfg.MaxBetsPerRound {
		return false, "Maximum bets per round exceeded", "", ""
	}

	bet := model.NewBet(userID, round.ID, diceFace, amount)
	user.Balance -= amount
	round.AddBet(bet)

	slog.Info("bet placed",
		"user", userID, "bet", bet.ID, "round", round.ID,
		"face", diceFace, "amount", amount)

	return true, "Bet placed successfully", bet.ID, round.ID
}

// activeRoundForBetLocked returns the user's BETTING round with room for one
// more bet. A round already holding MaxBetsPerRound-1 bets is rolled over:
// it transitions to AWAITING_RESULTS and a fresh round takes the new bet, so
// no pending settlement is lost. Caller holds s.mu.
func (e *Engine) activeRoundForBetLocked(userID uint32) *model.Round {
	s := e.state
	for _, round := range s.rounds {
		if round.UserID != userID || round.Status != model.Betting {
			continue
		}
		if len(round.Bets) >= s.cfg.MaxBetsPerRound-1 {
			slog.Info("round near bet limit, rolling over",
				"round", round.ID, "bets", len(round.Bets))
			round.FinishBetting()
			break
		}
		return round
	}
	return s.createRoundLocked(userID)
}

// FinishBetting ends the betting phase of the user's round. A missing round
// and a round already awaiting results both succeed, so client retries do not
// pile up false failures.
func (e *Engine) FinishBetting(userID uint32, roundID string) (bool, string) {
	s := e.state
	s.mu.Lock()
	defer s.mu.Unlock()

	round, ok := s.rounds[roundID]
	if !ok {
		slog.Info("finish for unknown round, treating as already processed", "round", roundID)
		return true, "Round already processed"
	}

	if round.UserID != userID {
		return false, "Round does not belong to user"
	}

	if round.Status != model.Betting {
		if round.Status == model.AwaitingResults {
			return true, "Round already finished"
		}
		return false, "Round is not in betting phase"
	}

	if len(round.Bets) == 0 {
		return false, "No bets placed in current round"
	}

	round.FinishBetting()
	slog.Info("betting finished", "user", userID, "round", roundID)
	return true, "Betting phase completed"
}

// Settle rolls the dice, credits payouts, accrues the jackpot and removes the
// round from the active set. A missing round succeeds with a fabricated
// zero-valued result so replays against already-settled rounds are harmless.
// A round still in BETTING is finished first.
func (e *Engine) Settle(userID uint32, roundID string) (bool, string, *SettleResult) {
	s := e.state
	s.mu.Lock()
	defer s.mu.Unlock()

	round, ok := s.rounds[roundID]
	if !ok {
		slog.Info("settle for unknown round, returning default result", "round", roundID)
		return true, "Results already calculated", &SettleResult{DiceResult: 3}
	}

	if round.UserID != userID {
		return false, "Round does not belong to user", nil
	}

	if round.Status != model.AwaitingResults {
		if round.Status != model.Betting {
			return false, "Round is not in correct state for results", nil
		}
		slog.Info("settling a round still in betting phase, auto-finishing", "round", roundID)
		round.FinishBetting()
	}

	dice := e.roller.Roll()
	total := round.Settle(dice)

	user := s.users[userID]
	if user == nil {
		return false, "User not found", nil
	}
	user.Balance += total

	var jackpot int64
	if room, ok := s.rooms[user.CurrentRoom]; ok {
		room.JackpotPool += round.TotalBetAmount() / 100
		jackpot = room.JackpotPool
	}

	delete(s.rounds, roundID)

	slog.Info("round settled",
		"user", userID, "round", roundID,
		"dice", dice, "winnings", total, "balance", user.Balance)

	return true, "Results calculated successfully", &SettleResult{
		DiceResult:    dice,
		Bets:          round.Bets,
		TotalWinnings: total,
		NewBalance:    user.Balance,
		JackpotPool:   jackpot,
	}
}

// UserSnapshot reports the user's balance, the bets of their active round (a
// BETTING round wins over a leftover AWAITING_RESULTS one), the current room
// and its jackpot pool.
func (e *Engine) UserSnapshot(userID uint32) (*Snapshot, bool) {
	s := e.state
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, false
	}

	var active *model.Round
	for _, round := range s.rounds {
		if round.UserID != userID {
			continue
		}
		if active == nil || (active.Status != model.Betting && round.Status == model.Betting) {
			active = round
		}
	}

	snap := &Snapshot{
		Balance:     user.Balance,
		CurrentRoom: user.CurrentRoom,
		RoundStatus: model.NoActiveRound,
	}
	if active != nil {
		snap.RoundStatus = active.Status
		snap.ActiveBets = append(snap.ActiveBets, active.Bets...)
	}
	if room, ok := s.rooms[user.CurrentRoom]; ok {
		snap.JackpotPool = room.JackpotPool
	}
	return snap, true
}

// CleanupStaleRounds drops rounds older than the stale timeout. Their debits
// are not refunded; this mirrors the conservative sweep of the live system.
// Returns the number of rounds removed.
func (e *Engine) CleanupStaleRounds(now time.Time) int {
	s := e.state
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, round := range s.rounds {
		if now.Sub(round.CreatedAt) <= s.cfg.StaleRoundTimeout {
			continue
		}
		slog.Warn("removing stale round", "round", id, "user", round.UserID, "bets", len(round.Bets))
		delete(s.rounds, id)
		removed++
	}
	return removed
}
