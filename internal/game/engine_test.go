package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/dicehall/internal/model"
)

// fixedRoller always lands on the same face.
type fixedRoller struct{ face int }

func (r fixedRoller) Roll() int { return r.face }

func newTestEngine(t *testing.T, face int) (*Engine, *State) {
	t.Helper()
	s := newTestState(t)
	return NewEngine(s, fixedRoller{face: face}), s
}

// joinedUser authenticates a seed user and puts them in room 1.
func joinedUser(t *testing.T, s *State, username, password string) uint32 {
	t.Helper()
	user, ok := s.Authenticate(username, password)
	require.True(t, ok)
	_, _, ok = s.JoinRoom(user.ID, 1)
	require.True(t, ok)
	return user.ID
}

func TestPlaceBetAndWin(t *testing.T) {
	e, s := newTestEngine(t, 3)
	alice := joinedUser(t, s, "alice", "alicepass")

	ok, msg, betID, roundID := e.PlaceBet(alice, 3, 100, "")
	require.True(t, ok)
	assert.Equal(t, "Bet placed successfully", msg)
	assert.NotEmpty(t, betID)
	assert.NotEmpty(t, roundID)

	balance, _ := s.Balance(alice)
	assert.Equal(t, int64(900), balance, "bet amount debited immediately")

	ok, msg = e.FinishBetting(alice, roundID)
	require.True(t, ok)
	assert.Equal(t, "Betting phase completed", msg)

	ok, msg, result := e.Settle(alice, roundID)
	require.True(t, ok)
	assert.Equal(t, "Results calculated successfully", msg)
	require.NotNil(t, result)

	assert.Equal(t, 3, result.DiceResult)
	assert.Equal(t, int64(600), result.TotalWinnings)
	assert.Equal(t, int64(1500), result.NewBalance)
	assert.Equal(t, int64(1), result.JackpotPool, "1% of the 100 wagered")

	require.Len(t, result.Bets, 1)
	assert.True(t, result.Bets[0].Won)
	assert.Equal(t, int64(600), result.Bets[0].Payout)
}

func TestPlaceBetAndLose(t *testing.T) {
	e, s := newTestEngine(t, 4)
	alice := joinedUser(t, s, "alice", "alicepass")

	ok, _, _, roundID := e.PlaceBet(alice, 3, 100, "")
	require.True(t, ok)
	ok, _ = e.FinishBetting(alice, roundID)
	require.True(t, ok)

	ok, _, result := e.Settle(alice, roundID)
	require.True(t, ok)

	assert.Equal(t, 4, result.DiceResult)
	assert.Zero(t, result.TotalWinnings)
	assert.Equal(t, int64(900), result.NewBalance)
	assert.Equal(t, int64(1), result.JackpotPool, "jackpot accrues on losses too")
}

func TestPlaceBetValidation(t *testing.T) {
	e, s := newTestEngine(t, 1)
	alice := joinedUser(t, s, "alice", "alicepass")

	tests := []struct {
		name    string
		userID  uint32
		face    int
		amount  int64
		wantMsg string
	}{
		{"unknown user", 9999, 3, 100, "User not found"},
		{"face too low", alice, 0, 100, "Invalid dice face (must be 1-6)"},
		{"face too high", alice, 7, 100, "Invalid dice face (must be 1-6)"},
		{"amount zero", alice, 3, 0, "Invalid bet amount (1-1000)"},
		{"amount over max", alice, 3, 1001, "Invalid bet amount (1-1000)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg, _, _ := e.PlaceBet(tt.userID, tt.face, tt.amount, "")
			assert.False(t, ok)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}

	// Face is checked before amount.
	ok, msg, _, _ := e.PlaceBet(alice, 0, 0, "")
	assert.False(t, ok)
	assert.Equal(t, "Invalid dice face (must be 1-6)", msg)

	// Boundaries are inclusive.
	ok, _, _, _ = e.PlaceBet(alice, 1, 1, "")
	assert.True(t, ok)
	ok, _, _, _ = e.PlaceBet(alice, 6, 999, "")
	assert.True(t, ok)
}

func TestPlaceBetInsufficientBalance(t *testing.T) {
	e, s := newTestEngine(t, 1)
	alice := joinedUser(t, s, "alice", "alicepass")
	s.SetBalance(alice, 50)

	ok, msg, _, _ := e.PlaceBet(alice, 3, 100, "")
	assert.False(t, ok)
	assert.Equal(t, "Insufficient balance", msg)

	balance, _ := s.Balance(alice)
	assert.Equal(t, int64(50), balance, "rejected bet debits nothing")
}

func TestPlaceBetOutsideRoom(t *testing.T) {
	e, s := newTestEngine(t, 1)
	user, ok := s.Authenticate("alice", "alicepass")
	require.True(t, ok)

	ok, msg, _, _ := e.PlaceBet(user.ID, 3, 100, "")
	assert.False(t, ok)
	assert.Equal(t, "Failed to create game round", msg)
}

func TestPlaceBetExplicitRound(t *testing.T) {
	e, s := newTestEngine(t, 1)
	alice := joinedUser(t, s, "alice", "alicepass")
	bob := joinedUser(t, s, "bob", "bobpass")

	ok, _, _, roundID := e.PlaceBet(alice, 3, 100, "")
	require.True(t, ok)

	// Second bet into the same round by its owner.
	ok, _, _, got := e.PlaceBet(alice, 5, 50, roundID)
	require.True(t, ok)
	assert.Equal(t, roundID, got)

	// Another user cannot bet into it.
	ok, msg, _, _ := e.PlaceBet(bob, 3, 100, roundID)
	assert.False(t, ok)
	assert.Equal(t, "Invalid round", msg)

	ok, msg, _, _ = e.PlaceBet(alice, 3, 100, "no-such-round")
	assert.False(t, ok)
	assert.Equal(t, "Invalid round", msg)
}

func TestPlaceBetRollsOverNearLimit(t *testing.T) {
	e, s := newTestEngine(t, 1)
	alice := joinedUser(t, s, "alice", "alicepass")
	s.SetBalance(alice, 1_000_000)

	// With a limit of 10 the ninth implicit bet rolls the round over.
	ok, _, _, first := e.PlaceBet(alice, 3, 10, "")
	require.True(t, ok)
	for i := 0; i < 8; i++ {
		ok, _, _, got := e.PlaceBet(alice, 3, 10, "")
		require.True(t, ok)
		require.Equal(t, first, got)
	}

	ok, _, _, second := e.PlaceBet(alice, 3, 10, "")
	require.True(t, ok)
	assert.NotEqual(t, first, second, "tenth bet lands in a fresh round")

	assert.Equal(t, model.AwaitingResults, s.rounds[first].Status)
	assert.Len(t, s.rounds[first].Bets, 9)
	assert.Equal(t, model.Betting, s.rounds[second].Status)
	assert.Len(t, s.rounds[second].Bets, 1)
}

func TestPlaceBetExplicitRoundHitsLimit(t *testing.T) {
	e, s := newTestEngine(t, 1)
	alice := joinedUser(t, s, "alice", "alicepass")
	s.SetBalance(alice, 1_000_000)

	ok, _, _, roundID := e.PlaceBet(alice, 3, 10, "")
	require.True(t, ok)
	for i := 0; i < 9; i++ {
		ok, _, _, _ = e.PlaceBet(alice, 3, 10, roundID)
		require.True(t, ok)
	}

	ok, msg, _, _ := e.PlaceBet(alice, 3, 10, roundID)
	assert.False(t, ok)
	assert.Equal(t, "Maximum bets per round exceeded", msg)
}

func TestFinishBettingIdempotent(t *testing.T) {
	e, s := newTestEngine(t, 1)
	alice := joinedUser(t, s, "alice", "alicepass")

	ok, _, _, roundID := e.PlaceBet(alice, 3, 100, "")
	require.True(t, ok)

	ok, msg := e.FinishBetting(alice, roundID)
	require.True(t, ok)
	assert.Equal(t, "Betting phase completed", msg)

	ok, msg = e.FinishBetting(alice, roundID)
	assert.True(t, ok, "repeated finish must not fail")
	assert.Equal(t, "Round already finished", msg)

	ok, msg = e.FinishBetting(alice, "gone-round")
	assert.True(t, ok)
	assert.Equal(t, "Round already processed", msg)
}

func TestFinishBettingRejections(t *testing.T) {
	e, s := newTestEngine(t, 1)
	alice := joinedUser(t, s, "alice", "alicepass")
	bob := joinedUser(t, s, "bob", "bobpass")

	ok, _, _, roundID := e.PlaceBet(alice, 3, 100, "")
	require.True(t, ok)

	ok, msg := e.FinishBetting(bob, roundID)
	assert.False(t, ok)
	assert.Equal(t, "Round does not belong to user", msg)

	// A round with no bets cannot finish.
	s.mu.Lock()
	empty := s.createRoundLocked(bob)
	s.mu.Unlock()
	require.NotNil(t, empty)

	ok, msg = e.FinishBetting(bob, empty.ID)
	assert.False(t, ok)
	assert.Equal(t, "No bets placed in current round", msg)
}

func TestSettleMissingRound(t *testing.T) {
	e, _ := newTestEngine(t, 5)

	ok, msg, result := e.Settle(1, "already-gone")
	require.True(t, ok)
	assert.Equal(t, "Results already calculated", msg)
	require.NotNil(t, result)
	assert.Equal(t, 3, result.DiceResult)
	assert.Empty(t, result.Bets)
	assert.Zero(t, result.TotalWinnings)
}

func TestSettleIdempotent(t *testing.T) {
	e, s := newTestEngine(t, 3)
	alice := joinedUser(t, s, "alice", "alicepass")

	ok, _, _, roundID := e.PlaceBet(alice, 3, 100, "")
	require.True(t, ok)
	_, _ = e.FinishBetting(alice, roundID)

	ok, _, first := e.Settle(alice, roundID)
	require.True(t, ok)
	assert.Equal(t, int64(1500), first.NewBalance)

	// Replay: the round is gone, the balance does not move again.
	ok, msg, second := e.Settle(alice, roundID)
	require.True(t, ok)
	assert.Equal(t, "Results already calculated", msg)
	assert.Zero(t, second.TotalWinnings)

	balance, _ := s.Balance(alice)
	assert.Equal(t, int64(1500), balance)
}

func TestSettleAutoFinishesBetting(t *testing.T) {
	e, s := newTestEngine(t, 3)
	alice := joinedUser(t, s, "alice", "alicepass")

	ok, _, _, roundID := e.PlaceBet(alice, 3, 100, "")
	require.True(t, ok)

	// No explicit finish; settle handles it.
	ok, _, result := e.Settle(alice, roundID)
	require.True(t, ok)
	assert.Equal(t, int64(600), result.TotalWinnings)
}

func TestSettleWrongOwner(t *testing.T) {
	e, s := newTestEngine(t, 3)
	alice := joinedUser(t, s, "alice", "alicepass")
	bob := joinedUser(t, s, "bob", "bobpass")

	ok, _, _, roundID := e.PlaceBet(alice, 3, 100, "")
	require.True(t, ok)

	ok, msg, result := e.Settle(bob, roundID)
	assert.False(t, ok)
	assert.Equal(t, "Round does not belong to user", msg)
	assert.Nil(t, result)
}

func TestJackpotAccruesAcrossRounds(t *testing.T) {
	e, s := newTestEngine(t, 6)
	alice := joinedUser(t, s, "alice", "alicepass")
	s.SetBalance(alice, 1_000_000)

	for i := 0; i < 3; i++ {
		ok, _, _, roundID := e.PlaceBet(alice, 1, 200, "")
		require.True(t, ok)
		ok, _, result := e.Settle(alice, roundID)
		require.True(t, ok)
		assert.Equal(t, int64(2*(i+1)), result.JackpotPool)
	}

	_, jackpot, ok := s.RoomInfo(1)
	require.True(t, ok)
	assert.Equal(t, int64(6), jackpot)
}

func TestUserSnapshot(t *testing.T) {
	e, s := newTestEngine(t, 3)
	alice := joinedUser(t, s, "alice", "alicepass")

	snap, ok := e.UserSnapshot(alice)
	require.True(t, ok)
	assert.Equal(t, int64(1000), snap.Balance)
	assert.Equal(t, uint32(1), snap.CurrentRoom)
	assert.Equal(t, model.NoActiveRound, snap.RoundStatus)
	assert.Empty(t, snap.ActiveBets)

	ok, _, _, roundID := e.PlaceBet(alice, 3, 100, "")
	require.True(t, ok)

	snap, ok = e.UserSnapshot(alice)
	require.True(t, ok)
	assert.Equal(t, int64(900), snap.Balance)
	assert.Equal(t, model.Betting, snap.RoundStatus)
	require.Len(t, snap.ActiveBets, 1)
	assert.Equal(t, roundID, snap.ActiveBets[0].RoundID)

	ok, _ = e.FinishBetting(alice, roundID)
	require.True(t, ok)

	snap, _ = e.UserSnapshot(alice)
	assert.Equal(t, model.AwaitingResults, snap.RoundStatus)

	// A new BETTING round shadows the one awaiting results.
	ok, _, _, _ = e.PlaceBet(alice, 2, 50, "")
	require.True(t, ok)
	snap, _ = e.UserSnapshot(alice)
	assert.Equal(t, model.Betting, snap.RoundStatus)
	require.Len(t, snap.ActiveBets, 1)
	assert.Equal(t, 2, snap.ActiveBets[0].DiceFace)

	_, ok = e.UserSnapshot(9999)
	assert.False(t, ok)
}

func TestCleanupStaleRounds(t *testing.T) {
	e, s := newTestEngine(t, 1)
	alice := joinedUser(t, s, "alice", "alicepass")

	ok, _, _, fresh := e.PlaceBet(alice, 3, 100, "")
	require.True(t, ok)
	ok, _ = e.FinishBetting(alice, fresh)
	require.True(t, ok)

	ok, _, _, stale := e.PlaceBet(alice, 3, 100, "")
	require.True(t, ok)
	s.rounds[stale].CreatedAt = time.Now().Add(-time.Hour)

	removed := e.CleanupStaleRounds(time.Now())
	assert.Equal(t, 1, removed)

	_, staleLeft := s.rounds[stale]
	assert.False(t, staleLeft)
	_, freshLeft := s.rounds[fresh]
	assert.True(t, freshLeft)
}
