// Package game owns all process-local game state and the rules that mutate
// it. State is the single store every handler goes through; Engine implements
// bet placement and settlement on top of it. Nothing here survives a restart.
package game

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/udisondev/dicehall/internal/model"
)

// Config carries the gameplay limits the store and engine enforce.
type Config struct {
	SessionTimeout    time.Duration
	DefaultBalance    int64
	RoomCount         int
	RoomCapacity      int
	MaxBetsPerRound   int
	MinBet            int64
	MaxBet            int64
	StaleRoundTimeout time.Duration

	// PasswordHashCost is the bcrypt work factor for seeded users.
	// Tests lower it to bcrypt.MinCost.
	PasswordHashCost int
}

// DefaultPasswordHashCost is the bcrypt work factor for production use.
const DefaultPasswordHashCost = 12

// seedUsers are the fixture accounts created at startup.
var seedUsers = []struct {
	username string
	password string
}{
	{"testuser1", "password123"},
	{"testuser2", "password123"},
	{"alice", "alicepass"},
	{"bob", "bobpass"},
	{"charlie", "charliepass"},
}

// State holds users, rooms, active rounds and the connection map behind one
// mutex. Operations are short read-modify-write sections; nothing blocks on
// I/O while the lock is held.
type State struct {
	cfg Config

	mu          sync.Mutex
	users       map[uint32]*model.User
	usersByName map[string]uint32
	rooms       map[uint32]*model.Room
	rounds      map[string]*model.Round
	connUser    map[uint64]uint32
	userConn    map[uint32]uint64
	nextUserID  uint32
}

// NewState creates the store and bootstraps the default rooms and users.
func NewState(cfg Config) (*State, error) {
	s := &State{
		cfg:         cfg,
		users:       make(map[uint32]*model.User),
		usersByName: make(map[string]uint32),
		rooms:       make(map[uint32]*model.Room),
		rounds:      make(map[string]*model.Round),
		connUser:    make(map[uint64]uint32),
		userConn:    make(map[uint32]uint64),
		nextUserID:  1,
	}

	for i := 1; i <= cfg.RoomCount; i++ {
		id := uint32(i)
		s.rooms[id] = model.NewRoom(id, fmt.Sprintf("Room %d", i), cfg.RoomCapacity)
	}

	for _, seed := range seedUsers {
		user, err := model.NewUser(s.nextUserID, seed.username, seed.password, cfg.DefaultBalance, cfg.PasswordHashCost)
		if err != nil {
			return nil, fmt.Errorf("seeding user %s: %w", seed.username, err)
		}
		s.users[user.ID] = user
		s.usersByName[user.Username] = user.ID
		s.nextUserID++
	}

	return s, nil
}

// Authenticate verifies credentials and issues a new session token.
// A login is rejected while the user still has a live unexpired session
// (duplicate-session rule). Returns a copy of the user on success.
func (s *State) Authenticate(username, password string) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.usersByName[username]
	if !ok {
		return model.User{}, false
	}
	user := s.users[id]

	if !user.VerifyPassword(password) {
		return model.User{}, false
	}

	if user.SessionToken != "" && !user.SessionExpired(time.Now(), s.cfg.SessionTimeout) {
		return model.User{}, false
	}

	user.IssueSessionToken()
	return *user, true
}

// UserBySession resolves a live session token to its user, stamping activity.
func (s *State) UserBySession(token string) (model.User, bool) {
	if token == "" {
		return model.User{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, user := range s.users {
		if user.SessionToken == token && !user.SessionExpired(now, s.cfg.SessionTimeout) {
			user.TouchActivity()
			return *user, true
		}
	}
	return model.User{}, false
}

// User returns a copy of the user with the given id.
func (s *State) User(userID uint32) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return model.User{}, false
	}
	return *user, true
}

// Balance returns the user's current balance.
func (s *State) Balance(userID uint32) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return 0, false
	}
	return user.Balance, true
}

// SetBalance overwrites a user's balance. Test hook.
func (s *State) SetBalance(userID uint32, balance int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[userID]; ok {
		user.Balance = balance
	}
}

// JoinRoom moves the user into the target room, leaving any previous room
// first. Returns the room's player count and jackpot pool on success.
// A full or missing room fails without altering state.
func (s *State) JoinRoom(userID, roomID uint32) (int, int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return 0, 0, false
	}
	room, ok := s.rooms[roomID]
	if !ok {
		return 0, 0, false
	}
	if user.CurrentRoom != roomID && len(room.Players) >= room.MaxCapacity {
		return 0, 0, false
	}

	s.leaveRoomLocked(user)

	if !room.AddPlayer(userID) {
		return 0, 0, false
	}
	user.CurrentRoom = roomID
	return room.PlayerCount(), room.JackpotPool, true
}

// LeaveRoom removes the user from their current room. Idempotent.
func (s *State) LeaveRoom(userID uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[userID]; ok {
		s.leaveRoomLocked(user)
	}
}

func (s *State) leaveRoomLocked(user *model.User) {
	if user.CurrentRoom == 0 {
		return
	}
	if room, ok := s.rooms[user.CurrentRoom]; ok {
		room.RemovePlayer(user.ID)
	}
	user.CurrentRoom = 0
}

// RoomInfo returns a room's player count and jackpot pool.
func (s *State) RoomInfo(roomID uint32) (int, int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return 0, 0, false
	}
	return room.PlayerCount(), room.JackpotPool, true
}

// BindConnection associates a connection with a logged-in user.
func (s *State) BindConnection(connID uint64, userID uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connUser[connID] = userID
	s.userConn[userID] = connID
}

// UnbindConnection removes the connection pair, takes the user out of their
// room and invalidates the session token. A disconnect always ends the
// session.
func (s *State) UnbindConnection(connID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.connUser[connID]
	if !ok {
		return
	}
	delete(s.connUser, connID)
	if s.userConn[userID] == connID {
		delete(s.userConn, userID)
	}

	user, ok := s.users[userID]
	if !ok {
		return
	}
	s.leaveRoomLocked(user)
	user.SessionToken = ""
}

// UserByConnection resolves a bound connection to a copy of its user.
func (s *State) UserByConnection(connID uint64) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.connUser[connID]
	if !ok {
		return model.User{}, false
	}
	user, ok := s.users[userID]
	if !ok {
		return model.User{}, false
	}
	return *user, true
}

// createRoundLocked starts a fresh BETTING round for the user, or returns the
// existing one. Requires the user to be in a room. Caller holds s.mu.
func (s *State) createRoundLocked(userID uint32) *model.Round {
	user, ok := s.users[userID]
	if !ok || user.CurrentRoom == 0 {
		return nil
	}

	for _, round := range s.rounds {
		if round.UserID == userID && round.Status == model.Betting {
			return round
		}
	}

	round := model.NewRound(userID, user.CurrentRoom)
	s.rounds[round.ID] = round
	return round
}

// CleanupExpiredSessions clears the tokens of all users past the inactivity
// timeout and removes them from their rooms. Returns the number of sessions
// swept.
func (s *State) CleanupExpiredSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	swept := 0
	for _, user := range s.users {
		if user.SessionToken == "" || !user.SessionExpired(now, s.cfg.SessionTimeout) {
			continue
		}
		user.SessionToken = ""
		s.leaveRoomLocked(user)
		swept++
		slog.Info("session expired", "user", user.Username)
	}
	return swept
}
