package model

import "time"

// Room is a fixed-capacity table with a running jackpot pool.
type Room struct {
	ID           uint32
	Name         string
	MaxCapacity  int
	Players      map[uint32]struct{}
	JackpotPool  int64
	CreatedAt    time.Time
	LastActivity time.Time
}

// NewRoom creates an empty room.
func NewRoom(id uint32, name string, capacity int) *Room {
	now := time.Now()
	return &Room{
		ID:           id,
		Name:         name,
		MaxCapacity:  capacity,
		Players:      make(map[uint32]struct{}),
		CreatedAt:    now,
		LastActivity: now,
	}
}

// AddPlayer admits a player unless the room is full.
func (r *Room) AddPlayer(userID uint32) bool {
	if len(r.Players) >= r.MaxCapacity {
		return false
	}
	r.Players[userID] = struct{}{}
	r.LastActivity = time.Now()
	return true
}

// RemovePlayer is idempotent.
func (r *Room) RemovePlayer(userID uint32) {
	delete(r.Players, userID)
	r.LastActivity = time.Now()
}

// PlayerCount returns the number of players currently in the room.
func (r *Room) PlayerCount() int {
	return len(r.Players)
}
