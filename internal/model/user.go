package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is a registered player. Balance is in minor units and never negative.
// CurrentRoom is 0 while the user is not in a room; SessionToken is empty
// while the user has no live session.
type User struct {
	ID           uint32
	Username     string
	PasswordHash []byte
	Balance      int64
	SessionToken string
	LastActivity time.Time
	CurrentRoom  uint32
	CreatedAt    time.Time
}

// NewUser creates a user with a freshly hashed password.
// cost is the bcrypt work factor; tests pass bcrypt.MinCost.
func NewUser(id uint32, username, password string, balance int64, cost int) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password for %s: %w", username, err)
	}
	now := time.Now()
	return &User{
		ID:           id,
		Username:     username,
		PasswordHash: hash,
		Balance:      balance,
		LastActivity: now,
		CreatedAt:    now,
	}, nil
}

// VerifyPassword checks password against the stored hash in constant time.
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) == nil
}

// IssueSessionToken replaces the session token with a fresh one and stamps
// activity. The token is an opaque uuid4 string (122 bits of entropy).
func (u *User) IssueSessionToken() string {
	u.SessionToken = uuid.NewString()
	u.LastActivity = time.Now()
	return u.SessionToken
}

// TouchActivity stamps the inactivity clock.
func (u *User) TouchActivity() {
	u.LastActivity = time.Now()
}

// SessionExpired reports whether the session is past the inactivity timeout.
// A user without a token counts as expired.
func (u *User) SessionExpired(now time.Time, timeout time.Duration) bool {
	if u.SessionToken == "" {
		return true
	}
	return now.Sub(u.LastActivity) > timeout
}
