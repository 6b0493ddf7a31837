package game

import (
	"crypto/rand"
	"math/big"
)

// DiceRoller produces one dice outcome per call. Injectable so tests can fix
// the result.
type DiceRoller interface {
	Roll() int
}

// CryptoRoller draws uniform dice faces from the operating system's CSPRNG.
type CryptoRoller struct{}

// Roll returns a uniform value in 1..6.
func (CryptoRoller) Roll() int {
	n, err := rand.Int(rand.Reader, big.NewInt(6))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// there is no meaningful recovery for a dice server at that point.
		panic("dice roll: " + err.Error())
	}
	return int(n.Int64()) + 1
}
