package model

// RoundStatus is the observable state of a user's round. The numeric values
// are sent on the wire in snapshot responses.
type RoundStatus uint8

const (
	NoActiveRound   RoundStatus = 0
	Betting         RoundStatus = 1
	AwaitingResults RoundStatus = 2
)

func (s RoundStatus) String() string {
	switch s {
	case NoActiveRound:
		return "NO_ACTIVE_ROUND"
	case Betting:
		return "BETTING"
	case AwaitingResults:
		return "AWAITING_RESULTS"
	default:
		return "UNKNOWN"
	}
}
