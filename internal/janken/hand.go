package janken

import (
	"fmt"
	"strings"
)

// Move is a hand shape. The numeric values are part of the commitment
// preimage and must never change.
type Move uint8

const (
	Rock     Move = 0
	Paper    Move = 1
	Scissors Move = 2

	// None marks a move that has not been played or revealed yet.
	None Move = 255
)

func (m Move) Valid() bool { return m <= Scissors }

func (m Move) String() string {
	switch m {
	case Rock:
		return "rock"
	case Paper:
		return "paper"
	case Scissors:
		return "scissors"
	case None:
		return "none"
	default:
		return fmt.Sprintf("move(%d)", uint8(m))
	}
}

// ParseMove accepts the lower-case names and the decimal wire values.
func ParseMove(s string) (Move, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rock", "0":
		return Rock, nil
	case "paper", "1":
		return Paper, nil
	case "scissors", "2":
		return Scissors, nil
	case "none", "255", "":
		return None, nil
	default:
		return None, fmt.Errorf("unknown move %q", s)
	}
}

func (m Move) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Move) UnmarshalText(b []byte) error {
	v, err := ParseMove(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Beats reports whether m defeats other. Moves outside the game beat nothing.
func (m Move) Beats(other Move) bool {
	if !m.Valid() || !other.Valid() {
		return false
	}
	return (m == Rock && other == Scissors) ||
		(m == Scissors && other == Paper) ||
		(m == Paper && other == Rock)
}

type Outcome uint8

const (
	Tie Outcome = iota
	HostWins
	GuestWins
)

func (o Outcome) String() string {
	switch o {
	case Tie:
		return "tie"
	case HostWins:
		return "host"
	case GuestWins:
		return "guest"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// Judge compares two valid moves.
func Judge(host, guest Move) (Outcome, error) {
	if !host.Valid() || !guest.Valid() {
		return Tie, fmt.Errorf("cannot judge %s against %s", host, guest)
	}
	switch {
	case host == guest:
		return Tie, nil
	case host.Beats(guest):
		return HostWins, nil
	default:
		return GuestWins, nil
	}
}
