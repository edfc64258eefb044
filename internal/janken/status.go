package janken

import "fmt"

// Status is the lifecycle position of a match.
type Status uint8

const (
	Created Status = iota
	Joined
	Decided
	Tied
	Paid
	Canceled
)

var statusNames = [...]string{"Created", "Joined", "Decided", "Tied", "Paid", "Canceled"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Terminal reports whether no further transition can leave s.
func (s Status) Terminal() bool { return s == Paid || s == Canceled }

func ParseStatus(v string) (Status, error) {
	for i, n := range statusNames {
		if n == v {
			return Status(i), nil
		}
	}
	return Created, fmt.Errorf("unknown status %q", v)
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
