package ledger

// State is the custody accounting of every bound context.
type State struct {
	Deposits map[string]map[string]uint64            `json:"deposits"` // context -> user -> spendable amount
	Stakes   map[string]map[uint64]map[string]uint64 `json:"stakes"`   // context -> matchID -> user -> locked amount
	Custody  map[string]uint64                       `json:"custody"`  // context -> tokens held on its behalf
}

func NewState() *State {
	return &State{
		Deposits: map[string]map[string]uint64{},
		Stakes:   map[string]map[uint64]map[string]uint64{},
		Custody:  map[string]uint64{},
	}
}

// Normalize fills nil maps after decoding.
func (s *State) Normalize() {
	if s.Deposits == nil {
		s.Deposits = map[string]map[string]uint64{}
	}
	if s.Stakes == nil {
		s.Stakes = map[string]map[uint64]map[string]uint64{}
	}
	if s.Custody == nil {
		s.Custody = map[string]uint64{}
	}
}

func (s *State) deposit(context, user string) uint64 {
	return s.Deposits[context][user]
}

func (s *State) setDeposit(context, user string, v uint64) {
	m := s.Deposits[context]
	if v == 0 {
		if m != nil {
			delete(m, user)
			if len(m) == 0 {
				delete(s.Deposits, context)
			}
		}
		return
	}
	if m == nil {
		m = map[string]uint64{}
		s.Deposits[context] = m
	}
	m[user] = v
}

func (s *State) stake(context string, matchID uint64, user string) uint64 {
	return s.Stakes[context][matchID][user]
}

func (s *State) setStake(context string, matchID uint64, user string, v uint64) {
	byMatch := s.Stakes[context]
	if v == 0 {
		if byMatch == nil || byMatch[matchID] == nil {
			return
		}
		delete(byMatch[matchID], user)
		if len(byMatch[matchID]) == 0 {
			delete(byMatch, matchID)
		}
		if len(byMatch) == 0 {
			delete(s.Stakes, context)
		}
		return
	}
	if byMatch == nil {
		byMatch = map[uint64]map[string]uint64{}
		s.Stakes[context] = byMatch
	}
	if byMatch[matchID] == nil {
		byMatch[matchID] = map[string]uint64{}
	}
	byMatch[matchID][user] = v
}

func (s *State) setCustody(context string, v uint64) {
	if v == 0 {
		delete(s.Custody, context)
		return
	}
	s.Custody[context] = v
}
