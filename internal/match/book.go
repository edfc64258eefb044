package match

import (
	errorsmod "cosmossdk.io/errors"

	"onchainjanken/internal/janken"
	"onchainjanken/internal/ledger"
	"onchainjanken/internal/types"
)

func (r *Registry) Settlement(id uint64) (ledger.Settlement, error) {
	m, err := r.get(id)
	if err != nil {
		return ledger.Settlement{}, err
	}
	return ledger.Settlement{
		MatchID:       m.ID,
		Status:        m.Status,
		Host:          m.Host,
		Guest:         m.Guest,
		Winner:        m.Winner,
		Loser:         m.Loser,
		Bet:           m.BetAmount,
		HostRefunded:  m.HostRefunded,
		GuestRefunded: m.GuestRefunded,
	}, nil
}

func (r *Registry) MarkPaid(id uint64) error {
	m, err := r.get(id)
	if err != nil {
		return err
	}
	if err := requireStatus(m, janken.Decided); err != nil {
		return err
	}
	r.setPaid(m)
	return nil
}

func (r *Registry) MarkRefunded(id uint64, user string) (bool, error) {
	m, err := r.get(id)
	if err != nil {
		return false, err
	}
	if err := requireStatus(m, janken.Tied); err != nil {
		return false, err
	}
	switch {
	case user != "" && user == m.Host:
		if m.HostRefunded {
			return false, types.ErrAlreadyRefunded
		}
		m.HostRefunded = true
	case user != "" && user == m.Guest:
		if m.GuestRefunded {
			return false, types.ErrAlreadyRefunded
		}
		m.GuestRefunded = true
	default:
		return false, errorsmod.Wrapf(types.ErrNotParticipant, "%s", user)
	}
	if !m.HostRefunded || !m.GuestRefunded {
		return false, nil
	}
	r.setPaid(m)
	return true, nil
}

func (r *Registry) setPaid(m *Match) {
	m.Status = janken.Paid
	m.PaidAt = r.nowUnix
	r.emit(types.EventTypeMatchPaid, m, nil)
}
