package token

// State is the ledger of the fungible token used for wagers.
type State struct {
	Admin      string                       `json:"admin"`
	Name       string                       `json:"name"`
	Symbol     string                       `json:"symbol"`
	Supply     uint64                       `json:"supply"`
	Balances   map[string]uint64            `json:"balances"`
	Allowances map[string]map[string]uint64 `json:"allowances"` // owner -> spender -> amount
}

func NewState(admin, name, symbol string) *State {
	return &State{
		Admin:      admin,
		Name:       name,
		Symbol:     symbol,
		Balances:   map[string]uint64{},
		Allowances: map[string]map[string]uint64{},
	}
}

// Normalize fills nil maps after decoding.
func (s *State) Normalize() {
	if s.Balances == nil {
		s.Balances = map[string]uint64{}
	}
	if s.Allowances == nil {
		s.Allowances = map[string]map[string]uint64{}
	}
}
