package state

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"

	dbm "github.com/cosmos/cosmos-db"

	"onchainjanken/internal/ledger"
	"onchainjanken/internal/match"
	"onchainjanken/internal/token"
	"onchainjanken/internal/types"
)

type State struct {
	Height    int64 `json:"height"`
	BlockTime int64 `json:"blockTime"`

	AccountKeys map[string][]byte `json:"accountKeys,omitempty"` // addr -> ed25519 pubkey (32 bytes)
	NonceMax    map[string]uint64 `json:"nonceMax,omitempty"`    // signer -> last accepted tx.nonce, for replay protection

	Token          *token.State            `json:"token"`
	Bank           *ledger.State           `json:"bank"`
	Registries     map[string]*match.State `json:"registries"`
	DefaultContext string                  `json:"defaultContext"`
}

// Genesis seeds a fresh chain.
type Genesis struct {
	Admin          string            `json:"admin"`
	AdminPubKey    []byte            `json:"adminPubKey"`        // ed25519, 32 bytes
	Accounts       map[string][]byte `json:"accounts,omitempty"` // pre-registered ed25519 keys
	Context        string            `json:"context"`
	MinBet         uint64            `json:"minBet"`
	TimeoutSecs    uint64            `json:"timeoutSecs"`
	TokenName      string            `json:"tokenName"`
	TokenSymbol    string            `json:"tokenSymbol"`
	ExtraContexts  []string          `json:"extraContexts,omitempty"`
	InitialBalance map[string]uint64 `json:"initialBalance,omitempty"`
}

func DefaultGenesis(admin string, adminPubKey []byte) Genesis {
	return Genesis{
		Admin:       admin,
		AdminPubKey: adminPubKey,
		Context:     types.DefaultContext,
		MinBet:      match.DefaultMinBet,
		TimeoutSecs: match.DefaultTimeoutSecs,
		TokenName:   "JankenToken",
		TokenSymbol: "JKT",
	}
}

func NewState(g Genesis) (*State, error) {
	if g.Context == "" {
		g.Context = types.DefaultContext
	}
	params := match.Params{MinBet: g.MinBet, TimeoutSecs: g.TimeoutSecs, Admin: g.Admin}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}

	tok := token.NewState(g.Admin, g.TokenName, g.TokenSymbol)
	for addr, amt := range g.InitialBalance {
		if addr == "" || amt == 0 {
			continue
		}
		supply, err := types.AddUint64Checked(tok.Supply, amt, "genesis supply")
		if err != nil {
			return nil, fmt.Errorf("genesis: %w", err)
		}
		tok.Supply = supply
		tok.Balances[addr] = amt
	}

	st := &State{
		AccountKeys:    map[string][]byte{},
		NonceMax:       map[string]uint64{},
		Token:          tok,
		Bank:           ledger.NewState(),
		Registries:     map[string]*match.State{},
		DefaultContext: g.Context,
	}
	if err := seedAccounts(st, g); err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}
	st.Registries[g.Context] = match.NewState(g.Context, params)
	for _, ctx := range g.ExtraContexts {
		if ctx == "" {
			return nil, fmt.Errorf("genesis: empty context")
		}
		if _, dup := st.Registries[ctx]; dup {
			return nil, fmt.Errorf("genesis: duplicate context %q", ctx)
		}
		st.Registries[ctx] = match.NewState(ctx, params)
	}
	return st, nil
}

// seedAccounts registers the genesis keys, the admin's first, so that no one
// can claim the admin name with a key of their own.
func seedAccounts(st *State, g Genesis) error {
	if types.IsReservedAccount(g.Admin) {
		return fmt.Errorf("admin %q is a module account", g.Admin)
	}
	if len(g.AdminPubKey) != ed25519.PublicKeySize {
		return fmt.Errorf("adminPubKey must be %d bytes, got %d", ed25519.PublicKeySize, len(g.AdminPubKey))
	}
	st.AccountKeys[g.Admin] = append([]byte(nil), g.AdminPubKey...)
	for addr, pub := range g.Accounts {
		if addr == "" || types.IsReservedAccount(addr) {
			return fmt.Errorf("account %q cannot be registered", addr)
		}
		if len(pub) != ed25519.PublicKeySize {
			return fmt.Errorf("account %q: pubKey must be %d bytes", addr, ed25519.PublicKeySize)
		}
		if addr == g.Admin && !bytes.Equal(pub, g.AdminPubKey) {
			return fmt.Errorf("account %q conflicts with adminPubKey", addr)
		}
		st.AccountKeys[addr] = append([]byte(nil), pub...)
	}
	return nil
}

// Normalize fills nil maps and sub-states after decoding.
func (s *State) Normalize() {
	if s.AccountKeys == nil {
		s.AccountKeys = map[string][]byte{}
	}
	if s.NonceMax == nil {
		s.NonceMax = map[string]uint64{}
	}
	if s.Token == nil {
		s.Token = token.NewState("", "", "")
	}
	s.Token.Normalize()
	if s.Bank == nil {
		s.Bank = ledger.NewState()
	}
	s.Bank.Normalize()
	if s.Registries == nil {
		s.Registries = map[string]*match.State{}
	}
	for _, r := range s.Registries {
		r.Normalize()
	}
	if s.DefaultContext == "" {
		s.DefaultContext = types.DefaultContext
	}
}

// Contexts returns registry contexts in sorted order.
func (s *State) Contexts() []string {
	out := make([]string, 0, len(s.Registries))
	for ctx := range s.Registries {
		out = append(out, ctx)
	}
	sort.Strings(out)
	return out
}

// Load reads the last committed state. found is false on an empty db.
func Load(db dbm.DB) (st *State, found bool, err error) {
	b, err := db.Get(types.StateKey)
	if err != nil {
		return nil, false, fmt.Errorf("read state: %w", err)
	}
	if b == nil {
		return nil, false, nil
	}
	var out State
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, false, fmt.Errorf("decode state: %w", err)
	}
	out.Normalize()
	return &out, true, nil
}

// Save writes the state blob, the height and one snapshot per match in a
// single synced batch.
func (s *State) Save(db dbm.DB) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	batch := db.NewBatch()
	defer batch.Close()

	if err := batch.Set(types.StateKey, b); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	var h [8]byte
	binary.BigEndian.PutUint64(h[:], uint64(s.Height))
	if err := batch.Set(types.HeightKey, h[:]); err != nil {
		return fmt.Errorf("write height: %w", err)
	}
	for _, ctx := range s.Contexts() {
		for id, m := range s.Registries[ctx].Matches {
			mb, err := json.Marshal(m)
			if err != nil {
				return fmt.Errorf("encode match %s/%d: %w", ctx, id, err)
			}
			if err := batch.Set(types.MatchKey(ctx, id), mb); err != nil {
				return fmt.Errorf("write match %s/%d: %w", ctx, id, err)
			}
		}
	}
	if err := batch.WriteSync(); err != nil {
		return fmt.Errorf("commit state: %w", err)
	}
	return nil
}

// Clone returns a deep copy of state suitable for staged tx execution.
func (s *State) Clone() (*State, error) {
	if s == nil {
		return nil, fmt.Errorf("state is nil")
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode state clone: %w", err)
	}
	var out State
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode state clone: %w", err)
	}
	out.Normalize()
	return &out, nil
}

// AppHash is sha256 over the JSON encoding. encoding/json writes map keys in
// sorted order, so the bytes do not depend on map iteration.
func (s *State) AppHash() []byte {
	b, _ := json.Marshal(s)
	sum := sha256.Sum256(b)
	return sum[:]
}
