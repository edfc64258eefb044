package types

import "encoding/binary"

const (
	// ModuleName is the codespace of the match registry.
	ModuleName = "janken"

	// BankModuleName is the codespace of the custody ledger.
	BankModuleName = "bank"

	// TokenModuleName is the codespace of the fungible token.
	TokenModuleName = "token"

	// AuthModuleName is the codespace of signed envelopes and accounts.
	AuthModuleName = "auth"

	// CustodyAddress is the token account holding every deposited unit.
	CustodyAddress = "janken.bank"

	// DefaultContext names the registry bound to the ledger at genesis.
	DefaultContext = "janken"
)

var (
	// StateKey stores the JSON encoded application state.
	StateKey = []byte{0x01}

	// HeightKey stores the last committed height as big-endian u64.
	HeightKey = []byte{0x02}

	// MatchKeyPrefix indexes the committed match snapshots:
	// MatchKeyPrefix || context || 0x00 || u64be(matchID).
	MatchKeyPrefix = []byte{0x03}
)

func MatchKey(context string, matchID uint64) []byte {
	bz := make([]byte, 0, 1+len(context)+1+8)
	bz = append(bz, MatchKeyPrefix[0])
	bz = append(bz, context...)
	bz = append(bz, 0)
	return binary.BigEndian.AppendUint64(bz, matchID)
}

// IsReservedAccount reports whether addr names a module account. No key may
// register or sign for one.
func IsReservedAccount(addr string) bool {
	switch addr {
	case CustodyAddress, ModuleName, BankModuleName, TokenModuleName, AuthModuleName:
		return true
	}
	return false
}
