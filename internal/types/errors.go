package types

import errorsmod "cosmossdk.io/errors"

// Registry sentinel errors.
var (
	ErrInvalidRequest     = errorsmod.Register(ModuleName, 2, "invalid request")
	ErrMatchNotFound      = errorsmod.Register(ModuleName, 3, "match not found")
	ErrHostNotAuthorized  = errorsmod.Register(ModuleName, 4, "host of this game is not authorized")
	ErrNotHost            = errorsmod.Register(ModuleName, 5, "only host of this game is authorized")
	ErrNotGuest           = errorsmod.Register(ModuleName, 6, "only guest of this game is authorized")
	ErrStatusInvalid      = errorsmod.Register(ModuleName, 7, "status is invalid")
	ErrBelowMinimumBet    = errorsmod.Register(ModuleName, 8, "bet is below the minimum")
	ErrCommitmentMismatch = errorsmod.Register(ModuleName, 9, "cannot change hand or salt later out")
	ErrTimeoutNotElapsed  = errorsmod.Register(ModuleName, 10, "timeout has not elapsed")
	ErrTimeoutElapsed     = errorsmod.Register(ModuleName, 11, "reveal window has closed")
	ErrInvalidMove        = errorsmod.Register(ModuleName, 12, "invalid move")
	ErrInvalidCommitment  = errorsmod.Register(ModuleName, 13, "invalid commitment")
	ErrUnauthorized       = errorsmod.Register(ModuleName, 14, "Caller is not a admin")
	ErrInvalidParams      = errorsmod.Register(ModuleName, 15, "invalid params")
	ErrSelfJoin           = errorsmod.Register(ModuleName, 16, "host cannot join own match")
)

// Ledger sentinel errors.
var (
	ErrInsufficientDeposit = errorsmod.Register(BankModuleName, 2, "Insufficient token deposited in GameBank")
	ErrNotWinner           = errorsmod.Register(BankModuleName, 3, "caller is not the winner")
	ErrNotParticipant      = errorsmod.Register(BankModuleName, 4, "caller is not a participant")
	ErrAlreadyRefunded     = errorsmod.Register(BankModuleName, 5, "refund already claimed")
	ErrStakeMismatch       = errorsmod.Register(BankModuleName, 6, "locked stakes do not match")
	ErrUnknownContext      = errorsmod.Register(BankModuleName, 7, "unknown game context")
	ErrContextBound        = errorsmod.Register(BankModuleName, 8, "game context already bound")
	ErrNotSettleable       = errorsmod.Register(BankModuleName, 9, "match is not settleable")
)

// Token sentinel errors.
var (
	ErrInsufficientBalance   = errorsmod.Register(TokenModuleName, 2, "ERC20: transfer amount exceeds balance")
	ErrInsufficientAllowance = errorsmod.Register(TokenModuleName, 3, "ERC20: transfer amount exceeds allowance")
	ErrNotTokenAdmin         = errorsmod.Register(TokenModuleName, 4, "Caller is not a admin")
	ErrInvalidAmount         = errorsmod.Register(TokenModuleName, 5, "invalid amount")
	ErrInvalidAddress        = errorsmod.Register(TokenModuleName, 6, "invalid address")
	ErrOverflow              = errorsmod.Register(TokenModuleName, 7, "arithmetic overflow")
)

// Envelope and account sentinel errors.
var (
	ErrInvalidSignature = errorsmod.Register(AuthModuleName, 2, "invalid signature")
	ErrReplayedNonce    = errorsmod.Register(AuthModuleName, 3, "replayed tx.nonce")
	ErrUnknownAccount   = errorsmod.Register(AuthModuleName, 4, "unknown account")
	ErrInvalidTx        = errorsmod.Register(AuthModuleName, 5, "invalid tx")
	ErrUnknownTxType    = errorsmod.Register(AuthModuleName, 6, "unknown tx type")
	ErrReservedAccount  = errorsmod.Register(AuthModuleName, 7, "reserved module account")
)
