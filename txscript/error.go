package txscript

import "github.com/massveil/btcscript/scripterr"

// Error codes for every terminal verdict the interpreter can produce.
// These mirror the taxonomy used by the address codecs: a fixed,
// comparable code plus a human description, never a bare error string.
const (
	ErrInvalidStackOperation    = "InvalidStackOperation"
	ErrInvalidAltStackOperation = "InvalidAltStackOperation"
	ErrDisabledOpcode           = "DisabledOpcode"
	ErrUnbalancedConditional    = "UnbalancedConditional"
	ErrVerifyFailed             = "VerifyFailed"
	ErrReturnExecuted           = "ReturnExecuted"
	ErrNumEqualVerifyFailed     = "NumEqualVerifyFailed"
	ErrCheckSigVerifyFailed     = "CheckSigVerifyFailed"
	ErrCheckMultiSigVerifyFailed = "CheckMultiSigVerifyFailed"
	ErrPushSize                 = "PushSize"
	ErrScriptSize               = "ScriptSize"
	ErrOpCount                  = "OpCount"
	ErrStackSize                = "StackSize"
	ErrSigCount                 = "SigCount"
	ErrPubKeyCount              = "PubKeyCount"
	ErrMinimalData              = "MinimalData"
	ErrNumberTooBig             = "NumberTooBig"
	ErrNegativeLockTime         = "NegativeLockTime"
	ErrUnsatisfiedLockTime      = "UnsatisfiedLockTime"
	ErrSigHighS                 = "SigHighS"
	ErrSigDer                   = "SigDer"
	ErrPubKeyType               = "PubKeyType"
	ErrSigNullDummy             = "SigNullDummy"
	ErrDiscourageUpgradableNops = "DiscourageUpgradableNops"
	ErrDiscourageUpgradableWitnessProgram = "DiscourageUpgradableWitnessProgram"
	ErrWitnessMalleated         = "WitnessMalleated"
	ErrWitnessProgramWrongLength = "WitnessProgramWrongLength"
	ErrWitnessProgramWitnessEmpty = "WitnessProgramWitnessEmpty"
	ErrWitnessProgramMismatch   = "WitnessProgramMismatch"
	ErrBadOpcode                = "BadOpcode"
	ErrScriptUnfinished         = "ScriptUnfinished"
	ErrScriptFailed             = "ScriptFailed"
	ErrCleanStack               = "CleanStack"
	ErrEmptyStack               = "EmptyStack"
	ErrInvalidIndex             = "InvalidIndex"
	ErrReservedOpcode           = "ReservedOpcode"
)

// scriptError builds a *scripterr.Error for the given code.
func scriptError(code, description string) *scripterr.Error {
	return scripterr.New(code, description)
}
