package txscript

// lockTimeThreshold is the number below which a lock time is
// interpreted as a block height and above (or equal to) which it is
// interpreted as a Unix timestamp, matching Bitcoin Core's
// LOCKTIME_THRESHOLD (1985-11-05 00:53:20 UTC).
const lockTimeThreshold = 500000000

// sequenceLockTimeDisabled, when set on an input's nSequence, indicates
// relative locktime is not enforced for that input (BIP68).
const sequenceLockTimeDisabled = 1 << 31

// sequenceLockTimeIsSeconds, when set, indicates the relative locktime
// field of nSequence is to be interpreted as a multiple of 512 seconds,
// otherwise it is interpreted as a block count.
const sequenceLockTimeIsSeconds = 1 << 22

// sequenceLockTimeMask extracts the relative locktime value.
const sequenceLockTimeMask = 0x0000ffff

// opcodeCheckLockTimeVerify implements OP_CHECKLOCKTIMEVERIFY (BIP65):
// the top stack item is a requested locktime that must be satisfied by
// the spending transaction's nLockTime, per §4.4.
func opcodeCheckLockTimeVerify(op *parsedOpcode, vm *Engine) error {
	if !vm.hasFlag(ScriptVerifyCheckLockTimeVerify) {
		return opcodeNop(op, vm)
	}

	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}

	lockTime, err := makeScriptNum(so, vm.dstack.verifyMinimalData, 5)
	if err != nil {
		return err
	}

	if lockTime < 0 {
		return scriptError(ErrNegativeLockTime, "negative lock time")
	}

	txLockTime := vm.checker.TxLockTime()

	if !((lockTime < lockTimeThreshold && txLockTime < lockTimeThreshold) ||
		(lockTime >= lockTimeThreshold && txLockTime >= lockTimeThreshold)) {
		return scriptError(ErrUnsatisfiedLockTime, "mismatched locktime types")
	}

	if int64(lockTime) > txLockTime {
		return scriptError(ErrUnsatisfiedLockTime, "locktime requirement not satisfied")
	}

	if vm.checker.TxSequence() == 0xffffffff {
		return scriptError(ErrUnsatisfiedLockTime, "transaction input is finalized")
	}

	return nil
}

// opcodeCheckSequenceVerify implements OP_CHECKSEQUENCEVERIFY (BIP112):
// the top stack item is a requested relative locktime that must be
// satisfied by the spending input's nSequence.
func opcodeCheckSequenceVerify(op *parsedOpcode, vm *Engine) error {
	if !vm.hasFlag(ScriptVerifyCheckSequenceVerify) {
		return opcodeNop(op, vm)
	}

	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}

	sequence, err := makeScriptNum(so, vm.dstack.verifyMinimalData, 5)
	if err != nil {
		return err
	}

	if sequence < 0 {
		return scriptError(ErrNegativeLockTime, "negative sequence")
	}

	if sequence&sequenceLockTimeDisabled != 0 {
		return nil
	}

	if vm.checker.TxVersion() < 2 {
		return scriptError(ErrUnsatisfiedLockTime, "transaction version too low for sequence locks")
	}

	txSequence := int64(vm.checker.TxSequence())
	if txSequence&sequenceLockTimeDisabled != 0 {
		return scriptError(ErrUnsatisfiedLockTime, "transaction sequence has disable bit set")
	}

	if int64(sequence)&sequenceLockTimeIsSeconds != txSequence&sequenceLockTimeIsSeconds {
		return scriptError(ErrUnsatisfiedLockTime, "mismatched relative locktime types")
	}

	if int64(sequence)&sequenceLockTimeMask > txSequence&sequenceLockTimeMask {
		return scriptError(ErrUnsatisfiedLockTime, "relative locktime requirement not satisfied")
	}

	return nil
}
