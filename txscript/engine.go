package txscript

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/massveil/btcscript/logging"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ripemd160"
)

// halfOrder is used to tame ECDSA malleability per BIP0062: a valid low-S
// signature's S value must not exceed half the curve order.
var halfOrder = new(big.Int).SetBytes([]byte{
	0x7f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0x5d, 0x57, 0x6e, 0x73, 0x57, 0xa4, 0x50, 0x1d,
	0xdf, 0xe9, 0x2f, 0x46, 0x68, 0x1b, 0x20, 0xa0,
})

// Conditional stack entries — the states tracked in the `conditional`
// field of §3's ScriptProgram.
const (
	opCondFalse = 0
	opCondTrue  = 1
	opCondSkip  = 2
)

// maxStackSize is the maximum combined number of items allowed on the
// data and alt stacks (§5).
const maxStackSize = 1000

// MaxOpsPerScript is the maximum number of non-push operations allowed
// in a single script (§5).
const MaxOpsPerScript = 201

// MaxPubKeysPerMultiSig is the maximum number of public keys allowed in
// a single OP_CHECKMULTISIG (§5).
const MaxPubKeysPerMultiSig = 20

// Engine is the virtual machine that executes scripts, implementing the
// control loop of §4.1 over the ScriptProgram state of §3.
type Engine struct {
	scripts         [][]parsedOpcode
	scriptIdx       int
	scriptOff       int
	lastCodeSep     int
	dstack          stack
	astack          stack
	condStack       []int8
	numOps          int
	flags           ScriptFlags
	sigCache        *SigCache
	verifier        SigVerifier
	checker         SigChecker
	bip16           bool
	savedFirstStack [][]byte
	witnessVersion  int
	witnessProgram  []byte
	witness         [][]byte
	inputAmount     int64
}

// hasFlag returns whether the script engine instance has the passed flag
// set.
func (vm *Engine) hasFlag(flag ScriptFlags) bool {
	return vm.flags&flag == flag
}

// isBranchExecuting returns whether or not the current conditional
// branch is actively executing, properly handling nested conditionals.
func (vm *Engine) isBranchExecuting() bool {
	if len(vm.condStack) == 0 {
		return true
	}
	return vm.condStack[len(vm.condStack)-1] == opCondTrue
}

// executeOpcode performs execution on the passed opcode, taking into
// account whether or not it is hidden by conditionals, but some rules
// still must be tested in this case (§4.1 steps 2–6).
func (vm *Engine) executeOpcode(pop *parsedOpcode) error {
	if pop.isDisabled() {
		return scriptError(ErrDisabledOpcode, pop.opcode.name+" is a disabled opcode")
	}
	if pop.alwaysIllegal() {
		return scriptError(ErrReservedOpcode, pop.opcode.name+" is always illegal")
	}

	// Note that this includes OP_RESERVED which counts as a push
	// operation.
	if pop.opcode.value > OP_16 {
		vm.numOps++
		if vm.numOps > MaxOpsPerScript {
			return scriptError(ErrOpCount, "exceeded max operation limit")
		}
	} else if len(pop.data) > MaxScriptElementSize {
		return scriptError(ErrPushSize, "element size exceeds max allowed size")
	}

	if !vm.isBranchExecuting() && !pop.isConditional() {
		return nil
	}

	if vm.dstack.verifyMinimalData && vm.isBranchExecuting() &&
		pop.opcode.value >= 0 && pop.opcode.value <= OP_PUSHDATA4 {
		if err := pop.checkMinimalDataPush(); err != nil {
			return err
		}
	}

	return pop.opcode.opfunc(pop, vm)
}

// disasm is a helper function to produce the output for DisasmPC and
// DisasmScript.
func (vm *Engine) disasm(scriptIdx int, scriptOff int) string {
	return fmt.Sprintf("%02x:%04x: %s", scriptIdx, scriptOff,
		vm.scripts[scriptIdx][scriptOff].print(false))
}

// validPC returns an error if the current script position is not valid
// for execution, nil otherwise.
func (vm *Engine) validPC() error {
	if vm.scriptIdx >= len(vm.scripts) {
		return scriptError(ErrInvalidIndex, fmt.Sprintf(
			"past input scripts %v:%v %v:xxxx", vm.scriptIdx, vm.scriptOff, len(vm.scripts)))
	}
	if vm.scriptOff >= len(vm.scripts[vm.scriptIdx]) {
		return scriptError(ErrInvalidIndex, fmt.Sprintf(
			"past input scripts %v:%v %v:%04d", vm.scriptIdx, vm.scriptOff,
			vm.scriptIdx, len(vm.scripts[vm.scriptIdx])))
	}
	return nil
}

// curPC returns either the current script and offset, or an error if the
// position isn't valid.
func (vm *Engine) curPC() (script int, off int, err error) {
	if err = vm.validPC(); err != nil {
		return 0, 0, err
	}
	return vm.scriptIdx, vm.scriptOff, nil
}

// DisasmPC returns the string for the disassembly of the opcode that
// will be next to execute when Step() is called.
func (vm *Engine) DisasmPC() (string, error) {
	scriptIdx, scriptOff, err := vm.curPC()
	if err != nil {
		return "", err
	}
	return vm.disasm(scriptIdx, scriptOff), nil
}

// DisasmScript returns the disassembly string for the script at the
// requested offset index. Index 0 is the signature script and 1 is the
// public key script.
func (vm *Engine) DisasmScript(idx int) (string, error) {
	if idx >= len(vm.scripts) {
		return "", scriptError(ErrInvalidIndex, "script index out of range")
	}

	var disstr string
	for i := range vm.scripts[idx] {
		disstr = disstr + vm.disasm(idx, i) + "\n"
	}
	return disstr, nil
}

// CheckErrorCondition returns nil if the running script has ended and
// was successful, leaving a true boolean on the stack. An error
// otherwise, including if the script has not finished.
func (vm *Engine) CheckErrorCondition(finalScript bool) error {
	if vm.scriptIdx < len(vm.scripts) {
		return scriptError(ErrScriptUnfinished, "error check when script unfinished")
	}

	if finalScript && vm.hasFlag(ScriptVerifyCleanStack) && vm.dstack.Depth() != 1 {
		return scriptError(ErrCleanStack, "stack contains additional unexpected items")
	} else if vm.dstack.Depth() < 1 {
		return scriptError(ErrEmptyStack, "stack empty at end of script execution")
	}

	v, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}
	if !v {
		dis0, _ := vm.DisasmScript(0)
		dis1, _ := vm.DisasmScript(1)
		logging.CPrint(logging.DEBUG, "script evaluated to false",
			logging.LogFormat{"script0": dis0, "script1": dis1})
		return scriptError(ErrScriptFailed, "false stack entry at end of script execution")
	}
	return nil
}

// Step executes the next instruction and moves the program counter to
// the next opcode in the script, or the next script if the current has
// ended. It returns true when the last opcode of the final script was
// successfully executed.
func (vm *Engine) Step() (done bool, err error) {
	if err = vm.validPC(); err != nil {
		return true, err
	}
	op := &vm.scripts[vm.scriptIdx][vm.scriptOff]
	vm.scriptOff++

	if err = vm.executeOpcode(op); err != nil {
		return true, err
	}

	if vm.dstack.Depth()+vm.astack.Depth() > maxStackSize {
		return false, scriptError(ErrStackSize, "combined stack size exceeds limit")
	}

	if vm.scriptOff < len(vm.scripts[vm.scriptIdx]) {
		return false, nil
	}

	// Illegal to have an `if' that straddles two scripts.
	if len(vm.condStack) != 0 {
		return false, scriptError(ErrUnbalancedConditional, "end of script reached in conditional execution")
	}

	// Alt stack doesn't persist across scripts.
	_ = vm.astack.DropN(vm.astack.Depth())

	vm.numOps = 0
	vm.scriptOff = 0

	switch vm.scriptIdx {
	case 0:
		if vm.bip16 {
			vm.savedFirstStack = vm.GetStack()
		}
		vm.scriptIdx++

	case 1:
		// Advance first so CheckErrorCondition sees the pkScript as
		// finished.
		vm.scriptIdx++
		if vm.bip16 {
			if err := vm.CheckErrorCondition(false); err != nil {
				return false, err
			}

			script := vm.savedFirstStack[len(vm.savedFirstStack)-1]
			pops, err := parseScript(script)
			if err != nil {
				return false, err
			}
			vm.scripts = append(vm.scripts, pops)
			vm.SetStack(vm.savedFirstStack[:len(vm.savedFirstStack)-1])
		} else if vm.witnessProgram != nil {
			if err := vm.verifyWitnessProgram(vm.witness); err != nil {
				return false, err
			}
		}

	default:
		vm.scriptIdx++
	}

	vm.lastCodeSep = 0
	if vm.scriptIdx >= len(vm.scripts) {
		return true, nil
	}
	return false, nil
}

// Execute executes all scripts in the script engine and returns nil for
// successful validation or an error if one occurred.
func (vm *Engine) Execute() error {
	done := false
	for !done {
		var err error
		done, err = vm.Step()
		if err != nil {
			return err
		}
	}
	return vm.CheckErrorCondition(true)
}

// subScript returns the script since the last OP_CODESEPARATOR.
func (vm *Engine) subScript() []parsedOpcode {
	return vm.scripts[vm.scriptIdx][vm.lastCodeSep:]
}

// checkHashTypeEncoding returns whether or not the passed hashtype
// adheres to the strict encoding requirements if enabled.
func (vm *Engine) checkHashTypeEncoding(hashType SigHashType) error {
	if !vm.hasFlag(ScriptVerifyStrictEncoding) {
		return nil
	}
	sigHashType := hashType & ^SigHashAnyOneCanPay
	if sigHashType < SigHashAll || sigHashType > SigHashSingle {
		return scriptError(ErrSigDer, fmt.Sprintf("invalid hash type 0x%x", hashType))
	}
	return nil
}

// checkPubKeyEncoding returns whether or not the passed public key
// adheres to the strict encoding requirements if enabled.
func (vm *Engine) checkPubKeyEncoding(pubKey []byte) error {
	if vm.isWitnessVersionActive(0) && vm.hasFlag(ScriptVerifyWitnessPubKeyType) &&
		!isCompressedPubKey(pubKey) {
		return scriptError(ErrPubKeyType, "only compressed keys are accepted post-segwit")
	}

	if !vm.hasFlag(ScriptVerifyStrictEncoding) {
		return nil
	}

	if len(pubKey) == 33 && (pubKey[0] == 0x02 || pubKey[0] == 0x03) {
		return nil
	}
	if len(pubKey) == 65 && pubKey[0] == 0x04 {
		return nil
	}
	return scriptError(ErrPubKeyType, "unsupported public key type")
}

// isCompressedPubKey reports whether pubKey is a 33-byte compressed
// public key encoding (0x02/0x03 prefix).
func isCompressedPubKey(pubKey []byte) bool {
	return len(pubKey) == 33 && (pubKey[0] == 0x02 || pubKey[0] == 0x03)
}

// checkSignatureEncoding returns whether or not the passed signature
// adheres to the strict DER encoding requirements if enabled, and to the
// low-S requirement (BIP0062) if that flag is set.
func (vm *Engine) checkSignatureEncoding(sig []byte) error {
	if !vm.hasFlag(ScriptVerifyDERSignatures) &&
		!vm.hasFlag(ScriptVerifyLowS) &&
		!vm.hasFlag(ScriptVerifyStrictEncoding) {
		return nil
	}

	if len(sig) < 8 {
		return scriptError(ErrSigDer, "malformed signature: too short")
	}
	if len(sig) > 72 {
		return scriptError(ErrSigDer, "malformed signature: too long")
	}
	if sig[0] != 0x30 {
		return scriptError(ErrSigDer, "malformed signature: wrong type")
	}
	if int(sig[1]) != len(sig)-2 {
		return scriptError(ErrSigDer, "malformed signature: bad length")
	}

	rLen := int(sig[3])
	if rLen+5 > len(sig) {
		return scriptError(ErrSigDer, "malformed signature: S out of bounds")
	}
	sLen := int(sig[rLen+5])
	if rLen+sLen+6 != len(sig) {
		return scriptError(ErrSigDer, "malformed signature: invalid R length")
	}
	if sig[2] != 0x02 {
		return scriptError(ErrSigDer, "malformed signature: missing first integer marker")
	}
	if rLen == 0 {
		return scriptError(ErrSigDer, "malformed signature: R length is zero")
	}
	if sig[4]&0x80 != 0 {
		return scriptError(ErrSigDer, "malformed signature: R value is negative")
	}
	if rLen > 1 && sig[4] == 0x00 && sig[5]&0x80 == 0 {
		return scriptError(ErrSigDer, "malformed signature: invalid R value")
	}
	if sig[rLen+4] != 0x02 {
		return scriptError(ErrSigDer, "malformed signature: missing second integer marker")
	}
	if sLen == 0 {
		return scriptError(ErrSigDer, "malformed signature: S length is zero")
	}
	if sig[rLen+6]&0x80 != 0 {
		return scriptError(ErrSigDer, "malformed signature: S value is negative")
	}
	if sLen > 1 && sig[rLen+6] == 0x00 && sig[rLen+7]&0x80 == 0 {
		return scriptError(ErrSigDer, "malformed signature: invalid S value")
	}

	if vm.hasFlag(ScriptVerifyLowS) {
		sValue := new(big.Int).SetBytes(sig[rLen+6 : rLen+6+sLen])
		if sValue.Cmp(halfOrder) > 0 {
			return scriptError(ErrSigHighS, "signature S value is larger than half the curve order")
		}
	}

	return nil
}

// getStack returns the contents of stack as a byte array bottom up.
func getStack(s *stack) [][]byte {
	array := make([][]byte, s.Depth())
	for i := range array {
		array[len(array)-i-1], _ = s.PeekByteArray(int32(i))
	}
	return array
}

// setStack sets the stack to the contents of the array where the last
// item in the array is the top item in the stack.
func setStack(s *stack, data [][]byte) {
	_ = s.DropN(s.Depth())
	for i := range data {
		s.PushByteArray(data[i])
	}
}

// GetStack returns the contents of the primary stack as an array where
// the last item in the array is the top of the stack.
func (vm *Engine) GetStack() [][]byte {
	return getStack(&vm.dstack)
}

// SetStack sets the contents of the primary stack to the contents of the
// provided array where the last item in the array will be the top of
// the stack.
func (vm *Engine) SetStack(data [][]byte) {
	setStack(&vm.dstack, data)
}

// isWitnessVersionActive returns true if a witness program was extracted
// during the initialization of the Engine, and the program's version
// matches the specified version.
func (vm *Engine) isWitnessVersionActive(version uint) bool {
	return vm.witnessProgram != nil && uint(vm.witnessVersion) == version
}

// Native segwit v0 program lengths: 20 bytes selects P2WPKH, 32 bytes
// selects P2WSH (§4.6).
const witnessV0PubKeyHashLen = 20
const witnessV0ScriptHashLen = 32

// verifyWitnessProgram validates the stored witness program using the
// transaction input's witness stack, expanding it into the implicit
// P2WPKH or P2WSH script per BIP141/§6.
func (vm *Engine) verifyWitnessProgram(witness [][]byte) error {
	switch vm.witnessVersion {
	case 0:
		switch len(vm.witnessProgram) {
		case witnessV0PubKeyHashLen:
			if len(witness) != 2 {
				return scriptError(ErrWitnessProgramWitnessEmpty, "p2wpkh witness must hold exactly two items")
			}
			pubKey := witness[1]
			sha := sha256.Sum256(pubKey)
			h := ripemd160.New()
			h.Write(sha[:])
			pkHash := h.Sum(nil)
			if !bytes.Equal(pkHash, vm.witnessProgram) {
				return scriptError(ErrWitnessProgramMismatch, "witness program hash mismatch")
			}

			pkScript, err := NewScriptBuilder().AddOp(OP_DUP).AddOp(OP_HASH160).
				AddData(vm.witnessProgram).AddOp(OP_EQUALVERIFY).AddOp(OP_CHECKSIG).Script()
			if err != nil {
				return err
			}
			pops, err := parseScript(pkScript)
			if err != nil {
				return err
			}
			vm.scripts = append(vm.scripts, pops)
			vm.SetStack([][]byte{witness[0], witness[1]})

		case witnessV0ScriptHashLen:
			if len(witness) == 0 {
				return scriptError(ErrWitnessProgramWitnessEmpty, "witness program empty")
			}
			witnessScript := witness[len(witness)-1]
			h := sha256.Sum256(witnessScript)
			if !bytes.Equal(h[:], vm.witnessProgram) {
				return scriptError(ErrWitnessProgramMismatch, "witness program hash mismatch")
			}

			if len(witnessScript) > maxScriptSize {
				return scriptError(ErrScriptSize, "witness script exceeds max allowed size")
			}
			pops, err := parseScript(witnessScript)
			if err != nil {
				return err
			}
			vm.scripts = append(vm.scripts, pops)
			vm.SetStack(witness[:len(witness)-1])

		default:
			return scriptError(ErrWitnessProgramWrongLength, "native segwit v0 program must be 20 or 32 bytes")
		}

	default:
		if vm.hasFlag(ScriptVerifyDiscourageUpgradeableWitnessProgram) {
			return scriptError(ErrDiscourageUpgradableWitnessProgram, "new witness program versions invalid until upgraded")
		}
		// BIP141: unknown versions are anyone-can-spend; succeed with
		// the witness stack trivially truthy.
		vm.SetStack([][]byte{{1}})
		pops, err := parseScript([]byte{OP_1})
		if err != nil {
			return err
		}
		vm.scripts = append(vm.scripts, pops)
	}

	for _, witElement := range vm.GetStack() {
		if len(witElement) > MaxScriptElementSize {
			return scriptError(ErrPushSize, "witness item exceeds max allowed size")
		}
	}

	return nil
}

// NewEngine returns a new script engine for the provided signature
// script, public key script, and witness, implementing the interpreter
// construction described in §4.1 and §6: parsing both scripts, detecting
// the BIP16 (P2SH) and BIP141 (segwit v0) cases, and wiring the caller's
// SigChecker oracle and optional SigCache.
func NewEngine(sigScript, pkScript []byte, witness [][]byte, inputAmount int64,
	flags ScriptFlags, checker SigChecker, sigCache *SigCache) (*Engine, error) {

	if len(sigScript) > maxScriptSize || len(pkScript) > maxScriptSize {
		return nil, scriptError(ErrScriptSize, "script exceeds max allowed size")
	}

	sigPops, err := parseScript(sigScript)
	if err != nil {
		return nil, errors.Wrap(err, "parsing signature script")
	}
	pkPops, err := parseScript(pkScript)
	if err != nil {
		return nil, errors.Wrap(err, "parsing public key script")
	}

	vm := &Engine{
		flags:       flags,
		sigCache:    sigCache,
		checker:     checker,
		inputAmount: inputAmount,
	}
	vm.verifier = NewCachingVerifier(checker, sigCache)
	vm.dstack.verifyMinimalData = flags&ScriptVerifyMinimalData != 0
	vm.astack.verifyMinimalData = flags&ScriptVerifyMinimalData != 0

	if flags&ScriptVerifySigPushOnly != 0 && !isPushOnly(sigPops) {
		return nil, scriptError(ErrInvalidStackOperation, "signature script is not push only")
	}

	vm.bip16 = flags&ScriptBip16 != 0 && isScriptHash(pkPops)
	if vm.bip16 && !isPushOnly(sigPops) {
		return nil, scriptError(ErrInvalidStackOperation, "signature script for p2sh output must be push only")
	}

	if flags&ScriptVerifyWitness != 0 && isWitnessProgram(pkPops) {
		vm.witnessVersion, vm.witnessProgram, err = extractWitnessProgramInfo(pkPops)
		if err != nil {
			return nil, err
		}
		if len(sigScript) != 0 {
			return nil, scriptError(ErrWitnessMalleated, "signature script for witness output must be empty")
		}
	}

	vm.scripts = [][]parsedOpcode{sigPops, pkPops}

	// Skip over any leading empty scripts — a bare signature script is
	// common and legitimate for witness-program outputs, and Step would
	// otherwise immediately fault on an out-of-range program counter.
	for vm.scriptIdx < len(vm.scripts) && len(vm.scripts[vm.scriptIdx]) == 0 {
		vm.scriptIdx++
	}

	vm.witness = witness
	return vm, nil
}
