package txscript

import (
	set "gopkg.in/fatih/set.v0"
)

// ScriptClass is a tagged enumeration of the recognized ScriptPubKey
// shapes described in §3: PubKey, PubKeyHash, ScriptHash, Multisig, the
// two segwit v0 templates, unrecognized witness versions, OP_RETURN
// outputs, and the catch-all NonStandard case.
type ScriptClass byte

const (
	NonStandardTy ScriptClass = iota
	PubKeyTy
	PubKeyHashTy
	ScriptHashTy
	MultiSigTy
	NullDataTy
	WitnessV0PubKeyHashTy
	WitnessV0ScriptHashTy
	WitnessUnknownTy
)

var scriptClassNames = map[ScriptClass]string{
	NonStandardTy:         "nonstandard",
	PubKeyTy:              "pubkey",
	PubKeyHashTy:          "pubkeyhash",
	ScriptHashTy:          "scripthash",
	MultiSigTy:            "multisig",
	NullDataTy:            "nulldata",
	WitnessV0PubKeyHashTy: "witness_v0_keyhash",
	WitnessV0ScriptHashTy: "witness_v0_scripthash",
	WitnessUnknownTy:      "witness_unknown",
}

func (t ScriptClass) String() string {
	if name, ok := scriptClassNames[t]; ok {
		return name
	}
	return "unknown"
}

// isSmallInt returns whether or not the opcode is considered a small
// integer, which is an OP_0, or OP_1 through OP_16.
func isSmallInt(op byte) bool {
	return op == OP_0 || (op >= OP_1 && op <= OP_16)
}

// isPushOnly returns true if the script only pushes data.
func isPushOnly(pops []parsedOpcode) bool {
	for _, pop := range pops {
		if pop.opcode.value > OP_16 {
			return false
		}
	}
	return true
}

// IsPushOnlyScript returns whether or not the passed script only pushes
// data. False is returned when the script does not parse.
func IsPushOnlyScript(script []byte) bool {
	pops, err := parseScript(script)
	if err != nil {
		return false
	}
	return isPushOnly(pops)
}

// isScriptHash returns whether or not the passed script is a standard
// pay-to-script-hash script: `OP_HASH160 <20 bytes> OP_EQUAL`.
func isScriptHash(pops []parsedOpcode) bool {
	return len(pops) == 3 &&
		pops[0].opcode.value == OP_HASH160 &&
		pops[1].opcode.value == OP_DATA_20 &&
		pops[2].opcode.value == OP_EQUAL
}

// IsPayToScriptHash returns true if the script is in the standard
// pay-to-script-hash format.
func IsPayToScriptHash(script []byte) bool {
	pops, err := parseScript(script)
	if err != nil {
		return false
	}
	return isScriptHash(pops)
}

// isPubkeyHash returns whether the script is `OP_DUP OP_HASH160 <20
// bytes> OP_EQUALVERIFY OP_CHECKSIG`.
func isPubkeyHash(pops []parsedOpcode) bool {
	return len(pops) == 5 &&
		pops[0].opcode.value == OP_DUP &&
		pops[1].opcode.value == OP_HASH160 &&
		pops[2].opcode.value == OP_DATA_20 &&
		pops[3].opcode.value == OP_EQUALVERIFY &&
		pops[4].opcode.value == OP_CHECKSIG
}

// isPubkey returns whether the script is `<33|65 bytes> OP_CHECKSIG`.
func isPubkey(pops []parsedOpcode) bool {
	return len(pops) == 2 &&
		(pops[0].opcode.value == OP_DATA_33 || pops[0].opcode.value == OP_DATA_65) &&
		pops[1].opcode.value == OP_CHECKSIG
}

// isMultiSig returns whether the script is `<m> <pk_1>...<pk_n> <n>
// OP_CHECKMULTISIG`.
func isMultiSig(pops []parsedOpcode) bool {
	l := len(pops)
	if l < 4 {
		return false
	}
	if !isSmallInt(pops[0].opcode.value) {
		return false
	}
	if !isSmallInt(pops[l-2].opcode.value) {
		return false
	}
	if pops[l-1].opcode.value != OP_CHECKMULTISIG {
		return false
	}

	numPubKeys := asSmallInt(pops[l-2].opcode.value)
	if numPubKeys != l-3 {
		return false
	}
	for _, pop := range pops[1 : l-2] {
		if pop.opcode.value != OP_DATA_33 && pop.opcode.value != OP_DATA_65 {
			return false
		}
	}
	return true
}

// isNullData returns whether the script is `OP_RETURN` optionally
// followed by a single data push.
func isNullData(pops []parsedOpcode) bool {
	l := len(pops)
	if l == 1 && pops[0].opcode.value == OP_RETURN {
		return true
	}
	return l == 2 && pops[0].opcode.value == OP_RETURN &&
		(pops[1].opcode.value <= OP_PUSHDATA4 && pops[1].opcode.value != OP_0)
}

// isWitnessProgram returns whether the script is a segwit witness
// program: a single small-int version opcode followed by a 2-40 byte
// push, per §4.6.
func isWitnessProgram(pops []parsedOpcode) bool {
	if len(pops) != 2 {
		return false
	}
	if !isSmallInt(pops[0].opcode.value) {
		return false
	}
	dataLen := len(pops[1].data)
	return pops[1].opcode.value <= OP_PUSHDATA4 && dataLen >= 2 && dataLen <= 40
}

// isWitnessPubKeyHash returns whether pops is a v0 P2WPKH program.
func isWitnessPubKeyHash(pops []parsedOpcode) bool {
	return isWitnessProgram(pops) && asSmallInt(pops[0].opcode.value) == 0 &&
		len(pops[1].data) == witnessV0PubKeyHashLen
}

// isWitnessScriptHash returns whether pops is a v0 P2WSH program.
func isWitnessScriptHash(pops []parsedOpcode) bool {
	return isWitnessProgram(pops) && asSmallInt(pops[0].opcode.value) == 0 &&
		len(pops[1].data) == witnessV0ScriptHashLen
}

// extractWitnessProgramInfo returns the version and program of a parsed
// witness program script.
func extractWitnessProgramInfo(pops []parsedOpcode) (int, []byte, error) {
	if !isWitnessProgram(pops) {
		return 0, nil, scriptError(ErrWitnessProgramWrongLength, "script is not a valid witness program")
	}
	return asSmallInt(pops[0].opcode.value), pops[1].data, nil
}

// typeOfScript returns the ScriptClass for a parsed script.
func typeOfScript(pops []parsedOpcode) ScriptClass {
	switch {
	case isPubkey(pops):
		return PubKeyTy
	case isPubkeyHash(pops):
		return PubKeyHashTy
	case isScriptHash(pops):
		return ScriptHashTy
	case isMultiSig(pops):
		return MultiSigTy
	case isNullData(pops):
		return NullDataTy
	case isWitnessPubKeyHash(pops):
		return WitnessV0PubKeyHashTy
	case isWitnessScriptHash(pops):
		return WitnessV0ScriptHashTy
	case isWitnessProgram(pops):
		return WitnessUnknownTy
	default:
		return NonStandardTy
	}
}

// GetScriptClass returns the class of the script passed. It will return
// NonStandardTy for any script that does not parse.
func GetScriptClass(script []byte) ScriptClass {
	pops, err := parseScript(script)
	if err != nil {
		return NonStandardTy
	}
	return typeOfScript(pops)
}

// ExtractPkScriptHash160 returns the 20-byte hash embedded in a P2PKH,
// P2SH, or P2WPKH script, for use by the address codecs. ok is false for
// any other script shape.
func ExtractPkScriptHash160(script []byte) (class ScriptClass, hash []byte, ok bool) {
	pops, err := parseScript(script)
	if err != nil {
		return NonStandardTy, nil, false
	}
	switch {
	case isPubkeyHash(pops):
		return PubKeyHashTy, pops[2].data, true
	case isScriptHash(pops):
		return ScriptHashTy, pops[1].data, true
	case isWitnessPubKeyHash(pops):
		return WitnessV0PubKeyHashTy, pops[1].data, true
	default:
		return NonStandardTy, nil, false
	}
}

// ExtractWitnessScriptHash returns the 32-byte program embedded in a
// P2WSH script.
func ExtractWitnessScriptHash(script []byte) (hash []byte, ok bool) {
	pops, err := parseScript(script)
	if err != nil || !isWitnessScriptHash(pops) {
		return nil, false
	}
	return pops[1].data, true
}

// PayToPubKeyHashScript creates a new script to pay a transaction output
// to a 20-byte pubkey hash, the P2PKH template of §6.
func PayToPubKeyHashScript(pubKeyHash []byte) ([]byte, error) {
	return NewScriptBuilder().AddOp(OP_DUP).AddOp(OP_HASH160).
		AddData(pubKeyHash).AddOp(OP_EQUALVERIFY).AddOp(OP_CHECKSIG).Script()
}

// PayToScriptHashScript creates a new script to pay a transaction output
// to a 20-byte script hash, the P2SH template of §6.
func PayToScriptHashScript(scriptHash []byte) ([]byte, error) {
	return NewScriptBuilder().AddOp(OP_HASH160).AddData(scriptHash).
		AddOp(OP_EQUAL).Script()
}

// PayToWitnessPubKeyHashScript creates a new script to pay a
// transaction output to a 20-byte witness pubkey hash, the P2WPKH
// template of §6.
func PayToWitnessPubKeyHashScript(pubKeyHash []byte) ([]byte, error) {
	return NewScriptBuilder().AddOp(OP_0).AddData(pubKeyHash).Script()
}

// PayToWitnessScriptHashScript creates a new script to pay a transaction
// output to a 32-byte witness script hash, the P2WSH template of §6.
func PayToWitnessScriptHashScript(scriptHash []byte) ([]byte, error) {
	return NewScriptBuilder().AddOp(OP_0).AddData(scriptHash).Script()
}

// addrScripter is the subset of btcaddr.Address that PayToAddrScript
// needs; declared here rather than importing btcaddr directly to avoid
// a package import cycle (btcaddr imports txscript for Hash160).
type addrScripter interface {
	ScriptAddress() []byte
	IsWitness() bool
	IsScriptHash() bool
}

// PayToAddrScript creates a new script to pay a transaction output to
// the specified address, dispatching on its concrete kind.
func PayToAddrScript(addr addrScripter) ([]byte, error) {
	hash := addr.ScriptAddress()
	switch {
	case addr.IsWitness():
		if len(hash) == witnessV0ScriptHashLen {
			return PayToWitnessScriptHashScript(hash)
		}
		return PayToWitnessPubKeyHashScript(hash)
	case addr.IsScriptHash():
		return PayToScriptHashScript(hash)
	default:
		return PayToPubKeyHashScript(hash)
	}
}

// IsUnspendable returns whether the passed public key script is
// unspendable, or guaranteed to fail at execution. This allows inputs
// to be pruned instantly when entering the UTXO set.
func IsUnspendable(pkScript []byte) bool {
	pops, err := parseScript(pkScript)
	if err != nil {
		return true
	}
	return len(pops) > 0 && pops[0].opcode.value == OP_RETURN
}

// RemoveOpcodeByData returns the script minus any opcodes that would
// push the passed data to the stack, the legacy OP_CHECKSIG subscript
// rule surfaced for callers outside the interpreter (e.g. disassembly
// tooling) per §9's supplemented-feature list.
func RemoveOpcodeByData(script []byte, data []byte) ([]byte, error) {
	pops, err := parseScript(script)
	if err != nil {
		return nil, err
	}
	return unparseScript(removeOpcodeByData(pops, data))
}

// getSigOpCount is the shared core of GetSigOpCount and
// GetPreciseSigOpCount: walks the parsed script counting the consensus
// weight of each CHECKSIG/CHECKMULTISIG occurrence.
func getSigOpCount(pops []parsedOpcode, precise bool) int {
	nSigs := 0
	for i, pop := range pops {
		switch pop.opcode.value {
		case OP_CHECKSIG, OP_CHECKSIGVERIFY:
			nSigs++
		case OP_CHECKMULTISIG, OP_CHECKMULTISIGVERIFY:
			if precise && i > 0 && pops[i-1].opcode.value >= OP_1 &&
				pops[i-1].opcode.value <= OP_16 {
				nSigs += asSmallInt(pops[i-1].opcode.value)
			} else {
				nSigs += MaxPubKeysPerMultiSig
			}
		}
	}
	return nSigs
}

// GetSigOpCount provides a quick count of the number of signature
// operations in a script, counting each CHECKMULTISIG as 20 signature
// operations regardless of its actual `m`, matching Bitcoin Core's
// legacy (imprecise) accounting used for the block sigop limit.
func GetSigOpCount(script []byte) int {
	pops, err := parseScript(script)
	if err != nil {
		return 0
	}
	return getSigOpCount(pops, false)
}

// GetPreciseSigOpCount returns the number of signature operations in
// scriptPubKey, using scriptSig to find the precise count for
// pay-to-script-hash outputs by inspecting the embedded redeem script.
func GetPreciseSigOpCount(scriptSig, scriptPubKey []byte, bip16 bool) int {
	pkPops, err := parseScript(scriptPubKey)
	if err != nil {
		return 0
	}

	if !(bip16 && isScriptHash(pkPops)) {
		return getSigOpCount(pkPops, true)
	}

	sigPops, err := parseScript(scriptSig)
	if err != nil || len(sigPops) == 0 {
		return 0
	}
	lastPop := sigPops[len(sigPops)-1]
	if lastPop.opcode.value > OP_PUSHDATA4 && lastPop.opcode.value != OP_0 {
		return 0
	}

	redeemPops, err := parseScript(lastPop.data)
	if err != nil {
		return 0
	}
	return getSigOpCount(redeemPops, true)
}

// HasDuplicatePubKeys reports whether a multisig script's pubkey list
// contains the same pubkey more than once. Not a consensus rule, but a
// standardness check callers commonly want before accepting a script
// into a mempool-like structure; a non-multisig script never qualifies.
func HasDuplicatePubKeys(script []byte) bool {
	pops, err := parseScript(script)
	if err != nil || !isMultiSig(pops) {
		return false
	}

	seen := set.New()
	for _, pop := range pops[1 : len(pops)-2] {
		key := string(pop.data)
		if seen.Has(key) {
			return true
		}
		seen.Add(key)
	}
	return false
}
