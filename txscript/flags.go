package txscript

// ScriptFlags is a bitmask of consensus and policy rules that modify
// opcode semantics, per §3's ScriptProgram.flags field.
type ScriptFlags uint32

const (
	// ScriptBip16 defines whether the bip16 threshold has passed and
	// thus pay-to-script hash transactions will be fully validated.
	ScriptBip16 ScriptFlags = 1 << iota

	// ScriptDiscourageUpgradableNops defines whether to verify that
	// NOP1 through NOP10 are reserved for future soft-fork upgrades.
	ScriptDiscourageUpgradableNops

	// ScriptVerifyCheckLockTimeVerify defines whether to verify that a
	// transaction output is spendable based on the locktime.
	ScriptVerifyCheckLockTimeVerify

	// ScriptVerifyCheckSequenceVerify defines whether to allow opcodes
	// that enable a transaction output to be spent based on the
	// sequence number of its parent.
	ScriptVerifyCheckSequenceVerify

	// ScriptVerifyCleanStack defines that the stack must contain only
	// one stack element after evaluation and that the element must be
	// true if interpreted as a boolean.
	ScriptVerifyCleanStack

	// ScriptVerifyDERSignatures defines that signatures are required to
	// compily with the DER format.
	ScriptVerifyDERSignatures

	// ScriptVerifyLowS defines that signatures are required to comply
	// with the DER format and whose S value is <= order / 2.
	ScriptVerifyLowS

	// ScriptVerifyMinimalData defines that signatures must use the
	// smallest possible push operator and all numbers in scripts and
	// the stack must be in minimal representation.
	ScriptVerifyMinimalData

	// ScriptVerifyNullFail defines that signatures must be empty if a
	// CHECKSIG or CHECKMULTISIG operation fails.
	ScriptVerifyNullFail

	// ScriptVerifySigPushOnly defines that signature scripts must
	// contain only pushed data.
	ScriptVerifySigPushOnly

	// ScriptVerifyStrictEncoding defines that signature scripts and
	// public keys must follow the strict encoding requirements.
	ScriptVerifyStrictEncoding

	// ScriptVerifyWitness defines whether or not to verify a
	// transaction output using the witness program template defined in
	// BIP0141.
	ScriptVerifyWitness

	// ScriptVerifyDiscourageUpgradeableWitnessProgram makes witness
	// program with versions 1-16 non-standard.
	ScriptVerifyDiscourageUpgradeableWitnessProgram

	// ScriptVerifyMinimalIf makes a script with an OP_IF/OP_NOTIF whose
	// operand is anything other than empty vector or [0x01] non
	// standard.
	ScriptVerifyMinimalIf

	// ScriptVerifyWitnessPubKeyType makes a script within a witness
	// program that p2wkh spend must have a compressed public key.
	ScriptVerifyWitnessPubKeyType

	// ScriptVerifyNullDummy defines that the extra dummy argument a
	// CHECKMULTISIG pops (the off-by-one quirk in §4.4) must be empty.
	ScriptVerifyNullDummy
)

// StandardVerifyFlags are the flags used to validate transactions
// entering the candidate pool, matching Bitcoin Core's policy (not
// consensus) rule set: strict encoding, low-S, DER, clean stack, null
// dummy, segwit, and the discouraged-upgrade guards — every rule in §3's
// flags field that the network treats as a relay and mempool policy
// rather than a pure consensus rule.
var StandardVerifyFlags = ScriptBip16 |
	ScriptVerifyDERSignatures |
	ScriptVerifyStrictEncoding |
	ScriptVerifyMinimalData |
	ScriptDiscourageUpgradableNops |
	ScriptVerifyCleanStack |
	ScriptVerifyNullFail |
	ScriptVerifyCheckLockTimeVerify |
	ScriptVerifyCheckSequenceVerify |
	ScriptVerifyLowS |
	ScriptVerifyWitness |
	ScriptVerifyDiscourageUpgradeableWitnessProgram |
	ScriptVerifyMinimalIf |
	ScriptVerifyWitnessPubKeyType |
	ScriptVerifyNullDummy |
	ScriptVerifySigPushOnly
