package txscript

// SigHashType represents the signature hash type bits appended to a DER
// signature, which tell a verifier which parts of the spending
// transaction were committed to.
type SigHashType uint32

// Hash type bits from the one byte hash type field in a signature.
const (
	SigHashOld          SigHashType = 0x0
	SigHashAll          SigHashType = 0x1
	SigHashNone         SigHashType = 0x2
	SigHashSingle       SigHashType = 0x3
	SigHashAnyOneCanPay SigHashType = 0x80

	// sigHashMask defines the number of bits of the hash type which are
	// used to identify which outputs are signed.
	sigHashMask = 0x1f
)

// SigHasher computes the digest that authorizes spending the input under
// evaluation. The interpreter treats it as a pure, deterministic function
// of the subscript and hash type — per §1 and §6, the spending
// transaction, input index, and amount are context the caller closes
// over when constructing the hasher, not something the interpreter
// inspects directly.
type SigHasher interface {
	// CalcSignatureHash returns the digest that a signature over
	// subScript (the active script since the last OP_CODESEPARATOR,
	// with signature bytes already excised by RemoveOpcodeByData) with
	// the given hash type must commit to.
	CalcSignatureHash(subScript []byte, hashType SigHashType) ([]byte, error)
}

// SigVerifier validates a single signature against a public key and a
// precomputed digest. The interpreter never performs elliptic-curve
// arithmetic itself; every OP_CHECKSIG family opcode calls out to this
// oracle, matching the scope boundary in §1.
type SigVerifier interface {
	// Verify reports whether signature is a valid signature over hash
	// under pubKey. It must be a pure function of its arguments so that
	// a SigCache can memoize it safely.
	Verify(pubKey, signature, hash []byte) bool
}

// LockTimeChecker supplies the enclosing transaction's locktime and
// sequence context to OP_CHECKLOCKTIMEVERIFY and OP_CHECKSEQUENCEVERIFY,
// per the BIP65/BIP112 comparison rules described in §4.4.
type LockTimeChecker interface {
	// TxLockTime returns the spending transaction's nLockTime field.
	TxLockTime() int64
	// TxSequence returns the nSequence field of the input under
	// evaluation.
	TxSequence() uint32
	// TxVersion returns the spending transaction's version, which gates
	// whether OP_CHECKSEQUENCEVERIFY is permitted to succeed at all
	// (BIP112 requires version >= 2).
	TxVersion() int32
}

// SigChecker bundles the external collaborators the engine needs beyond
// pure stack manipulation: signature verification, sighash computation,
// and locktime context. A caller assembles one per transaction input
// before constructing an Engine.
type SigChecker interface {
	SigHasher
	SigVerifier
	LockTimeChecker
}
