package txscript

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func sha256Sum(b []byte) []byte {
	h := sha256.Sum256(b)
	return h[:]
}

// fakeChecker is a minimal SigChecker used to exercise the engine
// without pulling in real elliptic-curve signing: CalcSignatureHash
// returns a fixed digest derived from the subscript, and Verify
// consults a table the test controls directly.
type fakeChecker struct {
	verifyResult map[string]bool
	lockTime     int64
	sequence     uint32
	version      int32
}

func (f *fakeChecker) CalcSignatureHash(subScript []byte, hashType SigHashType) ([]byte, error) {
	return append([]byte{byte(hashType)}, subScript...), nil
}

func (f *fakeChecker) Verify(pubKey, signature, hash []byte) bool {
	return f.verifyResult[string(pubKey)+"|"+string(signature)]
}

func (f *fakeChecker) TxLockTime() int64  { return f.lockTime }
func (f *fakeChecker) TxSequence() uint32 { return f.sequence }
func (f *fakeChecker) TxVersion() int32   { return f.version }

func runEngine(t *testing.T, sigScript, pkScript []byte, checker SigChecker, flags ScriptFlags) error {
	t.Helper()
	vm, err := NewEngine(sigScript, pkScript, nil, 0, flags, checker, nil)
	require.NoError(t, err)
	return vm.Execute()
}

func TestEngineTrivialTruthyScript(t *testing.T) {
	pkScript := []byte{OP_1}
	err := runEngine(t, nil, pkScript, &fakeChecker{}, 0)
	require.NoError(t, err)
}

func TestEngineTrivialFalsyScriptFails(t *testing.T) {
	pkScript := []byte{OP_0}
	err := runEngine(t, nil, pkScript, &fakeChecker{}, 0)
	require.Error(t, err)
}

func TestEngineArithmetic(t *testing.T) {
	pkScript, err := NewScriptBuilder().AddInt64(2).AddInt64(3).AddOp(OP_ADD).
		AddInt64(5).AddOp(OP_EQUAL).Script()
	require.NoError(t, err)

	require.NoError(t, runEngine(t, nil, pkScript, &fakeChecker{}, 0))
}

func TestEngineCheckSigSuccess(t *testing.T) {
	pubKey := []byte("pubkey-fixture")
	sig := []byte("sig-fixture")

	pkScript, err := NewScriptBuilder().AddData(pubKey).AddOp(OP_CHECKSIG).Script()
	require.NoError(t, err)

	fullSig := append(append([]byte{}, sig...), byte(SigHashAll))
	sigScript, err := NewScriptBuilder().AddData(fullSig).Script()
	require.NoError(t, err)

	checker := &fakeChecker{verifyResult: map[string]bool{
		string(pubKey) + "|" + string(sig): true,
	}}

	require.NoError(t, runEngine(t, sigScript, pkScript, checker, 0))
}

func TestEngineCheckSigFailure(t *testing.T) {
	pubKey := []byte("pubkey-fixture")
	sig := []byte("sig-fixture")

	pkScript, err := NewScriptBuilder().AddData(pubKey).AddOp(OP_CHECKSIG).Script()
	require.NoError(t, err)

	fullSig := append(append([]byte{}, sig...), byte(SigHashAll))
	sigScript, err := NewScriptBuilder().AddData(fullSig).Script()
	require.NoError(t, err)

	checker := &fakeChecker{verifyResult: map[string]bool{}}
	err = runEngine(t, sigScript, pkScript, checker, 0)
	require.Error(t, err)
}

func TestEngineP2SHRedeemScript(t *testing.T) {
	redeem, err := NewScriptBuilder().AddInt64(2).AddInt64(3).AddOp(OP_ADD).
		AddInt64(5).AddOp(OP_EQUAL).Script()
	require.NoError(t, err)

	redeemHash := Hash160(redeem)
	pkScript, err := PayToScriptHashScript(redeemHash)
	require.NoError(t, err)

	sigScript, err := NewScriptBuilder().AddData(redeem).Script()
	require.NoError(t, err)

	require.NoError(t, runEngine(t, sigScript, pkScript, &fakeChecker{}, ScriptBip16))
}

func TestEngineWitnessV0PubKeyHash(t *testing.T) {
	pubKey := []byte("pubkey-fixture")
	sig := []byte("sig-fixture")

	pubKeyHash := Hash160(pubKey)
	pkScript, err := PayToWitnessPubKeyHashScript(pubKeyHash)
	require.NoError(t, err)

	fullSig := append(append([]byte{}, sig...), byte(SigHashAll))
	witness := [][]byte{fullSig, pubKey}

	checker := &fakeChecker{verifyResult: map[string]bool{
		string(pubKey) + "|" + string(sig): true,
	}}

	vm, err := NewEngine(nil, pkScript, witness, 0, ScriptVerifyWitness, checker, nil)
	require.NoError(t, err)
	require.NoError(t, vm.Execute())
}

func TestEngineWitnessV0ScriptHash(t *testing.T) {
	witnessScript, err := NewScriptBuilder().AddInt64(2).AddInt64(3).AddOp(OP_ADD).
		AddInt64(5).AddOp(OP_EQUAL).Script()
	require.NoError(t, err)

	scriptHash := sha256Sum(witnessScript)
	pkScript, err := PayToWitnessScriptHashScript(scriptHash)
	require.NoError(t, err)

	vm, err := NewEngine(nil, pkScript, [][]byte{witnessScript}, 0, ScriptVerifyWitness, &fakeChecker{}, nil)
	require.NoError(t, err)
	require.NoError(t, vm.Execute())
}

func TestEngineCheckLockTimeVerify(t *testing.T) {
	pkScript, err := NewScriptBuilder().AddInt64(500000100).
		AddOp(OP_CHECKLOCKTIMEVERIFY).AddOp(OP_DROP).AddOp(OP_1).Script()
	require.NoError(t, err)

	checker := &fakeChecker{lockTime: 500000200, sequence: 0}
	require.NoError(t, runEngine(t, nil, pkScript, checker, ScriptVerifyCheckLockTimeVerify))

	checkerTooEarly := &fakeChecker{lockTime: 500000000, sequence: 0}
	require.Error(t, runEngine(t, nil, pkScript, checkerTooEarly, ScriptVerifyCheckLockTimeVerify))
}

func TestEngineSigCacheMemoizes(t *testing.T) {
	pubKey := []byte("pubkey-fixture")
	sig := []byte("sig-fixture")
	hash := []byte{byte(SigHashAll)}
	hash = append(hash, []byte{OP_CHECKSIG}...)

	cache := NewSigCache(10)
	cache.Add(pubKey, sig, hash, true)

	valid, ok := cache.Exists(pubKey, sig, hash)
	require.True(t, ok)
	require.True(t, valid)
}
