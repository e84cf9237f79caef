package txscript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetScriptClassRecognizesTemplates(t *testing.T) {
	pkHashScript, err := NewScriptBuilder().AddOp(OP_DUP).AddOp(OP_HASH160).
		AddData(make([]byte, 20)).AddOp(OP_EQUALVERIFY).AddOp(OP_CHECKSIG).Script()
	require.NoError(t, err)
	require.Equal(t, PubKeyHashTy, GetScriptClass(pkHashScript))

	scriptHashScript, err := NewScriptBuilder().AddOp(OP_HASH160).
		AddData(make([]byte, 20)).AddOp(OP_EQUAL).Script()
	require.NoError(t, err)
	require.Equal(t, ScriptHashTy, GetScriptClass(scriptHashScript))

	pubKeyScript, err := NewScriptBuilder().AddData(make([]byte, 33)).AddOp(OP_CHECKSIG).Script()
	require.NoError(t, err)
	require.Equal(t, PubKeyTy, GetScriptClass(pubKeyScript))

	nullData, err := NewScriptBuilder().AddOp(OP_RETURN).AddData([]byte("hello")).Script()
	require.NoError(t, err)
	require.Equal(t, NullDataTy, GetScriptClass(nullData))

	v0pkh, err := PayToWitnessPubKeyHashScript(make([]byte, 20))
	require.NoError(t, err)
	require.Equal(t, WitnessV0PubKeyHashTy, GetScriptClass(v0pkh))

	v0sh, err := PayToWitnessScriptHashScript(make([]byte, 32))
	require.NoError(t, err)
	require.Equal(t, WitnessV0ScriptHashTy, GetScriptClass(v0sh))

	require.Equal(t, NonStandardTy, GetScriptClass([]byte{OP_CHECKMULTISIG}))
}

func TestGetScriptClassMultiSig(t *testing.T) {
	script, err := NewScriptBuilder().AddInt64(2).
		AddData(make([]byte, 33)).AddData(make([]byte, 33)).AddData(make([]byte, 33)).
		AddInt64(3).AddOp(OP_CHECKMULTISIG).Script()
	require.NoError(t, err)
	require.Equal(t, MultiSigTy, GetScriptClass(script))
}

func TestIsUnspendable(t *testing.T) {
	nullData, err := NewScriptBuilder().AddOp(OP_RETURN).Script()
	require.NoError(t, err)
	require.True(t, IsUnspendable(nullData))

	ordinary, err := NewScriptBuilder().AddOp(OP_1).Script()
	require.NoError(t, err)
	require.False(t, IsUnspendable(ordinary))
}

func TestGetSigOpCountLegacy(t *testing.T) {
	script, err := NewScriptBuilder().AddOp(OP_CHECKSIG).AddOp(OP_CHECKMULTISIG).Script()
	require.NoError(t, err)
	require.Equal(t, 1+MaxPubKeysPerMultiSig, GetSigOpCount(script))
}

func TestGetPreciseSigOpCountP2SH(t *testing.T) {
	redeem, err := NewScriptBuilder().AddInt64(1).AddData(make([]byte, 33)).
		AddInt64(1).AddOp(OP_CHECKMULTISIG).Script()
	require.NoError(t, err)

	sigScript, err := NewScriptBuilder().AddData(redeem).Script()
	require.NoError(t, err)

	pkScript, err := PayToScriptHashScript(Hash160(redeem))
	require.NoError(t, err)

	require.Equal(t, 1, GetPreciseSigOpCount(sigScript, pkScript, true))
}

func TestHasDuplicatePubKeys(t *testing.T) {
	pubKey := make([]byte, 33)
	script, err := NewScriptBuilder().AddInt64(2).AddData(pubKey).AddData(pubKey).
		AddInt64(2).AddOp(OP_CHECKMULTISIG).Script()
	require.NoError(t, err)
	require.True(t, HasDuplicatePubKeys(script))

	other := make([]byte, 33)
	other[0] = 1
	unique, err := NewScriptBuilder().AddInt64(2).AddData(pubKey).AddData(other).
		AddInt64(2).AddOp(OP_CHECKMULTISIG).Script()
	require.NoError(t, err)
	require.False(t, HasDuplicatePubKeys(unique))
}

func TestIsPushOnlyScript(t *testing.T) {
	pushOnly, err := NewScriptBuilder().AddData([]byte("x")).AddInt64(7).Script()
	require.NoError(t, err)
	require.True(t, IsPushOnlyScript(pushOnly))

	notPushOnly, err := NewScriptBuilder().AddData([]byte("x")).AddOp(OP_CHECKSIG).Script()
	require.NoError(t, err)
	require.False(t, IsPushOnlyScript(notPushOnly))
}

func TestExtractPkScriptHash160(t *testing.T) {
	hash := make([]byte, 20)
	hash[0] = 0xAB
	script, err := PayToPubKeyHashScript(hash)
	require.NoError(t, err)

	class, extracted, ok := ExtractPkScriptHash160(script)
	require.True(t, ok)
	require.Equal(t, PubKeyHashTy, class)
	require.Equal(t, hash, extracted)
}
