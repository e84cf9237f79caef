package txscript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseScriptUnparseScriptRoundTrip(t *testing.T) {
	builder := NewScriptBuilder()
	builder.AddOp(OP_DUP).AddOp(OP_HASH160).AddData(make([]byte, 20)).
		AddOp(OP_EQUALVERIFY).AddOp(OP_CHECKSIG)
	script, err := builder.Script()
	require.NoError(t, err)

	pops, err := parseScript(script)
	require.NoError(t, err)
	require.Len(t, pops, 5)

	rebuilt, err := unparseScript(pops)
	require.NoError(t, err)
	require.Equal(t, script, rebuilt)
}

func TestParseScriptPushData124(t *testing.T) {
	for _, n := range []int{76, 300, 70000} {
		data := make([]byte, n)
		// AddData rejects pushes above MaxScriptElementSize, so the
		// script is assembled with the internal addData instead.
		script := addData(nil, data)
		require.Len(t, script, canonicalDataSize(data))

		pops, err := parseScript(script)
		require.NoError(t, err)
		require.Len(t, pops, 1)
		require.Equal(t, data, pops[0].data)
	}
}

func TestParseScriptTruncatedPushErrors(t *testing.T) {
	// OP_PUSHDATA1 claiming 10 bytes but only 2 are present.
	script := []byte{OP_PUSHDATA1, 10, 0x01, 0x02}
	_, err := parseScript(script)
	require.Error(t, err)
}

func TestCalcScriptLenMatchesSerializedLength(t *testing.T) {
	script, err := NewScriptBuilder().AddOp(OP_1).AddData(make([]byte, 40)).Script()
	require.NoError(t, err)

	pops, err := parseScript(script)
	require.NoError(t, err)
	require.Equal(t, len(script), calcScriptLen(pops))
}

func TestRemoveOpcodeByDataStripsMatchingPush(t *testing.T) {
	sig := []byte{0xde, 0xad, 0xbe, 0xef}
	script, err := NewScriptBuilder().AddData(sig).AddOp(OP_CHECKSIG).Script()
	require.NoError(t, err)

	pops, err := parseScript(script)
	require.NoError(t, err)

	stripped := removeOpcodeByData(pops, sig)
	require.Len(t, stripped, 1)
	require.Equal(t, byte(OP_CHECKSIG), stripped[0].opcode.value)
}

func TestDataContains(t *testing.T) {
	require.True(t, dataContains([]byte{1, 2, 3, 4}, []byte{2, 3}))
	require.False(t, dataContains([]byte{1, 2, 3, 4}, []byte{3, 2}))
	require.False(t, dataContains([]byte{1, 2}, nil))
}
