package txscript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScriptBuilderAddDataCanonicalEncoding(t *testing.T) {
	tests := []struct {
		data     []byte
		wantLead byte
	}{
		{nil, OP_0},
		{[]byte{0}, OP_0},
		{[]byte{5}, OP_5},
		{[]byte{0x81}, OP_1NEGATE},
		{make([]byte, 10), OP_DATA_10},
		{make([]byte, 76), OP_PUSHDATA1},
		{make([]byte, 300), OP_PUSHDATA2},
	}

	for _, tt := range tests {
		script, err := NewScriptBuilder().AddData(tt.data).Script()
		require.NoError(t, err)
		require.Equal(t, tt.wantLead, script[0])
	}

	// AddData rejects pushes above MaxScriptElementSize, so the
	// OP_PUSHDATA4 encoding is checked on the internal addData directly.
	big := addData(nil, make([]byte, 70000))
	require.Equal(t, byte(OP_PUSHDATA4), big[0])
}

func TestScriptBuilderAddInt64SmallInts(t *testing.T) {
	script, err := NewScriptBuilder().AddInt64(0).AddInt64(1).AddInt64(16).AddInt64(-1).Script()
	require.NoError(t, err)
	require.Equal(t, []byte{OP_0, OP_1, OP_16, OP_1NEGATE}, script)
}

func TestScriptBuilderAddInt64LargeValue(t *testing.T) {
	script, err := NewScriptBuilder().AddInt64(12345).Script()
	require.NoError(t, err)

	pops, err := parseScript(script)
	require.NoError(t, err)
	require.Len(t, pops, 1)

	n, err := makeScriptNum(pops[0].data, true, 4)
	require.NoError(t, err)
	require.EqualValues(t, 12345, n)
}

func TestScriptBuilderRejectsOversizedPush(t *testing.T) {
	_, err := NewScriptBuilder().AddData(make([]byte, MaxScriptElementSize+1)).Script()
	require.Error(t, err)
}

func TestScriptBuilderReset(t *testing.T) {
	b := NewScriptBuilder().AddOp(OP_1)
	b.Reset()
	script, err := b.Script()
	require.NoError(t, err)
	require.Empty(t, script)
}

func TestScriptBuilderStickyError(t *testing.T) {
	b := NewScriptBuilder().AddData(make([]byte, MaxScriptElementSize+1))
	before, _ := b.Script()
	b.AddOp(OP_1) // should be a no-op once an error is latched
	after, err := b.Script()
	require.Error(t, err)
	require.Equal(t, before, after)
}
