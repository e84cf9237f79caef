package txscript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScriptNumBytesRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 127, 128, -128, 255, 256, 32767, 32768, -32768, 1 << 30, -(1 << 30)}
	for _, v := range cases {
		n := ScriptNum(v)
		encoded := n.Bytes()
		decoded, err := makeScriptNum(encoded, true, 8)
		require.NoError(t, err)
		require.EqualValues(t, v, decoded, "round trip for %d", v)
	}
}

func TestScriptNumZeroIsEmpty(t *testing.T) {
	require.Nil(t, ScriptNum(0).Bytes())
}

func TestMakeScriptNumRejectsOverlong(t *testing.T) {
	_, err := makeScriptNum([]byte{1, 2, 3, 4, 5}, true, 4)
	require.Error(t, err)
}

func TestMakeScriptNumRejectsNonMinimal(t *testing.T) {
	_, err := makeScriptNum([]byte{0x00, 0x00}, true, 4)
	require.Error(t, err)

	// Non-minimal is tolerated when minimal encoding isn't required.
	n, err := makeScriptNum([]byte{0x00, 0x00}, false, 4)
	require.NoError(t, err)
	require.EqualValues(t, 0, n)
}

func TestCheckMinimalDataEncodingAllowsSignByteException(t *testing.T) {
	// 0x80 0x80 ends in a byte whose non-sign bits are zero, but the
	// preceding byte's high bit is set, so a single 0x00 byte would
	// collide with the sign bit -- two bytes are required and minimal.
	require.NoError(t, checkMinimalDataEncoding([]byte{0x80, 0x80}))
}

func TestScriptNumInt32Clamps(t *testing.T) {
	require.EqualValues(t, maxInt32, ScriptNum(int64(maxInt32)+100).Int32())
	require.EqualValues(t, minInt32, ScriptNum(int64(minInt32)-100).Int32())
	require.EqualValues(t, 42, ScriptNum(42).Int32())
}
