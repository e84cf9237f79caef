package bech32

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8}
	encoded, err := Encode("bc", data)
	require.NoError(t, err)

	hrp, decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, "bc", hrp)
	require.Equal(t, data, decoded)
}

func TestDecodeBIP173TestVectors(t *testing.T) {
	// From BIP173's list of valid checksums.
	vectors := []string{
		"A12UEL5L",
		"a12uel5l",
		"an83characterlonghumanreadablepartthatcontainsthenumber1andtheexcludedcharactersbio1tt5tgs",
		"abcdef1qpzry9x8gf2tvdw0s3jn54khce6mua7lmqqqxw",
		"11qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqc8247j",
		"split1checkupstagehandshakeupstreamerranterredcaperred2y9e3w",
		"?1ezyfcl",
	}
	for _, v := range vectors {
		_, _, err := Decode(v)
		require.NoError(t, err, "expected %q to decode", v)
	}
}

func TestDecodeRejectsMixedCase(t *testing.T) {
	_, _, err := Decode("A12uEL5L")
	require.Error(t, err)
}

func TestDecodeRejectsCorruptedChecksum(t *testing.T) {
	valid := "a12uel5l"
	corrupted := strings.Replace(valid, valid[len(valid)-1:], "x", 1)
	_, _, err := Decode(corrupted)
	require.Error(t, err)
}

func TestDecodeRejectsBadCharset(t *testing.T) {
	// 'o', 'i', 'b', and '1' are deliberately excluded from the bech32
	// alphabet by BIP173 to avoid visual ambiguity.
	_, _, err := Decode("bc1qoqqqqqqq")
	require.Error(t, err)
}

func TestConvertBits8To5To8RoundTrip(t *testing.T) {
	original := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01}
	fiveBit, err := ConvertBits(original, 8, 5, true)
	require.NoError(t, err)

	back, err := ConvertBits(fiveBit, 5, 8, false)
	require.NoError(t, err)
	require.Equal(t, original, back)
}

func TestConvertBitsRejectsNonZeroPadding(t *testing.T) {
	// Two 5-bit groups give one full byte plus 2 leftover bits, which
	// here are non-zero.
	_, err := ConvertBits([]byte{1, 1}, 5, 8, false)
	require.Error(t, err)
}
