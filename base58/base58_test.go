package base58

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0x00, 0x00, 0x01},
		{0xff, 0x00, 0x12, 0x34},
		[]byte("hello, bitcoin"),
	}
	for _, c := range cases {
		encoded := Encode(c)
		decoded := Decode(encoded)
		require.Equal(t, c, decoded, "round trip for %x", c)
	}
}

func TestEncodePreservesLeadingZeros(t *testing.T) {
	encoded := Encode([]byte{0x00, 0x00, 0x01})
	require.Equal(t, byte('1'), encoded[0])
	require.Equal(t, byte('1'), encoded[1])
}

func TestDecodeRejectsInvalidCharacter(t *testing.T) {
	require.Nil(t, Decode("0OIl"))
}

func TestCheckEncodeDecodeRoundTrip(t *testing.T) {
	payload := make([]byte, 20)
	for i := range payload {
		payload[i] = byte(i)
	}
	encoded := CheckEncode(payload, 0x00)

	decodedPayload, version, err := CheckDecode(encoded)
	require.Nil(t, err)
	require.Equal(t, byte(0x00), version)
	require.Equal(t, payload, decodedPayload)
}

func TestCheckDecodeRejectsCorruptedChecksum(t *testing.T) {
	encoded := CheckEncode(make([]byte, 20), 0x00)
	mutated := []byte(encoded)
	if mutated[len(mutated)-1] == 'z' {
		mutated[len(mutated)-1] = 'y'
	} else {
		mutated[len(mutated)-1] = 'z'
	}

	_, _, err := CheckDecode(string(mutated))
	require.NotNil(t, err)
	require.Equal(t, ErrBadChecksum, err.Code)
}

func TestCheckDecodeRejectsTooShort(t *testing.T) {
	_, _, err := CheckDecode(Encode([]byte{0x01, 0x02}))
	require.NotNil(t, err)
	require.Equal(t, ErrTooShort, err.Code)
}
