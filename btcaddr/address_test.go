package btcaddr

import (
	"testing"

	"github.com/massveil/btcscript/base58"
	"github.com/massveil/btcscript/chaincfg"
	"github.com/stretchr/testify/require"
)

func checkEncodeUnknownVersion(t *testing.T) string {
	t.Helper()
	return base58.CheckEncode(make([]byte, 20), 0x11)
}

func TestAddressPubKeyHashRoundTrip(t *testing.T) {
	hash := make([]byte, 20)
	hash[0] = 0xAB

	addr, err := NewAddressPubKeyHash(hash, &chaincfg.MainNetParams)
	require.NoError(t, err)

	encoded := addr.EncodeAddress()
	require.Equal(t, byte('1'), encoded[0])

	decoded, err := DecodeAddress(encoded)
	require.NoError(t, err)
	require.IsType(t, &AddressPubKeyHash{}, decoded)
	require.Equal(t, hash, decoded.ScriptAddress())
	require.False(t, decoded.IsWitness())
	require.False(t, decoded.IsScriptHash())
}

func TestAddressScriptHashRoundTrip(t *testing.T) {
	hash := make([]byte, 20)
	hash[3] = 0x42

	addr, err := NewAddressScriptHashFromHash(hash, &chaincfg.MainNetParams)
	require.NoError(t, err)

	encoded := addr.EncodeAddress()
	decoded, err := DecodeAddress(encoded)
	require.NoError(t, err)
	require.True(t, decoded.IsScriptHash())
	require.False(t, decoded.IsWitness())
	require.Equal(t, hash, decoded.ScriptAddress())
}

func TestAddressWitnessPubKeyHashRoundTrip(t *testing.T) {
	hash := make([]byte, 20)
	hash[10] = 0x7f

	addr, err := NewAddressWitnessPubKeyHash(hash, &chaincfg.MainNetParams)
	require.NoError(t, err)

	encoded := addr.EncodeAddress()
	require.Equal(t, "bc", encoded[:2])

	decoded, err := DecodeAddress(encoded)
	require.NoError(t, err)
	require.True(t, decoded.IsWitness())
	require.False(t, decoded.IsScriptHash())
	require.Equal(t, hash, decoded.ScriptAddress())
}

func TestAddressWitnessScriptHashRoundTrip(t *testing.T) {
	hash := make([]byte, 32)
	hash[0] = 0x01

	addr, err := NewAddressWitnessScriptHash(hash, &chaincfg.MainNetParams)
	require.NoError(t, err)

	encoded := addr.EncodeAddress()
	decoded, err := DecodeAddress(encoded)
	require.NoError(t, err)
	require.True(t, decoded.IsWitness())
	require.True(t, decoded.IsScriptHash())
	require.Equal(t, hash, decoded.ScriptAddress())
}

func TestDecodeAddressRejectsBadChecksum(t *testing.T) {
	hash := make([]byte, 20)
	addr, err := NewAddressPubKeyHash(hash, &chaincfg.MainNetParams)
	require.NoError(t, err)
	encoded := addr.EncodeAddress()

	mutated := []byte(encoded)
	mutated[len(mutated)-1] ^= 1
	_, err = DecodeAddress(string(mutated))
	require.Error(t, err)
}

func TestDecodeAddressRejectsUnknownVersion(t *testing.T) {
	// A version byte that no registered network claims as either a
	// P2PKH or P2SH prefix.
	_, err := DecodeAddress(checkEncodeUnknownVersion(t))
	require.Error(t, err)
}

func TestNewAddressRejectsWrongHashLength(t *testing.T) {
	_, err := NewAddressPubKeyHash(make([]byte, 19), &chaincfg.MainNetParams)
	require.Error(t, err)

	_, err = NewAddressWitnessScriptHash(make([]byte, 20), &chaincfg.MainNetParams)
	require.Error(t, err)
}
