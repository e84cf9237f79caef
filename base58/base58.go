// Package base58 implements the Base58 and Base58Check encodings used
// by legacy P2PKH and P2SH addresses, grounded on the alphabet and
// big-integer decoding approach sketched in the pack's standalone
// coin-address reference, hardened with actual checksum verification.
package base58

import (
	"math/big"
)

const alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var (
	bigRadix = big.NewInt(58)
	bigZero  = big.NewInt(0)

	decodeMap [256]int8
)

func init() {
	for i := range decodeMap {
		decodeMap[i] = -1
	}
	for i, c := range alphabet {
		decodeMap[c] = int8(i)
	}
}

// Encode encodes b as a base58 string.
func Encode(b []byte) string {
	x := new(big.Int).SetBytes(b)

	answer := make([]byte, 0, len(b)*136/100+1)
	mod := new(big.Int)
	for x.Cmp(bigZero) > 0 {
		x.DivMod(x, bigRadix, mod)
		answer = append(answer, alphabet[mod.Int64()])
	}

	// Reverse, since the above produces little-endian digit order.
	for i, j := 0, len(answer)-1; i < j; i, j = i+1, j-1 {
		answer[i], answer[j] = answer[j], answer[i]
	}

	// Leading zero bytes become leading '1' characters, matching
	// Bitcoin's convention of preserving the zero-byte count.
	for _, bval := range b {
		if bval != 0 {
			break
		}
		answer = append([]byte{alphabet[0]}, answer...)
	}

	return string(answer)
}

// Decode decodes a base58 string into the bytes it represents. It
// returns nil if s contains a character outside the base58 alphabet.
func Decode(s string) []byte {
	answer := big.NewInt(0)
	scratch := new(big.Int)
	for _, c := range s {
		if c > 255 || decodeMap[c] == -1 {
			return nil
		}
		scratch.SetInt64(int64(decodeMap[c]))
		answer.Mul(answer, bigRadix)
		answer.Add(answer, scratch)
	}

	decoded := answer.Bytes()
	numZeros := 0
	for numZeros < len(s) && s[numZeros] == alphabet[0] {
		numZeros++
	}

	out := make([]byte, numZeros+len(decoded))
	copy(out[numZeros:], decoded)
	return out
}
