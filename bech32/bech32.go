// Package bech32 implements the BIP173 Bech32 encoding used by segwit
// v0+ addresses: a base32 alphabet plus a BCH code over GF(32) for error
// detection. Grounded on the charset and 5-bit/8-bit regrouping sketched
// in the pack's standalone coin-address reference file, completed with
// the polymod checksum that reference omits (§4.6 requires it).
package bech32

import (
	"strings"

	"github.com/massveil/btcscript/scripterr"
)

const charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

const (
	// ErrBadCharset indicates a character outside the bech32 alphabet,
	// or a string with no '1' separator.
	ErrBadCharset = "BadBech32Charset"
	// ErrBadChecksum indicates the trailing 6 checksum symbols did not
	// verify against polymod.
	ErrBadChecksum = "BadBech32Checksum"
	// ErrMixedCase indicates the input mixed upper and lower case.
	ErrMixedCase = "MixedCase"
	// ErrInvalidLength indicates the total encoded length fell outside
	// [8, 90], or ConvertBits found excess or non-zero padding.
	ErrInvalidLength = "InvalidLength"
)

var charsetRev [256]int8

func init() {
	for i := range charsetRev {
		charsetRev[i] = -1
	}
	for i, c := range charset {
		charsetRev[c] = int8(i)
	}
}

// polymod computes the BCH checksum function over GF(32) used by BIP173.
func polymod(values []byte) uint32 {
	gen := [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}
	chk := uint32(1)
	for _, v := range values {
		b := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := 0; i < 5; i++ {
			if (b>>uint(i))&1 == 1 {
				chk ^= gen[i]
			}
		}
	}
	return chk
}

// hrpExpand expands the human-readable part into the form used by the
// checksum: the high bits of each character, a zero separator, then the
// low bits of each character.
func hrpExpand(hrp string) []byte {
	out := make([]byte, 0, len(hrp)*2+1)
	for i := 0; i < len(hrp); i++ {
		out = append(out, hrp[i]>>5)
	}
	out = append(out, 0)
	for i := 0; i < len(hrp); i++ {
		out = append(out, hrp[i]&31)
	}
	return out
}

// verifyChecksum reports whether polymod(hrpExpand(hrp) || data) == 1.
func verifyChecksum(hrp string, data []byte) bool {
	values := append(hrpExpand(hrp), data...)
	return polymod(values) == 1
}

// createChecksum computes the 6 base32 symbols appended to the data
// part so that verifyChecksum holds.
func createChecksum(hrp string, data []byte) []byte {
	values := append(hrpExpand(hrp), data...)
	values = append(values, 0, 0, 0, 0, 0, 0)
	mod := polymod(values) ^ 1

	out := make([]byte, 6)
	for i := 0; i < 6; i++ {
		out[i] = byte((mod >> uint(5*(5-i))) & 31)
	}
	return out
}

// Encode encodes hrp and the 5-bit-grouped data part into a bech32
// string: hrp '1' data checksum. The data and checksum characters are
// lowercase; hrp is written as given.
func Encode(hrp string, data []byte) (string, error) {
	combined := append(append([]byte{}, data...), createChecksum(hrp, data)...)

	var b strings.Builder
	b.WriteString(hrp)
	b.WriteByte('1')
	for _, v := range combined {
		if int(v) >= len(charset) {
			return "", scripterr.New(ErrBadCharset, "data value out of 5-bit range")
		}
		b.WriteByte(charset[v])
	}

	out := b.String()
	if len(out) < 8 || len(out) > 90 {
		return "", scripterr.New(ErrInvalidLength, "encoded bech32 length outside [8,90]")
	}
	return out, nil
}

// Decode splits a bech32 string into its HRP and 5-bit-grouped data
// part (with the 6-symbol checksum removed), verifying the checksum and
// the case-law of §4.6: a single string must be uniformly upper or
// lowercase, never mixed.
func Decode(bech string) (hrp string, data []byte, err error) {
	if len(bech) < 8 || len(bech) > 90 {
		return "", nil, scripterr.New(ErrInvalidLength, "bech32 string length outside [8,90]")
	}

	lower := strings.ToLower(bech)
	upper := strings.ToUpper(bech)
	if bech != lower && bech != upper {
		return "", nil, scripterr.New(ErrMixedCase, "string contains mixed case characters")
	}
	bech = lower

	sep := strings.LastIndexByte(bech, '1')
	if sep < 1 || sep+7 > len(bech) {
		return "", nil, scripterr.New(ErrBadCharset, "missing or misplaced separator '1'")
	}

	hrp = bech[:sep]
	dataPart := bech[sep+1:]

	values := make([]byte, len(dataPart))
	for i := 0; i < len(dataPart); i++ {
		c := dataPart[i]
		if c > 127 || charsetRev[c] == -1 {
			return "", nil, scripterr.New(ErrBadCharset, "character outside the bech32 alphabet")
		}
		values[i] = byte(charsetRev[c])
	}

	if !verifyChecksum(hrp, values) {
		return "", nil, scripterr.New(ErrBadChecksum, "checksum verification failed")
	}

	return hrp, values[:len(values)-6], nil
}

// ConvertBits regroups a bit stream from fromBits-wide groups into
// toBits-wide groups, used to go between 8-bit program bytes and the
// 5-bit symbols bech32 encodes. When pad is true, the final partial
// group is padded with zero bits (encoding direction); when false, a
// non-zero partial group or excess padding is rejected (decoding
// direction admits no padding, per §4.6).
func ConvertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	var acc uint32
	var bits uint
	var ret []byte
	maxv := uint32(1)<<toBits - 1
	maxAcc := uint32(1)<<(fromBits+toBits-1) - 1

	for _, value := range data {
		if int(value)>>fromBits != 0 {
			return nil, scripterr.New(ErrBadCharset, "input value exceeds fromBits width")
		}
		acc = ((acc << fromBits) | uint32(value)) & maxAcc
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			ret = append(ret, byte((acc>>bits)&maxv))
		}
	}

	if pad {
		if bits > 0 {
			ret = append(ret, byte((acc<<(toBits-bits))&maxv))
		}
	} else if bits >= fromBits || (acc<<(toBits-bits))&maxv != 0 {
		return nil, scripterr.New(ErrInvalidLength, "non-zero padding in final group")
	}

	return ret, nil
}
