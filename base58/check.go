package base58

import (
	"crypto/sha256"

	"github.com/massveil/btcscript/scripterr"
)

const (
	// ErrBadBase58 indicates a character outside the base58 alphabet.
	ErrBadBase58 = "BadBase58"
	// ErrBadChecksum indicates the trailing 4 checksum bytes did not
	// match doubleSHA256 of the version+payload.
	ErrBadChecksum = "BadChecksum"
	// ErrTooShort indicates the decoded byte string was too short to
	// contain a version byte and a checksum.
	ErrTooShort = "TooShort"

	checksumLen = 4
)

func doubleSHA256(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

// checksum returns the first 4 bytes of doubleSHA256(input).
func checksum(input []byte) (cksum [checksumLen]byte) {
	h := doubleSHA256(input)
	copy(cksum[:], h[:checksumLen])
	return
}

// CheckEncode prepends a version byte to payload, appends a 4-byte
// doubleSHA256 checksum over both, and base58-encodes the result. This
// is exactly the Base58Check algorithm of spec §4.6: base58(version ||
// payload || checksum).
func CheckEncode(payload []byte, version byte) string {
	b := make([]byte, 0, 1+len(payload)+checksumLen)
	b = append(b, version)
	b = append(b, payload...)
	cksum := checksum(b)
	b = append(b, cksum[:]...)
	return Encode(b)
}

// CheckDecode decodes a base58check string, verifies its checksum, and
// returns the payload and version byte separately. Altering any single
// byte of a valid encoded string fails the checksum check with
// probability 1 - 2^-32 (property P5).
func CheckDecode(input string) (payload []byte, version byte, err *scripterr.Error) {
	decoded := Decode(input)
	if decoded == nil {
		return nil, 0, scripterr.New(ErrBadBase58, "invalid base58 character in input")
	}
	if len(decoded) < 1+checksumLen {
		return nil, 0, scripterr.New(ErrTooShort, "decoded base58 string too short to contain version and checksum")
	}

	var cksum [checksumLen]byte
	copy(cksum[:], decoded[len(decoded)-checksumLen:])
	payload = decoded[1 : len(decoded)-checksumLen]
	version = decoded[0]

	if checksum(decoded[:len(decoded)-checksumLen]) != cksum {
		return nil, 0, scripterr.New(ErrBadChecksum, "checksum mismatch")
	}
	return payload, version, nil
}
