package btcaddr

import "errors"

// ErrorCode identifies a kind of error when decoding or constructing an
// address, mirroring the way scripterr.Error tags interpreter failures
// with a stable code.
type ErrorCode int

const (
	// ErrBadBase58 indicates the Base58Check payload could not be
	// decoded, either due to an invalid character or a checksum
	// mismatch.
	ErrBadBase58 ErrorCode = iota

	// ErrUnknownVersion indicates the Base58Check version byte does not
	// match any registered network's P2PKH or P2SH prefix.
	ErrUnknownVersion

	// ErrBadBech32 indicates a Bech32 string whose data part does not
	// unpack into a witness version and program (empty, or bad padding
	// when regrouped to bytes). A string that fails Bech32 decoding
	// itself (bad charset, bad checksum, mixed case) is then tried as
	// Base58Check and reported as ErrBadBase58.
	ErrBadBech32

	// ErrUnknownHRP indicates the Bech32 human-readable part does not
	// match any registered network.
	ErrUnknownHRP

	// ErrWitnessVersion indicates the decoded witness version is not 0:
	// either outside the 0-16 range, or a version 1-16 program, which
	// this package does not decode.
	ErrWitnessVersion

	// ErrWitnessProgramLength indicates the decoded witness program is
	// not between 2 and 40 bytes, or (for version 0) not exactly 20 or
	// 32 bytes. The New* constructors also return it for a hash of the
	// wrong length for the address kind.
	ErrWitnessProgramLength
)

var errorCodeStrings = map[ErrorCode]string{
	ErrBadBase58:            "bad base58 string",
	ErrUnknownVersion:       "unknown address version",
	ErrBadBech32:            "bad bech32 string",
	ErrUnknownHRP:           "unknown bech32 human-readable part",
	ErrWitnessVersion:       "invalid witness version",
	ErrWitnessProgramLength: "invalid witness program length",
}

func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return "unknown error code"
}

// Error wraps an ErrorCode with the underlying decode failure, when one
// exists.
type Error struct {
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code.String() + ": " + e.Err.Error()
	}
	return e.Code.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func makeError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Err: err}
}

// ErrChecksumMismatch describes a Base58Check checksum failure. No
// function in this module returns it: DecodeAddress reports such a
// failure as an *Error with code ErrBadBase58.
var ErrChecksumMismatch = errors.New("checksum mismatch")
