// Package btcaddr implements the bit-exact address codecs of §4.6:
// legacy Base58Check P2PKH/P2SH addresses and BIP173 Bech32 native
// segwit addresses, plus the Address interface that ties a decoded
// address back to its corresponding ScriptPubKey via txscript.
package btcaddr

import (
	"errors"

	"github.com/massveil/btcscript/base58"
	"github.com/massveil/btcscript/bech32"
	"github.com/massveil/btcscript/chaincfg"
	"github.com/massveil/btcscript/txscript"
)

// Address is the common interface implemented by every decoded address
// kind. EncodeAddress renders the canonical string form; ScriptAddress
// returns the raw hash or program carried inside it.
type Address interface {
	// String returns the address encoded to its canonical textual
	// form, suitable for display or re-decoding.
	String() string

	// EncodeAddress is an alias of String kept for symmetry with
	// DecodeAddress; some callers prefer the explicit verb.
	EncodeAddress() string

	// ScriptAddress returns the raw bytes this address identifies: a
	// 20-byte hash for P2PKH/P2SH/P2WPKH, 32 bytes for P2WSH.
	ScriptAddress() []byte

	// IsForNet reports whether the address was decoded against params.
	IsForNet(params *chaincfg.Params) bool

	// IsWitness reports whether the address is a segwit v0 address,
	// consulted by txscript.PayToAddrScript to pick the witness vs.
	// legacy ScriptPubKey template.
	IsWitness() bool

	// IsScriptHash reports whether the address identifies a script
	// rather than a pubkey (P2SH or P2WSH).
	IsScriptHash() bool
}

// AddressPubKeyHash is a legacy Base58Check P2PKH address: the
// Hash160(pubkey) payload under a network's PubKeyHashAddrID version
// byte.
type AddressPubKeyHash struct {
	hash   [20]byte
	params *chaincfg.Params
}

// NewAddressPubKeyHash builds a P2PKH address from a 20-byte hash.
func NewAddressPubKeyHash(hash []byte, params *chaincfg.Params) (*AddressPubKeyHash, error) {
	if len(hash) != 20 {
		return nil, makeError(ErrWitnessProgramLength, errWrongHashLength)
	}
	a := &AddressPubKeyHash{params: params}
	copy(a.hash[:], hash)
	return a, nil
}

func (a *AddressPubKeyHash) String() string { return a.EncodeAddress() }

func (a *AddressPubKeyHash) EncodeAddress() string {
	return base58.CheckEncode(a.hash[:], a.params.PubKeyHashAddrID)
}

func (a *AddressPubKeyHash) ScriptAddress() []byte { return a.hash[:] }

func (a *AddressPubKeyHash) IsForNet(params *chaincfg.Params) bool {
	return a.params.PubKeyHashAddrID == params.PubKeyHashAddrID
}

func (a *AddressPubKeyHash) IsWitness() bool    { return false }
func (a *AddressPubKeyHash) IsScriptHash() bool { return false }

// AddressScriptHash is a legacy Base58Check P2SH address: the
// Hash160(redeemScript) payload under a network's ScriptHashAddrID
// version byte.
type AddressScriptHash struct {
	hash   [20]byte
	params *chaincfg.Params
}

// NewAddressScriptHash builds a P2SH address from a redeem script,
// hashing it first (the common construction path).
func NewAddressScriptHash(redeemScript []byte, params *chaincfg.Params) (*AddressScriptHash, error) {
	return NewAddressScriptHashFromHash(txscript.Hash160(redeemScript), params)
}

// NewAddressScriptHashFromHash builds a P2SH address from an
// already-computed 20-byte script hash.
func NewAddressScriptHashFromHash(hash []byte, params *chaincfg.Params) (*AddressScriptHash, error) {
	if len(hash) != 20 {
		return nil, makeError(ErrWitnessProgramLength, errWrongHashLength)
	}
	a := &AddressScriptHash{params: params}
	copy(a.hash[:], hash)
	return a, nil
}

func (a *AddressScriptHash) String() string { return a.EncodeAddress() }

func (a *AddressScriptHash) EncodeAddress() string {
	return base58.CheckEncode(a.hash[:], a.params.ScriptHashAddrID)
}

func (a *AddressScriptHash) ScriptAddress() []byte { return a.hash[:] }

func (a *AddressScriptHash) IsForNet(params *chaincfg.Params) bool {
	return a.params.ScriptHashAddrID == params.ScriptHashAddrID
}

func (a *AddressScriptHash) IsWitness() bool    { return false }
func (a *AddressScriptHash) IsScriptHash() bool { return true }

// AddressWitnessV0 is a BIP173 Bech32 native segwit v0 address: either
// a 20-byte P2WPKH program or a 32-byte P2WSH program, encoded under a
// network's Bech32HRPSegwit human-readable part.
type AddressWitnessV0 struct {
	program []byte
	params  *chaincfg.Params
}

// NewAddressWitnessPubKeyHash builds a P2WPKH address from a 20-byte
// pubkey hash.
func NewAddressWitnessPubKeyHash(hash []byte, params *chaincfg.Params) (*AddressWitnessV0, error) {
	if len(hash) != 20 {
		return nil, makeError(ErrWitnessProgramLength, errWrongHashLength)
	}
	return &AddressWitnessV0{program: append([]byte(nil), hash...), params: params}, nil
}

// NewAddressWitnessScriptHash builds a P2WSH address from a 32-byte
// script hash.
func NewAddressWitnessScriptHash(hash []byte, params *chaincfg.Params) (*AddressWitnessV0, error) {
	if len(hash) != 32 {
		return nil, makeError(ErrWitnessProgramLength, errWrongHashLength)
	}
	return &AddressWitnessV0{program: append([]byte(nil), hash...), params: params}, nil
}

func (a *AddressWitnessV0) String() string { return a.EncodeAddress() }

func (a *AddressWitnessV0) EncodeAddress() string {
	converted, err := bech32.ConvertBits(a.program, 8, 5, true)
	if err != nil {
		return ""
	}
	data := make([]byte, 0, len(converted)+1)
	data = append(data, 0) // witness version 0
	data = append(data, converted...)
	encoded, err := bech32.Encode(a.params.Bech32HRPSegwit, data)
	if err != nil {
		return ""
	}
	return encoded
}

func (a *AddressWitnessV0) ScriptAddress() []byte { return a.program }

func (a *AddressWitnessV0) IsForNet(params *chaincfg.Params) bool {
	return a.params.Bech32HRPSegwit == params.Bech32HRPSegwit
}

func (a *AddressWitnessV0) IsWitness() bool    { return true }
func (a *AddressWitnessV0) IsScriptHash() bool { return len(a.program) == 32 }

var errWrongHashLength = errors.New("wrong hash length for address kind")

// DecodeAddress decodes addr, trying Bech32 first and falling back to
// Base58Check, and returns the concrete Address it names. This mirrors
// Bitcoin Core's own dual-format address parsing: the two encodings use
// disjoint alphabets and checksum schemes so there is no ambiguity.
func DecodeAddress(addr string) (Address, error) {
	if hrp, data, err := bech32.Decode(addr); err == nil {
		return decodeSegwitAddress(hrp, data)
	}

	payload, version, berr := base58.CheckDecode(addr)
	if berr != nil {
		return nil, makeError(ErrBadBase58, berr)
	}

	if params, ok := chaincfg.IsPubKeyHashAddrID(version); ok {
		return NewAddressPubKeyHash(payload, params)
	}
	if params, ok := chaincfg.IsScriptHashAddrID(version); ok {
		return NewAddressScriptHashFromHash(payload, params)
	}
	return nil, makeError(ErrUnknownVersion, nil)
}

// decodeSegwitAddress validates and unpacks a BIP173 address whose
// Bech32 envelope has already been decoded: the first 5-bit group is
// the witness version, the rest is the 8-bit-regrouped program.
func decodeSegwitAddress(hrp string, data []byte) (Address, error) {
	params, ok := chaincfg.ParamsForBech32HRP(hrp)
	if !ok {
		return nil, makeError(ErrUnknownHRP, nil)
	}
	if len(data) < 1 {
		return nil, makeError(ErrBadBech32, nil)
	}

	version := data[0]
	if version > 16 {
		return nil, makeError(ErrWitnessVersion, nil)
	}

	program, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return nil, makeError(ErrBadBech32, err)
	}
	if len(program) < 2 || len(program) > 40 {
		return nil, makeError(ErrWitnessProgramLength, nil)
	}
	if version != 0 {
		// Only witness v0 has concrete address types defined here;
		// later versions (taproot and beyond) are out of scope.
		return nil, makeError(ErrWitnessVersion, nil)
	}
	switch len(program) {
	case 20:
		return NewAddressWitnessPubKeyHash(program, params)
	case 32:
		return NewAddressWitnessScriptHash(program, params)
	default:
		return nil, makeError(ErrWitnessProgramLength, nil)
	}
}
