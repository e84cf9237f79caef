// Package chaincfg is the network parameter registry consulted by the
// address codecs and the ScriptPubKey factory. It generalizes the
// teacher library's own config.Params/config.Register pattern from a
// single chain to a small registry of built-in Bitcoin networks.
package chaincfg

import "fmt"

// Params defines a Bitcoin-shaped network by the magic bytes and human
// readable prefixes that differentiate its addresses from any other
// network's.
type Params struct {
	// Name is a human-readable identifier for the network.
	Name string

	// PubKeyHashAddrID is the version byte prepended to a P2PKH address
	// payload before Base58Check encoding.
	PubKeyHashAddrID byte

	// ScriptHashAddrID is the version byte prepended to a P2SH address
	// payload before Base58Check encoding.
	ScriptHashAddrID byte

	// Bech32HRPSegwit is the human-readable part used for this
	// network's Bech32 segwit addresses, as defined in BIP173.
	Bech32HRPSegwit string
}

// MainNetParams defines the parameters for the main Bitcoin network.
var MainNetParams = Params{
	Name:             "mainnet",
	PubKeyHashAddrID: 0x00,
	ScriptHashAddrID: 0x05,
	Bech32HRPSegwit:  "bc",
}

// TestNetParams defines the parameters for the test Bitcoin network.
var TestNetParams = Params{
	Name:             "testnet",
	PubKeyHashAddrID: 0x6F,
	ScriptHashAddrID: 0xC4,
	Bech32HRPSegwit:  "tb",
}

var (
	registeredParams = map[string]*Params{
		MainNetParams.Name: &MainNetParams,
		TestNetParams.Name: &TestNetParams,
	}

	pubKeyHashAddrIDs = map[byte]*Params{
		MainNetParams.PubKeyHashAddrID: &MainNetParams,
		TestNetParams.PubKeyHashAddrID: &TestNetParams,
	}
	scriptHashAddrIDs = map[byte]*Params{
		MainNetParams.ScriptHashAddrID: &MainNetParams,
		TestNetParams.ScriptHashAddrID: &TestNetParams,
	}
	bech32Prefixes = map[string]*Params{
		MainNetParams.Bech32HRPSegwit: &MainNetParams,
		TestNetParams.Bech32HRPSegwit: &TestNetParams,
	}
)

// ErrDuplicateNet signals that Register was called twice for the same
// network name.
var ErrDuplicateNet = fmt.Errorf("duplicate network registration")

// Register adds params to the set of known networks so that address
// decoding can subsequently recognize its version bytes and HRP. Mirrors
// the teacher's config.Register, generalized to track the reverse
// lookups address decoding needs.
func Register(params *Params) error {
	if _, ok := registeredParams[params.Name]; ok {
		return ErrDuplicateNet
	}
	registeredParams[params.Name] = params
	pubKeyHashAddrIDs[params.PubKeyHashAddrID] = params
	scriptHashAddrIDs[params.ScriptHashAddrID] = params
	bech32Prefixes[params.Bech32HRPSegwit] = params
	return nil
}

// ParamsByName returns a registered network's parameters by name.
func ParamsByName(name string) (*Params, bool) {
	p, ok := registeredParams[name]
	return p, ok
}

// IsPubKeyHashAddrID reports whether id is a known P2PKH version byte on
// any registered network.
func IsPubKeyHashAddrID(id byte) (*Params, bool) {
	p, ok := pubKeyHashAddrIDs[id]
	return p, ok
}

// IsScriptHashAddrID reports whether id is a known P2SH version byte on
// any registered network.
func IsScriptHashAddrID(id byte) (*Params, bool) {
	p, ok := scriptHashAddrIDs[id]
	return p, ok
}

// ParamsForBech32HRP returns the network whose Bech32 HRP is hrp.
func ParamsForBech32HRP(hrp string) (*Params, bool) {
	p, ok := bech32Prefixes[hrp]
	return p, ok
}
