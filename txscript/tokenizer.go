package txscript

import "encoding/binary"

// maxScriptSize is the maximum allowed length of a raw script.
const maxScriptSize = 10000

// parseScript preparses the script in bytes into a list of parsed
// opcodes while applying a number of sanity checks, implementing the
// reverse direction of §4.5: peek the opcode byte, and for pushes read
// the associated length prefix (direct, or the 1/2/4-byte little-endian
// field for OP_PUSHDATA1/2/4) before consuming that many data bytes.
func parseScript(script []byte) ([]parsedOpcode, error) {
	return parseScriptTemplate(script, &opcodeArray)
}

func parseScriptTemplate(script []byte, opcodes *[256]opcode) ([]parsedOpcode, error) {
	retScript := make([]parsedOpcode, 0, len(script))
	for i := 0; i < len(script); {
		instr := script[i]
		op := &opcodes[instr]
		pop := parsedOpcode{opcode: op}

		switch {
		// Opcodes with no additional data bytes.
		case op.length == 1:
			i++

		// Data pushes of specific lengths -- OP_DATA_[1-75].
		case op.length > 1:
			if len(script[i:]) < op.length {
				return nil, scriptError(ErrBadOpcode, "opcode requires more bytes than available")
			}
			pop.data = script[i+1 : i+op.length]
			i += op.length

		case op.length < 0:
			var l int
			off := i + 1

			switch op.length {
			case -1:
				if len(script[off:]) < 1 {
					return nil, scriptError(ErrBadOpcode, "opcode requires more bytes than available")
				}
				l = int(script[off])
				off++

			case -2:
				if len(script[off:]) < 2 {
					return nil, scriptError(ErrBadOpcode, "opcode requires more bytes than available")
				}
				l = int(binary.LittleEndian.Uint16(script[off : off+2]))
				off += 2

			case -4:
				if len(script[off:]) < 4 {
					return nil, scriptError(ErrBadOpcode, "opcode requires more bytes than available")
				}
				l = int(binary.LittleEndian.Uint32(script[off : off+4]))
				off += 4

			default:
				return nil, scriptError(ErrBadOpcode, "invalid opcode length")
			}

			if l < 0 || l > len(script[off:]) {
				return nil, scriptError(ErrBadOpcode, "opcode pushes more bytes than available")
			}

			pop.data = script[off : off+l]
			i = off + l
		}

		retScript = append(retScript, pop)
	}

	return retScript, nil
}

// unparseScript reversed the action of parseScript and returns the
// result as a byte array, implementing the forward direction of §4.5.
func unparseScript(pops []parsedOpcode) ([]byte, error) {
	script := make([]byte, 0, len(pops))
	for _, pop := range pops {
		b, err := pop.bytes()
		if err != nil {
			return nil, err
		}
		script = append(script, b...)
	}
	return script, nil
}

// calcScriptLen returns the number of bytes the serialization of pops
// would occupy.
func calcScriptLen(pops []parsedOpcode) int {
	n := 0
	for _, pop := range pops {
		if pop.opcode.length > 0 {
			n += pop.opcode.length
		} else {
			switch pop.opcode.length {
			case -1:
				n += 2 + len(pop.data)
			case -2:
				n += 3 + len(pop.data)
			case -4:
				n += 5 + len(pop.data)
			default:
				n += 1
			}
		}
	}
	return n
}

// removeOpcodeByData will return the script minus any opcodes that would
// push the passed data to the stack. This is used during the legacy
// OP_CHECKSIG / OP_CHECKMULTISIG consensus rule of removing the
// signature itself from the subscript before computing the sighash, and
// it is exposed so callers can apply the same rule from outside the
// interpreter (e.g. building a redeem script disassembler).
func removeOpcodeByData(pkscript []parsedOpcode, data []byte) []parsedOpcode {
	retScript := make([]parsedOpcode, 0, len(pkscript))
	for _, pop := range pkscript {
		if !canonicalPush(pop) || !dataContains(pop.data, data) {
			retScript = append(retScript, pop)
		}
	}
	return retScript
}

// dataContains reports whether haystack contains needle as a contiguous
// subsequence, which is the legacy (and somewhat loose) btcd/Bitcoin
// Core rule for OP_CHECKSIG subscript signature removal: it strips any
// push whose payload merely contains the signature bytes, not only an
// exact match.
func dataContains(haystack, needle []byte) bool {
	if len(needle) == 0 {
		return false
	}
	if len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// canonicalPush returns true if the opcode is either a push of data or
// a small integer constant that could be pushed in a canonical way.
func canonicalPush(pop parsedOpcode) bool {
	opcode := pop.opcode.value
	if opcode > OP_16 {
		return false
	}

	if opcode < OP_PUSHDATA1 && opcode > OP_0 && (len(pop.data) != int(opcode)) {
		return false
	}
	return true
}
