package txscript

// MaxScriptElementSize is the maximum number of bytes a single item may
// occupy on either stack (the "single push <= 520 bytes" resource bound
// in §5).
const MaxScriptElementSize = 520

// ScriptBuilder provides a facility for building custom scripts. It
// allows the simple construction of scripts such as pay-to-address and
// multi-signature scripts while still allowing the user to enter
// arbitrary data into the script, matching the teacher's convention of
// an append-and-finalize builder rather than an up-front token slice.
type ScriptBuilder struct {
	script []byte
	err    error
}

// AddOp pushes the passed opcode to the end of the script. The script
// will not be modified if pushing the opcode would cause the script to
// exceed the maximum allowed script engine size.
func (b *ScriptBuilder) AddOp(opcode byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}

	if len(b.script)+1 > maxScriptSize {
		b.err = scriptError(ErrScriptSize, "adding an opcode would exceed the maximum allowed script length")
		return b
	}

	b.script = append(b.script, opcode)
	return b
}

// AddOps pushes the passed opcodes to the end of the script.
func (b *ScriptBuilder) AddOps(opcodes []byte) *ScriptBuilder {
	for _, op := range opcodes {
		b.AddOp(op)
	}
	return b
}

// AddInt64 pushes the passed integer to the end of the script. The
// script will not be modified if pushing the int64 would cause the
// script to exceed the maximum allowed script engine size.
func (b *ScriptBuilder) AddInt64(val int64) *ScriptBuilder {
	if b.err != nil {
		return b
	}

	if len(b.script)+1 > maxScriptSize {
		b.err = scriptError(ErrScriptSize, "adding an integer would exceed the maximum allowed script length")
		return b
	}

	if val == 0 {
		b.script = append(b.script, OP_0)
		return b
	}

	if val == -1 || (val >= 1 && val <= 16) {
		if val == -1 {
			b.script = append(b.script, OP_1NEGATE)
		} else {
			b.script = append(b.script, byte((OP_1-1)+val))
		}
		return b
	}

	return b.AddData(ScriptNum(val).Bytes())
}

// AddData pushes the passed data to the end of the script, choosing the
// minimal encoding per §4.5's calculatePushOp: a direct push-length for
// up to 75 bytes, else OP_PUSHDATA1 up to 255, else OP_PUSHDATA2 up to
// 65535, else OP_PUSHDATA4.
func (b *ScriptBuilder) AddData(data []byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}

	dataSize := canonicalDataSize(data)
	if len(b.script)+dataSize > maxScriptSize {
		b.err = scriptError(ErrScriptSize, "adding data would exceed the maximum allowed script length")
		return b
	}

	if len(data) > MaxScriptElementSize {
		b.err = scriptError(ErrPushSize, "adding data would cause a single push to exceed the maximum allowed size")
		return b
	}

	b.script = addData(b.script, data)
	return b
}

// Script returns the currently built script. When any errors occurred
// while building the script, the script will be returned up to the
// point of the first error along with the error.
func (b *ScriptBuilder) Script() ([]byte, error) {
	return b.script, b.err
}

// Reset resets the script so it has no content.
func (b *ScriptBuilder) Reset() *ScriptBuilder {
	b.script = b.script[0:0]
	b.err = nil
	return b
}

// NewScriptBuilder returns a new instance of a script builder.
func NewScriptBuilder() *ScriptBuilder {
	return &ScriptBuilder{
		script: make([]byte, 0, 500),
	}
}

// canonicalDataSize returns the number of bytes the canonical encoding of
// data will take.
func canonicalDataSize(data []byte) int {
	dataLen := len(data)

	if dataLen == 0 {
		return 1
	} else if dataLen == 1 && data[0] <= 16 {
		return 1
	} else if dataLen == 1 && data[0] == 0x81 {
		return 1
	}

	if dataLen < OP_PUSHDATA1 {
		return 1 + dataLen
	} else if dataLen <= 0xff {
		return 2 + dataLen
	} else if dataLen <= 0xffff {
		return 3 + dataLen
	}

	return 5 + dataLen
}

// addData is the internal function that actually pushes the passed data
// to an existing byte slice. It implements calculatePushOp.
func addData(script []byte, data []byte) []byte {
	dataLen := len(data)

	// When the data consists of a single number that can be represented
	// by one of the "small integer" opcodes, use that opcode instead of
	// a data push opcode followed by the number.
	if dataLen == 0 || (dataLen == 1 && data[0] == 0) {
		return append(script, OP_0)
	} else if dataLen == 1 && data[0] <= 16 {
		return append(script, byte((OP_1-1)+data[0]))
	} else if dataLen == 1 && data[0] == 0x81 {
		return append(script, byte(OP_1NEGATE))
	}

	// Use the direct single-byte push opcode if the length of the data
	// is 1 to 75 bytes.
	if dataLen < OP_PUSHDATA1 {
		script = append(script, byte((OP_DATA_1-1)+dataLen))
	} else if dataLen <= 0xff {
		script = append(script, OP_PUSHDATA1, byte(dataLen))
	} else if dataLen <= 0xffff {
		script = append(script, OP_PUSHDATA2)
		buf := make([]byte, 2)
		buf[0] = byte(dataLen)
		buf[1] = byte(dataLen >> 8)
		script = append(script, buf...)
	} else {
		script = append(script, OP_PUSHDATA4)
		buf := make([]byte, 4)
		buf[0] = byte(dataLen)
		buf[1] = byte(dataLen >> 8)
		buf[2] = byte(dataLen >> 16)
		buf[3] = byte(dataLen >> 24)
		script = append(script, buf...)
	}

	script = append(script, data...)
	return script
}
