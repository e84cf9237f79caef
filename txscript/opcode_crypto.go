package txscript

import (
	"crypto/sha1"
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160"
)

func opcodeRipemd160(op *parsedOpcode, vm *Engine) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	h := ripemd160.New()
	h.Write(buf)
	vm.dstack.PushByteArray(h.Sum(nil))
	return nil
}

func opcodeSha1(op *parsedOpcode, vm *Engine) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	hash := sha1.Sum(buf)
	vm.dstack.PushByteArray(hash[:])
	return nil
}

func opcodeSha256(op *parsedOpcode, vm *Engine) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	hash := sha256.Sum256(buf)
	vm.dstack.PushByteArray(hash[:])
	return nil
}

// opcodeHash160 computes RIPEMD160(SHA256(x)), the canonical Bitcoin
// "hash160" used for addresses.
func opcodeHash160(op *parsedOpcode, vm *Engine) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(Hash160(buf))
	return nil
}

// Hash160 computes RIPEMD160(SHA256(b)), exported for use by the
// address codecs building a P2SH address from a redeem script.
func Hash160(b []byte) []byte {
	sha := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(sha[:])
	return h.Sum(nil)
}

// opcodeHash256 computes SHA256(SHA256(x)).
func opcodeHash256(op *parsedOpcode, vm *Engine) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	first := sha256.Sum256(buf)
	second := sha256.Sum256(first[:])
	vm.dstack.PushByteArray(second[:])
	return nil
}

// opcodeCodeSeparator marks the script as being modified, and only
// returns the rest of the script since the last opcode separator to be
// used by the signature oracle.
func opcodeCodeSeparator(op *parsedOpcode, vm *Engine) error {
	vm.lastCodeSep = vm.scriptOff
	return nil
}

// opcodeCheckSig pops sig and pubkey off the stack and calls out to the
// SigVerifier oracle to determine whether sig is a valid signature over
// the current subscript's digest under pubkey, per §4.4 and §6.
func opcodeCheckSig(op *parsedOpcode, vm *Engine) error {
	pkBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	fullSigBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	valid, err := vm.verifySignature(fullSigBytes, pkBytes)
	if err != nil {
		return err
	}

	if !valid && vm.hasFlag(ScriptVerifyNullFail) && len(fullSigBytes) > 0 {
		return scriptError(ErrSigNullDummy, "signature not empty on failed checksig")
	}

	vm.dstack.PushBool(valid)
	return nil
}

func opcodeCheckSigVerify(op *parsedOpcode, vm *Engine) error {
	if err := opcodeCheckSig(op, vm); err != nil {
		return err
	}
	return abstractVerify(vm, ErrCheckSigVerifyFailed)
}

// verifySignature implements the shared core of OP_CHECKSIG: split off
// the hash type byte, compute the subscript digest via the SigHasher
// oracle (after excising the signature bytes per the legacy consensus
// rule), and call the SigVerifier oracle.
func (vm *Engine) verifySignature(fullSigBytes, pkBytes []byte) (bool, error) {
	if len(fullSigBytes) == 0 {
		return false, nil
	}
	hashType := SigHashType(fullSigBytes[len(fullSigBytes)-1])
	sigBytes := fullSigBytes[:len(fullSigBytes)-1]

	if err := vm.checkHashTypeEncoding(hashType); err != nil {
		return false, err
	}
	if err := vm.checkSignatureEncoding(sigBytes); err != nil {
		return false, err
	}
	if err := vm.checkPubKeyEncoding(pkBytes); err != nil {
		return false, err
	}

	subScript := vm.subScript()
	subScript = removeOpcodeByData(subScript, fullSigBytes)
	scriptCode, err := unparseScript(subScript)
	if err != nil {
		return false, err
	}

	hash, err := vm.checker.CalcSignatureHash(scriptCode, hashType)
	if err != nil {
		return false, err
	}

	return vm.verifier.Verify(pkBytes, sigBytes, hash), nil
}

// opcodeCheckMultiSig implements the OP_CHECKMULTISIG family described in
// §4.4: pop n, n pubkeys, m, m sigs, and an unconditionally-popped dummy
// element, then greedily match each signature against the remaining
// pubkeys in order.
func opcodeCheckMultiSig(op *parsedOpcode, vm *Engine) error {
	numKeys, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	numPubKeys := int(numKeys.Int32())
	if numPubKeys < 0 || numPubKeys > MaxPubKeysPerMultiSig {
		return scriptError(ErrPubKeyCount, "number of pubkeys is negative or too large")
	}
	vm.numOps += numPubKeys
	if vm.numOps > MaxOpsPerScript {
		return scriptError(ErrOpCount, "too many operations in script")
	}

	pubKeys := make([][]byte, 0, numPubKeys)
	for i := 0; i < numPubKeys; i++ {
		pubKey, err := vm.dstack.PopByteArray()
		if err != nil {
			return err
		}
		pubKeys = append(pubKeys, pubKey)
	}

	numSigs, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	numSignatures := int(numSigs.Int32())
	if numSignatures < 0 {
		return scriptError(ErrSigCount, "number of signatures is negative")
	}
	if numSignatures > numPubKeys {
		return scriptError(ErrSigCount, "more signatures than pubkeys")
	}

	signatures := make([][]byte, 0, numSignatures)
	for i := 0; i < numSignatures; i++ {
		signature, err := vm.dstack.PopByteArray()
		if err != nil {
			return err
		}
		signatures = append(signatures, signature)
	}

	// The dummy item is popped unconditionally, the off-by-one
	// consensus quirk noted in §4.4.
	dummy, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	if vm.hasFlag(ScriptVerifyNullDummy) && len(dummy) != 0 {
		return scriptError(ErrSigNullDummy, "multisig dummy argument has length != 0")
	}

	subScript := vm.subScript()
	for _, sig := range signatures {
		subScript = removeOpcodeByData(subScript, sig)
	}
	scriptCode, err := unparseScript(subScript)
	if err != nil {
		return err
	}

	success := true
	numPubKeysLeft := numPubKeys
	numSignaturesLeft := numSignatures
	pubKeyIdx := -1
	signatureIdx := 0

sigLoop:
	for signatureIdx < numSignatures {
		sig := signatures[signatureIdx]
		if len(sig) == 0 {
			signatureIdx++
			continue
		}
		hashType := SigHashType(sig[len(sig)-1])
		sigBytes := sig[:len(sig)-1]

		for numPubKeysLeft > 0 {
			pubKeyIdx++
			numPubKeysLeft--
			pubKey := pubKeys[pubKeyIdx]

			if err := vm.checkSignatureEncoding(sigBytes); err != nil {
				return err
			}
			if err := vm.checkPubKeyEncoding(pubKey); err != nil {
				return err
			}
			if err := vm.checkHashTypeEncoding(hashType); err != nil {
				return err
			}

			hash, err := vm.checker.CalcSignatureHash(scriptCode, hashType)
			if err != nil {
				return err
			}

			if vm.verifier.Verify(pubKey, sigBytes, hash) {
				signatureIdx++
				numSignaturesLeft--
				continue sigLoop
			}
		}

		// No matching pubkey for this signature, and not enough
		// pubkeys left to ever satisfy the remaining signatures.
		success = false
		break
	}

	if numSignaturesLeft > 0 {
		success = false
	}

	if !success && vm.hasFlag(ScriptVerifyNullFail) {
		for _, sig := range signatures {
			if len(sig) > 0 {
				return scriptError(ErrSigNullDummy, "not all signatures empty on failed checkmultisig")
			}
		}
	}

	vm.dstack.PushBool(success)
	return nil
}

func opcodeCheckMultiSigVerify(op *parsedOpcode, vm *Engine) error {
	if err := opcodeCheckMultiSig(op, vm); err != nil {
		return err
	}
	return abstractVerify(vm, ErrCheckMultiSigVerifyFailed)
}

// abstractVerify pops the top boolean pushed by the preceding CHECKSIG
// or CHECKMULTISIG call and fails with code if it is false.
func abstractVerify(vm *Engine, code string) error {
	verified, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}
	if !verified {
		return scriptError(code, "checksig/checkmultisig verify failed")
	}
	return nil
}
