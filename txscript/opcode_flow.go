package txscript

// opcodeDisabled is a common handler for disabled opcodes. It returns an
// appropriate error indicating the opcode is disabled. While it would
// ordinarily make more sense to detect if the script contains any
// disabled opcodes before executing in an initial parse step, the
// consensus rule requires it to be a rejection even when the opcode
// never executes (§4.1 step 3), so the dispatch loop is responsible for
// checking isDisabled() up front; this handler only exists to populate
// the opcode table.
func opcodeDisabled(op *parsedOpcode, vm *Engine) error {
	return scriptError(ErrDisabledOpcode, op.opcode.name+" is a disabled opcode")
}

// opcodeReserved is a common handler for reserved opcodes, which are
// only valid if they occur in a branch that is not being executed.
func opcodeReserved(op *parsedOpcode, vm *Engine) error {
	return scriptError(ErrReservedOpcode, op.opcode.name+" is a reserved opcode")
}

// opcodeInvalid is a common handler for invalid opcodes.
func opcodeInvalid(op *parsedOpcode, vm *Engine) error {
	return scriptError(ErrBadOpcode, op.opcode.name+" is an invalid opcode")
}

// opcodeNop is a common handler for the NOP family, all of which do
// nothing except, for the ones reserved for upgrades (NOP1, NOP4-NOP10),
// optionally reject the script
// when ScriptDiscourageUpgradableNops is set so unknown future upgrades
// can't be confused with a successful evaluation.
func opcodeNop(op *parsedOpcode, vm *Engine) error {
	switch op.opcode.value {
	case OP_NOP1, OP_NOP4, OP_NOP5, OP_NOP6, OP_NOP7, OP_NOP8, OP_NOP9, OP_NOP10:
		if vm.hasFlag(ScriptDiscourageUpgradableNops) {
			return scriptError(ErrDiscourageUpgradableNops,
				"script contains "+op.opcode.name+" but the flag to discourage use of NOPs is set")
		}
	}
	return nil
}

// opcodePushData is the common handler for all numeric data push
// opcodes, OP_0 through OP_PUSHDATA4. It simply pushes the associated
// data to the data stack.
func opcodePushData(op *parsedOpcode, vm *Engine) error {
	vm.dstack.PushByteArray(op.data)
	return nil
}

// opcodeNegate pushes -1, handling the OP_1NEGATE opcode.
func opcodeNegate(op *parsedOpcode, vm *Engine) error {
	vm.dstack.PushInt(ScriptNum(-1))
	return nil
}

// opcodeN pushes the small integer a given opcode represents (OP_1
// through OP_16) onto the data stack.
func opcodeN(op *parsedOpcode, vm *Engine) error {
	vm.dstack.PushInt(ScriptNum(asSmallInt(op.opcode.value)))
	return nil
}

// opcodeIf treats the top item on the execution stack as a boolean
// and pushes it (or its negation, for NOTIF) as a new entry in the
// conditional stack (§3's `conditional` field, §4.4's control flow
// rules). If the current conditional branch is not executing, both IF
// and NOTIF push the special "skip" state regardless of the stack top.
func opcodeIf(op *parsedOpcode, vm *Engine) error {
	condVal := opCondFalse
	if vm.isBranchExecuting() {
		if vm.hasFlag(ScriptVerifyMinimalIf) {
			if vm.dstack.Depth() < 1 {
				return scriptError(ErrInvalidStackOperation, "condition stack empty")
			}
			ok, err := vm.dstack.PeekByteArray(0)
			if err != nil {
				return err
			}
			if len(ok) > 1 || (len(ok) == 1 && ok[0] != 1) {
				return scriptError(ErrMinimalData, "conditional has non-minimal value")
			}
		}
		ok, err := vm.dstack.PopBool()
		if err != nil {
			return err
		}
		if ok {
			condVal = opCondTrue
		}
	} else {
		condVal = opCondSkip
	}
	vm.condStack = append(vm.condStack, condVal)
	return nil
}

// opcodeNotIf is identical to opcodeIf except it inverts the popped
// boolean before pushing the conditional state.
func opcodeNotIf(op *parsedOpcode, vm *Engine) error {
	condVal := opCondFalse
	if vm.isBranchExecuting() {
		if vm.hasFlag(ScriptVerifyMinimalIf) {
			if vm.dstack.Depth() < 1 {
				return scriptError(ErrInvalidStackOperation, "condition stack empty")
			}
			ok, err := vm.dstack.PeekByteArray(0)
			if err != nil {
				return err
			}
			if len(ok) > 1 || (len(ok) == 1 && ok[0] != 1) {
				return scriptError(ErrMinimalData, "conditional has non-minimal value")
			}
		}
		ok, err := vm.dstack.PopBool()
		if err != nil {
			return err
		}
		if !ok {
			condVal = opCondTrue
		}
	} else {
		condVal = opCondSkip
	}
	vm.condStack = append(vm.condStack, condVal)
	return nil
}

// opcodeElse flips the top conditional state (an unmatched ELSE with no
// preceding IF/NOTIF is fatal).
func opcodeElse(op *parsedOpcode, vm *Engine) error {
	if len(vm.condStack) == 0 {
		return scriptError(ErrUnbalancedConditional, "encountered opcode else with no matching if")
	}

	conditionalIdx := len(vm.condStack) - 1
	switch vm.condStack[conditionalIdx] {
	case opCondTrue:
		vm.condStack[conditionalIdx] = opCondFalse
	case opCondFalse:
		vm.condStack[conditionalIdx] = opCondTrue
	case opCondSkip:
		// Remains skipped.
	}
	return nil
}

// opcodeEndif pops the top conditional state (an unmatched ENDIF is
// fatal).
func opcodeEndif(op *parsedOpcode, vm *Engine) error {
	if len(vm.condStack) == 0 {
		return scriptError(ErrUnbalancedConditional, "encountered opcode endif with no matching if")
	}
	vm.condStack = vm.condStack[:len(vm.condStack)-1]
	return nil
}

// opcodeVerify examines the top item on the data stack as a boolean and
// verifies it evaluates to true.
func opcodeVerify(op *parsedOpcode, vm *Engine) error {
	verified, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}
	if !verified {
		return scriptError(ErrVerifyFailed, "script ran, but verification failed")
	}
	return nil
}

// opcodeReturn is always fatal when reached in an executed branch.
func opcodeReturn(op *parsedOpcode, vm *Engine) error {
	return scriptError(ErrReturnExecuted, "script returned early")
}

// opcodeToAltStack pops the top data stack item and pushes it onto the
// alt stack.
func opcodeToAltStack(op *parsedOpcode, vm *Engine) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	vm.astack.PushByteArray(so)
	return nil
}

// opcodeFromAltStack pops the top alt-stack item and pushes it onto the
// data stack; an empty alt stack is fatal (§4.2).
func opcodeFromAltStack(op *parsedOpcode, vm *Engine) error {
	so, err := vm.astack.PopByteArray()
	if err != nil {
		return scriptError(ErrInvalidAltStackOperation, "attempt to pop from an empty alt stack")
	}
	vm.dstack.PushByteArray(so)
	return nil
}
