package opcode

// Binary minors. Case-blind ("_NC", no-case) comparison/string variants sit
// immediately after their case-sensitive counterpart: e.g.
// BCompareEQ_NC == BCompareEQ+1, and so on for Find/First/Rest. CompareNC (the
// peephole rule) subtracts 1 from the minor to flip NC -> sensitive.
const (
	BAdd uint8 = iota
	BSub
	BMult
	BDivide
	BIntegerDivide
	BPow
	BBitAnd
	BBitOr
	BBitXor
	BATan
	BArrayDim
	BConcat
	BAnd
	BOr
	BCompareEQ
	BCompareEQ_NC
	BCompareNE
	BCompareNE_NC
	BCompareLT
	BCompareLT_NC
	BCompareLE
	BCompareLE_NC
	BCompareGT
	BCompareGT_NC
	BFind
	BFind_NC
	BFirst
	BFirst_NC
	BRest
	BRest_NC
)

// IsCaseBlind reports whether minor is one of the "_NC" (no-case) binary
// comparison/string variants, i.e. it has a case-sensitive cousin at
// minor-1.
func IsCaseBlind(minor uint8) bool {
	switch minor {
	case BCompareEQ_NC, BCompareNE_NC, BCompareLT_NC, BCompareLE_NC, BCompareGT_NC, BFind_NC, BFirst_NC, BRest_NC:
		return true
	default:
		return false
	}
}

// IsComparisonBinary reports whether minor is a comparison op, the set
// fusion looks for ahead of a conditional-pop jump.
func IsComparisonBinary(minor uint8) bool {
	switch minor {
	case BCompareEQ, BCompareEQ_NC, BCompareNE, BCompareNE_NC,
		BCompareLT, BCompareLT_NC, BCompareLE, BCompareLE_NC, BCompareGT, BCompareGT_NC:
		return true
	default:
		return false
	}
}

// ResultIsBoolean reports whether a Binary instruction with this minor
// provably produces a Boolean result, per FoldBinaryTypeCheck.
func ResultIsBoolean(minor uint8) bool {
	switch minor {
	case BAnd, BOr,
		BCompareEQ, BCompareEQ_NC, BCompareNE, BCompareNE_NC,
		BCompareLT, BCompareLT_NC, BCompareLE, BCompareLE_NC, BCompareGT, BCompareGT_NC:
		return true
	default:
		return false
	}
}

// ResultIsNumeric reports whether a Binary instruction with this minor
// provably produces a numeric result, per FoldBinaryTypeCheck (arithmetic,
// comparison-find, BitAnd/Or/Xor, ATan, ArrayDim).
func ResultIsNumeric(minor uint8) bool {
	switch minor {
	case BAdd, BSub, BMult, BDivide, BIntegerDivide, BPow,
		BBitAnd, BBitOr, BBitXor, BATan, BArrayDim, BFind, BFind_NC:
		return true
	default:
		return false
	}
}

// Unary minors mirror value.UnaryKind one-to-one so the optimizer can hand
// an Opcode's Minor straight to value.ExecuteUnaryOperation.
const (
	UZap uint8 = iota
	UNeg
	UPos
	UNot
	UNot2
	UBool
	UAbs
	UIsEmpty
	UIsString
	UIsNum
	UTrunc
	URound
	UInc
	UDec
	UBitNot
)

// Stack minors.
const (
	StackDrop uint8 = iota
	StackSwap
	StackDup
)

// Special minors: the small set of non-storage, non-arithmetic ops the
// optimizer and HasUserCall need to recognize by name.
const (
	SpDefSub uint8 = iota
	SpDefShipProperty
	SpDefPlanetProperty
	SpEvalStatement
	SpEvalExpr
	SpRunHook
	SpThrow
	SpTerminate
	SpReturn
)

// IsNameBearingSpecial reports whether a Special instruction's Arg indexes
// the name pool and must be re-interned on Append, per bytecodeobject.cpp.
func IsNameBearingSpecial(minor uint8) bool {
	switch minor {
	case SpDefSub, SpDefShipProperty, SpDefPlanetProperty:
		return true
	default:
		return false
	}
}

// IsUserCallSpecial reports whether a Special minor counts as a "user call"
// for BytecodeObject.HasUserCall.
func IsUserCallSpecial(minor uint8) bool {
	switch minor {
	case SpEvalStatement, SpEvalExpr, SpRunHook:
		return true
	default:
		return false
	}
}

// EndsControlFlow reports whether a Special minor unconditionally ends
// control flow at this point, for the optimizer's RemoveUnused rule (erase
// everything up to the next Label after an unconditional jump, Throw,
// Terminate, or Return).
func EndsControlFlow(minor uint8) bool {
	switch minor {
	case SpThrow, SpTerminate, SpReturn:
		return true
	default:
		return false
	}
}

// MemRef/Indirect minors: load vs. store/call duality used by
// StoreDropMember.
const (
	MemLoad uint8 = iota
	MemStore
	MemCall // Indirect's "call" form, the non-store dual used by StoreDropMember
)
