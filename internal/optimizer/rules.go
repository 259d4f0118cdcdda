package optimizer

import (
	"github.com/stefanreuther/c2ng-sub044/internal/cerr"
	"github.com/stefanreuther/c2ng-sub044/internal/opcode"
	"github.com/stefanreuther/c2ng-sub044/internal/value"
)

// doStoreDrop combines Store+Drop into Pop, folding the drop count down by
// one. A Drop that reaches zero is swept by doNullOp on a later pass.
func (s *state) doStoreDrop(pc int) bool {
	next := s.bco.Code[pc+1]
	if next.Major != opcode.Stack || next.Minor != opcode.StackDrop || next.Arg <= 0 {
		return false
	}
	cur := s.bco.Code[pc]
	s.bco.Code[pc] = opcode.New(opcode.Pop, cur.Minor, cur.Arg)
	s.bco.Code[pc+1] = opcode.New(opcode.Stack, opcode.StackDrop, next.Arg-1)
	return true
}

// doStoreDropMember is StoreDrop's member-access counterpart: a member load
// immediately dropped is the same as calling the member for its side effect
// alone. Registered against both MemRef and Indirect, since both majors
// share the load/store/call minor space (see opcode.MemLoad). (Member
// stores never push a value in this model, so only the load form needs
// rewriting here.)
func (s *state) doStoreDropMember(pc int) bool {
	cur := s.bco.Code[pc]
	if (cur.Major != opcode.MemRef && cur.Major != opcode.Indirect) || cur.Minor != opcode.MemLoad {
		return false
	}
	next := s.bco.Code[pc+1]
	if next.Major != opcode.Stack || next.Minor != opcode.StackDrop || next.Arg <= 0 {
		return false
	}
	s.bco.Code[pc] = opcode.New(cur.Major, opcode.MemCall, cur.Arg)
	s.bco.Code[pc+1] = opcode.New(opcode.Stack, opcode.StackDrop, next.Arg-1)
	return true
}

// doMergeDrop combines two adjacent Drops into one, the pattern left behind
// by a Select Case inside a For loop (one Drop for the selector, one for
// the loop bound). If the combined count would overflow the 16-bit arg
// range, it records a RangeOverflowError on s and declines instead.
func (s *state) doMergeDrop(pc int) bool {
	cur := s.bco.Code[pc]
	next := s.bco.Code[pc+1]
	if cur.Major != opcode.Stack || cur.Minor != opcode.StackDrop {
		return false
	}
	if next.Major != opcode.Stack || next.Minor != opcode.StackDrop {
		return false
	}
	total := int64(cur.Arg) + int64(next.Arg)
	if total > 0xFFFF {
		s.lastRangeOverflow = &cerr.RangeOverflowError{Operation: "MergeDrop", Value: total}
		return false
	}
	s.clearInstruction(pc)
	s.bco.Code[pc+1] = opcode.New(opcode.Stack, opcode.StackDrop, int32(total))
	return true
}

// doNullOp removes Drop 0 and Swap 0, which StoreDrop and hand-written code
// both leave behind.
func (s *state) doNullOp(pc int) bool {
	cur := s.bco.Code[pc]
	if cur.Major != opcode.Stack {
		return false
	}
	if (cur.Minor != opcode.StackDrop && cur.Minor != opcode.StackSwap) || cur.Arg != 0 {
		return false
	}
	s.clearInstruction(pc)
	return true
}

// doEraseUnusedLabels removes a symbolic label nothing jumps to anymore --
// common once ThreadJumps and RemoveUnused have done their work.
func (s *state) doEraseUnusedLabels(pc int) bool {
	cur := s.bco.Code[pc]
	if !cur.IsLabel() || !cur.IsSymbolic() {
		return false
	}
	info, ok := s.labels[uint16(cur.Arg)]
	if !ok || info.useCount != 0 {
		return false
	}
	s.clearInstruction(pc)
	return true
}

// doInvertJumps turns a conditional jump across another jump into one
// inverted conditional jump, the shape "if cond then goto L1; goto L2; L1:"
// compiles to before this rule collapses it.
func (s *state) doInvertJumps(pc int) bool {
	cur := s.bco.Code[pc]
	if !cur.IsRegularJump() {
		return false
	}
	info, ok := s.labels[uint16(cur.Arg)]
	if !ok || info.address != pc+2 {
		return false
	}
	next := s.bco.Code[pc+1]
	if !next.IsRegularJump() {
		return false
	}
	if next.Minor&opcode.JPopAlways != 0 {
		return false
	}
	if cur.Minor&opcode.JPopAlways != 0 && next.Condition() != opcode.JAlways {
		return false
	}

	nextMinor := (next.Minor &^ (cur.Minor & opcode.JAlways)) | (cur.Minor & opcode.JPopAlways)
	if nextMinor&opcode.JAlways == 0 {
		s.clearInstruction(pc)
		s.clearInstruction(pc + 1)
		if nextMinor&opcode.JPopAlways != 0 {
			s.bco.Code[pc+1] = opcode.New(opcode.Stack, opcode.StackDrop, 1)
		}
	} else {
		s.clearInstruction(pc)
		s.bco.Code[pc+1] = opcode.New(opcode.Jump, nextMinor, next.Arg)
	}
	return true
}

// doThreadJumps retargets a jump chasing labels, unconditional jumps and
// same-condition jumps down to its real destination, following at most one
// backward edge per call so loops can't make this diverge.
func (s *state) doThreadJumps(pc int) bool {
	cur := s.bco.Code[pc]
	if !cur.IsRegularJump() {
		return false
	}

	hadBackwardJump := false
	targetID := uint16(cur.Arg)
	for {
		info, ok := s.labels[targetID]
		if !ok {
			return false
		}
		targetAddr := info.address
		if targetAddr+1 >= len(s.bco.Code) {
			break
		}
		next := s.bco.Code[targetAddr+1]
		if next.IsLabel() && next.IsSymbolic() {
			targetID = uint16(next.Arg)
			continue
		}
		if next.IsRegularJump() &&
			(next.Minor == opcode.JAlways|opcode.JSymbolic ||
				(cur.Minor&opcode.JPopAlways == 0 && next.Minor&opcode.JPopAlways == 0 && cur.Minor&^next.Minor == 0)) {
			arg := uint16(next.Arg)
			argInfo, ok := s.labels[arg]
			if !ok {
				return false
			}
			if argInfo.address <= targetAddr {
				if hadBackwardJump {
					break
				}
				hadBackwardJump = true
			}
			targetID = arg
			continue
		}
		break
	}

	final, ok := s.labels[targetID]
	if !ok {
		return false
	}
	if final.address == pc+1 {
		if cur.Minor&opcode.JPopAlways != 0 {
			s.clearInstruction(pc)
			s.bco.Code[pc] = opcode.New(opcode.Stack, opcode.StackDrop, 1)
		} else {
			s.clearInstruction(pc)
		}
		return true
	}
	if targetID != uint16(cur.Arg) {
		s.retarget(pc, targetID)
		return true
	}
	return false
}

// doMergeJumps collapses a conditional jump immediately followed by an
// unconditional jump to the same target -- a condition evaluated and
// discarded, as in a bare "f() Or g()" statement.
func (s *state) doMergeJumps(pc int) bool {
	cur := s.bco.Code[pc]
	next := s.bco.Code[pc+1]
	if !cur.IsRegularJump() || !next.IsRegularJump() {
		return false
	}
	if next.Condition() != opcode.JAlways {
		return false
	}
	if cur.Arg != next.Arg || cur.IsSymbolic() != next.IsSymbolic() {
		return false
	}
	var arg int32
	if cur.Minor&opcode.JPopAlways != 0 {
		arg = 1
	}
	s.bco.Code[pc] = opcode.New(opcode.Stack, opcode.StackDrop, arg)
	return true
}

// doRemoveUnused strikes out code between an unconditional jump, Throw,
// Terminate or Return and the next label: it can never run.
func (s *state) doRemoveUnused(pc int) bool {
	cur := s.bco.Code[pc]
	isUnconditionalJump := cur.IsRegularJump() && cur.Condition() == opcode.JAlways
	isEnder := cur.Major == opcode.Special && opcode.EndsControlFlow(cur.Minor)
	if !isUnconditionalJump && !isEnder {
		return false
	}
	i := pc + 1
	for i < len(s.bco.Code) && !s.bco.Code[i].IsLabel() {
		s.clearInstruction(i)
		i++
	}
	return i > pc+1
}

const (
	mnNone     = -1
	mnRepFalse = -2
	mnZapBool  = -3
)

// doMergeNegation merges two adjacent unary logic/sign operators into one,
// e.g. Zap followed by IsEmpty collapses to Not2 ("If IsEmpty(Zap(x))").
func (s *state) doMergeNegation(pc int) bool {
	next := s.bco.Code[pc+1]
	if next.Major != opcode.Unary {
		return false
	}
	cur := s.bco.Code[pc]
	result := mnNone

	switch cur.Minor {
	case opcode.UNot:
		switch next.Minor {
		case opcode.UNot:
			result = int(opcode.UBool)
		case opcode.UBool:
			result = int(opcode.UNot)
		case opcode.UIsEmpty:
			result = int(opcode.UIsEmpty)
		}
	case opcode.UBool:
		switch next.Minor {
		case opcode.UNot:
			result = int(opcode.UNot)
		case opcode.UBool:
			result = int(opcode.UBool)
		case opcode.UNot2:
			result = int(opcode.UNot2)
		case opcode.UIsEmpty:
			result = int(opcode.UIsEmpty)
		case opcode.UZap:
			result = mnZapBool
		}
	case opcode.UNot2:
		switch next.Minor {
		case opcode.UBool:
			result = int(opcode.UNot2)
		case opcode.UIsEmpty:
			result = mnRepFalse
		}
	case opcode.UIsEmpty:
		switch next.Minor {
		case opcode.UBool:
			result = int(opcode.UIsEmpty)
		case opcode.UIsEmpty:
			result = mnRepFalse
		}
	case opcode.UZap:
		switch next.Minor {
		case opcode.UNot2:
			result = int(opcode.UNot2)
		case opcode.UIsEmpty:
			result = int(opcode.UNot2)
		case opcode.UZap:
			result = int(opcode.UZap)
		}
	case opcode.UNeg:
		switch next.Minor {
		case opcode.UNeg:
			result = int(opcode.UPos)
		case opcode.UPos:
			result = int(opcode.UNeg)
		}
	case opcode.UPos:
		switch next.Minor {
		case opcode.UNeg:
			result = int(opcode.UNeg)
		case opcode.UPos:
			result = int(opcode.UPos)
		case opcode.UInc:
			result = int(opcode.UInc)
		case opcode.UDec:
			result = int(opcode.UDec)
		}
	case opcode.UInc:
		switch next.Minor {
		case opcode.UDec:
			result = int(opcode.UPos)
		case opcode.UPos:
			result = int(opcode.UInc)
		}
	case opcode.UDec:
		switch next.Minor {
		case opcode.UInc:
			result = int(opcode.UPos)
		case opcode.UPos:
			result = int(opcode.UDec)
		}
	}

	switch result {
	case mnNone:
		return false
	case mnRepFalse:
		s.bco.Code[pc] = opcode.New(opcode.Stack, opcode.StackDrop, 1)
		s.bco.Code[pc+1] = opcode.New(opcode.Push, opcode.StBoolean, 0)
		return true
	case mnZapBool:
		s.bco.Code[pc] = opcode.New(opcode.Unary, opcode.UZap, cur.Arg)
		s.bco.Code[pc+1] = opcode.New(opcode.Unary, opcode.UBool, next.Arg)
		return true
	default:
		s.clearInstruction(pc)
		s.bco.Code[pc+1] = opcode.New(opcode.Unary, uint8(result), next.Arg)
		return true
	}
}

// doUnaryCondition merges a unary logic op with a following conditional-pop
// jump by transforming the jump's condition bits instead, e.g. Not+JumpTrueP
// becomes JumpFalseP. Common in "If Not x Then".
func (s *state) doUnaryCondition(pc int) bool {
	cur := s.bco.Code[pc]
	if cur.Major != opcode.Unary {
		return false
	}
	next := s.bco.Code[pc+1]
	if !next.IsRegularJump() || next.Minor&opcode.JPopAlways == 0 {
		return false
	}
	oldCond := next.Condition()
	var newCond uint8
	switch cur.Minor {
	case opcode.UIsEmpty:
		if oldCond&opcode.JIfTrue != 0 {
			newCond |= opcode.JIfEmpty
		}
		if oldCond&opcode.JIfFalse != 0 {
			newCond |= opcode.JIfTrue | opcode.JIfFalse
		}
	case opcode.UNot:
		if oldCond&opcode.JIfTrue != 0 {
			newCond |= opcode.JIfFalse
		}
		if oldCond&opcode.JIfFalse != 0 {
			newCond |= opcode.JIfTrue
		}
		if oldCond&opcode.JIfEmpty != 0 {
			newCond |= opcode.JIfEmpty
		}
	case opcode.UZap:
		if oldCond&opcode.JIfTrue != 0 {
			newCond |= opcode.JIfTrue
		}
		if oldCond&opcode.JIfEmpty != 0 {
			newCond |= opcode.JIfEmpty | opcode.JIfFalse
		}
	case opcode.UNot2:
		if oldCond&opcode.JIfTrue != 0 {
			newCond |= opcode.JIfFalse | opcode.JIfEmpty
		}
		if oldCond&opcode.JIfFalse != 0 {
			newCond |= opcode.JIfTrue
		}
	case opcode.UBool:
		newCond = oldCond
	default:
		return false
	}

	s.clearInstruction(pc)
	if newCond == 0 {
		s.clearInstruction(pc + 1)
		s.bco.Code[pc+1] = opcode.New(opcode.Stack, opcode.StackDrop, 1)
	} else {
		s.bco.Code[pc+1] = opcode.New(opcode.Jump, newCond|opcode.JPopAlways|opcode.JSymbolic, next.Arg)
	}
	return true
}

// foldableOperand decodes an immediate Push Integer/Boolean into its
// constant Value, for the folding rules below. ok is false for any other
// storage class.
func foldableOperand(ins opcode.Opcode) (value.Value, bool) {
	switch ins.Minor {
	case opcode.StInteger:
		return value.NewInteger(int64(int16(ins.Arg))), true
	case opcode.StBoolean:
		if ins.Arg < 0 {
			return value.NewEmpty(), true
		}
		return value.NewBoolean(ins.Arg != 0), true
	default:
		return value.Value{}, false
	}
}

// doFoldUnaryInt constant-folds a unary operator applied to an immediate
// Integer or Boolean literal: the most common case is a negative literal,
// encoded as "push int, negate".
func (s *state) doFoldUnaryInt(pc int) bool {
	cur := s.bco.Code[pc]
	operand, ok := foldableOperand(cur)
	if !ok {
		return false
	}
	next := s.bco.Code[pc+1]
	if next.Major != opcode.Unary {
		return false
	}

	result, err := value.ExecuteUnaryOperation(value.UnaryKind(next.Minor), operand)
	if err != nil {
		return false
	}

	minor, arg, ok := encodeFoldedLiteral(result)
	if !ok {
		return false
	}
	s.bco.Code[pc] = opcode.New(opcode.Push, minor, arg)
	s.clearInstruction(pc + 1)
	return true
}

// encodeFoldedLiteral re-encodes a folded constant Value as an immediate
// Push operand, when it still fits one (Empty, Boolean, or a 16-bit signed
// Integer). Anything wider (Float, String, or an out-of-range Integer)
// can't be represented this way, so the fold doesn't apply.
func encodeFoldedLiteral(v value.Value) (minor uint8, arg int32, ok bool) {
	if v.IsEmpty() {
		return opcode.StBoolean, -1, true
	}
	if b, isBool := v.AsBoolean(); isBool {
		if b {
			return opcode.StBoolean, 1, true
		}
		return opcode.StBoolean, 0, true
	}
	if i, isInt := v.AsInteger(); isInt {
		if i >= -32767 && i <= 32767 {
			return opcode.StInteger, int32(i), true
		}
	}
	return 0, 0, false
}

// doFoldBinaryInt rewrites a binary operation with one immediate-integer
// operand into a cheaper unary, e.g. "+1" becomes Inc, "* -1" becomes Neg.
func (s *state) doFoldBinaryInt(pc int) bool {
	cur := s.bco.Code[pc]
	if cur.Minor != opcode.StInteger {
		return false
	}
	next := s.bco.Code[pc+1]
	if next.Major != opcode.Binary {
		return false
	}
	v := int16(cur.Arg)

	var unary uint8
	switch next.Minor {
	case opcode.BAdd:
		switch v {
		case 0:
			unary = opcode.UPos
		case 1:
			unary = opcode.UInc
		case -1:
			unary = opcode.UDec
		default:
			return false
		}
	case opcode.BSub:
		switch v {
		case 0:
			unary = opcode.UPos
		case 1:
			unary = opcode.UDec
		case -1:
			unary = opcode.UInc
		default:
			return false
		}
	case opcode.BMult, opcode.BDivide, opcode.BIntegerDivide:
		switch v {
		case 1:
			unary = opcode.UPos
		case -1:
			unary = opcode.UNeg
		default:
			return false
		}
	case opcode.BPow:
		if v != 1 {
			return false
		}
		unary = opcode.UPos
	default:
		return false
	}

	s.bco.Code[pc+1] = opcode.New(opcode.Unary, unary, 0)
	s.clearInstruction(pc)
	return true
}

// doFoldBinaryTypeCheck removes a type-check unary (Bool/Pos) that
// immediately follows a binary operation already guaranteed to produce
// that type.
func (s *state) doFoldBinaryTypeCheck(pc int) bool {
	next := s.bco.Code[pc+1]
	if next.Major != opcode.Unary {
		return false
	}
	cur := s.bco.Code[pc]

	var match bool
	switch {
	case opcode.ResultIsBoolean(cur.Minor):
		match = next.Minor == opcode.UBool
	case opcode.ResultIsNumeric(cur.Minor):
		match = next.Minor == opcode.UPos
	}
	if !match {
		return false
	}
	s.clearInstruction(pc + 1)
	return true
}

// doFoldJump evaluates a conditional (or chained) jump whose condition is
// an immediate literal, replacing it with an unconditional jump or nothing
// at all. Common in "Do While True" and similar always-true guards.
func (s *state) doFoldJump(pc int) bool {
	cur := s.bco.Code[pc]
	operand, ok := foldableOperand(cur)
	if !ok {
		return false
	}
	next := s.bco.Code[pc+1]
	if !next.IsRegularJump() {
		return false
	}

	cond := literalJumpCondition(operand)

	if next.Condition() == opcode.JAlways {
		if next.Minor&opcode.JPopAlways != 0 {
			s.bco.Code[pc+1] = opcode.New(opcode.Jump, next.Minor&^opcode.JPopAlways, next.Arg)
			s.clearInstruction(pc)
			return true
		}

		info, ok := s.labels[uint16(next.Arg)]
		if !ok {
			return false
		}
		targetAddr := info.address
		if targetAddr+1 >= len(s.bco.Code) || !s.bco.Code[targetAddr+1].IsRegularJump() {
			return false
		}
		beyond := s.bco.Code[targetAddr+1]
		if beyond.Condition()&cond == 0 {
			return false
		}
		if beyond.Minor&opcode.JPopAlways != 0 {
			s.clearInstruction(pc)
		}
		s.retarget(pc+1, uint16(beyond.Arg))
		return true
	}

	if next.Minor&opcode.JPopAlways != 0 {
		s.clearInstruction(pc)
	}
	if next.Condition()&cond != 0 {
		newMinor := (next.Minor | opcode.JAlways) &^ opcode.JPopAlways
		s.bco.Code[pc+1] = opcode.New(opcode.Jump, newMinor, next.Arg)
	} else {
		s.clearInstruction(pc + 1)
	}
	return true
}

// literalJumpCondition classifies a folded constant into the jump
// condition bit it satisfies: Empty literals take IfEmpty edges, a zero
// scalar takes IfFalse, anything else takes IfTrue.
func literalJumpCondition(v value.Value) uint8 {
	if v.IsEmpty() {
		return opcode.JIfEmpty
	}
	if i, ok := v.AsInteger(); ok && i == 0 {
		return opcode.JIfFalse
	}
	return opcode.JIfTrue
}

// doPopPush folds a Pop immediately followed by a Push of the same
// storage address into a single Store: "x := expr; f(x)" assigns and
// reads x right back. Named variables are excluded since assigning one
// can imply a type coercion a plain Store wouldn't perform.
func (s *state) doPopPush(pc int) bool {
	cur := s.bco.Code[pc]
	next := s.bco.Code[pc+1]
	if next.Major != opcode.Push || cur.Minor != next.Minor || cur.Arg != next.Arg {
		return false
	}
	if cur.Minor == opcode.StNamedVariable {
		return false
	}
	s.bco.Code[pc+1] = opcode.New(opcode.Store, next.Minor, next.Arg)
	s.clearInstruction(pc)
	return true
}

// doCompareNC downgrades a case-blind comparison to its case-sensitive
// form when the literal operand being compared against provably has no
// case to fold (a number, or a string with no alphanumeric characters).
func (s *state) doCompareNC(pc int) bool {
	cur := s.bco.Code[pc]
	if cur.Minor != opcode.StInteger && cur.Minor != opcode.StBoolean && cur.Minor != opcode.StLiteral {
		return false
	}
	next := s.bco.Code[pc+1]
	if next.Major != opcode.Binary || !opcode.IsCaseBlind(next.Minor) {
		return false
	}

	if cur.Minor == opcode.StLiteral {
		lit := s.bco.Literals.At(cur.Arg)
		switch lit.Kind() {
		case value.Integer, value.Float, value.Boolean:
			// accept
		case value.String:
			str, _ := lit.AsString()
			for _, r := range str {
				if isAlphaNumericRune(r) {
					return false
				}
			}
		default:
			return false
		}
	}

	s.bco.Code[pc+1] = opcode.New(opcode.Binary, next.Minor-1, next.Arg)
	return true
}

func isAlphaNumericRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// doIntCompare recognizes a logical/bitwise binary op followed by
// "push 0, compare": the binary op stays, the push becomes a Not (for an
// equality compare) or a Bool (for an inequality compare), and the compare
// is cleared.
func (s *state) doIntCompare(pc int) bool {
	cur := s.bco.Code[pc]
	switch cur.Minor {
	case opcode.BAnd, opcode.BOr, opcode.BFind, opcode.BFind_NC,
		opcode.BBitAnd, opcode.BBitOr, opcode.BBitXor:
	default:
		return false
	}
	if cur.Major != opcode.Binary {
		return false
	}

	push := s.bco.Code[pc+1]
	if push.Major != opcode.Push || (push.Minor != opcode.StInteger && push.Minor != opcode.StBoolean) || push.Arg != 0 {
		return false
	}

	cmp := s.bco.Code[pc+2]
	if cmp.Major != opcode.Binary {
		return false
	}

	switch cmp.Minor {
	case opcode.BCompareEQ, opcode.BCompareEQ_NC:
		s.bco.Code[pc+1] = opcode.New(opcode.Unary, opcode.UNot, 0)
		s.clearInstruction(pc + 2)
		return true
	case opcode.BCompareNE, opcode.BCompareNE_NC:
		s.bco.Code[pc+1] = opcode.New(opcode.Unary, opcode.UBool, 0)
		s.clearInstruction(pc + 2)
		return true
	default:
		return false
	}
}

// doTailMerge (level 2 only) finds a shared instruction suffix before an
// unconditional forward jump's target and the jump site itself, and lets
// the fall-through share it -- at the cost of coarser line-number info,
// which is why this only runs at the highest optimization level.
func (s *state) doTailMerge(pc int) bool {
	if s.level < 2 {
		return false
	}
	cur := s.bco.Code[pc]
	if cur.Minor != opcode.JAlways|opcode.JSymbolic {
		return false
	}
	info, ok := s.labels[uint16(cur.Arg)]
	if !ok {
		return false
	}
	target := info.address
	source := pc
	if target <= source {
		return false
	}

	for source > 0 && s.bco.Code[source-1].Major != opcode.Jump && s.bco.Code[source-1] == s.bco.Code[target-1] {
		s.clearInstruction(source)
		source--
		target--
	}
	if source == pc {
		return false
	}

	var label uint16
	if s.bco.Code[target-1].IsLabel() {
		label = uint16(s.bco.Code[target-1].Arg)
	} else {
		label = s.bco.MakeLabel()
		s.bco.Code = insertLabelBefore(s.bco.Code, target, label)
	}
	s.bco.Code[source] = opcode.New(opcode.Jump, opcode.JAlways|opcode.JSymbolic, int32(label))
	s.initLabelInfo()
	return true
}

// insertLabelBefore splices a new symbolic Label placement in at index i.
func insertLabelBefore(code []opcode.Opcode, i int, id uint16) []opcode.Opcode {
	out := make([]opcode.Opcode, 0, len(code)+1)
	out = append(out, code[:i]...)
	out = append(out, opcode.New(opcode.Jump, opcode.JLabel|opcode.JSymbolic, int32(id)))
	out = append(out, code[i:]...)
	return out
}

// doDeadStore (level 2 only) is RemoveUnused's counterpart at a function's
// tail: a Return can't be reached again, so any store into a local
// directly preceding it can never be observed.
func (s *state) doDeadStore(pc int) bool {
	cur := s.bco.Code[pc]
	if cur.Major != opcode.Special || cur.Minor != opcode.SpReturn {
		return false
	}
	return s.removeDeadStores(pc)
}

// removeDeadStores walks backwards from pc over pushes, simple operations
// and labels, killing any Store/Pop into a local it finds -- dead once
// nothing between it and pc can observe the local again.
func (s *state) removeDeadStores(pc int) bool {
	if s.level < 2 {
		return false
	}
	did := false
	for pc > 0 {
		pc--
		ins := s.bco.Code[pc]
		switch {
		case ins.Major == opcode.Push && (ins.Minor == opcode.StLiteral || ins.Minor == opcode.StInteger || ins.Minor == opcode.StBoolean):
			// skip over: an immediate push can't observe a local
		case ins.Major == opcode.Store && ins.Minor == opcode.StLocal:
			s.clearInstruction(pc)
			did = true
		case ins.Major == opcode.Pop && ins.Minor == opcode.StLocal:
			s.bco.Code[pc] = opcode.New(opcode.Stack, opcode.StackDrop, 1)
			did = true
		case ins.Major == opcode.Unary || ins.Major == opcode.Binary:
			// skip over: no observable side effect on locals
		case ins.IsLabel():
			// skip over
		default:
			return did
		}
	}
	return did
}
