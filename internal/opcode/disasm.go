package opcode

import "fmt"

// GetDisassemblyTemplate returns a format-string template for o, consumed by
// the BytecodeObject disassembler. Specifier letters: %n looks up the name
// pool, %l the literal pool, %L locals by address, %G shared by address, %d
// a signed decimal, %u an unsigned decimal. This is a diagnostics-only
// format, never persisted (see spec.md section 6).
func GetDisassemblyTemplate(o Opcode) string {
	switch o.Major {
	case Push:
		return storageTemplate("push", o.Minor)
	case Pop:
		return storageTemplate("pop", o.Minor)
	case Store:
		return storageTemplate("store", o.Minor)
	case Binary:
		return "b" + binaryName(o.Minor)
	case Unary:
		return "u" + unaryName(o.Minor)
	case Ternary:
		return "tern"
	case Jump:
		return jumpTemplate(o)
	case Indirect:
		return "call %d"
	case Stack:
		return stackName(o.Minor) + " %d"
	case MemRef:
		return memName(o.Minor) + " %n"
	case Dim:
		return "dim %n"
	case Special:
		return specialTemplate(o.Minor)
	case FusedBinary:
		// A push fused with the following Binary consumer; Minor is the
		// push's storage class (like Push), Arg its operand address.
		return storageTemplate("fpush", o.Minor)
	case FusedUnary:
		return storageTemplate("fpush", o.Minor)
	case InplaceUnary:
		return storageTemplate("ipush", o.Minor)
	case FusedComparison:
		// A comparison fused with the following conditional-pop jump;
		// Minor is the comparison's own binary op.
		return "b" + binaryName(o.Minor) + "j"
	case FusedComparison2:
		// A push fused with the following FusedComparison.
		return storageTemplate("fpush", o.Minor)
	default:
		return fmt.Sprintf("?%s/%d", o.Major, o.Minor)
	}
}

func storageTemplate(verb string, minor uint8) string {
	switch minor {
	case StLiteral:
		return verb + "lit %l"
	case StInteger:
		return verb + "int %d"
	case StBoolean:
		return verb + "bool %d"
	case StLocal:
		return verb + "loc %L"
	case StStatic:
		return verb + "static %L"
	case StShared:
		return verb + "shared %G"
	case StNamedVariable:
		return verb + "var %n"
	case StNamedShared:
		return verb + "namedshared %n"
	default:
		return fmt.Sprintf("%s?%d %%d", verb, minor)
	}
}

func binaryName(minor uint8) string {
	names := map[uint8]string{
		BAdd: "add", BSub: "sub", BMult: "mult", BDivide: "div",
		BIntegerDivide: "idiv", BPow: "pow", BBitAnd: "bitand", BBitOr: "bitor",
		BBitXor: "bitxor", BATan: "atan", BArrayDim: "arraydim", BConcat: "concat",
		BAnd: "and", BOr: "or",
		BCompareEQ: "eq", BCompareEQ_NC: "eq_nc", BCompareNE: "ne", BCompareNE_NC: "ne_nc",
		BCompareLT: "lt", BCompareLT_NC: "lt_nc", BCompareLE: "le", BCompareLE_NC: "le_nc",
		BCompareGT: "gt", BCompareGT_NC: "gt_nc",
		BFind: "find", BFind_NC: "find_nc", BFirst: "first", BFirst_NC: "first_nc",
		BRest: "rest", BRest_NC: "rest_nc",
	}
	if n, ok := names[minor]; ok {
		return n
	}
	return fmt.Sprintf("?%d", minor)
}

func unaryName(minor uint8) string {
	names := map[uint8]string{
		UZap: "zap", UNeg: "neg", UPos: "pos", UNot: "not", UNot2: "not2",
		UBool: "bool", UAbs: "abs", UIsEmpty: "isempty", UIsString: "isstring",
		UIsNum: "isnum", UTrunc: "trunc", URound: "round", UInc: "inc",
		UDec: "dec", UBitNot: "bitnot",
	}
	if n, ok := names[minor]; ok {
		return n
	}
	return fmt.Sprintf("?%d", minor)
}

func stackName(minor uint8) string {
	switch minor {
	case StackDrop:
		return "drop"
	case StackSwap:
		return "swap"
	case StackDup:
		return "dup"
	default:
		return fmt.Sprintf("stack?%d", minor)
	}
}

func memName(minor uint8) string {
	switch minor {
	case MemLoad:
		return "memload"
	case MemStore:
		return "memstore"
	case MemCall:
		return "memcall"
	default:
		return fmt.Sprintf("mem?%d", minor)
	}
}

func specialTemplate(minor uint8) string {
	switch minor {
	case SpDefSub:
		return "defsub %n"
	case SpDefShipProperty:
		return "defshipprop %n"
	case SpDefPlanetProperty:
		return "defplanetprop %n"
	case SpEvalStatement:
		return "evalstatement"
	case SpEvalExpr:
		return "evalexpr"
	case SpRunHook:
		return "runhook"
	case SpThrow:
		return "throw"
	case SpTerminate:
		return "terminate"
	case SpReturn:
		return "return"
	default:
		return fmt.Sprintf("special?%d", minor)
	}
}

func jumpTemplate(o Opcode) string {
	if o.IsLabel() {
		if o.IsSymbolic() {
			return "label L%d"
		}
		return "nop"
	}
	bare := o.Minor &^ (JSymbolic | JPopAlways)
	if bare&JCatch != 0 {
		if o.IsSymbolic() {
			return "catch L%d"
		}
		return "catch %d"
	}

	cond := "j"
	switch o.Condition() {
	case JAlways:
		cond = "j"
	case JIfTrue:
		cond = "jt"
	case JIfFalse:
		cond = "jf"
	case JIfEmpty:
		cond = "je"
	case JIfTrue | JIfFalse:
		cond = "jtf"
	case JIfTrue | JIfEmpty:
		cond = "jte"
	case JIfFalse | JIfEmpty:
		cond = "jfe"
	}
	if o.Minor&JPopAlways != 0 {
		cond += "p"
	}
	if o.IsSymbolic() {
		return cond + " L%d"
	}
	return cond + " %d"
}
