package maincmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stefanreuther/c2ng-sub044/internal/bytecode"
	"github.com/stefanreuther/c2ng-sub044/internal/opcode"
	"github.com/stefanreuther/c2ng-sub044/internal/value"
)

// assemble parses the disasm/optimize subcommands' input format: one
// instruction per line, mnemonic first, operands separated by whitespace.
// This is deliberately not the diagnostic disassembly format that
// Object.Disassemble produces (spec.md section 6 calls that format
// diagnostics-only, never persisted); it is a separate, round-trippable
// text form that only needs to cover what a front end emits before fusion,
// since optimize's input is always pre-fusion code.
//
// Storage-class operands: lit <value>, int <n>, bool <0|1>, loc <addr>,
// static <addr>, shared <addr>, var <name>, namedshared <name>.
// Literal values are either a decimal/float number or a double-quoted Go
// string. Jump targets and label declarations refer to symbolic label ids
// written as L<n>.
func assemble(name, fileName string, lines []string) (*bytecode.Object, error) {
	o := bytecode.New(name, fileName)
	labels := map[string]uint16{}

	labelID := func(tok string) (uint16, error) {
		if id, ok := labels[tok]; ok {
			return id, nil
		}
		if !strings.HasPrefix(tok, "L") {
			return 0, fmt.Errorf("expected label reference like L0, got %q", tok)
		}
		id := o.MakeLabel()
		labels[tok] = id
		return id, nil
	}

	for lineNo, raw := range lines {
		line := strings.TrimSpace(stripComment(raw))
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		mnemonic := fields[0]
		args := fields[1:]

		if err := assembleLine(o, mnemonic, args, labelID); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
	}
	return o, nil
}

func stripComment(line string) string {
	if i := strings.Index(line, ";"); i >= 0 {
		return line[:i]
	}
	return line
}

func assembleLine(o *bytecode.Object, mnemonic string, args []string, labelID func(string) (uint16, error)) error {
	switch mnemonic {
	case "push":
		return assembleStorage(o, opcode.Push, args)
	case "pop":
		return assembleStorage(o, opcode.Pop, args)
	case "store":
		return assembleStorage(o, opcode.Store, args)
	case "binary":
		minor, err := lookupBinary(args)
		if err != nil {
			return err
		}
		o.AddInstruction(opcode.Binary, minor, 0)
		return nil
	case "unary":
		minor, err := lookupUnary(args)
		if err != nil {
			return err
		}
		o.AddInstruction(opcode.Unary, minor, 0)
		return nil
	case "ternary":
		o.AddInstruction(opcode.Ternary, 0, 0)
		return nil
	case "stack":
		minor, err := lookupStack(args)
		if err != nil {
			return err
		}
		o.AddInstruction(opcode.Stack, minor, 0)
		return nil
	case "memref":
		return assembleMemRef(o, args)
	case "dim":
		if len(args) != 1 {
			return fmt.Errorf("dim: expected a name")
		}
		o.AddInstruction(opcode.Dim, 0, int32(o.AddName(args[0])))
		return nil
	case "special":
		return assembleSpecial(o, args)
	case "indirect":
		if len(args) != 1 {
			return fmt.Errorf("indirect: expected an argument count")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("indirect: %w", err)
		}
		o.AddInstruction(opcode.Indirect, 0, int32(n))
		return nil
	case "label":
		if len(args) != 1 {
			return fmt.Errorf("label: expected one label id")
		}
		id, err := labelID(args[0])
		if err != nil {
			return err
		}
		o.AddLabel(id)
		return nil
	case "catch":
		if len(args) != 1 {
			return fmt.Errorf("catch: expected a label id")
		}
		id, err := labelID(args[0])
		if err != nil {
			return err
		}
		o.AddJump(opcode.JCatch, id)
		return nil
	case "j", "jt", "jf", "je", "jtf", "jte", "jfe",
		"jp", "jtp", "jfp", "jep", "jtfp", "jtep", "jfep":
		return assembleJump(o, mnemonic, args, labelID)
	default:
		return fmt.Errorf("unknown mnemonic %q", mnemonic)
	}
}

func assembleStorage(o *bytecode.Object, major opcode.Major, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%s: expected a storage class and operand", major)
	}
	class, operand := args[0], args[1]
	switch class {
	case "lit":
		v, err := parseLiteral(operand)
		if err != nil {
			return err
		}
		idx := o.Literals.AddOrReuse(v)
		o.AddInstruction(major, opcode.StLiteral, idx)
	case "int":
		n, err := strconv.Atoi(operand)
		if err != nil {
			return fmt.Errorf("int: %w", err)
		}
		o.AddInstruction(major, opcode.StInteger, int32(n))
	case "bool":
		n, err := strconv.Atoi(operand)
		if err != nil {
			return fmt.Errorf("bool: %w", err)
		}
		o.AddInstruction(major, opcode.StBoolean, int32(n))
	case "loc":
		n, err := strconv.Atoi(operand)
		if err != nil {
			return fmt.Errorf("loc: %w", err)
		}
		o.AddInstruction(major, opcode.StLocal, int32(n))
	case "static":
		n, err := strconv.Atoi(operand)
		if err != nil {
			return fmt.Errorf("static: %w", err)
		}
		o.AddInstruction(major, opcode.StStatic, int32(n))
	case "shared":
		n, err := strconv.Atoi(operand)
		if err != nil {
			return fmt.Errorf("shared: %w", err)
		}
		o.AddInstruction(major, opcode.StShared, int32(n))
	case "var":
		o.AddInstruction(major, opcode.StNamedVariable, int32(o.AddName(operand)))
	case "namedshared":
		o.AddInstruction(major, opcode.StNamedShared, int32(o.AddName(operand)))
	default:
		return fmt.Errorf("unknown storage class %q", class)
	}
	return nil
}

func parseLiteral(tok string) (value.Value, error) {
	if strings.HasPrefix(tok, `"`) {
		s, err := strconv.Unquote(tok)
		if err != nil {
			return value.Value{}, fmt.Errorf("invalid string literal %q: %w", tok, err)
		}
		return value.NewString(s), nil
	}
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return value.NewInteger(i), nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return value.NewFloat(f), nil
	}
	return value.Value{}, fmt.Errorf("invalid literal %q", tok)
}

var binaryMnemonics = map[string]uint8{
	"add": opcode.BAdd, "sub": opcode.BSub, "mult": opcode.BMult, "div": opcode.BDivide,
	"idiv": opcode.BIntegerDivide, "pow": opcode.BPow, "bitand": opcode.BBitAnd,
	"bitor": opcode.BBitOr, "bitxor": opcode.BBitXor, "atan": opcode.BATan,
	"arraydim": opcode.BArrayDim, "concat": opcode.BConcat, "and": opcode.BAnd, "or": opcode.BOr,
	"eq": opcode.BCompareEQ, "eq_nc": opcode.BCompareEQ_NC, "ne": opcode.BCompareNE, "ne_nc": opcode.BCompareNE_NC,
	"lt": opcode.BCompareLT, "lt_nc": opcode.BCompareLT_NC, "le": opcode.BCompareLE, "le_nc": opcode.BCompareLE_NC,
	"gt": opcode.BCompareGT, "gt_nc": opcode.BCompareGT_NC,
	"find": opcode.BFind, "find_nc": opcode.BFind_NC, "first": opcode.BFirst, "first_nc": opcode.BFirst_NC,
	"rest": opcode.BRest, "rest_nc": opcode.BRest_NC,
}

func lookupBinary(args []string) (uint8, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("binary: expected one operator name")
	}
	minor, ok := binaryMnemonics[args[0]]
	if !ok {
		return 0, fmt.Errorf("unknown binary operator %q", args[0])
	}
	return minor, nil
}

var unaryMnemonics = map[string]uint8{
	"zap": opcode.UZap, "neg": opcode.UNeg, "pos": opcode.UPos, "not": opcode.UNot,
	"not2": opcode.UNot2, "bool": opcode.UBool, "abs": opcode.UAbs, "isempty": opcode.UIsEmpty,
	"isstring": opcode.UIsString, "isnum": opcode.UIsNum, "trunc": opcode.UTrunc,
	"round": opcode.URound, "inc": opcode.UInc, "dec": opcode.UDec, "bitnot": opcode.UBitNot,
}

func lookupUnary(args []string) (uint8, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("unary: expected one operator name")
	}
	minor, ok := unaryMnemonics[args[0]]
	if !ok {
		return 0, fmt.Errorf("unknown unary operator %q", args[0])
	}
	return minor, nil
}

func lookupStack(args []string) (uint8, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("stack: expected drop, swap, or dup")
	}
	switch args[0] {
	case "drop":
		return opcode.StackDrop, nil
	case "swap":
		return opcode.StackSwap, nil
	case "dup":
		return opcode.StackDup, nil
	default:
		return 0, fmt.Errorf("unknown stack operator %q", args[0])
	}
}

func assembleMemRef(o *bytecode.Object, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("memref: expected load|store|call and a name")
	}
	var minor uint8
	switch args[0] {
	case "load":
		minor = opcode.MemLoad
	case "store":
		minor = opcode.MemStore
	case "call":
		minor = opcode.MemCall
	default:
		return fmt.Errorf("unknown memref operator %q", args[0])
	}
	o.AddInstruction(opcode.MemRef, minor, int32(o.AddName(args[1])))
	return nil
}

var specialMnemonics = map[string]uint8{
	"defsub": opcode.SpDefSub, "defshipprop": opcode.SpDefShipProperty,
	"defplanetprop": opcode.SpDefPlanetProperty, "evalstatement": opcode.SpEvalStatement,
	"evalexpr": opcode.SpEvalExpr, "runhook": opcode.SpRunHook, "throw": opcode.SpThrow,
	"terminate": opcode.SpTerminate, "return": opcode.SpReturn,
}

func assembleSpecial(o *bytecode.Object, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("special: expected an operation name")
	}
	minor, ok := specialMnemonics[args[0]]
	if !ok {
		return fmt.Errorf("unknown special operation %q", args[0])
	}
	var arg int32
	if opcode.IsNameBearingSpecial(minor) {
		if len(args) != 2 {
			return fmt.Errorf("special %s: expected a name", args[0])
		}
		arg = int32(o.AddName(args[1]))
	}
	o.AddInstruction(opcode.Special, minor, arg)
	return nil
}

func assembleJump(o *bytecode.Object, mnemonic string, args []string, labelID func(string) (uint16, error)) error {
	if len(args) != 1 {
		return fmt.Errorf("%s: expected a label reference", mnemonic)
	}
	id, err := labelID(args[0])
	if err != nil {
		return err
	}
	cond := strings.TrimSuffix(mnemonic, "p")
	var flags uint8
	switch cond {
	case "j":
		flags = opcode.JAlways
	case "jt":
		flags = opcode.JIfTrue
	case "jf":
		flags = opcode.JIfFalse
	case "je":
		flags = opcode.JIfEmpty
	case "jtf":
		flags = opcode.JIfTrue | opcode.JIfFalse
	case "jte":
		flags = opcode.JIfTrue | opcode.JIfEmpty
	case "jfe":
		flags = opcode.JIfFalse | opcode.JIfEmpty
	}
	if strings.HasSuffix(mnemonic, "p") {
		flags |= opcode.JPopAlways
	}
	o.AddJump(flags, id)
	return nil
}
