package bytecode

import "github.com/stefanreuther/c2ng-sub044/internal/opcode"

// Compact removes only absolute Label (NOP) instructions -- those the
// optimizer produces by erasing an instruction -- while preserving
// symbolic labels and all other code. Safe to run between optimizer
// iterations, unlike Relocate, which is irreversible and requires that no
// absolute jumps exist alongside symbolic ones.
func (o *Object) Compact() {
	oldToNew := make([]int, len(o.Code)+1)
	newPos := 0
	for i, ins := range o.Code {
		oldToNew[i] = newPos
		if ins.IsLabel() && !ins.IsSymbolic() {
			continue
		}
		newPos++
	}
	oldToNew[len(o.Code)] = newPos

	newCode := make([]opcode.Opcode, 0, newPos)
	for _, ins := range o.Code {
		if ins.IsLabel() && !ins.IsSymbolic() {
			continue
		}
		newCode = append(newCode, ins)
	}

	var newLines []LinePair
	for _, lp := range o.LineNumbers {
		newLines = addLineAt(newLines, oldToNew[lp.Addr], lp.Line)
	}

	o.Code = newCode
	o.LineNumbers = newLines
}
