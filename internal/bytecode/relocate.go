package bytecode

import (
	"fmt"

	"github.com/stefanreuther/c2ng-sub044/internal/opcode"
)

// Relocate converts symbolic jumps to absolute code offsets and drops all
// Label instructions. Two passes: the first counts output positions and
// records each symbolic label's final address (skipping labels in output
// positioning); the second rewrites the code and re-applies line numbers
// against the new length. Postcondition: no opcode has the Symbolic bit
// set. Relocation is irreversible.
func (o *Object) Relocate() error {
	oldToNew := make([]int, len(o.Code)+1)
	labelAddr := make(map[uint16]int, o.NumLabels)
	newPos := 0
	for i, ins := range o.Code {
		oldToNew[i] = newPos
		if ins.IsLabel() {
			if ins.IsSymbolic() {
				labelAddr[uint16(ins.Arg)] = newPos
			}
			continue
		}
		newPos++
	}
	oldToNew[len(o.Code)] = newPos

	newCode := make([]opcode.Opcode, 0, newPos)
	for _, ins := range o.Code {
		if ins.IsLabel() {
			continue
		}
		if ins.IsSymbolic() {
			target, ok := labelAddr[uint16(ins.Arg)]
			if !ok {
				return fmt.Errorf("bytecode: relocate: dangling symbolic label %d", ins.Arg)
			}
			newCode = append(newCode, opcode.New(ins.Major, ins.Minor&^opcode.JSymbolic, int32(target)))
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
	return nil
}
