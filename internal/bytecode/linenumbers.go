package bytecode

// LinePair associates a code address (a raw index into Object.Code, label
// instructions included) with a source line number.
type LinePair struct {
	Addr int
	Line int
}

// addLineAt applies the addLineNumber collapse rules (spec.md section 4.3)
// for a pair landing at the given address, appending to or mutating lines
// in place. It is factored out of AddLineNumber so Relocate/Compact can
// rebuild the table against remapped addresses using identical rules.
func addLineAt(lines []LinePair, addr, line int) []LinePair {
	if len(lines) == 0 {
		return append(lines, LinePair{Addr: addr, Line: line})
	}
	last := &lines[len(lines)-1]
	switch {
	case addr == last.Addr:
		// The previous statement generated no code: replace its line.
		last.Line = line
		return lines
	case line == last.Line:
		// Nested statement continuing the same source line: no-op.
		return lines
	default:
		return append(lines, LinePair{Addr: addr, Line: line})
	}
}

// AddLineNumber records that the current end of code corresponds to line,
// applying the collapse rules from spec.md section 4.3.
func (o *Object) AddLineNumber(line int) {
	o.LineNumbers = addLineAt(o.LineNumbers, len(o.Code), line)
}

// GetLineNumber returns the source line recorded for pc, or 0 if pc
// precedes the first recorded line. Implemented as a scan: diagnostics-only,
// and BCOs are small enough that this is not a hot path.
func (o *Object) GetLineNumber(pc int) int {
	line := 0
	for _, lp := range o.LineNumbers {
		if lp.Addr > pc {
			break
		}
		line = lp.Line
	}
	return line
}
