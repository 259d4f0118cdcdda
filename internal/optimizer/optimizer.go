// Package optimizer implements the peephole optimizer: a fixed-point loop
// over a table of small local rewrite rules, run between the fusion pass's
// Unfuse and Fuse so every rule sees plain, non-fused instructions.
package optimizer

import (
	"sort"

	"golang.org/x/exp/maps"

	"github.com/stefanreuther/c2ng-sub044/internal/bytecode"
	"github.com/stefanreuther/c2ng-sub044/internal/cerr"
	"github.com/stefanreuther/c2ng-sub044/internal/fusion"
	"github.com/stefanreuther/c2ng-sub044/internal/opcode"
)

// labelInfo tracks one symbolic label's placement and reference count, so
// rules can tell a dangling/unused label from one still live.
type labelInfo struct {
	address  int
	useCount uint32
}

// state is one optimization pass's working set: the BCO being rewritten,
// in-place, plus the label table that pass keeps current as it clears and
// rewires instructions.
type state struct {
	bco          *bytecode.Object
	labels       map[uint16]*labelInfo
	hadBogusJump bool
	level        int

	// lastRangeOverflow records doMergeDrop's most recent decline to combine
	// two Drops whose sum would exceed the 16-bit arg range. Like
	// hadBogusJump, this is a soft, internally-absorbed condition: it never
	// aborts the pass and is not returned from Optimize, but it gives a
	// caller inspecting the state (e.g. in tests) a concrete error value
	// instead of an untraceable "rule didn't fire".
	lastRangeOverflow *cerr.RangeOverflowError
}

func newState(bco *bytecode.Object, level int) *state {
	s := &state{bco: bco, labels: make(map[uint16]*labelInfo), level: level}
	s.initLabelInfo()
	return s
}

// initLabelInfo scans the code once, recording every label's address and
// counting every regular jump/catch that still refers to it. Any jump that
// is not symbolic (an absolute address injected by a caller that bypassed
// relocation) makes the whole pass refuse to run: absolute addresses would
// be invalidated by any instruction removal.
func (s *state) initLabelInfo() {
	for pc, ins := range s.bco.Code {
		if ins.Major != opcode.Jump {
			continue
		}
		if !ins.IsSymbolic() {
			s.hadBogusJump = true
			continue
		}
		id := uint16(ins.Arg)
		info, ok := s.labels[id]
		if !ok {
			info = &labelInfo{}
			s.labels[id] = info
		}
		if ins.IsLabel() {
			info.address = pc
		} else {
			info.useCount++
		}
	}
}

// UnusedLabelIDs reports every label id with a zero use count, sorted for
// deterministic reporting. Used by tests asserting EraseUnusedLabels fired.
func (s *state) UnusedLabelIDs() []uint16 {
	ids := maps.Keys(s.labels)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := ids[:0:0]
	for _, id := range ids {
		if s.labels[id].useCount == 0 {
			out = append(out, id)
		}
	}
	return out
}

// clearInstruction blanks the instruction at pc into an absolute Label
// (a NOP), which BytecodeObject.Compact later sweeps away. If pc held a
// jump or catch, the target label's use count is decremented to keep the
// table consistent for subsequent rules in the same iterate() call.
func (s *state) clearInstruction(pc int) {
	ins := s.bco.Code[pc]
	if ins.Major == opcode.Jump && !ins.IsLabel() {
		// A regular jump or a catch: it referenced a label, so that
		// label loses one user. Clearing a Label placement itself
		// does not touch any count -- it defines the id, it doesn't use it.
		if info, ok := s.labels[uint16(ins.Arg)]; ok && info.useCount > 0 {
			info.useCount--
		}
	}
	s.bco.Code[pc] = opcode.New(opcode.Jump, opcode.JLabel, 0)
}

// retarget rewrites the jump/catch at pc to point at a new label id,
// keeping the label table's use counts in sync.
func (s *state) retarget(pc int, newID uint16) {
	old := s.bco.Code[pc]
	if info, ok := s.labels[uint16(old.Arg)]; ok && info.useCount > 0 {
		info.useCount--
	}
	s.bco.Code[pc] = opcode.New(old.Major, old.Minor, int32(newID))
	if info, ok := s.labels[newID]; ok {
		info.useCount++
	}
}

type ruleEntry struct {
	fn       func(*state, int) bool
	major    opcode.Major
	observed int
	name     string
}

var ruleTable = []ruleEntry{
	{(*state).doStoreDrop, opcode.Store, 1, "StoreDrop"},
	{(*state).doStoreDropMember, opcode.MemRef, 1, "StoreDropMember"},
	{(*state).doStoreDropMember, opcode.Indirect, 1, "StoreDropMember"},
	{(*state).doMergeDrop, opcode.Stack, 1, "MergeDrop"},
	{(*state).doNullOp, opcode.Stack, 0, "NullOp"},
	{(*state).doEraseUnusedLabels, opcode.Jump, 0, "EraseUnusedLabels"},
	{(*state).doInvertJumps, opcode.Jump, 2, "InvertJumps"},
	{(*state).doThreadJumps, opcode.Jump, 0, "ThreadJumps"},
	{(*state).doMergeJumps, opcode.Jump, 1, "MergeJumps"},
	{(*state).doRemoveUnused, opcode.Jump, 1, "RemoveUnused"},
	{(*state).doRemoveUnused, opcode.Special, 1, "RemoveUnused"},
	{(*state).doMergeNegation, opcode.Unary, 1, "MergeNegation"},
	{(*state).doUnaryCondition, opcode.Unary, 1, "UnaryCondition"},
	{(*state).doFoldUnaryInt, opcode.Push, 1, "FoldUnaryInt"},
	{(*state).doFoldBinaryInt, opcode.Push, 1, "FoldBinaryInt"},
	{(*state).doFoldBinaryTypeCheck, opcode.Binary, 1, "FoldBinaryTypeCheck"},
	{(*state).doFoldJump, opcode.Push, 1, "FoldJump"},
	{(*state).doPopPush, opcode.Pop, 1, "PopPush"},
	{(*state).doCompareNC, opcode.Push, 1, "CompareNC"},
	{(*state).doIntCompare, opcode.Binary, 2, "IntCompare"},
	{(*state).doTailMerge, opcode.Jump, 0, "TailMerge"},
	{(*state).doDeadStore, opcode.Special, 0, "DeadStore"},
}

// iterate runs one pass of every rule over every instruction, left to
// right. It returns false once nothing in the table fired, i.e. the code
// has reached a local fixed point for this optimization level.
func (s *state) iterate() bool {
	if s.hadBogusJump {
		return false
	}

	did := false
	n := len(s.bco.Code)
	for pc := 0; pc < n; pc++ {
		major := s.bco.Code[pc].Major
		for _, rule := range ruleTable {
			if major == rule.major && n-pc > rule.observed {
				if rule.fn(s, pc) {
					did = true
				}
			}
		}
	}
	if s.removeDeadStores(len(s.bco.Code)) {
		did = true
	}
	return did
}

// Optimize runs the full pipeline on bco in place: unfuse any fused
// instructions so the peephole rules see plain opcodes, iterate the rule
// table to a fixed point (compacting dead NOPs out between rounds so
// addresses stay dense), then re-fuse. level selects how aggressive the
// rules get: level 2 additionally enables TailMerge and DeadStore, which
// degrade debug line-number fidelity in exchange for smaller code.
func Optimize(bco *bytecode.Object, level int) {
	fusion.Unfuse(bco)
	for {
		s := newState(bco, level)
		if !s.iterate() {
			break
		}
		bco.Compact()
	}
	fusion.Fuse(bco)
}
