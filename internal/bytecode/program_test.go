package bytecode

import "testing"

func TestEmitReturnsSequentialIndices(t *testing.T) {
	p := &Program{}
	i0 := p.Emit(Instruction{Op: PushInt, IntVal: 1})
	i1 := p.Emit(Instruction{Op: PushInt, IntVal: 2})
	if i0 != 0 || i1 != 1 || p.Len() != 2 {
		t.Fatalf("got indices %d, %d, len %d; want 0, 1, 2", i0, i1, p.Len())
	}
}

func TestPatchOverwritesTarget(t *testing.T) {
	p := &Program{}
	idx := p.Emit(Instruction{Op: JumpIfFalse})
	p.Emit(Instruction{Op: PushInt})
	p.Patch(idx, p.Len())
	if p.Instructions[idx].Target != 2 {
		t.Fatalf("Target = %d, want 2", p.Instructions[idx].Target)
	}
}
