package bytecode

// Program is the flat instruction list produced by the emitter.
type Program struct {
	Instructions []Instruction
}

// Emit appends ins and returns its index, for use as a later back-patch or
// loop-continuation target.
func (p *Program) Emit(ins Instruction) int {
	p.Instructions = append(p.Instructions, ins)
	return len(p.Instructions) - 1
}

// Len is the index the next Emit call will land on.
func (p *Program) Len() int {
	return len(p.Instructions)
}

// Patch overwrites the Target field of the jump instruction at idx. Used
// to back-patch a JUMP/JUMP_IF_FALSE placeholder once its destination is
// known.
func (p *Program) Patch(idx, target int) {
	p.Instructions[idx].Target = target
}
