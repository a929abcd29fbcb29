package compiler

import (
	"github.com/mna/ember/lang/chunk"
	"github.com/mna/ember/lang/scanner"
)

func (p *parser) beginScope() { p.fn.scopeDepth++ }

// endScope pops every local declared in the scope just exited. A captured
// local (one referenced as an upvalue by a nested function) must survive on
// the heap after its stack slot dies, so it is closed with OP_CLOSE_UPVALUE
// instead of merely popped.
func (p *parser) endScope() {
	p.fn.scopeDepth--

	locals := p.fn.locals
	for len(locals) > 0 && locals[len(locals)-1].depth > p.fn.scopeDepth {
		if locals[len(locals)-1].isCaptured {
			p.emitOp(chunk.OpCloseUpvalue)
		} else {
			p.emitOp(chunk.OpPop)
		}
		locals = locals[:len(locals)-1]
	}
	p.fn.locals = locals
}

// declareVariable registers the variable named by p.previous as a local in
// the current scope (a no-op at global scope, where names resolve through
// the globals table instead). Shadowing a name already declared in this
// same scope is an error; shadowing a name from an enclosing scope is not.
func (p *parser) declareVariable() {
	if p.fn.scopeDepth == 0 {
		return
	}

	name := p.previous
	for i := len(p.fn.locals) - 1; i >= 0; i-- {
		l := p.fn.locals[i]
		if l.depth != -1 && l.depth < p.fn.scopeDepth {
			break
		}
		if l.name.Lexeme == name.Lexeme {
			p.error("Already a variable with this name in this scope.")
		}
	}

	p.addLocal(name)
}

// addLocal reserves the next local slot for name, with depth -1 marking it
// declared-but-not-yet-initialized until markInitialized runs after its
// initializer expression is compiled.
func (p *parser) addLocal(name scanner.Token) {
	if len(p.fn.locals) == maxLocals {
		p.error("Too many local variables in function.")
		return
	}
	p.fn.locals = append(p.fn.locals, local{name: name, depth: -1})
}

func (p *parser) markInitialized() {
	if p.fn.scopeDepth == 0 {
		return
	}
	p.fn.locals[len(p.fn.locals)-1].depth = p.fn.scopeDepth
}

// resolveLocal searches the current function's locals for name, returning
// its slot index, or -1 if not found. A local found with depth -1 (declared
// but not yet initialized) is a compile error: it is being read in its own
// initializer.
func (p *parser) resolveLocal(fs *funcState, name string) int {
	for i := len(fs.locals) - 1; i >= 0; i-- {
		if fs.locals[i].name.Lexeme == name {
			if fs.locals[i].depth == -1 {
				p.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

// resolveUpvalue searches for name as a local or upvalue of any enclosing
// function, adding an upvalue entry to every function in between. It marks
// the found local `isCaptured` so endScope closes it instead of popping it.
func (p *parser) resolveUpvalue(fs *funcState, name string) int {
	if fs.enclosing == nil {
		return -1
	}

	if local := p.resolveLocal(fs.enclosing, name); local != -1 {
		fs.enclosing.locals[local].isCaptured = true
		return p.addUpvalue(fs, byte(local), true)
	}

	if up := p.resolveUpvalue(fs.enclosing, name); up != -1 {
		return p.addUpvalue(fs, byte(up), false)
	}

	return -1
}

// addUpvalue deduplicates: if fs already has an upvalue with this exact
// (index, isLocal) pair, its existing slot is reused rather than adding a
// second entry. Both fields must match — an upvalue capturing a local at
// index 2 and one capturing an enclosing upvalue at index 2 are distinct
// and must not collapse onto the same slot.
func (p *parser) addUpvalue(fs *funcState, index byte, isLocal bool) int {
	for i, up := range fs.upvalues {
		if up.index == index && up.isLocal == isLocal {
			return i
		}
	}

	if len(fs.upvalues) == maxUpvalues {
		p.error("Too many closure variables in function.")
		return 0
	}

	fs.upvalues = append(fs.upvalues, upvalueRef{index: index, isLocal: isLocal})
	return len(fs.upvalues) - 1
}
