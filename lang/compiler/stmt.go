package compiler

import (
	"github.com/mna/ember/lang/chunk"
	"github.com/mna/ember/lang/scanner"
	"github.com/mna/ember/lang/token"
	"github.com/mna/ember/lang/value"
)

// declaration is the top of the statement grammar: it dispatches to the
// three declaration forms, falling through to statement for everything
// else, and resynchronizes after any error so one mistake does not abort
// the whole compile.
func (p *parser) declaration() {
	switch {
	case p.match(token.CLASS):
		p.classDeclaration()
	case p.match(token.FUN):
		p.funDeclaration()
	case p.match(token.VAR):
		p.varDeclaration()
	default:
		p.statement()
	}

	if p.panicMode {
		p.synchronize()
	}
}

func (p *parser) statement() {
	switch {
	case p.match(token.PRINT):
		p.printStatement()
	case p.match(token.FOR):
		p.forStatement()
	case p.match(token.IF):
		p.ifStatement()
	case p.match(token.RETURN):
		p.returnStatement()
	case p.match(token.WHILE):
		p.whileStatement()
	case p.match(token.LEFT_BRACE):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.expressionStatement()
	}
}

func (p *parser) block() {
	for !p.check(token.RIGHT_BRACE) && !p.check(token.EOF) {
		p.declaration()
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after block.")
}

func (p *parser) expressionStatement() {
	p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")
	p.emitOp(chunk.OpPop)
}

func (p *parser) printStatement() {
	p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after value.")
	p.emitOp(chunk.OpPrint)
}

// returnStatement rejects a bare return at the top level of the script, and
// rejects a value-returning `return` inside an initializer (whose implicit
// return value, `this`, must not be overridable).
func (p *parser) returnStatement() {
	if p.fn.typ == typeScript {
		p.error("Can't return from top-level code.")
	}

	if p.match(token.SEMICOLON) {
		p.emitReturn()
		return
	}

	if p.fn.typ == typeInitializer {
		p.error("Can't return a value from an initializer.")
	}

	p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after return value.")
	p.emitOp(chunk.OpReturn)
}

func (p *parser) ifStatement() {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	thenJump := p.emitJump(chunk.OpJumpIfFalse)
	p.emitOp(chunk.OpPop)
	p.statement()

	elseJump := p.emitJump(chunk.OpJump)
	p.patchJump(thenJump)
	p.emitOp(chunk.OpPop)

	if p.match(token.ELSE) {
		p.statement()
	}
	p.patchJump(elseJump)
}

func (p *parser) whileStatement() {
	loopStart := len(p.currentChunk().Code)
	p.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	exitJump := p.emitJump(chunk.OpJumpIfFalse)
	p.emitOp(chunk.OpPop)
	p.statement()
	p.emitLoop(loopStart)

	p.patchJump(exitJump)
	p.emitOp(chunk.OpPop)
}

// forStatement desugars the C-style for loop into the while-loop bytecode
// shape: initializer, then a while loop over the condition whose body is
// the original body followed by the increment clause.
func (p *parser) forStatement() {
	p.beginScope()
	p.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")

	switch {
	case p.match(token.SEMICOLON):
		// no initializer
	case p.match(token.VAR):
		p.varDeclaration()
	default:
		p.expressionStatement()
	}

	loopStart := len(p.currentChunk().Code)

	exitJump := -1
	if !p.match(token.SEMICOLON) {
		p.expression()
		p.consume(token.SEMICOLON, "Expect ';' after loop condition.")

		exitJump = p.emitJump(chunk.OpJumpIfFalse)
		p.emitOp(chunk.OpPop)
	}

	if !p.match(token.RIGHT_PAREN) {
		bodyJump := p.emitJump(chunk.OpJump)

		incrementStart := len(p.currentChunk().Code)
		p.expression()
		p.emitOp(chunk.OpPop)
		p.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")

		p.emitLoop(loopStart)
		loopStart = incrementStart
		p.patchJump(bodyJump)
	}

	p.statement()
	p.emitLoop(loopStart)

	if exitJump != -1 {
		p.patchJump(exitJump)
		p.emitOp(chunk.OpPop)
	}

	p.endScope()
}

func (p *parser) varDeclaration() {
	global := p.parseVariable("Expect variable name.")

	if p.match(token.EQUAL) {
		p.expression()
	} else {
		p.emitOp(chunk.OpNil)
	}
	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")

	p.defineVariable(global)
}

// parseVariable consumes the variable name and declares it, returning the
// constant-pool index for its name if it is a global (the return value is
// unused, and must be, for a local).
func (p *parser) parseVariable(errMsg string) byte {
	p.consume(token.IDENTIFIER, errMsg)

	p.declareVariable()
	if p.fn.scopeDepth > 0 {
		return 0
	}
	return p.identifierConstant(p.previous.Lexeme)
}

func (p *parser) defineVariable(global byte) {
	if p.fn.scopeDepth > 0 {
		p.markInitialized()
		return
	}
	p.emitBytes(chunk.OpDefineGlobal, global)
}

func (p *parser) funDeclaration() {
	global := p.parseVariable("Expect function name.")
	p.markInitialized()
	p.function(typeFunction)
	p.defineVariable(global)
}

// function compiles a function's parameter list and body as a nested
// funcState, then emits OP_CLOSURE to wrap the finished function, followed
// by one (isLocal, index) pair per captured upvalue for the VM to resolve
// at closure-creation time.
func (p *parser) function(typ functionType) {
	name := p.previous.Lexeme
	p.beginFunction(typ, name)
	p.beginScope()

	p.consume(token.LEFT_PAREN, "Expect '(' after function name.")
	if !p.check(token.RIGHT_PAREN) {
		for {
			p.fn.function.Arity++
			if p.fn.function.Arity > maxArgs {
				p.errorAtCurrent("Can't have more than 255 parameters.")
			}
			constant := p.parseVariable("Expect parameter name.")
			p.defineVariable(constant)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")
	p.consume(token.LEFT_BRACE, "Expect '{' before function body.")
	p.block()

	upvalues := p.fn.upvalues
	fn := p.endFunction()

	idx := p.makeConstant(value.FromObj(fn))
	p.emitBytes(chunk.OpClosure, idx)
	for _, up := range upvalues {
		isLocal := byte(0)
		if up.isLocal {
			isLocal = 1
		}
		p.emitByte(isLocal)
		p.emitByte(up.index)
	}
}

func (p *parser) classDeclaration() {
	p.consume(token.IDENTIFIER, "Expect class name.")
	className := p.previous
	nameConstant := p.identifierConstant(className.Lexeme)
	p.declareVariable()

	p.emitBytes(chunk.OpClass, nameConstant)
	p.defineVariable(nameConstant)

	cs := &classState{enclosing: p.class}
	p.class = cs

	if p.match(token.LESS) {
		p.consume(token.IDENTIFIER, "Expect superclass name.")
		p.variable(false)

		if p.previous.Lexeme == className.Lexeme {
			p.error("A class can't inherit from itself.")
		}

		p.beginScope()
		p.addLocal(scanner.Token{Lexeme: "super"})
		p.defineVariable(0)

		p.namedVariable(className.Lexeme, false)
		p.emitOp(chunk.OpInherit)
		cs.hasSuperclass = true
	}

	p.namedVariable(className.Lexeme, false)
	p.consume(token.LEFT_BRACE, "Expect '{' before class body.")
	for !p.check(token.RIGHT_BRACE) && !p.check(token.EOF) {
		p.method()
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after class body.")
	p.emitOp(chunk.OpPop)

	if cs.hasSuperclass {
		p.endScope()
	}
	p.class = cs.enclosing
}

func (p *parser) method() {
	p.consume(token.IDENTIFIER, "Expect method name.")
	name := p.previous.Lexeme
	constant := p.identifierConstant(name)

	typ := typeMethod
	if name == "init" {
		typ = typeInitializer
	}
	p.function(typ)
	p.emitBytes(chunk.OpMethod, constant)
}
