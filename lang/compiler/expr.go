package compiler

import (
	"strconv"

	"github.com/mna/ember/lang/chunk"
	"github.com/mna/ember/lang/token"
	"github.com/mna/ember/lang/value"
)

// precedence orders binary operators from loosest- to tightest-binding, used
// by parsePrecedence to decide how far an infix parse should keep consuming.
type precedence int

const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * /
	precExponent              // ^
	precUnary                 // ! -
	precCall                  // . ()
	precPrimary
)

type (
	prefixFn func(p *parser, canAssign bool)
	infixFn  func(p *parser, canAssign bool)
)

type rule struct {
	prefix prefixFn
	infix  infixFn
	prec   precedence
}

var rules map[token.Token]rule

func init() {
	rules = map[token.Token]rule{
		token.LEFT_PAREN:    {(*parser).grouping, (*parser).call, precCall},
		token.DOT:           {nil, (*parser).dot, precCall},
		token.MINUS:         {(*parser).unary, (*parser).binary, precTerm},
		token.PLUS:          {nil, (*parser).binary, precTerm},
		token.SLASH:         {nil, (*parser).binary, precFactor},
		token.STAR:          {nil, (*parser).binary, precFactor},
		token.CARET:         {nil, (*parser).binary, precExponent},
		token.BANG:          {(*parser).unary, nil, precNone},
		token.BANG_EQUAL:    {nil, (*parser).binary, precEquality},
		token.EQUAL_EQUAL:   {nil, (*parser).binary, precEquality},
		token.GREATER:       {nil, (*parser).binary, precComparison},
		token.GREATER_EQUAL: {nil, (*parser).binary, precComparison},
		token.LESS:          {nil, (*parser).binary, precComparison},
		token.LESS_EQUAL:    {nil, (*parser).binary, precComparison},
		token.IDENTIFIER:    {(*parser).variable, nil, precNone},
		token.STRING:        {(*parser).string, nil, precNone},
		token.NUMBER:        {(*parser).number, nil, precNone},
		token.AND:           {nil, (*parser).and_, precAnd},
		token.OR:            {nil, (*parser).or_, precOr},
		token.FALSE:         {(*parser).literal, nil, precNone},
		token.NIL:           {(*parser).literal, nil, precNone},
		token.TRUE:          {(*parser).literal, nil, precNone},
		token.SUPER:         {(*parser).super_, nil, precNone},
		token.THIS:          {(*parser).this_, nil, precNone},
	}
}

func getRule(tt token.Token) rule { return rules[tt] }

func (p *parser) expression() { p.parsePrecedence(precAssignment) }

// parsePrecedence is the core of the Pratt parser: it consumes a prefix
// expression, then keeps consuming infix operators as long as their
// precedence is at or above minPrec.
func (p *parser) parsePrecedence(minPrec precedence) {
	p.advance()
	prefix := getRule(p.previous.Type).prefix
	if prefix == nil {
		p.error("Expect expression.")
		return
	}

	canAssign := minPrec <= precAssignment
	prefix(p, canAssign)

	for minPrec <= getRule(p.current.Type).prec {
		p.advance()
		infix := getRule(p.previous.Type).infix
		infix(p, canAssign)
	}

	if canAssign && p.match(token.EQUAL) {
		p.error("Invalid assignment target.")
	}
}

func (p *parser) number(_ bool) {
	n, err := strconv.ParseFloat(p.previous.Lexeme, 64)
	if err != nil {
		p.error("Invalid number literal.")
		return
	}
	p.emitConstant(value.Number(n))
}

// string emits the previous STRING token's lexeme with surrounding quotes
// stripped, interned into the heap's string table.
func (p *parser) string(_ bool) {
	lex := p.previous.Lexeme
	s := lex[1 : len(lex)-1]
	p.emitConstant(value.FromObj(p.heap.InternString(s)))
}

func (p *parser) literal(_ bool) {
	switch p.previous.Type {
	case token.FALSE:
		p.emitOp(chunk.OpFalse)
	case token.NIL:
		p.emitOp(chunk.OpNil)
	case token.TRUE:
		p.emitOp(chunk.OpTrue)
	}
}

func (p *parser) grouping(_ bool) {
	p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
}

func (p *parser) unary(_ bool) {
	opType := p.previous.Type
	p.parsePrecedence(precUnary)

	switch opType {
	case token.BANG:
		p.emitOp(chunk.OpNot)
	case token.MINUS:
		p.emitOp(chunk.OpNegate)
	}
}

func (p *parser) binary(_ bool) {
	opType := p.previous.Type
	r := getRule(opType)
	// left-associative: parse the right operand at one precedence level
	// tighter than this operator's own, except OP_EXPONENT which is
	// right-associative and so reuses its own precedence.
	if opType == token.CARET {
		p.parsePrecedence(r.prec)
	} else {
		p.parsePrecedence(r.prec + 1)
	}

	switch opType {
	case token.BANG_EQUAL:
		p.emitOp(chunk.OpEqual)
		p.emitOp(chunk.OpNot)
	case token.EQUAL_EQUAL:
		p.emitOp(chunk.OpEqual)
	case token.GREATER:
		p.emitOp(chunk.OpGreater)
	case token.GREATER_EQUAL:
		p.emitOp(chunk.OpLess)
		p.emitOp(chunk.OpNot)
	case token.LESS:
		p.emitOp(chunk.OpLess)
	case token.LESS_EQUAL:
		p.emitOp(chunk.OpGreater)
		p.emitOp(chunk.OpNot)
	case token.PLUS:
		p.emitOp(chunk.OpAdd)
	case token.MINUS:
		p.emitOp(chunk.OpSubtract)
	case token.STAR:
		p.emitOp(chunk.OpMultiply)
	case token.SLASH:
		p.emitOp(chunk.OpDivide)
	case token.CARET:
		p.emitOp(chunk.OpExponent)
	}
}

// and_ short-circuits: if the left operand is falsey, jump over the right
// operand entirely, leaving the falsey left value as the result.
func (p *parser) and_(_ bool) {
	endJump := p.emitJump(chunk.OpJumpIfFalse)
	p.emitOp(chunk.OpPop)
	p.parsePrecedence(precAnd)
	p.patchJump(endJump)
}

// or_ short-circuits the other way: if the left operand is truthy, skip the
// right operand.
func (p *parser) or_(_ bool) {
	elseJump := p.emitJump(chunk.OpJumpIfFalse)
	endJump := p.emitJump(chunk.OpJump)

	p.patchJump(elseJump)
	p.emitOp(chunk.OpPop)

	p.parsePrecedence(precOr)
	p.patchJump(endJump)
}

func (p *parser) call(_ bool) {
	argc := p.argumentList()
	p.emitBytes(chunk.OpCall, argc)
}

func (p *parser) argumentList() byte {
	var argc int
	if !p.check(token.RIGHT_PAREN) {
		for {
			p.expression()
			if argc == maxArgs {
				p.error("Can't have more than 255 arguments.")
			}
			argc++
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return byte(argc)
}

// dot parses a property access or assignment, with a fast path for method
// calls (obj.method(args)) that skips materializing a bound method object.
func (p *parser) dot(canAssign bool) {
	p.consume(token.IDENTIFIER, "Expect property name after '.'.")
	name := p.identifierConstant(p.previous.Lexeme)

	switch {
	case canAssign && p.match(token.EQUAL):
		p.expression()
		p.emitBytes(chunk.OpSetProperty, name)
	case p.match(token.LEFT_PAREN):
		argc := p.argumentList()
		p.emitBytes(chunk.OpInvoke, name)
		p.emitByte(argc)
	default:
		p.emitBytes(chunk.OpGetProperty, name)
	}
}

func (p *parser) this_(_ bool) {
	if p.class == nil {
		p.error("Can't use 'this' outside of a class.")
		return
	}
	p.namedVariable("this", false)
}

// super_ parses `super.method` or, when followed by an argument list,
// `super.method(args)`, which is emitted as a single OP_SUPER_INVOKE.
func (p *parser) super_(_ bool) {
	switch {
	case p.class == nil:
		p.error("Can't use 'super' outside of a class.")
	case !p.class.hasSuperclass:
		p.error("Can't use 'super' in a class with no superclass.")
	}

	p.consume(token.DOT, "Expect '.' after 'super'.")
	p.consume(token.IDENTIFIER, "Expect superclass method name.")
	name := p.identifierConstant(p.previous.Lexeme)

	p.namedVariable("this", false)
	if p.match(token.LEFT_PAREN) {
		argc := p.argumentList()
		p.namedVariable("super", false)
		p.emitBytes(chunk.OpSuperInvoke, name)
		p.emitByte(argc)
	} else {
		p.namedVariable("super", false)
		p.emitBytes(chunk.OpGetSuper, name)
	}
}

func (p *parser) variable(canAssign bool) { p.namedVariable(p.previous.Lexeme, canAssign) }

// namedVariable resolves name as a local, an upvalue, or (failing both) a
// global, and emits the matching get/set opcode pair.
func (p *parser) namedVariable(name string, canAssign bool) {
	var getOp, setOp chunk.Op
	arg := p.resolveLocal(p.fn, name)
	if arg != -1 {
		getOp, setOp = chunk.OpGetLocal, chunk.OpSetLocal
	} else if up := p.resolveUpvalue(p.fn, name); up != -1 {
		arg = up
		getOp, setOp = chunk.OpGetUpvalue, chunk.OpSetUpvalue
	} else {
		arg = int(p.identifierConstant(name))
		getOp, setOp = chunk.OpGetGlobal, chunk.OpSetGlobal
	}

	if canAssign && p.match(token.EQUAL) {
		p.expression()
		p.emitBytes(setOp, byte(arg))
	} else {
		p.emitBytes(getOp, byte(arg))
	}
}
