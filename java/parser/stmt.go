package parser

func (p *Parser) block() *Node {
	b := p.begin(KindBlock)
	p.eat(TokenLBrace)
	p.until(TokenRBrace, func() { b.AddChild(p.statement()) })
	return p.end(b)
}

func (p *Parser) statement() *Node {
	switch p.peek().Kind {
	case TokenLBrace:
		return p.block()
	case TokenSemicolon:
		empty := p.begin(KindEmptyStmt)
		p.next()
		return p.end(empty)
	case TokenIf:
		return p.ifStmt()
	case TokenFor:
		return p.forStmt()
	case TokenWhile:
		return p.whileStmt()
	case TokenDo:
		return p.doStmt()
	case TokenSwitch:
		return p.switchBlock(KindSwitchStmt)
	case TokenReturn:
		return p.keywordStmt(KindReturnStmt, p.peekN(1).Kind != TokenSemicolon)
	case TokenThrow:
		return p.keywordStmt(KindThrowStmt, true)
	case TokenYield:
		return p.keywordStmt(KindYieldStmt, true)
	case TokenBreak:
		return p.jumpStmt(KindBreakStmt)
	case TokenContinue:
		return p.jumpStmt(KindContinueStmt)
	case TokenTry:
		return p.tryStmt()
	case TokenSynchronized:
		return p.synchronizedStmt()
	case TokenAssert:
		return p.assertStmt()
	}

	switch {
	case p.localClassAhead():
		return p.localClassDecl()
	case p.at(TokenIdent) && p.peekN(1).Kind == TokenColon:
		labeled := p.begin(KindLabeledStmt)
		labeled.AddChild(p.take(KindIdentifier))
		p.next()
		labeled.AddChild(p.statement())
		return p.end(labeled)
	case p.localVarAhead():
		decl := p.localVarDecl()
		p.eat(TokenSemicolon)
		return p.end(decl)
	}
	return p.exprStmt()
}

// keywordStmt parses "return x;", "throw x;" and "yield x;".
func (p *Parser) keywordStmt(kind NodeKind, operand bool) *Node {
	s := p.begin(kind)
	p.next()
	if operand {
		s.AddChild(p.expression())
	}
	p.eat(TokenSemicolon)
	return p.end(s)
}

func (p *Parser) jumpStmt(kind NodeKind) *Node {
	s := p.begin(kind)
	p.next()
	s.AddChild(p.name())
	p.eat(TokenSemicolon)
	return p.end(s)
}

func (p *Parser) exprStmt() *Node {
	s := p.begin(KindExprStmt)
	s.AddChild(p.expression())
	p.eat(TokenSemicolon)
	return p.end(s)
}

// localClassAhead detects class, interface, enum and record declarations
// in a block, including ones with modifiers such as "final class".
func (p *Parser) localClassAhead() bool {
	return p.lookahead(func() bool {
		p.modifiers()
		return p.typeDeclAhead() && !p.at(TokenAt)
	})
}

func (p *Parser) localClassDecl() *Node {
	local := p.begin(KindLocalClassDecl)
	local.AddChild(p.typeDeclaration(p.modifiers()))
	return p.end(local)
}

// localVarAhead reports whether a local variable declaration starts here
// rather than an expression.
func (p *Parser) localVarAhead() bool {
	return p.lookahead(func() bool {
		p.skipVariableModifiers()
		if isPrimitive(p.peek().Kind) || p.at(TokenVar) {
			return true
		}
		if !p.identifierLike() {
			return false
		}
		p.qualifiedName()
		p.skipTypeArguments()
		for p.at(TokenDot) && p.peekN(1).Kind == TokenIdent {
			p.next()
			p.qualifiedName()
			p.skipTypeArguments()
		}
		for p.eat(TokenLBracket) {
			if !p.eat(TokenRBracket) {
				return false
			}
		}
		return p.identifierLike() || p.underscore()
	})
}

func (p *Parser) skipVariableModifiers() {
	for {
		switch {
		case p.at(TokenAt):
			p.annotation()
		case p.at(TokenFinal):
			p.next()
		default:
			return
		}
	}
}

// localVarDecl parses a declaration without its semicolon. A "var" type is
// kept as a Type leaf rather than a Type with an identifier child.
func (p *Parser) localVarDecl() *Node {
	decl := p.begin(KindLocalVarDecl)
	decl.AddChild(p.modifiers())
	decl.AddChild(p.localType())
	p.declarators(decl, (*Parser).declaratorName)
	return decl
}

func (p *Parser) localType() *Node {
	if p.at(TokenVar) {
		return p.take(KindType)
	}
	return p.typ()
}

func (p *Parser) ifStmt() *Node {
	s := p.begin(KindIfStmt)
	p.next()
	s.AddChild(p.condition())
	s.AddChild(p.statement())
	if p.eat(TokenElse) {
		s.AddChild(p.statement())
	}
	return p.end(s)
}

// condition parses a parenthesized expression without keeping the
// parentheses.
func (p *Parser) condition() *Node {
	p.eat(TokenLParen)
	cond := p.expression()
	p.eat(TokenRParen)
	return cond
}

func (p *Parser) whileStmt() *Node {
	s := p.begin(KindWhileStmt)
	p.next()
	s.AddChild(p.condition())
	s.AddChild(p.statement())
	return p.end(s)
}

func (p *Parser) doStmt() *Node {
	s := p.begin(KindDoStmt)
	p.next()
	s.AddChild(p.statement())
	p.eat(TokenWhile)
	s.AddChild(p.condition())
	p.eat(TokenSemicolon)
	return p.end(s)
}

// forStmt parses both loop forms. The basic form becomes
// [ForInit, condition?, ForUpdate, body], the enhanced form
// [Modifiers, Type, name, iterable, body].
func (p *Parser) forStmt() *Node {
	s := p.begin(KindForStmt)
	p.next()
	p.eat(TokenLParen)

	if p.enhancedForAhead() {
		s.Kind = KindEnhancedForStmt
		s.AddChild(p.modifiers())
		s.AddChild(p.localType())
		s.AddChild(p.declaratorName())
		p.eat(TokenColon)
		s.AddChild(p.expression())
		p.eat(TokenRParen)
		s.AddChild(p.statement())
		return p.end(s)
	}

	init := p.begin(KindForInit)
	switch {
	case p.at(TokenSemicolon):
	case p.localVarAhead():
		init.AddChild(p.end(p.localVarDecl()))
	default:
		p.separated(TokenComma, func() { init.AddChild(p.expression()) })
	}
	s.AddChild(p.end(init))
	p.eat(TokenSemicolon)

	if !p.at(TokenSemicolon) {
		s.AddChild(p.expression())
	}
	p.eat(TokenSemicolon)

	update := p.begin(KindForUpdate)
	if !p.at(TokenRParen) {
		p.separated(TokenComma, func() { update.AddChild(p.expression()) })
	}
	s.AddChild(p.end(update))
	p.eat(TokenRParen)

	s.AddChild(p.statement())
	return p.end(s)
}

func (p *Parser) enhancedForAhead() bool {
	return p.lookahead(func() bool {
		p.skipVariableModifiers()
		if !p.skipTypeName(true) {
			return false
		}
		p.skipDims()
		return p.eat(TokenIdent) && p.at(TokenColon)
	})
}

// switchBlock parses a switch statement or expression; they share the
// [selector, SwitchCase...] shape.
func (p *Parser) switchBlock(kind NodeKind) *Node {
	s := p.begin(kind)
	p.next()
	s.AddChild(p.condition())
	p.eat(TokenLBrace)
	p.until(TokenRBrace, func() { s.AddChild(p.switchCase()) })
	return p.end(s)
}

// switchCase parses the labels of one case and its body. An arrow case
// has a single body: a block, a throw or an expression statement.
func (p *Parser) switchCase() *Node {
	c := p.begin(KindSwitchCase)
	arrow := false
	for !arrow && p.at(TokenCase, TokenDefault) {
		label := p.switchLabel()
		c.AddChild(label)
		arrow = label.isArrowCase
	}

	if !arrow {
		for !p.at(TokenCase, TokenDefault, TokenRBrace, TokenEOF) {
			c.AddChild(p.statement())
		}
		return p.end(c)
	}
	switch {
	case p.at(TokenLBrace):
		c.AddChild(p.block())
	case p.at(TokenThrow):
		c.AddChild(p.keywordStmt(KindThrowStmt, true))
	default:
		c.AddChild(p.exprStmt())
	}
	return p.end(c)
}

func (p *Parser) switchLabel() *Node {
	label := p.begin(KindSwitchLabel)
	if p.eat(TokenCase) {
		p.caseElements(label)
		if p.at(TokenWhen) {
			guard := p.begin(KindGuard)
			p.next()
			guard.AddChild(p.expression())
			label.AddChild(p.end(guard))
		}
	} else {
		p.eat(TokenDefault)
	}

	if p.at(TokenArrow) {
		label.AddChild(p.take(KindIdentifier))
		label.isArrowCase = true
	} else {
		p.eat(TokenColon)
	}
	return p.end(label)
}

// caseElements parses the comma separated constants or patterns of a case
// label. "case null, default" keeps default as an identifier leaf.
func (p *Parser) caseElements(label *Node) {
	for {
		if p.patternAhead() {
			label.AddChild(p.pattern())
		} else {
			label.AddChild(p.ternary())
		}
		if !p.eat(TokenComma) {
			return
		}
		if p.at(TokenDefault) {
			label.AddChild(p.take(KindIdentifier))
			return
		}
	}
}

func (p *Parser) matchAllAhead() bool {
	if !p.underscore() {
		return false
	}
	switch p.peekN(1).Kind {
	case TokenColon, TokenArrow, TokenComma, TokenRParen:
		return true
	}
	return false
}

// patternAhead distinguishes "case Type name", "case Type(...)" and "_"
// from constant labels.
func (p *Parser) patternAhead() bool {
	return p.matchAllAhead() || p.lookahead(func() bool {
		for p.at(TokenAt) {
			p.annotation()
		}
		if !p.skipTypeName(false) {
			return false
		}
		for p.eat(TokenLBracket) {
			if !p.eat(TokenRBracket) {
				return false
			}
		}
		return p.at(TokenIdent, TokenLParen)
	})
}

func (p *Parser) pattern() *Node {
	if p.matchAllAhead() {
		all := p.begin(KindMatchAllPattern)
		p.next()
		return p.end(all)
	}

	typ := p.typ()
	if !p.at(TokenLParen) {
		tp := p.begin(KindTypePattern, typ)
		tp.AddChild(typ)
		tp.AddChild(p.name())
		return p.end(tp)
	}
	return p.recordPattern(typ)
}

// recordPattern parses the component patterns after a record type.
func (p *Parser) recordPattern(typ *Node) *Node {
	p.eat(TokenLParen)
	rp := p.begin(KindRecordPattern, typ)
	rp.AddChild(typ)
	if !p.at(TokenRParen) {
		p.separated(TokenComma, func() { rp.AddChild(p.pattern()) })
	}
	p.eat(TokenRParen)
	return p.end(rp)
}

func (p *Parser) tryStmt() *Node {
	s := p.begin(KindTryStmt)
	p.next()
	if p.eat(TokenLParen) {
		for !p.at(TokenRParen, TokenEOF) {
			s.AddChild(p.resource())
			p.eat(TokenSemicolon)
		}
		p.eat(TokenRParen)
	}
	s.AddChild(p.block())

	for p.at(TokenCatch) {
		s.AddChild(p.catchClause())
	}
	if p.at(TokenFinally) {
		fin := p.begin(KindFinallyClause)
		p.next()
		fin.AddChild(p.block())
		s.AddChild(p.end(fin))
	}
	return p.end(s)
}

// resource is a declaration like "var in = open()" or an effectively
// final variable reference.
func (p *Parser) resource() *Node {
	if !p.localVarAhead() {
		return p.expression()
	}
	decl := p.begin(KindLocalVarDecl)
	decl.AddChild(p.modifiers())
	decl.AddChild(p.typ())
	decl.AddChild(p.declaratorName())
	if p.eat(TokenAssign) {
		decl.AddChild(p.expression().MarkInitializer())
	}
	return p.end(decl)
}

// catchClause keeps the caught types under one Type node, so a
// multi-catch "A | B" and a single type look alike.
func (p *Parser) catchClause() *Node {
	c := p.begin(KindCatchClause)
	p.next()
	p.eat(TokenLParen)
	c.AddChild(p.modifiers())

	union := p.begin(KindType)
	p.separated(TokenBitOr, func() { union.AddChild(p.typ()) })
	c.AddChild(p.end(union))

	c.AddChild(p.declaratorName())
	p.eat(TokenRParen)
	c.AddChild(p.block())
	return p.end(c)
}

func (p *Parser) synchronizedStmt() *Node {
	s := p.begin(KindSynchronizedStmt)
	p.next()
	s.AddChild(p.condition())
	s.AddChild(p.block())
	return p.end(s)
}

func (p *Parser) assertStmt() *Node {
	s := p.begin(KindAssertStmt)
	p.next()
	s.AddChild(p.expression())
	if p.eat(TokenColon) {
		s.AddChild(p.expression())
	}
	p.eat(TokenSemicolon)
	return p.end(s)
}
