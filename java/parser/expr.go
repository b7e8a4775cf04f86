package parser

// expression parses an assignment expression, the widest expression form.
// Assignment is right associative: [target, operator, value].
func (p *Parser) expression() *Node {
	if p.lambdaAhead() {
		return p.lambda()
	}
	left := p.ternary()
	if !isAssignOp(p.peek().Kind) {
		return left
	}
	assign := p.begin(KindAssignExpr)
	assign.AddChild(left)
	assign.AddChild(p.take(KindIdentifier))
	assign.AddChild(p.expression())
	return p.end(assign)
}

func isAssignOp(kind TokenKind) bool {
	switch kind {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign,
		TokenStarAssign, TokenSlashAssign, TokenPercentAssign,
		TokenAndAssign, TokenOrAssign, TokenXorAssign,
		TokenShlAssign, TokenShrAssign, TokenUShrAssign:
		return true
	}
	return false
}

func (p *Parser) ternary() *Node {
	cond := p.binary(1)
	if !p.at(TokenQuestion) {
		return cond
	}
	t := p.begin(KindTernaryExpr)
	t.AddChild(cond)
	p.next()
	t.AddChild(p.expression())
	p.eat(TokenColon)
	if p.lambdaAhead() {
		t.AddChild(p.lambda())
	} else {
		t.AddChild(p.ternary())
	}
	return p.end(t)
}

// precedence of the binary operators, loosest first. instanceof binds
// like the relational operators.
var precedence = map[TokenKind]int{
	TokenOr:         1,
	TokenAnd:        2,
	TokenBitOr:      3,
	TokenBitXor:     4,
	TokenBitAnd:     5,
	TokenEQ:         6,
	TokenNE:         6,
	TokenLT:         7,
	TokenLE:         7,
	TokenGT:         7,
	TokenGE:         7,
	TokenInstanceof: 7,
	TokenShl:        8,
	TokenShr:        8,
	TokenUShr:       8,
	TokenPlus:       9,
	TokenMinus:      9,
	TokenStar:       10,
	TokenSlash:      10,
	TokenPercent:    10,
}

// binary parses left associative operators binding at least as tightly
// as minPrec into [left, operator, right] nodes.
func (p *Parser) binary(minPrec int) *Node {
	left := p.unary()
	for {
		prec, ok := precedence[p.peek().Kind]
		if !ok || prec < minPrec {
			return left
		}
		if p.at(TokenInstanceof) {
			left = p.instanceof(left)
			continue
		}
		b := p.begin(KindBinaryExpr)
		b.AddChild(left)
		b.AddChild(p.take(KindIdentifier))
		b.AddChild(p.binary(prec + 1))
		left = p.end(b)
	}
}

// instanceof parses "x instanceof T", "x instanceof final T t" and record
// patterns such as "x instanceof Point(int a, int b)".
func (p *Parser) instanceof(left *Node) *Node {
	n := p.begin(KindInstanceofExpr)
	n.AddChild(left)
	p.next()
	if p.at(TokenFinal) {
		n.AddChild(p.take(KindIdentifier))
	}
	typ := p.typ()
	if p.at(TokenLParen) {
		n.AddChild(p.recordPattern(typ))
		return p.end(n)
	}
	n.AddChild(typ)
	n.AddChild(p.name())
	return p.end(n)
}

func (p *Parser) unary() *Node {
	switch p.peek().Kind {
	case TokenIncrement, TokenDecrement, TokenPlus, TokenMinus, TokenNot, TokenBitNot:
		u := p.begin(KindUnaryExpr)
		u.AddChild(p.take(KindIdentifier))
		u.AddChild(p.unary())
		return p.end(u)
	case TokenLParen:
		if p.castAhead() {
			return p.cast()
		}
	}
	return p.selectors(p.primary())
}

// castAhead tells "(Type) operand" apart from a parenthesized expression.
// A reference type cast must be followed by something that cannot
// continue a binary expression, so "(a) - b" stays a subtraction.
func (p *Parser) castAhead() bool {
	return p.lookahead(func() bool {
		p.next()
		for p.at(TokenAt) {
			p.annotation()
		}
		if isPrimitive(p.peek().Kind) {
			return true
		}
		if !p.at(TokenIdent) {
			return false
		}
		p.qualifiedName()
		p.skipTypeArguments()
		p.skipDims()
		for p.eat(TokenBitAnd) {
			p.qualifiedName()
			p.skipTypeArguments()
		}
		if !p.eat(TokenRParen) {
			return false
		}
		switch p.peek().Kind {
		case TokenIdent, TokenThis, TokenSuper, TokenNew,
			TokenLParen, TokenNot, TokenBitNot,
			TokenIncrement, TokenDecrement,
			TokenIntLiteral, TokenFloatLiteral,
			TokenCharLiteral, TokenStringLiteral,
			TokenTextBlock, TokenTrue, TokenFalse, TokenNull:
			return true
		}
		return false
	})
}

// cast keeps the target types, more than one for an intersection cast,
// under a single Type node.
func (p *Parser) cast() *Node {
	c := p.begin(KindCastExpr)
	p.next()
	target := p.begin(KindType)
	p.separated(TokenBitAnd, func() { target.AddChild(p.typ()) })
	c.AddChild(p.end(target))
	p.eat(TokenRParen)
	if p.lambdaAhead() {
		c.AddChild(p.lambda())
	} else {
		c.AddChild(p.unary())
	}
	return p.end(c)
}

// selectors applies member access, calls, indexing, method references and
// postfix operators to expr.
func (p *Parser) selectors(expr *Node) *Node {
	for {
		switch p.peek().Kind {
		case TokenIncrement, TokenDecrement:
			post := p.begin(KindPostfixExpr)
			post.AddChild(expr)
			post.AddChild(p.take(KindIdentifier))
			expr = p.end(post)
		case TokenDot:
			p.next()
			expr = p.selectMember(expr)
		case TokenLBracket:
			if p.peekN(1).Kind == TokenRBracket {
				if arr := p.arrayTarget(expr); arr != nil {
					expr = arr
					continue
				}
			}
			p.next()
			index := p.begin(KindArrayAccess)
			index.AddChild(expr)
			index.AddChild(p.expression())
			p.eat(TokenRBracket)
			expr = p.end(index)
		case TokenLParen:
			expr = p.call(expr)
		case TokenColonColon:
			expr = p.methodRef(expr)
		case TokenLT:
			if !p.genericTargetAhead() {
				return expr
			}
			expr = p.genericTarget(expr)
		default:
			return expr
		}
	}
}

// selectMember parses what follows the dot in "expr.". Unknown selectors leave
// expr unchanged.
func (p *Parser) selectMember(expr *Node) *Node {
	access := func(kind NodeKind) *Node {
		fa := p.begin(KindFieldAccess)
		fa.AddChild(expr)
		fa.AddChild(p.take(kind))
		return p.end(fa)
	}
	switch kind := p.peek().Kind; {
	case kind == TokenNew:
		return p.innerNew(expr)
	case kind == TokenStringTemplate || kind == TokenTextBlockTemplate:
		tmpl := p.begin(KindTemplateExpr)
		tmpl.AddChild(expr)
		tmpl.AddChild(p.take(KindLiteral))
		return p.end(tmpl)
	case kind == TokenStringLiteral || kind == TokenTextBlock:
		return access(KindLiteral)
	case kind == TokenClass:
		lit := p.begin(KindClassLiteral)
		lit.AddChild(expr)
		p.next()
		return p.end(lit)
	case kind == TokenThis:
		return access(KindThis)
	case kind == TokenSuper:
		return access(KindSuper)
	case kind == TokenLT:
		targs := p.typeArguments()
		if !p.identifierLike() {
			return expr
		}
		fa := p.begin(KindFieldAccess)
		fa.AddChild(expr)
		fa.AddChild(targs)
		fa.AddChild(p.take(KindIdentifier))
		return p.callIfArguments(p.end(fa))
	case p.identifierLike():
		return p.callIfArguments(access(KindIdentifier))
	}
	return expr
}

func (p *Parser) callIfArguments(target *Node) *Node {
	if p.at(TokenLParen) {
		return p.call(target)
	}
	return target
}

func (p *Parser) call(target *Node) *Node {
	c := p.begin(KindCallExpr)
	c.AddChild(target)
	c.AddChild(p.arguments())
	return p.end(c)
}

// arguments parses "(a, b)" into a Parameters node of expressions.
func (p *Parser) arguments() *Node {
	args := p.begin(KindParameters)
	p.eat(TokenLParen)
	if !p.at(TokenRParen) {
		p.separated(TokenComma, func() { args.AddChild(p.expression()) })
	}
	p.eat(TokenRParen)
	return p.end(args)
}

func (p *Parser) methodRef(target *Node) *Node {
	ref := p.begin(KindMethodRef)
	ref.AddChild(target)
	p.eat(TokenColonColon)
	if p.at(TokenLT) {
		ref.AddChild(p.typeArguments())
	}
	if p.at(TokenNew) {
		ref.AddChild(p.take(KindIdentifier))
	} else {
		ref.AddChild(p.name())
	}
	return p.end(ref)
}

// arrayTarget parses the "[]" dimensions of "String[].class" and
// "String[]::new". It returns nil, consuming nothing, for anything else.
func (p *Parser) arrayTarget(elem *Node) *Node {
	saved := p.pos
	dims := 0
	for p.at(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.next()
		p.next()
		dims++
	}
	arrayType := func() *Node {
		t := elem
		for range dims {
			dim := p.begin(KindArrayType)
			dim.AddChild(t)
			t = p.end(dim)
		}
		return t
	}

	switch {
	case p.at(TokenDot) && p.peekN(1).Kind == TokenClass:
		p.next()
		p.next()
		lit := p.begin(KindClassLiteral)
		lit.AddChild(arrayType())
		return p.end(lit)
	case p.at(TokenColonColon) && p.peekN(1).Kind == TokenNew:
		p.next()
		ref := p.begin(KindMethodRef)
		ref.AddChild(arrayType())
		ref.AddChild(p.take(KindIdentifier))
		return p.end(ref)
	}
	p.pos = saved
	return nil
}

// genericTargetAhead reports whether the "<" at the cursor opens type
// arguments of a method reference target or class literal, as in
// "ArrayList<String>::new" or "Class<?>[]::new", instead of a comparison.
func (p *Parser) genericTargetAhead() bool {
	return p.lookahead(func() bool {
		for depth := 0; ; {
			switch kind := p.peek().Kind; kind {
			case TokenLT:
				depth++
			case TokenGT:
				depth--
			case TokenShr:
				depth -= 2
			case TokenUShr:
				depth -= 3
			case TokenIdent, TokenDot, TokenComma, TokenQuestion,
				TokenExtends, TokenSuper, TokenBitAnd, TokenLBracket, TokenRBracket:
			default:
				if !isPrimitive(kind) {
					return false
				}
			}
			p.next()
			if depth < 0 {
				return false
			}
			if depth == 0 {
				break
			}
		}
		return p.at(TokenColonColon) ||
			(p.at(TokenLBracket) && p.peekN(1).Kind == TokenRBracket) ||
			(p.at(TokenDot) && p.peekN(1).Kind == TokenClass)
	})
}

func (p *Parser) genericTarget(base *Node) *Node {
	t := p.begin(KindType, base)
	t.AddChild(base)
	t.AddChild(p.typeArguments())
	t = p.end(t)

	switch {
	case p.at(TokenColonColon):
		return p.methodRef(t)
	case p.at(TokenDot):
		p.next()
		p.next()
		lit := p.begin(KindClassLiteral)
		lit.AddChild(t)
		return p.end(lit)
	}
	if arr := p.arrayTarget(t); arr != nil {
		return arr
	}
	return t
}

func (p *Parser) primary() *Node {
	switch kind := p.peek().Kind; {
	case kind == TokenIntLiteral || kind == TokenFloatLiteral || kind == TokenCharLiteral ||
		kind == TokenStringLiteral || kind == TokenTextBlock ||
		kind == TokenTrue || kind == TokenFalse || kind == TokenNull:
		return p.take(KindLiteral)
	case kind == TokenThis:
		return p.take(KindThis)
	case kind == TokenSuper:
		return p.take(KindSuper)
	case kind == TokenNew:
		return p.newExpr()
	case kind == TokenLParen:
		return p.parenthesized()
	case kind == TokenSwitch:
		return p.switchBlock(KindSwitchExpr)
	case isPrimitive(kind) || kind == TokenVoid:
		return p.primitiveTarget()
	case p.identifierLike():
		return p.take(KindIdentifier)
	}
	return p.fail("expected expression", exprSync...)
}

func (p *Parser) parenthesized() *Node {
	paren := p.begin(KindParenExpr)
	p.eat(TokenLParen)
	paren.AddChild(p.expression())
	p.eat(TokenRParen)
	return p.end(paren)
}

// primitiveTarget parses "int.class", "int[].class" and "int[]::new".
func (p *Parser) primitiveTarget() *Node {
	t := p.take(KindType)
	for p.eat(TokenLBracket) {
		p.eat(TokenRBracket)
		dim := p.begin(KindArrayType)
		dim.AddChild(t)
		t = p.end(dim)
	}
	if p.at(TokenColonColon) {
		return p.methodRef(t)
	}
	lit := p.begin(KindClassLiteral, t)
	lit.AddChild(t)
	p.eat(TokenDot)
	p.eat(TokenClass)
	return p.end(lit)
}

// newExpr parses instance creation into [QualifiedName, TypeArguments?,
// Parameters, Block?] and array creation into [element type, dims...,
// ArrayInit?]. Constructor type arguments are not kept.
func (p *Parser) newExpr() *Node {
	start := p.begin(KindNewExpr)
	p.next()
	if p.at(TokenLT) {
		p.typeArguments()
	}
	for p.at(TokenAt) {
		p.annotation()
	}

	if isPrimitive(p.peek().Kind) {
		arr := p.begin(KindNewArrayExpr)
		arr.Span.Start = start.Span.Start
		arr.AddChild(p.take(KindType))
		return p.arrayCreation(arr)
	}

	name := p.qualifiedName()
	var targs *Node
	if p.at(TokenLT) {
		targs = p.typeArguments()
	}
	if p.at(TokenAt, TokenLBracket) {
		arr := p.begin(KindNewArrayExpr)
		arr.Span.Start = start.Span.Start
		arr.AddChild(name)
		return p.arrayCreation(arr)
	}

	n := start
	n.AddChild(name)
	n.AddChild(targs)
	n.AddChild(p.arguments())
	if p.at(TokenLBrace) {
		n.AddChild(p.classBody())
	}
	return p.end(n)
}

func (p *Parser) arrayCreation(arr *Node) *Node {
	for p.at(TokenAt, TokenLBracket) {
		for p.at(TokenAt) {
			arr.AddChild(p.annotation())
		}
		if !p.eat(TokenLBracket) {
			break
		}
		if !p.at(TokenRBracket) {
			arr.AddChild(p.expression())
		}
		p.eat(TokenRBracket)
	}
	if p.at(TokenLBrace) {
		arr.AddChild(p.arrayInit())
	}
	return p.end(arr)
}

// innerNew parses "outer.new Inner(args)" after the dot, giving
// [outer, Identifier, TypeArguments?, Parameters, Block?].
func (p *Parser) innerNew(outer *Node) *Node {
	p.eat(TokenNew)
	if p.at(TokenLT) {
		p.typeArguments()
	}
	n := p.begin(KindNewExpr)
	n.AddChild(outer)
	n.AddChild(p.name())
	if p.at(TokenLT) {
		n.AddChild(p.typeArguments())
	}
	n.AddChild(p.arguments())
	if p.at(TokenLBrace) {
		n.AddChild(p.classBody())
	}
	return p.end(n)
}

func (p *Parser) lambdaAhead() bool {
	if p.at(TokenIdent) && p.peekN(1).Kind == TokenArrow {
		return true
	}
	return p.at(TokenLParen) && p.lookahead(func() bool {
		p.skipBalanced(TokenLParen, TokenRParen)
		return p.at(TokenArrow)
	})
}

// lambda parses "x -> body" and "(params) -> body". Parameters hold bare
// identifiers for inferred parameters and Parameter nodes for typed ones.
func (p *Parser) lambda() *Node {
	l := p.begin(KindLambdaExpr)
	if p.at(TokenIdent) {
		params := p.begin(KindParameters)
		params.AddChild(p.take(KindIdentifier))
		l.AddChild(p.end(params))
	} else {
		l.AddChild(p.lambdaParameters())
	}
	p.eat(TokenArrow)
	if p.at(TokenLBrace) {
		l.AddChild(p.block())
	} else {
		l.AddChild(p.expression())
	}
	return p.end(l)
}

func (p *Parser) lambdaParameters() *Node {
	params := p.begin(KindParameters)
	p.eat(TokenLParen)
	if !p.at(TokenRParen) {
		p.separated(TokenComma, func() {
			if p.typedLambdaParameter() {
				params.AddChild(p.formal())
			} else {
				params.AddChild(p.name())
			}
		})
	}
	p.eat(TokenRParen)
	return p.end(params)
}

func (p *Parser) typedLambdaParameter() bool {
	switch kind := p.peek().Kind; {
	case kind == TokenFinal || kind == TokenAt || kind == TokenVar || isPrimitive(kind):
		return true
	case kind == TokenIdent:
		switch p.peekN(1).Kind {
		case TokenIdent, TokenLT, TokenDot, TokenLBracket:
			return true
		}
	}
	return false
}
