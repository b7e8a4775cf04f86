package parser

func (p *Parser) compilationUnit() *Node {
	unit := p.begin(KindCompilationUnit)
	if p.at(TokenPackage) || p.annotatedPackageAhead() {
		unit.AddChild(p.packageDecl())
	}
	for p.at(TokenImport) {
		unit.AddChild(p.importDecl())
	}

	switch {
	case p.moduleAhead():
		unit.AddChild(p.moduleDecl())
	case p.compactUnitAhead():
		// A compact source file declares members of an implicit class.
		for !p.at(TokenEOF) {
			unit.AddChild(p.member())
		}
	default:
		for !p.at(TokenEOF) {
			if p.eat(TokenSemicolon) {
				continue
			}
			unit.AddChild(p.topLevelDecl())
		}
	}
	return p.end(unit)
}

func (p *Parser) skipAnnotations() {
	for p.at(TokenAt) && p.peekN(1).Kind != TokenInterface {
		p.annotation()
	}
}

func (p *Parser) annotatedPackageAhead() bool {
	return p.at(TokenAt) && p.lookahead(func() bool {
		p.skipAnnotations()
		return p.at(TokenPackage)
	})
}

func (p *Parser) moduleAhead() bool {
	return !p.at(TokenEOF) && p.lookahead(func() bool {
		p.skipAnnotations()
		p.eat(TokenOpen)
		return p.at(TokenModule)
	})
}

func (p *Parser) compactUnitAhead() bool {
	return !p.at(TokenEOF) && p.lookahead(func() bool {
		p.skipAnnotations()
		for isModifier(p.peek().Kind) {
			p.next()
		}
		return !p.typeDeclAhead()
	})
}

// typeDeclAhead reports whether a class, interface, enum, record or
// annotation type declaration starts at the next token.
func (p *Parser) typeDeclAhead() bool {
	switch p.peek().Kind {
	case TokenClass, TokenInterface, TokenEnum:
		return true
	case TokenRecord:
		return p.peekN(1).Kind == TokenIdent
	case TokenAt:
		return p.peekN(1).Kind == TokenInterface
	}
	return false
}

func (p *Parser) moduleDecl() *Node {
	decl := p.begin(KindModuleDecl)
	for p.at(TokenAt) {
		decl.AddChild(p.annotation())
	}
	if p.at(TokenOpen) {
		decl.AddChild(p.take(KindIdentifier))
	}
	p.eat(TokenModule)
	decl.AddChild(p.qualifiedName())
	p.eat(TokenLBrace)
	p.until(TokenRBrace, func() { decl.AddChild(p.directive()) })
	return p.end(decl)
}

var directiveKinds = map[TokenKind]NodeKind{
	TokenRequires: KindRequiresDirective,
	TokenExports:  KindExportsDirective,
	TokenOpens:    KindOpensDirective,
	TokenUses:     KindUsesDirective,
	TokenProvides: KindProvidesDirective,
}

func (p *Parser) directive() *Node {
	keyword := p.peek().Kind
	kind, ok := directiveKinds[keyword]
	if !ok {
		return p.fail("expected module directive", directiveSync...)
	}
	d := p.begin(kind)
	p.next()
	names := func() {
		p.separated(TokenComma, func() { d.AddChild(p.qualifiedName()) })
	}
	switch keyword {
	case TokenRequires:
		for p.at(TokenTransitive, TokenStatic) {
			d.AddChild(p.take(KindIdentifier))
		}
		d.AddChild(p.qualifiedName())
	case TokenExports, TokenOpens:
		d.AddChild(p.qualifiedName())
		if p.eat(TokenTo) {
			names()
		}
	case TokenUses:
		d.AddChild(p.qualifiedName())
	case TokenProvides:
		d.AddChild(p.qualifiedName())
		p.eat(TokenWith)
		names()
	}
	p.eat(TokenSemicolon)
	return p.end(d)
}

func (p *Parser) packageDecl() *Node {
	decl := p.begin(KindPackageDecl)
	for p.at(TokenAt) {
		decl.AddChild(p.annotation())
	}
	p.eat(TokenPackage)
	decl.AddChild(p.qualifiedName())
	p.eat(TokenSemicolon)
	return p.end(decl)
}

// importDecl parses single type, on demand, static and module imports.
// The "static" keyword and the trailing "*" are kept as identifier leaves.
func (p *Parser) importDecl() *Node {
	decl := p.begin(KindImportDecl)
	p.eat(TokenImport)

	if p.at(TokenModule) || (p.at(TokenIdent) && p.peek().Literal == "module" && p.peekN(1).Kind != TokenDot) {
		decl.Kind = KindModuleImportDecl
		p.next()
		decl.AddChild(p.qualifiedName())
		p.eat(TokenSemicolon)
		return p.end(decl)
	}

	if p.at(TokenStatic) {
		decl.AddChild(p.take(KindIdentifier))
	}
	decl.AddChild(p.qualifiedName())
	if p.eat(TokenDot) && p.at(TokenStar) {
		decl.AddChild(p.take(KindIdentifier))
	}
	p.eat(TokenSemicolon)
	return p.end(decl)
}

func (p *Parser) qualifiedName() *Node {
	if !p.at(TokenIdent) {
		return p.fail("expected identifier")
	}
	qn := p.begin(KindQualifiedName)
	qn.AddChild(p.take(KindIdentifier))
	for p.at(TokenDot) && p.peekN(1).Kind == TokenIdent {
		p.next()
		qn.AddChild(p.take(KindIdentifier))
	}
	return p.end(qn)
}

func (p *Parser) topLevelDecl() *Node {
	mods := p.modifiers()
	if p.typeDeclAhead() {
		return p.typeDeclaration(mods)
	}
	if len(mods.Children) > 0 {
		return p.fail("expected class, interface, enum, record, or @interface", typeDeclSync...)
	}
	return p.fail("expected type declaration", typeDeclSync...)
}

func (p *Parser) modifiers() *Node {
	mods := p.begin(KindModifiers)
	for {
		switch kind := p.peek().Kind; {
		case kind == TokenAt && p.peekN(1).Kind != TokenInterface:
			mods.AddChild(p.annotation())
		case isModifier(kind):
			mods.AddChild(p.take(KindIdentifier))
		default:
			return p.end(mods)
		}
	}
}

// annotation parses "@Name", "@Name(value)" and "@Name(a = x, b = y)".
func (p *Parser) annotation() *Node {
	ann := p.begin(KindAnnotation)
	p.eat(TokenAt)
	ann.AddChild(p.qualifiedName())
	if !p.eat(TokenLParen) {
		return p.end(ann)
	}
	switch {
	case p.at(TokenRParen):
	case p.peekN(1).Kind == TokenAssign:
		p.separated(TokenComma, func() {
			elem := p.begin(KindAnnotationElement)
			elem.AddChild(p.name())
			p.eat(TokenAssign)
			elem.AddChild(p.annotationValue())
			ann.AddChild(p.end(elem))
		})
	default:
		ann.AddChild(p.annotationValue())
	}
	p.eat(TokenRParen)
	return p.end(ann)
}

func (p *Parser) annotationValue() *Node {
	switch {
	case p.at(TokenAt):
		return p.annotation()
	case p.at(TokenLBrace):
		values := p.begin(KindArrayInit)
		p.next()
		for !p.at(TokenRBrace, TokenEOF) {
			values.AddChild(p.annotationValue())
			if !p.eat(TokenComma) {
				break
			}
		}
		p.eat(TokenRBrace)
		return p.end(values)
	}
	return p.expression()
}

var declKinds = map[TokenKind]NodeKind{
	TokenClass:     KindClassDecl,
	TokenInterface: KindInterfaceDecl,
	TokenEnum:      KindEnumDecl,
	TokenRecord:    KindRecordDecl,
	TokenAt:        KindAnnotationDecl,
}

// typeDeclaration parses the declaration after its modifiers. Headers
// become [Modifiers, Identifier, TypeParameters?, clauses...] followed by
// the body; enum constants and members are direct children of the enum.
func (p *Parser) typeDeclaration(mods *Node) *Node {
	kind := declKinds[p.peek().Kind]
	decl := p.begin(kind, mods)
	decl.AddChild(mods)
	if p.eat(TokenAt) {
		p.eat(TokenInterface)
	} else {
		p.next()
	}
	decl.AddChild(p.name())

	if kind != KindEnumDecl && kind != KindAnnotationDecl && p.at(TokenLT) {
		decl.AddChild(p.typeParameters())
	}
	if kind == KindRecordDecl {
		decl.AddChild(p.formalParameters())
	}
	for _, clause := range []struct {
		keyword TokenKind
		kind    NodeKind
	}{
		{TokenExtends, KindExtendsClause},
		{TokenImplements, KindImplementsClause},
		{TokenPermits, KindPermitsClause},
	} {
		if p.at(clause.keyword) {
			decl.AddChild(p.typeClause(clause.kind))
		}
	}

	if kind == KindEnumDecl {
		p.enumBody(decl)
	} else {
		decl.AddChild(p.classBody())
	}
	return p.end(decl)
}

func (p *Parser) enumBody(decl *Node) {
	p.eat(TokenLBrace)
	for p.at(TokenIdent, TokenAt) {
		decl.AddChild(p.enumConstant())
		if !p.eat(TokenComma) {
			break
		}
	}
	if p.eat(TokenSemicolon) {
		for !p.at(TokenRBrace, TokenEOF) {
			decl.AddChild(p.member())
		}
	}
	p.eat(TokenRBrace)
}

// enumConstant is represented as a field declaration holding its
// annotations, name, arguments and class body.
func (p *Parser) enumConstant() *Node {
	c := p.begin(KindFieldDecl)
	for p.at(TokenAt) {
		c.AddChild(p.annotation())
	}
	c.AddChild(p.name())
	if p.at(TokenLParen) {
		c.AddChild(p.arguments())
	}
	if p.at(TokenLBrace) {
		c.AddChild(p.classBody())
	}
	return p.end(c)
}

// typeClause parses a keyword followed by a comma separated type list,
// as in "implements A, B".
func (p *Parser) typeClause(kind NodeKind) *Node {
	clause := p.begin(kind)
	p.next()
	p.separated(TokenComma, func() { clause.AddChild(p.typ()) })
	return p.end(clause)
}

func (p *Parser) classBody() *Node {
	body := p.begin(KindBlock)
	p.eat(TokenLBrace)
	p.until(TokenRBrace, func() { body.AddChild(p.member()) })
	return p.end(body)
}

func (p *Parser) member() *Node {
	switch {
	case p.at(TokenLBrace):
		return p.block()
	case p.at(TokenStatic) && p.peekN(1).Kind == TokenLBrace:
		init := p.begin(KindBlock)
		init.AddChild(p.take(KindIdentifier))
		init.AddChild(p.block())
		return p.end(init)
	case p.at(TokenSemicolon):
		empty := p.begin(KindEmptyStmt)
		p.next()
		return p.end(empty)
	}

	mods := p.modifiers()
	switch {
	case p.typeDeclAhead():
		return p.typeDeclaration(mods)
	case p.at(TokenLT):
		tparams := p.typeParameters()
		if p.identifierLike() && p.peekN(1).Kind == TokenLParen {
			return p.constructor(mods, tparams)
		}
		return p.method(mods, tparams, p.typ())
	case p.identifierLike() && p.peekN(1).Kind == TokenLParen:
		return p.constructor(mods, nil)
	case p.identifierLike() && p.peekN(1).Kind == TokenLBrace:
		return p.compactConstructor(mods)
	}

	typ := p.typ()
	if !p.identifierLike() {
		return p.fail("expected member declaration", memberSync...)
	}
	if p.peekN(1).Kind == TokenLParen {
		return p.method(mods, nil, typ)
	}
	return p.field(mods, typ)
}

func (p *Parser) constructor(mods, tparams *Node) *Node {
	ctor := p.begin(KindConstructorDecl, mods, tparams)
	ctor.AddChild(mods)
	ctor.AddChild(tparams)
	ctor.AddChild(p.name())
	ctor.AddChild(p.formalParameters())
	if p.at(TokenThrows) {
		ctor.AddChild(p.throwsList())
	}

	body := p.begin(KindBlock)
	p.eat(TokenLBrace)
	if p.explicitInvocationAhead() {
		body.AddChild(p.explicitInvocation())
	}
	p.until(TokenRBrace, func() { body.AddChild(p.statement()) })
	ctor.AddChild(p.end(body))
	return p.end(ctor)
}

// compactConstructor parses a record constructor without a parameter
// list. It gets an empty Parameters node so that all constructors share a
// shape.
func (p *Parser) compactConstructor(mods *Node) *Node {
	ctor := p.begin(KindConstructorDecl, mods)
	ctor.AddChild(mods)
	ctor.AddChild(p.name())
	ctor.AddChild(p.end(p.begin(KindParameters)))
	ctor.AddChild(p.block())
	return p.end(ctor)
}

// explicitInvocationAhead detects "this(...)", "super(...)" and qualified
// forms like "outer.super(...)" or "(expr).<T>super(...)".
func (p *Parser) explicitInvocationAhead() bool {
	return p.lookahead(func() bool {
		p.skipTypeArguments()
		if p.at(TokenThis, TokenSuper) {
			p.next()
			return p.at(TokenLParen)
		}
		return false
	}) || p.lookahead(p.qualifiedSuperAhead)
}

func (p *Parser) qualifiedSuperAhead() bool {
	switch {
	case p.at(TokenIdent):
		for p.at(TokenIdent) {
			p.next()
			if !p.eat(TokenDot) {
				return false
			}
		}
	case p.at(TokenLParen):
		p.skipBalanced(TokenLParen, TokenRParen)
		if !p.eat(TokenDot) {
			return false
		}
	default:
		return false
	}
	p.skipTypeArguments()
	return p.eat(TokenSuper) && p.at(TokenLParen)
}

// skipBalanced skips from an opening token to its matching closing token.
func (p *Parser) skipBalanced(open, closing TokenKind) {
	p.next()
	for depth := 1; depth > 0 && !p.at(TokenEOF); p.next() {
		switch p.peek().Kind {
		case open:
			depth++
		case closing:
			depth--
		}
	}
}

func (p *Parser) explicitInvocation() *Node {
	inv := p.begin(KindExplicitConstructorInvocation)
	if !p.at(TokenLT, TokenThis, TokenSuper) {
		inv.AddChild(p.invocationQualifier())
	}
	if p.at(TokenLT) {
		inv.AddChild(p.typeArguments())
	}
	switch {
	case p.at(TokenThis):
		inv.AddChild(p.take(KindThis))
	case p.at(TokenSuper):
		inv.AddChild(p.take(KindSuper))
	}
	inv.AddChild(p.arguments())
	p.eat(TokenSemicolon)
	return p.end(inv)
}

// invocationQualifier parses the expression before ".super(...)" and the
// dot after it. Name chains nest as QualifiedName[QualifiedName[a, b], c].
func (p *Parser) invocationQualifier() *Node {
	switch {
	case p.at(TokenIdent):
		q := p.take(KindIdentifier)
		for p.eat(TokenDot) && p.at(TokenIdent) {
			qn := p.begin(KindQualifiedName)
			qn.AddChild(q)
			qn.AddChild(p.take(KindIdentifier))
			q = p.end(qn)
		}
		return q
	case p.at(TokenLParen):
		q := p.parenthesized()
		p.eat(TokenDot)
		return q
	}
	q := p.primary()
	p.eat(TokenDot)
	return q
}

func (p *Parser) method(mods, tparams, result *Node) *Node {
	m := p.begin(KindMethodDecl, mods, tparams, result)
	m.AddChild(mods)
	m.AddChild(tparams)
	m.AddChild(result)
	m.AddChild(p.softName())
	m.AddChild(p.formalParameters())
	p.skipDims()
	if p.at(TokenThrows) {
		m.AddChild(p.throwsList())
	}
	switch {
	case p.at(TokenLBrace):
		m.AddChild(p.block())
	case p.eat(TokenDefault):
		m.AddChild(p.annotationValue())
		p.eat(TokenSemicolon)
	default:
		p.eat(TokenSemicolon)
	}
	return p.end(m)
}

// skipDims consumes old style "[]" pairs after a declarator.
func (p *Parser) skipDims() {
	for p.eat(TokenLBracket) {
		p.eat(TokenRBracket)
	}
}

func (p *Parser) field(mods, typ *Node) *Node {
	f := p.begin(KindFieldDecl, mods, typ)
	f.AddChild(mods)
	f.AddChild(typ)
	p.declarators(f, (*Parser).name)
	p.eat(TokenSemicolon)
	return p.end(f)
}

// declarators parses "a = 1, b[], c" into name and initializer children.
func (p *Parser) declarators(decl *Node, declName func(*Parser) *Node) {
	p.separated(TokenComma, func() {
		decl.AddChild(declName(p))
		p.skipDims()
		if p.eat(TokenAssign) {
			decl.AddChild(p.variableInit().MarkInitializer())
		}
	})
}

func (p *Parser) variableInit() *Node {
	if p.at(TokenLBrace) {
		return p.arrayInit()
	}
	return p.expression()
}

func (p *Parser) arrayInit() *Node {
	init := p.begin(KindArrayInit)
	p.eat(TokenLBrace)
	for !p.at(TokenRBrace, TokenEOF) {
		init.AddChild(p.variableInit())
		if !p.eat(TokenComma) {
			break
		}
	}
	p.eat(TokenRBrace)
	return p.end(init)
}

func (p *Parser) formalParameters() *Node {
	params := p.begin(KindParameters)
	p.eat(TokenLParen)
	if p.receiverAhead() {
		params.AddChild(p.receiver())
		p.eat(TokenComma)
	}
	for !p.at(TokenRParen, TokenEOF) {
		params.AddChild(p.formal())
		if !p.eat(TokenComma) {
			break
		}
	}
	p.eat(TokenRParen)
	return p.end(params)
}

// receiverAhead detects an explicit receiver such as "Outer Outer.this".
func (p *Parser) receiverAhead() bool {
	return !p.at(TokenRParen) && p.lookahead(func() bool {
		for p.at(TokenAt) {
			p.annotation()
		}
		if !p.skipTypeName(false) {
			return false
		}
		p.skipDims()
		if p.eat(TokenIdent) {
			return p.eat(TokenDot) && p.at(TokenThis)
		}
		return p.at(TokenThis)
	})
}

func (p *Parser) receiver() *Node {
	r := p.begin(KindReceiverParameter)
	for p.at(TokenAt) {
		r.AddChild(p.annotation())
	}
	r.AddChild(p.typ())
	if p.at(TokenIdent) {
		r.AddChild(p.take(KindIdentifier))
		p.eat(TokenDot)
	}
	p.eat(TokenThis)
	return p.end(r)
}

// formal parses a parameter into [Modifiers, Type, "..."?, name].
func (p *Parser) formal() *Node {
	param := p.begin(KindParameter)
	param.AddChild(p.modifiers())
	param.AddChild(p.typ())
	if p.at(TokenEllipsis) {
		param.AddChild(p.take(KindIdentifier))
	}
	param.AddChild(p.declaratorName())
	p.skipDims()
	return p.end(param)
}

func (p *Parser) throwsList() *Node {
	list := p.begin(KindThrowsList)
	p.eat(TokenThrows)
	p.separated(TokenComma, func() { list.AddChild(p.typ()) })
	return p.end(list)
}

// declaratorName parses a variable name, "_" included.
func (p *Parser) declaratorName() *Node {
	if p.underscore() {
		unnamed := p.begin(KindUnnamedVariable)
		p.next()
		return p.end(unnamed)
	}
	return p.softName()
}
