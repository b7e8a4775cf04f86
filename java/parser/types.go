package parser

import "slices"

// typ parses a type: primitive, void and var become an Identifier leaf,
// reference types a QualifiedName with optional TypeArguments per
// segment. Each array dimension wraps the type in an ArrayType.
func (p *Parser) typ() *Node {
	t := p.begin(KindType)
	for p.at(TokenAt) {
		t.AddChild(p.annotation())
	}

	switch kind := p.peek().Kind; {
	case isPrimitive(kind) || kind == TokenVoid || kind == TokenVar:
		t.AddChild(p.take(KindIdentifier))
	case kind == TokenIdent:
		t.AddChild(p.qualifiedName())
		if p.at(TokenLT) {
			t.AddChild(p.typeArguments())
		}
		// Outer<T>.Inner<U>
		for p.at(TokenDot) && p.peekN(1).Kind == TokenIdent {
			p.next()
			t.AddChild(p.qualifiedName())
			if p.at(TokenLT) {
				t.AddChild(p.typeArguments())
			}
		}
	default:
		return p.fail("expected type", typeSync...)
	}

	for p.at(TokenAt, TokenLBracket) {
		dim := p.begin(KindArrayType)
		for p.at(TokenAt) {
			dim.AddChild(p.annotation())
		}
		if !p.eat(TokenLBracket) {
			break
		}
		p.eat(TokenRBracket)
		dim.AddChild(t)
		t = p.end(dim)
	}
	return p.end(t)
}

func (p *Parser) typeParameters() *Node {
	list := p.begin(KindTypeParameters)
	p.eat(TokenLT)
	p.separated(TokenComma, func() {
		tp := p.begin(KindTypeParameter)
		for p.at(TokenAt) {
			tp.AddChild(p.annotation())
		}
		tp.AddChild(p.name())
		if p.eat(TokenExtends) {
			p.separated(TokenBitAnd, func() { tp.AddChild(p.typ()) })
		}
		list.AddChild(p.end(tp))
	})
	p.closeAngle()
	return p.end(list)
}

// typeArguments parses "<A, ? extends B>" and the diamond "<>".
func (p *Parser) typeArguments() *Node {
	args := p.begin(KindTypeArguments)
	p.eat(TokenLT)
	if p.eat(TokenGT) {
		return p.end(args)
	}
	p.separated(TokenComma, func() {
		if !p.at(TokenQuestion) {
			args.AddChild(p.typ())
			return
		}
		w := p.begin(KindWildcard)
		p.next()
		if p.at(TokenExtends, TokenSuper) {
			w.AddChild(p.take(KindIdentifier))
			w.AddChild(p.typ())
		}
		args.AddChild(p.end(w))
	})
	p.closeAngle()
	return p.end(args)
}

// angleRest maps tokens that start with '>' to what is left of them once
// the '>' closes a type argument list.
var angleRest = map[TokenKind]TokenKind{
	TokenShr:        TokenGT,
	TokenUShr:       TokenShr,
	TokenGE:         TokenAssign,
	TokenShrAssign:  TokenGE,
	TokenUShrAssign: TokenShrAssign,
}

// closeAngle consumes a '>' that ends a type argument list. The lexer
// reads ">>" as a shift, so such tokens are split in place into '>' and
// the remainder.
func (p *Parser) closeAngle() bool {
	tok := p.peek()
	if tok.Kind == TokenGT {
		p.next()
		return true
	}
	rest, ok := angleRest[tok.Kind]
	if !ok {
		return false
	}
	mid := tok.Span.Start
	mid.Offset++
	mid.Column++
	p.tokens[p.pos] = Token{Kind: TokenGT, Literal: ">", Span: Span{Start: tok.Span.Start, End: mid}}
	p.tokens = slices.Insert(p.tokens, p.pos+1, Token{Kind: rest, Literal: tok.Literal[1:], Span: Span{Start: mid, End: tok.Span.End}})
	p.next()
	return true
}

// skipTypeArguments skips a type argument list in lookahead, if one
// starts here.
func (p *Parser) skipTypeArguments() {
	if !p.eat(TokenLT) {
		return
	}
	for depth := 1; depth > 0 && !p.at(TokenEOF); p.next() {
		switch p.peek().Kind {
		case TokenLT:
			depth++
		case TokenGT:
			depth--
		case TokenShr:
			depth -= 2
		case TokenUShr:
			depth -= 3
		}
	}
}

// skipTypeName skips a primitive or a possibly parameterized class type
// in lookahead. It reports whether one was there.
func (p *Parser) skipTypeName(allowVar bool) bool {
	switch kind := p.peek().Kind; {
	case isPrimitive(kind) || (allowVar && kind == TokenVar):
		p.next()
	case kind == TokenIdent:
		p.qualifiedName()
		p.skipTypeArguments()
	default:
		return false
	}
	return true
}
