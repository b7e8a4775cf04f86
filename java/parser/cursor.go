package parser

import "slices"

func (p *Parser) peek() Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) Token {
	if i := p.pos + n; i < len(p.tokens) {
		return p.tokens[i]
	}
	return Token{Kind: TokenEOF}
}

// at reports whether the next token is one of kinds.
func (p *Parser) at(kinds ...TokenKind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *Parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// eat consumes the next token if it has the given kind.
func (p *Parser) eat(kind TokenKind) bool {
	if p.at(kind) {
		p.next()
		return true
	}
	return false
}

// lookahead runs probe and rewinds the cursor afterwards.
func (p *Parser) lookahead(probe func() bool) bool {
	saved := p.pos
	defer func() { p.pos = saved }()
	return probe()
}

// identifierLike reports whether the next token can be used as a name.
// Contextual keywords are only reserved where they have a meaning.
func (p *Parser) identifierLike() bool {
	switch p.peek().Kind {
	case TokenIdent,
		TokenModule, TokenOpen, TokenRequires, TokenTransitive,
		TokenExports, TokenOpens, TokenTo, TokenUses, TokenProvides, TokenWith,
		TokenVar, TokenYield, TokenRecord, TokenSealed, TokenNonSealed, TokenPermits, TokenWhen:
		return true
	}
	return false
}

func (p *Parser) underscore() bool {
	return p.at(TokenIdent) && p.peek().Literal == "_"
}

func leaf(kind NodeKind, tok Token) *Node {
	return &Node{Kind: kind, Token: &tok, Span: tok.Span}
}

// take consumes the next token as a leaf of the given kind.
func (p *Parser) take(kind NodeKind) *Node {
	return leaf(kind, p.next())
}

// name consumes a plain identifier, or returns nil.
func (p *Parser) name() *Node {
	if p.at(TokenIdent) {
		return p.take(KindIdentifier)
	}
	return nil
}

// softName is name that also accepts contextual keywords.
func (p *Parser) softName() *Node {
	if p.identifierLike() {
		return p.take(KindIdentifier)
	}
	return nil
}

// separated calls item until the token after it is not sep.
func (p *Parser) separated(sep TokenKind, item func()) {
	for {
		item()
		if !p.eat(sep) {
			return
		}
	}
}

// begin starts a node at the first of the already parsed nodes that has
// source, or at the next token.
func (p *Parser) begin(kind NodeKind, parsed ...*Node) *Node {
	n := &Node{Kind: kind, Span: Span{Start: p.peek().Span.Start}}
	for _, c := range parsed {
		if c == nil || c.IsSynthesized() || (c.Kind == KindModifiers && len(c.Children) == 0) {
			continue
		}
		n.Span.Start = c.Span.Start
		break
	}
	return n
}

// end closes n at the last consumed token. Postfix and binary forms are
// begun after their left operand, so the start moves back to cover it.
func (p *Parser) end(n *Node) *Node {
	switch {
	case p.pos > 0 && p.pos <= len(p.tokens):
		n.Span.End = p.tokens[p.pos-1].Span.End
	case len(p.tokens) > 0:
		n.Span.End = p.tokens[len(p.tokens)-1].Span.End
	}
	for _, c := range n.Children {
		if c.IsSynthesized() || c.Span.End.Offset < c.Span.Start.Offset {
			continue
		}
		if c.Span.Start.Offset < n.Span.Start.Offset {
			n.Span.Start = c.Span.Start
		}
	}
	return n
}

// fail reports an error at the next token and skips it. With sync kinds it
// keeps skipping until one of them comes up.
func (p *Parser) fail(msg string, sync ...TokenKind) *Node {
	tok := p.peek()
	if tok.Kind == TokenEOF {
		p.truncated = true
	}
	n := &Node{Kind: KindError, Span: tok.Span, Error: &Error{Message: msg, Got: &tok}}
	if tok.Kind == TokenEOF {
		return n
	}
	p.next()
	if len(sync) > 0 {
		for !p.at(TokenEOF) && !p.at(sync...) {
			p.next()
		}
	}
	return n
}

// until calls item up to the closing token and consumes it. The opening
// token must already be consumed.
func (p *Parser) until(closing TokenKind, item func()) {
	for !p.at(closing, TokenEOF) {
		item()
	}
	p.eat(closing)
}

func isPrimitive(kind TokenKind) bool {
	switch kind {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble:
		return true
	}
	return false
}

func isModifier(kind TokenKind) bool {
	switch kind {
	case TokenPublic, TokenProtected, TokenPrivate,
		TokenAbstract, TokenStatic, TokenFinal,
		TokenStrictfp, TokenNative, TokenSynchronized,
		TokenTransient, TokenVolatile, TokenDefault,
		TokenSealed, TokenNonSealed:
		return true
	}
	return false
}

var (
	typeDeclSync = []TokenKind{
		TokenAt, TokenPublic, TokenPrivate, TokenProtected,
		TokenAbstract, TokenStatic, TokenFinal, TokenStrictfp,
		TokenClass, TokenInterface, TokenEnum, TokenRecord,
	}
	memberSync = []TokenKind{
		TokenAt, TokenPublic, TokenPrivate, TokenProtected,
		TokenAbstract, TokenStatic, TokenFinal, TokenNative,
		TokenSynchronized, TokenTransient, TokenVolatile,
		TokenStrictfp, TokenDefault, TokenSealed, TokenNonSealed,
		TokenClass, TokenInterface, TokenEnum, TokenRecord,
		TokenIdent, TokenVoid, TokenBoolean, TokenByte,
		TokenChar, TokenShort, TokenInt, TokenLong,
		TokenFloat, TokenDouble, TokenLT, TokenRBrace,
	}
	directiveSync = []TokenKind{TokenRequires, TokenExports, TokenOpens, TokenUses, TokenProvides, TokenRBrace}
	typeSync      = []TokenKind{TokenIdent, TokenSemicolon, TokenRParen, TokenComma, TokenRBrace}
	exprSync      = []TokenKind{TokenSemicolon, TokenComma, TokenRParen, TokenRBrace, TokenRBracket}
)
