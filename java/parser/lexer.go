package parser

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer splits Java source into tokens. Whitespace and comments are
// tokens too, so spans cover every byte of the input.
type Lexer struct {
	src    []byte
	file   string
	offset int
	line   int
	column int
	// module enables the restricted keywords of module-info.java.
	module bool
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		src:    input,
		file:   file,
		line:   1,
		column: 1,
		module: strings.HasSuffix(file, "module-info.java"),
	}
}

func (l *Lexer) Position() Position {
	return Position{File: l.file, Offset: l.offset, Line: l.line, Column: l.column}
}

// at returns the byte n positions ahead, 0 past the end.
func (l *Lexer) at(n int) byte {
	if l.offset+n >= len(l.src) {
		return 0
	}
	return l.src[l.offset+n]
}

func (l *Lexer) rest() []byte {
	return l.src[l.offset:]
}

func (l *Lexer) skip(n int) {
	for ; n > 0 && l.offset < len(l.src); n-- {
		if l.src[l.offset] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.offset++
	}
}

func (l *Lexer) skipWhile(keep func(byte) bool) {
	for l.offset < len(l.src) && keep(l.src[l.offset]) {
		l.skip(1)
	}
}

func (l *Lexer) NextToken() Token {
	start := l.Position()
	if l.offset >= len(l.src) {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	var kind TokenKind
	c := l.at(0)
	switch {
	case isSpace(c):
		l.skipWhile(isSpace)
		kind = TokenWhitespace
	case c == '/' && l.at(1) == '/':
		l.skipWhile(func(b byte) bool { return b != '\n' })
		kind = TokenLineComment
	case c == '/' && l.at(1) == '*':
		l.blockComment()
		kind = TokenComment
	case bytes.HasPrefix(l.rest(), []byte(`"""`)):
		kind = TokenTextBlock
		if l.quoted(`"""`, false, true) {
			kind = TokenTextBlockTemplate
		}
	case c == '"':
		kind = TokenStringLiteral
		if l.quoted(`"`, true, true) {
			kind = TokenStringTemplate
		}
	case c == '\'':
		l.quoted(`'`, false, false)
		kind = TokenCharLiteral
	case isDigit(c):
		kind = l.number()
	case identifierStart(l.rest()) > 0:
		return l.word(start)
	default:
		kind = l.operator()
	}
	return l.emit(kind, start)
}

func (l *Lexer) emit(kind TokenKind, start Position) Token {
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: l.Position()},
		Literal: string(l.src[start.Offset:l.offset]),
	}
}

// blockComment consumes a comment up to and including "*/", or to the end
// of an unterminated comment.
func (l *Lexer) blockComment() {
	l.skip(2)
	if i := bytes.Index(l.rest(), []byte("*/")); i >= 0 {
		l.skip(i + 2)
		return
	}
	l.skip(len(l.rest()))
}

// quoted consumes a literal delimited by quote. It reports whether the
// literal embeds "\{...}" template expressions.
func (l *Lexer) quoted(quote string, singleLine, templates bool) bool {
	template := false
	l.skip(len(quote))
	for l.offset < len(l.src) {
		if bytes.HasPrefix(l.rest(), []byte(quote)) {
			l.skip(len(quote))
			break
		}
		c := l.at(0)
		if singleLine && c == '\n' {
			break
		}
		if c == '\\' {
			l.skip(1)
			if templates && l.at(0) == '{' {
				template = true
				l.embedded()
				continue
			}
		}
		l.skip(1)
	}
	return template
}

// embedded consumes a brace-balanced template expression, skipping the
// literals and comments inside it.
func (l *Lexer) embedded() {
	l.skip(1)
	for depth := 1; depth > 0 && l.offset < len(l.src); {
		switch c := l.at(0); {
		case c == '{':
			depth++
			l.skip(1)
		case c == '}':
			depth--
			l.skip(1)
		case bytes.HasPrefix(l.rest(), []byte(`"""`)):
			l.quoted(`"""`, false, true)
		case c == '"':
			l.quoted(`"`, true, true)
		case c == '\'':
			l.quoted(`'`, false, false)
		case c == '/' && l.at(1) == '/':
			l.skipWhile(func(b byte) bool { return b != '\n' })
		case c == '/' && l.at(1) == '*':
			l.blockComment()
		default:
			l.skip(1)
		}
	}
}

// word scans an identifier, a keyword or the "non-sealed" modifier.
func (l *Lexer) word(start Position) Token {
	for n := identifierStart(l.rest()); n > 0; n = identifierPart(l.rest()) {
		l.skip(n)
	}
	literal := string(l.src[start.Offset:l.offset])
	if literal == "non" && bytes.HasPrefix(l.rest(), []byte("-sealed")) && identifierPart(l.rest()[len("-sealed"):]) == 0 {
		l.skip(len("-sealed"))
		return Token{Kind: TokenNonSealed, Span: Span{Start: start, End: l.Position()}, Literal: "non-sealed"}
	}
	return Token{Kind: LookupKeyword(literal, l.module), Span: Span{Start: start, End: l.Position()}, Literal: literal}
}

// number scans decimal, hexadecimal and binary literals with their
// underscores, fractions, exponents and type suffixes.
func (l *Lexer) number() TokenKind {
	lower := l.at(1) | 0x20
	switch {
	case l.at(0) == '0' && lower == 'b':
		l.skip(2)
		l.skipWhile(func(b byte) bool { return b == '0' || b == '1' || b == '_' })
		l.suffix("l")
		return TokenIntLiteral
	case l.at(0) == '0' && lower == 'x':
		l.skip(2)
		l.skipWhile(isHexDigitOrUnderscore)
		float := false
		if l.at(0) == '.' {
			float = true
			l.skip(1)
			l.skipWhile(isHexDigitOrUnderscore)
		}
		if l.at(0)|0x20 == 'p' {
			float = true
			l.exponent()
		}
		if float {
			l.suffix("fd")
			return TokenFloatLiteral
		}
		l.suffix("l")
		return TokenIntLiteral
	}

	l.skipWhile(isDigitOrUnderscore)
	float := false
	if l.at(0) == '.' && isDigit(l.at(1)) {
		float = true
		l.skip(1)
		l.skipWhile(isDigitOrUnderscore)
	}
	if l.at(0)|0x20 == 'e' {
		float = true
		l.exponent()
	}
	if l.suffix("fd") {
		return TokenFloatLiteral
	}
	if !float {
		l.suffix("l")
		return TokenIntLiteral
	}
	return TokenFloatLiteral
}

func (l *Lexer) exponent() {
	l.skip(1)
	if c := l.at(0); c == '+' || c == '-' {
		l.skip(1)
	}
	l.skipWhile(isDigitOrUnderscore)
}

// suffix consumes one of the lower case letters in set, in either case.
func (l *Lexer) suffix(set string) bool {
	if c := l.at(0); c != 0 && strings.IndexByte(set, c|0x20) >= 0 {
		l.skip(1)
		return true
	}
	return false
}

// operators is ordered so that longer operators match first.
var operators = []struct {
	text string
	kind TokenKind
}{
	{">>>=", TokenUShrAssign},
	{">>>", TokenUShr},
	{"<<=", TokenShlAssign},
	{">>=", TokenShrAssign},
	{"...", TokenEllipsis},
	{"::", TokenColonColon},
	{"==", TokenEQ},
	{"!=", TokenNE},
	{"<=", TokenLE},
	{">=", TokenGE},
	{"<<", TokenShl},
	{">>", TokenShr},
	{"&&", TokenAnd},
	{"||", TokenOr},
	{"&=", TokenAndAssign},
	{"|=", TokenOrAssign},
	{"^=", TokenXorAssign},
	{"++", TokenIncrement},
	{"--", TokenDecrement},
	{"+=", TokenPlusAssign},
	{"-=", TokenMinusAssign},
	{"->", TokenArrow},
	{"*=", TokenStarAssign},
	{"/=", TokenSlashAssign},
	{"%=", TokenPercentAssign},
	{"(", TokenLParen},
	{")", TokenRParen},
	{"{", TokenLBrace},
	{"}", TokenRBrace},
	{"[", TokenLBracket},
	{"]", TokenRBracket},
	{";", TokenSemicolon},
	{",", TokenComma},
	{"@", TokenAt},
	{"~", TokenBitNot},
	{"?", TokenQuestion},
	{".", TokenDot},
	{":", TokenColon},
	{"=", TokenAssign},
	{"!", TokenNot},
	{"<", TokenLT},
	{">", TokenGT},
	{"&", TokenBitAnd},
	{"|", TokenBitOr},
	{"^", TokenBitXor},
	{"+", TokenPlus},
	{"-", TokenMinus},
	{"*", TokenStar},
	{"/", TokenSlash},
	{"%", TokenPercent},
}

// operator scans a separator or operator. Anything else becomes a one
// character error token.
func (l *Lexer) operator() TokenKind {
	for _, op := range operators {
		if bytes.HasPrefix(l.rest(), []byte(op.text)) {
			l.skip(len(op.text))
			return op.kind
		}
	}
	_, size := utf8.DecodeRune(l.rest())
	l.skip(size)
	return TokenError
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isDigitOrUnderscore(c byte) bool {
	return isDigit(c) || c == '_'
}

func isHexDigitOrUnderscore(c byte) bool {
	return isDigitOrUnderscore(c) || (c|0x20 >= 'a' && c|0x20 <= 'f')
}

// identifierStart returns the byte length of the Java letter at the start
// of b, or 0.
func identifierStart(b []byte) int {
	r, size := utf8.DecodeRune(b)
	if size == 0 || r == utf8.RuneError {
		return 0
	}
	if r == '_' || r == '$' || unicode.IsLetter(r) {
		return size
	}
	return 0
}

// identifierPart is identifierStart that also accepts digits.
func identifierPart(b []byte) int {
	if n := identifierStart(b); n > 0 {
		return n
	}
	r, size := utf8.DecodeRune(b)
	if size > 0 && unicode.IsDigit(r) {
		return size
	}
	return 0
}
