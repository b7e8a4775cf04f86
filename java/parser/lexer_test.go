package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func lex(src, file string) []Token {
	l := NewLexer([]byte(src), file)
	var toks []Token
	for {
		tok := l.NextToken()
		if tok.Kind == TokenEOF {
			return toks
		}
		if tok.Kind != TokenWhitespace {
			toks = append(toks, tok)
		}
	}
}

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexerKinds(t *testing.T) {
	tests := []struct {
		src  string
		want []TokenKind
	}{
		{"int x = 1;", []TokenKind{TokenInt, TokenIdent, TokenAssign, TokenIntLiteral, TokenSemicolon}},
		{"a >>>= b >> c", []TokenKind{TokenIdent, TokenUShrAssign, TokenIdent, TokenShr, TokenIdent}},
		{"String::valueOf", []TokenKind{TokenIdent, TokenColonColon, TokenIdent}},
		{"(x) -> x...", []TokenKind{TokenLParen, TokenIdent, TokenRParen, TokenArrow, TokenIdent, TokenEllipsis}},
		{"0x1F 0b1010L 1_000 3.14f 1e10 .5 2d 0x1.8p1", []TokenKind{
			TokenIntLiteral, TokenIntLiteral, TokenIntLiteral, TokenFloatLiteral,
			TokenFloatLiteral, TokenDot, TokenIntLiteral, TokenFloatLiteral, TokenFloatLiteral,
		}},
		{"a.b", []TokenKind{TokenIdent, TokenDot, TokenIdent}},
		{"1.toString", []TokenKind{TokenIntLiteral, TokenDot, TokenIdent}},
		{`"a\"b" 'c' '\''`, []TokenKind{TokenStringLiteral, TokenCharLiteral, TokenCharLiteral}},
		{`"x \{a + "}"} y"`, []TokenKind{TokenStringTemplate}},
		{"\"\"\"\n  text\n  \"\"\"", []TokenKind{TokenTextBlock}},
		{"\"\"\"\n  \\{x}\n  \"\"\"", []TokenKind{TokenTextBlockTemplate}},
		{"// c\n/* d */ x", []TokenKind{TokenLineComment, TokenComment, TokenIdent}},
		{"non-sealed class", []TokenKind{TokenNonSealed, TokenClass}},
		{"non - sealed", []TokenKind{TokenIdent, TokenMinus, TokenIdent}},
		{"größe $x _y1", []TokenKind{TokenIdent, TokenIdent, TokenIdent}},
		{"#", []TokenKind{TokenError}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, kinds(lex(tt.src, ""))); diff != "" {
				t.Errorf("kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexerModuleKeywords(t *testing.T) {
	if got := lex("module", "Foo.java")[0].Kind; got != TokenIdent {
		t.Errorf("module in Foo.java = %s, want Identifier", got)
	}
	if got := lex("module", "src/module-info.java")[0].Kind; got != TokenModule {
		t.Errorf("module in module-info.java = %s, want module", got)
	}
}

func TestLexerPositions(t *testing.T) {
	toks := lex("a\n  bc /*\n*/ d", "A.java")
	type pos struct{ Offset, Line, Column int }
	var got []pos
	for _, tok := range toks {
		got = append(got, pos{tok.Span.Start.Offset, tok.Span.Start.Line, tok.Span.Start.Column})
	}
	want := []pos{{0, 1, 1}, {4, 2, 3}, {7, 2, 6}, {13, 3, 4}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
	if toks[1].Span.End.Offset != 6 || toks[1].Literal != "bc" {
		t.Errorf("bc token = %+v", toks[1])
	}
	if toks[0].Span.Start.File != "A.java" {
		t.Errorf("File = %q", toks[0].Span.Start.File)
	}
}

func TestLexerUnterminated(t *testing.T) {
	tests := []struct {
		src  string
		want TokenKind
	}{
		{`"abc`, TokenStringLiteral},
		{"/* open", TokenComment},
		{`"""` + "\nabc", TokenTextBlock},
	}
	for _, tt := range tests {
		toks := lex(tt.src, "")
		if len(toks) != 1 || toks[0].Kind != tt.want || toks[0].Literal != tt.src {
			t.Errorf("lex(%q) = %+v, want one %s", tt.src, toks, tt.want)
		}
	}
	// a string stops at the end of its line
	toks := lex("\"ab\nc", "")
	if diff := cmp.Diff([]TokenKind{TokenStringLiteral, TokenIdent}, kinds(toks)); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}
