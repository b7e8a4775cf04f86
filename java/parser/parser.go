package parser

import "io"

// Option configures a Parser.
type Option func(*Parser)

// WithFile records path in every token position.
func WithFile(path string) Option {
	return func(p *Parser) { p.file = path }
}

// WithComments keeps comment tokens so that Comments can return them after
// Finish.
func WithComments() Option {
	return func(p *Parser) { p.keepComments = true }
}

type rule func(*Parser) *Node

// Parser is a recursive descent parser over the whole Java language. It
// never stops at the first error: malformed regions become KindError nodes
// and parsing resumes at the next plausible boundary.
type Parser struct {
	file         string
	keepComments bool

	src    io.Reader
	input  []byte
	read   bool
	entry  rule
	tokens []Token
	pos    int

	comments []Token
	// truncated is set when an error is reported at the end of input.
	truncated bool
}

func newParser(r io.Reader, entry rule, opts []Option) *Parser {
	p := &Parser{src: r, entry: entry}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).compilationUnit, opts)
}

func ParseExpression(r io.Reader, opts ...Option) *Parser {
	return newParser(r, entire((*Parser).expression), opts)
}

// ParseStatement parses exactly one statement. A block snippet such as
// "{ List<String> a; }" parses as a single KindBlock.
func ParseStatement(r io.Reader, opts ...Option) *Parser {
	return newParser(r, entire((*Parser).statement), opts)
}

// ParseType parses exactly one type, including array dimensions and type
// arguments.
func ParseType(r io.Reader, opts ...Option) *Parser {
	return newParser(r, entire((*Parser).typ), opts)
}

// entire makes leftover input after the entry rule an error.
func entire(entry rule) rule {
	return func(p *Parser) *Node {
		node := entry(p)
		if p.at(TokenEOF) {
			return node
		}
		trailing := p.fail("unexpected " + p.peek().Literal)
		if node == nil {
			return trailing
		}
		node.AddChild(trailing)
		return node
	}
}

// Finish parses the input. It returns nil for empty or unreadable input and
// for input that ends in the middle of a construct.
func (p *Parser) Finish() *Node {
	if !p.read {
		data, err := io.ReadAll(p.src)
		if err != nil {
			return nil
		}
		p.input, p.read = data, true
	}
	if len(p.input) == 0 {
		return nil
	}
	p.scan()
	root := p.entry(p)
	if p.truncated {
		return nil
	}
	return root
}

// Comments returns the comments seen by the last Finish, when the parser
// was created WithComments.
func (p *Parser) Comments() []Token {
	return p.comments
}

func (p *Parser) scan() {
	lx := NewLexer(p.input, p.file)
	p.tokens, p.comments = p.tokens[:0], nil
	p.pos, p.truncated = 0, false
	for {
		tok := lx.NextToken()
		switch tok.Kind {
		case TokenWhitespace:
		case TokenComment, TokenLineComment:
			if p.keepComments {
				p.comments = append(p.comments, tok)
			}
		default:
			p.tokens = append(p.tokens, tok)
			if tok.Kind == TokenEOF {
				return
			}
		}
	}
}
