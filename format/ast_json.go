package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/jgen/java/parser"
)

// ASTJSONEncoder writes a syntax tree as indented JSON. Positions carry
// byte offsets so the output can be used to pick caret positions for
// generation commands.
type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *ASTJSONEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	return json.MarshalIndent(nodeToJSON(node), "", "  ")
}

// EncodeWithComments writes {"tree": ..., "comments": [...]}, keeping
// comments next to the tree since they are not part of it.
func (e *ASTJSONEncoder) EncodeWithComments(node *parser.Node, comments []parser.Token) error {
	doc := struct {
		Tree     *astJSONNode     `json:"tree"`
		Comments []astJSONComment `json:"comments"`
	}{Tree: nodeToJSON(node), Comments: []astJSONComment{}}
	for _, c := range comments {
		doc.Comments = append(doc.Comments, astJSONComment{
			Text: c.Literal,
			Span: astJSONSpan{Start: positionToJSON(c.Span.Start), End: positionToJSON(c.Span.End)},
		})
	}
	text, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

type astJSONNode struct {
	Kind        string         `json:"kind"`
	Span        *astJSONSpan   `json:"span,omitempty"`
	Token       string         `json:"token,omitempty"`
	Initializer bool           `json:"initializer,omitempty"`
	Error       string         `json:"error,omitempty"`
	Children    []*astJSONNode `json:"children,omitempty"`
}

type astJSONComment struct {
	Text string      `json:"text"`
	Span astJSONSpan `json:"span"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func nodeToJSON(n *parser.Node) *astJSONNode {
	jn := &astJSONNode{
		Kind:        n.Kind.String(),
		Token:       n.TokenLiteral(),
		Initializer: n.IsInitializer(),
	}
	if !n.IsSynthesized() {
		jn.Span = &astJSONSpan{
			Start: positionToJSON(n.Span.Start),
			End:   positionToJSON(n.Span.End),
		}
	}
	if n.Error != nil {
		jn.Error = n.Error.Message
	}
	for _, child := range n.Children {
		jn.Children = append(jn.Children, nodeToJSON(child))
	}
	return jn
}

func positionToJSON(p parser.Position) astJSONPosition {
	return astJSONPosition{Offset: p.Offset, Line: p.Line, Column: p.Column}
}
