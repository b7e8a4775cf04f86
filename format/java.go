package format

import (
	"strings"

	"github.com/dhamidi/jgen/java/parser"
)

// JavaPrinter renders syntax trees that were built in memory back to Java
// source. The first line is written without indentation so the output can
// be spliced after existing whitespace; every following line starts with
// Base and one Unit per nesting level.
type JavaPrinter struct {
	Base string
	Unit string

	sb          strings.Builder
	indent      int
	atLineStart bool
}

func NewJavaPrinter(base, unit string) *JavaPrinter {
	if unit == "" {
		unit = "    "
	}
	return &JavaPrinter{Base: base, Unit: unit}
}

// Java renders node with four space indentation.
func Java(node *parser.Node) string {
	return NewJavaPrinter("", "    ").Print(node)
}

// Print renders node. Declarations and statements are not followed by a
// newline.
func (p *JavaPrinter) Print(node *parser.Node) string {
	p.sb.Reset()
	p.indent = 0
	p.atLineStart = false
	if node != nil {
		p.printNode(node)
	}
	return p.sb.String()
}

func (p *JavaPrinter) write(s string) {
	p.sb.WriteString(s)
}

func (p *JavaPrinter) writeIndent() {
	if !p.atLineStart {
		return
	}
	p.write(p.Base)
	for i := 0; i < p.indent; i++ {
		p.write(p.Unit)
	}
	p.atLineStart = false
}

func (p *JavaPrinter) newline() {
	p.write("\n")
	p.atLineStart = true
}

func (p *JavaPrinter) printNode(node *parser.Node) {
	switch node.Kind {
	case parser.KindPackageDecl:
		p.writeIndent()
		p.write("package ")
		p.printQualifiedName(node.FirstChildOfKind(parser.KindQualifiedName))
		p.write(";")
	case parser.KindImportDecl:
		p.printImportDecl(node)
	case parser.KindFieldDecl, parser.KindLocalVarDecl:
		p.printVariableDecl(node)
	case parser.KindMethodDecl, parser.KindConstructorDecl:
		p.printMethodDecl(node)
	case parser.KindBlock:
		p.writeIndent()
		p.printBlock(node)
	case parser.KindExprStmt:
		p.writeIndent()
		if len(node.Children) > 0 {
			p.printExpr(node.Children[0])
		}
		p.write(";")
	case parser.KindReturnStmt:
		p.writeIndent()
		p.write("return")
		for _, child := range node.Children {
			p.write(" ")
			p.printExpr(child)
		}
		p.write(";")
	case parser.KindThrowStmt:
		p.writeIndent()
		p.write("throw")
		for _, child := range node.Children {
			p.write(" ")
			p.printExpr(child)
		}
		p.write(";")
	case parser.KindEmptyStmt:
		p.writeIndent()
		p.write(";")
	case parser.KindIfStmt:
		p.printIfStmt(node)
	default:
		p.writeIndent()
		if isExpression(node.Kind) {
			p.printExpr(node)
			return
		}
		p.printGeneric(node)
	}
}

func (p *JavaPrinter) printImportDecl(node *parser.Node) {
	p.writeIndent()
	p.write("import ")
	for _, child := range node.Children {
		switch {
		case child.Kind == parser.KindQualifiedName:
			p.printQualifiedName(child)
		case child.TokenLiteral() == "static":
			p.write("static ")
		case child.TokenLiteral() == "*":
			p.write(".*")
		}
	}
	p.write(";")
}

// printVariableDecl handles fields and locals, which share the
// [Modifiers, Type, name, initializer?, name, ...] shape.
func (p *JavaPrinter) printVariableDecl(node *parser.Node) {
	p.writeIndent()
	declarators := 0
	for _, child := range node.Children {
		switch {
		case child.Kind == parser.KindModifiers:
			p.printModifiers(child)
		case child.Kind == parser.KindType || child.Kind == parser.KindArrayType:
			p.printType(child)
		case child.IsInitializer():
			p.write(" = ")
			p.printExpr(child)
		case child.Kind == parser.KindIdentifier:
			if declarators > 0 {
				p.write(",")
			}
			p.write(" ")
			p.write(child.TokenLiteral())
			declarators++
		}
	}
	p.write(";")
}

func (p *JavaPrinter) printModifiers(node *parser.Node) {
	for _, child := range node.Children {
		if child.Kind == parser.KindAnnotation {
			p.printAnnotation(child)
		} else {
			p.write(child.TokenLiteral())
		}
		p.write(" ")
	}
}

func (p *JavaPrinter) printAnnotation(node *parser.Node) {
	p.write("@")
	var values []*parser.Node
	for _, child := range node.Children {
		if child.Kind == parser.KindQualifiedName && len(values) == 0 {
			p.printQualifiedName(child)
			continue
		}
		values = append(values, child)
	}
	if len(values) == 0 {
		return
	}
	p.write("(")
	for i, v := range values {
		if i > 0 {
			p.write(", ")
		}
		if v.Kind == parser.KindAnnotationElement && len(v.Children) >= 2 {
			p.write(v.Children[0].TokenLiteral())
			p.write(" = ")
			p.printExpr(v.Children[1])
			continue
		}
		p.printExpr(v)
	}
	p.write(")")
}

func (p *JavaPrinter) printMethodDecl(node *parser.Node) {
	p.writeIndent()
	afterParameters := false
	for _, child := range node.Children {
		if afterParameters {
			switch child.Kind {
			case parser.KindThrowsList:
				p.write(" throws ")
				p.printList(child.Children, p.printType)
			case parser.KindBlock:
				p.write(" ")
				p.printBlock(child)
				return
			default:
				// annotation element default value
				p.write(" default ")
				p.printExpr(child)
			}
			continue
		}
		switch child.Kind {
		case parser.KindModifiers:
			p.printModifiers(child)
		case parser.KindTypeParameters:
			p.printTypeParameters(child)
			p.write(" ")
		case parser.KindType, parser.KindArrayType:
			p.printType(child)
			p.write(" ")
		case parser.KindIdentifier:
			p.write(child.TokenLiteral())
		case parser.KindParameters:
			p.printParameters(child)
			afterParameters = true
		}
	}
	p.write(";")
}

func (p *JavaPrinter) printParameters(node *parser.Node) {
	p.write("(")
	p.printList(node.Children, func(child *parser.Node) {
		switch child.Kind {
		case parser.KindParameter:
			p.printParameter(child)
		case parser.KindReceiverParameter:
			for _, c := range child.Children {
				if c.Kind == parser.KindType || c.Kind == parser.KindArrayType {
					p.printType(c)
					p.write(" ")
				} else if c.Kind == parser.KindIdentifier {
					p.write(c.TokenLiteral())
					p.write(".")
				}
			}
			p.write("this")
		default:
			p.printExpr(child)
		}
	})
	p.write(")")
}

func (p *JavaPrinter) printParameter(node *parser.Node) {
	for _, child := range node.Children {
		switch child.Kind {
		case parser.KindModifiers:
			p.printModifiers(child)
		case parser.KindType, parser.KindArrayType:
			p.printType(child)
		case parser.KindIdentifier:
			if child.Token != nil && child.Token.Kind == parser.TokenEllipsis {
				p.write("...")
				continue
			}
			p.write(" ")
			p.write(child.TokenLiteral())
		}
	}
}

func (p *JavaPrinter) printTypeParameters(node *parser.Node) {
	p.write("<")
	p.printList(node.Children, func(tp *parser.Node) {
		bounds := 0
		for _, child := range tp.Children {
			switch child.Kind {
			case parser.KindAnnotation:
				p.printAnnotation(child)
				p.write(" ")
			case parser.KindIdentifier:
				p.write(child.TokenLiteral())
			case parser.KindType, parser.KindArrayType:
				if bounds == 0 {
					p.write(" extends ")
				} else {
					p.write(" & ")
				}
				p.printType(child)
				bounds++
			}
		}
	})
	p.write(">")
}

func (p *JavaPrinter) printType(node *parser.Node) {
	if node.Kind == parser.KindArrayType {
		for _, child := range node.Children {
			if child.Kind == parser.KindType || child.Kind == parser.KindArrayType {
				p.printType(child)
				break
			}
		}
		p.write("[]")
		return
	}
	if len(node.Children) == 0 {
		p.write(node.TokenLiteral())
		return
	}
	sawArguments := false
	intersection := 0
	for _, child := range node.Children {
		switch child.Kind {
		case parser.KindAnnotation:
			p.printAnnotation(child)
			p.write(" ")
		case parser.KindIdentifier:
			p.write(child.TokenLiteral())
		case parser.KindQualifiedName:
			if sawArguments {
				p.write(".")
			}
			p.printQualifiedName(child)
		case parser.KindTypeArguments:
			p.printTypeArguments(child)
			sawArguments = true
		case parser.KindType, parser.KindArrayType:
			if intersection > 0 {
				p.write(" & ")
			}
			p.printType(child)
			intersection++
		}
	}
}

func (p *JavaPrinter) printTypeArguments(node *parser.Node) {
	p.write("<")
	p.printList(node.Children, func(child *parser.Node) {
		if child.Kind == parser.KindWildcard {
			p.write("?")
			for _, c := range child.Children {
				switch c.Kind {
				case parser.KindIdentifier:
					p.write(" " + c.TokenLiteral() + " ")
				case parser.KindType, parser.KindArrayType:
					p.printType(c)
				}
			}
			return
		}
		p.printType(child)
	})
	p.write(">")
}

func (p *JavaPrinter) printQualifiedName(node *parser.Node) {
	if node == nil {
		return
	}
	if node.Kind == parser.KindIdentifier {
		p.write(node.TokenLiteral())
		return
	}
	var parts []string
	for _, child := range node.Children {
		if child.Kind == parser.KindIdentifier {
			parts = append(parts, child.TokenLiteral())
		}
	}
	p.write(strings.Join(parts, "."))
}

// printBlock writes a brace-delimited block whose statements or members
// go one level deeper. An empty block still puts its closing brace on a
// new line.
func (p *JavaPrinter) printBlock(node *parser.Node) {
	if id := node.FirstChildOfKind(parser.KindIdentifier); id != nil && id.TokenLiteral() == "static" {
		p.write("static ")
		if inner := node.FirstChildOfKind(parser.KindBlock); inner != nil {
			p.printBlock(inner)
		}
		return
	}
	p.write("{")
	p.indent++
	for _, child := range node.Children {
		p.newline()
		p.printNode(child)
	}
	p.indent--
	p.newline()
	p.writeIndent()
	p.write("}")
}

func (p *JavaPrinter) printIfStmt(node *parser.Node) {
	p.writeIndent()
	p.write("if (")
	if len(node.Children) > 0 {
		p.printExpr(node.Children[0])
	}
	p.write(")")
	if len(node.Children) > 1 {
		p.printBranch(node.Children[1])
	}
	if len(node.Children) > 2 {
		p.write(" else")
		if elseIf := node.Children[2]; elseIf.Kind == parser.KindIfStmt {
			p.write(" ")
			p.printIfStmt(elseIf)
			return
		}
		p.printBranch(node.Children[2])
	}
}

func (p *JavaPrinter) printBranch(node *parser.Node) {
	if node.Kind == parser.KindBlock {
		p.write(" ")
		p.printBlock(node)
		return
	}
	p.indent++
	p.newline()
	p.printNode(node)
	p.indent--
}

func (p *JavaPrinter) printGeneric(node *parser.Node) {
	first := true
	if node.Token != nil {
		p.write(node.Token.Literal)
		first = false
	}
	for _, child := range node.Children {
		if !first {
			p.write(" ")
		}
		first = false
		if isExpression(child.Kind) {
			p.printExpr(child)
		} else {
			p.printGeneric(child)
		}
	}
}

func (p *JavaPrinter) printList(nodes []*parser.Node, each func(*parser.Node)) {
	for i, n := range nodes {
		if i > 0 {
			p.write(", ")
		}
		each(n)
	}
}
