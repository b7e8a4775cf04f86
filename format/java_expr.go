package format

import "github.com/dhamidi/jgen/java/parser"

func isExpression(kind parser.NodeKind) bool {
	switch kind {
	case parser.KindAssignExpr, parser.KindTernaryExpr, parser.KindBinaryExpr,
		parser.KindUnaryExpr, parser.KindPostfixExpr, parser.KindCastExpr,
		parser.KindInstanceofExpr, parser.KindCallExpr, parser.KindMethodRef,
		parser.KindFieldAccess, parser.KindArrayAccess, parser.KindNewExpr,
		parser.KindNewArrayExpr, parser.KindArrayInit, parser.KindLambdaExpr,
		parser.KindParenExpr, parser.KindLiteral, parser.KindIdentifier,
		parser.KindQualifiedName, parser.KindThis, parser.KindSuper,
		parser.KindClassLiteral:
		return true
	}
	return false
}

func (p *JavaPrinter) printExpr(node *parser.Node) {
	c := node.Children
	switch node.Kind {
	case parser.KindLiteral, parser.KindIdentifier:
		p.write(node.TokenLiteral())
	case parser.KindThis:
		p.write("this")
	case parser.KindSuper:
		p.write("super")
	case parser.KindQualifiedName:
		p.printQualifiedName(node)
	case parser.KindBinaryExpr, parser.KindAssignExpr:
		// [left, operator, right]
		if len(c) < 3 {
			break
		}
		p.printExpr(c[0])
		p.write(" " + c[1].TokenLiteral() + " ")
		p.printExpr(c[2])
	case parser.KindUnaryExpr:
		if len(c) < 2 {
			break
		}
		p.write(c[0].TokenLiteral())
		p.printExpr(c[1])
	case parser.KindPostfixExpr:
		if len(c) < 2 {
			break
		}
		p.printExpr(c[0])
		p.write(c[1].TokenLiteral())
	case parser.KindTernaryExpr:
		if len(c) < 3 {
			break
		}
		p.printExpr(c[0])
		p.write(" ? ")
		p.printExpr(c[1])
		p.write(" : ")
		p.printExpr(c[2])
	case parser.KindCallExpr:
		if len(c) < 2 {
			break
		}
		p.printExpr(c[0])
		p.printArguments(c[1])
	case parser.KindFieldAccess:
		p.printFieldAccess(node)
	case parser.KindArrayAccess:
		if len(c) < 2 {
			break
		}
		p.printExpr(c[0])
		p.write("[")
		p.printExpr(c[1])
		p.write("]")
	case parser.KindNewExpr:
		p.printNewExpr(node)
	case parser.KindNewArrayExpr:
		p.printNewArrayExpr(node)
	case parser.KindArrayInit:
		p.write("{")
		p.printList(c, p.printExpr)
		p.write("}")
	case parser.KindCastExpr:
		p.write("(")
		var operand *parser.Node
		for _, child := range c {
			if child.Kind == parser.KindType || child.Kind == parser.KindArrayType {
				p.printType(child)
			} else {
				operand = child
			}
		}
		p.write(") ")
		if operand != nil {
			p.printExpr(operand)
		}
	case parser.KindInstanceofExpr:
		p.printInstanceof(node)
	case parser.KindParenExpr:
		p.write("(")
		for _, child := range c {
			p.printExpr(child)
		}
		p.write(")")
	case parser.KindLambdaExpr:
		p.printLambda(node)
	case parser.KindMethodRef:
		for i, child := range c {
			if i > 0 {
				p.write("::")
			}
			if child.Kind == parser.KindType || child.Kind == parser.KindArrayType {
				p.printType(child)
			} else {
				p.printExpr(child)
			}
		}
	case parser.KindClassLiteral:
		for _, child := range c {
			if child.Kind == parser.KindType || child.Kind == parser.KindArrayType {
				p.printType(child)
			} else {
				p.printExpr(child)
			}
		}
		p.write(".class")
	case parser.KindType, parser.KindArrayType:
		p.printType(node)
	default:
		p.printGeneric(node)
	}
}

func (p *JavaPrinter) printArguments(node *parser.Node) {
	p.write("(")
	if node != nil {
		p.printList(node.Children, p.printExpr)
	}
	p.write(")")
}

func (p *JavaPrinter) printFieldAccess(node *parser.Node) {
	for i, child := range node.Children {
		if i > 0 && !(child.Kind == parser.KindIdentifier && node.Children[i-1].Kind == parser.KindTypeArguments) {
			p.write(".")
		}
		if child.Kind == parser.KindTypeArguments {
			p.printTypeArguments(child)
			continue
		}
		p.printExpr(child)
	}
}

// printNewExpr handles "new T(args)", anonymous bodies and qualified
// instance creation such as "outer.new Inner()".
func (p *JavaPrinter) printNewExpr(node *parser.Node) {
	c := node.Children
	start := 0
	if len(c) >= 2 && c[1].Kind == parser.KindIdentifier {
		switch c[0].Kind {
		case parser.KindIdentifier, parser.KindFieldAccess, parser.KindThis, parser.KindCallExpr, parser.KindParenExpr, parser.KindNewExpr:
			p.printExpr(c[0])
			p.write(".")
			start = 1
		}
	}
	p.write("new ")
	for _, child := range c[start:] {
		switch child.Kind {
		case parser.KindQualifiedName, parser.KindIdentifier:
			p.printQualifiedName(child)
		case parser.KindTypeArguments:
			p.printTypeArguments(child)
		case parser.KindType, parser.KindArrayType:
			p.printType(child)
		case parser.KindParameters:
			p.printArguments(child)
		case parser.KindBlock:
			p.write(" ")
			p.printBlock(child)
		}
	}
}

func (p *JavaPrinter) printNewArrayExpr(node *parser.Node) {
	p.write("new ")
	var dims []*parser.Node
	var init *parser.Node
	for _, child := range node.Children {
		switch child.Kind {
		case parser.KindType, parser.KindArrayType:
			p.printType(child)
		case parser.KindQualifiedName:
			p.printQualifiedName(child)
		case parser.KindArrayInit:
			init = child
		case parser.KindAnnotation:
		default:
			dims = append(dims, child)
		}
	}
	if init != nil && len(dims) == 0 {
		p.write("[]")
	}
	for _, dim := range dims {
		p.write("[")
		p.printExpr(dim)
		p.write("]")
	}
	if init != nil {
		p.printExpr(init)
	}
}

func (p *JavaPrinter) printInstanceof(node *parser.Node) {
	if len(node.Children) < 2 {
		return
	}
	p.printExpr(node.Children[0])
	p.write(" instanceof ")
	for i, child := range node.Children[1:] {
		switch child.Kind {
		case parser.KindType, parser.KindArrayType:
			p.printType(child)
		case parser.KindTypePattern, parser.KindRecordPattern:
			p.printPattern(child)
		case parser.KindIdentifier:
			if i > 0 {
				p.write(" ")
			}
			p.write(child.TokenLiteral())
			if child.TokenLiteral() == "final" {
				p.write(" ")
			}
		default:
			p.printGeneric(child)
		}
	}
}

func (p *JavaPrinter) printPattern(node *parser.Node) {
	switch node.Kind {
	case parser.KindMatchAllPattern:
		p.write("_")
		return
	case parser.KindRecordPattern:
		if len(node.Children) == 0 {
			return
		}
		p.printType(node.Children[0])
		p.write("(")
		p.printList(node.Children[1:], p.printPattern)
		p.write(")")
		return
	}
	for _, child := range node.Children {
		switch child.Kind {
		case parser.KindModifiers:
			p.printModifiers(child)
		case parser.KindType, parser.KindArrayType:
			p.printType(child)
		case parser.KindIdentifier:
			p.write(" " + child.TokenLiteral())
		}
	}
}

func (p *JavaPrinter) printLambda(node *parser.Node) {
	var body *parser.Node
	for _, child := range node.Children {
		if child.Kind != parser.KindParameters {
			body = child
			continue
		}
		if len(child.Children) == 1 && child.Children[0].Kind == parser.KindIdentifier {
			p.write(child.Children[0].TokenLiteral())
		} else {
			p.printParameters(child)
		}
	}
	p.write(" -> ")
	switch {
	case body == nil:
	case body.Kind == parser.KindBlock:
		p.printBlock(body)
	default:
		p.printExpr(body)
	}
}
