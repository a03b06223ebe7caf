package parser

import (
	"github.com/mna/astra/lang/ast"
	"github.com/mna/astra/lang/token"
)

// parsePostfix consumes a chain of call and property-access suffixes,
// which bind tighter than every operator in the binops table (levelCall
// and levelProperty both exceed levelMulDivExp, the highest binary
// level), so they are always fully resolved before parseExpr's loop ever
// looks at the next token.
func (p *parser) parsePostfix(left ast.Expr) ast.Expr {
	for {
		switch p.tok {
		case token.LPAREN:
			left = p.parseCall(left)
		case token.DOT:
			left = p.parseProperty(left)
		default:
			return left
		}
	}
}

// parseCall parses `(args)`. Trailing commas are not accepted: a comma
// must always be followed by another argument, never directly by ')'.
func (p *parser) parseCall(callee ast.Expr) ast.Expr {
	p.expect(token.LPAREN)
	var args []ast.Expr
	for p.tok != token.RPAREN {
		args = append(args, p.parseExpr(levelAssign))
		if p.tok != token.COMMA {
			break
		}
		p.advance()
		if p.tok == token.RPAREN {
			p.errorExpected("an expression")
			break
		}
	}
	end := p.expect(token.RPAREN)
	return &ast.CallExpr{Sp: mergeSpan(callee.Span(), end), Callee: callee, Args: args}
}

func (p *parser) parseProperty(object ast.Expr) ast.Expr {
	p.expect(token.DOT)
	nameSpan := p.val.Span
	name := p.val.Raw
	p.expect(token.IDENT)
	return &ast.PropertyExpr{Sp: mergeSpan(object.Span(), nameSpan), Object: object, Name: name}
}
