package parser

import (
	"github.com/mna/astra/internal/diag"
	"github.com/mna/astra/internal/source"
	"github.com/mna/astra/lang/ast"
	"github.com/mna/astra/lang/token"
)

// parsePrimary parses a single prefix/primary form: literals, identifiers,
// parenthesized expressions, blocks, and every keyword-introduced form.
func (p *parser) parsePrimary() ast.Expr {
	switch p.tok {
	case token.INT:
		return p.parseLiteral(ast.IntLiteral)
	case token.FLOAT:
		return p.parseLiteral(ast.FloatLiteral)
	case token.STRING:
		return p.parseLiteral(ast.StringLiteral)
	case token.CHAR:
		return p.parseLiteral(ast.CharLiteral)
	case token.BOOL:
		return p.parseLiteral(ast.BoolLiteral)

	case token.IDENT:
		e := &ast.IdentExpr{Sp: p.val.Span, Name: p.val.Raw}
		p.advance()
		return e

	case token.LPAREN:
		p.advance()
		inner := p.parseExpr(levelSemicolon - 1)
		p.expect(token.RPAREN)
		return inner

	case token.LBRACE:
		return p.parseBlock()

	case token.IF:
		return p.parseIf()

	case token.WHILE:
		return p.parseWhile()

	case token.LOOP:
		return p.parseLoop()

	case token.LET:
		return p.parseLet()

	case token.FN:
		return p.parseFn()

	case token.MODULE:
		return p.parseModule()

	case token.BREAK:
		return p.parseBreak()

	case token.CONTINUE:
		sp := p.val.Span
		p.advance()
		return &ast.ContinueExpr{Sp: sp}

	case token.USE:
		return p.parseUse()

	case token.INCLUDE:
		return p.parseInclude()

	case token.MINUS:
		return p.parseUnary(ast.Neg)
	case token.BANG:
		return p.parseUnary(ast.Not)
	case token.SHOW:
		return p.parseKeywordUnary(ast.ShowOp)
	case token.PANIC:
		return p.parseKeywordUnary(ast.PanicOp)
	}

	p.errorExpected("an expression")
	panic(errPanicMode)
}

func (p *parser) parseLiteral(kind ast.LiteralKind) ast.Expr {
	v := p.val
	e := &ast.LiteralExpr{Sp: v.Span, Kind: kind, Raw: v.Raw, IntBase: v.IntBase, Bool: v.BoolVal}
	p.advance()
	return e
}

func (p *parser) parseUnary(op ast.UnaryOp) ast.Expr {
	start := p.val.Span
	p.advance()
	operand := p.parseExpr(levelUnary)
	return &ast.UnaryExpr{Sp: mergeSpan(start, operand.Span()), Op: op, Operand: operand}
}

// parseKeywordUnary parses show/panic's operand, which -- unlike the `-`
// and `!` prefix operators -- binds looser than every binary operator so
// it swallows the entire expression that follows (e.g. `show 1 + 2 * 3`
// shows 7, not 1).
func (p *parser) parseKeywordUnary(op ast.UnaryOp) ast.Expr {
	start := p.val.Span
	p.advance()
	operand := p.parseExpr(levelShowArg)
	return &ast.UnaryExpr{Sp: mergeSpan(start, operand.Span()), Op: op, Operand: operand}
}

// parseBlock parses `{ expr? }`. Inside the braces, the body is parsed at
// the lowest binding power so that ';' binds inside it; an empty block is
// valid and yields Nothing.
func (p *parser) parseBlock() ast.Expr {
	start := p.expect(token.LBRACE)
	if p.tok == token.RBRACE || p.tok == token.EOF {
		end := p.expectClosingBrace(start)
		return &ast.BlockExpr{Sp: mergeSpan(start, end)}
	}
	inner := p.parseExpr(levelSemicolon - 1)
	end := p.expectClosingBrace(start)
	return &ast.BlockExpr{Sp: mergeSpan(start, end), Inner: inner}
}

// parseBlockBody is like parseBlock but returns the bare inner expression
// (nil if empty) plus the merged span, for callers that need to build a
// more specific node (If/While/Loop/Module) around it rather than a
// generic BlockExpr. Running out of input (EOF) before the body even
// starts is handled here rather than falling into parseExpr, so the
// diagnostic is the unmatched-brace FatalError rather than a generic
// "expected an expression".
func (p *parser) parseBlockBody() (inner ast.Expr, span source.Span) {
	start := p.expect(token.LBRACE)
	if p.tok == token.RBRACE || p.tok == token.EOF {
		end := p.expectClosingBrace(start)
		return nil, mergeSpan(start, end)
	}
	inner = p.parseExpr(levelSemicolon - 1)
	end := p.expectClosingBrace(start)
	return inner, mergeSpan(start, end)
}

// expectClosingBrace consumes a '}' matching the '{' opened at openSpan, or
// raises a FatalError noting where that opener was if the stream runs out
// (typically EOF) before one is found.
func (p *parser) expectClosingBrace(openSpan source.Span) source.Span {
	if p.tok != token.RBRACE {
		p.fatalUnclosed("E0102", openSpan, "'}'")
	}
	span := p.val.Span
	p.advance()
	return span
}

func (p *parser) parseIf() ast.Expr {
	start := p.expect(token.IF)
	cond := p.parseExpr(levelSemicolon - 1)
	then, thenSpan := p.parseBlockBody()
	thenBlock := &ast.BlockExpr{Sp: thenSpan, Inner: then}

	end := thenSpan
	var elseExpr ast.Expr
	switch p.tok {
	case token.ELSE:
		p.advance()
		if p.tok == token.IF {
			elseExpr = p.parseIf()
			end = elseExpr.Span()
		} else {
			elseInner, elseSpan := p.parseBlockBody()
			elseExpr = &ast.BlockExpr{Sp: elseSpan, Inner: elseInner}
			end = elseSpan
		}
	}

	return &ast.IfExpr{Sp: mergeSpan(start, end), Cond: cond, Then: thenBlock, Else: elseExpr}
}

func (p *parser) parseWhile() ast.Expr {
	start := p.expect(token.WHILE)
	cond := p.parseExpr(levelSemicolon - 1)
	body, bodySpan := p.parseBlockBody()
	bodyBlock := &ast.BlockExpr{Sp: bodySpan, Inner: body}
	return &ast.WhileExpr{Sp: mergeSpan(start, bodySpan), Cond: cond, Body: bodyBlock}
}

func (p *parser) parseLoop() ast.Expr {
	start := p.expect(token.LOOP)
	body, bodySpan := p.parseBlockBody()
	bodyBlock := &ast.BlockExpr{Sp: bodySpan, Inner: body}
	return &ast.LoopExpr{Sp: mergeSpan(start, bodySpan), Body: bodyBlock}
}

func (p *parser) parseLet() ast.Expr {
	start := p.expect(token.LET)
	name := p.val.Raw
	p.expect(token.IDENT)

	var init ast.Expr
	end := start
	if p.tok == token.ASSIGN {
		p.advance()
		init = p.parseExpr(levelAssign)
		end = init.Span()
	}
	return &ast.LetExpr{Sp: mergeSpan(start, end), Name: name, Init: init}
}

func (p *parser) parseFn() ast.Expr {
	start := p.expect(token.FN)
	name := p.val.Raw
	p.expect(token.IDENT)

	p.expect(token.LPAREN)
	var args []string
	for p.tok != token.RPAREN {
		args = append(args, p.val.Raw)
		p.expect(token.IDENT)
		if p.tok != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)

	body, bodySpan := p.parseBlockBody()
	bodyBlock := &ast.BlockExpr{Sp: bodySpan, Inner: body}
	return &ast.FnExpr{Sp: mergeSpan(start, bodySpan), Name: name, Args: args, Body: bodyBlock}
}

func (p *parser) parseModule() ast.Expr {
	start := p.expect(token.MODULE)
	name := p.val.Raw
	p.expect(token.IDENT)
	inner, bodySpan := p.parseBlockBody()
	return &ast.ModuleExpr{Sp: mergeSpan(start, bodySpan), Name: name, Inner: inner}
}

func (p *parser) parseBreak() ast.Expr {
	start := p.expect(token.BREAK)
	var with ast.Expr
	end := start
	switch p.tok {
	case token.SEMICOLON, token.RBRACE, token.EOF:
		// bare break
	default:
		with = p.parseExpr(levelBreakArg)
		end = with.Span()
	}
	return &ast.BreakExpr{Sp: mergeSpan(start, end), With: with}
}

func (p *parser) parseUse() ast.Expr {
	start := p.expect(token.USE)
	var imports []string
	imports = append(imports, p.val.Raw)
	end := p.expect(token.IDENT)
	for p.tok == token.DOT {
		p.advance()
		imports = append(imports, p.val.Raw)
		end = p.expect(token.IDENT)
	}
	return &ast.UseExpr{Sp: mergeSpan(start, end), Imports: imports}
}

// parseInclude is evaluated at parse time: it loads the named file, runs
// the lexer and parser recursively over it, and splices the resulting
// expression in place of the include form itself. Any FatalError from the
// nested parse aborts this parse with an Info-severity note pointing back
// at the include site.
func (p *parser) parseInclude() ast.Expr {
	start := p.expect(token.INCLUDE)
	pathSpan := p.val.Span
	path := p.val.Raw
	p.expect(token.STRING)

	if p.includeDepth >= maxIncludeDepth {
		p.errorf(pathSpan, "E0201", diag.FatalError, "include nesting too deep (possible cycle) at %q", path)
		panic(errPanicMode)
	}

	fileID, err := p.loader.AddFile(path)
	if err != nil {
		p.errorf(pathSpan, "E0202", diag.FatalError, "cannot include %q: %s", path, err)
		panic(errPanicMode)
	}

	included, includedDiags := parseAtDepth(p.loader, fileID, p.includeDepth+1)
	p.diags = append(p.diags, includedDiags...)
	if includedDiags.HasFatal() {
		p.errorf(start, "E0203", diag.Info, "fatal error while processing include %q", path)
		panic(errPanicMode)
	}
	return included
}
