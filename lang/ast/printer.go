package ast

import (
	"fmt"
	"strings"
)

// Sprint renders n as an indented, parenthesized debug dump, in the style
// of the corpus's AST pretty-printers: one line per node, children
// indented two spaces further than their parent.
func Sprint(n Expr) string {
	var b strings.Builder
	sprint(&b, n, 0)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func sprint(b *strings.Builder, n Expr, depth int) {
	indent(b, depth)
	if n == nil {
		b.WriteString("<nil>\n")
		return
	}
	switch e := n.(type) {
	case *LiteralExpr:
		fmt.Fprintf(b, "Literal(%v %q)\n", e.Kind, e.Raw)
	case *IdentExpr:
		fmt.Fprintf(b, "Ident(%s)\n", e.Name)
	case *UnaryExpr:
		fmt.Fprintf(b, "Unary(%s)\n", e.Op)
		sprint(b, e.Operand, depth+1)
	case *BinaryExpr:
		fmt.Fprintf(b, "Binary(%s)\n", e.Op)
		sprint(b, e.Left, depth+1)
		sprint(b, e.Right, depth+1)
	case *SemicolonExpr:
		b.WriteString("Semicolon\n")
		sprint(b, e.Left, depth+1)
		sprint(b, e.Right, depth+1)
	case *BlockExpr:
		b.WriteString("Block\n")
		if e.Inner != nil {
			sprint(b, e.Inner, depth+1)
		}
	case *ModuleExpr:
		fmt.Fprintf(b, "Module(%s)\n", e.Name)
		if e.Inner != nil {
			sprint(b, e.Inner, depth+1)
		}
	case *CallExpr:
		b.WriteString("Call\n")
		sprint(b, e.Callee, depth+1)
		for _, a := range e.Args {
			sprint(b, a, depth+1)
		}
	case *PropertyExpr:
		fmt.Fprintf(b, "Property(%s)\n", e.Name)
		sprint(b, e.Object, depth+1)
	case *IfExpr:
		b.WriteString("If\n")
		sprint(b, e.Cond, depth+1)
		sprint(b, e.Then, depth+1)
		if e.Else != nil {
			sprint(b, e.Else, depth+1)
		}
	case *LoopExpr:
		b.WriteString("Loop\n")
		sprint(b, e.Body, depth+1)
	case *WhileExpr:
		b.WriteString("While\n")
		sprint(b, e.Cond, depth+1)
		sprint(b, e.Body, depth+1)
	case *BreakExpr:
		b.WriteString("Break\n")
		if e.With != nil {
			sprint(b, e.With, depth+1)
		}
	case *ContinueExpr:
		b.WriteString("Continue\n")
	case *AssignExpr:
		b.WriteString("Assign\n")
		sprint(b, e.Target, depth+1)
		sprint(b, e.Value, depth+1)
	case *AssignOpExpr:
		fmt.Fprintf(b, "AssignOp(%s)\n", e.Op)
		sprint(b, e.Target, depth+1)
		sprint(b, e.Value, depth+1)
	case *LetExpr:
		fmt.Fprintf(b, "Let(%s)\n", e.Name)
		if e.Init != nil {
			sprint(b, e.Init, depth+1)
		}
	case *FnExpr:
		fmt.Fprintf(b, "Fn(%s, %v)\n", e.Name, e.Args)
		sprint(b, e.Body, depth+1)
	case *UseExpr:
		fmt.Fprintf(b, "Use(%v)\n", e.Imports)
	case *BadExpr:
		b.WriteString("Bad\n")
	default:
		fmt.Fprintf(b, "%T\n", e)
	}
}

func (k LiteralKind) String() string {
	switch k {
	case IntLiteral:
		return "int"
	case FloatLiteral:
		return "float"
	case StringLiteral:
		return "string"
	case CharLiteral:
		return "char"
	case BoolLiteral:
		return "bool"
	default:
		return "?"
	}
}
