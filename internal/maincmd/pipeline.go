package maincmd

import (
	"fmt"
	"io"

	"github.com/mna/astra/internal/diag"
	"github.com/mna/astra/internal/source"
	"github.com/mna/astra/lang/ast"
	"github.com/mna/astra/lang/lexer"
	"github.com/mna/astra/lang/lower"
	"github.com/mna/astra/lang/parser"
)

// loadFiles registers every path with a fresh loader and returns their
// file IDs in order.
func loadFiles(paths []string) (*source.Loader, []uint32, error) {
	loader := source.NewLoader()
	ids := make([]uint32, 0, len(paths))
	for _, p := range paths {
		id, err := loader.AddFile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", p, err)
		}
		ids = append(ids, id)
	}
	return loader, ids, nil
}

// tokenizeFile lexes a single file to completion, printing its
// diagnostics to stderr, and reports whether a fatal diagnostic occurred.
func tokenizeFile(loader *source.Loader, fileID uint32, color bool, stderr io.Writer) ([]lexer.Tok, bool) {
	toks, diags := lexer.ScanAll(fileID, loader.File(fileID).Bytes)
	diag.Print(stderr, diags, loader, color)
	return toks, diags.HasFatal()
}

// parseFile runs the parser over a single file, printing diagnostics.
func parseFile(loader *source.Loader, fileID uint32, color bool, stderr io.Writer) (ast.Expr, bool) {
	expr, diags := parser.Parse(loader, fileID)
	diag.Print(stderr, diags, loader, color)
	return expr, diags.HasFatal()
}

// lowerFile parses then lowers a single file, printing diagnostics and
// any lowering-time internal compiler error.
func lowerFile(loader *source.Loader, fileID uint32, color bool, stderr io.Writer) (*lower.Program, bool) {
	expr, fatal := parseFile(loader, fileID, color, stderr)
	if fatal {
		return nil, true
	}
	prog, err := lower.Lower(expr)
	if err != nil {
		fmt.Fprintf(stderr, "internal compiler error: %v\n", err)
		return nil, true
	}
	return prog, false
}
