package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/astra/lang/ast"
	"github.com/mna/mainer"
)

// Parse parses each path and prints its expression tree.
func (c *Cmd) Parse(_ context.Context, stdio mainer.Stdio, paths []string, color, _ bool) error {
	loader, ids, err := loadFiles(paths)
	if err != nil {
		return err
	}

	var anyFatal bool
	for i, id := range ids {
		fmt.Fprintf(stdio.Stdout, "-- %s --\n", paths[i])
		expr, fatal := parseFile(loader, id, color, stdio.Stderr)
		if expr != nil {
			fmt.Fprintln(stdio.Stdout, ast.Sprint(expr))
		}
		anyFatal = anyFatal || fatal
	}
	if anyFatal {
		return fmt.Errorf("parse: one or more files had a fatal error")
	}
	return nil
}
