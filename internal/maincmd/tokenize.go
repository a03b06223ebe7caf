package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
)

// Tokenize lexes each path to completion and prints its token stream.
func (c *Cmd) Tokenize(_ context.Context, stdio mainer.Stdio, paths []string, color, _ bool) error {
	loader, ids, err := loadFiles(paths)
	if err != nil {
		return err
	}

	var anyFatal bool
	for i, id := range ids {
		fmt.Fprintf(stdio.Stdout, "-- %s --\n", paths[i])
		toks, fatal := tokenizeFile(loader, id, color, stdio.Stderr)
		for _, t := range toks {
			fmt.Fprintf(stdio.Stdout, "%-12s %q\n", t.Kind, t.Raw)
		}
		anyFatal = anyFatal || fatal
	}
	if anyFatal {
		return fmt.Errorf("tokenize: one or more files had a fatal error")
	}
	return nil
}
