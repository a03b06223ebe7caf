package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/astra/lang/disasm"
	"github.com/mna/mainer"
)

// Disasm lowers each path and prints its disassembly to stderr.
func (c *Cmd) Disasm(_ context.Context, stdio mainer.Stdio, paths []string, color, _ bool) error {
	loader, ids, err := loadFiles(paths)
	if err != nil {
		return err
	}

	var anyFatal bool
	for i, id := range ids {
		fmt.Fprintf(stdio.Stderr, "-- %s --\n", paths[i])
		prog, fatal := lowerFile(loader, id, color, stdio.Stderr)
		if prog != nil {
			fmt.Fprint(stdio.Stderr, disasm.Dasm(prog))
		}
		anyFatal = anyFatal || fatal
	}
	if anyFatal {
		return fmt.Errorf("disasm: one or more files had a fatal error")
	}
	return nil
}
