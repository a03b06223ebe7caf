package maincmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/mna/astra/lang/vm"
	"github.com/mna/mainer"
)

// Run lowers and executes each path in turn.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, paths []string, color, trace bool) error {
	loader, ids, err := loadFiles(paths)
	if err != nil {
		return err
	}

	var anyFailed bool
	for i, id := range ids {
		prog, fatal := lowerFile(loader, id, color, stdio.Stderr)
		if fatal {
			anyFailed = true
			continue
		}

		opts := []vm.Option{vm.WithStdout(stdio.Stdout)}
		if trace {
			opts = append(opts, vm.WithTrace(func(format string, args ...any) {
				fmt.Fprintf(stdio.Stderr, format+"\n", args...)
			}))
		}
		machine := vm.New(prog, opts...)
		if err := machine.Run(ctx); err != nil {
			var perr *vm.PanicError
			if errors.As(err, &perr) {
				fmt.Fprintln(stdio.Stdout, perr)
			} else {
				fmt.Fprintf(stdio.Stderr, "%s: %v\n", paths[i], err)
			}
			anyFailed = true
		}
	}
	if anyFailed {
		return fmt.Errorf("run: one or more files failed")
	}
	return nil
}
