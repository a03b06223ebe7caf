// Package maincmd implements the astra CLI: flag parsing and subcommand
// dispatch, grounded on the corpus's cmd/nenuphar + internal/maincmd
// shape (a Cmd struct with flag-tagged fields and a dispatch table keyed
// by lowercased subcommand name).
package maincmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/mna/astra/internal/config"
	"github.com/mna/mainer"
)

const defaultFile = "testing.txt"

var shortUsage = `usage: astra [flags] <command> [path ...]

commands:
  tokenize   print the token stream of each file
  parse      print the parsed expression tree of each file
  disasm     lower each file and print its disassembly
  run        lower and execute each file (default)
`

var longUsage = shortUsage + `
flags:
  -h, --help       show this message
  -v, --version    show version information
  --color          force colored diagnostic output
  --no-color       disable colored diagnostic output
  --trace          log one line per dispatched VM instruction to stderr

With no command and no paths, runs ` + defaultFile + `.
`

// Cmd is the CLI's entry point, populated by main with build metadata
// then invoked once via Main. Flags are tagged for mainer.Parser, which
// fills them (and Args, via SetArgs) straight from argv.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`
	Color   bool `flag:"color"`
	NoColor bool `flag:"no-color"`
	Trace   bool `flag:"trace"`

	args []string
}

// SetArgs receives the non-flag arguments left after mainer.Parser
// strips out everything it recognized as a flag.
func (c *Cmd) SetArgs(args []string) { c.args = args }

// Main parses args and dispatches to the named subcommand, returning the
// process exit code. It never itself calls os.Exit so it stays testable.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: "astra_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "astra: %s\n%s", err, shortUsage)
		return mainer.ExitCode(2)
	}

	if c.Help {
		fmt.Fprint(stdio.Stdout, longUsage)
		return 0
	}
	if c.Version {
		fmt.Fprintf(stdio.Stdout, "astra %s (%s)\n", c.BuildVersion, c.BuildDate)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "astra: %v\n", err)
		return 1
	}
	color := cfg.Color
	if c.Color {
		color = true
	}
	if c.NoColor {
		color = false
	}
	trace := cfg.Trace || c.Trace

	rest := c.args
	name := "run"
	if len(rest) > 0 {
		if _, ok := buildCmds()[strings.ToLower(rest[0])]; ok {
			name, rest = strings.ToLower(rest[0]), rest[1:]
		}
	}
	if len(rest) == 0 {
		rest = []string{defaultFile}
	}

	fn, ok := buildCmds()[name]
	if !ok {
		fmt.Fprintf(stdio.Stderr, "astra: unknown command %q\n\n%s", name, shortUsage)
		return 2
	}

	if err := fn(c, context.Background(), stdio, rest, color, trace); err != nil {
		fmt.Fprintf(stdio.Stderr, "astra: %v\n", err)
		return 1
	}
	return 0
}

type cmdFunc func(c *Cmd, ctx context.Context, stdio mainer.Stdio, paths []string, color, trace bool) error

// buildCmds maps each lowercased subcommand name to its method. Only four
// subcommands ever exist here, so a literal map is simpler than the
// teacher's reflection-based method lookup over Cmd's exported methods.
func buildCmds() map[string]cmdFunc {
	return map[string]cmdFunc{
		"tokenize": (*Cmd).Tokenize,
		"parse":    (*Cmd).Parse,
		"disasm":   (*Cmd).Disasm,
		"run":      (*Cmd).Run,
	}
}
