package disasm_test

import (
	"flag"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/astra/internal/filetest"
	"github.com/mna/astra/internal/source"
	"github.com/mna/astra/lang/disasm"
	"github.com/mna/astra/lang/lower"
	"github.com/mna/astra/lang/parser"
)

var testUpdateDisasmTests = flag.Bool("test.update-disasm-tests", false, "If set, replace expected disasm test results with actual results.")

func TestDasm(t *testing.T) {
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".astra") {
		t.Run(fi.Name(), func(t *testing.T) {
			loader := source.NewLoader()
			id, err := loader.AddFile(filepath.Join(srcDir, fi.Name()))
			require.NoError(t, err)

			expr, diags := parser.Parse(loader, id)
			require.Empty(t, diags)
			prog, err := lower.Lower(expr)
			require.NoError(t, err)

			filetest.DiffOutput(t, fi, disasm.Dasm(prog), resultDir, testUpdateDisasmTests)
		})
	}
}
