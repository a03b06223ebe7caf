package vm_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEndToEndScenarios runs the canonical example programs covering
// variable mutation, function calls, looping, module property access, and
// conditionals end to end, from source text straight through to stdout.
func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "arithmetic precedence",
			src:  "show 1 + 2 * 3",
			want: "7\n",
		},
		{
			name: "variable mutation",
			src:  "let x = 5; show x; x = x + 1; show x",
			want: "5\n6\n",
		},
		{
			name: "function call",
			src:  "fn f(a, b) { a + b }; show f(10, 32)",
			want: "42\n",
		},
		{
			name: "while loop",
			src:  "let n = 0; while n < 3 { n = n + 1 }; show n",
			want: "3\n",
		},
		{
			name: "module property access",
			src:  "module m { let k = 7 }; show m.k",
			want: "7\n",
		},
		{
			name: "conditional",
			src:  "if true { show 'yes' } else { show 'no' }",
			want: "yes\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, tc.src)
			require.NoError(t, err, "src=%q", tc.src)
			require.Equal(t, tc.want, out, "src=%q", tc.src)
		})
	}
}
