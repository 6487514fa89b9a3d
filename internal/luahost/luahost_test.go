package luahost

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/agbru/numkernels/internal/kernels"
	"github.com/agbru/numkernels/internal/logging"
	"github.com/agbru/numkernels/internal/logging/mocks"
)

func run(t *testing.T, src string, opts ...Option) (string, error) {
	t.Helper()
	var out bytes.Buffer
	h := New(append([]Option{WithOutput(&out)}, opts...)...)
	err := h.RunString(context.Background(), "test", src)
	return out.String(), err
}

func TestKernelsTable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		script string
		want   string
	}{
		{"print(kernels.fibonacci(10))", "55"},
		{"print(kernels.fibonacci_sum(10, 20))", "6820"},
		{"print(kernels.prime_count(1000))", "168"},
		{"print(kernels.matrix_multiply_sum(3))", "126"},
		{"print(kernels.fibonacci(78) == 8944394323791464)", "true"},
		// F(93) does not fit a double exactly and comes back as a string.
		{"print(kernels.fibonacci(93), type(kernels.fibonacci(93)))", "12200160415121876738\tstring"},
		{"print(type(kernels.fibonacci(20)))", "number"},
	}
	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			t.Parallel()
			out, err := run(t, tt.script)
			if err != nil {
				t.Fatalf("RunString error: %v", err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKernelsTable_ArgumentErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		script string
	}{
		{"negative", "kernels.fibonacci(-1)"},
		{"fractional", "kernels.prime_count(2.5)"},
		{"too large", "kernels.fibonacci(4294967296)"},
		{"missing", "kernels.fibonacci_sum(1)"},
		{"not a number", "kernels.matrix_multiply_sum('big')"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := run(t, tt.script); err == nil {
				t.Errorf("%s: expected a Lua error", tt.script)
			}
		})
	}
}

func TestKernelsTable_ErrorsAreCatchable(t *testing.T) {
	t.Parallel()
	out, err := run(t, `
local ok, msg = pcall(kernels.fibonacci, -5)
print(ok)
`)
	if err != nil {
		t.Fatalf("RunString error: %v", err)
	}
	if strings.TrimSpace(out) != "false" {
		t.Errorf("output = %q, want false", out)
	}
}

func TestKernelsTable_Limits(t *testing.T) {
	t.Parallel()
	limits := WithLimits(kernels.Limits{MaxMatrixSize: 10, MaxPrimeLimit: 100})
	if _, err := run(t, "kernels.matrix_multiply_sum(11)", limits); err == nil || !strings.Contains(err.Error(), "exceeds limit") {
		t.Errorf("matrix error = %v, want limit error", err)
	}
	if _, err := run(t, "kernels.prime_count(100)", limits); err != nil {
		t.Errorf("prime_count at the limit should pass: %v", err)
	}
}

func TestKernelsTable_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := New(WithOutput(&bytes.Buffer{}))
	if err := h.RunString(ctx, "test", "kernels.fibonacci(1)"); err == nil {
		t.Error("expected an error from a canceled context")
	}
}

func TestLogBridge(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	gomock.InOrder(
		logger.EXPECT().Info("counting primes", logging.Uint64("limit", 10)),
		logger.EXPECT().Info("primes\t4", logging.String("source", "lua")),
	)

	_, err := run(t, `kernels.log("primes", kernels.prime_count(10))`, WithLogger(logger))
	if err != nil {
		t.Fatalf("RunString error: %v", err)
	}
}

func TestRunFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "demo.lua")
	script := `
local total = 0
for n = 1, 10 do
  total = total + kernels.fibonacci(n)
end
print(total)
`
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := New(WithOutput(&out)).RunFile(context.Background(), path); err != nil {
		t.Fatalf("RunFile error: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "143" {
		t.Errorf("sum of F(1..10) = %s, want 143", got)
	}
}

func TestRunString_SyntaxError(t *testing.T) {
	t.Parallel()
	if _, err := run(t, "print("); err == nil {
		t.Error("expected a load error")
	}
}
