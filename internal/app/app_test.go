package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/agbru/numkernels/internal/errors"
	"github.com/agbru/numkernels/internal/telemetry"
)

// run builds and runs an Application with colors and tracing disabled.
func run(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	t.Setenv(telemetry.EnvEndpoint, "")

	var out, errOut bytes.Buffer
	application, err := New(append([]string{"numkernels", "-no-color"}, args...), &errOut)
	if err != nil {
		t.Fatalf("New(%v) error: %v (stderr: %s)", args, err, errOut.String())
	}
	code = application.Run(context.Background(), &out)
	return out.String(), errOut.String(), code
}

func TestNew_ParsesArgs(t *testing.T) {
	var errOut bytes.Buffer
	application, err := New([]string{"nk", "-verify", "primes", "100"}, &errOut)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if !application.Config.Verify {
		t.Error("Verify should be set")
	}
	if application.programName != "nk" {
		t.Errorf("programName = %q, want nk", application.programName)
	}
	if application.Module == nil {
		t.Error("Module should default to a kernel module")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	var errOut bytes.Buffer
	if _, err := New([]string{"numkernels", "cube_root", "8"}, &errOut); err == nil {
		t.Fatal("New should reject an unknown operation")
	}
	if !strings.Contains(errOut.String(), "Error:") {
		t.Errorf("stderr = %q, want an error message", errOut.String())
	}
}

func TestNew_Help(t *testing.T) {
	var errOut bytes.Buffer
	_, err := New([]string{"numkernels", "-help"}, &errOut)
	if !IsHelpError(err) {
		t.Fatalf("IsHelpError(%v) = false", err)
	}
	if !strings.Contains(errOut.String(), "Usage:") {
		t.Errorf("help output missing usage: %q", errOut.String())
	}
}

func TestRun_Quiet(t *testing.T) {
	out, _, code := run(t, "-q", "fib", "10")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if out != "55\n" {
		t.Errorf("stdout = %q, want %q", out, "55\n")
	}
}

func TestRun_DefaultRequest(t *testing.T) {
	out, _, code := run(t)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"fibonacci_sum(10, 20) = 6,820", "Global Status: Success"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
}

func TestRun_Verify(t *testing.T) {
	out, _, code := run(t, "-verify", "-v", "matrix", "10")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d\n%s", code, out)
	}
	for _, want := range []string{"reference", "kernel", "228375.00", "Memory Stats:"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
}

func TestRun_Timeout(t *testing.T) {
	_, stderr, code := run(t, "-q", "-timeout", "1ns", "fib", "10")
	if code != apperrors.ExitErrorTimeout {
		t.Fatalf("exit code = %d, want %d", code, apperrors.ExitErrorTimeout)
	}
	if !strings.Contains(stderr, "Timeout") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "result.txt")
	out, _, code := run(t, "-q", "-o", path, "fib", "20")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if out != "6765\n" {
		t.Errorf("stdout = %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading result file: %v", err)
	}
	if !strings.Contains(string(data), "fibonacci(20) =\n6765\n") {
		t.Errorf("result file = %q", data)
	}
}

func TestRun_Completion(t *testing.T) {
	out, _, code := run(t, "-completion", "fish")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out, "complete -c numkernels") {
		t.Errorf("fish completion missing complete lines:\n%s", out)
	}
}

func TestRun_Batch(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "jobs.yaml")
	body := "concurrency: 2\njobs:\n  - name: first\n    op: fib\n    args: [\"10\"]\n  - op: prime_count\n    args: [\"100\"]\n"
	if err := os.WriteFile(manifest, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, code := run(t, "-q", "-batch", manifest)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"name: first", "55", "prime_count(100)", "25"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	report := filepath.Join(dir, "report.yaml")
	out, _, code = run(t, "-batch", manifest, "-o", report)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out, "Batch Summary") {
		t.Errorf("stdout missing summary:\n%s", out)
	}
	if _, err := os.Stat(report); err != nil {
		t.Errorf("report not written: %v", err)
	}
}

func TestRun_BatchInvalidManifest(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(manifest, []byte("jobs:\n  - op: sqrt\n    args: [\"4\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, stderr, code := run(t, "-batch", manifest)
	if code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
	if !strings.Contains(stderr, "Invalid input") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_Script(t *testing.T) {
	script := filepath.Join(t.TempDir(), "sum.lua")
	src := "print(kernels.fibonacci_sum(10, 20))\nprint(kernels.prime_count(20))\n"
	if err := os.WriteFile(script, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, code := run(t, "-script", script)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out, "6820") || !strings.Contains(out, "8") {
		t.Errorf("script output = %q", out)
	}
}

func TestRun_ScriptLimit(t *testing.T) {
	script := filepath.Join(t.TempDir(), "big.lua")
	if err := os.WriteFile(script, []byte("print(kernels.matrix_multiply_sum(100))\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, code := run(t, "-max-matrix-size", "50", "-script", script)
	if code == apperrors.ExitSuccess {
		t.Error("script exceeding the matrix limit should fail")
	}
}

func TestVersion(t *testing.T) {
	if !HasVersionFlag([]string{"-q", "--version"}) {
		t.Error("--version not detected")
	}
	if HasVersionFlag([]string{"-v", "fib", "10"}) {
		t.Error("-v is verbose, not version")
	}
	var buf bytes.Buffer
	PrintVersion(&buf)
	if !strings.HasPrefix(buf.String(), "numkernels "+Version) {
		t.Errorf("PrintVersion = %q", buf.String())
	}
}
