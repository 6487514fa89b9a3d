// Package luahost runs Lua scripts with the kernels exposed as a global
// "kernels" table:
//
//	print(kernels.fibonacci_sum(10, 20))        --> 6820
//	print(kernels.prime_count(1000))            --> 168
//	print(kernels.matrix_multiply_sum(3))       --> 126
//	kernels.log("done")
//
// Lua 5.2 numbers are doubles, so integer results above 2^53 are returned as
// decimal strings to keep them exact.
package luahost

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Shopify/go-lua"

	apperrors "github.com/agbru/numkernels/internal/errors"
	"github.com/agbru/numkernels/internal/kernels"
	"github.com/agbru/numkernels/internal/logging"
)

// GlobalName is the name of the table holding the kernel functions.
const GlobalName = "kernels"

// maxExactInteger is the largest integer a Lua number holds exactly.
const maxExactInteger = 1 << 53

// Host owns the configuration shared by every script run. Each run gets a
// fresh Lua state, so scripts cannot observe each other.
type Host struct {
	module *kernels.Module
	logger logging.Logger
	out    io.Writer
	limits kernels.Limits
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger used by kernels.log and by the kernels module.
func WithLogger(l logging.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithOutput redirects the Lua print function.
func WithOutput(w io.Writer) Option {
	return func(h *Host) {
		if w != nil {
			h.out = w
		}
	}
}

// WithLimits sets the resource guards applied before each kernel call.
func WithLimits(l kernels.Limits) Option {
	return func(h *Host) { h.limits = l }
}

// New creates a Host writing print output to stdout.
func New(opts ...Option) *Host {
	h := &Host{logger: logging.NopLogger{}, out: os.Stdout}
	for _, opt := range opts {
		opt(h)
	}
	h.module = kernels.New(kernels.WithLogger(h.logger))
	return h
}

// RunString executes src as a chunk called name.
func (h *Host) RunString(ctx context.Context, name, src string) error {
	l := h.newState(ctx)
	if err := lua.LoadBuffer(l, src, name, ""); err != nil {
		return apperrors.WrapError(err, "load %s", name)
	}
	return h.call(l, name)
}

// RunFile executes the script at path.
func (h *Host) RunFile(ctx context.Context, path string) error {
	l := h.newState(ctx)
	if err := lua.LoadFile(l, path, ""); err != nil {
		return apperrors.WrapError(err, "load %s", path)
	}
	return h.call(l, path)
}

func (h *Host) call(l *lua.State, name string) error {
	if err := l.ProtectedCall(0, 0, 0); err != nil {
		return apperrors.WrapError(err, "run %s", name)
	}
	return nil
}

func (h *Host) newState(ctx context.Context) *lua.State {
	l := lua.NewState()
	lua.OpenLibraries(l)

	l.Register("print", h.print)

	l.NewTable()
	lua.SetFunctions(l, h.functions(ctx), 0)
	l.SetGlobal(GlobalName)
	return l
}

func (h *Host) functions(ctx context.Context) []lua.RegistryFunction {
	fns := make([]lua.RegistryFunction, 0, len(kernels.Ops())+1)
	for _, op := range kernels.Ops() {
		fns = append(fns, lua.RegistryFunction{Name: string(op), Function: h.kernelFunction(ctx, op)})
	}
	fns = append(fns, lua.RegistryFunction{Name: "log", Function: h.log})
	return fns
}

// kernelFunction builds the Lua binding of op. Arguments must be integral
// numbers in [0, 2^32-1]; anything else raises a Lua argument error.
func (h *Host) kernelFunction(ctx context.Context, op kernels.Op) lua.Function {
	return func(l *lua.State) int {
		if err := ctx.Err(); err != nil {
			lua.Errorf(l, "%s: %s", op, err.Error())
		}
		args := make([]uint32, op.Arity())
		for i := range args {
			args[i] = checkUint32(l, i+1)
		}
		req := kernels.Request{Op: op, Args: args}
		if err := h.limits.Check(req); err != nil {
			lua.Errorf(l, "%s", err.Error())
		}
		v, err := h.module.Invoke(req)
		if err != nil {
			lua.Errorf(l, "%s", err.Error())
		}
		pushValue(l, v)
		return 1
	}
}

func checkUint32(l *lua.State, index int) uint32 {
	f := lua.CheckNumber(l, index)
	if f != math.Trunc(f) || f < 0 || f > math.MaxUint32 {
		lua.ArgumentError(l, index, fmt.Sprintf("integer in [0, %d] expected, got %s",
			uint32(math.MaxUint32), strconv.FormatFloat(f, 'g', -1, 64)))
	}
	return uint32(f)
}

func pushValue(l *lua.State, v kernels.Value) {
	switch {
	case v.Kind == kernels.KindFloat:
		l.PushNumber(v.Float)
	case v.Uint <= maxExactInteger:
		l.PushNumber(float64(v.Uint))
	default:
		l.PushString(strconv.FormatUint(v.Uint, 10))
	}
}

func (h *Host) log(l *lua.State) int {
	h.logger.Info(joinArgs(l), logging.String("source", "lua"))
	return 0
}

func (h *Host) print(l *lua.State) int {
	fmt.Fprintln(h.out, joinArgs(l))
	return 0
}

// joinArgs renders every argument with tostring semantics, tab-separated.
func joinArgs(l *lua.State) string {
	n := l.Top()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		s, _ := lua.ToStringMeta(l, i)
		parts = append(parts, s)
	}
	return strings.Join(parts, "\t")
}
