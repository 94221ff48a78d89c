// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package proxytrust

import (
	"fmt"
	"net/netip"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

const (
	// DefaultMaxExpressionLength is the maximum accepted policy length.
	DefaultMaxExpressionLength = 4096

	// DefaultCostLimit bounds the runtime cost of a single evaluation.
	DefaultCostLimit = 100000
)

// remoteAddrKey is the server variable copied into remote_addr.
const remoteAddrKey = "REMOTE_ADDR"

// newEnv builds the shared CEL environment on first use.
var newEnv = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("server", cel.MapType(cel.StringType, cel.StringType)),
		cel.Variable("remote_addr", cel.StringType),
		cel.Function("in_cidr",
			cel.Overload("in_cidr_string_string",
				[]*cel.Type{cel.StringType, cel.StringType}, cel.BoolType,
				cel.BinaryBinding(inCIDR),
			),
		),
	)
})

func inCIDR(addr, cidr ref.Val) ref.Val {
	a, ok := addr.Value().(string)
	if !ok {
		return types.NewErr("in_cidr: address must be a string")
	}
	c, ok := cidr.Value().(string)
	if !ok {
		return types.NewErr("in_cidr: network must be a string")
	}
	prefix, err := netip.ParsePrefix(c)
	if err != nil {
		return types.NewErr("in_cidr: %v", err)
	}
	ip, err := netip.ParseAddr(a)
	if err != nil {
		return types.False
	}
	return types.Bool(prefix.Contains(ip.Unmap()))
}

type config struct {
	maxExpressionLength int
	costLimit           uint64
}

// Option configures Compile and Check.
type Option func(*config)

// WithMaxExpressionLength sets the maximum accepted expression length.
func WithMaxExpressionLength(n int) Option {
	return func(c *config) {
		c.maxExpressionLength = n
	}
}

// WithCostLimit sets the runtime cost limit of the compiled program.
func WithCostLimit(limit uint64) Option {
	return func(c *config) {
		c.costLimit = limit
	}
}

// Policy is a compiled forwarded-header trust expression.
type Policy struct {
	source  string
	program cel.Program
}

// Source returns the expression the policy was compiled from.
func (p *Policy) Source() string {
	return p.source
}

// Compile parses, type-checks and compiles expr. The expression must
// evaluate to a bool.
func Compile(expr string, opts ...Option) (*Policy, error) {
	cfg := newConfig(opts)
	env, checked, err := check(expr, cfg)
	if err != nil {
		return nil, err
	}

	program, err := env.Program(checked, cel.CostLimit(cfg.costLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to create program for %q: %w", expr, err)
	}
	return &Policy{source: expr, program: program}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(expr string, opts ...Option) *Policy {
	p, err := Compile(expr, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Check validates expr without building a program, for configuration
// validation at startup.
func Check(expr string, opts ...Option) error {
	_, _, err := check(expr, newConfig(opts))
	return err
}

func newConfig(opts []Option) *config {
	cfg := &config{
		maxExpressionLength: DefaultMaxExpressionLength,
		costLimit:           DefaultCostLimit,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func check(expr string, cfg *config) (*cel.Env, *cel.Ast, error) {
	if len(expr) > cfg.maxExpressionLength {
		return nil, nil, fmt.Errorf("%w: expression length %d exceeds maximum of %d",
			ErrExpressionCheck, len(expr), cfg.maxExpressionLength)
	}

	env, err := newEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	parsed, issues := env.Parse(expr)
	if issues.Err() != nil {
		return nil, nil, compileError(StageParse, expr, issues)
	}
	checked, issues := env.Check(parsed)
	if issues.Err() != nil {
		return nil, nil, compileError(StageCheck, expr, issues)
	}

	out := checked.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, nil, fmt.Errorf("%w: policy %q has type %s, want bool",
			ErrInvalidResult, expr, out)
	}
	return env, checked, nil
}

// Allows evaluates the policy against the server variables of a request.
// remote_addr is taken from the REMOTE_ADDR entry.
func (p *Policy) Allows(server map[string]string) (bool, error) {
	if server == nil {
		server = map[string]string{}
	}
	out, _, err := p.program.Eval(map[string]any{
		"server":      server,
		"remote_addr": server[remoteAddrKey],
	})
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrEvaluation, err)
	}

	allowed, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: expected bool, got %T", ErrInvalidResult, out.Value())
	}
	return allowed, nil
}
