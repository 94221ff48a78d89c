// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package proxytrust

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
)

// Sentinel errors for policy compilation and evaluation.
var (
	// ErrExpressionCheck is returned when a policy fails syntax or type checking.
	ErrExpressionCheck = errors.New("trust policy check failed")

	// ErrEvaluation is returned when a policy cannot be evaluated.
	ErrEvaluation = errors.New("trust policy evaluation failed")

	// ErrInvalidResult is returned when a policy does not produce a bool.
	ErrInvalidResult = errors.New("trust policy returned invalid result type")
)

// Stage names the compilation step that rejected a policy.
type Stage string

const (
	// StageParse rejects expressions that are not syntactically valid.
	StageParse Stage = "parse"
	// StageCheck rejects expressions that reference unknown variables or
	// functions, or combine values of the wrong type.
	StageCheck Stage = "check"
)

// Issue locates one problem in a policy. Line and Col are 1-based; Col is
// zero when the compiler did not report a column.
type Issue struct {
	Line int    `json:"line,omitempty" yaml:"line,omitempty"`
	Col  int    `json:"col,omitempty" yaml:"col,omitempty"`
	Msg  string `json:"msg" yaml:"msg"`
}

func (i Issue) String() string {
	if i.Line == 0 {
		return i.Msg
	}
	return fmt.Sprintf("%d:%d: %s", i.Line, i.Col, i.Msg)
}

// CompileError reports why Compile rejected an expression. It matches
// ErrExpressionCheck with errors.Is.
type CompileError struct {
	Stage  Stage   `json:"stage" yaml:"stage"`
	Expr   string  `json:"expr" yaml:"expr"`
	Issues []Issue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

func (e *CompileError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		msgs[i] = is.String()
	}
	return fmt.Sprintf("%s: %s error in %q: %s",
		ErrExpressionCheck, e.Stage, e.Expr, strings.Join(msgs, "; "))
}

// Is makes errors.Is(err, ErrExpressionCheck) hold.
func (e *CompileError) Is(target error) bool {
	return target == ErrExpressionCheck
}

func compileError(stage Stage, expr string, issues *cel.Issues) error {
	errs := issues.Errors()
	out := &CompileError{Stage: stage, Expr: expr, Issues: make([]Issue, 0, len(errs))}
	for _, ce := range errs {
		out.Issues = append(out.Issues, Issue{
			Line: ce.Location.Line(),
			Col:  ce.Location.Column() + 1,
			Msg:  ce.Message,
		})
	}
	return out
}
