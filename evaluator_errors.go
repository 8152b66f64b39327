package infer

import (
	"errors"
	"fmt"
	"strings"
)

// EvaluationError captures inferrer expression metadata alongside the
// originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Name   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("infer: %s evaluator %s name=%q: %v", e.Engine, describeExpression(e.Expr), e.Name, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "infer:") {
		return err
	}
	return fmt.Errorf("infer: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr, name string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Name == "" {
			evalErr.Name = name
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Name:   name,
		Err:    err,
	}
}
