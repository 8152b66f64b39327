package infer

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoEvaluator is returned when an inferrer expression is configured but no
// engine could be constructed for it.
var ErrNoEvaluator = errors.New("infer: evaluator not configured")

// compileInferrerRule compiles the configured field name expression once, at
// settings construction. It returns a nil rule when no expression is set.
func compileInferrerRule(cfg *settingsConfig) (CompiledRule, error) {
	if cfg.expression == "" {
		return nil, nil
	}
	evaluator, err := resolveEvaluator(cfg)
	if err != nil {
		return nil, err
	}
	rule, err := evaluator.Compile(cfg.expression)
	if err != nil {
		return nil, wrapEvaluationError(evaluatorEngineName(evaluator), cfg.expression, "", err)
	}
	return rule, nil
}

func resolveEvaluator(cfg *settingsConfig) (Evaluator, error) {
	if cfg.evaluator != nil {
		return cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cfg.programCache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cfg.programCache))
	}
	if cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	cfg.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

// evaluateInferrer runs the compiled expression for a member name. The result
// must be a non-empty string.
func (s *Settings) evaluateInferrer(name, owner string) (string, error) {
	ctx := InferContext{Name: name, Owner: owner}.withDefaultMaps()
	engine := evaluatorEngineName(s.cfg.evaluator)
	start := time.Now()
	value, err := s.rule.Evaluate(ctx)
	if err == nil {
		switch typed := value.(type) {
		case string:
			if typed == "" {
				err = fmt.Errorf("inferrer produced an empty name")
			}
		default:
			err = fmt.Errorf("inferrer produced %T, want string", value)
		}
	}
	err = wrapEvaluationError(engine, s.cfg.expression, name, err)
	s.cfg.logger.LogResolution(ResolutionEvent{
		Kind:     "inferrer",
		Type:     owner,
		Target:   name,
		Result:   fmt.Sprint(value),
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return "", err
	}
	return value.(string), nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "expr"
	}
	switch fmt.Sprintf("%T", e) {
	case "*infer.exprEvaluator":
		return "expr"
	case "*infer.celEvaluator":
		return "cel"
	case "*infer.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
