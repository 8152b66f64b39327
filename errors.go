package infer

import (
	"errors"
	"fmt"
)

// ErrConfigurationUnavailable indicates a resolution was attempted without a
// usable Settings instance.
var ErrConfigurationUnavailable = errors.New("infer: configuration unavailable")

// ErrEmptyField indicates a Field carries neither a name nor a member chain.
var ErrEmptyField = errors.New("infer: field has no name or member chain")

// ErrEmptyIndexName indicates an IndexName carries neither a name nor a type.
var ErrEmptyIndexName = errors.New("infer: index name has no name or type")

// ResolutionError reports a failed resolution together with the identifier
// kind ("field", "index", ...) and a rendering of the target.
type ResolutionError struct {
	Kind   string
	Target string
	Err    error
}

func (e *ResolutionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Target == "" {
		return fmt.Sprintf("infer: resolve %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("infer: resolve %s %s: %v", e.Kind, e.Target, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapResolutionError(kind, target string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConfigurationUnavailable) {
		return err
	}
	var resErr *ResolutionError
	if errors.As(err, &resErr) {
		return err
	}
	return &ResolutionError{Kind: kind, Target: target, Err: err}
}
