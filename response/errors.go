package response

import (
	"errors"
	"fmt"
)

// ErrDecode matches every *DecodeError through errors.Is.
var ErrDecode = errors.New("response: decode failed")

// DecodeError reports a malformed body or a strictly typed envelope field
// with the wrong shape. Kind is one of "syntax", "envelope", "error",
// "key" or "value".
type DecodeError struct {
	Kind string
	Key  string
	Err  error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Key == "" {
		return fmt.Sprintf("response: decode %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("response: decode %s at key %q: %v", e.Kind, e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is(err, ErrDecode) match any DecodeError.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func decodeError(kind, key string, err error) *DecodeError {
	return &DecodeError{Kind: kind, Key: key, Err: err}
}
