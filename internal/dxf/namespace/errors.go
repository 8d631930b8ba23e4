package namespace

import (
	"errors"
	"fmt"

	"github.com/danmuck/dxftags/internal/dxf/tags"
)

var (
	ErrMissingAttribute = errors.New("namespace: missing required attribute")
	ErrTypeMismatch     = errors.New("namespace: type mismatch")
	ErrInvalidValue     = errors.New("namespace: invalid value")
	ErrUnknownAttribute = errors.New("namespace: unknown attribute")
)

// MissingAttributeError reports a required attribute that could not be
// loaded. Cause is set when a matching tag existed but was rejected.
type MissingAttributeError struct {
	Type      string
	Subclass  string
	Attribute string
	Cause     error
}

func (e MissingAttributeError) Error() string {
	msg := fmt.Sprintf("namespace: type=%s subclass=%q attribute=%s: missing required attribute", e.Type, e.Subclass, e.Attribute)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e MissingAttributeError) Is(target error) bool { return target == ErrMissingAttribute }

func (e MissingAttributeError) Unwrap() error { return e.Cause }

// TypeMismatchError reports a tag whose value kind does not match the kind
// its attribute expects. Found is KindInvalid when a point axis is absent.
type TypeMismatchError struct {
	Attribute string
	Code      int
	Expected  tags.Kind
	Found     tags.Kind
}

func (e TypeMismatchError) Error() string {
	found := e.Found.String()
	if e.Found == tags.KindInvalid {
		found = "missing"
	}
	return fmt.Sprintf("namespace: attribute=%s code=%d: type mismatch: got %s want %s", e.Attribute, e.Code, found, e.Expected)
}

func (e TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// InvalidValueError reports a value rejected by an attribute validator.
type InvalidValueError struct {
	Type      string
	Attribute string
	Value     tags.Value
}

func (e InvalidValueError) Error() string {
	return fmt.Sprintf("namespace: type=%s attribute=%s: invalid value %s", e.Type, e.Attribute, e.Value)
}

func (e InvalidValueError) Is(target error) bool { return target == ErrInvalidValue }
