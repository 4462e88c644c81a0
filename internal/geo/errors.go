package geo

import "fmt"

// Reason identifies the structural rule a geometry payload violated.
type Reason string

const (
	ReasonArity      Reason = "arity"
	ReasonTooFew     Reason = "too-few"
	ReasonNotClosed  Reason = "not-closed"
	ReasonTypeTag    Reason = "type-tag"
	ReasonNotNumeric Reason = "not-numeric"
)

// ValidationError reports a geometry payload that violates its kind's
// structural invariant.
type ValidationError struct {
	Kind   Kind
	Reason Reason
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("invalid %s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s: %s", e.Kind, e.Reason, e.Detail)
}

func invalid(kind Kind, reason Reason, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Kind: kind, Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// TypeError reports a value that is not a constructed geometry where one
// was required.
type TypeError struct {
	Index int
	Value interface{}
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("element %d: %T is not a geometry", e.Index, e.Value)
}

// DecodeError reports malformed or structurally incomplete serialized input.
// Index is the offending feature, or -1 when the collection itself is bad.
type DecodeError struct {
	Index  int
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := e.Reason
	if e.Index >= 0 {
		msg = fmt.Sprintf("feature %d: %s", e.Index, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return "decode: " + msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// LookupError reports a geometry type tag outside the fixed set of kinds.
type LookupError struct {
	Kind string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("unknown geometry type %q", e.Kind)
}
