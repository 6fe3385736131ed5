package model

import "errors"

// Error kinds for the model core. Failures wrap one of these sentinels with
// fmt.Errorf("...: %w", ...), so callers branch with errors.Is. Every message
// names the offending parameter, shape, or count.
var (
	// ErrDefinition indicates a malformed Family: an unnamed or duplicated
	// parameter, or an explicit ordering listing an undeclared name.
	ErrDefinition = errors.New("model: invalid model definition")

	// ErrInputParameter indicates constructor arguments inconsistent with the
	// declared parameters: a missing required value, conflicting positional and
	// keyword values, an unrecognized name, an invalid model-set axis, or a
	// buffer assignment of incompatible size.
	ErrInputParameter = errors.New("model: invalid input parameter")

	// ErrShapeMismatch indicates an evaluation-time broadcasting failure: an
	// input array whose dimensions cannot be reconciled with the number of
	// parameter sets.
	ErrShapeMismatch = errors.New("model: shape mismatch")

	// ErrUnsupported indicates an operation the receiver does not support:
	// parameter access on composites, a missing analytical inverse, missing
	// label maps, or mismatched label/value counts.
	ErrUnsupported = errors.New("model: unsupported operation")
)
