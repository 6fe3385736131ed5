// Package model provides the parametric-model abstraction layer for modelfit.
//
// # Reading Guide
//
// Start with these three files to understand the core:
//   - param.go: Parameter descriptors and Family (the static schema of a model type)
//   - store.go: ParameterStore, the flat buffer holding all parameter sets
//   - model.go: Model construction and the broadcast evaluation wrapper
//
// # Architecture
//
// A Family describes a model type once: its ordered parameters with defaults and
// constraint defaults, its input/output arity, and its evaluation function. A Model
// is one instance of a Family: a ParameterStore packing every parameter value for
// every parameter set into one contiguous float64 buffer, plus a ConstraintTable
// capturing fixed/tied/bounds and model-level constraints. Fitters mutate the flat
// buffer in place; named parameter views alias slices of it.
//
// Models compose through the Transform interface:
//   - SerialComposite: a pipeline, each child's outputs feeding the next child
//   - SummedComposite: parallel evaluation with elementwise-summed outputs
//
// Composites route values positionally or by label through a LabeledContainer.
//
// # Key Interfaces
//
// The extension point is the Transform capability set: NInputs, NOutputs, Eval,
// Inverse. Concrete model families are registered via Register and constructed
// through New; YAML definition bundles (bundle.go) build models against the
// registry.
//
// # Parameter sets and broadcasting
//
// A Model may hold N parameter sets (model sets) for vectorized evaluation. With
// one set, inputs pass through untouched and scalar inputs yield scalar outputs.
// With N sets, 1-d inputs of length M broadcast to (M, N) outputs; 2-d inputs must
// have a trailing axis of size N; higher-rank inputs must have a leading axis of
// size N and are transposed around evaluation. See model.go for the exact rules.
package model
