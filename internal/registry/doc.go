// Package registry is the evaluator dispatch table.
//
// Each module type that derives parameters of its own registers an Evaluator
// under the module type name. The builder looks the evaluator up for every
// instance after the default layers are merged, so new module types plug in
// without touching the resolver.
package registry
