// Package config defines the format-agnostic document tree every input file
// is loaded into, along with the Loader interface implemented by the concrete
// TOML, HCL and YAML/JSON packages.
//
// A document is a tree of Values: maps keep the key order of the source text,
// lists keep element order, and scalars carry their native kind. Nothing in
// this package knows what a module, board or system is; that interpretation
// lives in the model package.
package config
