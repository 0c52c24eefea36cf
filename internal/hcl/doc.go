// Package hcl loads HCL documents into the config tree.
//
// Attributes become map entries, and a block `TYPE "label" { ... }` becomes
// the nested entry TYPE.label. Expressions are evaluated without variables or
// functions; object and tuple constructors are walked syntactically so that
// key order survives, everything else goes through cty.
package hcl
