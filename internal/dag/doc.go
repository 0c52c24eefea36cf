// Package dag holds the directed graph the builder uses to check the wiring
// of a generated top module: every wire has at most one driver, and chains
// of plain assignments never loop back on themselves.
package dag
