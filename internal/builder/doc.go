/*
Package builder runs one compilation: it turns a system description and a
board into the emitted design sources. It is the bridge between the
Configuration Store (package store) and the Emitter (package emit).

A run is a fixed sequence of phases, each of which must succeed before the
next starts:

 1. Loading: the system description is loaded first so the board can be
    checked against its REQUIREMENTS.BOARDS list before the library is read.
    The catalog (modules, definitions, both defaults layers and the board) is
    loaded and validated next.

 2. Parameters: every instance's parameter set is merged from the default
    layers and the user overrides, then handed to the evaluator registered
    for its module type, if any. Evaluators derive the remaining parameters
    and may produce auxiliary files, which are held in memory. Every declared
    parameter must have a value once its evaluator ran.

 3. Interconnect: the netlist is resolved from the parameter sets (package
    interconnect) and its driver graph is checked, so that every wire has a
    single driver and assignment chains do not loop.

 4. Emission: only when all earlier phases succeeded is the output directory
    written: the evaluator files, the top-level module and its headers, the
    staged library sources and, optionally, the toolchain project scripts.

Validate runs phases 1 to 3 and writes nothing.
*/
package builder
