// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the typed, read-only view of the documents a build
// is compiled against: the module catalog, the protocol and intrinsic
// definitions, the layered defaults, the board and the system description.
//
// # Core Concepts
//
//   - ModuleType: a catalog entry with ordered Interfaces, declared
//     Parameters, optional Encodings and the source files it requires.
//
//   - Protocol: a bus convention with a width table, the Handshakes that
//     carry VALID/READY/FRAME roles, and the rules that resolve bus
//     contention between handshakes sharing a wire.
//
//   - Board: external I/O, pin constraints and the HDL/IP files that board
//     sources pull in.
//
//   - System: the instances to build, the exported ports, the intrinsic
//     snippets and the static and dynamic interconnect.
//
// Every type here is decoded once from a config.Value and never mutated
// afterwards. Decoding failures wrap ErrSchema. Map order from the source
// documents is preserved wherever it drives the order of generated text.
package model
