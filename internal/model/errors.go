// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "errors"

// Error categories. Every fatal build error wraps exactly one of these so
// callers can classify it with errors.Is.
var (
	// ErrSchema: unknown namespace, module, protocol, interface or signal,
	// or a document that does not have the expected shape.
	ErrSchema = errors.New("schema error")
	// ErrArity: a static connection without exactly one SOURCE member.
	ErrArity = errors.New("arity error")
	// ErrType: mismatched protocol types across a static connection.
	ErrType = errors.New("type error")
	// ErrPolicy: an unsupported interconnect or arbitration policy.
	ErrPolicy = errors.New("policy error")
	// ErrResolution: an unmatched contention rule or an unresolved parameter.
	ErrResolution = errors.New("resolution error")
)
