// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "fmt"

// Direction is the data flow of a signal or interface relative to its owner.
type Direction string

const (
	Source Direction = "SOURCE"
	Sink   Direction = "SINK"
	Bidir  Direction = "BIDIR"
)

// Flip swaps SOURCE and SINK. BIDIR is unchanged.
func (d Direction) Flip() Direction {
	switch d {
	case Source:
		return Sink
	case Sink:
		return Source
	default:
		return d
	}
}

// ParseDirection validates a document direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Source, Sink, Bidir:
		return d, nil
	default:
		return "", fmt.Errorf("%w: unknown direction %q", ErrSchema, s)
	}
}

// Handshake directions.
const (
	Request  = "REQUEST"
	Response = "RESPONSE"
)
