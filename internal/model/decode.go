// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"strings"

	"github.com/vk/socforge/internal/config"
)

// text returns the scalar text at path, or "" when it is absent.
func text(v *config.Value, path ...string) string {
	n, ok := v.Lookup(path...)
	if !ok || !n.IsScalar() {
		return ""
	}
	return n.Text()
}

// texts returns the list of scalars at path. A missing entry is an empty list.
func texts(v *config.Value, path ...string) ([]string, error) {
	n, ok := v.Lookup(path...)
	if !ok || n.Kind == config.KindNull {
		return nil, nil
	}
	out, ok := n.Strings()
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a list of scalars", ErrSchema, strings.Join(path, "."))
	}
	return out, nil
}

// table returns the map at path, or an empty map when it is absent.
func table(v *config.Value, path ...string) (*config.Value, error) {
	n, ok := v.Lookup(path...)
	if !ok || n.Kind == config.KindNull {
		return config.EmptyMap(), nil
	}
	if !n.IsMap() {
		return nil, fmt.Errorf("%w: %s must be a table", ErrSchema, strings.Join(path, "."))
	}
	return n, nil
}
