package signal

import (
	"fmt"
	"strconv"

	"github.com/vk/socforge/internal/model"
)

// Declare renders the declaration of a board port, module wire or bus
// contention wire.
func Declare(s *Signal) (string, error) {
	var kind string
	switch s.Namespace {
	case Board:
		if s.IODirection == "" {
			return "", fmt.Errorf("%w: board interface %q must be declared per signal", model.ErrSchema, s.Ref)
		}
		kind = s.IODirection
	case Module, BusContention:
		if s.IsInterface() {
			return "", fmt.Errorf("%w: interface %q must be declared per signal", model.ErrSchema, s.Ref)
		}
		kind = "wire"
	default:
		return "", fmt.Errorf("%w: %q is not a supported namespace for instantiations", model.ErrSchema, s.Namespace)
	}
	return kind + " " + Range(s.Width) + s.Name + ";", nil
}

// Range is the packed range prefix for a width: empty for single bits,
// [N-1:0] for numbers and [W-1:0] for expressions.
func Range(width string) string {
	if !IsNumeral(width) {
		return "[" + width + "-1:0] "
	}
	n, err := strconv.Atoi(width)
	if err != nil || n <= 1 {
		return ""
	}
	return "[" + strconv.Itoa(n-1) + ":0] "
}
