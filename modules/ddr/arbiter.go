package ddr

import (
	"fmt"

	"github.com/vk/socforge/internal/model"
)

// Bank arbitration policies.
const (
	RoundRobin = "ROUNDROBIN"
	Sticky     = "STICKY"
)

// ArbiterTable enumerates the grant for every request vector and previously
// granted bank. Row request*banks+last holds the bank granted next. An empty
// request keeps the last grant. Otherwise the search starts after last and
// wraps around; STICKY keeps last while it is still requested.
func ArbiterTable(policy string, banks int) ([]int, error) {
	if policy != RoundRobin && policy != Sticky {
		return nil, fmt.Errorf("%w: unsupported bank arbitration policy %q", model.ErrPolicy, policy)
	}
	if banks < 1 || banks > 16 {
		return nil, fmt.Errorf("%w: bank count %d out of range", model.ErrResolution, banks)
	}

	rows := make([]int, 0, (1<<banks)*banks)
	for request := range 1 << banks {
		for last := range banks {
			rows = append(rows, grant(policy, banks, request, last))
		}
	}
	return rows, nil
}

func grant(policy string, banks, request, last int) int {
	if request == 0 {
		return last
	}
	if policy == Sticky && request&(1<<last) != 0 {
		return last
	}
	for i := 1; i <= banks; i++ {
		b := (last + i) % banks
		if request&(1<<b) != 0 {
			return b
		}
	}
	return last
}
