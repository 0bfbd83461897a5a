package circuit

import (
	"slices"
	"strconv"
	"strings"

	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
)

// NodeSet describes the non-ground nodes of a circuit. Nodes are numbered
// 1..Count; Missing lists numbers in that range no element touches.
type NodeSet struct {
	Count   int
	Missing []int
}

// IndexNodes takes the highest node number as the node count and checks
// that every node from 1 to that count is used. The returned NodeSet is
// valid even when a continuity error is reported.
func IndexNodes(elems []netlist.Element) (NodeSet, error) {
	seen := make(map[int]bool)
	var ns NodeSet
	for _, e := range elems {
		for _, n := range e.Nodes() {
			seen[n] = true
			ns.Count = max(ns.Count, n)
		}
	}

	for n := 1; n <= ns.Count; n++ {
		if !seen[n] {
			ns.Missing = append(ns.Missing, n)
		}
	}
	if len(ns.Missing) == 0 {
		return ns, nil
	}

	gaps := make([]string, len(ns.Missing))
	for i, n := range ns.Missing {
		gaps[i] = strconv.Itoa(n)
	}
	return ns, cerrors.New(cerrors.ErrCodeNodeContinuity,
		"nodes must be numbered consecutively from 1 to %d; missing %s", ns.Count, strings.Join(gaps, ", "))
}

// Contains reports whether node n is a used non-ground node.
func (ns NodeSet) Contains(n int) bool {
	return n >= 1 && n <= ns.Count && !slices.Contains(ns.Missing, n)
}
