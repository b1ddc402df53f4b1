package element

import (
	"github.com/pkg/errors"

	"github.com/hybridsim/substructure/domain"
)

// buildBasicDOF builds the basic DOF index set: entry k is the owning
// node's global DOF offset plus the selected local index, walking nodes in
// order and accumulating each node's total DOF count as offset. The
// selections are validated against the node DOF counts, which are only
// known at attach time.
func buildBasicDOF(nodes []domain.Node, dofs [][]int) ([]int, error) {
	numBasic := 0
	for _, sel := range dofs {
		numBasic += len(sel)
	}

	idx := make([]int, 0, numBasic)
	offset := 0
	for i, n := range nodes {
		ndf := n.NumDOF()
		for _, d := range dofs[i] {
			if d < 0 || d >= ndf {
				return nil, errors.Errorf("dof selection %d out of range for node with %d dofs", d, ndf)
			}
			idx = append(idx, offset+d)
		}
		offset += ndf
	}
	return idx, nil
}
