package partition

import "github.com/armbian/targetgen/pkg/classify"

// DefaultBranchPriority is used for boards without a test-branch allow-list.
// Lower numbers win.
var DefaultBranchPriority = map[string]int{
	"current": 1,
	"vendor":  2,
	"legacy":  2,
	"edge":    3,
}

func branchPriority(b classify.Board) map[string]int {
	if len(b.TestBranches) == 0 {
		return DefaultBranchPriority
	}
	prio := make(map[string]int, len(b.TestBranches))
	for i, br := range b.TestBranches {
		if _, ok := prio[br]; !ok {
			prio[br] = i + 1
		}
	}
	return prio
}

// SelectOneBranchPerBoard keeps the highest-priority eligible branch of each
// board. Branches missing from the priority order are skipped, ties keep the
// first entry seen, and boards come out in first-seen order.
func SelectOneBranchPerBoard(boards []classify.Board) []classify.Board {
	var order []string
	selected := make(map[string]classify.Board)
	rank := make(map[string]int)

	for _, b := range boards {
		p, ok := branchPriority(b)[b.Branch]
		if !ok {
			continue
		}
		current, seen := rank[b.Board]
		if !seen {
			order = append(order, b.Board)
		}
		if !seen || p < current {
			selected[b.Board] = b
			rank[b.Board] = p
		}
	}

	out := make([]classify.Board, 0, len(order))
	for _, name := range order {
		out = append(out, selected[name])
	}
	return out
}
