// Package partition groups classified boards by support tier and picks a
// single kernel branch per board where a view needs one row per board.
package partition

import (
	"github.com/armbian/targetgen/internal/utils"
	"github.com/armbian/targetgen/pkg/classify"
	"github.com/armbian/targetgen/pkg/extmap"
	"github.com/armbian/targetgen/pkg/inventory"
)

// Support tiers.
const (
	TierConf = "conf"
	TierWIP  = "wip"
	TierCSC  = "csc"
	TierTVB  = "tvb"
)

// DefaultBranches are kept for boards without a test-branch allow-list.
var DefaultBranches = []string{"current", "vendor", "legacy", "edge"}

// Groups holds the partitioned boards, each in first-seen order.
type Groups struct {
	Primary   []classify.Board
	Community []classify.Board
}

// IsPrimary reports whether tier is conf or wip.
func IsPrimary(tier string) bool {
	return tier == TierConf || tier == TierWIP
}

// IsCommunity reports whether tier is csc or tvb.
func IsCommunity(tier string) bool {
	return tier == TierCSC || tier == TierTVB
}

type pairKey struct {
	board  string
	branch string
}

// Partition classifies records, collapses duplicate board/branch pairs and
// routes the survivors by support tier. Blacklisted boards, unknown tiers and
// disallowed branches are dropped silently.
func Partition(records []inventory.Record, blacklist map[string]struct{}, add, remove extmap.Map) Groups {
	var order []pairKey
	collapsed := make(map[pairKey]*classify.Board)

	for _, rec := range records {
		if rec.Board == "" || rec.Branch == "" {
			continue
		}
		if _, ok := blacklist[rec.Board]; ok {
			utils.Log.Debugf("[skip-blacklist] %s/%s", rec.Board, rec.Branch)
			continue
		}
		if !IsPrimary(rec.SupportTier) && !IsCommunity(rec.SupportTier) {
			utils.Log.Debugf("[skip-tier] %s/%s (%q)", rec.Board, rec.Branch, rec.SupportTier)
			continue
		}

		key := pairKey{board: rec.Board, branch: rec.Branch}
		if existing, ok := collapsed[key]; ok {
			// Later duplicates only contribute the desktop flag.
			if rec.HasDesktopVariant {
				existing.HasDesktopVariant = true
			}
			continue
		}
		b := classify.NewBoard(rec, add, remove)
		collapsed[key] = &b
		order = append(order, key)
	}

	var groups Groups
	for _, key := range order {
		b := *collapsed[key]
		if !branchAllowed(b) {
			utils.Log.Debugf("[skip-branch] %s/%s", b.Board, b.Branch)
			continue
		}
		if IsPrimary(b.SupportTier) {
			groups.Primary = append(groups.Primary, b)
		} else {
			groups.Community = append(groups.Community, b)
		}
	}
	return groups
}

func branchAllowed(b classify.Board) bool {
	allowed := DefaultBranches
	if len(b.TestBranches) > 0 {
		allowed = b.TestBranches
	}
	for _, br := range allowed {
		if br == b.Branch {
			return true
		}
	}
	return false
}
