// Package classify derives the performance category and extension set of a
// board/branch build record.
package classify

import (
	"strings"

	"github.com/armbian/targetgen/pkg/extmap"
	"github.com/armbian/targetgen/pkg/inventory"
)

// Category is the performance bucket that drives image type selection.
type Category string

const (
	Fast      Category = "fast"
	Slow      Category = "slow"
	Headless  Category = "headless"
	RiscV64   Category = "riscv64"
	LoongArch Category = "loongarch"
)

// Categories lists every category in list emission order.
var Categories = []Category{Fast, Slow, RiscV64, LoongArch, Headless}

// Categorize applies Rules to rec.
func Categorize(rec inventory.Record) Category {
	for _, r := range Rules {
		if r.Match(rec) {
			return r.Category
		}
	}
	return Fast
}

// Extensions is an ordered, de-duplicated list of extension names.
type Extensions []string

func (e Extensions) String() string {
	return strings.Join(e, ",")
}

func (e Extensions) Contains(name string) bool {
	for _, x := range e {
		if x == name {
			return true
		}
	}
	return false
}

func (e Extensions) add(names ...string) Extensions {
	for _, n := range names {
		if n != "" && !e.Contains(n) {
			e = append(e, n)
		}
	}
	return e
}

func (e Extensions) without(names []string) Extensions {
	if len(names) == 0 {
		return e
	}
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	var out Extensions
	for _, x := range e {
		if _, ok := drop[x]; !ok {
			out = append(out, x)
		}
	}
	return out
}

// ExtensionsFor merges the automatic extensions of a category with the
// manual add map, then strips everything listed in the remove map.
func ExtensionsFor(rec inventory.Record, cat Category, add, remove extmap.Map) Extensions {
	var ext Extensions
	if cat == Fast {
		ext = ext.add(AutoExtensions...)
	}
	if manual, ok := extmap.Lookup(add, rec.Board, rec.Branch); ok {
		ext = ext.add(manual...)
	}
	if removed, ok := extmap.Lookup(remove, rec.Board, rec.Branch); ok {
		ext = ext.without(removed)
	}
	return ext
}

// Classify returns the category and merged extensions of rec.
func Classify(rec inventory.Record, add, remove extmap.Map) (Category, Extensions) {
	cat := Categorize(rec)
	return cat, ExtensionsFor(rec, cat, add, remove)
}

// Board is a classified board/branch pair, the unit consumed by the emitters.
type Board struct {
	Board             string
	Branch            string
	SupportTier       string
	Architecture      string
	Category          Category
	Extensions        Extensions
	HasVideoOutput    bool
	HasDesktopVariant bool
	TestBranches      []string
}

// NewBoard classifies rec into a Board.
func NewBoard(rec inventory.Record, add, remove extmap.Map) Board {
	cat, ext := Classify(rec, add, remove)
	return Board{
		Board:             rec.Board,
		Branch:            rec.Branch,
		SupportTier:       rec.SupportTier,
		Architecture:      rec.Architecture,
		Category:          cat,
		Extensions:        ext,
		HasVideoOutput:    rec.HasVideoOutput,
		HasDesktopVariant: rec.HasDesktopVariant,
		TestBranches:      rec.TestBranches,
	}
}
