package manifest

import (
	"fmt"
	"sort"

	"github.com/armbian/targetgen/pkg/classify"
	"github.com/armbian/targetgen/pkg/partition"
)

// Kind identifies one of the generated manifests.
type Kind string

const (
	Apps      Kind = "apps"
	Standard  Kind = "standard-support"
	Nightly   Kind = "nightly"
	Community Kind = "community"
)

// Kinds lists every manifest kind in generation order.
var Kinds = []Kind{Apps, Standard, Nightly, Community}

// FileName is the output file of the manifest kind.
func (k Kind) FileName() string {
	if k == Community {
		return "targets-release-community-maintained.yaml"
	}
	return fmt.Sprintf("targets-release-%s.yaml", k)
}

// AppsExcludedArchitectures never receive application images.
var AppsExcludedArchitectures = []string{"armhf", "riscv64", "loongarch64"}

// AppsList is the single list shared by every apps target.
const AppsList = "apps-builds"

var listSuffix = map[classify.Category]string{
	classify.Fast:      "fast-hdmi",
	classify.Slow:      "slow-hdmi",
	classify.RiscV64:   "riscv64",
	classify.LoongArch: "loongarch",
	classify.Headless:  "headless",
}

var (
	standardOrder  = []classify.Category{classify.Fast, classify.Slow, classify.RiscV64, classify.LoongArch, classify.Headless}
	communityOrder = []classify.Category{classify.Fast, classify.Slow, classify.Headless, classify.RiscV64, classify.LoongArch}
)

// ListName returns the list name for a bucket. An empty branch yields the
// branchless form used by nightly.
func ListName(prefix, branch string, cat classify.Category) string {
	if branch == "" {
		return fmt.Sprintf("%s-%s", prefix, listSuffix[cat])
	}
	return fmt.Sprintf("%s-%s-%s", prefix, branch, listSuffix[cat])
}

func entries(boards []classify.Board, withExtensions bool) []Entry {
	sorted := make([]classify.Board, len(boards))
	copy(sorted, boards)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Board < sorted[j].Board })

	out := make([]Entry, 0, len(sorted))
	for _, b := range sorted {
		e := Entry{Board: b.Board, Branch: b.Branch}
		if withExtensions {
			e.Extensions = b.Extensions.String()
		}
		out = append(out, e)
	}
	return out
}

// buckets splits boards by branch and category. Empty buckets are not
// emitted; keep, when non-nil, filters boards per branch.
func buckets(prefix string, boards []classify.Board, branches []string, order []classify.Category, keep func(classify.Board) bool) []List {
	var lists []List
	for _, branch := range branches {
		for _, cat := range order {
			var members []classify.Board
			for _, b := range boards {
				if b.Category != cat || (branch != "" && b.Branch != branch) {
					continue
				}
				if keep != nil && !keep(b) {
					continue
				}
				members = append(members, b)
			}
			if len(members) == 0 {
				continue
			}
			lists = append(lists, List{Name: ListName(prefix, branch, cat), Entries: entries(members, true)})
		}
	}
	return lists
}

// targetDef is a fixed target whose items are filtered against the lists
// that exist. A target is emitted only when one of its gate lists exists and
// at least one item survives; an empty gate means the items themselves.
type targetDef struct {
	name    string
	comment string
	config  string
	vars    []Var
	items   []string
	gate    []string
}

func resolve(lists []List, defs []targetDef) []Target {
	present := make(map[string]bool, len(lists))
	for _, l := range lists {
		present[l.Name] = true
	}

	var targets []Target
	for _, def := range defs {
		gate := def.gate
		if len(gate) == 0 {
			gate = def.items
		}
		open := false
		for _, g := range gate {
			if present[g] {
				open = true
				break
			}
		}
		if !open {
			continue
		}

		var items []string
		for _, name := range def.items {
			if present[name] {
				items = append(items, name)
			}
		}
		if len(items) == 0 {
			continue
		}
		targets = append(targets, Target{
			Name:    def.name,
			Comment: def.comment,
			Config:  def.config,
			Vars:    def.vars,
			Items:   items,
		})
	}
	return targets
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func minimalVars(release string) []Var {
	return []Var{
		{Key: "RELEASE", Value: release},
		{Key: "BUILD_MINIMAL", Value: yesNo(true)},
		{Key: "BUILD_DESKTOP", Value: yesNo(false)},
	}
}

func desktopVars(release, environment, appGroups string) []Var {
	return []Var{
		{Key: "RELEASE", Value: release},
		{Key: "BUILD_MINIMAL", Value: yesNo(false)},
		{Key: "BUILD_DESKTOP", Value: yesNo(true)},
		{Key: "DESKTOP_ENVIRONMENT", Value: environment},
		{Key: "DESKTOP_ENVIRONMENT_CONFIG_NAME", Value: "config_base"},
		{Key: "DESKTOP_APPGROUPS_SELECTED", Value: appGroups},
	}
}

func appVars(release string, minimal bool, extension string) []Var {
	return []Var{
		{Key: "RELEASE", Value: release},
		{Key: "BUILD_MINIMAL", Value: yesNo(minimal)},
		{Key: "BUILD_DESKTOP", Value: yesNo(false)},
		{Key: "ENABLE_EXTENSIONS", Value: extension},
	}
}

func names(lists []List) []string {
	out := make([]string, 0, len(lists))
	for _, l := range lists {
		out = append(out, l.Name)
	}
	return out
}

func excluded(arch string) bool {
	for _, a := range AppsExcludedArchitectures {
		if a == arch {
			return true
		}
	}
	return false
}

// BuildApps emits one row per primary board, excluding architectures that
// cannot run the application bundles.
func BuildApps(primary []classify.Board, rel Releases, manual string) Document {
	var boards []classify.Board
	for _, b := range partition.SelectOneBranchPerBoard(primary) {
		if !excluded(b.Architecture) {
			boards = append(boards, b)
		}
	}

	doc := Document{Manual: manual}
	if len(boards) > 0 {
		doc.Lists = []List{{Name: AppsList, Entries: entries(boards, false)}}
	}
	doc.Targets = resolve(doc.Lists, []targetDef{
		{name: "apps-ha", comment: "Images with app-specific extensions", config: ConfigApps, vars: appVars(rel.Debian, false, "ha"), items: []string{AppsList}},
		{name: "apps-omv", config: ConfigApps, vars: appVars(rel.Debian, true, "omv"), items: []string{AppsList}},
		{name: "apps-openhab", config: ConfigApps, vars: appVars(rel.Debian, false, "openhab"), items: []string{AppsList}},
		{name: "apps-kali", config: ConfigApps, vars: appVars(rel.Kali, false, "kali"), items: []string{AppsList}},
	})
	return doc
}

// BuildStandard splits primary boards by branch and category.
func BuildStandard(primary []classify.Board, rel Releases, manual string) Document {
	const p = "stable"
	lists := buckets(p, primary, []string{"current", "vendor", "legacy"}, standardOrder, nil)
	all := names(lists)
	l := func(branch string, cat classify.Category) string { return ListName(p, branch, cat) }

	doc := Document{Lists: lists, Manual: manual}
	doc.Targets = resolve(lists, []targetDef{
		{name: "minimal-stable-debian", comment: "Debian stable minimal", config: ConfigImages,
			vars: minimalVars(rel.Debian), items: all},
		{name: "minimal-stable-ubuntu", comment: "Ubuntu stable minimal", config: ConfigImages,
			vars: minimalVars(rel.Ubuntu), items: all},
		{name: "desktop-stable-ubuntu-xfce", comment: "Ubuntu stable XFCE desktop (slow HDMI only)", config: ConfigImages,
			vars:  desktopVars(rel.Ubuntu, "xfce", "programming"),
			items: []string{l("current", classify.Slow), l("vendor", classify.Slow)},
			gate:  []string{l("current", classify.Slow)}},
		{name: "desktop-stable-ubuntu-gnome", comment: "Ubuntu stable GNOME desktop (fast HDMI only)", config: ConfigImages,
			vars:  desktopVars(rel.Ubuntu, "gnome", "programming"),
			items: []string{l("current", classify.Fast), l("vendor", classify.Fast), l("legacy", classify.Fast)},
			gate:  []string{l("current", classify.Fast), l("legacy", classify.Fast)}},
		{name: "desktop-stable-ubuntu-kde-neon", comment: "Ubuntu stable KDE Neon desktop (fast HDMI only)", config: ConfigImages,
			vars:  desktopVars(rel.Ubuntu, "kde-neon", "programming"),
			items: []string{l("current", classify.Fast), l("vendor", classify.Fast)},
			gate:  []string{l("current", classify.Fast)}},
		{name: "desktop-stable-ubuntu-legacy-xfce", comment: "Ubuntu stable XFCE desktop for legacy fast HDMI boards", config: ConfigImages,
			vars:  desktopVars(rel.Ubuntu, "xfce", "programming"),
			items: []string{l("legacy", classify.Fast)}},
		{name: "desktop-stable-ubuntu-riscv64-xfce", comment: "Ubuntu stable XFCE desktop for RISC-V boards", config: ConfigImages,
			vars:  desktopVars(rel.Ubuntu, "xfce", ""),
			items: []string{l("current", classify.RiscV64), l("vendor", classify.RiscV64)}},
		{name: "minimal-stable-ubuntu-riscv", comment: "Ubuntu stable minimal - RISC-V", config: ConfigImages,
			vars:  minimalVars(rel.Ubuntu),
			items: []string{l("current", classify.RiscV64), l("vendor", classify.RiscV64)}},
		{name: "minimal-stable-ubuntu-loongarch", comment: "Ubuntu stable minimal - LoongArch", config: ConfigImages,
			vars:  minimalVars(rel.Ubuntu),
			items: []string{l("current", classify.LoongArch), l("vendor", classify.LoongArch)}},
	})
	return doc
}

// BuildNightly emits one branch per primary board, split by category only.
// LoongArch boards get no Ubuntu image.
func BuildNightly(primary []classify.Board, rel Releases, manual string) Document {
	const p = "nightly"
	boards := partition.SelectOneBranchPerBoard(primary)
	lists := buckets(p, boards, []string{""}, communityOrder, nil)
	l := func(cat classify.Category) string { return ListName(p, "", cat) }

	doc := Document{Lists: lists, Manual: manual}
	doc.Targets = resolve(lists, []targetDef{
		{name: "nightly-" + rel.Nightly + "-all", comment: "Debian " + rel.Nightly + " minimal CLI for all boards", config: ConfigImages,
			vars: minimalVars(rel.Nightly), items: names(lists)},
		{name: "nightly-" + rel.Ubuntu + "-gnome", comment: "Ubuntu " + rel.Ubuntu + " GNOME desktop for fast HDMI boards", config: ConfigImages,
			vars: desktopVars(rel.Ubuntu, "gnome", ""), items: []string{l(classify.Fast)}},
		{name: "nightly-" + rel.Ubuntu + "-xfce", comment: "Ubuntu " + rel.Ubuntu + " XFCE desktop for slow HDMI boards", config: ConfigImages,
			vars: desktopVars(rel.Ubuntu, "xfce", ""), items: []string{l(classify.Slow)}},
		{name: "nightly-" + rel.Ubuntu + "-riscv64-xfce", comment: "Ubuntu " + rel.Ubuntu + " XFCE desktop for RISC-V boards", config: ConfigImages,
			vars: desktopVars(rel.Ubuntu, "xfce", ""), items: []string{l(classify.RiscV64)}},
		{name: "nightly-" + rel.Ubuntu + "-minimal", comment: "Ubuntu " + rel.Ubuntu + " minimal CLI for headless boards", config: ConfigImages,
			vars: minimalVars(rel.Ubuntu), items: []string{l(classify.Headless)}},
	})
	return doc
}

// CommunityBranches are the branches split into community lists. Edge only
// carries boards without a current entry.
var CommunityBranches = []string{"current", "vendor", "legacy", "edge"}

// BuildCommunity splits community boards by branch and category.
func BuildCommunity(community []classify.Board, rel Releases, manual string) Document {
	const p = "community"
	hasCurrent := make(map[string]bool)
	for _, b := range community {
		if b.Branch == "current" {
			hasCurrent[b.Board] = true
		}
	}
	edgeFallback := func(b classify.Board) bool {
		return b.Branch != "edge" || !hasCurrent[b.Board]
	}

	lists := buckets(p, community, CommunityBranches, communityOrder, edgeFallback)
	perCategory := func(cat classify.Category) []string {
		var out []string
		for _, branch := range CommunityBranches {
			out = append(out, ListName(p, branch, cat))
		}
		return out
	}

	doc := Document{Lists: lists, Manual: manual}
	doc.Targets = resolve(lists, []targetDef{
		{name: "community-" + rel.Debian + "-all", comment: "Debian " + rel.Debian + " minimal CLI for all community boards", config: ConfigCommunity,
			vars: minimalVars(rel.Debian), items: names(lists)},
		{name: "community-" + rel.Ubuntu + "-gnome", comment: "Ubuntu " + rel.Ubuntu + " GNOME desktop for fast HDMI community boards", config: ConfigCommunity,
			vars: desktopVars(rel.Ubuntu, "gnome", ""), items: perCategory(classify.Fast)},
		{name: "community-" + rel.Ubuntu + "-kde-neon", comment: "Ubuntu " + rel.Ubuntu + " KDE Neon desktop for fast HDMI community boards", config: ConfigCommunity,
			vars: desktopVars(rel.Ubuntu, "kde-neon", ""), items: perCategory(classify.Fast)},
		{name: "community-" + rel.Ubuntu + "-xfce", comment: "Ubuntu " + rel.Ubuntu + " XFCE desktop for slow HDMI community boards", config: ConfigCommunity,
			vars: desktopVars(rel.Ubuntu, "xfce", ""), items: perCategory(classify.Slow)},
		{name: "community-" + rel.Ubuntu + "-riscv64-xfce", comment: "Ubuntu " + rel.Ubuntu + " XFCE desktop for RISC-V community boards", config: ConfigCommunity,
			vars: desktopVars(rel.Ubuntu, "xfce", ""), items: perCategory(classify.RiscV64)},
		{name: "community-" + rel.Ubuntu + "-minimal", comment: "Ubuntu " + rel.Ubuntu + " minimal CLI for headless community boards", config: ConfigCommunity,
			vars: minimalVars(rel.Ubuntu), items: perCategory(classify.Headless)},
	})
	return doc
}

// Build dispatches to the builder of kind. Apps, standard-support and
// nightly consume the primary group, community the community group.
func Build(kind Kind, groups partition.Groups, rel Releases, manual string) (Document, error) {
	switch kind {
	case Apps:
		return BuildApps(groups.Primary, rel, manual), nil
	case Standard:
		return BuildStandard(groups.Primary, rel, manual), nil
	case Nightly:
		return BuildNightly(groups.Primary, rel, manual), nil
	case Community:
		return BuildCommunity(groups.Community, rel, manual), nil
	}
	return Document{}, fmt.Errorf("unknown manifest kind %q", kind)
}
