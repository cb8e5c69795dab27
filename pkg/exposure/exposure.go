// Package exposure renders the exposed.map file: regular expressions naming
// the recommended download artifact of every supported board.
package exposure

import (
	"fmt"
	"sort"
	"strings"

	"github.com/armbian/targetgen/internal/utils"
	"github.com/armbian/targetgen/pkg/classify"
	"github.com/armbian/targetgen/pkg/partition"
)

// FileName is the output file of the pattern list.
const FileName = "exposed.map"

// OowowExtension switches the artifact suffix to the oowow image format.
const OowowExtension = "image-output-oowow"

// Artifact flavors.
const (
	Minimal = "minimal"
	Gnome   = "gnome_desktop"
	Xfce    = "xfce_desktop"
)

// Options carries the release codenames baked into the patterns.
type Options struct {
	// MinimalRelease is the release of the minimal image every board gets.
	MinimalRelease string
	// DesktopRelease is the release of the second recommended image.
	DesktopRelease string
}

var DefaultOptions = Options{MinimalRelease: "trixie", DesktopRelease: "noble"}

type candidate struct {
	board     classify.Board
	community bool
}

// Capitalize uppercases the first letter of board only.
func Capitalize(board string) string {
	if board == "" {
		return board
	}
	return strings.ToUpper(board[:1]) + board[1:]
}

func suffix(b classify.Board) string {
	if b.Extensions.Contains(OowowExtension) {
		return ".oowow.img.xz"
	}
	return ".img.xz"
}

// pair returns the pattern with and without the download directory prefix.
func pair(c candidate, release, flavor string) []string {
	infix := ""
	if c.community {
		infix = "(community_)?"
	}
	name := fmt.Sprintf("Armbian_%s[0-9].*%s_%s_%s_[0-9]*.[0-9]*.[0-9]*_%s%s",
		infix, Capitalize(c.board.Board), release, c.board.Branch, flavor, suffix(c.board))
	return []string{c.board.Board + "/archive/" + name, name}
}

func selectBoards(primary, community []classify.Board) []candidate {
	all := make([]classify.Board, 0, len(primary)+len(community))
	all = append(all, primary...)
	all = append(all, community...)

	fromPrimary := make(map[string]bool, len(primary))
	for _, b := range primary {
		fromPrimary[b.Board+"/"+b.Branch] = true
	}

	var out []candidate
	for _, b := range partition.SelectOneBranchPerBoard(all) {
		out = append(out, candidate{board: b, community: !fromPrimary[b.Board+"/"+b.Branch]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].board.Board < out[j].board.Board })
	return out
}

// Patterns returns the exposure patterns of the primary and community boards,
// one branch per board, sorted by board id. The community infix follows the
// group of the selected row.
func Patterns(primary, community []classify.Board, opts Options) []string {
	var lines []string
	for _, c := range selectBoards(primary, community) {
		lines = append(lines, pair(c, opts.MinimalRelease, Minimal)...)

		b := c.board
		switch {
		case b.Category == classify.LoongArch:
		case b.Category == classify.RiscV64:
			lines = append(lines, pair(c, opts.DesktopRelease, Xfce)...)
		case b.HasVideoOutput && b.Category == classify.Fast:
			lines = append(lines, pair(c, opts.DesktopRelease, Gnome)...)
		case b.HasVideoOutput && b.Category == classify.Slow:
			lines = append(lines, pair(c, opts.DesktopRelease, Xfce)...)
		default:
			lines = append(lines, pair(c, opts.DesktopRelease, Minimal)...)
		}
	}
	return lines
}

// SingleImageBoards returns the sorted boards that only get a minimal image.
func SingleImageBoards(primary, community []classify.Board) []string {
	var boards []string
	for _, c := range selectBoards(primary, community) {
		if c.board.Category == classify.LoongArch {
			boards = append(boards, c.board.Board)
		}
	}
	return boards
}

// Render joins lines into the file body, newline terminated.
func Render(lines []string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}

// WarnSingleImageBoards logs the boards with a single recommended artifact.
func WarnSingleImageBoards(primary, community []classify.Board) {
	boards := SingleImageBoards(primary, community)
	if len(boards) == 0 {
		return
	}
	utils.Log.Warnf("%d boards with only a minimal image (loongarch):", len(boards))
	for _, b := range boards {
		utils.Log.Warnf("  - %s", b)
	}
}
