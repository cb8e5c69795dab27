// Package inventory loads the board build inventory (image-info.json) into
// flat build records.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/armbian/targetgen/internal/utils"
)

// ErrNotArray is returned when the inventory document is not a JSON array.
var ErrNotArray = errors.New("inventory is not a JSON array")

// Record is one board x kernel-branch combination as it appears in the
// inventory feed.
type Record struct {
	Board        string
	Branch       string
	SupportTier  string
	Architecture string
	BoardFamily  string
	// SocIdentifier is the BOOT_SOC value.
	SocIdentifier  string
	HasVideoOutput bool
	// HasDesktopVariant is true when this record declares a desktop build.
	HasDesktopVariant bool
	// TestBranches is the ordered KERNEL_TEST_TARGET allow-list, if any.
	TestBranches []string
}

// Parse decodes an inventory document.
func Parse(data []byte) ([]Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("inventory is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, ErrNotArray
	}

	var records []Record
	doc.ForEach(func(_, entry gjson.Result) bool {
		records = append(records, parseEntry(entry))
		return true
	})
	return records, nil
}

func parseEntry(entry gjson.Result) Record {
	inv := entry.Get("in.inventory")
	vars := entry.Get("in.vars")
	out := entry.Get("out")
	top := inv.Get("BOARD_TOP_LEVEL_VARS")

	family := inv.Get("BOARDFAMILY").String()
	if family == "" {
		family = top.Get("BOARDFAMILY").String()
	}
	soc := firstNonEmpty(
		inv.Get("BOOT_SOC").String(),
		top.Get("BOOT_SOC").String(),
		out.Get("BOOT_SOC").String(),
	)

	return Record{
		Board:             inv.Get("BOARD").String(),
		Branch:            vars.Get("BRANCH").String(),
		SupportTier:       inv.Get("BOARD_SUPPORT_LEVEL").String(),
		Architecture:      out.Get("ARCH").String(),
		BoardFamily:       family,
		SocIdentifier:     soc,
		HasVideoOutput:    inv.Get("BOARD_HAS_VIDEO").Bool(),
		HasDesktopVariant: strings.EqualFold(vars.Get("BUILD_DESKTOP").String(), "yes"),
		TestBranches:      utils.SplitList(top.Get("KERNEL_TEST_TARGET").String()),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// IsRemote reports whether src should be downloaded rather than read from disk.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Load reads the inventory from a local path or an http(s) URL.
func Load(ctx context.Context, src string, opts FetchOptions) ([]Record, error) {
	var (
		data []byte
		err  error
	)
	if IsRemote(src) {
		data, err = Fetch(ctx, src, opts)
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read inventory %s: %w", src, err)
	}

	records, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("could not parse inventory %s: %w", src, err)
	}
	utils.Log.Infof("Loaded %d entries from %s", len(records), src)
	return records, nil
}
