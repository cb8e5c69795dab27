package classify

import (
	"strings"

	"github.com/armbian/targetgen/pkg/inventory"
)

// RulesVersion identifies the revision of the hardware tables below. Bump it
// whenever a family or SoC is added to or removed from a slow list.
const RulesVersion = "2025.11"

// LoongArchReferenceBoard is the UEFI LoongArch board that always lands in
// the loongarch category.
const LoongArchReferenceBoard = "uefi-loong64"

var (
	SlowArchitectures = []string{"arm", "armhf"}

	// Allwinner H3/H5/H6/H616 and relatives.
	SlowAllwinnerFamilyPrefixes = []string{"sun50iw", "sun55iw"}

	// Amlogic S905X/S912/S905X2/S922X/A311D.
	SlowAmlogicFamilies = []string{"meson-gxbb", "meson-gxl", "meson-g12a", "meson-g12b", "meson-sm1"}

	// Nuvoton MA35D1.
	SlowNuvotonFamily = "nuvoton-ma35d1"

	// Rockchip RK3328, RK3399 and RK3399PRO.
	SlowRockchipSoCs = []string{"rk3328", "rk3399", "rk3399pro"}

	// AutoExtensions are added to every fast board with video output.
	AutoExtensions = []string{"v4l2loopback-dkms", "mesa-vpu"}
)

// Rule is one row of the category decision table.
type Rule struct {
	Name     string
	Match    func(rec inventory.Record) bool
	Category Category
}

// Rules is evaluated in order; the first match wins and Fast is the default.
// The LoongArch reference board is matched ahead of the headless rule on
// purpose, so it stays loongarch even without video output.
var Rules = []Rule{
	{
		Name:     "loongarch-reference-board",
		Match:    func(rec inventory.Record) bool { return rec.Board == LoongArchReferenceBoard },
		Category: LoongArch,
	},
	{
		Name:     "no-video-output",
		Match:    func(rec inventory.Record) bool { return !rec.HasVideoOutput },
		Category: Headless,
	},
	{
		Name:     "32-bit-arm",
		Match:    func(rec inventory.Record) bool { return contains(SlowArchitectures, rec.Architecture) },
		Category: Slow,
	},
	{
		Name:     "allwinner-family",
		Match:    func(rec inventory.Record) bool { return hasAnyPrefix(rec.BoardFamily, SlowAllwinnerFamilyPrefixes) },
		Category: Slow,
	},
	{
		Name:     "amlogic-family",
		Match:    func(rec inventory.Record) bool { return contains(SlowAmlogicFamilies, rec.BoardFamily) },
		Category: Slow,
	},
	{
		Name:     "nuvoton-family",
		Match:    func(rec inventory.Record) bool { return rec.BoardFamily == SlowNuvotonFamily },
		Category: Slow,
	},
	{
		Name:     "rockchip-soc",
		Match:    func(rec inventory.Record) bool { return contains(SlowRockchipSoCs, rec.SocIdentifier) },
		Category: Slow,
	},
	{
		Name:     "riscv64",
		Match:    func(rec inventory.Record) bool { return rec.Architecture == "riscv64" },
		Category: RiscV64,
	},
	{
		Name:     "loongarch64",
		Match:    func(rec inventory.Record) bool { return rec.Architecture == "loongarch64" },
		Category: LoongArch,
	},
}

func contains(list []string, v string) bool {
	if v == "" {
		return false
	}
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	if s == "" {
		return false
	}
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
