package exposure

import (
	"reflect"
	"strings"
	"testing"

	"github.com/armbian/targetgen/pkg/classify"
)

func board(name, branch string, cat classify.Category, video bool, ext ...string) classify.Board {
	return classify.Board{Board: name, Branch: branch, Category: cat, HasVideoOutput: video, Extensions: ext}
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"bananapim4zero": "Bananapim4zero",
		"rock-5b":        "Rock-5b",
		"uefi-x86":       "Uefi-x86",
		"":               "",
		"Odroidc4":       "Odroidc4",
	}
	for in, want := range tests {
		if got := Capitalize(in); got != want {
			t.Fatalf("Capitalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPatternsPerCategory(t *testing.T) {
	primary := []classify.Board{
		board("rock-5b", "vendor", classify.Fast, true),
		board("rock-5b", "current", classify.Fast, true),
		board("rockpro64", "current", classify.Slow, true),
		board("visionfive2", "current", classify.RiscV64, true),
		board("uefi-loong64", "current", classify.LoongArch, true),
		board("helios4", "current", classify.Headless, false),
	}
	got := Patterns(primary, nil, DefaultOptions)
	want := []string{
		"helios4/archive/Armbian_[0-9].*Helios4_trixie_current_[0-9]*.[0-9]*.[0-9]*_minimal.img.xz",
		"Armbian_[0-9].*Helios4_trixie_current_[0-9]*.[0-9]*.[0-9]*_minimal.img.xz",
		"helios4/archive/Armbian_[0-9].*Helios4_noble_current_[0-9]*.[0-9]*.[0-9]*_minimal.img.xz",
		"Armbian_[0-9].*Helios4_noble_current_[0-9]*.[0-9]*.[0-9]*_minimal.img.xz",
		"rock-5b/archive/Armbian_[0-9].*Rock-5b_trixie_current_[0-9]*.[0-9]*.[0-9]*_minimal.img.xz",
		"Armbian_[0-9].*Rock-5b_trixie_current_[0-9]*.[0-9]*.[0-9]*_minimal.img.xz",
		"rock-5b/archive/Armbian_[0-9].*Rock-5b_noble_current_[0-9]*.[0-9]*.[0-9]*_gnome_desktop.img.xz",
		"Armbian_[0-9].*Rock-5b_noble_current_[0-9]*.[0-9]*.[0-9]*_gnome_desktop.img.xz",
		"rockpro64/archive/Armbian_[0-9].*Rockpro64_trixie_current_[0-9]*.[0-9]*.[0-9]*_minimal.img.xz",
		"Armbian_[0-9].*Rockpro64_trixie_current_[0-9]*.[0-9]*.[0-9]*_minimal.img.xz",
		"rockpro64/archive/Armbian_[0-9].*Rockpro64_noble_current_[0-9]*.[0-9]*.[0-9]*_xfce_desktop.img.xz",
		"Armbian_[0-9].*Rockpro64_noble_current_[0-9]*.[0-9]*.[0-9]*_xfce_desktop.img.xz",
		"uefi-loong64/archive/Armbian_[0-9].*Uefi-loong64_trixie_current_[0-9]*.[0-9]*.[0-9]*_minimal.img.xz",
		"Armbian_[0-9].*Uefi-loong64_trixie_current_[0-9]*.[0-9]*.[0-9]*_minimal.img.xz",
		"visionfive2/archive/Armbian_[0-9].*Visionfive2_trixie_current_[0-9]*.[0-9]*.[0-9]*_minimal.img.xz",
		"Armbian_[0-9].*Visionfive2_trixie_current_[0-9]*.[0-9]*.[0-9]*_minimal.img.xz",
		"visionfive2/archive/Armbian_[0-9].*Visionfive2_noble_current_[0-9]*.[0-9]*.[0-9]*_xfce_desktop.img.xz",
		"Armbian_[0-9].*Visionfive2_noble_current_[0-9]*.[0-9]*.[0-9]*_xfce_desktop.img.xz",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("\nwant: %#v\ngot:  %#v", want, got)
	}
}

func TestPatternsCommunityInfix(t *testing.T) {
	community := []classify.Board{
		board("tinkerboard2", "edge", classify.Fast, true, "image-output-oowow"),
		board("shared", "current", classify.Fast, true),
	}
	primary := []classify.Board{board("shared", "vendor", classify.Fast, true)}

	got := Patterns(primary, community, Options{MinimalRelease: "forky", DesktopRelease: "plucky"})
	want := []string{
		"shared/archive/Armbian_(community_)?[0-9].*Shared_forky_current_[0-9]*.[0-9]*.[0-9]*_minimal.img.xz",
		"Armbian_(community_)?[0-9].*Shared_forky_current_[0-9]*.[0-9]*.[0-9]*_minimal.img.xz",
		"shared/archive/Armbian_(community_)?[0-9].*Shared_plucky_current_[0-9]*.[0-9]*.[0-9]*_gnome_desktop.img.xz",
		"Armbian_(community_)?[0-9].*Shared_plucky_current_[0-9]*.[0-9]*.[0-9]*_gnome_desktop.img.xz",
		"tinkerboard2/archive/Armbian_(community_)?[0-9].*Tinkerboard2_forky_edge_[0-9]*.[0-9]*.[0-9]*_minimal.oowow.img.xz",
		"Armbian_(community_)?[0-9].*Tinkerboard2_forky_edge_[0-9]*.[0-9]*.[0-9]*_minimal.oowow.img.xz",
		"tinkerboard2/archive/Armbian_(community_)?[0-9].*Tinkerboard2_plucky_edge_[0-9]*.[0-9]*.[0-9]*_gnome_desktop.oowow.img.xz",
		"Armbian_(community_)?[0-9].*Tinkerboard2_plucky_edge_[0-9]*.[0-9]*.[0-9]*_gnome_desktop.oowow.img.xz",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("\nwant: %#v\ngot:  %#v", want, got)
	}
}

func TestPatternsPrimaryRowWins(t *testing.T) {
	primary := []classify.Board{board("shared", "current", classify.Fast, true)}
	community := []classify.Board{board("shared", "edge", classify.Fast, true)}

	got := Patterns(primary, community, DefaultOptions)
	for _, line := range got {
		if strings.Contains(line, "community_") {
			t.Fatalf("primary row tagged as community: %s", line)
		}
	}
	if len(got) != 4 || !strings.Contains(got[0], "Shared_trixie_current_") {
		t.Fatalf("unexpected patterns %#v", got)
	}
}

func TestSingleImageBoards(t *testing.T) {
	primary := []classify.Board{
		board("uefi-loong64", "current", classify.LoongArch, true),
		board("rock-5b", "current", classify.Fast, true),
	}
	community := []classify.Board{board("a-loong", "edge", classify.LoongArch, false)}
	got := SingleImageBoards(primary, community)
	if want := []string{"a-loong", "uefi-loong64"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("\nwant: %#v\ngot:  %#v", want, got)
	}
}

func TestRender(t *testing.T) {
	if got := string(Render([]string{"a", "b"})); got != "a\nb\n" {
		t.Fatalf("got %q", got)
	}
	if got := string(Render(nil)); got != "\n" {
		t.Fatalf("got %q", got)
	}
}
