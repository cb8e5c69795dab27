package classify

import (
	"reflect"
	"testing"

	"github.com/armbian/targetgen/pkg/extmap"
	"github.com/armbian/targetgen/pkg/inventory"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		rec  inventory.Record
		want Category
	}{
		{
			name: "fast hdmi arm64",
			rec:  inventory.Record{Board: "orangepi5", Architecture: "arm64", HasVideoOutput: true, SocIdentifier: "rk3588"},
			want: Fast,
		},
		{
			name: "x86 is fast",
			rec:  inventory.Record{Board: "uefi-x86", Architecture: "amd64", HasVideoOutput: true},
			want: Fast,
		},
		{
			name: "rk3399 overrides arm64",
			rec:  inventory.Record{Board: "rockpro64", Architecture: "arm64", HasVideoOutput: true, SocIdentifier: "rk3399"},
			want: Slow,
		},
		{
			name: "armhf",
			rec:  inventory.Record{Board: "tinkerboard", Architecture: "armhf", HasVideoOutput: true},
			want: Slow,
		},
		{
			name: "allwinner prefix",
			rec:  inventory.Record{Board: "orangepizero3", Architecture: "arm64", HasVideoOutput: true, BoardFamily: "sun50iw9"},
			want: Slow,
		},
		{
			name: "amlogic family",
			rec:  inventory.Record{Board: "odroidc4", Architecture: "arm64", HasVideoOutput: true, BoardFamily: "meson-sm1"},
			want: Slow,
		},
		{
			name: "nuvoton family",
			rec:  inventory.Record{Board: "nuvoton-ma35d1-som", Architecture: "arm64", HasVideoOutput: true, BoardFamily: "nuvoton-ma35d1"},
			want: Slow,
		},
		{
			name: "riscv64",
			rec:  inventory.Record{Board: "visionfive2", Architecture: "riscv64", HasVideoOutput: true},
			want: RiscV64,
		},
		{
			name: "loongarch64 architecture",
			rec:  inventory.Record{Board: "some-loong", Architecture: "loongarch64", HasVideoOutput: true},
			want: LoongArch,
		},
		{
			name: "slow family wins over riscv64 architecture order",
			rec:  inventory.Record{Board: "odd", Architecture: "riscv64", HasVideoOutput: true, BoardFamily: "sun55iw3"},
			want: Slow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.rec); got != tt.want {
				t.Fatalf("Categorize() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHeadlessPrecedence(t *testing.T) {
	recs := []inventory.Record{
		{Board: "a", Architecture: "arm64"},
		{Board: "b", Architecture: "armhf"},
		{Board: "c", Architecture: "riscv64"},
		{Board: "d", Architecture: "loongarch64"},
		{Board: "e", Architecture: "arm64", SocIdentifier: "rk3399"},
		{Board: "f", Architecture: "arm64", BoardFamily: "meson-gxl"},
	}
	for _, rec := range recs {
		if got := Categorize(rec); got != Headless {
			t.Fatalf("board %s without video: got %s, want headless", rec.Board, got)
		}
	}
}

func TestLoongArchReferenceBoard(t *testing.T) {
	recs := []inventory.Record{
		{Board: LoongArchReferenceBoard, Architecture: "loongarch64", HasVideoOutput: true},
		{Board: LoongArchReferenceBoard, Architecture: "arm64", HasVideoOutput: false},
		{Board: LoongArchReferenceBoard, Architecture: "armhf", HasVideoOutput: true},
	}
	for _, rec := range recs {
		if got := Categorize(rec); got != LoongArch {
			t.Fatalf("%#v: got %s, want loongarch", rec, got)
		}
	}
}

func TestFastBoardGetsAutoExtensions(t *testing.T) {
	rec := inventory.Record{Board: "orangepi5", Branch: "vendor", Architecture: "arm64", HasVideoOutput: true}
	cat, ext := Classify(rec, nil, nil)
	if cat != Fast {
		t.Fatalf("category %s, want fast", cat)
	}
	if !reflect.DeepEqual(ext, Extensions{"v4l2loopback-dkms", "mesa-vpu"}) {
		t.Fatalf("extensions %#v", ext)
	}
	if ext.String() != "v4l2loopback-dkms,mesa-vpu" {
		t.Fatalf("String() = %q", ext.String())
	}
}

func TestSlowBoardHasNoAutoExtensions(t *testing.T) {
	rec := inventory.Record{Board: "rockpro64", Branch: "current", Architecture: "arm64", HasVideoOutput: true, SocIdentifier: "rk3399"}
	if _, ext := Classify(rec, nil, nil); len(ext) != 0 {
		t.Fatalf("expected no extensions for slow board, got %#v", ext)
	}
}

func TestManualExtensionPrecedence(t *testing.T) {
	add := extmap.Map{
		{Board: "orangepi5", Branch: "vendor"}: {"mesa-vpu", "exact-only"},
		{Board: "orangepi5"}:                   {"wildcard-only"},
	}

	vendor := inventory.Record{Board: "orangepi5", Branch: "vendor", Architecture: "arm64", HasVideoOutput: true}
	_, ext := Classify(vendor, add, nil)
	want := Extensions{"v4l2loopback-dkms", "mesa-vpu", "exact-only"}
	if !reflect.DeepEqual(ext, want) {
		t.Fatalf("vendor: got %#v, want %#v", ext, want)
	}

	edge := inventory.Record{Board: "orangepi5", Branch: "edge", Architecture: "arm64", HasVideoOutput: true}
	_, ext = Classify(edge, add, nil)
	want = Extensions{"v4l2loopback-dkms", "mesa-vpu", "wildcard-only"}
	if !reflect.DeepEqual(ext, want) {
		t.Fatalf("edge: got %#v, want %#v", ext, want)
	}
}

func TestRemovalKeepsOrder(t *testing.T) {
	add := extmap.Map{{Board: "rock-5b"}: {"a", "b", "c"}}
	remove := extmap.Map{
		{Board: "rock-5b", Branch: "vendor"}: {"mesa-vpu", "b", "not-present"},
		{Board: "rock-5b"}:                   {"a"},
	}

	rec := inventory.Record{Board: "rock-5b", Branch: "vendor", Architecture: "arm64", HasVideoOutput: true}
	_, ext := Classify(rec, add, remove)
	want := Extensions{"v4l2loopback-dkms", "a", "c"}
	if !reflect.DeepEqual(ext, want) {
		t.Fatalf("vendor: got %#v, want %#v", ext, want)
	}

	rec.Branch = "current"
	_, ext = Classify(rec, add, remove)
	want = Extensions{"v4l2loopback-dkms", "mesa-vpu", "b", "c"}
	if !reflect.DeepEqual(ext, want) {
		t.Fatalf("current: got %#v, want %#v", ext, want)
	}
}

func TestRulesTableIsOrdered(t *testing.T) {
	if Rules[0].Category != LoongArch || Rules[1].Category != Headless {
		t.Fatalf("reference board and headless rules must lead the table")
	}
	seen := map[string]bool{}
	for _, r := range Rules {
		if r.Name == "" || r.Match == nil {
			t.Fatalf("incomplete rule %#v", r)
		}
		if seen[r.Name] {
			t.Fatalf("duplicate rule name %s", r.Name)
		}
		seen[r.Name] = true
	}
}
