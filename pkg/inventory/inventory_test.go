package inventory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleInventory = `[
  {
    "in": {
      "inventory": {
        "BOARD": "orangepi5",
        "BOARD_SUPPORT_LEVEL": "conf",
        "BOARD_HAS_VIDEO": true,
        "BOARDFAMILY": "rockchip-rk3588",
        "BOARD_TOP_LEVEL_VARS": {"KERNEL_TEST_TARGET": "vendor, current"}
      },
      "vars": {"BRANCH": "vendor", "BUILD_DESKTOP": "yes"}
    },
    "out": {"ARCH": "arm64", "BOOT_SOC": "rk3588"}
  },
  {
    "in": {
      "inventory": {
        "BOARD": "rockpro64",
        "BOARD_SUPPORT_LEVEL": "csc",
        "BOARD_HAS_VIDEO": "true",
        "BOARD_TOP_LEVEL_VARS": {"BOARDFAMILY": "rockchip64", "BOOT_SOC": "rk3399"}
      },
      "vars": {"BRANCH": "current"}
    },
    "out": {"ARCH": "arm64", "BOOT_SOC": "ignored"}
  },
  {
    "in": {"inventory": {"BOARD": "headless-thing"}, "vars": {}},
    "out": {}
  }
]`

func TestParse(t *testing.T) {
	got, err := Parse([]byte(sampleInventory))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []Record{
		{
			Board:             "orangepi5",
			Branch:            "vendor",
			SupportTier:       "conf",
			Architecture:      "arm64",
			BoardFamily:       "rockchip-rk3588",
			SocIdentifier:     "rk3588",
			HasVideoOutput:    true,
			HasDesktopVariant: true,
			TestBranches:      []string{"vendor", "current"},
		},
		{
			Board:          "rockpro64",
			Branch:         "current",
			SupportTier:    "csc",
			Architecture:   "arm64",
			BoardFamily:    "rockchip64",
			SocIdentifier:  "rk3399",
			HasVideoOutput: true,
		},
		{
			Board: "headless-thing",
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected records.\nwant: %#v\ngot:  %#v", want, got)
	}
}

func TestParseRejectsNonArray(t *testing.T) {
	if _, err := Parse([]byte(`{"BOARD": "x"}`)); !errors.Is(err, ErrNotArray) {
		t.Fatalf("expected ErrNotArray, got %v", err)
	}
	if _, err := Parse([]byte(`[{"in":`)); err == nil {
		t.Fatalf("expected error for truncated JSON")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "image-info.json"), FetchOptions{})
	if err == nil {
		t.Fatalf("expected error for missing inventory")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestLoadLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image-info.json")
	if err := os.WriteFile(path, []byte(sampleInventory), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(context.Background(), path, FetchOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
}

func TestLoadRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleInventory))
	}))
	defer srv.Close()

	if !IsRemote(srv.URL) {
		t.Fatalf("IsRemote(%q) = false", srv.URL)
	}
	got, err := Load(context.Background(), srv.URL+"/image-info.json", FetchOptions{Retries: 0})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 3 || got[0].Board != "orangepi5" {
		t.Fatalf("unexpected records: %#v", got)
	}
}

func TestLoadRemoteBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := Load(context.Background(), srv.URL, FetchOptions{Retries: 0}); err == nil {
		t.Fatalf("expected error for 404 response")
	}
}
