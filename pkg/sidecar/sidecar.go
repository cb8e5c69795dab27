// Package sidecar loads the optional files that sit next to a generated
// manifest: a board blacklist and a hand-maintained target appendix.
package sidecar

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/armbian/targetgen/internal/utils"
)

const (
	BlacklistSuffix = ".blacklist"
	ManualSuffix    = ".manual"
)

// Files holds the sidecar content for one manifest.
type Files struct {
	Blacklist map[string]struct{}
	Manual    string
}

// PathFor swaps the extension of a manifest path for suffix.
func PathFor(manifestPath, suffix string) string {
	return strings.TrimSuffix(manifestPath, filepath.Ext(manifestPath)) + suffix
}

// Resolve returns the first existing file called name in dirs. When none
// exists the candidate in the first directory is returned, so callers can
// still report where the file was expected.
func Resolve(name string, dirs []string) string {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	for _, dir := range dirs {
		if dir != "" {
			return filepath.Join(dir, name)
		}
	}
	return name
}

// LoadBlacklist reads one board name per line; '#' starts a comment line.
// A missing or unreadable file yields an empty set.
func LoadBlacklist(path string) map[string]struct{} {
	blacklist := make(map[string]struct{})

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			utils.Log.Infof("No %s found", path)
		} else {
			utils.Log.Warnf("Failed to load %s: %v", path, err)
		}
		return blacklist
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		blacklist[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		utils.Log.Warnf("Failed to load %s: %v", path, err)
		return make(map[string]struct{})
	}

	utils.Log.Infof("Loaded blacklist from %s: %d boards", filepath.Base(path), len(blacklist))
	return blacklist
}

// LoadManual returns the verbatim content of a manual appendix, or "".
func LoadManual(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			utils.Log.Infof("No %s found", path)
		} else {
			utils.Log.Warnf("Failed to load %s: %v", path, err)
		}
		return ""
	}
	utils.Log.Infof("Loaded manual overrides from %s", filepath.Base(path))
	return string(data)
}

// Load reads both sidecars belonging to manifestPath.
func Load(manifestPath string) Files {
	return Files{
		Blacklist: LoadBlacklist(PathFor(manifestPath, BlacklistSuffix)),
		Manual:    LoadManual(PathFor(manifestPath, ManualSuffix)),
	}
}
