// Package extmap parses the manual extension maps that add or remove
// extensions per board and kernel branch.
//
// Each non-comment line has the form
//
//	BOARD:branch1:branch2:...:KEY="ext1,ext2"
//
// where KEY is ENABLE_EXTENSIONS or REMOVE_EXTENSIONS. An empty branch list
// applies the rule to every branch of the board.
package extmap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/armbian/targetgen/internal/utils"
)

const (
	EnableKey = "ENABLE_EXTENSIONS"
	RemoveKey = "REMOVE_EXTENSIONS"
)

// Key identifies a board/branch pair. An empty Branch is the wildcard entry
// for the board.
type Key struct {
	Board  string
	Branch string
}

// Map holds the extension names per key, in file order.
type Map map[Key][]string

// Lookup returns the entry for the exact board/branch pair, falling back to
// the board's wildcard entry. Only one of the two is ever returned.
func Lookup[V any](m map[Key]V, board, branch string) (V, bool) {
	if v, ok := m[Key{Board: board, Branch: branch}]; ok {
		return v, true
	}
	if v, ok := m[Key{Board: board}]; ok {
		return v, true
	}
	var zero V
	return zero, false
}

// maxLineSize bounds a single map line.
const maxLineSize = 1 << 20

// Parse reads rules for the given KEY. Malformed lines are skipped with a
// warning.
func Parse(r io.Reader, key string) (Map, error) {
	m := Map{}
	marker := key + "="

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		keys, names, err := parseLine(line, marker)
		if err != nil {
			utils.Log.Warnf("Skipping malformed line %q: %v", raw, err)
			continue
		}
		for _, k := range keys {
			m[k] = names
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseLine(line, marker string) ([]Key, []string, error) {
	parts := strings.Split(line, marker)
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("expected exactly one %s", marker)
	}

	fields := strings.Split(strings.TrimRight(parts[0], ":"), ":")
	board := strings.TrimSpace(fields[0])
	if board == "" {
		return nil, nil, errors.New("missing board name")
	}

	names := utils.SplitList(strings.Trim(strings.TrimSpace(parts[1]), `"`))

	var keys []Key
	for _, branch := range fields[1:] {
		branch = strings.TrimSpace(branch)
		if branch != "" {
			keys = append(keys, Key{Board: board, Branch: branch})
		}
	}
	if len(keys) == 0 {
		keys = append(keys, Key{Board: board})
	}
	return keys, names, nil
}

// Load parses the map file at path. A missing file yields an empty map.
func Load(path, key string) (Map, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			utils.Log.Infof("No %s map found at %s", key, path)
			return Map{}, nil
		}
		return nil, err
	}
	defer f.Close()

	m, err := Parse(f, key)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	utils.Log.Infof("Loaded %d %s rules from %s", len(m), key, path)
	return m, nil
}
