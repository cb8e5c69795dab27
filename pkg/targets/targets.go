// Package targets runs the whole generation pass: it loads the inventory and
// side tables, builds every manifest plus the exposure map, and writes them
// to the output directory.
package targets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/armbian/targetgen/internal/utils"
	"github.com/armbian/targetgen/pkg/exposure"
	"github.com/armbian/targetgen/pkg/extmap"
	"github.com/armbian/targetgen/pkg/inventory"
	"github.com/armbian/targetgen/pkg/manifest"
	"github.com/armbian/targetgen/pkg/partition"
	"github.com/armbian/targetgen/pkg/sidecar"
)

// Side table file names, resolved through Options.SearchPath.
const (
	ExtensionsMapName = "targets-extensions.map"
	RemoveMapName     = "targets-extensions.map.blacklist"
)

// Options configures a generation pass.
type Options struct {
	// Inventory is a local path or an http(s) URL.
	Inventory string
	OutputDir string
	// SearchDirs are consulted for the extension maps after OutputDir.
	SearchDirs []string
	Releases   manifest.Releases
	Fetch      inventory.FetchOptions
}

// SearchPath returns the directories searched for the extension maps.
func (o Options) SearchPath() []string {
	return append([]string{o.OutputDir}, o.SearchDirs...)
}

// Inputs are the loaded inventory and extension maps.
type Inputs struct {
	Records []inventory.Record
	Add     extmap.Map
	Remove  extmap.Map
}

// Partition partitions the inputs with blacklist applied.
func (in Inputs) Partition(blacklist map[string]struct{}) partition.Groups {
	return partition.Partition(in.Records, blacklist, in.Add, in.Remove)
}

// LoadInputs reads the extension maps and the inventory. Only the inventory
// is required.
func LoadInputs(ctx context.Context, opts Options) (*Inputs, error) {
	dirs := opts.SearchPath()

	add, err := extmap.Load(sidecar.Resolve(ExtensionsMapName, dirs), extmap.EnableKey)
	if err != nil {
		return nil, err
	}
	remove, err := extmap.Load(sidecar.Resolve(RemoveMapName, dirs), extmap.RemoveKey)
	if err != nil {
		return nil, err
	}

	records, err := inventory.Load(ctx, opts.Inventory, opts.Fetch)
	if err != nil {
		return nil, err
	}
	return &Inputs{Records: records, Add: add, Remove: remove}, nil
}

// Output is one generated file.
type Output struct {
	Name string
	Data []byte
}

// Plan holds every generated file, not yet written.
type Plan struct {
	Outputs []Output
	// Exposed are the groups the exposure map was computed from: primary
	// boards filtered by the standard-support blacklist and community boards
	// filtered by the community blacklist.
	Exposed  partition.Groups
	Patterns []string
}

// Build computes every output from in. Each manifest applies its own
// sidecar blacklist and manual appendix.
func Build(in *Inputs, opts Options) (*Plan, error) {
	plan := &Plan{}
	for _, kind := range manifest.Kinds {
		path := filepath.Join(opts.OutputDir, kind.FileName())
		side := sidecar.Load(path)
		groups := in.Partition(side.Blacklist)

		switch kind {
		case manifest.Standard:
			plan.Exposed.Primary = groups.Primary
		case manifest.Community:
			plan.Exposed.Community = groups.Community
		}

		doc, err := manifest.Build(kind, groups, opts.Releases, side.Manual)
		if err != nil {
			return nil, err
		}
		data, err := manifest.Render(doc)
		if err != nil {
			return nil, fmt.Errorf("could not render %s: %w", kind.FileName(), err)
		}
		utils.Log.Infof("%s: %d lists, %d targets", kind, len(doc.Lists), len(doc.Targets))
		plan.Outputs = append(plan.Outputs, Output{Name: kind.FileName(), Data: data})
	}

	plan.Patterns = exposure.Patterns(plan.Exposed.Primary, plan.Exposed.Community, exposure.Options{
		MinimalRelease: opts.Releases.Debian,
		DesktopRelease: opts.Releases.Ubuntu,
	})
	exposure.WarnSingleImageBoards(plan.Exposed.Primary, plan.Exposed.Community)
	plan.Outputs = append(plan.Outputs, Output{Name: exposure.FileName, Data: exposure.Render(plan.Patterns)})
	return plan, nil
}

// Write stores every output in dir while holding the output lock.
func (p *Plan) Write(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create output directory: %w", err)
	}

	lock, err := utils.NewOutputLock(dir)
	if err != nil {
		return nil, err
	}
	if err := lock.Lock(); err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			utils.Log.Warnf("%v", err)
		}
	}()

	var written []string
	for _, out := range p.Outputs {
		path := filepath.Join(dir, out.Name)
		if err := os.WriteFile(path, out.Data, 0o644); err != nil {
			return written, fmt.Errorf("could not write %s: %w", path, err)
		}
		utils.Log.Infof("Written %s", path)
		written = append(written, path)
	}
	return written, nil
}

// Generate loads the inputs, builds every output and writes them. Nothing is
// written when an input cannot be loaded.
func Generate(ctx context.Context, opts Options) ([]string, error) {
	in, err := LoadInputs(ctx, opts)
	if err != nil {
		return nil, err
	}
	plan, err := Build(in, opts)
	if err != nil {
		return nil, err
	}
	return plan.Write(opts.OutputDir)
}
