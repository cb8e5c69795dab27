// Package manifest builds and renders the release-target documents consumed
// by the image build pipeline.
package manifest

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// CommonConfigsKey is the empty top-level key downstream parsers expect
// ahead of the runner anchor.
const CommonConfigsKey = "common-gha-configs"

// Header is written verbatim at the top of every document.
const Header = "#\n# Armbian release template. Auto-generated from image-info.json\n#\n" + CommonConfigsKey + ":\n"

// RunnersAnchor names the shared runner mapping every target pipeline aliases.
const RunnersAnchor = "armbian-gha"

// Config names.
const (
	ConfigImages    = "armbian-images"
	ConfigApps      = "armbian-apps"
	ConfigCommunity = "armbian-community"
)

// Releases holds the OS release codenames injected into the targets.
type Releases struct {
	Debian  string
	Ubuntu  string
	Nightly string
	Kali    string
}

var DefaultReleases = Releases{
	Debian:  "trixie",
	Ubuntu:  "noble",
	Nightly: "forky",
	Kali:    "sid",
}

// Entry is one board row of a list.
type Entry struct {
	Board      string
	Branch     string
	Extensions string
}

// List is a named, anchored board list.
type List struct {
	Name    string
	Entries []Entry
}

// Var is an ordered target variable.
type Var struct {
	Key   string
	Value string
}

// Target is a build target referencing lists by name.
type Target struct {
	Name    string
	Comment string
	Config  string
	Vars    []Var
	Items   []string
}

// Document is a complete manifest.
type Document struct {
	Lists   []List
	Targets []Target
	// Manual is appended under the targets section as-is.
	Manual string
}

// ListNames returns the names of the lists in d in order.
func (d Document) ListNames() []string {
	var names []string
	for _, l := range d.Lists {
		names = append(names, l.Name)
	}
	return names
}

// TargetNames returns the names of the targets in d in order.
func (d Document) TargetNames() []string {
	var names []string
	for _, t := range d.Targets {
		names = append(names, t.Name)
	}
	return names
}

// Target returns the target called name.
func (d Document) Target(name string) (Target, bool) {
	for _, t := range d.Targets {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}

func str(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

func quoted(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Value: value}
}

func flowSeq(values ...string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range values {
		n.Content = append(n.Content, quoted(v))
	}
	return n
}

func mapping(style yaml.Style) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Style: style}
}

func put(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, str(key), value)
}

// runners is the per-job runner label mapping shared by all targets.
func runners() *yaml.Node {
	byName := mapping(0)
	put(byName, "kernel", flowSeq("self-hosted", "Linux", "alfa"))
	put(byName, "uboot", flowSeq("self-hosted", "Linux", "fast", "X64"))
	put(byName, "armbian-bsp-cli", flowSeq("X64"))

	byArch := mapping(0)
	put(byArch, "rootfs-armhf", flowSeq("ubuntu-latest"))
	put(byArch, "rootfs-arm64", flowSeq("ubuntu-24.04-arm"))
	put(byArch, "rootfs-amd64", flowSeq("self-hosted", "Linux", "X64"))
	put(byArch, "rootfs-riscv64", flowSeq("ubuntu-latest"))
	put(byArch, "rootfs-loong64", flowSeq("self-hosted", "Linux", "X64"))
	put(byArch, "image-armhf", flowSeq("self-hosted", "Linux", "images", "X64"))
	put(byArch, "image-arm64", flowSeq("self-hosted", "Linux", "images", "ARM64"))
	put(byArch, "image-amd64", flowSeq("self-hosted", "Linux", "images", "X64"))
	put(byArch, "image-riscv64", flowSeq("self-hosted", "Linux", "images", "X64"))
	put(byArch, "image-loong64", flowSeq("self-hosted", "Linux", "images", "X64"))

	r := mapping(0)
	put(r, "default", quoted("ubuntu-latest"))
	put(r, "by-name", byName)
	put(r, "by-name-and-arch", byArch)

	gha := mapping(0)
	gha.Anchor = RunnersAnchor
	put(gha, "runners", r)
	return gha
}

func entryNode(e Entry) *yaml.Node {
	m := mapping(yaml.FlowStyle)
	put(m, "BOARD", str(e.Board))
	put(m, "BRANCH", str(e.Branch))
	if e.Extensions != "" {
		put(m, "ENABLE_EXTENSIONS", quoted(e.Extensions))
	}
	return m
}

func targetNode(t Target, anchors map[string]*yaml.Node, gha *yaml.Node) (*yaml.Node, error) {
	vars := mapping(0)
	for _, v := range t.Vars {
		if v.Key == "RELEASE" {
			put(vars, v.Key, str(v.Value))
		} else {
			put(vars, v.Key, quoted(v.Value))
		}
	}

	items := &yaml.Node{Kind: yaml.SequenceNode}
	for _, name := range t.Items {
		list, ok := anchors[name]
		if !ok {
			return nil, fmt.Errorf("target %s references unknown list %s", t.Name, name)
		}
		items.Content = append(items.Content, &yaml.Node{Kind: yaml.AliasNode, Value: name, Alias: list})
	}

	pipeline := mapping(0)
	put(pipeline, "gha", &yaml.Node{Kind: yaml.AliasNode, Value: RunnersAnchor, Alias: gha})

	m := mapping(0)
	put(m, "enabled", str("yes"))
	put(m, "configs", &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle, Content: []*yaml.Node{str(t.Config)}})
	put(m, "pipeline", pipeline)
	put(m, "build-image", quoted("yes"))
	put(m, "vars", vars)
	put(m, "items", items)
	return m, nil
}

// Node converts d into a YAML mapping node with anchored lists and aliased
// references. The manual appendix is not part of the node tree.
func (d Document) Node() (*yaml.Node, error) {
	root := mapping(0)
	gha := runners()
	put(root, RunnersAnchor, gha)

	anchors := make(map[string]*yaml.Node, len(d.Lists))
	if len(d.Lists) > 0 {
		lists := mapping(0)
		for _, l := range d.Lists {
			if _, dup := anchors[l.Name]; dup {
				return nil, fmt.Errorf("duplicate list %s", l.Name)
			}
			seq := &yaml.Node{Kind: yaml.SequenceNode, Anchor: l.Name}
			for _, e := range l.Entries {
				seq.Content = append(seq.Content, entryNode(e))
			}
			anchors[l.Name] = seq
			put(lists, l.Name, seq)
		}
		put(root, "lists", lists)
	}

	if len(d.Targets) > 0 {
		targets := mapping(0)
		for _, t := range d.Targets {
			n, err := targetNode(t, anchors, gha)
			if err != nil {
				return nil, err
			}
			key := str(t.Name)
			key.HeadComment = t.Comment
			targets.Content = append(targets.Content, key, n)
		}
		put(root, "targets", targets)
	}
	return root, nil
}

// Render encodes d, prefixed with Header and followed by the manual
// appendix indented under the targets section.
func Render(d Document) ([]byte, error) {
	root, err := d.Node()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(Header)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}

	if d.Manual != "" {
		if len(d.Targets) == 0 {
			buf.WriteString("targets:\n")
		}
		buf.WriteString("\n")
		buf.WriteString(IndentManual(d.Manual))
	}
	return buf.Bytes(), nil
}

// IndentManual prefixes every non-blank line of s with two spaces.
func IndentManual(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = "  " + line
		}
	}
	return strings.Join(lines, "\n")
}
