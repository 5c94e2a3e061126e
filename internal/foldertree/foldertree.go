// Package foldertree renders a project folder as a text tree followed by the
// contents of selected source files. The output is meant to be pasted into a
// code review or a chat as a single self-contained snapshot of a project.
package foldertree

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultExtensions lists the file extensions whose contents are included
// when Options.Extensions is empty.
var DefaultExtensions = []string{
	".py", ".js", ".html", ".css", ".java", ".cpp", ".c", ".h",
	".txt", ".md", ".json", ".xml", ".yaml", ".yml", ".go",
}

// Options selects what Build keeps from the folder.
//
// Exclude and Collapse hold slash-separated paths relative to the base
// folder, e.g. "vendor" or "web/node_modules". "." collapses the base itself.
type Options struct {
	Extensions []string
	Exclude    []string
	Collapse   []string
}

// Node is one entry in the tree.
type Node struct {
	Name      string  `yaml:"name"`
	Dir       bool    `yaml:"dir,omitempty"`
	Include   bool    `yaml:"include_content,omitempty"`
	Collapsed bool    `yaml:"collapsed,omitempty"`
	Denied    bool    `yaml:"permission_denied,omitempty"`
	Children  []*Node `yaml:"children,omitempty"`

	// Path is the entry's location on disk.
	Path string `yaml:"-"`
	// Rel is the entry's slash-separated path relative to the base folder.
	Rel string `yaml:"-"`
}

// Build walks base and returns its tree. Entries whose name starts with "."
// are skipped. Children are ordered folders first, then by name ignoring case.
func Build(base string, opts Options) (*Node, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("foldertree.Build: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("foldertree.Build: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("foldertree.Build: %s is not a directory", base)
	}

	b := builder{
		exts:     extensionSet(opts.Extensions),
		exclude:  pathSet(opts.Exclude),
		collapse: pathSet(opts.Collapse),
	}
	root := &Node{Name: filepath.Base(abs), Dir: true, Path: abs, Rel: "."}
	if err := b.fill(root); err != nil {
		return nil, fmt.Errorf("foldertree.Build: %w", err)
	}
	return root, nil
}

type builder struct {
	exts     map[string]bool
	exclude  map[string]bool
	collapse map[string]bool
}

func (b builder) fill(dir *Node) error {
	if b.collapse[dir.Rel] {
		dir.Collapsed = true
		return nil
	}

	entries, err := os.ReadDir(dir.Path)
	if errors.Is(err, fs.ErrPermission) {
		dir.Denied = true
		return nil
	}
	if err != nil {
		return err
	}

	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		rel := path.Join(dir.Rel, e.Name())
		if b.exclude[rel] {
			continue
		}
		child := &Node{
			Name: e.Name(),
			Dir:  e.IsDir(),
			Path: filepath.Join(dir.Path, e.Name()),
			Rel:  rel,
		}
		if child.Dir {
			if err := b.fill(child); err != nil {
				return err
			}
		} else {
			child.Include = b.exts[filepath.Ext(e.Name())]
		}
		dir.Children = append(dir.Children, child)
	}

	slices.SortFunc(dir.Children, compareNodes)
	return nil
}

func compareNodes(a, b *Node) int {
	if a.Dir != b.Dir {
		if a.Dir {
			return -1
		}
		return 1
	}
	return cmp.Or(
		strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
		strings.Compare(a.Name, b.Name),
	)
}

// Files returns the files whose contents belong in the report, in tree order.
// Collapsed folders contribute nothing because Build does not descend into them.
func (n *Node) Files() []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			if c.Dir {
				walk(c)
			} else if c.Include {
				out = append(out, c)
			}
		}
	}
	walk(n)
	return out
}

// extensionSet normalises "go" and ".go" to ".go". An empty list selects
// DefaultExtensions.
func extensionSet(exts []string) map[string]bool {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = true
	}
	return set
}

func pathSet(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		set[path.Clean(filepath.ToSlash(p))] = true
	}
	return set
}
