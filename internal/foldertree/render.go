package foldertree

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	branch     = "├─ "
	lastBranch = "└─ "
	pipe       = "│  "
	blank      = "   "

	separatorWidth = 50
)

// Lines renders the tree. The first line is the base folder; every other
// line is prefixed with box-drawing connectors. Folders end in "/".
func (n *Node) Lines() []string {
	lines := []string{n.Name + "/"}
	return n.appendChildren(lines, "")
}

func (n *Node) appendChildren(lines []string, prefix string) []string {
	switch {
	case n.Collapsed:
		return append(lines, prefix+lastBranch+"... (content omitted)")
	case n.Denied:
		return append(lines, prefix+lastBranch+"... (permission denied)")
	}

	for i, c := range n.Children {
		last := i == len(n.Children)-1
		connector, next := branch, pipe
		if last {
			connector, next = lastBranch, blank
		}
		name := c.Name
		if c.Dir {
			name += "/"
		}
		lines = append(lines, prefix+connector+name)
		if c.Dir {
			lines = c.appendChildren(lines, prefix+next)
		}
	}
	return lines
}

// Report returns the full text report: the folder structure followed by the
// contents of every included file. Each file is headed by its path relative
// to the base folder's parent, so the base folder name appears in it.
func Report(root *Node) string {
	out := []string{"<PROJECT FOLDER STRUCTURE>"}
	out = append(out, root.Lines()...)
	out = append(out, "\n<SELECTED FILES>")

	files := root.Files()
	if len(files) == 0 {
		out = append(out, "(No file contents to display)")
		return strings.Join(out, "\n")
	}

	for _, f := range files {
		out = append(out,
			"\n"+filepath.Join(root.Name, filepath.FromSlash(f.Rel)),
			strings.Repeat("-", separatorWidth),
			readContent(f.Path),
			"",
		)
	}
	return strings.Join(out, "\n")
}

// readContent returns the file as text with invalid UTF-8 dropped. A read
// failure is reported inline so one bad file does not abort the report.
func readContent(name string) string {
	b, err := os.ReadFile(name)
	if err != nil {
		return fmt.Sprintf("Error reading file: %v", err)
	}
	return strings.ToValidUTF8(string(b), "")
}

// WriteYAML encodes the tree as YAML.
func WriteYAML(w io.Writer, root *Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("foldertree.WriteYAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("foldertree.WriteYAML: %w", err)
	}
	return nil
}
