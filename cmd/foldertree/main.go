// Command foldertree prints a folder's structure followed by the contents of
// its source files, ready to paste into a review or a chat.
//
//	foldertree ./backend --collapse migrations --exclude vendor -o snapshot.txt
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkordes/notekeeper/internal/foldertree"
	"github.com/pkordes/notekeeper/internal/logging"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

type flags struct {
	extensions []string
	exclude    []string
	collapse   []string
	output     string
	format     string
	logLevel   string
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:          "foldertree [folder]",
		Short:        "Print a folder tree and the contents of its source files",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			base := "."
			if len(args) == 1 {
				base = args[0]
			}
			log := logging.New(cmd.ErrOrStderr(), f.logLevel, true)
			return run(stdout, log, base, f)
		},
	}

	cmd.Flags().StringSliceVar(&f.extensions, "ext", foldertree.DefaultExtensions, "file extensions whose contents are included")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "paths relative to the folder to leave out entirely")
	cmd.Flags().StringSliceVar(&f.collapse, "collapse", nil, "folders to show without their contents")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the report to this file instead of stdout")
	cmd.Flags().StringVar(&f.format, "format", "text", "output format: text or yaml")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	return cmd
}

func run(stdout io.Writer, log *slog.Logger, base string, f flags) error {
	if f.format != "text" && f.format != "yaml" {
		return fmt.Errorf("unknown format %q: want text or yaml", f.format)
	}

	root, err := foldertree.Build(base, foldertree.Options{
		Extensions: f.extensions,
		Exclude:    f.exclude,
		Collapse:   f.collapse,
	})
	if err != nil {
		return err
	}
	log.Debug("folder scanned", "base", root.Path, "files", len(root.Files()))

	w := stdout
	if f.output != "" {
		file, err := os.Create(f.output)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}

	if f.format == "yaml" {
		err = foldertree.WriteYAML(w, root)
	} else {
		_, err = io.WriteString(w, foldertree.Report(root)+"\n")
	}
	if err != nil {
		return err
	}

	if f.output != "" {
		log.Info("report written", "path", f.output)
	}
	return nil
}
