package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	"github.com/spf13/pflag"

	"github.com/stigoleg/keepalive-motion/internal/cli"
)

// gen-docs writes shell completions, man pages and markdown reference
// pages generated from the keepalive command tree.

const dirPerm = 0o755

func main() {
	out := pflag.String("out", ".", "Output root; files go to completions/, man/ and docs/ below it")
	version := pflag.String("version", "dev", "Version shown in the man page footer")
	pflag.Parse()

	root := cli.NewRootCommand(*version)
	root.DisableAutoGenTag = true

	if err := writeCompletions(root, filepath.Join(*out, "completions")); err != nil {
		fail(err)
	}
	if err := writeMan(root, filepath.Join(*out, "man"), *version); err != nil {
		fail(err)
	}
	if err := writeMarkdown(root, filepath.Join(*out, "docs")); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func writeCompletions(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create completion directory: %w", err)
	}

	name := root.Name()
	targets := []struct {
		file string
		gen  func(path string) error
	}{
		{name + ".bash", func(p string) error { return root.GenBashCompletionFileV2(p, true) }},
		{"_" + name, root.GenZshCompletionFile},
		{name + ".fish", func(p string) error { return root.GenFishCompletionFile(p, true) }},
		{name + ".ps1", root.GenPowerShellCompletionFileWithDesc},
	}
	for _, t := range targets {
		if err := t.gen(filepath.Join(dir, t.file)); err != nil {
			return fmt.Errorf("generate %s: %w", t.file, err)
		}
	}
	return nil
}

func writeMan(root *cobra.Command, dir, version string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create man directory: %w", err)
	}
	header := &doc.GenManHeader{
		Title:   "KEEPALIVE",
		Section: "1",
		Source:  "keepalive " + version,
		Manual:  "User Commands",
	}
	if err := doc.GenManTree(root, header, dir); err != nil {
		return fmt.Errorf("generate man pages: %w", err)
	}
	return nil
}

func writeMarkdown(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create docs directory: %w", err)
	}
	if err := doc.GenMarkdownTree(root, dir); err != nil {
		return fmt.Errorf("generate markdown docs: %w", err)
	}
	return nil
}
