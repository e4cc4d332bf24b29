/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Command docgen writes the rebake CLI reference as markdown.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	rebakecmd "github.com/orien/rebake/cmd"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func main() {
	outputDir := filepath.Join("docs", "reference", "cli")
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}

	if err := generate(outputDir); err != nil {
		log.Fatal(err)
	}
}

func generate(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := removeMarkdown(outputDir); err != nil {
		return fmt.Errorf("clean output directory: %w", err)
	}

	root := rebakecmd.RootCommand()
	walk(root, func(c *cobra.Command) { c.DisableAutoGenTag = true })

	if err := doc.GenMarkdownTreeCustom(root, outputDir, frontMatter, linkHandler); err != nil {
		return fmt.Errorf("generate markdown documentation: %w", err)
	}
	return nil
}

func removeMarkdown(dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return err
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil {
			return err
		}
	}
	return nil
}

func walk(cmd *cobra.Command, fn func(*cobra.Command)) {
	fn(cmd)
	for _, child := range cmd.Commands() {
		walk(child, fn)
	}
}

// frontMatter titles each page after its command path
func frontMatter(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return fmt.Sprintf("---\ntitle: %q\n---\n\n", strings.ReplaceAll(base, "_", " "))
}

func linkHandler(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
}
