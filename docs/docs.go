//go:build docs

package main

import (
	"fmt"
	"os"
	"path"
	"strings"

	log "github.com/rs/zerolog"
	"github.com/spf13/cobra/doc"

	"github.com/maxgio92/ioprofile/internal/settings"
	"github.com/maxgio92/ioprofile/pkg/cmd"
)

const (
	docsDir        = "docs"
	readmeTemplate = "README.md.tpl"
	readmeFile     = "README.md"
	templateMarker = "{{ .CLI_REFERENCE }}"
)

// link points the root command page to the README and the subcommands
// to their pages under docs/.
func link(filename string) string {
	if filename == settings.CmdName+".md" {
		return readmeFile
	}

	return path.Join(docsDir, filename)
}

func noFrontMatter(string) string { return "" }

func main() {
	root := cmd.NewCommand(cmd.NewOptions(
		cmd.WithLogger(log.New(os.Stderr).Level(log.InfoLevel)),
	))
	if err := doc.GenMarkdownTreeCustom(root, docsDir, noFrontMatter, link); err != nil {
		fmt.Fprintln(os.Stderr, "failed to generate CLI reference:", err)
		os.Exit(1)
	}

	tpl, err := os.ReadFile(readmeTemplate)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to read README template:", err)
		os.Exit(1)
	}
	reference, err := os.ReadFile(path.Join(docsDir, settings.CmdName+".md"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to read CLI reference:", err)
		os.Exit(1)
	}

	readme := strings.Replace(string(tpl), templateMarker, string(reference), 1)
	if err := os.WriteFile(readmeFile, []byte(readme), 0644); err != nil {
		fmt.Fprintln(os.Stderr, "failed to write README:", err)
		os.Exit(1)
	}
}
