// Command pandatui is an interactive terminal browser over a built parse
// graph: a table of reachable nodes and dispatch tables, paired with a
// scratch pane that runs hand-entered hex packets through the walk engine
// and shows the resulting frames and stop code.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gopanda/panda/internal/decl"
	"github.com/gopanda/panda/internal/graph"
	"github.com/gopanda/panda/internal/parsers"
)

var declPath string

func main() {
	root := &cobra.Command{
		Use:           "pandatui",
		Short:         "Browse a parse graph and test hex packets against it interactively",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}
	root.Flags().StringVar(&declPath, "decl", "", "declaration-source file to browse (default: the built-in reference graph)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pandatui: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	g := parsers.Big
	if declPath != "" {
		loaded, err := loadDeclGraph(declPath)
		if err != nil {
			return err
		}
		g = loaded
	}

	p := tea.NewProgram(New(g), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// loadDeclGraph compiles a .decl text file the same way cmd/pandagen does,
// against the reference symbol table, so pandatui can browse a
// hand-written graph instead of the built-in one.
func loadDeclGraph(path string) (*graph.Graph, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := decl.NewParser(string(src))
	if err != nil {
		return nil, err
	}
	prog, err := p.Parse()
	if err != nil {
		return nil, err
	}
	b := graph.NewBuilder()
	if err := decl.Apply(b, parsers.DefaultEnv(), prog); err != nil {
		return nil, err
	}
	return b.Build()
}
