// Command pandagen compiles a declaration-source file (spec.md §6.1) into
// a built graph and renders it three ways: a build report, Graphviz DOT, or
// a specialized Go walker (internal/codegen) — the Go-native counterpart
// of original_source/main.cpp's -o {foo.dot,foo.c} output dispatch.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gopanda/panda/internal/codegen"
	"github.com/gopanda/panda/internal/decl"
	"github.com/gopanda/panda/internal/graph"
	"github.com/gopanda/panda/internal/parsers"
)

var (
	logger  *zap.Logger
	outPath string
	pkgName string
)

func main() {
	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pandagen: failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	root := &cobra.Command{
		Use:           "pandagen",
		Short:         "Compile a PANDA-style declaration-source file into a parse graph",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBuildCmd(), newDotCmd(), newGenCmd())

	if err := root.Execute(); err != nil {
		logger.Error("pandagen failed", zap.Error(err))
		os.Exit(1)
	}
}

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build <file.decl>",
		Short: "Parse and build a declaration source file, reporting roots, nodes, and cycles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := buildFromFile(args[0])
			if err != nil {
				return err
			}
			logger.Info("build succeeded",
				zap.Int("nodes", len(g.Nodes)),
				zap.Int("roots", len(g.Roots)),
				zap.Int("back_edges", len(g.BackEdges())))
			for name, r := range g.Roots {
				fmt.Printf("root %q -> %s (%s)\n", name, r.Node.Name, r.Desc)
			}
			for _, e := range g.BackEdges() {
				fmt.Printf("cycle: %s -> %s (key 0x%x)\n", e.From, e.To, e.Key)
			}
			return nil
		},
	}
}

func newDotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dot <file.decl>",
		Short: "Render a declaration source file's graph as Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := buildFromFile(args[0])
			if err != nil {
				return err
			}
			return writeOutput(codegen.DOT(g))
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default: stdout)")
	return cmd
}

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen <file.decl>",
		Short: "Generate a specialized Go walker for a declaration source file's graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := buildFromFile(args[0])
			if err != nil {
				return err
			}
			src, err := codegen.Generate(g, codegen.Options{Package: pkgName})
			if err != nil {
				return fmt.Errorf("pandagen: codegen: %w", err)
			}
			return writeOutput(src)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default: stdout)")
	cmd.Flags().StringVar(&pkgName, "package", "generated", "package name for the generated Go source")
	return cmd
}

func buildFromFile(path string) (*graph.Graph, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pandagen: read %s: %w", path, err)
	}
	p, err := decl.NewParser(string(src))
	if err != nil {
		return nil, fmt.Errorf("pandagen: %s: %w", path, err)
	}
	prog, err := p.Parse()
	if err != nil {
		return nil, fmt.Errorf("pandagen: %s: %w", path, err)
	}
	b := graph.NewBuilder()
	if err := decl.Apply(b, parsers.DefaultEnv(), prog); err != nil {
		return nil, fmt.Errorf("pandagen: %s: %w", path, err)
	}
	g, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("pandagen: %s: %w", path, err)
	}
	return g, nil
}

func writeOutput(data []byte) error {
	if outPath == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}
