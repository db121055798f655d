package cli

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamestrimble/maximal-clique/pkg/errors"
	cio "github.com/jamestrimble/maximal-clique/pkg/io"
	"github.com/jamestrimble/maximal-clique/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output file path (stdout if empty)
	format     string // "svg" or "dot"
	highlight  string // comma-separated vertices to fill
	symmetrize bool
	noCache    bool
	refresh    bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Draw a graph as SVG or Graphviz DOT",
		Long: `Draw an edge-list graph with Graphviz.

Symmetric graphs are drawn undirected. SVG output is limited to graphs of at
most ` + strconv.Itoa(pipeline.MaxRenderVertices) + ` vertices and is cached.`,
		Example: `  cliquecount render graph.txt -o graph.svg
  cliquecount render graph.txt --format dot --highlight 0,3,5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format == "" {
				opts.format = formatFromPath(opts.output)
			}
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			highlight, err := parseVertexList(opts.highlight)
			if err != nil {
				return err
			}
			return c.runRender(cmd, args[0], highlight, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	f.StringVarP(&opts.format, "format", "f", "", "output format: svg, dot (default from -o extension, else svg)")
	f.StringVar(&opts.highlight, "highlight", "", "comma-separated vertices to highlight, e.g. 0,3,5")
	f.BoolVar(&opts.symmetrize, "symmetrize", false, "add the reverse of every edge record")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	f.BoolVar(&opts.refresh, "refresh", false, "redraw even if a cached drawing exists")

	return cmd
}

func formatFromPath(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".dot") || strings.HasSuffix(strings.ToLower(path), ".gv") {
		return pipeline.FormatDOT
	}
	return pipeline.FormatSVG
}

// parseVertexList parses "1,2,3" into vertex numbers.
func parseVertexList(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return nil, errors.New(errors.ErrCodeInvalidOption, "invalid vertex %q in --highlight", p)
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *CLI) runRender(cmd *cobra.Command, input string, highlight []int, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	el, err := cio.ImportFile(input, cio.ReadOptions{
		Symmetrize:  opts.symmetrize,
		MaxVertices: c.Config.Search.MaxVertices,
	})
	if err != nil {
		return err
	}
	for _, w := range el.Warnings() {
		logger.Warn(w, "source", input)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	var spin *Spinner
	if opts.format == pipeline.FormatSVG && isTerminal(c.Err) {
		spin = newSpinner(ctx, c.Err, "Laying out graph...")
		spin.Start()
	}
	data, cached, err := runner.Render(ctx, el.Graph, pipeline.RenderOptions{
		Format:    opts.format,
		Highlight: highlight,
		Refresh:   opts.refresh,
	})
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err = c.Out.Write(data)
		return err
	}
	if err := errors.ValidatePath(opts.output); err != nil {
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}
	if cached {
		logger.Debug("render cache hit", "source", input)
	}
	prog.done("Rendered " + input)
	printFile(c.Err, opts.output)
	return nil
}
