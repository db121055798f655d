package cli

import (
	"math/rand/v2"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jamestrimble/maximal-clique/pkg/errors"
	"github.com/jamestrimble/maximal-clique/pkg/graph"
	cio "github.com/jamestrimble/maximal-clique/pkg/io"
)

type generateOpts struct {
	seed   uint64
	output string
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate <n> <p>",
		Short: "Write a random G(n, p) graph as an edge list",
		Long: `Write a random graph on n vertices in which every pair of vertices is
joined with probability p. Both directions of each edge are written.

Without --seed a random seed is chosen and logged at debug level.`,
		Example: `  cliquecount generate 100 0.5
  cliquecount generate 1000 0.1 --seed 7 -o g1000.txt.zst`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, p, err := parseGenerateArgs(args, c.Config.Search.MaxVertices)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				opts.seed = rand.Uint64()
			}
			return c.runGenerate(cmd, n, p, opts)
		},
	}

	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty; .gz, .zst and .lz4 are compressed)")

	return cmd
}

func parseGenerateArgs(args []string, maxVertices int) (int, float64, error) {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "vertex count %q is not an integer", args[0])
	}
	if err := errors.ValidateVertexCount(n, maxVertices); err != nil {
		return 0, 0, err
	}
	p, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "edge probability %q is not a number", args[1])
	}
	if err := errors.ValidateProbability(p); err != nil {
		return 0, 0, err
	}
	return n, p, nil
}

func (c *CLI) runGenerate(cmd *cobra.Command, n int, p float64, opts generateOpts) error {
	logger := loggerFromContext(cmd.Context())
	logger.Debug("generating graph", "n", n, "p", p, "seed", opts.seed)

	g := graph.Random(n, p, opts.seed)
	if opts.output == "" {
		return cio.WriteEdgeList(g, c.Out)
	}
	if err := errors.ValidatePath(opts.output); err != nil {
		return err
	}
	if err := cio.ExportFile(g, opts.output); err != nil {
		return err
	}
	logger.Infof("Wrote %d vertices, %d records to %s", g.Order(), g.Records(), opts.output)
	return nil
}
