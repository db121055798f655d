package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jamestrimble/maximal-clique/pkg/errors"
	"github.com/jamestrimble/maximal-clique/pkg/pipeline"
	"github.com/jamestrimble/maximal-clique/pkg/vset"
)

// Output formats for the count command.
const (
	outputPlain  = "plain"  // steps then cliques, one per line
	outputPretty = "pretty" // styled summary
	outputJSON   = "json"   // pipeline.Result objects
)

// countOpts holds the command-line flags for the count command.
type countOpts struct {
	sets        string
	noReorder   bool
	noSort      bool
	symmetrize  bool
	maxVertices int
	jobs        int
	timeout     time.Duration
	output      string
	noCache     bool
	refresh     bool
	tui         bool
}

// countCommand creates the count command.
func (c *CLI) countCommand() *cobra.Command {
	var opts countOpts

	cmd := &cobra.Command{
		Use:   "count [file...]",
		Short: "Count the maximal cliques of one or more graphs",
		Long: `Count the maximal cliques of graphs given as edge lists.

Each file holds the vertex count n on the first line, the number of records m
on the second, and then m lines "v,w". Files ending in .gz, .zst or .lz4 are
decompressed. Use "-" to read from standard input.

By default the output is the number of recursive calls followed by the number
of maximal cliques, one per line.`,
		Example: `  cliquecount count graph.txt
  cliquecount count --sets bitset --format pretty graph.txt.zst
  cliquecount generate 200 0.5 | cliquecount count -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applySearchConfig(cmd, &opts)
			if err := opts.validate(args); err != nil {
				return err
			}
			return c.runCount(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.sets, "sets", string(vset.DefaultKind), "vertex set backing: stamp, bitset, roaring")
	f.BoolVar(&opts.noReorder, "no-reorder", false, "keep the input vertex numbering instead of ordering by degree")
	f.BoolVar(&opts.noSort, "no-sort", false, "branch in set order instead of ascending vertex order")
	f.BoolVar(&opts.symmetrize, "symmetrize", false, "add the reverse of every edge record")
	f.IntVar(&opts.maxVertices, "max-vertices", 0, "reject graphs declaring more vertices (0 = built-in limit)")
	f.IntVarP(&opts.jobs, "jobs", "j", pipeline.DefaultJobs, "graphs to count concurrently")
	f.DurationVar(&opts.timeout, "timeout", 0, "stop the search after this long (0 = no limit)")
	f.StringVarP(&opts.output, "format", "f", outputPlain, "output format: plain, pretty, json")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	f.BoolVar(&opts.refresh, "refresh", false, "recount even if a cached result exists")
	f.BoolVar(&opts.tui, "tui", false, "show a live view of the search (single graph only)")

	return cmd
}

// applySearchConfig fills flags the user did not set from the config file.
func (c *CLI) applySearchConfig(cmd *cobra.Command, opts *countOpts) {
	sc := c.Config.Search
	flags := cmd.Flags()
	if !flags.Changed("sets") && sc.Sets != "" {
		opts.sets = sc.Sets
	}
	if !flags.Changed("no-reorder") {
		opts.noReorder = sc.NoReorder
	}
	if !flags.Changed("no-sort") {
		opts.noSort = sc.NoSort
	}
	if !flags.Changed("symmetrize") {
		opts.symmetrize = sc.Symmetrize
	}
	if !flags.Changed("max-vertices") && sc.MaxVertices > 0 {
		opts.maxVertices = sc.MaxVertices
	}
	if !flags.Changed("jobs") && sc.Jobs > 0 {
		opts.jobs = sc.Jobs
	}
	if !flags.Changed("timeout") && sc.Timeout > 0 {
		opts.timeout = sc.Timeout
	}
}

func (o *countOpts) validate(args []string) error {
	switch o.output {
	case outputPlain, outputPretty, outputJSON:
	default:
		return errors.New(errors.ErrCodeInvalidOption, "invalid format: %q (must be one of: plain, pretty, json)", o.output)
	}
	if _, err := vset.ParseKind(o.sets); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOption, err, "--sets")
	}
	if o.jobs < 1 {
		return errors.New(errors.ErrCodeInvalidOption, "--jobs must be at least 1")
	}
	if o.tui && (len(args) != 1 || args[0] == "-") {
		return errors.New(errors.ErrCodeInvalidOption, "--tui takes exactly one graph file")
	}
	return nil
}

func (o *countOpts) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Sets:        o.sets,
		NoReorder:   o.noReorder,
		NoSort:      o.noSort,
		Symmetrize:  o.symmetrize,
		MaxVertices: o.maxVertices,
		Refresh:     o.refresh,
	}
}

func (c *CLI) runCount(cmd *cobra.Command, args []string, opts countOpts) error {
	ctx := cmd.Context()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if opts.tui {
		return c.runCountTUI(ctx, cmd, runner, args[0], opts)
	}

	popts := opts.pipelineOptions()
	var spin *Spinner
	if opts.output == outputPretty && isTerminal(c.Err) {
		spin = newSpinner(ctx, c.Err, "Counting maximal cliques...")
		popts.Progress = func(steps, cliques int64) {
			spin.Update(fmt.Sprintf("Counting maximal cliques... %s steps, %s found", formatCount(steps), formatCount(cliques)))
		}
		spin.Start()
	}

	prog := newProgress(logger)
	var results []*pipeline.Result
	if len(args) == 1 && args[0] == "-" {
		var res *pipeline.Result
		res, err = runner.ExecuteReader(ctx, cmd.InOrStdin(), "stdin", popts)
		results = []*pipeline.Result{res}
	} else {
		results, err = runner.ExecuteAll(ctx, args, opts.jobs, popts)
	}
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Counted %d graph(s)", len(results)))

	return writeResults(c.Out, opts.output, results)
}

func writeResults(w io.Writer, format string, results []*pipeline.Result) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(results) == 1 {
			return enc.Encode(results[0])
		}
		return enc.Encode(results)
	case outputPretty:
		for i, res := range results {
			if i > 0 {
				fmt.Fprintln(w)
			}
			printResult(w, res)
		}
		return nil
	}
	for _, res := range results {
		if len(results) > 1 {
			fmt.Fprintf(w, "# %s\n", res.Source)
		}
		fmt.Fprintf(w, "%d\n%d\n", res.Steps, res.Cliques)
	}
	return nil
}

// printResult writes the styled summary of one count.
func printResult(w io.Writer, res *pipeline.Result) {
	printSuccess(w, "%s", StyleTitle.Render(res.Source))
	printStats(w, res.Vertices, res.Records, res.CacheHit)
	printKeyValue(w, "cliques", StyleNumber.Render(formatCount(res.Cliques)))
	printKeyValue(w, "steps", formatCount(res.Steps))
	printKeyValue(w, "largest", fmt.Sprintf("%d", res.MaxDepth))
	printKeyValue(w, "sets", res.Sets)
	if !res.CacheHit {
		printKeyValue(w, "time", res.Stats.Total().Round(time.Millisecond).String())
	}
	for _, warning := range res.Warnings {
		printWarning(w, "%s", warning)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
