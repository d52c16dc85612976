package cmd

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hargabyte/doxir/internal/cache"
	"github.com/hargabyte/doxir/internal/config"
	"github.com/hargabyte/doxir/internal/extract"
	"github.com/hargabyte/doxir/internal/logger"
	"github.com/hargabyte/doxir/internal/output"
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file|dir>...",
	Short: "Extract the typed IR from HeaderDoc XML",
	Long: `Extract the typed IR from HeaderDoc XML output.

Each argument is a HeaderDoc XML file or a directory searched recursively
for files matching parse.include (default *.xml). Headers are extracted
concurrently by parse.workers workers; output order follows input order.

By default the first failing declaration aborts its header, which is then
listed under failures. With --skip the failing declarations are dropped
and listed under the header's skipped entries instead.

Unchanged inputs are served from the IR cache in .doxir/cache.db.`,
	Example: `  doxir parse canvas.xml
  doxir parse --format json build/xml > ir.json
  doxir parse --skip --workers 8 build/xml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

var (
	parseSkip    bool
	parseWorkers int
)

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&parseSkip, "skip", false, "Skip failing declarations instead of aborting the header")
	parseCmd.Flags().IntVarP(&parseWorkers, "workers", "j", 0, "Concurrent headers (default: parse.workers)")
}

// fileResult is the outcome of extracting one input file.
type fileResult struct {
	path   string
	doc    *extract.HeaderDocument
	cached bool
	err    error
}

// runSettings bundles what parse and check need from config and flags.
type runSettings struct {
	cfg     *config.Config
	opts    extract.Options
	format  output.Format
	workers int
	inputs  []string
}

func loadRunSettings(args []string, skip bool, workers int) (*runSettings, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	format, err := resolveFormat(cfg)
	if err != nil {
		return nil, err
	}
	inputs, err := collectInputs(args, cfg.Parse.Include)
	if err != nil {
		return nil, err
	}

	opts := extractOptions(cfg)
	if skip {
		opts.FailurePolicy = extract.FailSkip
	}
	if workers <= 0 {
		workers = cfg.Parse.Workers
	}
	return &runSettings{cfg: cfg, opts: opts, format: format, workers: workers, inputs: inputs}, nil
}

func runParse(cmd *cobra.Command, args []string) error {
	rs, err := loadRunSettings(args, parseSkip, parseWorkers)
	if err != nil {
		return err
	}

	c, err := openCache(rs.cfg)
	if err != nil {
		logger.Logger.Warnw("cache unavailable, continuing without it", "error", err)
		c = nil
	}
	defer closeCache(c)

	results := extractAll(cmd.Context(), c, rs.inputs, rs.opts, rs.workers)

	out := &output.ParseOutput{}
	for _, r := range results {
		if r.err != nil {
			out.Failures = append(out.Failures, newFileFailure(r))
			continue
		}
		out.Headers = append(out.Headers, r.doc)
	}

	if err := writeOutput(cmd.OutOrStdout(), rs.format, out); err != nil {
		return err
	}
	if len(out.Failures) > 0 {
		return errors.Newf("%d of %d headers failed", len(out.Failures), len(results))
	}
	return nil
}

func newFileFailure(r fileResult) output.FileFailure {
	f := output.FileFailure{File: r.path, Message: r.err.Error()}
	if e, ok := extract.AsError(r.err); ok {
		f.Problem = e
	}
	return f
}

// extractAll extracts every path with at most workers concurrent
// extractions. Results are indexed like paths. Once ctx is done, remaining
// files fail with the context error.
func extractAll(ctx context.Context, c *cache.Cache, paths []string, opts extract.Options, workers int) []fileResult {
	if workers <= 0 {
		workers = 1
	}
	start := time.Now()
	results := make([]fileResult, len(paths))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			results[i].path = path
			if err := ctx.Err(); err != nil {
				results[i].err = err
				return nil
			}
			doc, hit, err := c.ExtractFile(path, opts)
			results[i].doc, results[i].cached, results[i].err = doc, hit, err
			if err != nil {
				logger.Logger.Debugw("header failed", "file", path, "error", err)
			} else {
				logger.Logger.Debugw("header extracted", "file", path, "cached", hit)
			}
			return nil
		})
	}
	_ = g.Wait()

	var hits int
	for _, r := range results {
		if r.cached {
			hits++
		}
	}
	logger.Logger.Infow("extraction finished",
		"files", len(paths),
		"cache_hits", hits,
		"workers", workers,
		"elapsed", time.Since(start))
	return results
}
