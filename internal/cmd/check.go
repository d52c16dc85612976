package cmd

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/hargabyte/doxir/internal/extract"
	"github.com/hargabyte/doxir/internal/logger"
	"github.com/hargabyte/doxir/internal/output"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <file|dir>...",
	Short: "Validate HeaderDoc XML without emitting IR",
	Long: `Validate HeaderDoc XML against the attribute rules, the name uniqueness
rules and the structural requirements of the IR.

Unlike parse, check never stops at the first failing declaration: every
problem in every header is reported, followed by a summary counting
problems by kind and by rule number. The exit status is non-zero when any
header has a problem, which makes check suitable for CI.`,
	Example: `  doxir check build/xml
  doxir check --format json canvas.xml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

var checkWorkers int

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().IntVarP(&checkWorkers, "workers", "j", 0, "Concurrent headers (default: parse.workers)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	rs, err := loadRunSettings(args, true, checkWorkers)
	if err != nil {
		return err
	}

	// The cache never holds headers with problems, so a hit is a pass.
	c, err := openCache(rs.cfg)
	if err != nil {
		logger.Logger.Warnw("cache unavailable, continuing without it", "error", err)
		c = nil
	}
	defer closeCache(c)

	results := extractAll(cmd.Context(), c, rs.inputs, rs.opts, rs.workers)

	checked := make([]output.CheckResult, 0, len(results))
	for _, r := range results {
		checked = append(checked, checkResult(r))
	}
	out := output.NewCheckOutput(checked)

	if err := writeOutput(cmd.OutOrStdout(), rs.format, out); err != nil {
		return err
	}
	if !out.OK() {
		return errors.Newf("%d of %d headers have problems (%d problems)",
			out.Summary.Failed, out.Summary.Files, out.Summary.Problems)
	}
	return nil
}

func checkResult(r fileResult) output.CheckResult {
	res := output.CheckResult{File: r.path}
	if r.err != nil {
		res.Status = output.StatusFailed
		res.Message = r.err.Error()
		if e, ok := extract.AsError(r.err); ok {
			res.Problems = []*extract.Error{e}
		}
		return res
	}

	res.Header = r.doc.Name
	res.Declarations = len(r.doc.Declarations())
	res.Problems = r.doc.Skipped
	res.Status = output.StatusOK
	if len(r.doc.Skipped) > 0 {
		res.Status = output.StatusSkipped
	}
	return res
}
