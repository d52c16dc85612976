package cmd

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/hargabyte/doxir/internal/config"
	"github.com/hargabyte/doxir/internal/extract"
	"github.com/hargabyte/doxir/internal/output"
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules [number]",
	Short: "List the numbered documentation attribute rules",
	Long: `List the attribute consistency rules in evaluation order.

Rule numbers are stable: diagnostics from parse and check cite them as
"rule N", so documentation can link to a specific rule.`,
	Example: `  doxir rules
  doxir rules 16`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	format, err := resolveFormat(cfg)
	if err != nil {
		return err
	}

	rules := extract.Rules()
	if len(args) == 1 {
		id, err := strconv.Atoi(args[0])
		if err != nil || id < 1 || id > len(rules) {
			return errors.Newf("no rule %q (rules are numbered 1-%d)", args[0], len(rules))
		}
		rules = rules[id-1 : id]
	}

	return writeOutput(cmd.OutOrStdout(), format, &output.RulesOutput{Rules: rules})
}
