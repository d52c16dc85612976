package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hargabyte/doxir/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .doxir/config.yaml with default settings",
	Long: `Create the .doxir directory and a config.yaml holding the default
settings in the current directory. The IR cache lives next to it.

Examples:
  doxir init`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	existing := filepath.Join(cwd, config.ConfigDirName, config.ConfigFileName)
	if _, err := os.Stat(existing); err == nil {
		rel, _ := filepath.Rel(cwd, existing)
		cmd.Printf("Already initialized at %s\n", rel)
		return nil
	}

	path, err := config.SaveDefault(cwd)
	if err != nil {
		return err
	}
	rel, _ := filepath.Rel(cwd, path)
	cmd.Printf("Wrote %s\n", rel)
	return nil
}
