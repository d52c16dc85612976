package cmd

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/hargabyte/doxir/internal/cache"
	"github.com/hargabyte/doxir/internal/config"
)

// cacheCmd groups cache maintenance subcommands
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the IR cache",
	Long: `The IR cache in .doxir/cache.db stores the extracted IR of every header
that extracted without problems, keyed by file path, content hash and the
extraction options. parse and check reuse an entry only while all three
match.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached document",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

// openExistingCache opens the cache of the enclosing project without
// creating a .doxir directory.
func openExistingCache() (*cache.Cache, error) {
	dir, err := config.FindConfigDir(".")
	if err != nil {
		return nil, errors.WithHint(err, "run 'doxir init' or 'doxir parse' first")
	}
	return cache.Open(dir)
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := resolveFormat(cfg)
	if err != nil {
		return err
	}

	c, err := openExistingCache()
	if err != nil {
		return err
	}
	defer closeCache(c)

	stats, err := c.GetStats()
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), format, stats)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	c, err := openExistingCache()
	if err != nil {
		return err
	}
	defer closeCache(c)

	if err := c.Clear(); err != nil {
		return err
	}
	cmd.Println("Cache cleared:", c.Path())
	return nil
}
