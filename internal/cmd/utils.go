package cmd

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/hargabyte/doxir/internal/cache"
	"github.com/hargabyte/doxir/internal/config"
	"github.com/hargabyte/doxir/internal/exclude"
	"github.com/hargabyte/doxir/internal/extract"
	"github.com/hargabyte/doxir/internal/logger"
	"github.com/hargabyte/doxir/internal/output"
)

// Shared utility functions for command implementations

// loadConfig loads --config when given, otherwise searches upward from the
// working directory.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, errors.Wrapf(err, "config %s", configPath)
		}
		return config.LoadFromPath(configPath)
	}
	return config.Load(".")
}

// extractOptions maps configuration onto extractor options.
func extractOptions(cfg *config.Config) extract.Options {
	return extract.Options{
		ContainerKeyword:     cfg.Extract.ContainerKeyword,
		DisambiguationMarker: cfg.Extract.DisambiguationMarker,
		FailurePolicy:        extract.FailurePolicy(cfg.Extract.FailurePolicy),
		Logger:               logger.Logger,
	}
}

// resolveFormat lets --format override output.format.
func resolveFormat(cfg *config.Config) (output.Format, error) {
	if outputFormat != "" {
		return output.ParseFormat(outputFormat)
	}
	return output.ParseFormat(cfg.Output.Format)
}

// openCache opens the IR cache in the project's .doxir directory, creating
// it in the working directory when none exists. It returns nil when caching
// is disabled.
func openCache(cfg *config.Config) (*cache.Cache, error) {
	if noCache || !cfg.Cache.IsEnabled() {
		return nil, nil
	}
	dir, err := config.FindConfigDir(".")
	if err != nil {
		if dir, err = config.EnsureConfigDir("."); err != nil {
			return nil, err
		}
	}
	return cache.Open(dir)
}

// closeCache closes c if it is open.
func closeCache(c *cache.Cache) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logger.Logger.Warnw("closing cache", "error", err)
	}
}

// collectInputs expands the command line into XML files. Files are taken
// as given; directories are walked and files whose base name matches the
// include glob are kept, skipping tooling state and dependency
// directories. The result is deduplicated and, per directory,
// sorted so runs are reproducible.
func collectInputs(args []string, include string) ([]string, error) {
	if len(args) == 0 {
		return nil, errors.New("no input files given")
	}

	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "input %s", arg)
		}
		if !info.IsDir() {
			add(filepath.Clean(arg))
			continue
		}

		excluded := exclude.Detect(arg)
		for _, dir := range excluded.Directories {
			logger.Logger.Debugw("excluding directory", "dir", filepath.Join(arg, dir), "reason", excluded.Reasons[dir])
		}

		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == arg {
					return nil
				}
				if rel, relErr := filepath.Rel(arg, path); relErr == nil && excluded.Skips(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if ok, _ := filepath.Match(include, d.Name()); ok {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walking %s", arg)
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}

	if len(files) == 0 {
		return nil, errors.Newf("no files matching %q", include)
	}
	return files, nil
}

// writeOutput renders v to w in the given format.
func writeOutput(w io.Writer, format output.Format, v any) error {
	f, err := output.GetFormatter(format)
	if err != nil {
		return err
	}
	return f.FormatToWriter(w, v)
}
